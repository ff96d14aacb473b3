package models

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// Application permissions
const (
	PermissionWalletRead        = "wallet:read"
	PermissionWalletWrite       = "wallet:write"
	PermissionTransactionRead   = "transaction:read"
	PermissionTransactionWrite  = "transaction:write"
	PermissionTransactionSettle = "transaction:settle"
	PermissionAuditRead         = "audit:read"
)

type UserClaims struct {
	jwt.RegisteredClaims
	UserID       uint     `json:"user_id"`
	Email        string   `json:"email"`
	Role         string   `json:"role"`
	Permissions  []string `json:"permissions"`
	TokenVersion int      `json:"token_version"`
	Refresh      bool     `json:"refresh,omitempty"`
}

// HasPermission checks if the claims include a specific permission
func (c *UserClaims) HasPermission(permission string) bool {
	return slices.Contains(c.Permissions, permission)
}

// GetDefaultPermissions returns default permissions based on role
func GetDefaultPermissions(role string) []string {
	switch role {
	case "admin":
		return []string{
			PermissionWalletRead,
			PermissionWalletWrite,
			PermissionTransactionRead,
			PermissionTransactionWrite,
			PermissionTransactionSettle,
			PermissionAuditRead,
		}
	case "user":
		return []string{
			PermissionWalletRead,
			PermissionWalletWrite,
			PermissionTransactionRead,
			PermissionTransactionWrite,
		}
	default:
		return []string{}
	}
}

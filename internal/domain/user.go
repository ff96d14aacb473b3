package domain

import (
	"net/mail"
	"strings"
	"time"

	apperrors "ledgerpay/internal/errors"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User owns wallets and acts on them.
type User struct {
	id           uint
	email        string
	passwordHash string
	firstName    string
	lastName     string
	phone        string
	role         Role
	active       bool
	tokenVersion int
	createdAt    time.Time
	updatedAt    time.Time
}

// UserState is the persisted shape of a user.
type UserState struct {
	ID           uint
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
	Role         Role
	IsActive     bool
	TokenVersion int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser registers an active user. passwordHash must already be hashed.
func NewUser(email, passwordHash, firstName, lastName, phone string, role Role) (*User, error) {
	email = NormalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, apperrors.NewField(apperrors.CodeInvalidArgument, "email", "invalid email address")
	}
	if passwordHash == "" {
		return nil, apperrors.NewField(apperrors.CodeInvalidArgument, "password", "password hash is required")
	}
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
		return nil, apperrors.NewField(apperrors.CodeInvalidArgument, "name", "first and last name are required")
	}
	if role == "" {
		role = RoleUser
	}
	if role != RoleUser && role != RoleAdmin {
		return nil, apperrors.NewField(apperrors.CodeInvalidArgument, "role", "unknown role "+string(role))
	}
	ts := now()
	return &User{
		email:        email,
		passwordHash: passwordHash,
		firstName:    strings.TrimSpace(firstName),
		lastName:     strings.TrimSpace(lastName),
		phone:        strings.TrimSpace(phone),
		role:         role,
		active:       true,
		tokenVersion: 1,
		createdAt:    ts,
		updatedAt:    ts,
	}, nil
}

// NormalizeEmail lower-cases and trims an address for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func RestoreUser(s UserState) *User {
	return &User{
		id:           s.ID,
		email:        s.Email,
		passwordHash: s.PasswordHash,
		firstName:    s.FirstName,
		lastName:     s.LastName,
		phone:        s.Phone,
		role:         s.Role,
		active:       s.IsActive,
		tokenVersion: s.TokenVersion,
		createdAt:    s.CreatedAt,
		updatedAt:    s.UpdatedAt,
	}
}

func (u *User) ID() uint             { return u.id }
func (u *User) Email() string        { return u.email }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) FirstName() string    { return u.firstName }
func (u *User) LastName() string     { return u.lastName }
func (u *User) Phone() string        { return u.phone }
func (u *User) Role() Role           { return u.role }
func (u *User) IsActive() bool       { return u.active }
func (u *User) TokenVersion() int    { return u.tokenVersion }
func (u *User) CreatedAt() time.Time { return u.createdAt }

func (u *User) FullName() string {
	return u.firstName + " " + u.lastName
}

func (u *User) State() UserState {
	return UserState{
		ID:           u.id,
		Email:        u.email,
		PasswordHash: u.passwordHash,
		FirstName:    u.firstName,
		LastName:     u.lastName,
		Phone:        u.phone,
		Role:         u.role,
		IsActive:     u.active,
		TokenVersion: u.tokenVersion,
		CreatedAt:    u.createdAt,
		UpdatedAt:    u.updatedAt,
	}
}

func (u *User) MarkStored(id uint) {
	u.id = id
}

func (u *User) AuditEntity() string { return "User" }
func (u *User) AuditID() uint       { return u.id }

// AuditFields leaves out the password hash.
func (u *User) AuditFields() map[string]any {
	return map[string]any{
		"Email":        u.email,
		"FirstName":    u.firstName,
		"LastName":     u.lastName,
		"Phone":        u.phone,
		"Role":         string(u.role),
		"IsActive":     u.active,
		"TokenVersion": u.tokenVersion,
	}
}

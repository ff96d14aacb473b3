package models

import (
	"time"

	"ledgerpay/internal/domain"
)

// AuditLog rows are insert-only.
type AuditLog struct {
	ID         uint      `gorm:"primarykey"`
	EntityName string    `gorm:"size:64;not null;index"`
	EntityID   uint      `gorm:"not null;index"`
	Action     string    `gorm:"size:16;not null"`
	Changes    *string   `gorm:"type:text"`
	UserID     *uint     `gorm:"index"`
	UserEmail  *string   `gorm:"size:255"`
	IPAddress  *string   `gorm:"size:64"`
	CreatedAt  time.Time `gorm:"index"`
}

func AuditLogFromDomain(a *domain.AuditLog) *AuditLog {
	s := a.State()
	return &AuditLog{
		ID:         s.ID,
		EntityName: s.EntityName,
		EntityID:   s.EntityID,
		Action:     string(s.Action),
		Changes:    optional(s.Changes),
		UserID:     s.UserID,
		UserEmail:  optional(s.UserEmail),
		IPAddress:  optional(s.IPAddress),
		CreatedAt:  s.CreatedAt,
	}
}

func (m *AuditLog) ToDomain() *domain.AuditLog {
	return domain.RestoreAuditLog(domain.AuditLogState{
		ID:         m.ID,
		EntityName: m.EntityName,
		EntityID:   m.EntityID,
		Action:     domain.AuditAction(m.Action),
		Changes:    deref(m.Changes),
		UserID:     m.UserID,
		UserEmail:  deref(m.UserEmail),
		IPAddress:  deref(m.IPAddress),
		CreatedAt:  m.CreatedAt,
	})
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package domain

import (
	"strings"
	"time"

	apperrors "ledgerpay/internal/errors"
)

type AuditAction string

const (
	AuditActionCreated AuditAction = "Created"
	AuditActionUpdated AuditAction = "Updated"
	AuditActionDeleted AuditAction = "Deleted"
)

// AuditLog is an immutable record of one committed entity change.
type AuditLog struct {
	id         uint
	entityName string
	entityID   uint
	action     AuditAction
	changes    string
	userID     *uint
	userEmail  string
	ipAddress  string
	createdAt  time.Time
}

// AuditLogState is the persisted shape of an audit record.
type AuditLogState struct {
	ID         uint
	EntityName string
	EntityID   uint
	Action     AuditAction
	Changes    string
	UserID     *uint
	UserEmail  string
	IPAddress  string
	CreatedAt  time.Time
}

// NewAuditLog requires an entity name and a known action. changes is the JSON
// diff and may be empty.
func NewAuditLog(entityName string, entityID uint, action AuditAction, changes string, userID *uint, userEmail, ipAddress string) (*AuditLog, error) {
	if strings.TrimSpace(entityName) == "" {
		return nil, apperrors.NewField(apperrors.CodeInvalidArgument, "entity_name", "entity name is required")
	}
	switch action {
	case AuditActionCreated, AuditActionUpdated, AuditActionDeleted:
	default:
		return nil, apperrors.NewField(apperrors.CodeInvalidArgument, "action", "unknown audit action "+string(action))
	}
	return &AuditLog{
		entityName: entityName,
		entityID:   entityID,
		action:     action,
		changes:    changes,
		userID:     userID,
		userEmail:  userEmail,
		ipAddress:  ipAddress,
		createdAt:  now(),
	}, nil
}

func RestoreAuditLog(s AuditLogState) *AuditLog {
	return &AuditLog{
		id:         s.ID,
		entityName: s.EntityName,
		entityID:   s.EntityID,
		action:     s.Action,
		changes:    s.Changes,
		userID:     s.UserID,
		userEmail:  s.UserEmail,
		ipAddress:  s.IPAddress,
		createdAt:  s.CreatedAt,
	}
}

func (a *AuditLog) State() AuditLogState {
	return AuditLogState{
		ID:         a.id,
		EntityName: a.entityName,
		EntityID:   a.entityID,
		Action:     a.action,
		Changes:    a.changes,
		UserID:     a.userID,
		UserEmail:  a.userEmail,
		IPAddress:  a.ipAddress,
		CreatedAt:  a.createdAt,
	}
}

func (a *AuditLog) MarkStored(id uint) {
	a.id = id
}

func (a *AuditLog) EntityName() string   { return a.entityName }
func (a *AuditLog) EntityID() uint       { return a.entityID }
func (a *AuditLog) Action() AuditAction  { return a.action }
func (a *AuditLog) Changes() string      { return a.changes }
func (a *AuditLog) UserID() *uint        { return a.userID }
func (a *AuditLog) UserEmail() string    { return a.userEmail }
func (a *AuditLog) IPAddress() string    { return a.ipAddress }
func (a *AuditLog) CreatedAt() time.Time { return a.createdAt }

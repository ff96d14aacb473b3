package repositories

import (
	"context"

	"ledgerpay/internal/domain"
)

// AuditLogRepository stores audit records. Records are never updated.
type AuditLogRepository interface {
	CreateBatch(ctx context.Context, logs []*domain.AuditLog) error
	ListByEntity(ctx context.Context, entityName string, entityID uint) ([]*domain.AuditLog, error)
}

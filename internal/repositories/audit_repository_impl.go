package repositories

import (
	"context"

	"ledgerpay/internal/domain"
	"ledgerpay/internal/models"

	"gorm.io/gorm"
)

type auditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) CreateBatch(ctx context.Context, logs []*domain.AuditLog) error {
	if len(logs) == 0 {
		return nil
	}
	rows := make([]*models.AuditLog, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, models.AuditLogFromDomain(l))
	}
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return translate(err, "failed to create audit logs", nil)
	}
	for i, row := range rows {
		logs[i].MarkStored(row.ID)
	}
	return nil
}

func (r *auditLogRepository) ListByEntity(ctx context.Context, entityName string, entityID uint) ([]*domain.AuditLog, error) {
	var rows []models.AuditLog
	err := r.db.WithContext(ctx).
		Where("entity_name = ? AND entity_id = ?", entityName, entityID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, translate(err, "failed to list audit logs", nil)
	}
	logs := make([]*domain.AuditLog, 0, len(rows))
	for i := range rows {
		logs = append(logs, rows[i].ToDomain())
	}
	return logs, nil
}

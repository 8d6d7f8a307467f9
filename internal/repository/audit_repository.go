package repository

import (
	"context"

	"gorm.io/gorm"

	"whitebeat/internal/domain/audit"
)

type PostgresAuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &PostgresAuditRepository{db: db}
}

func (r *PostgresAuditRepository) Create(ctx context.Context, e *audit.Event) error {
	return r.db.WithContext(ctx).Create(e).Error
}

package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"whitebeat/internal/domain/status"
	wb_errors "whitebeat/pkg/errors"
)

type PostgresStatusRepository struct {
	db *gorm.DB
}

func NewStatusRepository(db *gorm.DB) StatusRepository {
	return &PostgresStatusRepository{db: db}
}

func (r *PostgresStatusRepository) Create(ctx context.Context, s *status.Status, audience []status.Audience) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(s).Error; err != nil {
			return err
		}
		if len(audience) == 0 {
			return nil
		}
		return tx.Create(&audience).Error
	})
}

func (r *PostgresStatusRepository) GetByID(ctx context.Context, id uuid.UUID) (status.Status, error) {
	var s status.Status
	err := r.db.WithContext(ctx).
		Preload("Audience").
		Preload("Views").
		Where("id = ?", id).
		First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return status.Status{}, wb_errors.ErrNotFound
		}
		return status.Status{}, err
	}
	return s, nil
}

// ListActive returns candidates only; privacy filtering happens in the
// service where the contact directory is reachable. Activity is evaluated
// against now, never a stored flag.
func (r *PostgresStatusRepository) ListActive(ctx context.Context, viewerID uuid.UUID, now time.Time) ([]status.Status, error) {
	var statuses []status.Status
	err := r.db.WithContext(ctx).
		Preload("Audience").
		Preload("Views").
		Where("owner_id <> ? AND expires_at > ?", viewerID, now).
		Order("owner_id, created_at ASC").
		Find(&statuses).Error
	if err != nil {
		return nil, err
	}
	return statuses, nil
}

func (r *PostgresStatusRepository) ListOwned(ctx context.Context, ownerID uuid.UUID, now time.Time) ([]status.Status, error) {
	var statuses []status.Status
	err := r.db.WithContext(ctx).
		Preload("Audience").
		Preload("Views").
		Where("owner_id = ? AND expires_at > ?", ownerID, now).
		Order("created_at ASC").
		Find(&statuses).Error
	if err != nil {
		return nil, err
	}
	return statuses, nil
}

func (r *PostgresStatusRepository) UpsertView(ctx context.Context, v *status.View) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "status_id"}, {Name: "viewer_id"}},
			DoNothing: true,
		}).
		Create(v).Error
}

func (r *PostgresStatusRepository) CountViews(ctx context.Context, statusID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&status.View{}).
		Where("status_id = ?", statusID).
		Count(&count).Error
	return count, err
}

// PurgeExpired deletes long-expired rows. Reclamation only: feeds already
// exclude expired statuses at query time.
func (r *PostgresStatusRepository) PurgeExpired(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ?", before).
		Delete(&status.Status{})
	return res.RowsAffected, res.Error
}

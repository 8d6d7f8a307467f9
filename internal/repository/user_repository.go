package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"whitebeat/internal/domain/user"
	wb_errors "whitebeat/pkg/errors"
)

type PostgresUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, u *user.User) error {
	res := r.db.WithContext(ctx).Create(u)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return wb_errors.ErrAlreadyExists
		}
		return res.Error
	}
	return nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	var u user.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.User{}, wb_errors.ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (user.User, error) {
	var u user.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.User{}, wb_errors.ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

func (r *PostgresUserRepository) Update(ctx context.Context, u user.User) error {
	res := r.db.WithContext(ctx).Save(&u)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return wb_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresUserRepository) IncrementTotalMessages(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&user.User{}).
		Where("id = ?", id).
		UpdateColumn("total_messages", gorm.Expr("total_messages + 1")).Error
}

func (r *PostgresUserRepository) SetOnline(ctx context.Context, id uuid.UUID, online bool) error {
	return r.db.WithContext(ctx).
		Model(&user.User{}).
		Where("id = ?", id).
		UpdateColumn("is_online", online).Error
}

func (r *PostgresUserRepository) UpdateLastSeen(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&user.User{}).
		Where("id = ?", id).
		UpdateColumn("last_seen_at", at).Error
}

func (r *PostgresUserRepository) UpsertContact(ctx context.Context, c *user.Contact) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_id"}, {Name: "contact_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"nickname", "is_blocked", "is_favorite"}),
		}).
		Create(c).Error
}

func (r *PostgresUserRepository) RemoveContact(ctx context.Context, ownerID, contactID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("owner_id = ? AND contact_id = ?", ownerID, contactID).
		Delete(&user.Contact{}).Error
}

func (r *PostgresUserRepository) GetContact(ctx context.Context, ownerID, contactID uuid.UUID) (user.Contact, error) {
	var c user.Contact
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND contact_id = ?", ownerID, contactID).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.Contact{}, wb_errors.ErrNotFound
		}
		return user.Contact{}, err
	}
	return c, nil
}

func (r *PostgresUserRepository) ListContacts(ctx context.Context, ownerID uuid.UUID) ([]user.Contact, error) {
	var contacts []user.Contact
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&contacts).Error
	if err != nil {
		return nil, err
	}
	return contacts, nil
}

func (r *PostgresUserRepository) IsVisibleContact(ctx context.Context, ownerID, otherID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&user.Contact{}).
		Where("owner_id = ? AND contact_id = ? AND is_blocked = ?", ownerID, otherID, false).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

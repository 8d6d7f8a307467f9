package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"whitebeat/internal/domain/group"
	wb_errors "whitebeat/pkg/errors"
)

type PostgresGroupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &PostgresGroupRepository{db: db}
}

func (r *PostgresGroupRepository) Create(ctx context.Context, g *group.Group, creator *group.Member) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(g).Error; err != nil {
			return err
		}
		return tx.Create(creator).Error
	})
}

func (r *PostgresGroupRepository) GetByID(ctx context.Context, id uuid.UUID) (group.Group, error) {
	var g group.Group
	err := r.db.WithContext(ctx).
		Preload("Members").
		Where("id = ?", id).
		First(&g).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return group.Group{}, wb_errors.ErrNotFound
		}
		return group.Group{}, err
	}
	return g, nil
}

func (r *PostgresGroupRepository) Update(ctx context.Context, g group.Group) error {
	g.Members = nil
	res := r.db.WithContext(ctx).Save(&g)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return wb_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresGroupRepository) GetMember(ctx context.Context, groupID, userID uuid.UUID) (group.Member, error) {
	var m group.Member
	err := r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return group.Member{}, wb_errors.ErrNotFound
		}
		return group.Member{}, err
	}
	return m, nil
}

// AddMember is an idempotent upsert; re-adding an existing member keeps the
// existing row untouched.
func (r *PostgresGroupRepository) AddMember(ctx context.Context, m *group.Member) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "group_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(m).Error
}

// RemoveMember never touches the member's historical messages; removing a
// non-member is a no-op success.
func (r *PostgresGroupRepository) RemoveMember(ctx context.Context, groupID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&group.Member{}).Error
}

func (r *PostgresGroupRepository) SetAdmin(ctx context.Context, groupID, userID uuid.UUID, isAdmin bool) error {
	res := r.db.WithContext(ctx).
		Model(&group.Member{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		UpdateColumn("is_admin", isAdmin)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return wb_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresGroupRepository) ListMembers(ctx context.Context, groupID uuid.UUID) ([]group.Member, error) {
	var members []group.Member
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("joined_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *PostgresGroupRepository) MemberCount(ctx context.Context, groupID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&group.Member{}).
		Where("group_id = ?", groupID).
		Count(&count).Error
	return count, err
}

func (r *PostgresGroupRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]group.Group, error) {
	var groups []group.Group
	subQuery := r.db.Model(&group.Member{}).
		Select("group_id").
		Where("user_id = ?", userID)

	err := r.db.WithContext(ctx).
		Preload("Members").
		Where("id IN (?)", subQuery).
		Order("updated_at DESC").
		Find(&groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}

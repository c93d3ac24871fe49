// File: internal/group/repository.go
package group

import (
	"context"
	"errors"
	"strings"

	"github.com/RulerDevansh/SecretSanta/internal/common"
	"github.com/RulerDevansh/SecretSanta/internal/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for group data operations.
type Repository interface {
	Create(ctx context.Context, group *Group) error
	FindByCode(ctx context.Context, code string) (*Group, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	ListByMember(ctx context.Context, userID uuid.UUID) ([]Group, error)
	ListStarted(ctx context.Context) ([]Group, error)
	AddMember(ctx context.Context, group *Group, userID uuid.UUID) error
	RemoveMember(ctx context.Context, group *Group, userID uuid.UUID) error
	MarkStarted(ctx context.Context, groupID uuid.UUID) (bool, error)
	Delete(ctx context.Context, group *Group) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM group repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Create inserts a new group record together with its initial membership
// rows in one statement. Members are referenced by ID only, so their user
// records are never touched.
func (r *gormRepository) Create(ctx context.Context, group *Group) error {
	group.Code = strings.ToUpper(strings.TrimSpace(group.Code))
	err := r.db.WithContext(ctx).Omit("Members.*").Create(group).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "unique constraint") {
			return common.ErrConflict.WithDetails("A group with this code already exists.")
		}
		return err
	}
	return nil
}

// FindByCode retrieves a group by its join code with members preloaded.
func (r *gormRepository) FindByCode(ctx context.Context, code string) (*Group, error) {
	var groupModel Group
	normalized := strings.ToUpper(strings.TrimSpace(code))
	err := r.db.WithContext(ctx).Preload("Members").Where("code = ?", normalized).First(&groupModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Group not found.")
		}
		return nil, err
	}
	return &groupModel, nil
}

// CodeExists reports whether a join code is already taken.
func (r *gormRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Group{}).Where("code = ?", strings.ToUpper(code)).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByMember retrieves all groups the user belongs to, newest first.
func (r *gormRepository) ListByMember(ctx context.Context, userID uuid.UUID) ([]Group, error) {
	var groups []Group
	err := r.db.WithContext(ctx).
		Joins("JOIN group_members ON group_members.group_id = groups.id").
		Where("group_members.user_id = ?", userID).
		Order("groups.created_at DESC").
		Find(&groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// ListStarted retrieves all started groups with members preloaded.
// Used by the wish reminder job.
func (r *gormRepository) ListStarted(ctx context.Context) ([]Group, error) {
	var groups []Group
	err := r.db.WithContext(ctx).Preload("Members").Where("has_started = ?", true).Find(&groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// AddMember appends a user to the group's member set. Only the join table
// row is written; the user record already exists, and upserting it from a
// bare-ID struct would clobber default-tagged columns. The join table's
// composite primary key makes re-adding an existing member a no-op.
func (r *gormRepository) AddMember(ctx context.Context, group *Group, userID uuid.UUID) error {
	member := user.User{BaseModel: common.BaseModel{ID: userID}}
	return r.db.WithContext(ctx).Model(group).Omit("Members.*").Association("Members").Append(&member)
}

// RemoveMember removes a user from the group's member set.
func (r *gormRepository) RemoveMember(ctx context.Context, group *Group, userID uuid.UUID) error {
	member := user.User{BaseModel: common.BaseModel{ID: userID}}
	return r.db.WithContext(ctx).Model(group).Association("Members").Delete(&member)
}

// MarkStarted flips has_started in a single conditional UPDATE so the
// transition stays monotonic even under concurrent start requests.
// Returns true when this call performed the transition.
func (r *gormRepository) MarkStarted(ctx context.Context, groupID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Model(&Group{}).
		Where("id = ? AND has_started = ?", groupID, false).
		Update("has_started", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete removes the group and its member rows. Wishes are cleaned up by
// the service via the WishStore before this is called.
func (r *gormRepository) Delete(ctx context.Context, group *Group) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(group).Association("Members").Clear(); err != nil {
			return err
		}
		return tx.Delete(group).Error
	})
}

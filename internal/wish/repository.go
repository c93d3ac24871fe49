// File: internal/wish/repository.go
package wish

import (
	"context"
	"errors"
	"fmt"

	"github.com/RulerDevansh/SecretSanta/internal/common"
	"github.com/RulerDevansh/SecretSanta/internal/group"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists wishes. It also backs the group package's WishStore so
// group deletion and membership changes can cascade to wish rows.
type Repository interface {
	// Create inserts a provisional wish. A uniqueness violation on the
	// (group, user) index maps to ErrDuplicateSubmission, which makes the
	// insert itself the duplicate check under concurrency.
	Create(ctx context.Context, w *Wish) error
	FindByGroupAndUser(ctx context.Context, groupID, userID uuid.UUID) (*Wish, error)
	// Delete removes a wish row. Used for the compensating rollback after a
	// failed selection or delivery.
	Delete(ctx context.Context, id uuid.UUID) error
	// MarkDelivered flips delivered to true for the given wish.
	MarkDelivered(ctx context.Context, id uuid.UUID) error

	// group.WishStore
	StatusesByGroup(ctx context.Context, groupID uuid.UUID) (map[uuid.UUID]group.MemberWishStatus, error)
	DeleteByGroup(ctx context.Context, groupID uuid.UUID) error
	DeleteByGroupAndUser(ctx context.Context, groupID, userID uuid.UUID) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a GORM-backed wish repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, w *Wish) error {
	if err := r.db.WithContext(ctx).Create(w).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateSubmission
		}
		return fmt.Errorf("creating wish: %w", err)
	}
	return nil
}

func (r *gormRepository) FindByGroupAndUser(ctx context.Context, groupID, userID uuid.UUID) (*Wish, error) {
	var w Wish
	err := r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		First(&w).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("finding wish: %w", err)
	}
	return &w, nil
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&Wish{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("deleting wish %s: %w", id, err)
	}
	return nil
}

func (r *gormRepository) MarkDelivered(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Model(&Wish{}).
		Where("id = ?", id).
		Update("delivered", true).Error
	if err != nil {
		return fmt.Errorf("marking wish %s delivered: %w", id, err)
	}
	return nil
}

func (r *gormRepository) StatusesByGroup(ctx context.Context, groupID uuid.UUID) (map[uuid.UUID]group.MemberWishStatus, error) {
	var wishes []Wish
	err := r.db.WithContext(ctx).
		Select("user_id", "delivered").
		Where("group_id = ?", groupID).
		Find(&wishes).Error
	if err != nil {
		return nil, fmt.Errorf("listing wish statuses for group %s: %w", groupID, err)
	}

	statuses := make(map[uuid.UUID]group.MemberWishStatus, len(wishes))
	for _, w := range wishes {
		statuses[w.UserID] = group.MemberWishStatus{Submitted: true, Delivered: w.Delivered}
	}
	return statuses, nil
}

func (r *gormRepository) DeleteByGroup(ctx context.Context, groupID uuid.UUID) error {
	if err := r.db.WithContext(ctx).Where("group_id = ?", groupID).Delete(&Wish{}).Error; err != nil {
		return fmt.Errorf("deleting wishes for group %s: %w", groupID, err)
	}
	return nil
}

func (r *gormRepository) DeleteByGroupAndUser(ctx context.Context, groupID, userID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&Wish{}).Error
	if err != nil {
		return fmt.Errorf("deleting wish for group %s user %s: %w", groupID, userID, err)
	}
	return nil
}

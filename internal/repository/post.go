package repository

import (
	"context"
	"errors"
	"time"

	"datagov/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines persistence operations for user posts, including the
// bulk cascade operations driven by the profile lifecycle.
type PostRepository interface {
	Create(ctx context.Context, post *models.UserPost) error
	GetActiveByID(ctx context.Context, id string) (*models.UserPost, error)
	ListActiveByUserID(ctx context.Context, userID string) ([]models.UserPost, error)
	ListAll(ctx context.Context) ([]models.UserPost, error)
	Update(ctx context.Context, post *models.UserPost) error
	// SoftDeleteAllByUserID marks every not-yet-deleted post of the user as
	// deleted with the given timestamp, in a single bulk update.
	SoftDeleteAllByUserID(ctx context.Context, userID string, deletedAt time.Time) error
	// DeleteAllByUserID physically removes every post of the user regardless
	// of its soft-delete state.
	DeleteAllByUserID(ctx context.Context, userID string) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.UserPost) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetActiveByID(ctx context.Context, id string) (*models.UserPost, error) {
	var post models.UserPost
	if err := r.db.WithContext(ctx).
		First(&post, "id = ? AND deleted = ?", id, false).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) ListActiveByUserID(ctx context.Context, userID string) ([]models.UserPost, error) {
	var posts []models.UserPost
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND deleted = ?", userID, false).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListAll(ctx context.Context) ([]models.UserPost, error) {
	var posts []models.UserPost
	if err := r.db.WithContext(ctx).Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.UserPost) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) SoftDeleteAllByUserID(ctx context.Context, userID string, deletedAt time.Time) error {
	if err := r.db.WithContext(ctx).
		Model(&models.UserPost{}).
		Where("user_id = ? AND deleted = ?", userID, false).
		Updates(map[string]interface{}{
			"deleted":    true,
			"deleted_at": deletedAt,
		}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) DeleteAllByUserID(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.UserPost{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

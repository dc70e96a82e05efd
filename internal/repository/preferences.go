package repository

import (
	"context"
	"errors"

	"datagov/internal/models"

	"gorm.io/gorm"
)

// PreferencesRepository defines persistence operations for user preferences.
type PreferencesRepository interface {
	// GetActiveByUserID returns nil without an error when no preferences
	// record exists yet; the caller decides whether to synthesize defaults.
	GetActiveByUserID(ctx context.Context, userID string) (*models.UserPreferences, error)
	Save(ctx context.Context, prefs *models.UserPreferences) error
	DeleteByUserID(ctx context.Context, userID string) error
}

type preferencesRepository struct {
	db *gorm.DB
}

// NewPreferencesRepository returns a new PreferencesRepository implementation.
func NewPreferencesRepository(db *gorm.DB) PreferencesRepository {
	return &preferencesRepository{db: db}
}

func (r *preferencesRepository) GetActiveByUserID(ctx context.Context, userID string) (*models.UserPreferences, error) {
	var prefs models.UserPreferences
	if err := r.db.WithContext(ctx).
		First(&prefs, "user_id = ? AND deleted = ?", userID, false).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &prefs, nil
}

func (r *preferencesRepository) Save(ctx context.Context, prefs *models.UserPreferences) error {
	if err := r.db.WithContext(ctx).Save(prefs).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Preferences", "user_id", prefs.UserID)
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *preferencesRepository) DeleteByUserID(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.UserPreferences{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

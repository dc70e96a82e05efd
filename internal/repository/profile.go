// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"datagov/internal/cache"
	"datagov/internal/models"

	"gorm.io/gorm"
)

// ProfileRepository defines persistence operations for user profiles.
//
// Lookups come in two flavors: active-only (soft-deleted rows excluded) and
// unfiltered (soft-deleted rows visible). Uniqueness checks are always
// unfiltered so a soft-deleted profile keeps its username and email reserved.
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*models.UserProfile, error)
	GetActiveByID(ctx context.Context, id string) (*models.UserProfile, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, profile *models.UserProfile) error
	Update(ctx context.Context, profile *models.UserProfile) error
	HardDelete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.UserProfile, error)
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository returns a new ProfileRepository implementation.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func auditOrdered(db *gorm.DB) *gorm.DB {
	return db.Order("seq ASC")
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := r.db.WithContext(ctx).
		Preload("AuditTrail", auditOrdered).
		First(&profile, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &profile, nil
}

// cachedAuditEntry mirrors models.AuditEntry with the row keys exposed. The
// entity hides Seq and ProfileID from API responses, so caching the entity
// directly would strip them and a later Save would re-insert the whole trail
// as new rows.
type cachedAuditEntry struct {
	Seq         uint      `json:"seq"`
	ProfileID   string    `json:"profile_id"`
	Action      string    `json:"action"`
	Timestamp   time.Time `json:"timestamp"`
	Details     string    `json:"details"`
	PerformedBy string    `json:"performed_by"`
}

// cachedProfile is the redis representation of an active profile.
type cachedProfile struct {
	Profile models.UserProfile `json:"profile"`
	Trail   []cachedAuditEntry `json:"trail"`
}

func newCachedProfile(p *models.UserProfile) cachedProfile {
	cp := cachedProfile{Profile: *p}
	cp.Profile.AuditTrail = nil
	if len(p.AuditTrail) > 0 {
		cp.Trail = make([]cachedAuditEntry, len(p.AuditTrail))
		for i, e := range p.AuditTrail {
			cp.Trail[i] = cachedAuditEntry(e)
		}
	}
	return cp
}

func (cp cachedProfile) restore() *models.UserProfile {
	profile := cp.Profile
	if len(cp.Trail) > 0 {
		profile.AuditTrail = make([]models.AuditEntry, len(cp.Trail))
		for i, e := range cp.Trail {
			profile.AuditTrail[i] = models.AuditEntry(e)
		}
	}
	return &profile
}

func (r *profileRepository) GetActiveByID(ctx context.Context, id string) (*models.UserProfile, error) {
	var cached cachedProfile
	key := cache.ProfileKey(id)

	err := cache.Aside(ctx, key, &cached, cache.ProfileTTL, func() error {
		var profile models.UserProfile
		if err := r.db.WithContext(ctx).
			Preload("AuditTrail", auditOrdered).
			First(&profile, "id = ? AND deleted = ?", id, false).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", id)
			}
			return models.NewInternalError(err)
		}
		cached = newCachedProfile(&profile)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cached.restore(), nil
}

func (r *profileRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.UserProfile{}).
		Where("username = ?", username).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *profileRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.UserProfile{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *profileRepository) Create(ctx context.Context, profile *models.UserProfile) error {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("User", "username or email", profile.Username)
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *profileRepository) Update(ctx context.Context, profile *models.UserProfile) error {
	if err := r.db.WithContext(ctx).Save(profile).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("User", "email", profile.Email)
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateProfile(ctx, profile.ID)
	return nil
}

func (r *profileRepository) HardDelete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).
		Where("profile_id = ?", id).
		Delete(&models.AuditEntry{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	if err := r.db.WithContext(ctx).
		Delete(&models.UserProfile{}, "id = ?", id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateProfile(ctx, id)
	return nil
}

func (r *profileRepository) List(ctx context.Context) ([]models.UserProfile, error) {
	var profiles []models.UserProfile
	if err := r.db.WithContext(ctx).
		Preload("AuditTrail", auditOrdered).
		Find(&profiles).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return profiles, nil
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505; SQLite reports "unique constraint failed"
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

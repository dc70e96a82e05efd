// Package service implements the lifecycle rule engine for profiles, posts,
// and preferences: uniqueness gating, soft-delete cascades, and the
// grace-period-gated hard delete.
package service

import (
	"context"
	"fmt"
	"time"

	"datagov/internal/middleware"
	"datagov/internal/models"
	"datagov/internal/repository"
)

// ProfileService enforces the profile lifecycle: creation uniqueness,
// active-only reads and updates, cascading soft delete, and the grace-period
// gate before permanent erasure.
type ProfileService struct {
	profileRepo repository.ProfileRepository
	postRepo    repository.PostRepository
	prefsRepo   repository.PreferencesRepository
	gracePeriod time.Duration
}

// CreateProfileInput carries the fields for a new profile. Field-shape
// validation happens at the HTTP layer; the service enforces lifecycle rules.
type CreateProfileInput struct {
	Username        string
	Email           string
	FirstName       string
	LastName        string
	Roles           models.RoleList
	Bio             string
	ProfileImageURL string
}

// UpdateProfileInput carries a partial update. Nil pointers (and a nil role
// list) mean "leave unchanged"; pointers to empty values are applied as given.
type UpdateProfileInput struct {
	Email           *string
	FirstName       *string
	LastName        *string
	Roles           models.RoleList
	Bio             *string
	ProfileImageURL *string
}

// NewProfileService builds a ProfileService with the given hard-delete grace
// period.
func NewProfileService(
	profileRepo repository.ProfileRepository,
	postRepo repository.PostRepository,
	prefsRepo repository.PreferencesRepository,
	gracePeriod time.Duration,
) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		postRepo:    postRepo,
		prefsRepo:   prefsRepo,
		gracePeriod: gracePeriod,
	}
}

// CreateProfile creates a new profile after uniqueness checks. Username and
// email conflicts are checked against every record, soft-deleted included, so
// identifiers are never silently reused.
func (s *ProfileService) CreateProfile(ctx context.Context, in CreateProfileInput) (*models.UserProfile, error) {
	taken, err := s.profileRepo.ExistsByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, models.NewConflictError("User", "username", in.Username)
	}

	taken, err = s.profileRepo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, models.NewConflictError("User", "email", in.Email)
	}

	profile := &models.UserProfile{
		Username:        in.Username,
		Email:           in.Email,
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		Roles:           in.Roles,
		Bio:             in.Bio,
		ProfileImageURL: in.ProfileImageURL,
	}
	profile.AddAuditEntry(models.AuditActionCreate, "User profile created")

	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, err
	}

	middleware.LifecycleEvents.WithLabelValues("profile", "create").Inc()
	return profile, nil
}

// GetProfile returns the profile with the given ID, excluding soft-deleted
// records.
func (s *ProfileService) GetProfile(ctx context.Context, id string) (*models.UserProfile, error) {
	return s.profileRepo.GetActiveByID(ctx, id)
}

// ListProfiles returns every profile including soft-deleted ones; this is the
// admin read path.
func (s *ProfileService) ListProfiles(ctx context.Context) ([]models.UserProfile, error) {
	return s.profileRepo.List(ctx)
}

// UpdateProfile applies a partial update to an active profile. Changing the
// email to one held by any other record (soft-deleted included) is a conflict.
func (s *ProfileService) UpdateProfile(ctx context.Context, id string, in UpdateProfileInput) (*models.UserProfile, error) {
	profile, err := s.profileRepo.GetActiveByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Email != nil && *in.Email != profile.Email {
		taken, err := s.profileRepo.ExistsByEmail(ctx, *in.Email)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, models.NewConflictError("User", "email", *in.Email)
		}
		profile.Email = *in.Email
	}
	if in.FirstName != nil {
		profile.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		profile.LastName = *in.LastName
	}
	if in.Roles != nil {
		profile.Roles = in.Roles
	}
	if in.Bio != nil {
		profile.Bio = *in.Bio
	}
	if in.ProfileImageURL != nil {
		profile.ProfileImageURL = *in.ProfileImageURL
	}

	profile.AddAuditEntry(models.AuditActionUpdate, "User profile updated")

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}

	middleware.LifecycleEvents.WithLabelValues("profile", "update").Inc()
	return profile, nil
}

// SoftDeleteProfile marks an active profile as deleted and cascades the same
// deletion timestamp to all of the user's active posts. Preferences are left
// in place; they are only removed by a hard delete.
func (s *ProfileService) SoftDeleteProfile(ctx context.Context, id string) error {
	profile, err := s.profileRepo.GetActiveByID(ctx, id)
	if err != nil {
		return err
	}

	deletionTime := time.Now().UTC()
	profile.MarkDeleted(deletionTime)
	profile.AddAuditEntry(models.AuditActionSoftDelete, "User profile soft deleted")

	// Cascade first, then persist the profile. If the cascade fails partway
	// the error surfaces to the caller; there is no compensating rollback.
	if err := s.postRepo.SoftDeleteAllByUserID(ctx, id, deletionTime); err != nil {
		return err
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return err
	}

	middleware.LifecycleEvents.WithLabelValues("profile", "soft_delete").Inc()
	return nil
}

// HardDeleteProfile permanently removes a soft-deleted profile once the grace
// period has elapsed, along with the user's preferences and every post. The
// lookup is unfiltered so a soft-deleted record is found and validated rather
// than reported missing.
func (s *ProfileService) HardDeleteProfile(ctx context.Context, id string) error {
	profile, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !profile.Deleted {
		middleware.LifecycleViolations.WithLabelValues(models.CodeBusinessRule).Inc()
		return models.NewBusinessRuleError("User must be soft-deleted before hard deletion")
	}
	if profile.DeletedAt == nil {
		middleware.LifecycleViolations.WithLabelValues(models.CodeBusinessRule).Inc()
		return models.NewBusinessRuleError("User deletion timestamp is missing")
	}

	graceEnd := profile.DeletedAt.Add(s.gracePeriod)
	if time.Now().UTC().Before(graceEnd) {
		middleware.LifecycleViolations.WithLabelValues(models.CodeBusinessRule).Inc()
		return models.NewBusinessRuleError(fmt.Sprintf(
			"Grace period of %d hours has not elapsed since soft deletion",
			int(s.gracePeriod.Hours())))
	}

	if err := s.prefsRepo.DeleteByUserID(ctx, id); err != nil {
		return err
	}
	if err := s.postRepo.DeleteAllByUserID(ctx, id); err != nil {
		return err
	}

	// Best-effort final trail entry; the record it hangs off is removed next.
	profile.AddAuditEntry(models.AuditActionHardDelete, "User profile permanently deleted")

	if err := s.profileRepo.HardDelete(ctx, id); err != nil {
		return err
	}

	middleware.LifecycleEvents.WithLabelValues("profile", "hard_delete").Inc()
	return nil
}

// IsActive reports whether a profile exists and has not been soft-deleted.
// Post and preferences operations use it as their precondition check.
func (s *ProfileService) IsActive(ctx context.Context, id string) (bool, error) {
	_, err := s.profileRepo.GetActiveByID(ctx, id)
	if err != nil {
		if appErr, ok := err.(*models.AppError); ok && appErr.Code == models.CodeNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ProfileState reports whether a profile exists at all and, if so, whether it
// is active. Preferences updates need the distinction between "never existed"
// and "exists but soft-deleted".
func (s *ProfileService) ProfileState(ctx context.Context, id string) (exists, active bool, err error) {
	profile, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		if appErr, ok := err.(*models.AppError); ok && appErr.Code == models.CodeNotFound {
			return false, false, nil
		}
		return false, false, err
	}
	return true, profile.IsActive(), nil
}

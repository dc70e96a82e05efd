package service

import (
	"context"

	"datagov/internal/middleware"
	"datagov/internal/models"
	"datagov/internal/repository"
)

// PreferencesService enforces the preferences lifecycle: at most one record
// per user, updates gated on an active owner, per-key merges of the
// custom-settings map.
type PreferencesService struct {
	prefsRepo repository.PreferencesRepository
	profiles  *ProfileService
}

// UpdatePreferencesInput carries a partial preferences update. Nil pointers
// mean "leave unchanged". CustomSettings keys are merged into the existing
// map; keys not supplied are preserved.
type UpdatePreferencesInput struct {
	Theme              *string
	Language           *string
	EmailNotifications *bool
	PushNotifications  *bool
	SMSNotifications   *bool
	ProfileVisible     *bool
	ShowEmail          *bool
	ShowLastSeen       *bool
	ContentFilter      *string
	CustomSettings     models.SettingsMap
}

// NewPreferencesService builds a PreferencesService.
func NewPreferencesService(prefsRepo repository.PreferencesRepository, profiles *ProfileService) *PreferencesService {
	return &PreferencesService{prefsRepo: prefsRepo, profiles: profiles}
}

// UpdatePreferences creates or updates the preferences record for a user.
// Unlike post creation, this operation distinguishes a missing profile
// (NotFound) from a soft-deleted one (BusinessRuleViolation).
func (s *PreferencesService) UpdatePreferences(ctx context.Context, userID string, in UpdatePreferencesInput) (*models.UserPreferences, error) {
	exists, active, err := s.profiles.ProfileState(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewNotFoundError("User", userID)
	}
	if !active {
		middleware.LifecycleViolations.WithLabelValues(models.CodeBusinessRule).Inc()
		return nil, models.NewBusinessRuleError("Cannot update preferences for inactive user")
	}

	prefs, err := s.prefsRepo.GetActiveByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if prefs == nil {
		prefs = models.DefaultPreferences(userID)
	}

	if in.Theme != nil {
		prefs.Theme = *in.Theme
	}
	if in.Language != nil {
		prefs.Language = *in.Language
	}
	if in.EmailNotifications != nil {
		prefs.EmailNotifications = *in.EmailNotifications
	}
	if in.PushNotifications != nil {
		prefs.PushNotifications = *in.PushNotifications
	}
	if in.SMSNotifications != nil {
		prefs.SMSNotifications = *in.SMSNotifications
	}
	if in.ProfileVisible != nil {
		prefs.ProfileVisible = *in.ProfileVisible
	}
	if in.ShowEmail != nil {
		prefs.ShowEmail = *in.ShowEmail
	}
	if in.ShowLastSeen != nil {
		prefs.ShowLastSeen = *in.ShowLastSeen
	}
	if in.ContentFilter != nil {
		prefs.ContentFilter = *in.ContentFilter
	}
	if in.CustomSettings != nil {
		prefs.CustomSettings = prefs.CustomSettings.Merge(in.CustomSettings)
	}

	if err := s.prefsRepo.Save(ctx, prefs); err != nil {
		return nil, err
	}

	middleware.LifecycleEvents.WithLabelValues("preferences", "update").Inc()
	return prefs, nil
}

// GetPreferences returns the preferences of an active user. When no record
// has ever been written, a fully-populated default view is returned without
// being persisted; the first partial update still starts from defaults.
func (s *PreferencesService) GetPreferences(ctx context.Context, userID string) (*models.UserPreferences, error) {
	active, err := s.profiles.IsActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, models.NewNotFoundError("User", userID)
	}

	prefs, err := s.prefsRepo.GetActiveByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if prefs == nil {
		return models.DefaultPreferences(userID), nil
	}
	return prefs, nil
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datagov/internal/models"
)

func newPrefsService(prefs *prefsRepoStub, profiles *profileRepoStub) *PreferencesService {
	return NewPreferencesService(prefs, newProfileService(profiles, noopPostRepo(), prefs))
}

func TestUpdatePreferencesUnknownUser(t *testing.T) {
	t.Parallel()

	prefs := noopPrefsRepo()
	prefs.saveFn = func(context.Context, *models.UserPreferences) error {
		t.Fatal("preferences must not be saved for an unknown user")
		return nil
	}
	svc := newPrefsService(prefs, notFoundProfileRepo())

	_, err := svc.UpdatePreferences(context.Background(), "missing", UpdatePreferencesInput{})
	assertAppErrorCode(t, err, models.CodeNotFound)
}

func TestUpdatePreferencesSoftDeletedUser(t *testing.T) {
	t.Parallel()

	// A soft-deleted user still exists, so this is a rule violation rather
	// than a missing record.
	now := time.Now().UTC()
	profiles := noopProfileRepo()
	profiles.getByIDFn = func(context.Context, string) (*models.UserProfile, error) {
		return &models.UserProfile{ID: "u1", Deleted: true, DeletedAt: &now}, nil
	}
	svc := newPrefsService(noopPrefsRepo(), profiles)

	_, err := svc.UpdatePreferences(context.Background(), "u1", UpdatePreferencesInput{})
	assertAppErrorCode(t, err, models.CodeBusinessRule)
}

func TestUpdatePreferencesCreatesDefaults(t *testing.T) {
	t.Parallel()

	prefs := noopPrefsRepo()
	var saved *models.UserPreferences
	prefs.saveFn = func(_ context.Context, p *models.UserPreferences) error {
		saved = p
		return nil
	}
	svc := newPrefsService(prefs, noopProfileRepo())

	theme := "dark"
	got, err := svc.UpdatePreferences(context.Background(), "u1", UpdatePreferencesInput{Theme: &theme})
	require.NoError(t, err)
	require.NotNil(t, saved)

	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "dark", got.Theme)
	assert.Equal(t, "en", got.Language, "untouched fields start from defaults")
	assert.True(t, got.EmailNotifications)
	assert.False(t, got.SMSNotifications)
	assert.Equal(t, models.ContentFilterModerate, got.ContentFilter)
}

func TestUpdatePreferencesPartial(t *testing.T) {
	t.Parallel()

	existing := models.DefaultPreferences("u1")
	existing.ID = "pref1"
	existing.Theme = "dark"
	existing.SetSetting("sidebar", models.BoolSetting(true))
	existing.SetSetting("font_size", models.NumberSetting(14))

	prefs := noopPrefsRepo()
	prefs.getActiveByUserIDFn = func(context.Context, string) (*models.UserPreferences, error) {
		return existing, nil
	}
	var saved *models.UserPreferences
	prefs.saveFn = func(_ context.Context, p *models.UserPreferences) error {
		saved = p
		return nil
	}
	svc := newPrefsService(prefs, noopProfileRepo())

	push := false
	got, err := svc.UpdatePreferences(context.Background(), "u1", UpdatePreferencesInput{
		PushNotifications: &push,
		CustomSettings: models.SettingsMap{
			"font_size": models.NumberSetting(16),
			"compact":   models.BoolSetting(false),
		},
	})
	require.NoError(t, err)
	require.NotNil(t, saved)

	assert.False(t, got.PushNotifications)
	assert.Equal(t, "dark", got.Theme, "fields absent from the update keep their values")

	sidebar, ok := got.GetSetting("sidebar")
	require.True(t, ok, "keys absent from the update survive the merge")
	sidebarOn, _ := sidebar.Bool()
	assert.True(t, sidebarOn)

	fontSize, ok := got.GetSetting("font_size")
	require.True(t, ok)
	size, _ := fontSize.Number()
	assert.Equal(t, float64(16), size, "supplied keys overwrite existing values")

	compact, ok := got.GetSetting("compact")
	require.True(t, ok)
	compactOn, _ := compact.Bool()
	assert.False(t, compactOn)
}

func TestGetPreferencesDefaultsNotPersisted(t *testing.T) {
	t.Parallel()

	prefs := noopPrefsRepo()
	prefs.saveFn = func(context.Context, *models.UserPreferences) error {
		t.Fatal("reading defaults must not write a record")
		return nil
	}
	svc := newPrefsService(prefs, noopProfileRepo())

	got, err := svc.GetPreferences(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "light", got.Theme)
	assert.True(t, got.ProfileVisible)
	assert.Empty(t, got.ID, "the default view is transient")
}

func TestGetPreferencesExisting(t *testing.T) {
	t.Parallel()

	existing := models.DefaultPreferences("u1")
	existing.ID = "pref1"
	existing.Theme = "dark"
	prefs := noopPrefsRepo()
	prefs.getActiveByUserIDFn = func(context.Context, string) (*models.UserPreferences, error) {
		return existing, nil
	}
	svc := newPrefsService(prefs, noopProfileRepo())

	got, err := svc.GetPreferences(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "dark", got.Theme)
}

func TestGetPreferencesInactiveUser(t *testing.T) {
	t.Parallel()

	svc := newPrefsService(noopPrefsRepo(), notFoundProfileRepo())
	_, err := svc.GetPreferences(context.Background(), "u1")
	assertAppErrorCode(t, err, models.CodeNotFound)
}

package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datagov/internal/models"
)

func TestGetPreferencesDefaults(t *testing.T) {
	app, s := newTestServer(t)
	userID := createTestProfile(t, app, "alice", "alice@example.com")

	resp, body := doJSON(t, app, http.MethodGet, "/api/users/"+userID+"/preferences", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "light", body["theme"])
	assert.Equal(t, "en", body["language"])
	assert.Equal(t, true, body["email_notifications"])
	assert.Equal(t, false, body["sms_notifications"])
	assert.Equal(t, "moderate", body["content_filter"])

	// Reading defaults writes nothing.
	var count int64
	require.NoError(t, s.db.Model(&models.UserPreferences{}).
		Where("user_id = ?", userID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGetPreferencesUnknownUser(t *testing.T) {
	app, _ := newTestServer(t)

	resp, body := doJSON(t, app, http.MethodGet, "/api/users/no-such-user/preferences", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, models.CodeNotFound, body["code"])
}

func TestUpdatePreferencesEndpoint(t *testing.T) {
	app, _ := newTestServer(t)
	userID := createTestProfile(t, app, "alice", "alice@example.com")

	resp, body := doJSON(t, app, http.MethodPut, "/api/users/"+userID+"/preferences", map[string]any{
		"theme": "dark",
		"custom_settings": map[string]any{
			"sidebar":   true,
			"font_size": 14,
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "dark", body["theme"])
	assert.Equal(t, "en", body["language"], "untouched fields start from defaults")

	// A later partial update merges custom settings key by key.
	resp, body = doJSON(t, app, http.MethodPut, "/api/users/"+userID+"/preferences", map[string]any{
		"push_notifications": false,
		"custom_settings": map[string]any{
			"font_size": 16,
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "dark", body["theme"], "earlier update survives")
	assert.Equal(t, false, body["push_notifications"])

	settings, ok := body["custom_settings"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, settings["sidebar"], "missing keys survive the merge")
	assert.EqualValues(t, 16, settings["font_size"])

	// The persisted record is what a later read returns.
	resp, body = doJSON(t, app, http.MethodGet, "/api/users/"+userID+"/preferences", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "dark", body["theme"])
}

func TestUpdatePreferencesValidation(t *testing.T) {
	app, _ := newTestServer(t)
	userID := createTestProfile(t, app, "alice", "alice@example.com")

	resp, body := doJSON(t, app, http.MethodPut, "/api/users/"+userID+"/preferences", map[string]any{
		"content_filter": "maximum",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, models.CodeValidation, body["code"])

	// Composite custom setting values are rejected at decode time.
	resp, body = doJSON(t, app, http.MethodPut, "/api/users/"+userID+"/preferences", map[string]any{
		"custom_settings": map[string]any{
			"nested": map[string]any{"not": "allowed"},
		},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, models.CodeValidation, body["code"])
}

func TestUpdatePreferencesLifecycleGates(t *testing.T) {
	app, _ := newTestServer(t)

	// Unknown user: not found.
	resp, body := doJSON(t, app, http.MethodPut, "/api/users/no-such-user/preferences", map[string]any{
		"theme": "dark",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, models.CodeNotFound, body["code"])

	// Soft-deleted user: the record exists, so this is a rule violation.
	userID := createTestProfile(t, app, "alice", "alice@example.com")
	resp, _ = doJSON(t, app, http.MethodDelete, "/api/users/"+userID, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodPut, "/api/users/"+userID+"/preferences", map[string]any{
		"theme": "dark",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, models.CodeBusinessRule, body["code"])

	// And the preferences read of a soft-deleted user is a missing resource.
	resp, body = doJSON(t, app, http.MethodGet, "/api/users/"+userID+"/preferences", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, models.CodeNotFound, body["code"])
}

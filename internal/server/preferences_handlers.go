package server

import (
	"datagov/internal/models"
	"datagov/internal/service"
	"datagov/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GetPreferences handles GET /api/users/:id/preferences. A user who never
// wrote preferences gets the default view; nothing is persisted by a read.
func (s *Server) GetPreferences(c *fiber.Ctx) error {
	userID, ok := requireID(c, "id")
	if !ok {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid user ID"))
	}

	prefs, err := s.prefsService.GetPreferences(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(prefs)
}

// UpdatePreferences handles PUT /api/users/:id/preferences
func (s *Server) UpdatePreferences(c *fiber.Ctx) error {
	userID, ok := requireID(c, "id")
	if !ok {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid user ID"))
	}

	var req struct {
		Theme              *string            `json:"theme"`
		Language           *string            `json:"language"`
		EmailNotifications *bool              `json:"email_notifications"`
		PushNotifications  *bool              `json:"push_notifications"`
		SMSNotifications   *bool              `json:"sms_notifications"`
		ProfileVisible     *bool              `json:"profile_visible"`
		ShowEmail          *bool              `json:"show_email"`
		ShowLastSeen       *bool              `json:"show_last_seen"`
		ContentFilter      *string            `json:"content_filter"`
		CustomSettings     models.SettingsMap `json:"custom_settings"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.ContentFilter != nil {
		if err := validation.ValidateContentFilter(*req.ContentFilter); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError(err.Error()))
		}
	}

	prefs, err := s.prefsService.UpdatePreferences(c.Context(), userID, service.UpdatePreferencesInput{
		Theme:              req.Theme,
		Language:           req.Language,
		EmailNotifications: req.EmailNotifications,
		PushNotifications:  req.PushNotifications,
		SMSNotifications:   req.SMSNotifications,
		ProfileVisible:     req.ProfileVisible,
		ShowEmail:          req.ShowEmail,
		ShowLastSeen:       req.ShowLastSeen,
		ContentFilter:      req.ContentFilter,
		CustomSettings:     req.CustomSettings,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(prefs)
}

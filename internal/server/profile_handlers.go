package server

import (
	"datagov/internal/models"
	"datagov/internal/service"
	"datagov/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// CreateProfile handles POST /api/users
func (s *Server) CreateProfile(c *fiber.Ctx) error {
	var req struct {
		Username        string          `json:"username"`
		Email           string          `json:"email"`
		FirstName       string          `json:"first_name"`
		LastName        string          `json:"last_name"`
		Roles           models.RoleList `json:"roles"`
		Bio             string          `json:"bio"`
		ProfileImageURL string          `json:"profile_image_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Username == "" || req.Email == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Username and email are required"))
	}
	if err := validation.ValidateUsername(req.Username); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := validation.ValidateRoles(req.Roles); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	roles := req.Roles
	if len(roles) == 0 {
		roles = models.RoleList{models.RoleUser}
	}

	profile, err := s.profileService.CreateProfile(c.Context(), service.CreateProfileInput{
		Username:        req.Username,
		Email:           req.Email,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Roles:           roles,
		Bio:             req.Bio,
		ProfileImageURL: req.ProfileImageURL,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(profile)
}

// GetProfiles handles GET /api/users. The listing is unfiltered and includes
// soft-deleted profiles; it is the admin view of the dataset.
func (s *Server) GetProfiles(c *fiber.Ctx) error {
	profiles, err := s.profileService.ListProfiles(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profiles)
}

// GetProfile handles GET /api/users/:id
func (s *Server) GetProfile(c *fiber.Ctx) error {
	id, ok := requireID(c, "id")
	if !ok {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid user ID"))
	}

	profile, err := s.profileService.GetProfile(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profile)
}

// GetProfileActive handles GET /api/users/:id/active
func (s *Server) GetProfileActive(c *fiber.Ctx) error {
	id, ok := requireID(c, "id")
	if !ok {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid user ID"))
	}

	active, err := s.profileService.IsActive(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"id": id, "active": active})
}

// UpdateProfile handles PUT /api/users/:id
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	id, ok := requireID(c, "id")
	if !ok {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid user ID"))
	}

	var req struct {
		Email           *string         `json:"email"`
		FirstName       *string         `json:"first_name"`
		LastName        *string         `json:"last_name"`
		Roles           models.RoleList `json:"roles"`
		Bio             *string         `json:"bio"`
		ProfileImageURL *string         `json:"profile_image_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Email != nil {
		if err := validation.ValidateEmail(*req.Email); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError(err.Error()))
		}
	}
	if err := validation.ValidateRoles(req.Roles); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	profile, err := s.profileService.UpdateProfile(c.Context(), id, service.UpdateProfileInput{
		Email:           req.Email,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Roles:           req.Roles,
		Bio:             req.Bio,
		ProfileImageURL: req.ProfileImageURL,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profile)
}

// SoftDeleteProfile handles DELETE /api/users/:id
func (s *Server) SoftDeleteProfile(c *fiber.Ctx) error {
	id, ok := requireID(c, "id")
	if !ok {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid user ID"))
	}

	if err := s.profileService.SoftDeleteProfile(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HardDeleteProfile handles DELETE /api/users/:id/permanent
func (s *Server) HardDeleteProfile(c *fiber.Ctx) error {
	id, ok := requireID(c, "id")
	if !ok {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid user ID"))
	}

	if err := s.profileService.HardDeleteProfile(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

package server

import (
	"datagov/internal/models"
	"datagov/internal/service"
	"datagov/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/users/:id/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID, ok := requireID(c, "id")
	if !ok {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid user ID"))
	}

	var req struct {
		Title     string            `json:"title"`
		Content   string            `json:"content"`
		ImageURLs models.StringList `json:"image_urls"`
		Tags      models.StringList `json:"tags"`
		IsPublic  *bool             `json:"is_public"`
		Status    *string           `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Title == "" || req.Content == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Title and content are required"))
	}
	if req.Status != nil {
		if err := validation.ValidatePostStatus(*req.Status); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError(err.Error()))
		}
	}

	post, err := s.postService.CreatePost(c.Context(), userID, service.CreatePostInput{
		Title:     req.Title,
		Content:   req.Content,
		ImageURLs: req.ImageURLs,
		Tags:      req.Tags,
		IsPublic:  req.IsPublic,
		Status:    req.Status,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetUserPosts handles GET /api/users/:id/posts
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	userID, ok := requireID(c, "id")
	if !ok {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid user ID"))
	}

	posts, err := s.postService.ListUserPosts(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// GetPosts handles GET /api/posts. The listing is unfiltered and includes
// soft-deleted posts; it is the admin view of the dataset.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListAllPosts(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, ok := requireID(c, "id")
	if !ok {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid post ID"))
	}

	post, err := s.postService.GetPost(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// SoftDeletePost handles DELETE /api/posts/:id
func (s *Server) SoftDeletePost(c *fiber.Ctx) error {
	id, ok := requireID(c, "id")
	if !ok {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid post ID"))
	}

	if err := s.postService.SoftDeletePost(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) mutatePostCounter(c *fiber.Ctx, mutate func(*service.PostService, *fiber.Ctx, string) (*models.UserPost, error)) error {
	id, ok := requireID(c, "id")
	if !ok {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid post ID"))
	}

	post, err := mutate(s.postService, c, id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// IncrementViewCount handles POST /api/posts/:id/view
func (s *Server) IncrementViewCount(c *fiber.Ctx) error {
	return s.mutatePostCounter(c, func(svc *service.PostService, c *fiber.Ctx, id string) (*models.UserPost, error) {
		return svc.IncrementViewCount(c.Context(), id)
	})
}

// IncrementLikeCount handles POST /api/posts/:id/like
func (s *Server) IncrementLikeCount(c *fiber.Ctx) error {
	return s.mutatePostCounter(c, func(svc *service.PostService, c *fiber.Ctx, id string) (*models.UserPost, error) {
		return svc.IncrementLikeCount(c.Context(), id)
	})
}

// DecrementLikeCount handles DELETE /api/posts/:id/like
func (s *Server) DecrementLikeCount(c *fiber.Ctx) error {
	return s.mutatePostCounter(c, func(svc *service.PostService, c *fiber.Ctx, id string) (*models.UserPost, error) {
		return svc.DecrementLikeCount(c.Context(), id)
	})
}

// IncrementCommentCount handles POST /api/posts/:id/comment-count
func (s *Server) IncrementCommentCount(c *fiber.Ctx) error {
	return s.mutatePostCounter(c, func(svc *service.PostService, c *fiber.Ctx, id string) (*models.UserPost, error) {
		return svc.IncrementCommentCount(c.Context(), id)
	})
}

// DecrementCommentCount handles DELETE /api/posts/:id/comment-count
func (s *Server) DecrementCommentCount(c *fiber.Ctx) error {
	return s.mutatePostCounter(c, func(svc *service.PostService, c *fiber.Ctx, id string) (*models.UserPost, error) {
		return svc.DecrementCommentCount(c.Context(), id)
	})
}

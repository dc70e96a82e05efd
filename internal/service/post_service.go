package service

import (
	"context"
	"time"

	"datagov/internal/middleware"
	"datagov/internal/models"
	"datagov/internal/repository"
)

// PostService enforces the post lifecycle. Posts can only be created for an
// active user and carry their own independent soft-delete state.
type PostService struct {
	postRepo repository.PostRepository
	profiles *ProfileService
}

// CreatePostInput carries the fields for a new post. Unsupplied visibility and
// status fall back to public/PUBLISHED; counters always start at zero.
type CreatePostInput struct {
	Title     string
	Content   string
	ImageURLs models.StringList
	Tags      models.StringList
	IsPublic  *bool
	Status    *string
}

// NewPostService builds a PostService.
func NewPostService(postRepo repository.PostRepository, profiles *ProfileService) *PostService {
	return &PostService{postRepo: postRepo, profiles: profiles}
}

// CreatePost creates a post for an active user. A nonexistent and a
// soft-deleted owner are deliberately not distinguished here: both fail the
// same precondition.
func (s *PostService) CreatePost(ctx context.Context, userID string, in CreatePostInput) (*models.UserPost, error) {
	active, err := s.profiles.IsActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !active {
		middleware.LifecycleViolations.WithLabelValues(models.CodeBusinessRule).Inc()
		return nil, models.NewBusinessRuleError("Cannot create post for inactive or non-existent user")
	}

	post := &models.UserPost{
		UserID:    userID,
		Title:     in.Title,
		Content:   in.Content,
		ImageURLs: in.ImageURLs,
		Tags:      in.Tags,
		IsPublic:  true,
		Status:    models.PostStatusPublished,
	}
	if in.IsPublic != nil {
		post.IsPublic = *in.IsPublic
	}
	if in.Status != nil {
		post.Status = *in.Status
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	middleware.LifecycleEvents.WithLabelValues("post", "create").Inc()
	return post, nil
}

// ListUserPosts returns the active posts of an active user. The user-scoped
// list requires an active owner; a soft-deleted user yields NotFound, not an
// empty list.
func (s *PostService) ListUserPosts(ctx context.Context, userID string) ([]models.UserPost, error) {
	active, err := s.profiles.IsActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, models.NewNotFoundError("User", userID)
	}
	return s.postRepo.ListActiveByUserID(ctx, userID)
}

// ListAllPosts returns every post regardless of delete state or owner state;
// this is the admin read path.
func (s *PostService) ListAllPosts(ctx context.Context) ([]models.UserPost, error) {
	return s.postRepo.ListAll(ctx)
}

// GetPost returns the post with the given ID, excluding soft-deleted records.
func (s *PostService) GetPost(ctx context.Context, id string) (*models.UserPost, error) {
	return s.postRepo.GetActiveByID(ctx, id)
}

// SoftDeletePost marks an active post as deleted. Posts have no children, so
// nothing cascades.
func (s *PostService) SoftDeletePost(ctx context.Context, id string) error {
	post, err := s.postRepo.GetActiveByID(ctx, id)
	if err != nil {
		return err
	}

	post.MarkDeleted(time.Now().UTC())
	if err := s.postRepo.Update(ctx, post); err != nil {
		return err
	}

	middleware.LifecycleEvents.WithLabelValues("post", "soft_delete").Inc()
	return nil
}

// IncrementViewCount bumps the view counter of an active post.
func (s *PostService) IncrementViewCount(ctx context.Context, id string) (*models.UserPost, error) {
	return s.mutateCounters(ctx, id, (*models.UserPost).IncrementViewCount)
}

// IncrementLikeCount bumps the like counter of an active post.
func (s *PostService) IncrementLikeCount(ctx context.Context, id string) (*models.UserPost, error) {
	return s.mutateCounters(ctx, id, (*models.UserPost).IncrementLikeCount)
}

// DecrementLikeCount lowers the like counter of an active post, flooring at
// zero.
func (s *PostService) DecrementLikeCount(ctx context.Context, id string) (*models.UserPost, error) {
	return s.mutateCounters(ctx, id, (*models.UserPost).DecrementLikeCount)
}

// IncrementCommentCount bumps the comment counter of an active post.
func (s *PostService) IncrementCommentCount(ctx context.Context, id string) (*models.UserPost, error) {
	return s.mutateCounters(ctx, id, (*models.UserPost).IncrementCommentCount)
}

// DecrementCommentCount lowers the comment counter of an active post, flooring
// at zero.
func (s *PostService) DecrementCommentCount(ctx context.Context, id string) (*models.UserPost, error) {
	return s.mutateCounters(ctx, id, (*models.UserPost).DecrementCommentCount)
}

func (s *PostService) mutateCounters(ctx context.Context, id string, mutate func(*models.UserPost)) (*models.UserPost, error) {
	post, err := s.postRepo.GetActiveByID(ctx, id)
	if err != nil {
		return nil, err
	}
	mutate(post)
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

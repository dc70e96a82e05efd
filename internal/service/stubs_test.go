package service

import (
	"context"
	"testing"
	"time"

	"datagov/internal/models"
)

type profileRepoStub struct {
	getByIDFn          func(context.Context, string) (*models.UserProfile, error)
	getActiveByIDFn    func(context.Context, string) (*models.UserProfile, error)
	existsByUsernameFn func(context.Context, string) (bool, error)
	existsByEmailFn    func(context.Context, string) (bool, error)
	createFn           func(context.Context, *models.UserProfile) error
	updateFn           func(context.Context, *models.UserProfile) error
	hardDeleteFn       func(context.Context, string) error
	listFn             func(context.Context) ([]models.UserProfile, error)
}

func (s *profileRepoStub) GetByID(ctx context.Context, id string) (*models.UserProfile, error) {
	return s.getByIDFn(ctx, id)
}
func (s *profileRepoStub) GetActiveByID(ctx context.Context, id string) (*models.UserProfile, error) {
	return s.getActiveByIDFn(ctx, id)
}
func (s *profileRepoStub) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return s.existsByUsernameFn(ctx, username)
}
func (s *profileRepoStub) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.existsByEmailFn(ctx, email)
}
func (s *profileRepoStub) Create(ctx context.Context, p *models.UserProfile) error {
	return s.createFn(ctx, p)
}
func (s *profileRepoStub) Update(ctx context.Context, p *models.UserProfile) error {
	return s.updateFn(ctx, p)
}
func (s *profileRepoStub) HardDelete(ctx context.Context, id string) error {
	return s.hardDeleteFn(ctx, id)
}
func (s *profileRepoStub) List(ctx context.Context) ([]models.UserProfile, error) {
	return s.listFn(ctx)
}

func noopProfileRepo() *profileRepoStub {
	return &profileRepoStub{
		getByIDFn:          func(context.Context, string) (*models.UserProfile, error) { return &models.UserProfile{}, nil },
		getActiveByIDFn:    func(context.Context, string) (*models.UserProfile, error) { return &models.UserProfile{}, nil },
		existsByUsernameFn: func(context.Context, string) (bool, error) { return false, nil },
		existsByEmailFn:    func(context.Context, string) (bool, error) { return false, nil },
		createFn:           func(context.Context, *models.UserProfile) error { return nil },
		updateFn:           func(context.Context, *models.UserProfile) error { return nil },
		hardDeleteFn:       func(context.Context, string) error { return nil },
		listFn:             func(context.Context) ([]models.UserProfile, error) { return nil, nil },
	}
}

type postRepoStub struct {
	createFn                func(context.Context, *models.UserPost) error
	getActiveByIDFn         func(context.Context, string) (*models.UserPost, error)
	listActiveByUserIDFn    func(context.Context, string) ([]models.UserPost, error)
	listAllFn               func(context.Context) ([]models.UserPost, error)
	updateFn                func(context.Context, *models.UserPost) error
	softDeleteAllByUserIDFn func(context.Context, string, time.Time) error
	deleteAllByUserIDFn     func(context.Context, string) error
}

func (s *postRepoStub) Create(ctx context.Context, p *models.UserPost) error {
	return s.createFn(ctx, p)
}
func (s *postRepoStub) GetActiveByID(ctx context.Context, id string) (*models.UserPost, error) {
	return s.getActiveByIDFn(ctx, id)
}
func (s *postRepoStub) ListActiveByUserID(ctx context.Context, userID string) ([]models.UserPost, error) {
	return s.listActiveByUserIDFn(ctx, userID)
}
func (s *postRepoStub) ListAll(ctx context.Context) ([]models.UserPost, error) {
	return s.listAllFn(ctx)
}
func (s *postRepoStub) Update(ctx context.Context, p *models.UserPost) error {
	return s.updateFn(ctx, p)
}
func (s *postRepoStub) SoftDeleteAllByUserID(ctx context.Context, userID string, deletedAt time.Time) error {
	return s.softDeleteAllByUserIDFn(ctx, userID, deletedAt)
}
func (s *postRepoStub) DeleteAllByUserID(ctx context.Context, userID string) error {
	return s.deleteAllByUserIDFn(ctx, userID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:                func(context.Context, *models.UserPost) error { return nil },
		getActiveByIDFn:         func(context.Context, string) (*models.UserPost, error) { return &models.UserPost{}, nil },
		listActiveByUserIDFn:    func(context.Context, string) ([]models.UserPost, error) { return nil, nil },
		listAllFn:               func(context.Context) ([]models.UserPost, error) { return nil, nil },
		updateFn:                func(context.Context, *models.UserPost) error { return nil },
		softDeleteAllByUserIDFn: func(context.Context, string, time.Time) error { return nil },
		deleteAllByUserIDFn:     func(context.Context, string) error { return nil },
	}
}

type prefsRepoStub struct {
	getActiveByUserIDFn func(context.Context, string) (*models.UserPreferences, error)
	saveFn              func(context.Context, *models.UserPreferences) error
	deleteByUserIDFn    func(context.Context, string) error
}

func (s *prefsRepoStub) GetActiveByUserID(ctx context.Context, userID string) (*models.UserPreferences, error) {
	return s.getActiveByUserIDFn(ctx, userID)
}
func (s *prefsRepoStub) Save(ctx context.Context, p *models.UserPreferences) error {
	return s.saveFn(ctx, p)
}
func (s *prefsRepoStub) DeleteByUserID(ctx context.Context, userID string) error {
	return s.deleteByUserIDFn(ctx, userID)
}

func noopPrefsRepo() *prefsRepoStub {
	return &prefsRepoStub{
		getActiveByUserIDFn: func(context.Context, string) (*models.UserPreferences, error) { return nil, nil },
		saveFn:              func(context.Context, *models.UserPreferences) error { return nil },
		deleteByUserIDFn:    func(context.Context, string) error { return nil },
	}
}

func notFoundProfileRepo() *profileRepoStub {
	repo := noopProfileRepo()
	repo.getByIDFn = func(_ context.Context, id string) (*models.UserProfile, error) {
		return nil, models.NewNotFoundError("User", id)
	}
	repo.getActiveByIDFn = func(_ context.Context, id string) (*models.UserProfile, error) {
		return nil, models.NewNotFoundError("User", id)
	}
	return repo
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	appErr, ok := err.(*models.AppError)
	if !ok {
		t.Fatalf("expected *models.AppError, got %#v", err)
	}
	if appErr.Code != code {
		t.Fatalf("expected code %s, got %s (%s)", code, appErr.Code, appErr.Message)
	}
}

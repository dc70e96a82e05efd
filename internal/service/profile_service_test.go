package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datagov/internal/models"
)

func newProfileService(profiles *profileRepoStub, posts *postRepoStub, prefs *prefsRepoStub) *ProfileService {
	return NewProfileService(profiles, posts, prefs, 24*time.Hour)
}

func TestCreateProfile(t *testing.T) {
	t.Parallel()

	repo := noopProfileRepo()
	var created *models.UserProfile
	repo.createFn = func(_ context.Context, p *models.UserProfile) error {
		created = p
		return nil
	}
	svc := newProfileService(repo, noopPostRepo(), noopPrefsRepo())

	profile, err := svc.CreateProfile(context.Background(), CreateProfileInput{
		Username:  "alice",
		Email:     "alice@example.com",
		FirstName: "Alice",
		LastName:  "Anderson",
		Roles:     models.RoleList{models.RoleUser},
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, "alice", profile.Username)
	assert.False(t, profile.Deleted)
	assert.Nil(t, profile.DeletedAt)
	require.Len(t, profile.AuditTrail, 1)
	assert.Equal(t, models.AuditActionCreate, profile.AuditTrail[0].Action)
	assert.Equal(t, models.AuditActorSystem, profile.AuditTrail[0].PerformedBy)
}

func TestCreateProfileUsernameTaken(t *testing.T) {
	t.Parallel()

	// Soft-deleted rows count too: the repo reports existence unfiltered.
	repo := noopProfileRepo()
	repo.existsByUsernameFn = func(context.Context, string) (bool, error) { return true, nil }
	repo.createFn = func(context.Context, *models.UserProfile) error {
		t.Fatal("create must not be reached on a username conflict")
		return nil
	}
	svc := newProfileService(repo, noopPostRepo(), noopPrefsRepo())

	_, err := svc.CreateProfile(context.Background(), CreateProfileInput{Username: "alice", Email: "a@b.c"})
	assertAppErrorCode(t, err, models.CodeConflict)
}

func TestCreateProfileEmailTaken(t *testing.T) {
	t.Parallel()

	repo := noopProfileRepo()
	repo.existsByEmailFn = func(context.Context, string) (bool, error) { return true, nil }
	svc := newProfileService(repo, noopPostRepo(), noopPrefsRepo())

	_, err := svc.CreateProfile(context.Background(), CreateProfileInput{Username: "alice", Email: "a@b.c"})
	assertAppErrorCode(t, err, models.CodeConflict)
}

func TestGetProfileNotFound(t *testing.T) {
	t.Parallel()

	svc := newProfileService(notFoundProfileRepo(), noopPostRepo(), noopPrefsRepo())

	_, err := svc.GetProfile(context.Background(), "missing")
	assertAppErrorCode(t, err, models.CodeNotFound)
}

func TestUpdateProfilePartial(t *testing.T) {
	t.Parallel()

	repo := noopProfileRepo()
	repo.getActiveByIDFn = func(context.Context, string) (*models.UserProfile, error) {
		return &models.UserProfile{
			ID:        "u1",
			Username:  "alice",
			Email:     "alice@example.com",
			FirstName: "Alice",
			LastName:  "Anderson",
			Bio:       "original bio",
		}, nil
	}
	var saved *models.UserProfile
	repo.updateFn = func(_ context.Context, p *models.UserProfile) error {
		saved = p
		return nil
	}
	svc := newProfileService(repo, noopPostRepo(), noopPrefsRepo())

	first := "Alicia"
	bio := ""
	updated, err := svc.UpdateProfile(context.Background(), "u1", UpdateProfileInput{
		FirstName: &first,
		Bio:       &bio,
	})
	require.NoError(t, err)
	require.NotNil(t, saved)

	assert.Equal(t, "Alicia", updated.FirstName)
	assert.Equal(t, "", updated.Bio, "explicit empty value is applied, not ignored")
	assert.Equal(t, "Anderson", updated.LastName, "unsupplied field stays unchanged")
	assert.Equal(t, "alice@example.com", updated.Email)
	require.NotEmpty(t, updated.AuditTrail)
	assert.Equal(t, models.AuditActionUpdate, updated.AuditTrail[len(updated.AuditTrail)-1].Action)
}

func TestUpdateProfileEmailConflict(t *testing.T) {
	t.Parallel()

	repo := noopProfileRepo()
	repo.getActiveByIDFn = func(context.Context, string) (*models.UserProfile, error) {
		return &models.UserProfile{ID: "u1", Email: "alice@example.com"}, nil
	}
	repo.existsByEmailFn = func(context.Context, string) (bool, error) { return true, nil }
	svc := newProfileService(repo, noopPostRepo(), noopPrefsRepo())

	email := "taken@example.com"
	_, err := svc.UpdateProfile(context.Background(), "u1", UpdateProfileInput{Email: &email})
	assertAppErrorCode(t, err, models.CodeConflict)
}

func TestUpdateProfileSameEmailSkipsCheck(t *testing.T) {
	t.Parallel()

	repo := noopProfileRepo()
	repo.getActiveByIDFn = func(context.Context, string) (*models.UserProfile, error) {
		return &models.UserProfile{ID: "u1", Email: "alice@example.com"}, nil
	}
	repo.existsByEmailFn = func(context.Context, string) (bool, error) {
		t.Fatal("unchanged email must not trigger a conflict check")
		return false, nil
	}
	svc := newProfileService(repo, noopPostRepo(), noopPrefsRepo())

	email := "alice@example.com"
	_, err := svc.UpdateProfile(context.Background(), "u1", UpdateProfileInput{Email: &email})
	require.NoError(t, err)
}

func TestSoftDeleteProfileCascades(t *testing.T) {
	t.Parallel()

	repo := noopProfileRepo()
	profile := &models.UserProfile{ID: "u1", Username: "alice"}
	repo.getActiveByIDFn = func(context.Context, string) (*models.UserProfile, error) {
		return profile, nil
	}
	var savedProfile *models.UserProfile
	repo.updateFn = func(_ context.Context, p *models.UserProfile) error {
		savedProfile = p
		return nil
	}

	posts := noopPostRepo()
	var cascadeUser string
	var cascadeAt time.Time
	posts.softDeleteAllByUserIDFn = func(_ context.Context, userID string, deletedAt time.Time) error {
		cascadeUser = userID
		cascadeAt = deletedAt
		return nil
	}

	svc := newProfileService(repo, posts, noopPrefsRepo())
	require.NoError(t, svc.SoftDeleteProfile(context.Background(), "u1"))

	require.NotNil(t, savedProfile)
	assert.True(t, savedProfile.Deleted)
	require.NotNil(t, savedProfile.DeletedAt)
	assert.Equal(t, "u1", cascadeUser)
	assert.Equal(t, *savedProfile.DeletedAt, cascadeAt, "posts share the profile's deletion timestamp")
	require.NotEmpty(t, savedProfile.AuditTrail)
	assert.Equal(t, models.AuditActionSoftDelete, savedProfile.AuditTrail[len(savedProfile.AuditTrail)-1].Action)
}

func TestSoftDeleteProfileAlreadyDeleted(t *testing.T) {
	t.Parallel()

	// The active-only lookup does not see soft-deleted rows, so a second
	// delete reports the user as missing.
	svc := newProfileService(notFoundProfileRepo(), noopPostRepo(), noopPrefsRepo())
	err := svc.SoftDeleteProfile(context.Background(), "u1")
	assertAppErrorCode(t, err, models.CodeNotFound)
}

func TestSoftDeleteProfileCascadeFailureAborts(t *testing.T) {
	t.Parallel()

	repo := noopProfileRepo()
	repo.updateFn = func(context.Context, *models.UserProfile) error {
		t.Fatal("profile must not be saved when the post cascade fails")
		return nil
	}
	posts := noopPostRepo()
	posts.softDeleteAllByUserIDFn = func(context.Context, string, time.Time) error {
		return models.NewInternalError(assert.AnError)
	}
	svc := newProfileService(repo, posts, noopPrefsRepo())

	err := svc.SoftDeleteProfile(context.Background(), "u1")
	assertAppErrorCode(t, err, models.CodeInternal)
}

func TestHardDeleteProfileNotSoftDeleted(t *testing.T) {
	t.Parallel()

	repo := noopProfileRepo()
	repo.getByIDFn = func(context.Context, string) (*models.UserProfile, error) {
		return &models.UserProfile{ID: "u1", Deleted: false}, nil
	}
	repo.hardDeleteFn = func(context.Context, string) error {
		t.Fatal("an active profile must never be hard-deleted")
		return nil
	}
	svc := newProfileService(repo, noopPostRepo(), noopPrefsRepo())

	err := svc.HardDeleteProfile(context.Background(), "u1")
	assertAppErrorCode(t, err, models.CodeBusinessRule)
}

func TestHardDeleteProfileMissingTimestamp(t *testing.T) {
	t.Parallel()

	repo := noopProfileRepo()
	repo.getByIDFn = func(context.Context, string) (*models.UserProfile, error) {
		return &models.UserProfile{ID: "u1", Deleted: true}, nil
	}
	svc := newProfileService(repo, noopPostRepo(), noopPrefsRepo())

	err := svc.HardDeleteProfile(context.Background(), "u1")
	assertAppErrorCode(t, err, models.CodeBusinessRule)
}

func TestHardDeleteProfileWithinGracePeriod(t *testing.T) {
	t.Parallel()

	deletedAt := time.Now().UTC().Add(-1 * time.Hour)
	repo := noopProfileRepo()
	repo.getByIDFn = func(context.Context, string) (*models.UserProfile, error) {
		return &models.UserProfile{ID: "u1", Deleted: true, DeletedAt: &deletedAt}, nil
	}
	repo.hardDeleteFn = func(context.Context, string) error {
		t.Fatal("profile row must survive a rejected hard delete")
		return nil
	}
	posts := noopPostRepo()
	posts.deleteAllByUserIDFn = func(context.Context, string) error {
		t.Fatal("posts must survive a rejected hard delete")
		return nil
	}
	prefs := noopPrefsRepo()
	prefs.deleteByUserIDFn = func(context.Context, string) error {
		t.Fatal("preferences must survive a rejected hard delete")
		return nil
	}
	svc := newProfileService(repo, posts, prefs)

	err := svc.HardDeleteProfile(context.Background(), "u1")
	assertAppErrorCode(t, err, models.CodeBusinessRule)
	assert.Contains(t, err.Error(), "Grace period of 24 hours")
}

func TestHardDeleteProfileAfterGracePeriod(t *testing.T) {
	t.Parallel()

	deletedAt := time.Now().UTC().Add(-25 * time.Hour)
	repo := noopProfileRepo()
	repo.getByIDFn = func(context.Context, string) (*models.UserProfile, error) {
		return &models.UserProfile{ID: "u1", Deleted: true, DeletedAt: &deletedAt}, nil
	}
	var profileDeleted bool
	repo.hardDeleteFn = func(context.Context, string) error {
		profileDeleted = true
		return nil
	}
	posts := noopPostRepo()
	var postsDeleted bool
	posts.deleteAllByUserIDFn = func(context.Context, string) error {
		postsDeleted = true
		return nil
	}
	prefs := noopPrefsRepo()
	var prefsDeleted bool
	prefs.deleteByUserIDFn = func(context.Context, string) error {
		prefsDeleted = true
		return nil
	}
	svc := newProfileService(repo, posts, prefs)

	require.NoError(t, svc.HardDeleteProfile(context.Background(), "u1"))
	assert.True(t, prefsDeleted)
	assert.True(t, postsDeleted)
	assert.True(t, profileDeleted)
}

func TestHardDeleteProfileUnknownID(t *testing.T) {
	t.Parallel()

	svc := newProfileService(notFoundProfileRepo(), noopPostRepo(), noopPrefsRepo())
	err := svc.HardDeleteProfile(context.Background(), "missing")
	assertAppErrorCode(t, err, models.CodeNotFound)
}

func TestIsActive(t *testing.T) {
	t.Parallel()

	svc := newProfileService(noopProfileRepo(), noopPostRepo(), noopPrefsRepo())
	active, err := svc.IsActive(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, active)

	svc = newProfileService(notFoundProfileRepo(), noopPostRepo(), noopPrefsRepo())
	active, err = svc.IsActive(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestProfileState(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	tests := []struct {
		name       string
		repo       *profileRepoStub
		wantExists bool
		wantActive bool
	}{
		{
			name:       "active profile",
			repo:       noopProfileRepo(),
			wantExists: true,
			wantActive: true,
		},
		{
			name: "soft-deleted profile",
			repo: func() *profileRepoStub {
				r := noopProfileRepo()
				r.getByIDFn = func(context.Context, string) (*models.UserProfile, error) {
					return &models.UserProfile{ID: "u1", Deleted: true, DeletedAt: &now}, nil
				}
				return r
			}(),
			wantExists: true,
			wantActive: false,
		},
		{
			name:       "unknown profile",
			repo:       notFoundProfileRepo(),
			wantExists: false,
			wantActive: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := newProfileService(tt.repo, noopPostRepo(), noopPrefsRepo())
			exists, active, err := svc.ProfileState(context.Background(), "u1")
			require.NoError(t, err)
			assert.Equal(t, tt.wantExists, exists)
			assert.Equal(t, tt.wantActive, active)
		})
	}
}

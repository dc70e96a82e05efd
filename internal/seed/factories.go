// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"datagov/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	gofakeit.Seed(seed)
	return &Factory{db: db, opts: opts, rng: rand.New(rand.NewSource(seed))}
}

// BuildProfile constructs a sample profile without persisting it. Optional
// override functions may modify the generated profile.
func (f *Factory) BuildProfile(overrides ...func(*models.UserProfile)) *models.UserProfile {
	profile := &models.UserProfile{
		Username:        gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:           gofakeit.Email(),
		FirstName:       gofakeit.FirstName(),
		LastName:        gofakeit.LastName(),
		Roles:           models.RoleList{models.RoleUser},
		Bio:             gofakeit.Sentence(10),
		ProfileImageURL: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}
	profile.AddAuditEntry(models.AuditActionCreate, "User profile created")

	for _, override := range overrides {
		override(profile)
	}
	return profile
}

// CreateProfile constructs and persists a sample profile.
func (f *Factory) CreateProfile(overrides ...func(*models.UserProfile)) (*models.UserProfile, error) {
	profile := f.BuildProfile(overrides...)

	if f.opts.DryRun {
		log.Printf("[dry-run] CreateProfile: %s <%s>", profile.Username, profile.Email)
		return profile, nil
	}
	if err := f.db.Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// BuildPost constructs a sample post for the given owner without persisting it.
func (f *Factory) BuildPost(owner *models.UserProfile, overrides ...func(*models.UserPost)) *models.UserPost {
	post := &models.UserPost{
		UserID:   owner.ID,
		Title:    gofakeit.Sentence(5),
		Content:  gofakeit.Paragraph(1, 3, 5, "\n"),
		Tags:     models.StringList{gofakeit.Word(), gofakeit.Word()},
		IsPublic: true,
		Status:   models.PostStatusPublished,
	}
	if f.rng.Intn(4) == 0 {
		post.ImageURLs = models.StringList{
			fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID()),
		}
	}

	// realistic created_at spread
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rng.Intn(maxDays)
	hoursBack := f.rng.Intn(24)
	post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	post.ViewCount = f.rng.Intn(500)
	post.LikeCount = f.rng.Intn(50)
	post.CommentCount = f.rng.Intn(20)

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePostsBatch persists multiple posts in a single DB call.
func (f *Factory) CreatePostsBatch(posts []*models.UserPost) error {
	if len(posts) == 0 {
		return nil
	}
	if f.opts.DryRun {
		log.Printf("[dry-run] CreatePostsBatch: %d posts (no DB write)", len(posts))
		return nil
	}
	return f.db.Create(&posts).Error
}

// CreatePreferences constructs and persists a sample preferences record for
// the given owner.
func (f *Factory) CreatePreferences(owner *models.UserProfile, overrides ...func(*models.UserPreferences)) (*models.UserPreferences, error) {
	prefs := models.DefaultPreferences(owner.ID)
	if f.rng.Intn(2) == 0 {
		prefs.Theme = "dark"
	}
	prefs.SetSetting("timezone", models.StringSetting(gofakeit.TimeZoneRegion()))
	prefs.SetSetting("items_per_page", models.NumberSetting(float64(10*(1+f.rng.Intn(5)))))

	for _, override := range overrides {
		override(prefs)
	}

	if f.opts.DryRun {
		log.Printf("[dry-run] CreatePreferences for %s", owner.Username)
		return prefs, nil
	}
	if err := f.db.Create(prefs).Error; err != nil {
		return nil, err
	}
	return prefs, nil
}

package seed

import (
	"fmt"
	"log"
	"time"

	"datagov/internal/models"

	"gorm.io/gorm"
)

// Options controls the volume and behavior of a seeding run.
type Options struct {
	// Profiles is the number of user profiles to create.
	Profiles int
	// PostsPerProfile is the maximum number of posts generated per profile.
	PostsPerProfile int
	// SoftDeletedRatio is the fraction of profiles seeded as soft-deleted,
	// cascade included, to exercise the admin views.
	SoftDeletedRatio float64
	// MaxDays bounds how far in the past generated posts are dated.
	MaxDays int
	// Seed fixes the random source for reproducible runs; 0 uses wall time.
	Seed int64
	// DryRun logs what would be created without touching the database.
	DryRun bool
}

// DefaultOptions returns the volumes used by the development preset.
func DefaultOptions() Options {
	return Options{
		Profiles:         25,
		PostsPerProfile:  6,
		SoftDeletedRatio: 0.2,
		MaxDays:          90,
	}
}

// Run populates the database with generated profiles, preferences, and posts.
// A slice of the profiles is soft-deleted afterwards, posts cascaded with the
// same timestamp, so seeded data covers both sides of every lifecycle gate.
func Run(db *gorm.DB, opts Options) error {
	f := NewFactory(db, opts)
	start := time.Now()

	var created []*models.UserProfile
	for i := 0; i < opts.Profiles; i++ {
		profile, err := f.CreateProfile()
		if err != nil {
			return fmt.Errorf("seeding profile %d: %w", i, err)
		}
		created = append(created, profile)

		if _, err := f.CreatePreferences(profile); err != nil {
			return fmt.Errorf("seeding preferences for %s: %w", profile.Username, err)
		}

		var posts []*models.UserPost
		for n := f.rng.Intn(opts.PostsPerProfile + 1); n > 0; n-- {
			posts = append(posts, f.BuildPost(profile))
		}
		if err := f.CreatePostsBatch(posts); err != nil {
			return fmt.Errorf("seeding posts for %s: %w", profile.Username, err)
		}
	}

	if !opts.DryRun {
		deleteCount := int(float64(len(created)) * opts.SoftDeletedRatio)
		for _, profile := range created[:deleteCount] {
			deletedAt := time.Now().UTC().Add(-time.Duration(f.rng.Intn(72)) * time.Hour)
			profile.MarkDeleted(deletedAt)
			profile.AddAuditEntry(models.AuditActionSoftDelete, "User profile soft deleted")

			if err := db.Model(&models.UserPost{}).
				Where("user_id = ? AND deleted = ?", profile.ID, false).
				Updates(map[string]interface{}{"deleted": true, "deleted_at": deletedAt}).Error; err != nil {
				return fmt.Errorf("cascading seeded delete for %s: %w", profile.Username, err)
			}
			if err := db.Save(profile).Error; err != nil {
				return fmt.Errorf("soft-deleting seeded profile %s: %w", profile.Username, err)
			}
		}
	}

	log.Printf("Seeded %d profiles in %s", len(created), time.Since(start).Round(time.Millisecond))
	return nil
}

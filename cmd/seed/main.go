// Command main runs the database seeder for the data governance service.
package main

import (
	"flag"
	"log"

	"datagov/internal/config"
	"datagov/internal/database"
	"datagov/internal/models"
	"datagov/internal/seed"
)

func main() {
	profiles := flag.Int("profiles", 25, "Number of user profiles to create")
	postsPer := flag.Int("posts-per-profile", 6, "Maximum posts generated per profile")
	deletedRatio := flag.Float64("deleted-ratio", 0.2, "Fraction of profiles seeded as soft-deleted")
	randSeed := flag.Int64("seed", 0, "Random seed for reproducible runs (0 = wall time)")
	shouldClean := flag.Bool("clean", true, "Clean existing data before seeding")
	dryRun := flag.Bool("dry-run", false, "Log what would be created without writing")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if *shouldClean && !*dryRun {
		for _, model := range []interface{}{
			&models.UserPost{}, &models.UserPreferences{}, &models.AuditEntry{}, &models.UserProfile{},
		} {
			if err := db.Where("1 = 1").Delete(model).Error; err != nil {
				log.Fatalf("Cleanup failed: %v", err)
			}
		}
		log.Println("Existing data cleared")
	}

	opts := seed.Options{
		Profiles:         *profiles,
		PostsPerProfile:  *postsPer,
		SoftDeletedRatio: *deletedRatio,
		MaxDays:          90,
		Seed:             *randSeed,
		DryRun:           *dryRun,
	}
	if err := seed.Run(db, opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Done. Database populated with sample governance data.")
}

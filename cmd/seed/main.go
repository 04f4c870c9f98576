// Command main runs the database seeder for SenseShare.
package main

import (
	"flag"
	"log"

	"senseshare/internal/config"
	"senseshare/internal/database"
	"senseshare/internal/seed"
)

func main() {
	numProfiles := flag.Int("profiles", 20, "Number of profiles to create")
	numPosts := flag.Int("posts", 100, "Number of posts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("Database Seeder")
	log.Println("===============")
	log.Printf("Target: %d profiles, %d posts, clean=%v\n", *numProfiles, *numPosts, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if _, err = database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(database.DB)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	profiles, err := s.SeedProfiles(*numProfiles)
	if err != nil {
		log.Fatalf("Profile seeding failed: %v", err)
	}
	if err := s.SeedFeed(profiles, *numPosts); err != nil {
		log.Fatalf("Feed seeding failed: %v", err)
	}

	log.Println("All done! Your database is now populated with demo data.")
}

// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"senseshare/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumProfiles int
	NumPosts    int
	ShouldClean bool
}

var (
	categories = []string{"daily", "work", "relationships", "consumption", "food"}

	situations = []string{
		"Waited forty minutes in line for a restaurant everyone raves about",
		"Got reassigned to a new team two days before a release",
		"A stranger returned my dropped wallet with everything inside",
		"Paid extra for the window seat and the blind was broken",
		"My roommate ate the leftovers I had been saving all week",
		"The barista remembered my order on my second visit",
		"Spent a whole weekend assembling flat-pack furniture alone",
		"My phone died right before showing the ticket at the gate",
		"An old friend messaged me out of nowhere after three years",
		"The gym was completely empty at six in the morning",
	}

	sensations = []string{
		"Honestly it felt like winning a small lottery",
		"I was weirdly calm about it, which surprised me",
		"It ruined my entire day, I could not think of anything else",
		"I felt seen in a way I had not in months",
		"Mostly embarrassment, but also a little bit of pride",
		"Pure rage, the quiet kind that lasts until bedtime",
		"A tiny spark of joy that carried me through the week",
		"Total deflation, like the air going out of a balloon",
	}

	emotionTags = []string{
		"#smallwin", "#petpeeve", "#unexpected", "#quietjoy", "#rage",
		"#relatable", "#awkward", "#grateful", "#drained", "#lucky",
	}

	commentTexts = []string{
		"This is exactly the kind of thing that makes my day too",
		"I honestly cannot relate at all, but I respect it",
		"Happened to me last month, still not over it",
		"Why does this feel so specific and so universal at once",
		"You are stronger than me, I would have walked out",
	}
)

// Seeder populates the database with realistic demo data.
type Seeder struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewSeeder creates a new Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{db: db, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// ClearAll deletes all seeded data. Order matters for foreign keys.
func (s *Seeder) ClearAll() error {
	for _, table := range []string{"reaction_tags", "comments", "posts", "profiles"} {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	log.Println("Cleared existing data")
	return nil
}

// SeedProfiles creates n demo profiles with identity-service style UUIDs.
func (s *Seeder) SeedProfiles(n int) ([]*models.Profile, error) {
	profiles := make([]*models.Profile, 0, n)
	for i := 0; i < n; i++ {
		name := gofakeit.FirstName() + " " + gofakeit.LastName()
		avatar := fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID())
		profiles = append(profiles, &models.Profile{
			ID:          uuid.NewString(),
			DisplayName: &name,
			AvatarURL:   &avatar,
		})
	}
	if err := s.db.Create(&profiles).Error; err != nil {
		return nil, fmt.Errorf("seeding profiles: %w", err)
	}
	log.Printf("Seeded %d profiles", len(profiles))
	return profiles, nil
}

// SeedFeed creates numPosts posts by random profiles, each with a realistic
// spread of votes, comments and reaction tags.
func (s *Seeder) SeedFeed(profiles []*models.Profile, numPosts int) error {
	if len(profiles) == 0 {
		return fmt.Errorf("no profiles to attribute posts to")
	}

	for i := 0; i < numPosts; i++ {
		author := profiles[s.rng.Intn(len(profiles))]
		postType := models.PostTypeBest
		if s.rng.Intn(2) == 0 {
			postType = models.PostTypeWorst
		}

		post := &models.Post{
			AuthorID:      author.ID,
			Category:      categories[s.rng.Intn(len(categories))],
			Type:          postType,
			Situation:     situations[s.rng.Intn(len(situations))],
			Sensation:     sensations[s.rng.Intn(len(sensations))],
			EmotionTag:    emotionTags[s.rng.Intn(len(emotionTags))],
			Likes:         s.rng.Intn(200),
			AgreeCount:    s.rng.Intn(80),
			DisagreeCount: s.rng.Intn(40),
		}
		// realistic created_at spread over the past 30 days
		post.CreatedAt = time.Now().
			Add(-time.Duration(s.rng.Intn(30*24)) * time.Hour).
			Add(-time.Duration(s.rng.Intn(60)) * time.Minute)

		if err := s.db.Create(post).Error; err != nil {
			return fmt.Errorf("seeding post: %w", err)
		}

		if err := s.seedComments(post, profiles); err != nil {
			return err
		}
		if err := s.seedReactionTags(post); err != nil {
			return err
		}
	}

	log.Printf("Seeded %d posts with comments and reaction tags", numPosts)
	return nil
}

func (s *Seeder) seedComments(post *models.Post, profiles []*models.Profile) error {
	n := s.rng.Intn(5)
	for i := 0; i < n; i++ {
		commenter := profiles[s.rng.Intn(len(profiles))]
		comment := &models.Comment{
			PostID:   post.ID,
			AuthorID: commenter.ID,
			Text:     commentTexts[s.rng.Intn(len(commentTexts))],
		}
		if err := s.db.Create(comment).Error; err != nil {
			return fmt.Errorf("seeding comment: %w", err)
		}
	}
	return nil
}

func (s *Seeder) seedReactionTags(post *models.Post) error {
	n := s.rng.Intn(4)
	picked := s.rng.Perm(len(emotionTags))[:n]
	for _, idx := range picked {
		tag := &models.ReactionTag{
			PostID: post.ID,
			Tag:    emotionTags[idx],
			Count:  1 + s.rng.Intn(30),
		}
		if err := s.db.Create(tag).Error; err != nil {
			return fmt.Errorf("seeding reaction tag: %w", err)
		}
	}
	return nil
}

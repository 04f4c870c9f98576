package repository

import (
	"context"
	"errors"

	"senseshare/internal/models"

	"gorm.io/gorm"
)

// ProfileRepository defines the interface for profile data operations
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	// GetOrCreate fetches the profile, creating it on first authenticated
	// session when missing. The identity service owns the ID.
	GetOrCreate(ctx context.Context, id string) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) GetOrCreate(ctx context.Context, id string) (*models.Profile, error) {
	profile, err := r.GetByID(ctx, id)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	name := "New User"
	avatar := models.IdenticonURL(id)
	created := &models.Profile{ID: id, DisplayName: &name, AvatarURL: &avatar}
	if err := r.db.WithContext(ctx).Create(created).Error; err != nil {
		return nil, err
	}
	return created, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

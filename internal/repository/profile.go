package repository

import (
	"context"

	"quill/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileRepository defines persistence operations for profiles.
type ProfileRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Profile, error)
	GetByUserID(ctx context.Context, userID uint) (*models.Profile, error)
	List(ctx context.Context, limit, offset int) ([]*models.Profile, error)
	Create(ctx context.Context, profile *models.Profile) error
	Update(ctx context.Context, profile *models.Profile) error
	Delete(ctx context.Context, id uint) ([]uint, error)
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository returns a new ProfileRepository implementation.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByID(ctx context.Context, id uint) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, id).Error; err != nil {
		return nil, TranslateError("Profile", id, err)
	}
	return &profile, nil
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, TranslateError("Profile", userID, err)
	}
	return &profile, nil
}

func (r *profileRepository) List(ctx context.Context, limit, offset int) ([]*models.Profile, error) {
	limit, offset = normalizePage(limit, offset)
	var profiles []*models.Profile
	if err := r.db.WithContext(ctx).Order("id").Limit(limit).Offset(offset).Find(&profiles).Error; err != nil {
		return nil, TranslateError("Profile", nil, err)
	}
	return profiles, nil
}

// Create inserts a profile; a second profile for the same user is a conflict.
func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	return TranslateError("Profile", nil, r.db.WithContext(ctx).Omit(clause.Associations).Create(profile).Error)
}

// Update saves an existing profile and drops the cached posts filed under it.
func (r *profileRepository) Update(ctx context.Context, profile *models.Profile) error {
	var stale []models.Post
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, "Profile", &models.Profile{}, profile.ID); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(profile).Error; err != nil {
			return TranslateError("Profile", profile.ID, err)
		}
		var err error
		stale, err = postsWhere(tx, "profile_id = ?", profile.ID)
		return TranslateError("Profile", profile.ID, err)
	})
	if err != nil {
		return err
	}
	invalidatePosts(ctx, stale)
	return nil
}

// Delete removes the profile and the posts filed under it.
func (r *profileRepository) Delete(ctx context.Context, id uint) ([]uint, error) {
	var purged []models.Post
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var profile models.Profile
		if err := tx.Select("id").First(&profile, id).Error; err != nil {
			return TranslateError("Profile", id, err)
		}
		ids, err := postIDs(tx, "profile_id = ?", id)
		if err != nil {
			return TranslateError("Profile", id, err)
		}
		if purged, err = purgePosts(tx, ids); err != nil {
			return TranslateError("Profile", id, err)
		}
		return TranslateError("Profile", id, tx.Delete(&models.Profile{}, id).Error)
	})
	if err != nil {
		return nil, err
	}
	invalidatePosts(ctx, purged)
	return purgedIDs(purged), nil
}

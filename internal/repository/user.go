package repository

import (
	"context"
	"errors"
	"fmt"

	"quill/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository defines persistence operations for users. Users are never
// cached: the row carries the password hash.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
	Create(ctx context.Context, user *models.User, profile *models.Profile) error
	Update(ctx context.Context, user *models.User, profile *models.Profile) error
	UpdatePassword(ctx context.Context, id uint, hash string) error
	Delete(ctx context.Context, id uint) ([]uint, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Profile").First(&user, id).Error; err != nil {
		return nil, TranslateError("User", id, err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Profile").Where("email = ?", email).First(&user).Error; err != nil {
		return nil, TranslateError("User", email, err)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Profile").Where("username = ?", username).First(&user).Error; err != nil {
		return nil, TranslateError("User", username, err)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	limit, offset = normalizePage(limit, offset)
	var users []*models.User
	if err := r.db.WithContext(ctx).Order("id").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, TranslateError("User", nil, err)
	}
	return users, nil
}

// Create inserts user and, when given, its profile in one transaction.
func (r *userRepository) Create(ctx context.Context, user *models.User, profile *models.Profile) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(user).Error; err != nil {
			return TranslateError("User", nil, err)
		}
		if profile == nil {
			return nil
		}
		profile.UserID = user.ID
		profile.ApplyDefaults(user)
		if err := tx.Create(profile).Error; err != nil {
			return TranslateError("Profile", nil, err)
		}
		user.Profile = profile
		return nil
	})
	return err
}

// Update saves user and re-saves profile in one transaction. A profile with
// a zero ID, or whose row is gone, is created. Cached posts of the user are
// dropped afterwards as they embed the author.
func (r *userRepository) Update(ctx context.Context, user *models.User, profile *models.Profile) error {
	var stale []models.Post
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, "User", &models.User{}, user.ID); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(user).Error; err != nil {
			return TranslateError("User", user.ID, err)
		}
		if profile != nil {
			if err := claimProfile(tx, user.ID, profile); err != nil {
				return err
			}
			profile.UserID = user.ID
			profile.ApplyDefaults(user)
			if err := tx.Omit(clause.Associations).Save(profile).Error; err != nil {
				return TranslateError("Profile", profile.ID, err)
			}
			user.Profile = profile
		}
		var err error
		stale, err = postsWhere(tx, "user_id = ? OR profile_id IN (?)", user.ID,
			tx.Model(&models.Profile{}).Select("id").Where("user_id = ?", user.ID))
		return TranslateError("User", user.ID, err)
	})
	if err != nil {
		return err
	}
	invalidatePosts(ctx, stale)
	return nil
}

// claimProfile checks that profile may be saved for userID. A profile whose
// row was deleted is reset so that saving creates it again.
func claimProfile(tx *gorm.DB, userID uint, profile *models.Profile) error {
	if profile.ID == 0 {
		return nil
	}
	var current models.Profile
	err := tx.Select("id", "user_id").Take(&current, profile.ID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		profile.ID = 0
		return nil
	case err != nil:
		return TranslateError("Profile", profile.ID, err)
	case current.UserID != userID:
		return models.NewValidationError(fmt.Sprintf("Profile %d belongs to another user", profile.ID))
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).UpdateColumn("password", hash)
	if res.Error != nil {
		return TranslateError("User", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	return nil
}

// Delete removes the user with its profile, its posts (and everything hanging
// off them), its bookmarks, its notifications and its likes.
func (r *userRepository) Delete(ctx context.Context, id uint) ([]uint, error) {
	var purged []models.Post
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Select("id").First(&user, id).Error; err != nil {
			return TranslateError("User", id, err)
		}
		ids, err := postIDs(tx, "user_id = ? OR profile_id IN (?)", id,
			tx.Model(&models.Profile{}).Select("id").Where("user_id = ?", id))
		if err != nil {
			return TranslateError("User", id, err)
		}
		if purged, err = purgePosts(tx, ids); err != nil {
			return TranslateError("User", id, err)
		}
		for _, child := range []any{&models.Bookmark{}, &models.Notification{}, &models.Profile{}} {
			if err := tx.Where("user_id = ?", id).Delete(child).Error; err != nil {
				return TranslateError("User", id, err)
			}
		}
		if err := tx.Exec("DELETE FROM post_likes WHERE user_id = ?", id).Error; err != nil {
			return TranslateError("User", id, err)
		}
		if err := tx.Delete(&models.User{}, id).Error; err != nil {
			return TranslateError("User", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	invalidatePosts(ctx, purged)
	return purgedIDs(purged), nil
}

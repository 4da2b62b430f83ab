package repository

import (
	"context"

	"quill/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookmarkRepository defines persistence operations for bookmarks.
type BookmarkRepository interface {
	Create(ctx context.Context, bookmark *models.Bookmark, notify *models.Notification) error
	GetByID(ctx context.Context, id uint) (*models.Bookmark, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Bookmark, error)
	CountForPost(ctx context.Context, postID uint) (int64, error)
	Delete(ctx context.Context, id uint) error
}

type bookmarkRepository struct {
	db *gorm.DB
}

// NewBookmarkRepository returns a new BookmarkRepository implementation.
func NewBookmarkRepository(db *gorm.DB) BookmarkRepository {
	return &bookmarkRepository{db: db}
}

func (r *bookmarkRepository) Create(ctx context.Context, bookmark *models.Bookmark, notify *models.Notification) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(bookmark).Error; err != nil {
			return TranslateError("Bookmark", nil, err)
		}
		return createNotification(tx, notify)
	})
}

func (r *bookmarkRepository) GetByID(ctx context.Context, id uint) (*models.Bookmark, error) {
	var bookmark models.Bookmark
	if err := r.db.WithContext(ctx).Preload("Post").First(&bookmark, id).Error; err != nil {
		return nil, TranslateError("Bookmark", id, err)
	}
	return &bookmark, nil
}

// ListByUser returns a user's bookmarks with their posts, newest first.
func (r *bookmarkRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Bookmark, error) {
	limit, offset = normalizePage(limit, offset)
	var bookmarks []*models.Bookmark
	err := r.db.WithContext(ctx).
		Preload("Post").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&bookmarks).Error
	if err != nil {
		return nil, TranslateError("Bookmark", nil, err)
	}
	return bookmarks, nil
}

func (r *bookmarkRepository) CountForPost(ctx context.Context, postID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Bookmark{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, TranslateError("Bookmark", nil, err)
	}
	return count, nil
}

func (r *bookmarkRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Bookmark{}, id)
	if res.Error != nil {
		return TranslateError("Bookmark", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Bookmark", id)
	}
	return nil
}

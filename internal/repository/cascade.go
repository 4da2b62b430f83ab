package repository

import (
	"context"

	"quill/internal/cache"
	"quill/internal/models"

	"gorm.io/gorm"
)

// purgePosts deletes the posts in ids together with their comments,
// bookmarks, notifications and likes. It returns the deleted posts so the
// caller can drop their cache entries once the transaction commits.
func purgePosts(tx *gorm.DB, ids []uint) ([]models.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var posts []models.Post
	if err := tx.Select("id", "slug").Where("id IN ?", ids).Find(&posts).Error; err != nil {
		return nil, err
	}
	for _, child := range []any{&models.Comment{}, &models.Bookmark{}, &models.Notification{}} {
		if err := tx.Where("post_id IN ?", ids).Delete(child).Error; err != nil {
			return nil, err
		}
	}
	if err := tx.Exec("DELETE FROM post_likes WHERE post_id IN ?", ids).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("id IN ?", ids).Delete(&models.Post{}).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func postIDs(tx *gorm.DB, query string, args ...any) ([]uint, error) {
	var ids []uint
	err := tx.Model(&models.Post{}).Where(query, args...).Pluck("id", &ids).Error
	return ids, err
}

func purgedIDs(posts []models.Post) []uint {
	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}

func invalidatePosts(ctx context.Context, posts []models.Post) {
	for _, p := range posts {
		cache.InvalidatePost(ctx, p.ID, p.Slug)
	}
}

// postsWhere selects id and slug of the matching posts, which is all cache
// invalidation needs.
func postsWhere(tx *gorm.DB, query string, args ...any) ([]models.Post, error) {
	var posts []models.Post
	err := tx.Model(&models.Post{}).Select("id", "slug").Where(query, args...).Find(&posts).Error
	return posts, err
}

// requireRow fails with NOT_FOUND unless a row of model has the given id.
// Save would otherwise insert the missing row.
func requireRow(tx *gorm.DB, resource string, model any, id uint) error {
	if id == 0 {
		return models.NewNotFoundError(resource, id)
	}
	var n int64
	if err := tx.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return TranslateError(resource, id, err)
	}
	if n == 0 {
		return models.NewNotFoundError(resource, id)
	}
	return nil
}

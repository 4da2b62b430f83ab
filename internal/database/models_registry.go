package database

import "quill/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
// The post_likes join table is created through Post.Likes.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Profile{},
		&models.Category{},
		&models.Post{},
		&models.Comment{},
		&models.Bookmark{},
		&models.Notification{},
	}
}

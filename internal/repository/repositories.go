package repository

import "gorm.io/gorm"

// Repositories bundles one repository per entity over a shared connection.
type Repositories struct {
	Users         UserRepository
	Profiles      ProfileRepository
	Categories    CategoryRepository
	Posts         PostRepository
	Comments      CommentRepository
	Bookmarks     BookmarkRepository
	Notifications NotificationRepository
}

// New builds every repository over db.
func New(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(db),
		Profiles:      NewProfileRepository(db),
		Categories:    NewCategoryRepository(db),
		Posts:         NewPostRepository(db),
		Comments:      NewCommentRepository(db),
		Bookmarks:     NewBookmarkRepository(db),
		Notifications: NewNotificationRepository(db),
	}
}

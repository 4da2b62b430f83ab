// Package service implements the entity store operations on top of the
// repositories: validation, derived fields, notifications and indexing.
package service

import (
	"quill/internal/repository"
	"quill/internal/search"
)

// DefaultPostSlugAttempts bounds how often a derived post slug is redrawn.
const DefaultPostSlugAttempts = 5

// Options tune the services.
type Options struct {
	PostSlugAttempts int
}

// Services bundles every entity service.
type Services struct {
	Users         *UserService
	Profiles      *ProfileService
	Categories    *CategoryService
	Posts         *PostService
	Comments      *CommentService
	Bookmarks     *BookmarkService
	Notifications *NotificationService
}

// New wires the services over repos. ix may be nil to disable search.
func New(repos *repository.Repositories, ix search.Indexer, opts Options) *Services {
	return &Services{
		Users:         NewUserService(repos.Users, repos.Profiles, ix),
		Profiles:      NewProfileService(repos.Profiles, ix),
		Categories:    NewCategoryService(repos.Categories, ix),
		Posts:         NewPostService(repos.Posts, repos.Profiles, ix, opts.PostSlugAttempts),
		Comments:      NewCommentService(repos.Comments, repos.Posts),
		Bookmarks:     NewBookmarkService(repos.Bookmarks, repos.Posts),
		Notifications: NewNotificationService(repos.Notifications, repos.Posts),
	}
}

package admin

import (
	"context"
	"fmt"

	"quill/internal/models"
	"quill/internal/service"

	"gorm.io/gorm"
)

const newestFirst = "created_at DESC, id DESC"

// DefaultSite registers every blog entity, routing saves and deletes through
// svc so derived fields and cascades apply.
func DefaultSite(db *gorm.DB, svc *service.Services) *Site {
	site := NewSite(db)
	for _, ma := range []*ModelAdmin{
		{
			Name:       "user",
			Model:      &models.User{},
			Hidden:     []string{"password"},
			SaveFunc:   saveAs(svc.Users.Update),
			DeleteFunc: svc.Users.Delete,
		},
		{
			Name:       "profile",
			Model:      &models.Profile{},
			Preload:    []string{"User"},
			SaveFunc:   saveAs(svc.Profiles.Update),
			DeleteFunc: svc.Profiles.Delete,
		},
		{
			Name:         "category",
			Plural:       "Categories",
			Model:        &models.Category{},
			ListDisplay:  []string{"title", "image"},
			ListEditable: []string{"image"},
			Prepopulated: map[string][]string{"slug": {"title"}},
			SaveFunc:     saveAs(svc.Categories.Update),
			DeleteFunc:   svc.Categories.Delete,
		},
		{
			Name:       "post",
			Model:      &models.Post{},
			Ordering:   newestFirst,
			SaveFunc:   saveAs(svc.Posts.Update),
			DeleteFunc: svc.Posts.Delete,
		},
		{
			Name:       "comment",
			Model:      &models.Comment{},
			Preload:    []string{"Post"},
			Ordering:   newestFirst,
			SaveFunc:   saveAs(svc.Comments.Update),
			DeleteFunc: svc.Comments.Delete,
		},
		{
			Name:       "bookmark",
			Model:      &models.Bookmark{},
			Preload:    []string{"Post"},
			DeleteFunc: svc.Bookmarks.Delete,
		},
		{
			Name:       "notification",
			Model:      &models.Notification{},
			Preload:    []string{"Post"},
			DeleteFunc: svc.Notifications.Delete,
		},
	} {
		if err := site.Register(ma); err != nil {
			panic(err)
		}
	}
	return site
}

func saveAs[T any](save func(context.Context, *T) error) func(context.Context, any) error {
	return func(ctx context.Context, record any) error {
		typed, ok := record.(*T)
		if !ok {
			return models.NewInternalError(fmt.Errorf("admin: cannot save %T", record))
		}
		return save(ctx, typed)
	}
}

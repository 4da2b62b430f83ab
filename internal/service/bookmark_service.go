package service

import (
	"context"

	"quill/internal/models"
	"quill/internal/observability"
	"quill/internal/repository"
)

type BookmarkService struct {
	bookmarkRepo repository.BookmarkRepository
	postRepo     repository.PostRepository
}

func NewBookmarkService(bookmarkRepo repository.BookmarkRepository, postRepo repository.PostRepository) *BookmarkService {
	return &BookmarkService{bookmarkRepo: bookmarkRepo, postRepo: postRepo}
}

// Add saves postID for userID and notifies the post owner. Saving the same
// post twice yields two bookmarks.
func (s *BookmarkService) Add(ctx context.Context, userID, postID uint) (bookmark *models.Bookmark, err error) {
	ctx = observability.WithUserID(ctx, userID)
	op, ctx := observability.StartOperation(ctx, "bookmark", "add")
	defer func() { op.End(err) }()

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	bookmark = &models.Bookmark{UserID: userID, PostID: post.ID}
	err = s.bookmarkRepo.Create(ctx, bookmark, &models.Notification{
		UserID: post.UserID,
		PostID: post.ID,
		Type:   models.NotificationBookmark,
	})
	if err != nil {
		return nil, err
	}
	return bookmark, nil
}

func (s *BookmarkService) Get(ctx context.Context, id uint) (*models.Bookmark, error) {
	return s.bookmarkRepo.GetByID(ctx, id)
}

// ListByUser returns a user's bookmarks with their posts, newest first.
func (s *BookmarkService) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Bookmark, error) {
	return s.bookmarkRepo.ListByUser(ctx, userID, limit, offset)
}

func (s *BookmarkService) Delete(ctx context.Context, id uint) (err error) {
	op, ctx := observability.StartOperation(ctx, "bookmark", "delete")
	defer func() { op.End(err) }()

	return s.bookmarkRepo.Delete(ctx, id)
}

package service

import (
	"context"
	"fmt"
	"log/slog"

	"quill/internal/models"
	"quill/internal/observability"
	"quill/internal/repository"
	"quill/internal/search"
	"quill/internal/slug"
	"quill/internal/validation"
)

type PostService struct {
	postRepo     repository.PostRepository
	profileRepo  repository.ProfileRepository
	indexer      search.Indexer
	slugAttempts int
	newSlug      func(title string) string
}

func NewPostService(postRepo repository.PostRepository, profileRepo repository.ProfileRepository, indexer search.Indexer, slugAttempts int) *PostService {
	if slugAttempts < 1 {
		slugAttempts = DefaultPostSlugAttempts
	}
	return &PostService{
		postRepo:     postRepo,
		profileRepo:  profileRepo,
		indexer:      indexer,
		slugAttempts: slugAttempts,
		newSlug:      slug.WithToken,
	}
}

// Create inserts post. The profile defaults to the author's; status defaults
// to Draft. An empty slug is derived from the title plus a random token,
// redrawn while it collides; a supplied slug is never altered.
func (s *PostService) Create(ctx context.Context, post *models.Post) (err error) {
	op, ctx := observability.StartOperation(ctx, "post", "create")
	defer func() { op.End(err) }()

	if err = s.resolveProfile(ctx, post); err != nil {
		return err
	}
	if post.Status == "" {
		post.Status = models.PostStatusDraft
	}
	if err = validation.Struct(post); err != nil {
		return err
	}

	if post.Slug != "" {
		err = s.postRepo.Create(ctx, post)
	} else {
		err = s.createWithDerivedSlug(ctx, post)
	}
	if err != nil {
		return err
	}
	s.reindex(ctx, post)
	return nil
}

// resolveProfile defaults the profile to the author's and rejects a profile
// owned by someone else.
func (s *PostService) resolveProfile(ctx context.Context, post *models.Post) error {
	if post.ProfileID == 0 {
		if post.UserID == 0 {
			return nil
		}
		profile, err := s.profileRepo.GetByUserID(ctx, post.UserID)
		switch {
		case err == nil:
			post.ProfileID = profile.ID
		case models.ErrorCode(err) != models.CodeNotFound:
			return err
		}
		return nil
	}
	profile, err := s.profileRepo.GetByID(ctx, post.ProfileID)
	switch {
	case models.ErrorCode(err) == models.CodeNotFound:
		return models.NewValidationError(fmt.Sprintf("Profile %d does not exist", post.ProfileID))
	case err != nil:
		return err
	case profile.UserID != post.UserID:
		return models.NewValidationError(fmt.Sprintf("Profile %d does not belong to user %d", post.ProfileID, post.UserID))
	}
	return nil
}

// reindex sends the stored post, with its category and author loaded, to the
// search index.
func (s *PostService) reindex(ctx context.Context, post *models.Post) {
	if s.indexer == nil {
		return
	}
	stored, err := s.postRepo.GetByID(ctx, post.ID)
	if err != nil {
		observability.Logger.WarnContext(ctx, "reloading post for search failed",
			slog.Uint64("post_id", uint64(post.ID)), slog.String("error", err.Error()))
		stored = post
	}
	search.Refresh(ctx, s.indexer, stored)
}

func (s *PostService) createWithDerivedSlug(ctx context.Context, post *models.Post) error {
	for attempt := 1; ; attempt++ {
		post.Slug = s.newSlug(post.Title)
		last := attempt >= s.slugAttempts

		taken, err := s.postRepo.SlugExists(ctx, post.Slug)
		if err != nil {
			return err
		}
		if taken && !last {
			continue
		}
		err = s.postRepo.Create(ctx, post)
		if models.ErrorCode(err) == models.CodeConflict && !last {
			continue
		}
		return err
	}
}

func (s *PostService) Get(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

func (s *PostService) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	return s.postRepo.GetBySlug(ctx, slug)
}

// List returns posts matching filter, newest first.
func (s *PostService) List(ctx context.Context, filter repository.PostFilter) ([]*models.Post, error) {
	return s.postRepo.List(ctx, filter)
}

// ListPublished returns published posts, newest first.
func (s *PostService) ListPublished(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.postRepo.List(ctx, repository.PostFilter{Status: models.PostStatusPublished, Limit: limit, Offset: offset})
}

// ListByCategory returns the published posts of a category, newest first.
func (s *PostService) ListByCategory(ctx context.Context, categoryID uint, limit, offset int) ([]*models.Post, error) {
	return s.postRepo.List(ctx, repository.PostFilter{
		CategoryID: categoryID,
		Status:     models.PostStatusPublished,
		Limit:      limit,
		Offset:     offset,
	})
}

// ListByUser returns every post of a user whatever its status, newest first.
func (s *PostService) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	return s.postRepo.List(ctx, repository.PostFilter{UserID: userID, Limit: limit, Offset: offset})
}

// Update saves post. A cleared slug is derived again.
func (s *PostService) Update(ctx context.Context, post *models.Post) (err error) {
	op, ctx := observability.StartOperation(ctx, "post", "update")
	defer func() { op.End(err) }()

	if post.Status == "" {
		post.Status = models.PostStatusDraft
	}
	if post.Slug == "" {
		post.Slug = s.newSlug(post.Title)
	}
	if err = s.resolveProfile(ctx, post); err != nil {
		return err
	}
	if err = validation.Struct(post); err != nil {
		return err
	}
	if err = s.postRepo.Update(ctx, post); err != nil {
		return err
	}
	s.reindex(ctx, post)
	return nil
}

// Delete removes the post with its comments, bookmarks, notifications and likes.
func (s *PostService) Delete(ctx context.Context, id uint) (err error) {
	op, ctx := observability.StartOperation(ctx, "post", "delete")
	defer func() { op.End(err) }()

	if err = s.postRepo.Delete(ctx, id); err != nil {
		return err
	}
	search.Remove(ctx, s.indexer, id)
	return nil
}

// ToggleLike likes the post for userID, or unlikes it when already liked.
// A new like notifies the post owner unless the owner liked their own post.
// It reports whether the post is liked afterwards.
func (s *PostService) ToggleLike(ctx context.Context, postID, userID uint) (liked bool, err error) {
	ctx = observability.WithUserID(ctx, userID)
	op, ctx := observability.StartOperation(ctx, "post", "toggle_like")
	defer func() { op.End(err) }()

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return false, err
	}
	var notify *models.Notification
	if post.UserID != userID {
		notify = &models.Notification{UserID: post.UserID, PostID: post.ID, Type: models.NotificationLike}
	}
	return s.postRepo.ToggleLike(ctx, post.ID, userID, notify)
}

func (s *PostService) IsLiked(ctx context.Context, postID, userID uint) (bool, error) {
	return s.postRepo.IsLiked(ctx, postID, userID)
}

func (s *PostService) LikeCount(ctx context.Context, postID uint) (int64, error) {
	return s.postRepo.LikeCount(ctx, postID)
}

func (s *PostService) Likers(ctx context.Context, postID uint) ([]*models.User, error) {
	return s.postRepo.Likers(ctx, postID)
}

// IncrementViews adds one view and returns the new total.
func (s *PostService) IncrementViews(ctx context.Context, id uint) (views int, err error) {
	op, ctx := observability.StartOperation(ctx, "post", "increment_views")
	defer func() { op.End(err) }()

	return s.postRepo.IncrementViews(ctx, id)
}

package service

import (
	"context"

	"quill/internal/models"
	"quill/internal/observability"
	"quill/internal/repository"
	"quill/internal/validation"
)

type NotificationService struct {
	notificationRepo repository.NotificationRepository
	postRepo         repository.PostRepository
}

func NewNotificationService(notificationRepo repository.NotificationRepository, postRepo repository.PostRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo, postRepo: postRepo}
}

func (s *NotificationService) Create(ctx context.Context, n *models.Notification) (err error) {
	op, ctx := observability.StartOperation(ctx, "notification", "create")
	defer func() { op.End(err) }()

	if err = validation.Struct(n); err != nil {
		return err
	}
	return s.notificationRepo.Create(ctx, n)
}

func (s *NotificationService) Get(ctx context.Context, id uint) (*models.Notification, error) {
	return s.notificationRepo.GetByID(ctx, id)
}

// ListForUser returns the notifications of a user, newest first, optionally
// only those not seen yet.
func (s *NotificationService) ListForUser(ctx context.Context, userID uint, unseenOnly bool, limit, offset int) ([]*models.Notification, error) {
	return s.notificationRepo.ListForUser(ctx, userID, unseenOnly, limit, offset)
}

// MarkSeen flags the given notifications of userID as seen, all of them when
// ids is empty, and returns how many changed.
func (s *NotificationService) MarkSeen(ctx context.Context, userID uint, ids ...uint) (changed int64, err error) {
	op, ctx := observability.StartOperation(ctx, "notification", "mark_seen")
	defer func() { op.End(err) }()

	return s.notificationRepo.MarkSeen(ctx, userID, ids...)
}

// Display renders n as "<post title> - <type>", loading the post if needed.
func (s *NotificationService) Display(ctx context.Context, n *models.Notification) (string, error) {
	post := n.Post
	if post == nil {
		var err error
		if post, err = s.postRepo.GetByID(ctx, n.PostID); err != nil {
			return "", err
		}
	}
	return n.Label(post.Title), nil
}

func (s *NotificationService) Delete(ctx context.Context, id uint) (err error) {
	op, ctx := observability.StartOperation(ctx, "notification", "delete")
	defer func() { op.End(err) }()

	return s.notificationRepo.Delete(ctx, id)
}

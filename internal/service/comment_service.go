package service

import (
	"context"

	"quill/internal/models"
	"quill/internal/observability"
	"quill/internal/repository"
	"quill/internal/validation"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, postRepo: postRepo}
}

// Add stores a reader comment and notifies the post owner.
func (s *CommentService) Add(ctx context.Context, comment *models.Comment) (err error) {
	op, ctx := observability.StartOperation(ctx, "comment", "add")
	defer func() { op.End(err) }()

	if err = validation.Struct(comment); err != nil {
		return err
	}
	post, err := s.postRepo.GetByID(ctx, comment.PostID)
	if err != nil {
		return err
	}
	return s.commentRepo.Create(ctx, comment, &models.Notification{
		UserID: post.UserID,
		PostID: post.ID,
		Type:   models.NotificationComment,
	})
}

// Create stores a comment without notifying anyone.
func (s *CommentService) Create(ctx context.Context, comment *models.Comment) (err error) {
	op, ctx := observability.StartOperation(ctx, "comment", "create")
	defer func() { op.End(err) }()

	if err = validation.Struct(comment); err != nil {
		return err
	}
	return s.commentRepo.Create(ctx, comment, nil)
}

// Reply sets the author's answer on a comment, replacing any earlier one.
// An empty reply clears it.
func (s *CommentService) Reply(ctx context.Context, commentID uint, reply string) (comment *models.Comment, err error) {
	op, ctx := observability.StartOperation(ctx, "comment", "reply")
	defer func() { op.End(err) }()

	comment, err = s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if reply == "" {
		comment.Reply = nil
	} else {
		comment.Reply = &reply
	}
	if err = s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) Get(ctx context.Context, id uint) (*models.Comment, error) {
	return s.commentRepo.GetByID(ctx, id)
}

// ListByPost returns the comments of a post, newest first.
func (s *CommentService) ListByPost(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByPost(ctx, postID, limit, offset)
}

func (s *CommentService) Update(ctx context.Context, comment *models.Comment) (err error) {
	op, ctx := observability.StartOperation(ctx, "comment", "update")
	defer func() { op.End(err) }()

	if err = validation.Struct(comment); err != nil {
		return err
	}
	return s.commentRepo.Update(ctx, comment)
}

func (s *CommentService) Delete(ctx context.Context, id uint) (err error) {
	op, ctx := observability.StartOperation(ctx, "comment", "delete")
	defer func() { op.End(err) }()

	return s.commentRepo.Delete(ctx, id)
}

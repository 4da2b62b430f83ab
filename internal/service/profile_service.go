package service

import (
	"context"

	"quill/internal/models"
	"quill/internal/observability"
	"quill/internal/repository"
	"quill/internal/search"
	"quill/internal/validation"
)

type ProfileService struct {
	profileRepo repository.ProfileRepository
	indexer     search.Indexer
}

func NewProfileService(profileRepo repository.ProfileRepository, indexer search.Indexer) *ProfileService {
	return &ProfileService{profileRepo: profileRepo, indexer: indexer}
}

func (s *ProfileService) Get(ctx context.Context, id uint) (*models.Profile, error) {
	return s.profileRepo.GetByID(ctx, id)
}

func (s *ProfileService) GetByUser(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.profileRepo.GetByUserID(ctx, userID)
}

func (s *ProfileService) List(ctx context.Context, limit, offset int) ([]*models.Profile, error) {
	return s.profileRepo.List(ctx, limit, offset)
}

// Create adds a profile for a user that has none; a second one conflicts.
func (s *ProfileService) Create(ctx context.Context, profile *models.Profile) (err error) {
	op, ctx := observability.StartOperation(ctx, "profile", "create")
	defer func() { op.End(err) }()

	if err = validation.Struct(profile); err != nil {
		return err
	}
	return s.profileRepo.Create(ctx, profile)
}

// Update saves profile. An empty full name is refilled from the owner.
func (s *ProfileService) Update(ctx context.Context, profile *models.Profile) (err error) {
	op, ctx := observability.StartOperation(ctx, "profile", "update")
	defer func() { op.End(err) }()

	if err = validation.Struct(profile); err != nil {
		return err
	}
	return s.profileRepo.Update(ctx, profile)
}

func (s *ProfileService) Delete(ctx context.Context, id uint) (err error) {
	op, ctx := observability.StartOperation(ctx, "profile", "delete")
	defer func() { op.End(err) }()

	purged, err := s.profileRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	for _, postID := range purged {
		search.Remove(ctx, s.indexer, postID)
	}
	return nil
}

package service

import (
	"context"

	"quill/internal/models"
	"quill/internal/observability"
	"quill/internal/repository"
	"quill/internal/search"
	"quill/internal/validation"
)

type CategoryService struct {
	categoryRepo repository.CategoryRepository
	indexer      search.Indexer
}

func NewCategoryService(categoryRepo repository.CategoryRepository, indexer search.Indexer) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo, indexer: indexer}
}

// Create inserts category; the slug is derived from the title when empty
// and kept verbatim otherwise.
func (s *CategoryService) Create(ctx context.Context, category *models.Category) (err error) {
	op, ctx := observability.StartOperation(ctx, "category", "create")
	defer func() { op.End(err) }()

	category.ApplyDefaults()
	if err = validation.Struct(category); err != nil {
		return err
	}
	return s.categoryRepo.Create(ctx, category)
}

// Get returns the category with its published post count.
func (s *CategoryService) Get(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withCount(ctx, category)
}

func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	category, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.withCount(ctx, category)
}

func (s *CategoryService) withCount(ctx context.Context, category *models.Category) (*models.Category, error) {
	n, err := s.categoryRepo.PostCount(ctx, category.ID)
	if err != nil {
		return nil, err
	}
	category.PostCount = n
	return category, nil
}

// List returns every category with its published post count.
func (s *CategoryService) List(ctx context.Context) ([]*models.Category, error) {
	return s.categoryRepo.List(ctx)
}

// PostCount is the number of published posts in the category.
func (s *CategoryService) PostCount(ctx context.Context, id uint) (int64, error) {
	return s.categoryRepo.PostCount(ctx, id)
}

func (s *CategoryService) Update(ctx context.Context, category *models.Category) (err error) {
	op, ctx := observability.StartOperation(ctx, "category", "update")
	defer func() { op.End(err) }()

	category.ApplyDefaults()
	if err = validation.Struct(category); err != nil {
		return err
	}
	return s.categoryRepo.Update(ctx, category)
}

// Delete removes the category and all of its posts.
func (s *CategoryService) Delete(ctx context.Context, id uint) (err error) {
	op, ctx := observability.StartOperation(ctx, "category", "delete")
	defer func() { op.End(err) }()

	purged, err := s.categoryRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	for _, postID := range purged {
		search.Remove(ctx, s.indexer, postID)
	}
	return nil
}

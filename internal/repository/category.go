package repository

import (
	"context"

	"quill/internal/cache"
	"quill/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	List(ctx context.Context) ([]*models.Category, error)
	PostCount(ctx context.Context, id uint) (int64, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uint) ([]uint, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository returns a new CategoryRepository implementation.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	err := cache.Aside(ctx, cache.CategoryKey(id), &category, cache.CategoryTTL, func() error {
		return TranslateError("Category", id, r.db.WithContext(ctx).First(&category, id).Error)
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	err := cache.Aside(ctx, cache.CategorySlugKey(slug), &category, cache.CategoryTTL, func() error {
		return TranslateError("Category", slug, r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error)
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// List returns every category with PostCount set to its number of published posts.
func (r *categoryRepository) List(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Select("categories.*, (?) AS post_count",
			r.db.Model(&models.Post{}).
				Select("COUNT(*)").
				Where("posts.category_id = categories.id AND posts.status = ?", models.PostStatusPublished)).
		Order("categories.id").
		Find(&categories).Error
	if err != nil {
		return nil, TranslateError("Category", nil, err)
	}
	return categories, nil
}

// PostCount counts the published posts of a category.
func (r *categoryRepository) PostCount(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("category_id = ? AND status = ?", id, models.PostStatusPublished).
		Count(&count).Error
	if err != nil {
		return 0, TranslateError("Category", id, err)
	}
	return count, nil
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	return TranslateError("Category", nil, r.db.WithContext(ctx).Create(category).Error)
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	var previous models.Category
	if err := r.db.WithContext(ctx).Select("id", "slug").First(&previous, category.ID).Error; err != nil {
		return TranslateError("Category", category.ID, err)
	}
	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		return TranslateError("Category", category.ID, err)
	}
	cache.InvalidateCategory(ctx, previous.ID, previous.Slug)
	cache.Invalidate(ctx, cache.CategorySlugKey(category.Slug))
	// Cached posts embed their category.
	stale, err := postsWhere(r.db.WithContext(ctx), "category_id = ?", category.ID)
	if err != nil {
		return TranslateError("Category", category.ID, err)
	}
	invalidatePosts(ctx, stale)
	return nil
}

// Delete removes the category and every post in it.
func (r *categoryRepository) Delete(ctx context.Context, id uint) ([]uint, error) {
	var (
		category models.Category
		purged   []models.Post
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id", "slug").First(&category, id).Error; err != nil {
			return TranslateError("Category", id, err)
		}
		ids, err := postIDs(tx, "category_id = ?", id)
		if err != nil {
			return TranslateError("Category", id, err)
		}
		if purged, err = purgePosts(tx, ids); err != nil {
			return TranslateError("Category", id, err)
		}
		return TranslateError("Category", id, tx.Delete(&models.Category{}, id).Error)
	})
	if err != nil {
		return nil, err
	}
	cache.InvalidateCategory(ctx, category.ID, category.Slug)
	invalidatePosts(ctx, purged)
	return purgedIDs(purged), nil
}

package repository

import (
	"context"

	"quill/internal/cache"
	"quill/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostFilter narrows List. Zero values match everything.
type PostFilter struct {
	CategoryID uint
	UserID     uint
	Status     models.PostStatus
	Limit      int
	Offset     int
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context, filter PostFilter) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	IsLiked(ctx context.Context, postID, userID uint) (bool, error)
	LikeCount(ctx context.Context, postID uint) (int64, error)
	Likers(ctx context.Context, postID uint) ([]*models.User, error)
	ToggleLike(ctx context.Context, postID, userID uint, notify *models.Notification) (bool, error)
	IncrementViews(ctx context.Context, id uint) (int, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) withDetails(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("User").
		Preload("Profile").
		Preload("Category")
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return TranslateError("Post", nil, r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error)
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
		return TranslateError("Post", id, r.withDetails(ctx).First(&post, id).Error)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	err := cache.Aside(ctx, cache.PostSlugKey(slug), &post, cache.PostTTL, func() error {
		return TranslateError("Post", slug, r.withDetails(ctx).Where("slug = ?", slug).First(&post).Error)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, TranslateError("Post", slug, err)
	}
	return count > 0, nil
}

// List returns posts newest first.
func (r *postRepository) List(ctx context.Context, filter PostFilter) ([]*models.Post, error) {
	limit, offset := normalizePage(filter.Limit, filter.Offset)
	q := r.withDetails(ctx)
	if filter.CategoryID != 0 {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.UserID != 0 {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	var posts []*models.Post
	if err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Offset(offset).Find(&posts).Error; err != nil {
		return nil, TranslateError("Post", nil, err)
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	var previous models.Post
	if err := r.db.WithContext(ctx).Select("id", "slug").First(&previous, post.ID).Error; err != nil {
		return TranslateError("Post", post.ID, err)
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(post).Error; err != nil {
		return TranslateError("Post", post.ID, err)
	}
	cache.InvalidatePost(ctx, previous.ID, previous.Slug)
	cache.Invalidate(ctx, cache.PostSlugKey(post.Slug))
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	var purged []models.Post
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		purged, err = purgePosts(tx, []uint{id})
		if err != nil {
			return TranslateError("Post", id, err)
		}
		if len(purged) == 0 {
			return models.NewNotFoundError("Post", id)
		}
		return nil
	})
	if err != nil {
		return err
	}
	invalidatePosts(ctx, purged)
	return nil
}

func (r *postRepository) IsLiked(ctx context.Context, postID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("post_likes").
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	if err != nil {
		return false, TranslateError("Post", postID, err)
	}
	return count > 0, nil
}

func (r *postRepository) LikeCount(ctx context.Context, postID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Table("post_likes").Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, TranslateError("Post", postID, err)
	}
	return count, nil
}

func (r *postRepository) Likers(ctx context.Context, postID uint) ([]*models.User, error) {
	var users []*models.User
	err := r.db.WithContext(ctx).Model(&models.Post{ID: postID}).Order("users.id").Association("Likes").Find(&users)
	if err != nil {
		return nil, TranslateError("Post", postID, err)
	}
	return users, nil
}

// ToggleLike adds userID to the likes of postID, or removes it when already
// present. notify, when non-nil, is inserted in the same transaction on add.
// It reports whether the post is liked afterwards.
func (r *postRepository) ToggleLike(ctx context.Context, postID, userID uint, notify *models.Notification) (bool, error) {
	var liked bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec("DELETE FROM post_likes WHERE post_id = ? AND user_id = ?", postID, userID)
		if res.Error != nil {
			return TranslateError("Post", postID, res.Error)
		}
		if res.RowsAffected > 0 {
			return nil
		}
		if err := tx.Exec("INSERT INTO post_likes (post_id, user_id) VALUES (?, ?)", postID, userID).Error; err != nil {
			return TranslateError("Post", postID, err)
		}
		liked = true
		if notify != nil {
			if err := tx.Omit(clause.Associations).Create(notify).Error; err != nil {
				return TranslateError("Notification", nil, err)
			}
		}
		return nil
	})
	return liked, err
}

// IncrementViews bumps the view counter in SQL and returns the new value.
func (r *postRepository) IncrementViews(ctx context.Context, id uint) (int, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Post{}).Where("id = ?", id).UpdateColumn("views", gorm.Expr("views + ?", 1))
		if res.Error != nil {
			return TranslateError("Post", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Post", id)
		}
		return TranslateError("Post", id, tx.Select("id", "slug", "views").First(&post, id).Error)
	})
	if err != nil {
		return 0, err
	}
	cache.InvalidatePost(ctx, post.ID, post.Slug)
	return post.Views, nil
}

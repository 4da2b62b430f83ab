package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	CategoryKeyPrefix     = "category:%d"
	CategorySlugKeyPrefix = "category:slug:%s"
	PostKeyPrefix         = "post:%d"
	PostSlugKeyPrefix     = "post:slug:%s"
)

const (
	CategoryTTL = 10 * time.Minute
	PostTTL     = 30 * time.Minute
)

func CategoryKey(id uint) string {
	return fmt.Sprintf(CategoryKeyPrefix, id)
}

func CategorySlugKey(slug string) string {
	return fmt.Sprintf(CategorySlugKeyPrefix, slug)
}

func PostKey(id uint) string {
	return fmt.Sprintf(PostKeyPrefix, id)
}

func PostSlugKey(slug string) string {
	return fmt.Sprintf(PostSlugKeyPrefix, slug)
}

func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidateCategory drops both lookups of a category.
func InvalidateCategory(ctx context.Context, id uint, slug string) {
	Invalidate(ctx, CategoryKey(id), CategorySlugKey(slug))
}

// InvalidatePost drops both lookups of a post.
func InvalidatePost(ctx context.Context, id uint, slug string) {
	Invalidate(ctx, PostKey(id), PostSlugKey(slug))
}

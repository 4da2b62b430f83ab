package models

import (
	"quill/internal/slug"

	"gorm.io/gorm"
)

// Category groups posts. Slug is derived from Title when absent.
type Category struct {
	ID    uint    `gorm:"primaryKey" json:"id"`
	Title string  `gorm:"size:100;not null" json:"title" validate:"required,max=100"`
	Image *string `gorm:"size:255" json:"image,omitempty"`
	Slug  string  `gorm:"size:255;not null;uniqueIndex" json:"slug" validate:"omitempty,slug,max=255"`
	// PostCount is not persisted; filled by queries counting published posts.
	PostCount int64 `gorm:"->;-:migration" json:"post_count"`
}

// ApplyDefaults derives the slug from the title if none is set.
func (c *Category) ApplyDefaults() {
	if c.Slug == "" {
		c.Slug = slug.Make(c.Title)
	}
}

// BeforeSave is the gorm hook applying ApplyDefaults.
func (c *Category) BeforeSave(tx *gorm.DB) error {
	c.ApplyDefaults()
	return nil
}

// ImageOrDefault resolves the category image, falling back to the placeholder.
func (c *Category) ImageOrDefault() string {
	return imageOr(c.Image, DefaultCategoryImage)
}

func (c *Category) String() string {
	return c.Title
}

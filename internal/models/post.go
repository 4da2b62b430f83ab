package models

import (
	"time"

	"quill/internal/slug"

	"gorm.io/gorm"
)

// PostStatus is the publication state of a post.
type PostStatus string

const (
	PostStatusPublished PostStatus = "Published"
	PostStatusDraft     PostStatus = "Draft"
	PostStatusDisabled  PostStatus = "Disabled"
)

// PostStatuses lists the valid statuses in display order.
var PostStatuses = []PostStatus{PostStatusPublished, PostStatusDraft, PostStatusDisabled}

// Valid reports whether s is one of the known statuses.
func (s PostStatus) Valid() bool {
	for _, v := range PostStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Post is an article written by a user. It references both the user and the
// user's profile; both own it for deletion purposes.
type Post struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	User        *User      `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	ProfileID   uint       `gorm:"not null;index" json:"profile_id"`
	Profile     *Profile   `gorm:"constraint:OnDelete:CASCADE" json:"profile,omitempty"`
	CategoryID  uint       `gorm:"not null;index" json:"category_id"`
	Category    *Category  `gorm:"constraint:OnDelete:CASCADE" json:"category,omitempty"`
	Title       string     `gorm:"size:100;not null" json:"title" validate:"required,max=100"`
	Description string     `gorm:"type:text;not null" json:"description"`
	Image       *string    `gorm:"size:255" json:"image,omitempty"`
	Status      PostStatus `gorm:"type:varchar(100);not null;default:'Draft'" json:"status" validate:"omitempty,oneof=Published Draft Disabled"`
	Views       int        `gorm:"not null;default:0" json:"views"`
	Likes       []*User    `gorm:"many2many:post_likes;constraint:OnDelete:CASCADE" json:"likes,omitempty"`
	Slug        string     `gorm:"size:255;not null;uniqueIndex" json:"slug" validate:"omitempty,slug,max=255"`
	CreatedAt   time.Time  `gorm:"index" json:"date"`
	UpdatedAt   time.Time  `json:"update"`
}

// ApplyDefaults sets the default status and derives a slug when none is set.
func (p *Post) ApplyDefaults() {
	if p.Status == "" {
		p.Status = PostStatusDraft
	}
	if p.Slug == "" {
		p.Slug = slug.WithToken(p.Title)
	}
}

// BeforeSave is the gorm hook applying ApplyDefaults.
func (p *Post) BeforeSave(tx *gorm.DB) error {
	p.ApplyDefaults()
	return nil
}

// ImageOrDefault resolves the post image, falling back to the placeholder.
func (p *Post) ImageOrDefault() string {
	return imageOr(p.Image, DefaultPostImage)
}

func (p *Post) String() string {
	return p.Title
}

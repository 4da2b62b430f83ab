package models

import "time"

// Bookmark pairs a user with a post they saved.
//
// There is no unique index on (user_id, post_id): saving the same post twice
// yields two rows. Whether that is intended is an open question, so the
// behaviour is kept as is.
type Bookmark struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	Post      *Post     `gorm:"constraint:OnDelete:CASCADE" json:"post,omitempty"`
	CreatedAt time.Time `json:"date"`
}

func (b *Bookmark) String() string {
	if b.Post == nil {
		return ""
	}
	return b.Post.Title
}

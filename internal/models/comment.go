package models

import "time"

// Comment is a reader comment on a post. Reply holds the author's single
// answer; replies do not nest.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	Post      *Post     `gorm:"constraint:OnDelete:CASCADE" json:"post,omitempty"`
	Name      string    `gorm:"size:100;not null" json:"name" validate:"required,max=100"`
	Email     string    `gorm:"size:254;not null" json:"email" validate:"required,email,max=254"`
	Body      *string   `gorm:"column:comment;type:text" json:"comment,omitempty"`
	Reply     *string   `gorm:"type:text" json:"reply,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"date"`
	UpdatedAt time.Time `gorm:"type:date" json:"update"`
}

// String is the title of the post, or "" when Post is not loaded.
func (c *Comment) String() string {
	if c.Post == nil {
		return ""
	}
	return c.Post.Title
}

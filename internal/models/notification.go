package models

import (
	"fmt"
	"time"
)

// NotificationType says what happened to the post.
type NotificationType string

const (
	NotificationLike     NotificationType = "Like"
	NotificationComment  NotificationType = "Comment"
	NotificationBookmark NotificationType = "Bookmark"
)

// Valid reports whether t is a known notification type.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationLike, NotificationComment, NotificationBookmark:
		return true
	}
	return false
}

// Notification tells a user that something happened to one of their posts.
type Notification struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	UserID    uint             `gorm:"not null;index" json:"user_id"`
	User      *User            `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	PostID    uint             `gorm:"not null;index" json:"post_id"`
	Post      *Post            `gorm:"constraint:OnDelete:CASCADE" json:"post,omitempty"`
	Type      NotificationType `gorm:"type:varchar(50);not null" json:"type" validate:"required,oneof=Like Comment Bookmark"`
	Seen      bool             `gorm:"not null" json:"seen"`
	CreatedAt time.Time        `json:"date"`
}

// Label renders the notification for the given post title.
func (n *Notification) Label(postTitle string) string {
	return fmt.Sprintf("%s - %s", postTitle, n.Type)
}

// String renders Label for the loaded post, or "" when Post is not loaded.
func (n *Notification) String() string {
	if n.Post == nil {
		return ""
	}
	return n.Label(n.Post.Title)
}

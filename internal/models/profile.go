package models

import (
	"time"

	"gorm.io/gorm"
)

// Profile holds the public-facing author data of a User. There is exactly
// one per user.
type Profile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	User      *User     `json:"-"`
	Image     *string   `gorm:"size:255" json:"image,omitempty"`
	FullName  string    `gorm:"size:100;not null" json:"full_name" validate:"max=100"`
	Bio       *string   `gorm:"size:100" json:"bio,omitempty" validate:"omitempty,max=100"`
	About     *string   `gorm:"size:100" json:"about,omitempty" validate:"omitempty,max=100"`
	Author    bool      `gorm:"not null" json:"author"`
	Country   *string   `gorm:"size:100" json:"country,omitempty" validate:"omitempty,max=100"`
	Facebook  *string   `gorm:"size:100" json:"facebook,omitempty" validate:"omitempty,max=100"`
	Instagram *string   `gorm:"size:100" json:"instagram,omitempty" validate:"omitempty,max=100"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"date"`
	UpdatedAt time.Time `gorm:"type:date;autoUpdateTime" json:"update"`
}

// ApplyDefaults copies owner's full name when the profile has none.
func (p *Profile) ApplyDefaults(owner *User) {
	if p.FullName == "" && owner != nil {
		p.FullName = owner.FullName
	}
}

// BeforeSave looks the owner's full name up when nothing set it beforehand.
func (p *Profile) BeforeSave(tx *gorm.DB) error {
	if p.FullName != "" || p.UserID == 0 {
		return nil
	}
	var owner User
	err := tx.Session(&gorm.Session{NewDB: true}).
		Select("full_name").
		Where("id = ?", p.UserID).
		Take(&owner).Error
	if err != nil {
		// A missing owner is reported by the foreign key on insert.
		return nil
	}
	p.ApplyDefaults(&owner)
	return nil
}

// String is the owner's username, or "" when User is not loaded.
func (p *Profile) String() string {
	if p.User == nil {
		return ""
	}
	return p.User.Username
}

// ImageOrDefault resolves the profile image, falling back to the placeholder.
func (p *Profile) ImageOrDefault() string {
	return imageOr(p.Image, DefaultUserImage)
}

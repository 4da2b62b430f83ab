// Package models contains data structures for the blog's domain models.
package models

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User is an account. Email is the login identifier; username and full name
// fall back to the local part of the email when left empty.
type User struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Username    string     `gorm:"size:100;uniqueIndex;not null" json:"username" validate:"required,max=100"`
	Email       string     `gorm:"size:254;uniqueIndex;not null" json:"email" validate:"required,email,max=254"`
	FullName    string     `gorm:"size:100" json:"full_name" validate:"max=100"`
	Password    string     `gorm:"size:128;not null" json:"-"`
	IsStaff     bool       `gorm:"not null" json:"is_staff"`
	IsSuperuser bool       `gorm:"not null" json:"is_superuser"`
	IsActive    bool       `gorm:"not null;default:true" json:"is_active"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
	DateJoined  time.Time  `gorm:"autoCreateTime" json:"date_joined"`
	Profile     *Profile   `gorm:"constraint:OnDelete:CASCADE" json:"profile,omitempty"`
}

// EmailLocalPart returns the text before the first "@" in email.
func EmailLocalPart(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

// ApplyDefaults fills FullName and Username from the email local part when
// they are empty. It runs on every save, so clearing either field on update
// repopulates it from the current email.
func (u *User) ApplyDefaults() {
	local := EmailLocalPart(u.Email)
	if u.FullName == "" {
		u.FullName = local
	}
	if u.Username == "" {
		u.Username = local
	}
}

// BeforeSave is the gorm hook applying ApplyDefaults on create and update.
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.ApplyDefaults()
	return nil
}

// SetPassword stores a bcrypt hash of raw.
func (u *User) SetPassword(raw string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// CheckPassword reports whether raw matches the stored hash.
func (u *User) CheckPassword(raw string) bool {
	if u.Password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(raw)) == nil
}

func (u *User) String() string {
	return u.Username
}

package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User represents a user in the system
type User struct {
	gorm.Model
	PublicID      string         `gorm:"size:100;uniqueIndex" json:"id"`
	Email         string         `gorm:"unique;not null;size:255" json:"email"`
	PasswordHash  string         `gorm:"not null" json:"-"`
	LastLogin     *time.Time     `gorm:"default:null" json:"last_login,omitempty"`
	FlashcardSets []FlashcardSet `gorm:"foreignKey:UserID" json:"-"`
}

// DisplayName is the local part of the user's email.
func (u User) DisplayName() string {
	name, _, _ := strings.Cut(u.Email, "@")
	return name
}

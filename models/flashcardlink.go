package models

import "gorm.io/gorm"

// FlashcardLink is a directed edge between two cards of the same set.
type FlashcardLink struct {
	gorm.Model
	PublicID   string `gorm:"size:100;uniqueIndex"`
	SetID      uint   `gorm:"not null;index"`
	FromCardID uint   `gorm:"not null;index"`
	ToCardID   uint   `gorm:"not null;index"`
	LinkType   string `gorm:"size:100"`

	FromCard Flashcard `gorm:"foreignKey:FromCardID" json:"-"`
	ToCard   Flashcard `gorm:"foreignKey:ToCardID" json:"-"`
}

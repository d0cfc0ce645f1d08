package models

import (
	"time"

	"gorm.io/gorm"
)

// Flashcard represents an individual flashcard
type Flashcard struct {
	gorm.Model
	PublicID    string   `gorm:"size:100;uniqueIndex"`
	FrontText   string   `gorm:"not null;size:1000"`
	BackText    string   `gorm:"not null;size:1000"`
	Category    *string  `gorm:"size:100"`
	OrderNumber *int     `gorm:"default:null"`
	PositionX   *float64 `gorm:"default:null"`
	PositionY   *float64 `gorm:"default:null"`

	SetID        uint         `gorm:"not null;index"`
	FlashcardSet FlashcardSet `gorm:"foreignKey:SetID" json:"-"`

	// Progress tracking
	TimesReviewed int        `gorm:"default:0"`
	LastReviewed  *time.Time `gorm:"default:null"`
	Mastered      bool       `gorm:"default:false"`
}

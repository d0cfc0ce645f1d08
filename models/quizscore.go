package models

import (
	"time"
)

// Quiz modes a score can be recorded for.
const (
	QuizModeList       = "list"
	QuizModeCategory   = "category"
	QuizModeWhiteboard = "whiteboard"
)

type QuizScore struct {
	ID             uint         `gorm:"primaryKey"`
	UserID         uint         `gorm:"not null;index"`
	User           User         `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	FlashcardSetID uint         `gorm:"not null;index"`
	FlashcardSet   FlashcardSet `gorm:"foreignKey:FlashcardSetID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Mode           string       `gorm:"not null;size:20"`
	Correct        int          `gorm:"not null"`
	Total          int          `gorm:"not null"`
	PlayedAt       time.Time    `gorm:"autoCreateTime"`
}

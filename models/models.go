package models

// All lists every model for AutoMigrate.
func All() []any {
	return []any{
		&User{},
		&FlashcardSet{},
		&Flashcard{},
		&FlashcardLink{},
		&QuizScore{},
		&Metric{},
	}
}

package models

import "time"

// Attempt is one graded submission. Rows are append-only.
type Attempt struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	QuizID    uint      `json:"quiz_id" gorm:"not null;index:idx_attempts_quiz_created,priority:1"`
	Score     int       `json:"score" gorm:"not null"`
	Total     int       `json:"total" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;index:idx_attempts_quiz_created,priority:2,sort:desc"`
}

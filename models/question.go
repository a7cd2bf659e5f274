package models

import (
	"gorm.io/datatypes"
)

type Question struct {
	ID          uint                        `json:"id" gorm:"primaryKey"`
	QuizID      uint                        `json:"quiz_id" gorm:"not null;index"`
	Text        string                      `json:"text" gorm:"not null"`
	Choices     datatypes.JSONSlice[string] `json:"choices" gorm:"not null"`
	AnswerIndex int                         `json:"answer_index" gorm:"not null"`
	Position    int                         `json:"position" gorm:"not null"` // submission order within the quiz
}

// IsCorrect reports whether selection names this question's correct choice.
func (q *Question) IsCorrect(selection int) bool {
	return selection >= 0 && selection < len(q.Choices) && selection == q.AnswerIndex
}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quizapp/models"

	"gorm.io/gorm"
)

// MaxAttemptHistory caps how many attempts ListAttempts returns.
const MaxAttemptHistory = 20

type AttemptService struct {
	db     *gorm.DB
	events EventPublisher
}

// NewAttemptService builds the attempt store. events may be nil.
func NewAttemptService(db *gorm.DB, events EventPublisher) *AttemptService {
	return &AttemptService{db: db, events: events}
}

type SubmitAttemptRequest struct {
	Answers map[string]interface{} `json:"answers" binding:"required"`
}

type AttemptView struct {
	ID        uint      `json:"id"`
	Score     int       `json:"score"`
	Total     int       `json:"total"`
	CreatedAt time.Time `json:"created_at"`
}

// Submit grades answers against the quiz's current questions and records the
// result as a new attempt.
func (s *AttemptService) Submit(ctx context.Context, quizID uint, answers map[string]interface{}) (*GradeResult, error) {
	if answers == nil {
		return nil, invalid("answers", "must be an object")
	}

	questions, err := s.questionsFor(ctx, quizID)
	if err != nil {
		return nil, err
	}

	result := Grade(questions, answers)
	if _, err := s.RecordAttempt(ctx, quizID, result.Score, result.Total); err != nil {
		return nil, err
	}
	return &result, nil
}

// RecordAttempt appends an attempt with a precomputed score.
func (s *AttemptService) RecordAttempt(ctx context.Context, quizID uint, score, total int) (*models.Attempt, error) {
	if score < 0 || total < 0 || score > total {
		return nil, invalid("score", "must be between 0 and total")
	}
	if _, err := s.questionsFor(ctx, quizID); err != nil {
		return nil, err
	}

	attempt := &models.Attempt{QuizID: quizID, Score: score, Total: total}
	if err := s.db.WithContext(ctx).Create(attempt).Error; err != nil {
		return nil, fmt.Errorf("insert attempt: %w", err)
	}

	observeAttempt(GradeResult{Score: attempt.Score, Total: attempt.Total})
	publish(s.events, EventAttemptRecorded, map[string]interface{}{
		"id":         attempt.ID,
		"quiz_id":    attempt.QuizID,
		"score":      attempt.Score,
		"total":      attempt.Total,
		"created_at": attempt.CreatedAt,
	})
	return attempt, nil
}

// ListAttempts returns the most recent attempts for a quiz, newest first.
// limit is clamped to MaxAttemptHistory; values below 1 mean the maximum.
func (s *AttemptService) ListAttempts(ctx context.Context, quizID uint, limit int) ([]AttemptView, error) {
	if limit <= 0 || limit > MaxAttemptHistory {
		limit = MaxAttemptHistory
	}

	attempts := []AttemptView{}
	err := s.db.WithContext(ctx).
		Model(&models.Attempt{}).
		Select("id", "score", "total", "created_at").
		Where("quiz_id = ?", quizID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&attempts).Error
	if err != nil {
		return nil, fmt.Errorf("list attempts for quiz %d: %w", quizID, err)
	}
	return attempts, nil
}

// questionsFor loads the quiz's questions. A missing quiz yields ErrNotFound,
// a quiz without questions ErrNoQuestions.
func (s *AttemptService) questionsFor(ctx context.Context, quizID uint) ([]models.Question, error) {
	var questions []models.Question
	err := s.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Order("position, id").
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("load questions for quiz %d: %w", quizID, err)
	}
	if len(questions) > 0 {
		return questions, nil
	}

	var quiz models.Quiz
	err = s.db.WithContext(ctx).Select("id").First(&quiz, quizID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("load quiz %d: %w", quizID, err)
	}
	return nil, ErrNoQuestions
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"quizapp/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuizService struct {
	db     *gorm.DB
	events EventPublisher
}

// NewQuizService builds the quiz store. events may be nil.
func NewQuizService(db *gorm.DB, events EventPublisher) *QuizService {
	return &QuizService{db: db, events: events}
}

type CreateQuizRequest struct {
	Title       string                  `json:"title" binding:"required,notblank"`
	Description string                  `json:"description"`
	Questions   []CreateQuestionRequest `json:"questions" binding:"required,min=1,dive"`
}

type CreateQuestionRequest struct {
	Text        string   `json:"text" binding:"required,notblank"`
	Choices     []string `json:"choices" binding:"required,min=2"`
	AnswerIndex *int     `json:"answer_index" binding:"required,min=0"`
}

type QuizSummary struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type QuizDetail struct {
	ID          uint           `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Questions   []QuestionView `json:"questions"`
}

// QuestionView is a question as shown to quiz takers. The answer index stays server-side.
type QuestionView struct {
	ID      uint     `json:"id"`
	Text    string   `json:"text"`
	Choices []string `json:"choices"`
}

// CreateQuiz stores the quiz and all of its questions in one transaction and
// returns the new quiz id.
func (s *QuizService) CreateQuiz(ctx context.Context, req *CreateQuizRequest) (uint, error) {
	quiz, err := buildQuiz(req)
	if err != nil {
		return 0, err
	}

	// Start transaction
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return 0, tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	questions := quiz.Questions
	quiz.Questions = nil
	if err := tx.Create(quiz).Error; err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("insert quiz: %w", err)
	}

	for i := range questions {
		questions[i].QuizID = quiz.ID
		if err := tx.Create(&questions[i]).Error; err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("insert question %d: %w", i, err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return 0, fmt.Errorf("commit quiz: %w", err)
	}

	quizzesCreated.Inc()
	publish(s.events, EventQuizCreated, map[string]interface{}{
		"id":        quiz.ID,
		"title":     quiz.Title,
		"questions": len(questions),
	})
	return quiz.ID, nil
}

// buildQuiz validates req and turns it into rows ready for insertion. Empty
// choices are dropped before the minimum-choices and answer-range checks.
func buildQuiz(req *CreateQuizRequest) (*models.Quiz, error) {
	if req == nil {
		return nil, invalid("", "request body is required")
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, invalid("title", "is required")
	}
	if len(req.Questions) == 0 {
		return nil, invalid("questions", "at least one question is required")
	}

	quiz := &models.Quiz{
		Title:       req.Title,
		Description: req.Description,
		Questions:   make([]models.Question, 0, len(req.Questions)),
	}

	for i, qReq := range req.Questions {
		field := fmt.Sprintf("questions[%d]", i)

		if strings.TrimSpace(qReq.Text) == "" {
			return nil, invalid(field+".text", "is required")
		}

		choices := make([]string, 0, len(qReq.Choices))
		for _, c := range qReq.Choices {
			if c != "" {
				choices = append(choices, c)
			}
		}
		if len(choices) < 2 {
			return nil, invalid(field+".choices", "at least two non-empty choices are required")
		}

		if qReq.AnswerIndex == nil {
			return nil, invalid(field+".answer_index", "is required")
		}
		if idx := *qReq.AnswerIndex; idx < 0 || idx >= len(choices) {
			return nil, invalid(field+".answer_index", "must be between 0 and %d", len(choices)-1)
		}

		quiz.Questions = append(quiz.Questions, models.Question{
			Text:        qReq.Text,
			Choices:     datatypes.JSONSlice[string](choices),
			AnswerIndex: *qReq.AnswerIndex,
			Position:    i,
		})
	}

	return quiz, nil
}

// GetQuiz returns the quiz with its questions in submitted order.
func (s *QuizService) GetQuiz(ctx context.Context, quizID uint) (*QuizDetail, error) {
	var quiz models.Quiz
	err := s.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.position, questions.id")
		}).
		First(&quiz, quizID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load quiz %d: %w", quizID, err)
	}

	detail := &QuizDetail{
		ID:          quiz.ID,
		Title:       quiz.Title,
		Description: quiz.Description,
		Questions:   make([]QuestionView, 0, len(quiz.Questions)),
	}
	for _, q := range quiz.Questions {
		detail.Questions = append(detail.Questions, QuestionView{
			ID:      q.ID,
			Text:    q.Text,
			Choices: []string(q.Choices),
		})
	}
	return detail, nil
}

// ListQuizzes returns every quiz, newest first, without questions.
func (s *QuizService) ListQuizzes(ctx context.Context) ([]QuizSummary, error) {
	quizzes := []QuizSummary{}
	err := s.db.WithContext(ctx).
		Model(&models.Quiz{}).
		Select("id", "title", "description").
		Order("id DESC").
		Find(&quizzes).Error
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	return quizzes, nil
}

// SampleQuiz is inserted by Seed into an empty database.
func SampleQuiz() *CreateQuizRequest {
	first, second := 0, 1
	return &CreateQuizRequest{
		Title:       "Sample: JS Basics",
		Description: "A tiny quiz about JavaScript basics",
		Questions: []CreateQuestionRequest{
			{
				Text:        "What is the type of null in JavaScript?",
				Choices:     []string{"object", "null", "undefined", "number"},
				AnswerIndex: &first,
			},
			{
				Text:        "Which keyword declares a constant?",
				Choices:     []string{"let", "const", "var", "static"},
				AnswerIndex: &second,
			},
		},
	}
}

// Seed inserts SampleQuiz when no quizzes exist. It reports whether a quiz was created.
func (s *QuizService) Seed(ctx context.Context) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Quiz{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count quizzes: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	if _, err := s.CreateQuiz(ctx, SampleQuiz()); err != nil {
		return false, fmt.Errorf("seed sample quiz: %w", err)
	}
	return true, nil
}

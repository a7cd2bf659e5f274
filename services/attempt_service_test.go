package services

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"quizapp/models"
)

// seededQuiz returns the sample quiz id and its question ids in order.
func seededQuiz(t *testing.T, quizService *QuizService) (uint, []string) {
	t.Helper()
	ctx := context.Background()

	if _, err := quizService.Seed(ctx); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	quizzes, err := quizService.ListQuizzes(ctx)
	if err != nil || len(quizzes) != 1 {
		t.Fatalf("Expected one seeded quiz, got %v (err %v)", quizzes, err)
	}
	quiz, err := quizService.GetQuiz(ctx, quizzes[0].ID)
	if err != nil {
		t.Fatalf("GetQuiz failed: %v", err)
	}

	ids := make([]string, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		ids = append(ids, strconv.FormatUint(uint64(q.ID), 10))
	}
	return quiz.ID, ids
}

func TestSubmitSampleQuiz(t *testing.T) {
	db := newTestDB(t)
	quizID, q := seededQuiz(t, NewQuizService(db, nil))
	service := NewAttemptService(db, nil)

	testCases := []struct {
		name    string
		answers map[string]interface{}
		score   int
	}{
		{"all correct", map[string]interface{}{q[0]: 0.0, q[1]: 1.0}, 2},
		{"all wrong", map[string]interface{}{q[0]: 1.0, q[1]: 0.0}, 0},
		{"empty", map[string]interface{}{}, 0},
		{"one right", map[string]interface{}{q[1]: 1.0}, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := service.Submit(context.Background(), quizID, tc.answers)
			if err != nil {
				t.Fatalf("Submit failed: %v", err)
			}
			if result.Score != tc.score || result.Total != 2 {
				t.Errorf("Expected %d/2, got %d/%d", tc.score, result.Score, result.Total)
			}
		})
	}

	attempts, err := service.ListAttempts(context.Background(), quizID, 0)
	if err != nil {
		t.Fatalf("ListAttempts failed: %v", err)
	}
	if len(attempts) != len(testCases) {
		t.Fatalf("Expected %d attempts, got %d", len(testCases), len(attempts))
	}
	if attempts[0].Score != 1 || attempts[len(attempts)-1].Score != 2 {
		t.Errorf("Expected newest attempt first, got %+v", attempts)
	}
}

func TestSubmitErrors(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	quizID, _ := seededQuiz(t, NewQuizService(db, nil))
	service := NewAttemptService(db, nil)

	if _, err := service.Submit(ctx, quizID+100, map[string]interface{}{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown quiz, got %v", err)
	}

	if _, err := service.Submit(ctx, quizID, nil); !isValidationErr(err) {
		t.Errorf("Expected ValidationError for nil answers, got %v", err)
	}

	// A quiz row without questions cannot be created through the API, so insert it directly.
	bare := models.Quiz{Title: "bare"}
	if err := db.Create(&bare).Error; err != nil {
		t.Fatalf("Create bare quiz failed: %v", err)
	}
	if _, err := service.Submit(ctx, bare.ID, map[string]interface{}{}); !errors.Is(err, ErrNoQuestions) {
		t.Errorf("Expected ErrNoQuestions, got %v", err)
	}

	var count int64
	db.Model(&models.Attempt{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected failed submissions to record nothing, got %d attempts", count)
	}
}

func TestRecordAttempt(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	quizID, _ := seededQuiz(t, NewQuizService(db, nil))
	service := NewAttemptService(db, nil)

	attempt, err := service.RecordAttempt(ctx, quizID, 1, 2)
	if err != nil {
		t.Fatalf("RecordAttempt failed: %v", err)
	}
	if attempt.ID == 0 || attempt.CreatedAt.IsZero() {
		t.Errorf("Expected id and timestamp to be assigned, got %+v", attempt)
	}

	if _, err := service.RecordAttempt(ctx, 999, 0, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if _, err := service.RecordAttempt(ctx, quizID, 3, 2); !isValidationErr(err) {
		t.Errorf("Expected ValidationError for score above total, got %v", err)
	}
}

func TestListAttemptsCapsAtTwenty(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	quizID, _ := seededQuiz(t, NewQuizService(db, nil))
	service := NewAttemptService(db, nil)

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		attempt := models.Attempt{QuizID: quizID, Score: i % 3, Total: 2, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := db.Create(&attempt).Error; err != nil {
			t.Fatalf("Create attempt failed: %v", err)
		}
	}

	for _, limit := range []int{0, 20, 50} {
		attempts, err := service.ListAttempts(ctx, quizID, limit)
		if err != nil {
			t.Fatalf("ListAttempts(%d) failed: %v", limit, err)
		}
		if len(attempts) != MaxAttemptHistory {
			t.Fatalf("ListAttempts(%d): expected %d attempts, got %d", limit, MaxAttemptHistory, len(attempts))
		}
		if !attempts[0].CreatedAt.Equal(base.Add(24 * time.Minute)) {
			t.Errorf("Expected newest attempt first, got %s", attempts[0].CreatedAt)
		}
		for i := 1; i < len(attempts); i++ {
			if !attempts[i].CreatedAt.Before(attempts[i-1].CreatedAt) {
				t.Errorf("Attempts not newest-first at %d: %s then %s", i, attempts[i-1].CreatedAt, attempts[i].CreatedAt)
			}
		}
	}

	attempts, err := service.ListAttempts(ctx, quizID, 5)
	if err != nil || len(attempts) != 5 {
		t.Errorf("Expected 5 attempts, got %d (err %v)", len(attempts), err)
	}
}

func TestListAttemptsUnknownQuizIsEmpty(t *testing.T) {
	service := NewAttemptService(newTestDB(t), nil)

	attempts, err := service.ListAttempts(context.Background(), 7, 0)
	if err != nil {
		t.Fatalf("ListAttempts failed: %v", err)
	}
	if attempts == nil || len(attempts) != 0 {
		t.Errorf("Expected empty non-nil list, got %#v", attempts)
	}
}

func TestSubmitPublishesEvent(t *testing.T) {
	db := newTestDB(t)
	quizID, q := seededQuiz(t, NewQuizService(db, nil))
	events := &recordingPublisher{}
	service := NewAttemptService(db, events)

	if _, err := service.Submit(context.Background(), quizID, map[string]interface{}{q[0]: 0.0}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if len(events.events) != 1 || events.events[0].Type != EventAttemptRecorded {
		t.Fatalf("Expected one %s event, got %+v", EventAttemptRecorded, events.events)
	}
	payload, ok := events.events[0].Payload.(map[string]interface{})
	if !ok {
		t.Fatalf("Expected map payload, got %T", events.events[0].Payload)
	}
	if payload["score"] != 1 || payload["total"] != 2 || payload["quiz_id"] != quizID {
		t.Errorf("Unexpected payload %+v", payload)
	}
}

func TestSubmitStoresGradedAttempt(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	quizID, q := seededQuiz(t, NewQuizService(db, nil))
	events := &recordingPublisher{}
	service := NewAttemptService(db, events)

	result, err := service.Submit(ctx, quizID, map[string]interface{}{q[1]: 1.0})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	recorded, err := service.RecordAttempt(ctx, quizID, result.Score, result.Total)
	if err != nil {
		t.Fatalf("RecordAttempt failed: %v", err)
	}

	var rows []models.Attempt
	if err := db.Where("quiz_id = ?", quizID).Order("id").Find(&rows).Error; err != nil {
		t.Fatalf("Load attempts failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 attempts, got %d", len(rows))
	}
	for i, row := range rows {
		if row.Score != 1 || row.Total != 2 || row.CreatedAt.IsZero() {
			t.Errorf("Attempt %d: expected 1/2 with a timestamp, got %+v", i, row)
		}
	}
	if rows[1].ID != recorded.ID {
		t.Errorf("Expected RecordAttempt row %d last, got %d", recorded.ID, rows[1].ID)
	}
	if got := events.types(); len(got) != 2 || got[0] != got[1] {
		t.Errorf("Expected one %s event per stored attempt, got %v", EventAttemptRecorded, got)
	}
}

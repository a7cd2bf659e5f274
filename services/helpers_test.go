package services

import (
	"sync"
	"testing"

	"quizapp/config"

	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := config.OpenSQLite(":memory:", nil)
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("DB handle failed: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

type recordedEvent struct {
	Type    string
	Payload interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) Publish(eventType string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{Type: eventType, Payload: payload})
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func intPtr(n int) *int { return &n }

func isValidationErr(err error) bool {
	_, ok := AsValidation(err)
	return ok
}

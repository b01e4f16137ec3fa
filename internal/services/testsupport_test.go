package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/learnscope/learnscope-backend/internal/clients/redis"
	"github.com/learnscope/learnscope-backend/internal/db"
	"github.com/learnscope/learnscope-backend/internal/logger"
	"github.com/learnscope/learnscope-backend/internal/requestdata"
)

var errTest = errors.New("model unavailable")

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger init: %v", err)
	}
	return log
}

// newTestDB gives each test its own shared-cache in-memory sqlite database
// migrated with the production schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(gdb, newTestLogger(t)); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func authedContext(userID uuid.UUID) context.Context {
	return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
		SessionID: "test-session",
		UserID:    userID,
		Email:     "test@example.com",
		Username:  "tester",
	})
}

type fakeAIClient struct {
	obj        map[string]any
	err        error
	lastSystem string
	lastUser   string
	calls      int
}

func (f *fakeAIClient) GenerateJSON(ctx context.Context, system, user, schemaName string, schema map[string]any) (map[string]any, error) {
	f.calls++
	f.lastSystem = system
	f.lastUser = user
	return f.obj, f.err
}

func (f *fakeAIClient) Model() string { return "fake-model" }

func validQuestionOutput() map[string]any {
	questions := make([]any, 0, questionCount)
	for i := 0; i < questionCount; i++ {
		questions = append(questions, map[string]any{
			"question": fmt.Sprintf("Question %d?", i+1),
			"options":  []any{"Option A", "Option B", "Option C"},
		})
	}
	return map[string]any{"questions": questions}
}

func validSubtopicOutput() map[string]any {
	return map[string]any{"subtopics": []any{
		"Subtopic one", "Subtopic two", "Subtopic three", "Subtopic four", "Subtopic five",
	}}
}

type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]*redis.Session
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: map[string]*redis.Session{}}
}

func (m *memorySessionStore) Create(ctx context.Context, session *redis.Session) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	id := uuid.New().String()
	m.sessions[id] = session
	return id, nil
}

func (m *memorySessionStore) Get(ctx context.Context, sessionID string) (*redis.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[sessionID], nil
}

func (m *memorySessionStore) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

func (m *memorySessionStore) TTL() time.Duration { return 8 * time.Hour }

func (m *memorySessionStore) Close() error { return nil }

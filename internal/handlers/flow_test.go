package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/learnscope/learnscope-backend/internal/clients/redis"
	"github.com/learnscope/learnscope-backend/internal/db"
	"github.com/learnscope/learnscope-backend/internal/handlers"
	"github.com/learnscope/learnscope-backend/internal/logger"
	"github.com/learnscope/learnscope-backend/internal/middleware"
	"github.com/learnscope/learnscope-backend/internal/repos"
	"github.com/learnscope/learnscope-backend/internal/server"
	"github.com/learnscope/learnscope-backend/internal/services"
)

type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]*redis.Session
}

func (m *memorySessionStore) Create(ctx context.Context, session *redis.Session) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
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

// schemaFakeAI answers question and subtopic requests based on the schema
// name, so one client can back the whole survey flow.
type schemaFakeAI struct{}

func (schemaFakeAI) GenerateJSON(ctx context.Context, system, user, schemaName string, schema map[string]any) (map[string]any, error) {
	if schemaName == "topic_subtopics" {
		return map[string]any{"subtopics": []any{
			"Subtopic one", "Subtopic two", "Subtopic three", "Subtopic four", "Subtopic five",
		}}, nil
	}
	questions := make([]any, 0, 5)
	for i := 0; i < 5; i++ {
		questions = append(questions, map[string]any{
			"question": fmt.Sprintf("Question %d?", i+1),
			"options":  []any{"Option A", "Option B", "Option C"},
		})
	}
	return map[string]any{"questions": questions}, nil
}

func (schemaFakeAI) Model() string { return "fake-model" }

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger init: %v", err)
	}
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(gdb, log); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.SeedPersonalityQuestions(gdb, log); err != nil {
		t.Fatalf("seed: %v", err)
	}

	sessions := &memorySessionStore{sessions: map[string]*redis.Session{}}
	userRepo := repos.NewUserRepo(gdb, log)
	topicRepo := repos.NewTopicRepo(gdb, log)
	responseRepo := repos.NewSurveyResponseRepo(gdb, log)
	questionRepo := repos.NewPersonalityQuestionRepo(gdb, log)
	callLogRepo := repos.NewAICallLogRepo(gdb, log)

	ai := schemaFakeAI{}
	authService := services.NewAuthService(gdb, log, userRepo, sessions)
	userService := services.NewUserService(gdb, log, userRepo, questionRepo)
	surveyService := services.NewSurveyService(
		gdb, log, topicRepo, responseRepo,
		services.NewQuestionGenerator(log, ai, callLogRepo),
		services.NewSubtopicRecommender(log, ai, callLogRepo),
	)

	return server.NewRouter(server.RouterConfig{
		AuthHandler:    handlers.NewAuthHandler(authService, false),
		AuthMiddleware: middleware.NewAuthMiddleware(log, authService),
		UserHandler:    handlers.NewUserHandler(userService),
		SurveyHandler:  handlers.NewSurveyHandler(surveyService),
		HealthHandler:  handlers.NewHealthHandler(authService),
		FrontendOrigin: "http://localhost:3000",
	})
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	out := map[string]any{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	t.Fatalf("no session cookie in response")
	return nil
}

func signupAndLogin(t *testing.T, router *gin.Engine) *http.Cookie {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/signup", map[string]any{
		"name":     "Alice Smith",
		"username": "alice",
		"email":    "alice@example.com",
		"password": "s3cretpass",
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup status %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPost, "/api/login", map[string]any{
		"email":    "alice@example.com",
		"password": "s3cretpass",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status %d: %s", rec.Code, rec.Body.String())
	}
	return sessionCookie(t, rec)
}

func TestProtectedRoutesRejectMissingCookie(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/protected", nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/store-topic", map[string]any{"topic": "Go"}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestLoginSetsHTTPOnlyLaxCookie(t *testing.T) {
	router := newTestRouter(t)
	cookie := signupAndLogin(t, router)

	if !cookie.HttpOnly {
		t.Fatalf("session cookie must be httpOnly")
	}
	if cookie.SameSite != http.SameSiteLaxMode {
		t.Fatalf("session cookie must be SameSite=Lax, got %v", cookie.SameSite)
	}
	if cookie.Value == "" {
		t.Fatalf("session cookie has no value")
	}
}

func TestSurveyFlowEndToEnd(t *testing.T) {
	router := newTestRouter(t)
	cookie := signupAndLogin(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/store-topic", map[string]any{"topic": "  Go   Basics "}, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("store-topic status %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/api/verify-topic/Go%20Basics", nil, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("verify-topic status %d: %s", rec.Code, rec.Body.String())
	}
	if exists, _ := decodeBody(t, rec)["exists"].(bool); !exists {
		t.Fatalf("stored topic should verify")
	}

	rec = doJSON(t, router, http.MethodPost, "/api/generate-questions", map[string]any{"topic": "Go Basics"}, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("generate-questions status %d: %s", rec.Code, rec.Body.String())
	}
	questions, _ := decodeBody(t, rec)["questions"].([]any)
	if len(questions) != 5 {
		t.Fatalf("expected 5 questions, got %d", len(questions))
	}

	rec = doJSON(t, router, http.MethodPost, "/api/submit-topic-survey", map[string]any{
		"topic":   "Go Basics",
		"answers": []string{"Option A", "Option B", "Option A", "Option C", "Option B"},
	}, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("submit-topic-survey status %d: %s", rec.Code, rec.Body.String())
	}
	subtopics, _ := decodeBody(t, rec)["subtopics"].([]any)
	if len(subtopics) != 5 {
		t.Fatalf("expected 5 subtopics, got %d", len(subtopics))
	}

	rec = doJSON(t, router, http.MethodGet, "/api/user-surveys", nil, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("user-surveys status %d: %s", rec.Code, rec.Body.String())
	}
	surveys, _ := decodeBody(t, rec)["surveys"].([]any)
	if len(surveys) != 1 {
		t.Fatalf("expected 1 recorded survey, got %d", len(surveys))
	}
}

func TestSubmitTopicSurveyRejectsShortAnswers(t *testing.T) {
	router := newTestRouter(t)
	cookie := signupAndLogin(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/generate-questions", map[string]any{"topic": "Go"}, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("generate-questions status %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPost, "/api/submit-topic-survey", map[string]any{
		"topic":   "Go",
		"answers": []string{"Option A"},
	}, cookie)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["code"] != "validation_error" {
		t.Fatalf("expected validation_error, got %v", body["code"])
	}
}

func TestPersonalityQuestionsAndPreferences(t *testing.T) {
	router := newTestRouter(t)
	cookie := signupAndLogin(t, router)

	rec := doJSON(t, router, http.MethodGet, "/api/questions", nil, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("questions status %d: %s", rec.Code, rec.Body.String())
	}
	var questions []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &questions); err != nil {
		t.Fatalf("questions should be a raw array: %v", err)
	}
	if len(questions) != 5 {
		t.Fatalf("expected 5 personality questions, got %d", len(questions))
	}

	rec = doJSON(t, router, http.MethodPost, "/api/save-personality", map[string]any{
		"responses": map[string]any{"style": "visual", "bogus": "dropped"},
	}, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("save-personality status %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/api/user-preferences", nil, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("user-preferences status %d: %s", rec.Code, rec.Body.String())
	}
	prefs, _ := decodeBody(t, rec)["preferences"].(map[string]any)
	if prefs["style"] != "visual" {
		t.Fatalf("style preference not saved: %v", prefs)
	}
	if _, ok := prefs["bogus"]; ok {
		t.Fatalf("unknown key should not be saved: %v", prefs)
	}
}

func TestSurveyStatusDrivesRedirect(t *testing.T) {
	router := newTestRouter(t)
	cookie := signupAndLogin(t, router)

	rec := doJSON(t, router, http.MethodGet, "/api/check-survey-status", nil, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("check-survey-status %d: %s", rec.Code, rec.Body.String())
	}
	if decodeBody(t, rec)["redirectTo"] != "/survey" {
		t.Fatalf("new user should be sent to the survey")
	}

	rec = doJSON(t, router, http.MethodPost, "/api/complete-survey", nil, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("complete-survey %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/api/check-survey-status", nil, cookie)
	if decodeBody(t, rec)["redirectTo"] != "/home" {
		t.Fatalf("completed user should be sent home")
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	router := newTestRouter(t)
	cookie := signupAndLogin(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/logout", nil, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout status %d: %s", rec.Code, rec.Body.String())
	}
	cleared := sessionCookie(t, rec)
	if cleared.MaxAge >= 0 {
		t.Fatalf("logout should expire the cookie, got MaxAge %d", cleared.MaxAge)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/protected", nil, cookie)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("session should be dead after logout, got %d", rec.Code)
	}
}

func TestHealthReportsSessionPresence(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/health", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health status %d: %s", rec.Code, rec.Body.String())
	}
	if session, _ := decodeBody(t, rec)["session"].(bool); session {
		t.Fatalf("no session expected on anonymous health check")
	}

	cookie := signupAndLogin(t, router)
	rec = doJSON(t, router, http.MethodGet, "/api/health", nil, cookie)
	if session, _ := decodeBody(t, rec)["session"].(bool); !session {
		t.Fatalf("health should see the live session")
	}
}

package redis

import (
  "context"
  "encoding/json"
  "fmt"
  "strings"
  "time"

  "github.com/google/uuid"
  goredis "github.com/redis/go-redis/v9"

  "github.com/learnscope/learnscope-backend/internal/logger"
  "github.com/learnscope/learnscope-backend/internal/utils"
)

const sessionKeyPrefix = "session:"

// Session is the server-side record behind the opaque cookie value. The
// cookie carries only the session id; everything else lives here.
type Session struct {
  UserID    uuid.UUID `json:"user_id"`
  Email     string    `json:"email"`
  Username  string    `json:"username"`
  CreatedAt time.Time `json:"created_at"`
}

type SessionStore interface {
  Create(ctx context.Context, session *Session) (string, error)
  Get(ctx context.Context, sessionID string) (*Session, error)
  Delete(ctx context.Context, sessionID string) error
  TTL() time.Duration
  Close() error
}

type sessionStore struct {
  log *logger.Logger
  rdb *goredis.Client
  ttl time.Duration
}

func NewSessionStore(log *logger.Logger) (SessionStore, error) {
  if log == nil {
    return nil, fmt.Errorf("logger required")
  }

  addr := strings.TrimSpace(utils.GetEnv("REDIS_ADDR", "", log))
  if addr == "" {
    return nil, fmt.Errorf("missing REDIS_ADDR")
  }

  ttlHours := utils.GetEnvAsInt("SESSION_TTL_HOURS", 8, log)
  if ttlHours <= 0 {
    ttlHours = 8
  }
  ttl := time.Duration(ttlHours) * time.Hour

  rdb := goredis.NewClient(&goredis.Options{
    Addr:        addr,
    DialTimeout: 5 * time.Second,
  })

  ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
  defer cancel()
  if err := rdb.Ping(ctx).Err(); err != nil {
    _ = rdb.Close()
    return nil, fmt.Errorf("redis ping: %w", err)
  }

  return &sessionStore{
    log: log.With("service", "RedisSessionStore"),
    rdb: rdb,
    ttl: ttl,
  }, nil
}

func (s *sessionStore) Create(ctx context.Context, session *Session) (string, error) {
  if session == nil {
    return "", fmt.Errorf("session required")
  }
  if session.CreatedAt.IsZero() {
    session.CreatedAt = time.Now().UTC()
  }
  raw, err := json.Marshal(session)
  if err != nil {
    return "", fmt.Errorf("marshal session: %w", err)
  }
  sessionID := uuid.New().String()
  if err := s.rdb.Set(ctx, sessionKeyPrefix+sessionID, raw, s.ttl).Err(); err != nil {
    return "", fmt.Errorf("store session: %w", err)
  }
  s.log.Debug("Session created", "session_id", sessionID, "user_id", session.UserID.String())
  return sessionID, nil
}

// Get returns (nil, nil) for a missing or expired session; callers treat that
// as an auth failure, not a server error.
func (s *sessionStore) Get(ctx context.Context, sessionID string) (*Session, error) {
  if sessionID == "" {
    return nil, nil
  }
  raw, err := s.rdb.Get(ctx, sessionKeyPrefix+sessionID).Bytes()
  if err == goredis.Nil {
    return nil, nil
  }
  if err != nil {
    return nil, fmt.Errorf("load session: %w", err)
  }
  var session Session
  if err := json.Unmarshal(raw, &session); err != nil {
    return nil, fmt.Errorf("decode session: %w", err)
  }
  return &session, nil
}

func (s *sessionStore) Delete(ctx context.Context, sessionID string) error {
  if sessionID == "" {
    return nil
  }
  if err := s.rdb.Del(ctx, sessionKeyPrefix+sessionID).Err(); err != nil {
    return fmt.Errorf("delete session: %w", err)
  }
  return nil
}

func (s *sessionStore) TTL() time.Duration {
  return s.ttl
}

func (s *sessionStore) Close() error {
  return s.rdb.Close()
}

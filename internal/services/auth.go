package services

import (
  "context"
  "fmt"
  "time"
  "gorm.io/datatypes"
  "gorm.io/gorm"
  "github.com/google/uuid"
  "github.com/learnscope/learnscope-backend/internal/apierr"
  "github.com/learnscope/learnscope-backend/internal/clients/redis"
  "github.com/learnscope/learnscope-backend/internal/logger"
  "github.com/learnscope/learnscope-backend/internal/normalization"
  "github.com/learnscope/learnscope-backend/internal/repos"
  "github.com/learnscope/learnscope-backend/internal/requestdata"
  "github.com/learnscope/learnscope-backend/internal/types"
  "github.com/learnscope/learnscope-backend/internal/utils"
)

type AuthService interface {
  RegisterUser(ctx context.Context, name, username, email, password string) (*types.User, error)
  LoginUser(ctx context.Context, email, password string) (*types.User, string, error)
  LogoutUser(ctx context.Context) error
  ContextFromSession(ctx context.Context, sessionID string) (context.Context, error)
  HasSession(ctx context.Context, sessionID string) bool
  SessionTTL() time.Duration
}

type authService struct {
  db        *gorm.DB
  log       *logger.Logger
  userRepo  repos.UserRepo
  sessions  redis.SessionStore
}

func NewAuthService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, sessions redis.SessionStore) AuthService {
  serviceLog := log.With("service", "AuthService")
  return &authService{
    db:       db,
    log:      serviceLog,
    userRepo: userRepo,
    sessions: sessions,
  }
}

func (as *authService) RegisterUser(ctx context.Context, name, username, email, password string) (*types.User, error) {
  email = normalization.ParseInputString(email)
  username = normalization.ParseInputString(username)

  if err := utils.ValidateSignupInput(name, username, email, password); err != nil {
    return nil, apierr.Validation(err)
  }

  emailTaken, err := as.userRepo.EmailExists(ctx, nil, email)
  if err != nil {
    return nil, apierr.Upstream(fmt.Errorf("failed to check email: %w", err))
  }
  usernameTaken, err := as.userRepo.UsernameExists(ctx, nil, username)
  if err != nil {
    return nil, apierr.Upstream(fmt.Errorf("failed to check username: %w", err))
  }
  if emailTaken || usernameTaken {
    return nil, apierr.Validation(fmt.Errorf("email or username already exists"))
  }

  hashed, err := utils.HashPassword(password)
  if err != nil {
    return nil, apierr.Server(err)
  }

  firstName, lastName := utils.SplitName(name)
  now := time.Now().UTC()
  user := &types.User{
    ID:                  uuid.New(),
    Email:               email,
    Username:            username,
    PasswordHash:        hashed,
    FirstName:           firstName,
    LastName:            lastName,
    LearningPreferences: datatypes.JSON([]byte("{}")),
    Version:             1,
    CreatedAt:           now,
    UpdatedAt:           now,
  }

  if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    _, cErr := as.userRepo.Create(ctx, tx, []*types.User{user})
    return cErr
  }); err != nil {
    // the unique indexes on email/username backstop the existence checks
    return nil, apierr.Upstream(fmt.Errorf("failed to create user: %w", err))
  }

  as.log.Info("User registered", "user_id", user.ID.String())
  return user, nil
}

func (as *authService) LoginUser(ctx context.Context, email, password string) (*types.User, string, error) {
  email = normalization.ParseInputString(email)

  if err := utils.ValidateLoginInput(email, password); err != nil {
    return nil, "", apierr.Validation(err)
  }

  users, err := as.userRepo.GetByEmails(ctx, nil, []string{email})
  if err != nil {
    return nil, "", apierr.Upstream(fmt.Errorf("failed to load user: %w", err))
  }
  // unknown email and wrong password produce the same response so login
  // attempts cannot probe which emails exist
  if len(users) == 0 {
    return nil, "", apierr.Auth(fmt.Errorf("invalid credentials"))
  }
  user := users[0]
  if !utils.CheckPassword(user.PasswordHash, password) {
    return nil, "", apierr.Auth(fmt.Errorf("invalid credentials"))
  }

  sessionID, err := as.sessions.Create(ctx, &redis.Session{
    UserID:   user.ID,
    Email:    user.Email,
    Username: user.Username,
  })
  if err != nil {
    return nil, "", apierr.Upstream(fmt.Errorf("failed to create session: %w", err))
  }

  as.log.Info("User logged in", "user_id", user.ID.String())
  return user, sessionID, nil
}

func (as *authService) LogoutUser(ctx context.Context) error {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.SessionID == "" {
    return apierr.Auth(fmt.Errorf("no session found"))
  }
  if err := as.sessions.Delete(ctx, rd.SessionID); err != nil {
    return apierr.Upstream(fmt.Errorf("failed to delete session: %w", err))
  }
  return nil
}

func (as *authService) ContextFromSession(ctx context.Context, sessionID string) (context.Context, error) {
  if sessionID == "" {
    return ctx, apierr.Auth(fmt.Errorf("not authenticated"))
  }
  session, err := as.sessions.Get(ctx, sessionID)
  if err != nil {
    return ctx, apierr.Upstream(fmt.Errorf("failed to load session: %w", err))
  }
  if session == nil {
    return ctx, apierr.Auth(fmt.Errorf("not authenticated"))
  }
  rd := &requestdata.RequestData{
    SessionID: sessionID,
    UserID:    session.UserID,
    Email:     session.Email,
    Username:  session.Username,
  }
  return requestdata.WithRequestData(ctx, rd), nil
}

func (as *authService) HasSession(ctx context.Context, sessionID string) bool {
  if sessionID == "" {
    return false
  }
  session, err := as.sessions.Get(ctx, sessionID)
  if err != nil {
    as.log.Warn("Session lookup failed", "error", err)
    return false
  }
  return session != nil
}

func (as *authService) SessionTTL() time.Duration {
  return as.sessions.TTL()
}

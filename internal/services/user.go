package services

import (
  "context"
  "encoding/json"
  "fmt"
  "time"

  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"

  "github.com/learnscope/learnscope-backend/internal/apierr"
  "github.com/learnscope/learnscope-backend/internal/logger"
  "github.com/learnscope/learnscope-backend/internal/repos"
  "github.com/learnscope/learnscope-backend/internal/requestdata"
  "github.com/learnscope/learnscope-backend/internal/types"
)

type UserService interface {
  SavePersonality(ctx context.Context, responses map[string]any) error
  Preferences(ctx context.Context) (map[string]any, error)
  SurveyStatus(ctx context.Context) (bool, error)
  CompleteSurvey(ctx context.Context) error
  ListPersonalityQuestions(ctx context.Context) ([]*types.PersonalityQuestion, error)
}

type userService struct {
  db           *gorm.DB
  log          *logger.Logger
  userRepo     repos.UserRepo
  questionRepo repos.PersonalityQuestionRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, questionRepo repos.PersonalityQuestionRepo) UserService {
  serviceLog := log.With("service", "UserService")
  return &userService{db: db, log: serviceLog, userRepo: userRepo, questionRepo: questionRepo}
}

// preferenceKeys is the whitelist for save-personality. Keys outside it are
// dropped with a warning, never an error.
var preferenceKeys = map[string]struct{}{
  "style":              {},
  "language":           {},
  "difficulty":         {},
  "sessionDurationMin": {},
  "notifications":      {},
  "theme":              {},
  "timeOfDay":          {},
}

const prefUpdateAttempts = 3

func (us *userService) SavePersonality(ctx context.Context, responses map[string]any) error {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    return apierr.Auth(fmt.Errorf("not authenticated"))
  }
  if responses == nil {
    return apierr.Validation(fmt.Errorf("responses map is required"))
  }

  // read-merge-CAS loop; a version bump by a concurrent save triggers a
  // re-read instead of silently losing one writer's keys
  for attempt := 0; attempt < prefUpdateAttempts; attempt++ {
    users, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{rd.UserID})
    if err != nil {
      return apierr.Upstream(fmt.Errorf("failed to load user: %w", err))
    }
    if len(users) == 0 {
      return apierr.NotFound(fmt.Errorf("user not found"))
    }
    user := users[0]

    prefs := map[string]any{}
    if len(user.LearningPreferences) > 0 {
      if err := json.Unmarshal(user.LearningPreferences, &prefs); err != nil {
        us.log.Warn("Existing preferences unreadable, resetting", "user_id", user.ID.String(), "error", err)
        prefs = map[string]any{}
      }
    }

    for key, value := range responses {
      if _, ok := preferenceKeys[key]; !ok {
        us.log.Warn("Unknown personality key skipped", "key", key)
        continue
      }
      prefs[key] = value
    }

    raw, err := json.Marshal(prefs)
    if err != nil {
      return apierr.Server(err)
    }

    updated, err := us.userRepo.UpdatePreferences(ctx, nil, user.ID, datatypes.JSON(raw), user.Version)
    if err != nil {
      return apierr.Upstream(fmt.Errorf("failed to save preferences: %w", err))
    }
    if updated {
      return nil
    }
    us.log.Debug("Preference version conflict, retrying", "user_id", user.ID.String(), "attempt", attempt+1)
  }
  return apierr.Upstream(fmt.Errorf("preference update kept conflicting after %d attempts", prefUpdateAttempts))
}

func (us *userService) Preferences(ctx context.Context) (map[string]any, error) {
  user, err := us.sessionUser(ctx)
  if err != nil {
    return nil, err
  }
  prefs := map[string]any{}
  if len(user.LearningPreferences) > 0 {
    if err := json.Unmarshal(user.LearningPreferences, &prefs); err != nil {
      return nil, apierr.Server(fmt.Errorf("failed to decode preferences: %w", err))
    }
  }
  return prefs, nil
}

func (us *userService) SurveyStatus(ctx context.Context) (bool, error) {
  user, err := us.sessionUser(ctx)
  if err != nil {
    return false, err
  }
  return user.SurveyCompleted, nil
}

func (us *userService) CompleteSurvey(ctx context.Context) error {
  user, err := us.sessionUser(ctx)
  if err != nil {
    return err
  }
  if err := us.userRepo.MarkSurveyCompleted(ctx, nil, user.ID, time.Now().UTC()); err != nil {
    return apierr.Upstream(fmt.Errorf("failed to mark survey complete: %w", err))
  }
  return nil
}

func (us *userService) ListPersonalityQuestions(ctx context.Context) ([]*types.PersonalityQuestion, error) {
  questions, err := us.questionRepo.ListActive(ctx, nil)
  if err != nil {
    return nil, apierr.Upstream(fmt.Errorf("failed to load questions: %w", err))
  }
  return questions, nil
}

func (us *userService) sessionUser(ctx context.Context) (*types.User, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    return nil, apierr.Auth(fmt.Errorf("not authenticated"))
  }
  users, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{rd.UserID})
  if err != nil {
    return nil, apierr.Upstream(fmt.Errorf("failed to load user: %w", err))
  }
  if len(users) == 0 {
    return nil, apierr.NotFound(fmt.Errorf("user not found"))
  }
  return users[0], nil
}

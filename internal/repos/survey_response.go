package repos

import (
  "context"
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"
  "github.com/learnscope/learnscope-backend/internal/logger"
  "github.com/learnscope/learnscope-backend/internal/types"
)

type SurveyResponseRepo interface {
  Create(ctx context.Context, tx *gorm.DB, responses []*types.SurveyResponse) ([]*types.SurveyResponse, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, responseIDs []uuid.UUID) ([]*types.SurveyResponse, error)
  ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.SurveyResponse, error)
  SetSubtopics(ctx context.Context, tx *gorm.DB, responseID uuid.UUID, subtopics datatypes.JSON) error
}

type surveyResponseRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewSurveyResponseRepo(db *gorm.DB, baseLog *logger.Logger) SurveyResponseRepo {
  repoLog := baseLog.With("repo", "SurveyResponseRepo")
  return &surveyResponseRepo{db: db, log: repoLog}
}

func (sr *surveyResponseRepo) Create(ctx context.Context, tx *gorm.DB, responses []*types.SurveyResponse) ([]*types.SurveyResponse, error) {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }

  if len(responses) == 0 {
    return []*types.SurveyResponse{}, nil
  }

  now := time.Now().UTC()
  for _, response := range responses {
    if response.ID == uuid.Nil {
      response.ID = uuid.New()
    }
    if response.SubmittedAt.IsZero() {
      response.SubmittedAt = now
    }
  }

  if err := transaction.WithContext(ctx).Create(&responses).Error; err != nil {
    return nil, err
  }
  return responses, nil
}

func (sr *surveyResponseRepo) GetByIDs(ctx context.Context, tx *gorm.DB, responseIDs []uuid.UUID) ([]*types.SurveyResponse, error) {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }

  var results []*types.SurveyResponse
  if len(responseIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", responseIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (sr *surveyResponseRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.SurveyResponse, error) {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }

  var results []*types.SurveyResponse
  if err := transaction.WithContext(ctx).
    Where("user_id = ?", userID).
    Order("submitted_at DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (sr *surveyResponseRepo) SetSubtopics(ctx context.Context, tx *gorm.DB, responseID uuid.UUID, subtopics datatypes.JSON) error {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }

  return transaction.WithContext(ctx).
    Model(&types.SurveyResponse{}).
    Where("id = ?", responseID).
    Update("subtopics", subtopics).Error
}

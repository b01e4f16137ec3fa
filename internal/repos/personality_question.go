package repos

import (
  "context"
  "gorm.io/gorm"
  "github.com/learnscope/learnscope-backend/internal/logger"
  "github.com/learnscope/learnscope-backend/internal/types"
)

type PersonalityQuestionRepo interface {
  ListActive(ctx context.Context, tx *gorm.DB) ([]*types.PersonalityQuestion, error)
}

type personalityQuestionRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewPersonalityQuestionRepo(db *gorm.DB, baseLog *logger.Logger) PersonalityQuestionRepo {
  repoLog := baseLog.With("repo", "PersonalityQuestionRepo")
  return &personalityQuestionRepo{db: db, log: repoLog}
}

func (pr *personalityQuestionRepo) ListActive(ctx context.Context, tx *gorm.DB) ([]*types.PersonalityQuestion, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }

  var results []*types.PersonalityQuestion
  if err := transaction.WithContext(ctx).
    Where("active = ?", true).
    Order("sort_order ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

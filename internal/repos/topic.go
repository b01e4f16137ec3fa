package repos

import (
  "context"
  "fmt"
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"
  "github.com/learnscope/learnscope-backend/internal/logger"
  "github.com/learnscope/learnscope-backend/internal/types"
)

type TopicRepo interface {
  CreateIfAbsent(ctx context.Context, tx *gorm.DB, topic *types.Topic) (*types.Topic, error)
  GetByUserAndName(ctx context.Context, tx *gorm.DB, userID uuid.UUID, name string) (*types.Topic, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, topicIDs []uuid.UUID) ([]*types.Topic, error)
  SetQuestions(ctx context.Context, tx *gorm.DB, topicID uuid.UUID, questions datatypes.JSON) error
  SetSubtopics(ctx context.Context, tx *gorm.DB, topicID uuid.UUID, subtopics datatypes.JSON) error
}

type topicRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewTopicRepo(db *gorm.DB, baseLog *logger.Logger) TopicRepo {
  repoLog := baseLog.With("repo", "TopicRepo")
  return &topicRepo{db: db, log: repoLog}
}

// CreateIfAbsent is a conditional insert against the (user_id, name) unique
// index. When another request already created the row, the insert is a no-op
// and the existing row is returned, so every caller sees the same topic id.
func (tr *topicRepo) CreateIfAbsent(ctx context.Context, tx *gorm.DB, topic *types.Topic) (*types.Topic, error) {
  transaction := tx
  if transaction == nil {
    transaction = tr.db
  }

  if topic == nil {
    return nil, fmt.Errorf("no topic given")
  }
  if topic.ID == uuid.Nil {
    topic.ID = uuid.New()
  }
  now := time.Now().UTC()
  if topic.CreatedAt.IsZero() {
    topic.CreatedAt = now
  }
  topic.UpdatedAt = now

  result := transaction.WithContext(ctx).
    Clauses(clause.OnConflict{
      Columns:   []clause.Column{{Name: "user_id"}, {Name: "name"}},
      DoNothing: true,
    }).
    Create(topic)
  if result.Error != nil {
    return nil, result.Error
  }
  if result.RowsAffected == 1 {
    return topic, nil
  }

  existing, err := tr.GetByUserAndName(ctx, transaction, topic.UserID, topic.Name)
  if err != nil {
    return nil, err
  }
  if existing == nil {
    return nil, fmt.Errorf("topic insert conflicted but no existing row found")
  }
  return existing, nil
}

func (tr *topicRepo) GetByUserAndName(ctx context.Context, tx *gorm.DB, userID uuid.UUID, name string) (*types.Topic, error) {
  transaction := tx
  if transaction == nil {
    transaction = tr.db
  }

  var results []*types.Topic
  if err := transaction.WithContext(ctx).
    Where("user_id = ? AND name = ?", userID, name).
    Limit(1).
    Find(&results).Error; err != nil {
    return nil, err
  }
  if len(results) == 0 {
    return nil, nil
  }
  return results[0], nil
}

func (tr *topicRepo) GetByIDs(ctx context.Context, tx *gorm.DB, topicIDs []uuid.UUID) ([]*types.Topic, error) {
  transaction := tx
  if transaction == nil {
    transaction = tr.db
  }

  var results []*types.Topic
  if len(topicIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", topicIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (tr *topicRepo) SetQuestions(ctx context.Context, tx *gorm.DB, topicID uuid.UUID, questions datatypes.JSON) error {
  transaction := tx
  if transaction == nil {
    transaction = tr.db
  }

  return transaction.WithContext(ctx).
    Model(&types.Topic{}).
    Where("id = ?", topicID).
    Updates(map[string]interface{}{
      "questions":  questions,
      "updated_at": time.Now().UTC(),
    }).Error
}

func (tr *topicRepo) SetSubtopics(ctx context.Context, tx *gorm.DB, topicID uuid.UUID, subtopics datatypes.JSON) error {
  transaction := tx
  if transaction == nil {
    transaction = tr.db
  }

  return transaction.WithContext(ctx).
    Model(&types.Topic{}).
    Where("id = ?", topicID).
    Updates(map[string]interface{}{
      "subtopics":  subtopics,
      "updated_at": time.Now().UTC(),
    }).Error
}

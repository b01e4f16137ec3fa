package types

import (
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
)

// Topic is one learning topic a user asked to be surveyed on. The unique
// index on (user_id, name) is what makes store-topic idempotent: concurrent
// duplicate creates collapse onto a single row instead of racing past an
// existence check.
type Topic struct {
  ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  UserID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_topic_user_name;column:user_id" json:"user_id"`
  Name        string          `gorm:"not null;uniqueIndex:idx_topic_user_name;column:name" json:"name"`
  Questions   datatypes.JSON  `gorm:"type:jsonb;column:questions" json:"questions,omitempty"`
  Subtopics   datatypes.JSON  `gorm:"type:jsonb;column:subtopics" json:"subtopics,omitempty"`
  CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
  UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`
}

func (Topic) TableName() string {
  return "learning_topic"
}

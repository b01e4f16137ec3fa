package types

import (
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
)

// SurveyResponse is an append-only record of one survey submission. It keeps
// its own question snapshot so the submission stays interpretable even if the
// topic row changes later.
type SurveyResponse struct {
  ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  UserID      uuid.UUID       `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
  TopicID     *uuid.UUID      `gorm:"type:uuid;index;column:topic_id" json:"topic_id,omitempty"`
  TopicName   string          `gorm:"not null;column:topic_name" json:"topic"`
  Questions   datatypes.JSON  `gorm:"type:jsonb;column:questions" json:"questions,omitempty"`
  Answers     datatypes.JSON  `gorm:"type:jsonb;column:answers" json:"answers"`
  Subtopics   datatypes.JSON  `gorm:"type:jsonb;column:subtopics" json:"subtopics,omitempty"`
  SubmittedAt time.Time       `gorm:"not null;column:submitted_at" json:"submitted_at"`
}

func (SurveyResponse) TableName() string {
  return "topic_survey_response"
}

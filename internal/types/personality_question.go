package types

import (
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
)

type PersonalityQuestion struct {
  ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  Text          string          `gorm:"not null;column:text" json:"question"`
  QuestionType  string          `gorm:"not null;column:question_type" json:"type"`
  Options       datatypes.JSON  `gorm:"type:jsonb;column:options" json:"options"`
  Category      string          `gorm:"column:category" json:"category,omitempty"`
  SortOrder     int             `gorm:"not null;default:0;column:sort_order" json:"order"`
  Active        bool            `gorm:"not null;default:true;column:active" json:"-"`
  CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
  UpdatedAt     time.Time       `gorm:"not null" json:"updated_at"`
}

func (PersonalityQuestion) TableName() string {
  return "personality_question"
}

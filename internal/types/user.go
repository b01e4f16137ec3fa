package types

import (
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
)

type User struct {
  ID                  uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
  Email               string          `gorm:"uniqueIndex;not null;column:email" json:"email"`
  Username            string          `gorm:"uniqueIndex;not null;column:username" json:"username"`
  PasswordHash        string          `gorm:"not null;column:password_hash" json:"-"`
  FirstName           string          `gorm:"not null;column:first_name" json:"first_name"`
  LastName            string          `gorm:"column:last_name" json:"last_name"`
  LearningPreferences datatypes.JSON  `gorm:"type:jsonb;column:learning_preferences" json:"learning_preferences"`
  SurveyCompleted     bool            `gorm:"not null;default:false;column:survey_completed" json:"survey_completed"`
  SurveyCompletedAt   *time.Time      `gorm:"column:survey_completed_at" json:"survey_completed_at,omitempty"`
  Version             int             `gorm:"not null;default:1;column:version" json:"-"`
  CreatedAt           time.Time       `gorm:"not null" json:"created_at"`
  UpdatedAt           time.Time       `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string {
  return "user"
}

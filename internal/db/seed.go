package db

import (
  "encoding/json"
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"
  "github.com/learnscope/learnscope-backend/internal/logger"
  "github.com/learnscope/learnscope-backend/internal/types"
)

type seedQuestion struct {
  text      string
  qtype     string
  options   []string
  category  string
}

var defaultPersonalityQuestions = []seedQuestion{
  {
    text:     "How do you prefer to take in new material?",
    qtype:    "multiple_choice",
    options:  []string{"Watching videos", "Reading articles", "Hands-on practice", "Listening to explanations"},
    category: "style",
  },
  {
    text:     "How long is your typical study session?",
    qtype:    "multiple_choice",
    options:  []string{"Under 15 minutes", "15-30 minutes", "30-60 minutes", "Over an hour"},
    category: "sessionDurationMin",
  },
  {
    text:     "What difficulty level do you want to start at?",
    qtype:    "multiple_choice",
    options:  []string{"Beginner", "Intermediate", "Advanced"},
    category: "difficulty",
  },
  {
    text:     "When do you usually study?",
    qtype:    "multiple_choice",
    options:  []string{"Morning", "Afternoon", "Evening", "Late night"},
    category: "timeOfDay",
  },
  {
    text:     "Would you like reminders to keep a study streak going?",
    qtype:    "multiple_choice",
    options:  []string{"Yes, daily", "Yes, weekly", "No reminders"},
    category: "notifications",
  },
}

// SeedPersonalityQuestions inserts the default question set when the table is
// empty. Re-running is a no-op, so it is safe to call on every startup.
func SeedPersonalityQuestions(db *gorm.DB, log *logger.Logger) error {
  var count int64
  if err := db.Model(&types.PersonalityQuestion{}).Count(&count).Error; err != nil {
    return err
  }
  if count > 0 {
    log.Debug("Personality questions already seeded", "count", count)
    return nil
  }
  now := time.Now().UTC()
  rows := make([]*types.PersonalityQuestion, 0, len(defaultPersonalityQuestions))
  for i, q := range defaultPersonalityQuestions {
    raw, err := json.Marshal(q.options)
    if err != nil {
      return err
    }
    rows = append(rows, &types.PersonalityQuestion{
      ID:           uuid.New(),
      Text:         q.text,
      QuestionType: q.qtype,
      Options:      datatypes.JSON(raw),
      Category:     q.category,
      SortOrder:    i + 1,
      Active:       true,
      CreatedAt:    now,
      UpdatedAt:    now,
    })
  }
  if err := db.Create(&rows).Error; err != nil {
    return err
  }
  log.Info("Seeded personality questions", "count", len(rows))
  return nil
}

package types

import (
  "encoding/json"
  "gorm.io/datatypes"
)

// SurveyQuestion is the ephemeral shape produced by the question generator
// and snapshotted onto Topic and SurveyResponse rows as JSONB.
type SurveyQuestion struct {
  Question  string    `json:"question"`
  Options   []string  `json:"options"`
}

func QuestionsToJSON(questions []SurveyQuestion) (datatypes.JSON, error) {
  raw, err := json.Marshal(questions)
  if err != nil {
    return nil, err
  }
  return datatypes.JSON(raw), nil
}

func QuestionsFromJSON(raw datatypes.JSON) ([]SurveyQuestion, error) {
  if len(raw) == 0 {
    return nil, nil
  }
  var questions []SurveyQuestion
  if err := json.Unmarshal(raw, &questions); err != nil {
    return nil, err
  }
  return questions, nil
}

func StringsToJSON(values []string) (datatypes.JSON, error) {
  raw, err := json.Marshal(values)
  if err != nil {
    return nil, err
  }
  return datatypes.JSON(raw), nil
}

func StringsFromJSON(raw datatypes.JSON) ([]string, error) {
  if len(raw) == 0 {
    return nil, nil
  }
  var values []string
  if err := json.Unmarshal(raw, &values); err != nil {
    return nil, err
  }
  return values, nil
}

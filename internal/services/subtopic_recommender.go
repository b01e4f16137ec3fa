package services

import (
  "context"
  "encoding/json"
  "fmt"
  "strings"

  "github.com/google/uuid"

  "github.com/learnscope/learnscope-backend/internal/apierr"
  "github.com/learnscope/learnscope-backend/internal/logger"
  "github.com/learnscope/learnscope-backend/internal/repos"
  "github.com/learnscope/learnscope-backend/internal/types"
)

const subtopicCount = 5

type SubtopicRecommender interface {
  Recommend(ctx context.Context, userID uuid.UUID, topicID *uuid.UUID, topic string, questions []types.SurveyQuestion, answers []string) ([]string, error)
}

type subtopicRecommender struct {
  log         *logger.Logger
  ai          OpenAIClient
  callLogRepo repos.AICallLogRepo
}

func NewSubtopicRecommender(log *logger.Logger, ai OpenAIClient, callLogRepo repos.AICallLogRepo) SubtopicRecommender {
  serviceLog := log.With("service", "SubtopicRecommender")
  return &subtopicRecommender{log: serviceLog, ai: ai, callLogRepo: callLogRepo}
}

const subtopicSystemPrompt = "You are a learning advisor. Analyze survey responses and recommend personalized subtopics."

// subtopicUserPrompt pairs each question with the answer at the same index.
// Callers validate the lengths match before getting here.
func subtopicUserPrompt(topic string, questions []types.SurveyQuestion, answers []string) string {
  var pairs strings.Builder
  for i, q := range questions {
    if i > 0 {
      pairs.WriteString("\n\n")
    }
    fmt.Fprintf(&pairs, "Q: %s\nA: %s", q.Question, answers[i])
  }
  return fmt.Sprintf(`Based on these survey responses about learning %s:

%s

Analyze the learner's responses and generate 5 personalized subtopics they should focus on, ordered by priority.`, topic, pairs.String())
}

func subtopicSchema() map[string]any {
  return map[string]any{
    "type":                 "object",
    "additionalProperties": false,
    "properties": map[string]any{
      "subtopics": map[string]any{
        "type":     "array",
        "minItems": subtopicCount,
        "maxItems": subtopicCount,
        "items":    map[string]any{"type": "string"},
      },
    },
    "required": []string{"subtopics"},
  }
}

func (sr *subtopicRecommender) Recommend(ctx context.Context, userID uuid.UUID, topicID *uuid.UUID, topic string, questions []types.SurveyQuestion, answers []string) ([]string, error) {
  if len(questions) != len(answers) {
    return nil, apierr.Validation(fmt.Errorf("got %d answers for %d questions", len(answers), len(questions)))
  }

  callCtx, cancel := context.WithTimeout(ctx, modelCallTimeout)
  defer cancel()

  userPrompt := subtopicUserPrompt(topic, questions, answers)
  obj, genErr := sr.ai.GenerateJSON(callCtx, subtopicSystemPrompt, userPrompt, "topic_subtopics", subtopicSchema())

  subtopics, valErr := coerceSubtopics(obj)
  if genErr == nil {
    genErr = valErr
  }

  recordModelCall(ctx, sr.log, sr.callLogRepo, sr.ai.Model(), userID, topicID, "subtopic_recommendation", userPrompt, obj, genErr)

  if genErr != nil {
    sr.log.Warn("Subtopic recommendation failed", "topic", topic, "error", genErr)
    return nil, apierr.Upstream(fmt.Errorf("subtopic recommendation failed: %w", genErr))
  }
  return subtopics, nil
}

func coerceSubtopics(obj map[string]any) ([]string, error) {
  if obj == nil {
    return nil, fmt.Errorf("empty model output")
  }
  raw, err := json.Marshal(obj)
  if err != nil {
    return nil, err
  }
  var parsed struct {
    Subtopics []string `json:"subtopics"`
  }
  if err := json.Unmarshal(raw, &parsed); err != nil {
    return nil, fmt.Errorf("unexpected subtopic shape: %w", err)
  }
  if len(parsed.Subtopics) != subtopicCount {
    return nil, fmt.Errorf("expected %d subtopics, got %d", subtopicCount, len(parsed.Subtopics))
  }
  for i, s := range parsed.Subtopics {
    if strings.TrimSpace(s) == "" {
      return nil, fmt.Errorf("subtopic %d is empty", i)
    }
  }
  return parsed.Subtopics, nil
}

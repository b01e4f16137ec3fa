package services

import (
  "context"
  "encoding/json"
  "fmt"
  "time"

  "github.com/google/uuid"

  "github.com/learnscope/learnscope-backend/internal/apierr"
  "github.com/learnscope/learnscope-backend/internal/logger"
  "github.com/learnscope/learnscope-backend/internal/repos"
  "github.com/learnscope/learnscope-backend/internal/types"
)

const (
  questionCount    = 5
  minOptionCount   = 2
  modelCallTimeout = 60 * time.Second
)

type QuestionGenerator interface {
  Generate(ctx context.Context, userID uuid.UUID, topicID *uuid.UUID, topic string) ([]types.SurveyQuestion, error)
}

type questionGenerator struct {
  log         *logger.Logger
  ai          OpenAIClient
  callLogRepo repos.AICallLogRepo
}

func NewQuestionGenerator(log *logger.Logger, ai OpenAIClient, callLogRepo repos.AICallLogRepo) QuestionGenerator {
  serviceLog := log.With("service", "QuestionGenerator")
  return &questionGenerator{log: serviceLog, ai: ai, callLogRepo: callLogRepo}
}

const questionSystemPrompt = "Generate a learning assessment survey with 5 multiple choice questions about the given topic. Return JSON format with questions and options."

func questionUserPrompt(topic string) string {
  return fmt.Sprintf(`Create a 5-question survey about %s to assess a learner's background and preferences. Include questions about:
- Prior knowledge/experience level
- Learning goals
- Preferred learning methods
- Time availability
- Specific interests within the topic`, topic)
}

func questionSchema() map[string]any {
  return map[string]any{
    "type":                 "object",
    "additionalProperties": false,
    "properties": map[string]any{
      "questions": map[string]any{
        "type":     "array",
        "minItems": questionCount,
        "maxItems": questionCount,
        "items": map[string]any{
          "type":                 "object",
          "additionalProperties": false,
          "properties": map[string]any{
            "question": map[string]any{"type": "string"},
            "options": map[string]any{
              "type":     "array",
              "minItems": minOptionCount,
              "items":    map[string]any{"type": "string"},
            },
          },
          "required": []string{"question", "options"},
        },
      },
    },
    "required": []string{"questions"},
  }
}

func (qg *questionGenerator) Generate(ctx context.Context, userID uuid.UUID, topicID *uuid.UUID, topic string) ([]types.SurveyQuestion, error) {
  callCtx, cancel := context.WithTimeout(ctx, modelCallTimeout)
  defer cancel()

  userPrompt := questionUserPrompt(topic)
  obj, genErr := qg.ai.GenerateJSON(callCtx, questionSystemPrompt, userPrompt, "topic_survey_questions", questionSchema())

  questions, valErr := coerceQuestions(obj)
  if genErr == nil {
    genErr = valErr
  }

  recordModelCall(ctx, qg.log, qg.callLogRepo, qg.ai.Model(), userID, topicID, "question_generation", userPrompt, obj, genErr)

  if genErr != nil {
    qg.log.Warn("Question generation failed", "topic", topic, "error", genErr)
    return nil, apierr.Upstream(fmt.Errorf("question generation failed: %w", genErr))
  }
  return questions, nil
}

// coerceQuestions re-validates the parsed model output even though the schema
// was requested in strict mode; the model reply is untrusted input.
func coerceQuestions(obj map[string]any) ([]types.SurveyQuestion, error) {
  if obj == nil {
    return nil, fmt.Errorf("empty model output")
  }
  raw, err := json.Marshal(obj)
  if err != nil {
    return nil, err
  }
  var parsed struct {
    Questions []types.SurveyQuestion `json:"questions"`
  }
  if err := json.Unmarshal(raw, &parsed); err != nil {
    return nil, fmt.Errorf("unexpected question shape: %w", err)
  }
  if len(parsed.Questions) != questionCount {
    return nil, fmt.Errorf("expected %d questions, got %d", questionCount, len(parsed.Questions))
  }
  for i, q := range parsed.Questions {
    if q.Question == "" {
      return nil, fmt.Errorf("question %d has empty text", i)
    }
    if len(q.Options) < minOptionCount {
      return nil, fmt.Errorf("question %d has %d options, need at least %d", i, len(q.Options), minOptionCount)
    }
    for j, opt := range q.Options {
      if opt == "" {
        return nil, fmt.Errorf("question %d option %d is empty", i, j)
      }
    }
  }
  return parsed.Questions, nil
}

// recordModelCall appends an audit row for a model call. Audit failures are
// logged and swallowed; they must not fail the user-facing request.
func recordModelCall(ctx context.Context, log *logger.Logger, callLogRepo repos.AICallLogRepo, model string, userID uuid.UUID, topicID *uuid.UUID, callType, prompt string, obj map[string]any, callErr error) {
  if callLogRepo == nil {
    return
  }
  entry := &types.AICallLog{
    UserID:   &userID,
    TopicID:  topicID,
    CallType: callType,
    Model:    model,
    Prompt:   prompt,
    Success:  callErr == nil,
  }
  if obj != nil {
    if raw, err := json.Marshal(obj); err == nil {
      entry.Response = string(raw)
    }
  }
  if callErr != nil {
    entry.Error = callErr.Error()
  }
  if _, err := callLogRepo.Create(ctx, nil, []*types.AICallLog{entry}); err != nil {
    log.Warn("Failed to record model call", "call_type", callType, "error", err)
  }
}

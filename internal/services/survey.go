package services

import (
  "context"
  "fmt"
  "strings"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/learnscope/learnscope-backend/internal/apierr"
  "github.com/learnscope/learnscope-backend/internal/logger"
  "github.com/learnscope/learnscope-backend/internal/normalization"
  "github.com/learnscope/learnscope-backend/internal/repos"
  "github.com/learnscope/learnscope-backend/internal/requestdata"
  "github.com/learnscope/learnscope-backend/internal/types"
)

type SurveyService interface {
  StoreTopic(ctx context.Context, name string) (*types.Topic, error)
  VerifyTopic(ctx context.Context, name string) (bool, error)
  TopicQuestions(ctx context.Context, name string) ([]types.SurveyQuestion, error)
  GenerateQuestions(ctx context.Context, name string) ([]types.SurveyQuestion, error)
  SubmitTopicSurvey(ctx context.Context, name string, answers []string) ([]string, error)
  SubmitSurvey(ctx context.Context, name string, questions []types.SurveyQuestion, answers []string) ([]string, error)
  ListUserSurveys(ctx context.Context) ([]*types.SurveyResponse, error)
  GetSurvey(ctx context.Context, responseID uuid.UUID) (*types.SurveyResponse, error)
}

type surveyService struct {
  db          *gorm.DB
  log         *logger.Logger
  topicRepo   repos.TopicRepo
  responseRepo repos.SurveyResponseRepo
  generator   QuestionGenerator
  recommender SubtopicRecommender
}

func NewSurveyService(
  db *gorm.DB,
  log *logger.Logger,
  topicRepo repos.TopicRepo,
  responseRepo repos.SurveyResponseRepo,
  generator QuestionGenerator,
  recommender SubtopicRecommender,
) SurveyService {
  serviceLog := log.With("service", "SurveyService")
  return &surveyService{
    db:           db,
    log:          serviceLog,
    topicRepo:    topicRepo,
    responseRepo: responseRepo,
    generator:    generator,
    recommender:  recommender,
  }
}

// StoreTopic is idempotent per (user, name): repeated calls return the row
// the first call created, even under concurrent duplicates.
func (ss *surveyService) StoreTopic(ctx context.Context, name string) (*types.Topic, error) {
  rd, err := authed(ctx)
  if err != nil {
    return nil, err
  }
  name = normalization.ParseTopicString(name)
  if name == "" {
    return nil, apierr.Validation(fmt.Errorf("topic is required"))
  }

  topic, err := ss.topicRepo.CreateIfAbsent(ctx, nil, &types.Topic{
    UserID: rd.UserID,
    Name:   name,
  })
  if err != nil {
    return nil, apierr.Upstream(fmt.Errorf("failed to store topic: %w", err))
  }
  return topic, nil
}

func (ss *surveyService) VerifyTopic(ctx context.Context, name string) (bool, error) {
  rd, err := authed(ctx)
  if err != nil {
    return false, err
  }
  name = normalization.ParseTopicString(name)
  if name == "" {
    return false, apierr.Validation(fmt.Errorf("topic is required"))
  }
  topic, err := ss.topicRepo.GetByUserAndName(ctx, nil, rd.UserID, name)
  if err != nil {
    return false, apierr.Upstream(fmt.Errorf("failed to look up topic: %w", err))
  }
  return topic != nil, nil
}

// TopicQuestions returns the question set stored on the topic, generating and
// persisting one first when the topic has none yet. The topic row is the
// single source of truth for issued questions.
func (ss *surveyService) TopicQuestions(ctx context.Context, name string) ([]types.SurveyQuestion, error) {
  rd, err := authed(ctx)
  if err != nil {
    return nil, err
  }
  name = normalization.ParseTopicString(name)
  topic, err := ss.topicRepo.GetByUserAndName(ctx, nil, rd.UserID, name)
  if err != nil {
    return nil, apierr.Upstream(fmt.Errorf("failed to look up topic: %w", err))
  }
  if topic == nil {
    return nil, apierr.NotFound(fmt.Errorf("topic %q not found", name))
  }

  stored, err := types.QuestionsFromJSON(topic.Questions)
  if err != nil {
    ss.log.Warn("Stored questions unreadable, regenerating", "topic_id", topic.ID.String(), "error", err)
  }
  if len(stored) > 0 {
    return stored, nil
  }
  return ss.generateAndPersist(ctx, rd.UserID, topic)
}

// GenerateQuestions stores the topic when needed, then generates a fresh
// question set and persists it onto the topic row.
func (ss *surveyService) GenerateQuestions(ctx context.Context, name string) ([]types.SurveyQuestion, error) {
  rd, err := authed(ctx)
  if err != nil {
    return nil, err
  }
  name = normalization.ParseTopicString(name)
  if name == "" {
    return nil, apierr.Validation(fmt.Errorf("topic is required"))
  }
  topic, err := ss.topicRepo.CreateIfAbsent(ctx, nil, &types.Topic{
    UserID: rd.UserID,
    Name:   name,
  })
  if err != nil {
    return nil, apierr.Upstream(fmt.Errorf("failed to store topic: %w", err))
  }
  return ss.generateAndPersist(ctx, rd.UserID, topic)
}

func (ss *surveyService) generateAndPersist(ctx context.Context, userID uuid.UUID, topic *types.Topic) ([]types.SurveyQuestion, error) {
  questions, err := ss.generator.Generate(ctx, userID, &topic.ID, topic.Name)
  if err != nil {
    return nil, err
  }
  raw, err := types.QuestionsToJSON(questions)
  if err != nil {
    return nil, apierr.Server(err)
  }
  if err := ss.topicRepo.SetQuestions(ctx, nil, topic.ID, raw); err != nil {
    return nil, apierr.Upstream(fmt.Errorf("failed to persist questions: %w", err))
  }
  return questions, nil
}

// SubmitTopicSurvey validates the answers against the topic's stored question
// set, records the submission, derives subtopics and writes them back onto
// both the topic and the submission row.
func (ss *surveyService) SubmitTopicSurvey(ctx context.Context, name string, answers []string) ([]string, error) {
  rd, err := authed(ctx)
  if err != nil {
    return nil, err
  }
  name = normalization.ParseTopicString(name)
  topic, err := ss.topicRepo.GetByUserAndName(ctx, nil, rd.UserID, name)
  if err != nil {
    return nil, apierr.Upstream(fmt.Errorf("failed to look up topic: %w", err))
  }
  if topic == nil {
    return nil, apierr.NotFound(fmt.Errorf("topic %q not found", name))
  }
  questions, err := types.QuestionsFromJSON(topic.Questions)
  if err != nil || len(questions) == 0 {
    return nil, apierr.Validation(fmt.Errorf("no question set issued for topic %q", name))
  }
  if err := validateAnswers(questions, answers); err != nil {
    return nil, err
  }
  return ss.recordAndRecommend(ctx, rd.UserID, topic, name, questions, answers)
}

// SubmitSurvey is the legacy submission path where the client carries the
// question snapshot itself. The snapshot is validated the same way and the
// response is linked to the topic row when one exists.
func (ss *surveyService) SubmitSurvey(ctx context.Context, name string, questions []types.SurveyQuestion, answers []string) ([]string, error) {
  rd, err := authed(ctx)
  if err != nil {
    return nil, err
  }
  name = normalization.ParseTopicString(name)
  if name == "" {
    return nil, apierr.Validation(fmt.Errorf("topic is required"))
  }
  if len(questions) == 0 {
    return nil, apierr.Validation(fmt.Errorf("questions are required"))
  }
  if err := validateAnswers(questions, answers); err != nil {
    return nil, err
  }
  topic, err := ss.topicRepo.GetByUserAndName(ctx, nil, rd.UserID, name)
  if err != nil {
    return nil, apierr.Upstream(fmt.Errorf("failed to look up topic: %w", err))
  }
  return ss.recordAndRecommend(ctx, rd.UserID, topic, name, questions, answers)
}

// recordAndRecommend persists the submission before calling the model, so a
// recommendation failure still leaves the answers on record. There is no
// rollback of the stored response on failure, matching the rest of the flow.
func (ss *surveyService) recordAndRecommend(ctx context.Context, userID uuid.UUID, topic *types.Topic, name string, questions []types.SurveyQuestion, answers []string) ([]string, error) {
  questionsJSON, err := types.QuestionsToJSON(questions)
  if err != nil {
    return nil, apierr.Server(err)
  }
  answersJSON, err := types.StringsToJSON(answers)
  if err != nil {
    return nil, apierr.Server(err)
  }

  response := &types.SurveyResponse{
    UserID:    userID,
    TopicName: name,
    Questions: questionsJSON,
    Answers:   answersJSON,
  }
  var topicID *uuid.UUID
  if topic != nil {
    id := topic.ID
    topicID = &id
    response.TopicID = &id
  }
  if _, err := ss.responseRepo.Create(ctx, nil, []*types.SurveyResponse{response}); err != nil {
    return nil, apierr.Upstream(fmt.Errorf("failed to store survey response: %w", err))
  }

  subtopics, err := ss.recommender.Recommend(ctx, userID, topicID, name, questions, answers)
  if err != nil {
    return nil, err
  }

  subtopicsJSON, err := types.StringsToJSON(subtopics)
  if err != nil {
    return nil, apierr.Server(err)
  }
  if err := ss.responseRepo.SetSubtopics(ctx, nil, response.ID, subtopicsJSON); err != nil {
    ss.log.Warn("Failed to attach subtopics to response", "response_id", response.ID.String(), "error", err)
  }
  if topic != nil {
    if err := ss.topicRepo.SetSubtopics(ctx, nil, topic.ID, subtopicsJSON); err != nil {
      ss.log.Warn("Failed to attach subtopics to topic", "topic_id", topic.ID.String(), "error", err)
    }
  }
  return subtopics, nil
}

func (ss *surveyService) ListUserSurveys(ctx context.Context) ([]*types.SurveyResponse, error) {
  rd, err := authed(ctx)
  if err != nil {
    return nil, err
  }
  responses, err := ss.responseRepo.ListByUserID(ctx, nil, rd.UserID)
  if err != nil {
    return nil, apierr.Upstream(fmt.Errorf("failed to list surveys: %w", err))
  }
  return responses, nil
}

func (ss *surveyService) GetSurvey(ctx context.Context, responseID uuid.UUID) (*types.SurveyResponse, error) {
  rd, err := authed(ctx)
  if err != nil {
    return nil, err
  }
  responses, err := ss.responseRepo.GetByIDs(ctx, nil, []uuid.UUID{responseID})
  if err != nil {
    return nil, apierr.Upstream(fmt.Errorf("failed to load survey: %w", err))
  }
  // a survey owned by someone else reads the same as a missing one
  if len(responses) == 0 || responses[0].UserID != rd.UserID {
    return nil, apierr.NotFound(fmt.Errorf("survey not found"))
  }
  return responses[0], nil
}

func validateAnswers(questions []types.SurveyQuestion, answers []string) error {
  if len(answers) != len(questions) {
    return apierr.Validation(fmt.Errorf("got %d answers for %d questions", len(answers), len(questions)))
  }
  for i, answer := range answers {
    if strings.TrimSpace(answer) == "" {
      return apierr.Validation(fmt.Errorf("answer %d is empty", i))
    }
  }
  return nil
}

func authed(ctx context.Context) (*requestdata.RequestData, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    return nil, apierr.Auth(fmt.Errorf("not authenticated"))
  }
  return rd, nil
}

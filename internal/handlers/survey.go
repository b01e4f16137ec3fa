package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/learnscope/learnscope-backend/internal/services"
  "github.com/learnscope/learnscope-backend/internal/types"
)

type SurveyHandler struct {
  surveyService     services.SurveyService
}

func NewSurveyHandler(surveyService services.SurveyService) *SurveyHandler {
  return &SurveyHandler{surveyService: surveyService}
}

func (sh *SurveyHandler) StoreTopic(c *gin.Context) {
  var req struct {
    Topic       string      `json:"topic"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
    return
  }
  topic, err := sh.surveyService.StoreTopic(c.Request.Context(), req.Topic)
  if err != nil {
    RespondError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"success": true, "topic": topic})
}

func (sh *SurveyHandler) VerifyTopic(c *gin.Context) {
  exists, err := sh.surveyService.VerifyTopic(c.Request.Context(), c.Param("topic"))
  if err != nil {
    RespondError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"exists": exists})
}

func (sh *SurveyHandler) TopicQuestions(c *gin.Context) {
  questions, err := sh.surveyService.TopicQuestions(c.Request.Context(), c.Param("topic"))
  if err != nil {
    RespondError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"success": true, "questions": questions})
}

func (sh *SurveyHandler) GenerateQuestions(c *gin.Context) {
  var req struct {
    Topic       string      `json:"topic"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
    return
  }
  questions, err := sh.surveyService.GenerateQuestions(c.Request.Context(), req.Topic)
  if err != nil {
    RespondError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"success": true, "questions": questions})
}

func (sh *SurveyHandler) SubmitTopicSurvey(c *gin.Context) {
  var req struct {
    Topic       string      `json:"topic"`
    Answers     []string    `json:"answers"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
    return
  }
  subtopics, err := sh.surveyService.SubmitTopicSurvey(c.Request.Context(), req.Topic, req.Answers)
  if err != nil {
    RespondError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"success": true, "subtopics": subtopics})
}

func (sh *SurveyHandler) SubmitSurvey(c *gin.Context) {
  var req struct {
    Topic       string                  `json:"topic"`
    Questions   []types.SurveyQuestion  `json:"questions"`
    Answers     []string                `json:"answers"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
    return
  }
  subtopics, err := sh.surveyService.SubmitSurvey(c.Request.Context(), req.Topic, req.Questions, req.Answers)
  if err != nil {
    RespondError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"success": true, "subtopics": subtopics})
}

func (sh *SurveyHandler) UserSurveys(c *gin.Context) {
  surveys, err := sh.surveyService.ListUserSurveys(c.Request.Context())
  if err != nil {
    RespondError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"success": true, "surveys": surveys})
}

func (sh *SurveyHandler) GetSurvey(c *gin.Context) {
  responseID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid survey id"})
    return
  }
  survey, err := sh.surveyService.GetSurvey(c.Request.Context(), responseID)
  if err != nil {
    RespondError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"success": true, "survey": survey})
}

package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/learnscope/learnscope-backend/internal/services"
)

type UserHandler struct {
  userService       services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
  return &UserHandler{userService: userService}
}

// PersonalityQuestions responds with the raw array of question documents, not
// an envelope; the questionnaire page consumes it directly.
func (uh *UserHandler) PersonalityQuestions(c *gin.Context) {
  questions, err := uh.userService.ListPersonalityQuestions(c.Request.Context())
  if err != nil {
    RespondError(c, err)
    return
  }
  c.JSON(http.StatusOK, questions)
}

func (uh *UserHandler) SavePersonality(c *gin.Context) {
  var req struct {
    Responses     map[string]any    `json:"responses"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
    return
  }
  if err := uh.userService.SavePersonality(c.Request.Context(), req.Responses); err != nil {
    RespondError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"success": true, "message": "Responses saved"})
}

func (uh *UserHandler) CheckSurveyStatus(c *gin.Context) {
  completed, err := uh.userService.SurveyStatus(c.Request.Context())
  if err != nil {
    RespondError(c, err)
    return
  }
  redirectTo := "/survey"
  if completed {
    redirectTo = "/home"
  }
  c.JSON(http.StatusOK, gin.H{"success": true, "completed": completed, "redirectTo": redirectTo})
}

func (uh *UserHandler) CompleteSurvey(c *gin.Context) {
  if err := uh.userService.CompleteSurvey(c.Request.Context()); err != nil {
    RespondError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"success": true, "redirectTo": "/home"})
}

func (uh *UserHandler) UserPreferences(c *gin.Context) {
  prefs, err := uh.userService.Preferences(c.Request.Context())
  if err != nil {
    RespondError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"success": true, "preferences": prefs})
}

package handlers

import (
  "net/http"
  "time"
  "github.com/gin-gonic/gin"
  "github.com/learnscope/learnscope-backend/internal/middleware"
  "github.com/learnscope/learnscope-backend/internal/services"
)

type HealthHandler struct {
  authService services.AuthService
}

func NewHealthHandler(authService services.AuthService) *HealthHandler {
  return &HealthHandler{authService: authService}
}

func (hh *HealthHandler) Check(c *gin.Context) {
  hasSession := false
  if sessionID, err := c.Cookie(middleware.SessionCookieName); err == nil {
    hasSession = hh.authService.HasSession(c.Request.Context(), sessionID)
  }
  c.JSON(http.StatusOK, gin.H{
    "status":    "ok",
    "session":   hasSession,
    "timestamp": time.Now().UTC().Format(time.RFC3339),
  })
}

package middleware

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/learnscope/learnscope-backend/internal/logger"
  "github.com/learnscope/learnscope-backend/internal/requestdata"
  "github.com/learnscope/learnscope-backend/internal/services"
)

// SessionCookieName is the cookie carrying the opaque session id.
const SessionCookieName = "session_id"

type AuthMiddleware struct {
  log           *logger.Logger
  authService   services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
  middlewareLogger := log.With("Middleware", "AuthMiddleware")
  return &AuthMiddleware{log: middlewareLogger, authService: authService}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
  return func(c *gin.Context) {
    sessionID, err := c.Cookie(SessionCookieName)
    if err != nil || sessionID == "" {
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authenticated"})
      return
    }
    ctx, err := am.authService.ContextFromSession(c.Request.Context(), sessionID)
    if err != nil {
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authenticated"})
      return
    }
    c.Request = c.Request.WithContext(ctx)
    rd := requestdata.GetRequestData(ctx)
    if rd == nil || rd.UserID == uuid.Nil {
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authenticated"})
      return
    }
    c.Next()
  }
}

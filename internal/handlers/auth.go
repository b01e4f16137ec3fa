package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/learnscope/learnscope-backend/internal/middleware"
  "github.com/learnscope/learnscope-backend/internal/requestdata"
  "github.com/learnscope/learnscope-backend/internal/services"
)

type AuthHandler struct {
  authService       services.AuthService
  secureCookies     bool
}

func NewAuthHandler(authService services.AuthService, secureCookies bool) *AuthHandler {
  return &AuthHandler{authService: authService, secureCookies: secureCookies}
}

func (ah *AuthHandler) Signup(c *gin.Context) {
  var req struct {
    Name        string      `json:"name"`
    Username    string      `json:"username"`
    Email       string      `json:"email"`
    Password    string      `json:"password"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
    return
  }
  user, err := ah.authService.RegisterUser(c.Request.Context(), req.Name, req.Username, req.Email, req.Password)
  if err != nil {
    RespondError(c, err)
    return
  }
  c.JSON(http.StatusCreated, gin.H{
    "success": true,
    "message": "Account created successfully",
    "user": gin.H{
      "id":       user.ID,
      "email":    user.Email,
      "username": user.Username,
    },
  })
}

func (ah *AuthHandler) Login(c *gin.Context) {
  var req struct {
    Email         string      `json:"email"`
    Password      string      `json:"password"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
    return
  }
  user, sessionID, err := ah.authService.LoginUser(c.Request.Context(), req.Email, req.Password)
  if err != nil {
    RespondError(c, err)
    return
  }
  ah.setSessionCookie(c, sessionID, int(ah.authService.SessionTTL().Seconds()))
  c.JSON(http.StatusOK, gin.H{
    "success": true,
    "user": gin.H{
      "id":       user.ID,
      "email":    user.Email,
      "username": user.Username,
    },
  })
}

func (ah *AuthHandler) Logout(c *gin.Context) {
  if err := ah.authService.LogoutUser(c.Request.Context()); err != nil {
    RespondError(c, err)
    return
  }
  ah.setSessionCookie(c, "", -1)
  c.JSON(http.StatusOK, gin.H{"success": true})
}

// Protected is the auth probe the client calls on page load.
func (ah *AuthHandler) Protected(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authenticated"})
    return
  }
  c.JSON(http.StatusOK, gin.H{
    "success": true,
    "message": "Protected data",
    "user": gin.H{
      "id":       rd.UserID,
      "email":    rd.Email,
      "username": rd.Username,
    },
  })
}

func (ah *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
  c.SetSameSite(http.SameSiteLaxMode)
  c.SetCookie(middleware.SessionCookieName, value, maxAge, "/", "", ah.secureCookies, true)
}

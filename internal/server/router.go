package server

import (
  "github.com/gin-gonic/gin"
  "github.com/gin-contrib/cors"
  "github.com/learnscope/learnscope-backend/internal/handlers"
  "github.com/learnscope/learnscope-backend/internal/middleware"
)

type RouterConfig struct {
  AuthHandler       *handlers.AuthHandler
  AuthMiddleware    *middleware.AuthMiddleware
  UserHandler       *handlers.UserHandler
  SurveyHandler     *handlers.SurveyHandler
  HealthHandler     *handlers.HealthHandler
  FrontendOrigin    string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  // Cors
  router.Use(cors.New(cors.Config{
    AllowOrigins:     []string{cfg.FrontendOrigin},
    AllowMethods:     []string{"GET", "POST", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

// ===============
// || Public    ||
// ===============
  api := router.Group("/api")
  api.GET("/health", cfg.HealthHandler.Check)
  api.POST("/signup", cfg.AuthHandler.Signup)
  api.POST("/login", cfg.AuthHandler.Login)

// ===============
// || Protected ||
// ===============
  protected := api.Group("/")
  protected.Use(cfg.AuthMiddleware.RequireAuth())
  // Auth
  protected.POST("/logout", cfg.AuthHandler.Logout)
  protected.GET("/protected", cfg.AuthHandler.Protected)
  // Personality / preferences
  protected.GET("/questions", cfg.UserHandler.PersonalityQuestions)
  protected.POST("/save-personality", cfg.UserHandler.SavePersonality)
  protected.GET("/check-survey-status", cfg.UserHandler.CheckSurveyStatus)
  protected.POST("/complete-survey", cfg.UserHandler.CompleteSurvey)
  protected.GET("/user-preferences", cfg.UserHandler.UserPreferences)
  // Topic survey flow
  protected.POST("/store-topic", cfg.SurveyHandler.StoreTopic)
  protected.GET("/verify-topic/:topic", cfg.SurveyHandler.VerifyTopic)
  protected.GET("/topic-questions/:topic", cfg.SurveyHandler.TopicQuestions)
  protected.POST("/generate-questions", cfg.SurveyHandler.GenerateQuestions)
  protected.POST("/submit-topic-survey", cfg.SurveyHandler.SubmitTopicSurvey)
  protected.POST("/submit-survey", cfg.SurveyHandler.SubmitSurvey)
  protected.GET("/user-surveys", cfg.SurveyHandler.UserSurveys)
  protected.GET("/survey/:id", cfg.SurveyHandler.GetSurvey)

  return router
}

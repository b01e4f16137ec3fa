package main

import (
  "fmt"
  "os"
  "github.com/learnscope/learnscope-backend/internal/clients/redis"
  "github.com/learnscope/learnscope-backend/internal/db"
  "github.com/learnscope/learnscope-backend/internal/handlers"
  "github.com/learnscope/learnscope-backend/internal/logger"
  "github.com/learnscope/learnscope-backend/internal/middleware"
  "github.com/learnscope/learnscope-backend/internal/repos"
  "github.com/learnscope/learnscope-backend/internal/server"
  "github.com/learnscope/learnscope-backend/internal/services"
  "github.com/learnscope/learnscope-backend/internal/utils"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  production := logMode == "prod" || logMode == "production"
  handlers.SetProductionMode(production)

  // Env
  log.Info("Loading environment variables from main...")
  frontendOrigin := utils.GetEnv("FRONTEND_URL", "http://localhost:3000", log)

  // Postgres
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Postgres init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Error("Postgres auto migration failed", "error", err)
    os.Exit(1)
  }
  thePG := postgresService.DB()
  if err := db.SeedPersonalityQuestions(thePG, log); err != nil {
    log.Warn("Personality question seeding failed", "error", err)
  }

  // Sessions
  log.Info("Setting up session store from main...")
  sessionStore, err := redis.NewSessionStore(log)
  if err != nil {
    log.Error("Could not init SessionStore", "error", err)
    os.Exit(1)
  }
  defer sessionStore.Close()

  // Repos
  log.Info("Setting up Repos from main...")
  userRepo := repos.NewUserRepo(thePG, log)
  topicRepo := repos.NewTopicRepo(thePG, log)
  surveyResponseRepo := repos.NewSurveyResponseRepo(thePG, log)
  personalityQuestionRepo := repos.NewPersonalityQuestionRepo(thePG, log)
  aiCallLogRepo := repos.NewAICallLogRepo(thePG, log)

  // Services
  log.Info("Setting up Services from main...")
  openaiClient, err := services.NewOpenAIClient(log)
  if err != nil {
    log.Error("Could not init OpenAIClient", "error", err)
    os.Exit(1)
  }
  questionGenerator := services.NewQuestionGenerator(log, openaiClient, aiCallLogRepo)
  subtopicRecommender := services.NewSubtopicRecommender(log, openaiClient, aiCallLogRepo)
  authService := services.NewAuthService(thePG, log, userRepo, sessionStore)
  userService := services.NewUserService(thePG, log, userRepo, personalityQuestionRepo)
  surveyService := services.NewSurveyService(thePG, log, topicRepo, surveyResponseRepo, questionGenerator, subtopicRecommender)

  // Handlers
  log.Info("Setting up handlers from main...")
  authHandler := handlers.NewAuthHandler(authService, production)
  userHandler := handlers.NewUserHandler(userService)
  surveyHandler := handlers.NewSurveyHandler(surveyService)
  healthHandler := handlers.NewHealthHandler(authService)

  // Middleware
  log.Info("Setting up middleware from main...")
  authMiddleware := middleware.NewAuthMiddleware(log, authService)

  // Router
  log.Info("Setting up router from main...")
  router := server.NewRouter(server.RouterConfig{
    AuthHandler:    authHandler,
    AuthMiddleware: authMiddleware,
    UserHandler:    userHandler,
    SurveyHandler:  surveyHandler,
    HealthHandler:  healthHandler,
    FrontendOrigin: frontendOrigin,
  })

  port := utils.GetEnv("PORT", "5001", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Error("Server failed", "error", err)
  }
}

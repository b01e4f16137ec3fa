package db

import (
  "fmt"
  "gorm.io/driver/postgres"
  "gorm.io/gorm"
  "github.com/learnscope/learnscope-backend/internal/logger"
  "github.com/learnscope/learnscope-backend/internal/types"
  "github.com/learnscope/learnscope-backend/internal/utils"
)

type PostgresService struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
  serviceLog := log.With("service", "PostgresService")

  log.Info("Loading environment variables...")
  postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
  postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
  postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
  postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
  postgresName := utils.GetEnv("POSTGRES_NAME", "learnscope", log)
  log.Debug("Environment variables loaded")

  dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

  log.Info("Connecting to Postgres...")
  db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
    DisableForeignKeyConstraintWhenMigrating: true,
  })
  if err != nil {
    log.Error("Failed to connect to Postgres", "error", err)
    return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
  }

  return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
  return AutoMigrate(s.db, s.log)
}

func (s *PostgresService) DB() *gorm.DB {
  return s.db
}

// AutoMigrate is shared with the sqlite-backed test database.
func AutoMigrate(db *gorm.DB, log *logger.Logger) error {
  log.Info("Auto migrating tables...")
  err := db.AutoMigrate(
    &types.User{},
    &types.Topic{},
    &types.SurveyResponse{},
    &types.PersonalityQuestion{},
    &types.AICallLog{},
  )
  if err != nil {
    log.Error("Auto migration failed", "error", err)
    return err
  }
  return nil
}

package service

import (
	"testing"

	"agent-studio/backend/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database with the full schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps the in-memory database alive and shared
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, db.AutoMigrate(
		&models.Agent{},
		&models.Conversation{},
		&models.Message{},
		&models.APIKey{},
	))

	return db
}

// newTestAgent persists an agent with sane defaults for use in tests
func newTestAgent(t *testing.T, db *gorm.DB) *models.Agent {
	t.Helper()

	agent, err := NewAgentService(db).CreateAgent(&models.CreateAgentRequest{
		Name:              "Helper",
		SystemInstruction: "You are a helpful assistant.",
	})
	require.NoError(t, err)
	return agent
}

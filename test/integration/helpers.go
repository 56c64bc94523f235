//go:build integration
// +build integration

package integration

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/adjovi/telegrid/internal/db"
	"github.com/adjovi/telegrid/internal/models"
)

// setupTestDB creates an in-memory test database with migrations applied
func setupTestDB(t *testing.T) (*db.DB, *db.Repositories, func()) {
	t.Helper()

	database, err := db.New(":memory:")
	require.NoError(t, err, "Failed to create in-memory database")

	sqlDB, err := database.GetSQLDB()
	require.NoError(t, err, "Failed to get SQL DB")

	// Get absolute path to migrations directory relative to this file
	// This ensures tests work regardless of working directory
	_, filename, _, ok := runtime.Caller(0)
	require.True(t, ok, "Failed to get current file path")

	testDir := filepath.Dir(filename)                     // test/integration
	rootDir := filepath.Dir(filepath.Dir(testDir))        // repo root
	migrationsPath := "file://" + filepath.Join(rootDir, "migrations")

	err = db.RunMigrations(sqlDB, migrationsPath)
	require.NoError(t, err, "Failed to run migrations")

	repos := db.NewRepositories(database)

	cleanup := func() {
		database.Close()
	}

	return database, repos, cleanup
}

// createTestChannel creates a channel directly in the database for testing
func createTestChannel(t *testing.T, repos *db.Repositories, name string, displayOrder int) *models.Channel {
	t.Helper()

	ch := models.NewChannel(name, displayOrder)
	err := repos.Channels.Create(context.Background(), ch)
	require.NoError(t, err, "Failed to create test channel")

	return ch
}

// createTestProgram creates a program directly in the database for testing
func createTestProgram(t *testing.T, repos *db.Repositories, title string, start, end time.Time, channelID *uuid.UUID) *models.Program {
	t.Helper()

	now := time.Now().UTC()
	prog := &models.Program{
		ID:        uuid.New(),
		Title:     title,
		Type:      "show",
		StartTime: start,
		EndTime:   end,
		ChannelID: channelID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	prog.RecomputeDuration()

	err := repos.Programs.Create(context.Background(), prog)
	require.NoError(t, err, "Failed to create test program")

	return prog
}

package notifier

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adjovi/telegrid/internal/db"
	"github.com/adjovi/telegrid/internal/models"
	"github.com/adjovi/telegrid/internal/reminder"
)

// recordingSender captures sent reminders and optionally fails specific IDs
type recordingSender struct {
	sent    []uuid.UUID
	failIDs map[uuid.UUID]bool
}

func (s *recordingSender) Send(_ context.Context, rem *models.Reminder) error {
	if s.failIDs[rem.ID] {
		return errors.New("transport unavailable")
	}
	s.sent = append(s.sent, rem.ID)
	return nil
}

func setupTestWorker(t *testing.T, sender Sender) (*Worker, *reminder.Service, *db.Repositories, func()) {
	tmpFile := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(tmpFile)
	require.NoError(t, err)

	sqlDB, err := database.GetSQLDB()
	require.NoError(t, err)

	migrationsPath := "file://../../migrations"
	err = db.RunMigrations(sqlDB, migrationsPath)
	require.NoError(t, err)

	repos := db.NewRepositories(database)
	reminderService := reminder.NewService(repos)
	worker := NewWorker(reminderService, sender, "@every 30s")

	cleanup := func() {
		_ = database.Close()
	}

	return worker, reminderService, repos, cleanup
}

func seedReminder(t *testing.T, repos *db.Repositories, service *reminder.Service, userID string, programStart time.Time) *models.Reminder {
	t.Helper()

	ctx := context.Background()
	now := time.Now().UTC()
	p := &models.Program{
		ID:        uuid.New(),
		Title:     "Seeded Show",
		Type:      "show",
		StartTime: programStart,
		EndTime:   programStart.Add(time.Hour),
		CreatedAt: now,
		UpdatedAt: now,
	}
	p.RecomputeDuration()
	require.NoError(t, repos.Programs.Create(ctx, p))

	rem, err := service.Create(ctx, userID, p.ID, 15, models.ReminderTypePush)
	require.NoError(t, err)
	return rem
}

func TestDeliverDue_SendsAndMarksSent(t *testing.T) {
	sender := &recordingSender{}
	worker, service, repos, cleanup := setupTestWorker(t, sender)
	defer cleanup()

	ctx := context.Background()
	now := time.Now().UTC()

	due := seedReminder(t, repos, service, "alice", now.Add(10*time.Minute))
	notDue := seedReminder(t, repos, service, "bob", now.Add(6*time.Hour))

	worker.DeliverDue(ctx, now)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, due.ID, sender.sent[0])

	delivered, err := service.Get(ctx, "alice", due.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReminderStatusSent, delivered.Status)
	require.NotNil(t, delivered.SentAt)

	untouched, err := service.Get(ctx, "bob", notDue.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReminderStatusScheduled, untouched.Status)
}

func TestDeliverDue_FailureMarksFailedAndContinues(t *testing.T) {
	now := time.Now().UTC()

	sender := &recordingSender{failIDs: make(map[uuid.UUID]bool)}
	worker, service, repos, cleanup := setupTestWorker(t, sender)
	defer cleanup()

	ctx := context.Background()

	failing := seedReminder(t, repos, service, "alice", now.Add(5*time.Minute))
	sender.failIDs[failing.ID] = true
	healthy := seedReminder(t, repos, service, "bob", now.Add(10*time.Minute))

	worker.DeliverDue(ctx, now)

	// The failing reminder does not stop delivery of the rest of the batch
	require.Len(t, sender.sent, 1)
	assert.Equal(t, healthy.ID, sender.sent[0])

	failed, err := service.Get(ctx, "alice", failing.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReminderStatusFailed, failed.Status)
	assert.Nil(t, failed.SentAt)
}

func TestDeliverDue_SecondPassIsEmpty(t *testing.T) {
	sender := &recordingSender{}
	worker, service, repos, cleanup := setupTestWorker(t, sender)
	defer cleanup()

	ctx := context.Background()
	now := time.Now().UTC()

	seedReminder(t, repos, service, "alice", now.Add(10*time.Minute))

	worker.DeliverDue(ctx, now)
	worker.DeliverDue(ctx, now)

	assert.Len(t, sender.sent, 1)
}

func TestDeliverDue_SkipsCancelled(t *testing.T) {
	sender := &recordingSender{}
	worker, service, repos, cleanup := setupTestWorker(t, sender)
	defer cleanup()

	ctx := context.Background()
	now := time.Now().UTC()

	rem := seedReminder(t, repos, service, "alice", now.Add(10*time.Minute))
	_, err := service.Cancel(ctx, "alice", rem.ID)
	require.NoError(t, err)

	worker.DeliverDue(ctx, now)

	assert.Empty(t, sender.sent)
}

func TestWorker_StartRejectsInvalidSchedule(t *testing.T) {
	worker, _, _, cleanup := setupTestWorker(t, &recordingSender{})
	defer cleanup()

	worker.schedule = "not a schedule"
	err := worker.Start()

	assert.Error(t, err)
}

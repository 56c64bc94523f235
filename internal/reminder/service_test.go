package reminder

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adjovi/telegrid/internal/db"
	"github.com/adjovi/telegrid/internal/models"
)

// setupTestService creates a service with a test database
func setupTestService(t *testing.T) (*Service, *db.Repositories, func()) {
	tmpFile := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(tmpFile)
	require.NoError(t, err)

	sqlDB, err := database.GetSQLDB()
	require.NoError(t, err)

	migrationsPath := "file://../../migrations"
	err = db.RunMigrations(sqlDB, migrationsPath)
	require.NoError(t, err)

	repos := db.NewRepositories(database)
	service := NewService(repos)

	cleanup := func() {
		_ = database.Close()
	}

	return service, repos, cleanup
}

// seedProgram inserts a program the reminder can point at
func seedProgram(t *testing.T, repos *db.Repositories, title string, start time.Time, channelID *uuid.UUID) *models.Program {
	t.Helper()

	now := time.Now().UTC()
	p := &models.Program{
		ID:        uuid.New(),
		Title:     title,
		Type:      "show",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		ChannelID: channelID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	p.RecomputeDuration()

	require.NoError(t, repos.Programs.Create(context.Background(), p))
	return p
}

func TestCreateReminder_Success(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	ch := models.NewChannel("Canal Un", 1)
	require.NoError(t, repos.Channels.Create(ctx, ch))

	start := time.Date(2026, 9, 7, 19, 30, 0, 0, time.UTC)
	prog := seedProgram(t, repos, "Prime Show", start, &ch.ID)

	rem, err := service.Create(ctx, "alice", prog.ID, 15, models.ReminderTypePush)

	require.NoError(t, err)
	assert.Equal(t, "alice", rem.UserID)
	assert.Equal(t, models.ReminderStatusScheduled, rem.Status)
	assert.True(t, rem.ScheduledFor.Equal(start.Add(-15*time.Minute)))
	assert.Equal(t, "Prime Show", rem.ProgramTitle)
	assert.True(t, rem.ProgramStartTime.Equal(start))
	require.NotNil(t, rem.ChannelName)
	assert.Equal(t, "Canal Un", *rem.ChannelName)
}

func TestCreateReminder_DefaultsTypeWhenEmpty(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	prog := seedProgram(t, repos, "Prime Show", time.Now().UTC().Add(2*time.Hour), nil)

	rem, err := service.Create(ctx, "alice", prog.ID, 15, "")

	require.NoError(t, err)
	assert.Equal(t, models.ReminderTypePush, rem.ReminderType)
	assert.Nil(t, rem.ChannelName)
}

func TestCreateReminder_InvalidMinutesBefore(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	prog := seedProgram(t, repos, "Prime Show", time.Now().UTC().Add(2*time.Hour), nil)

	_, err := service.Create(ctx, "alice", prog.ID, 0, models.ReminderTypePush)
	assert.True(t, IsInvalidMinutesBefore(err))

	_, err = service.Create(ctx, "alice", prog.ID, 1441, models.ReminderTypePush)
	assert.True(t, IsInvalidMinutesBefore(err))
}

func TestCreateReminder_InvalidType(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	prog := seedProgram(t, repos, "Prime Show", time.Now().UTC().Add(2*time.Hour), nil)

	_, err := service.Create(ctx, "alice", prog.ID, 15, "carrier_pigeon")

	assert.True(t, IsInvalidReminderType(err))
}

func TestCreateReminder_ProgramNotFound(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.Create(context.Background(), "alice", uuid.New(), 15, models.ReminderTypePush)

	assert.True(t, IsProgramNotFound(err))
}

func TestCreateReminder_IdempotentWhileScheduled(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	prog := seedProgram(t, repos, "Prime Show", time.Now().UTC().Add(2*time.Hour), nil)

	first, err := service.Create(ctx, "alice", prog.ID, 15, models.ReminderTypePush)
	require.NoError(t, err)

	// Second create for the same pair returns the existing reminder unchanged
	second, err := service.Create(ctx, "alice", prog.ID, 45, models.ReminderTypeEmail)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 15, second.MinutesBefore)
}

func TestCreateReminder_NewReminderAfterCancel(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	prog := seedProgram(t, repos, "Prime Show", time.Now().UTC().Add(2*time.Hour), nil)

	first, err := service.Create(ctx, "alice", prog.ID, 15, models.ReminderTypePush)
	require.NoError(t, err)

	_, err = service.Cancel(ctx, "alice", first.ID)
	require.NoError(t, err)

	// A cancelled reminder no longer blocks a fresh one for the same program
	second, err := service.Create(ctx, "alice", prog.ID, 30, models.ReminderTypePush)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 30, second.MinutesBefore)
}

func TestCreateReminder_PerUserScope(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	prog := seedProgram(t, repos, "Prime Show", time.Now().UTC().Add(2*time.Hour), nil)

	aliceRem, err := service.Create(ctx, "alice", prog.ID, 15, models.ReminderTypePush)
	require.NoError(t, err)
	bobRem, err := service.Create(ctx, "bob", prog.ID, 15, models.ReminderTypePush)
	require.NoError(t, err)

	assert.NotEqual(t, aliceRem.ID, bobRem.ID)
}

func TestUpdateReminder_RecomputesFromCurrentProgramStart(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	start := time.Date(2026, 9, 7, 19, 30, 0, 0, time.UTC)
	prog := seedProgram(t, repos, "Prime Show", start, nil)

	rem, err := service.Create(ctx, "alice", prog.ID, 15, models.ReminderTypePush)
	require.NoError(t, err)
	require.True(t, rem.ScheduledFor.Equal(start.Add(-15*time.Minute)))

	// Program moves an hour later after the reminder was created. The stored
	// fire time stays stale until the reminder itself is touched.
	newStart := start.Add(time.Hour)
	prog.StartTime = newStart
	prog.EndTime = newStart.Add(time.Hour)
	require.NoError(t, repos.Programs.Update(ctx, prog))

	stale, err := service.Get(ctx, "alice", rem.ID)
	require.NoError(t, err)
	assert.True(t, stale.ScheduledFor.Equal(start.Add(-15*time.Minute)))

	// Changing the lead time recomputes against the moved start
	minutes := 30
	updated, err := service.Update(ctx, "alice", rem.ID, UpdateParams{MinutesBefore: &minutes})
	require.NoError(t, err)
	assert.True(t, updated.ScheduledFor.Equal(newStart.Add(-30*time.Minute)))
}

func TestUpdateReminder_ProgramGoneKeepsStoredFireTime(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	start := time.Date(2026, 9, 7, 19, 30, 0, 0, time.UTC)
	prog := seedProgram(t, repos, "Prime Show", start, nil)

	rem, err := service.Create(ctx, "alice", prog.ID, 15, models.ReminderTypePush)
	require.NoError(t, err)

	require.NoError(t, repos.Programs.Delete(ctx, prog.ID))

	minutes := 30
	updated, err := service.Update(ctx, "alice", rem.ID, UpdateParams{MinutesBefore: &minutes})

	require.NoError(t, err)
	assert.Equal(t, 30, updated.MinutesBefore)
	assert.True(t, updated.ScheduledFor.Equal(rem.ScheduledFor))
	assert.Equal(t, "Prime Show", updated.ProgramTitle)
}

func TestUpdateReminder_OtherUserSeesNotFound(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	prog := seedProgram(t, repos, "Prime Show", time.Now().UTC().Add(2*time.Hour), nil)

	rem, err := service.Create(ctx, "alice", prog.ID, 15, models.ReminderTypePush)
	require.NoError(t, err)

	minutes := 30
	_, err = service.Update(ctx, "mallory", rem.ID, UpdateParams{MinutesBefore: &minutes})

	assert.True(t, IsReminderNotFound(err))
}

func TestCancelReminder_IdempotentOnCancelled(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	prog := seedProgram(t, repos, "Prime Show", time.Now().UTC().Add(2*time.Hour), nil)

	rem, err := service.Create(ctx, "alice", prog.ID, 15, models.ReminderTypePush)
	require.NoError(t, err)

	first, err := service.Cancel(ctx, "alice", rem.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReminderStatusCancelled, first.Status)

	second, err := service.Cancel(ctx, "alice", rem.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReminderStatusCancelled, second.Status)
}

func TestCancelReminder_SentRefuses(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	prog := seedProgram(t, repos, "Prime Show", time.Now().UTC().Add(2*time.Hour), nil)

	rem, err := service.Create(ctx, "alice", prog.ID, 15, models.ReminderTypePush)
	require.NoError(t, err)

	require.NoError(t, service.MarkSent(ctx, rem.ID, time.Now().UTC()))

	_, err = service.Cancel(ctx, "alice", rem.ID)

	assert.True(t, IsInvalidStatusTransition(err))
}

func TestListForUser_StatusAndUpcomingFilters(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now().UTC()

	past := seedProgram(t, repos, "Already Aired", now.Add(-2*time.Hour), nil)
	future := seedProgram(t, repos, "Tonight", now.Add(3*time.Hour), nil)

	pastRem, err := service.Create(ctx, "alice", past.ID, 15, models.ReminderTypePush)
	require.NoError(t, err)
	futureRem, err := service.Create(ctx, "alice", future.ID, 15, models.ReminderTypePush)
	require.NoError(t, err)

	all, err := service.ListForUser(ctx, "alice", nil, false, now)
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Ascending by fire time
	assert.Equal(t, pastRem.ID, all[0].ID)
	assert.Equal(t, futureRem.ID, all[1].ID)

	upcoming, err := service.ListForUser(ctx, "alice", nil, true, now)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, futureRem.ID, upcoming[0].ID)

	cancelled := models.ReminderStatusCancelled
	none, err := service.ListForUser(ctx, "alice", &cancelled, false, now)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDueForDelivery_AndDeliveryTransitions(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now().UTC()

	due := seedProgram(t, repos, "Starting Soon", now.Add(10*time.Minute), nil)
	later := seedProgram(t, repos, "Tonight", now.Add(6*time.Hour), nil)

	dueRem, err := service.Create(ctx, "alice", due.ID, 15, models.ReminderTypePush)
	require.NoError(t, err)
	_, err = service.Create(ctx, "alice", later.ID, 15, models.ReminderTypePush)
	require.NoError(t, err)

	dueList, err := service.DueForDelivery(ctx, now)
	require.NoError(t, err)
	require.Len(t, dueList, 1)
	assert.Equal(t, dueRem.ID, dueList[0].ID)

	sentAt := now
	require.NoError(t, service.MarkSent(ctx, dueRem.ID, sentAt))

	sent, err := service.Get(ctx, "alice", dueRem.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReminderStatusSent, sent.Status)
	require.NotNil(t, sent.SentAt)
	assert.True(t, sent.SentAt.Equal(sentAt))

	// A delivered reminder never comes back as due
	dueList, err = service.DueForDelivery(ctx, now)
	require.NoError(t, err)
	assert.Empty(t, dueList)

	// Finishing twice is an invalid transition
	err = service.MarkFailed(ctx, dueRem.ID)
	assert.True(t, IsInvalidStatusTransition(err))
}

func TestDeleteReminder(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	prog := seedProgram(t, repos, "Prime Show", time.Now().UTC().Add(2*time.Hour), nil)

	rem, err := service.Create(ctx, "alice", prog.ID, 15, models.ReminderTypePush)
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, "alice", rem.ID))

	_, err = service.Get(ctx, "alice", rem.ID)
	assert.True(t, IsReminderNotFound(err))
}

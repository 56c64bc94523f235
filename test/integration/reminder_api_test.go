//go:build integration
// +build integration

package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adjovi/telegrid/internal/api"
	"github.com/adjovi/telegrid/internal/models"
	"github.com/adjovi/telegrid/internal/reminder"
)

func TestReminderAPI(t *testing.T) {
	_, repos, cleanup := setupTestDB(t)
	defer cleanup()

	reminderService := reminder.NewService(repos)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	apiGroup := router.Group("/api")
	api.SetupReminderRoutes(apiGroup, reminderService)

	ch := createTestChannel(t, repos, "Canal Un", 1)
	start := time.Now().UTC().Add(2 * time.Hour).Truncate(time.Second)
	prog := createTestProgram(t, repos, "Prime Time Show", start, start.Add(time.Hour), &ch.ID)

	doJSON := func(method, path, userID string, payload interface{}) *httptest.ResponseRecorder {
		var body *bytes.Buffer
		if payload != nil {
			raw, err := json.Marshal(payload)
			require.NoError(t, err)
			body = bytes.NewBuffer(raw)
		} else {
			body = bytes.NewBuffer(nil)
		}

		req := httptest.NewRequest(method, path, body)
		req.Header.Set("Content-Type", "application/json")
		if userID != "" {
			req.Header.Set("X-User-ID", userID)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("CreateReminder_RequiresIdentity", func(t *testing.T) {
		w := doJSON(http.MethodPost, "/api/reminders", "", map[string]interface{}{
			"program_id": prog.ID.String(),
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("CreateReminder_Success", func(t *testing.T) {
		w := doJSON(http.MethodPost, "/api/reminders", "alice", map[string]interface{}{
			"program_id":     prog.ID.String(),
			"minutes_before": 30,
		})

		assert.Equal(t, http.StatusCreated, w.Code)

		var created models.Reminder
		err := json.Unmarshal(w.Body.Bytes(), &created)
		require.NoError(t, err)

		assert.Equal(t, "alice", created.UserID)
		assert.Equal(t, models.ReminderStatusScheduled, created.Status)
		assert.True(t, created.ScheduledFor.Equal(start.Add(-30*time.Minute)))
		assert.Equal(t, "Prime Time Show", created.ProgramTitle)
	})

	t.Run("CreateReminder_IdempotentPerProgram", func(t *testing.T) {
		first := doJSON(http.MethodPost, "/api/reminders", "bob", map[string]interface{}{
			"program_id": prog.ID.String(),
		})
		require.Equal(t, http.StatusCreated, first.Code)

		var firstRem models.Reminder
		require.NoError(t, json.Unmarshal(first.Body.Bytes(), &firstRem))

		second := doJSON(http.MethodPost, "/api/reminders", "bob", map[string]interface{}{
			"program_id":     prog.ID.String(),
			"minutes_before": 45,
		})
		require.Equal(t, http.StatusCreated, second.Code)

		var secondRem models.Reminder
		require.NoError(t, json.Unmarshal(second.Body.Bytes(), &secondRem))

		assert.Equal(t, firstRem.ID, secondRem.ID)
	})

	t.Run("ListReminders_ScopedToCaller", func(t *testing.T) {
		w := doJSON(http.MethodGet, "/api/reminders", "alice", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var reminders []models.Reminder
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reminders))

		for _, r := range reminders {
			assert.Equal(t, "alice", r.UserID)
		}
	})

	t.Run("GetReminder_OtherUserSeesNotFound", func(t *testing.T) {
		created := doJSON(http.MethodPost, "/api/reminders", "carol", map[string]interface{}{
			"program_id": prog.ID.String(),
		})
		require.Equal(t, http.StatusCreated, created.Code)

		var rem models.Reminder
		require.NoError(t, json.Unmarshal(created.Body.Bytes(), &rem))

		w := doJSON(http.MethodGet, "/api/reminders/"+rem.ID.String(), "mallory", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("UpdateReminder_RecomputesFireTime", func(t *testing.T) {
		created := doJSON(http.MethodPost, "/api/reminders", "dave", map[string]interface{}{
			"program_id":     prog.ID.String(),
			"minutes_before": 15,
		})
		require.Equal(t, http.StatusCreated, created.Code)

		var rem models.Reminder
		require.NoError(t, json.Unmarshal(created.Body.Bytes(), &rem))

		w := doJSON(http.MethodPatch, "/api/reminders/"+rem.ID.String(), "dave", map[string]interface{}{
			"minutes_before": 60,
		})
		assert.Equal(t, http.StatusOK, w.Code)

		var updated models.Reminder
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))

		assert.Equal(t, 60, updated.MinutesBefore)
		assert.True(t, updated.ScheduledFor.Equal(start.Add(-60*time.Minute)))
	})

	t.Run("CancelReminder_ThenCancelAgainIsNoOp", func(t *testing.T) {
		created := doJSON(http.MethodPost, "/api/reminders", "erin", map[string]interface{}{
			"program_id": prog.ID.String(),
		})
		require.Equal(t, http.StatusCreated, created.Code)

		var rem models.Reminder
		require.NoError(t, json.Unmarshal(created.Body.Bytes(), &rem))

		first := doJSON(http.MethodPost, "/api/reminders/"+rem.ID.String()+"/cancel", "erin", nil)
		assert.Equal(t, http.StatusOK, first.Code)

		second := doJSON(http.MethodPost, "/api/reminders/"+rem.ID.String()+"/cancel", "erin", nil)
		assert.Equal(t, http.StatusOK, second.Code)

		var cancelled models.Reminder
		require.NoError(t, json.Unmarshal(second.Body.Bytes(), &cancelled))
		assert.Equal(t, models.ReminderStatusCancelled, cancelled.Status)
	})

	t.Run("DeleteReminder_Success", func(t *testing.T) {
		created := doJSON(http.MethodPost, "/api/reminders", "frank", map[string]interface{}{
			"program_id": prog.ID.String(),
		})
		require.Equal(t, http.StatusCreated, created.Code)

		var rem models.Reminder
		require.NoError(t, json.Unmarshal(created.Body.Bytes(), &rem))

		w := doJSON(http.MethodDelete, "/api/reminders/"+rem.ID.String(), "frank", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		gone := doJSON(http.MethodGet, "/api/reminders/"+rem.ID.String(), "frank", nil)
		assert.Equal(t, http.StatusNotFound, gone.Code)
	})
}

//go:build integration
// +build integration

package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adjovi/telegrid/internal/api"
	"github.com/adjovi/telegrid/internal/guide"
)

func TestGuideAPI(t *testing.T) {
	_, repos, cleanup := setupTestDB(t)
	defer cleanup()

	guideService := guide.NewService(repos, time.UTC)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	apiGroup := router.Group("/api")
	api.SetupGuideRoutes(apiGroup, guideService)

	ch := createTestChannel(t, repos, "Canal Un", 1)

	now := time.Now().UTC()
	live := createTestProgram(t, repos, "Midday News", now.Add(-30*time.Minute), now.Add(30*time.Minute), &ch.ID)
	createTestProgram(t, repos, "Evening Film", now.Add(3*time.Hour), now.Add(5*time.Hour), &ch.ID)
	createTestProgram(t, repos, "Soon Quiz", now.Add(20*time.Minute), now.Add(80*time.Minute), &ch.ID)

	t.Run("GetLive_ReturnsAiringPrograms", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/guide/live", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response api.LiveResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		require.NoError(t, err)

		require.Equal(t, 1, response.Count)
		assert.Equal(t, live.ID, response.Programs[0].ID)
	})

	t.Run("GetUpcoming_RespectsWindow", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/guide/upcoming?minutes_ahead=60", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response api.LiveResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		require.NoError(t, err)

		// Only the quiz starts within the next hour
		require.Equal(t, 1, response.Count)
		assert.Equal(t, "Soon Quiz", response.Programs[0].Title)
	})

	t.Run("GetUpcoming_RejectsBadMinutes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/guide/upcoming?minutes_ahead=zero", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("GetWeek_GroupsByDay", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/guide/week", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response guide.WeekGrid
		err := json.Unmarshal(w.Body.Bytes(), &response)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, response.TotalCount, 1)
		for _, day := range response.Days {
			assert.NotEmpty(t, day.DayName)
			assert.NotEmpty(t, day.Programs)
		}
	})

	t.Run("GetGrid_FiltersByChannel", func(t *testing.T) {
		other := createTestChannel(t, repos, "Canal Deux", 2)
		createTestProgram(t, repos, "Other Channel Show", now.Add(time.Hour), now.Add(2*time.Hour), &other.ID)

		req := httptest.NewRequest(http.MethodGet, "/api/guide/grid?channel_id="+other.ID.String(), nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response guide.Grid
		err := json.Unmarshal(w.Body.Bytes(), &response)
		require.NoError(t, err)

		require.Equal(t, 1, response.TotalPrograms)
	})
}

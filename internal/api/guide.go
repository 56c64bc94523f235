package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/adjovi/telegrid/internal/guide"
	"github.com/adjovi/telegrid/internal/logger"
	"github.com/adjovi/telegrid/internal/models"
)

const (
	defaultUpcomingMinutes = 60
	defaultUpcomingLimit   = 10
)

// LiveResponse represents the currently airing programs
type LiveResponse struct {
	Programs []*models.Program `json:"programs"`
	Count    int               `json:"count"`
	Now      time.Time         `json:"now"`
}

// GuideHandler handles guide grid and temporal query API requests
type GuideHandler struct {
	guideService *guide.Service
}

// NewGuideHandler creates a new guide handler instance
func NewGuideHandler(guideService *guide.Service) *GuideHandler {
	return &GuideHandler{
		guideService: guideService,
	}
}

// GetWeek handles GET /api/guide/week
func (h *GuideHandler) GetWeek(c *gin.Context) {
	weeksAhead := 0
	if v := c.Query("weeks_ahead"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			badRequest(c, "Invalid weeks_ahead, expected an integer")
			return
		}
		weeksAhead = parsed
	}

	var programType *string
	if v := c.Query("type"); v != "" {
		programType = &v
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	week, err := h.guideService.Week(ctx, time.Now().UTC(), weeksAhead, programType)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Int("weeks_ahead", weeksAhead).
			Msg("Failed to build weekly guide")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to build weekly guide",
		})
		return
	}

	c.JSON(http.StatusOK, week)
}

// GetGrid handles GET /api/guide/grid
func (h *GuideHandler) GetGrid(c *gin.Context) {
	var start, end *time.Time
	if v := c.Query("start_date"); v != "" {
		t, ok := parseDateOrTime(c, v, "start_date")
		if !ok {
			return
		}
		start = &t
	}
	if v := c.Query("end_date"); v != "" {
		t, ok := parseDateOrTime(c, v, "end_date")
		if !ok {
			return
		}
		end = &t
	}

	var programType *string
	if v := c.Query("type"); v != "" {
		programType = &v
	}
	var channelID *uuid.UUID
	if v := c.Query("channel_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			badRequest(c, "Invalid channel_id format")
			return
		}
		channelID = &id
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	grid, err := h.guideService.GridRange(ctx, time.Now().UTC(), start, end, programType, channelID)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Failed to build guide grid")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to build guide grid",
		})
		return
	}

	c.JSON(http.StatusOK, grid)
}

// GetLive handles GET /api/guide/live
func (h *GuideHandler) GetLive(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	programs, err := h.guideService.CurrentlyLive(ctx, now)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Failed to query live programs")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to retrieve live programs",
		})
		return
	}

	c.JSON(http.StatusOK, LiveResponse{
		Programs: programs,
		Count:    len(programs),
		Now:      now,
	})
}

// GetUpcoming handles GET /api/guide/upcoming
func (h *GuideHandler) GetUpcoming(c *gin.Context) {
	minutesAhead := defaultUpcomingMinutes
	if v := c.Query("minutes_ahead"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			badRequest(c, "Invalid minutes_ahead, expected a positive integer")
			return
		}
		minutesAhead = parsed
	}

	limit := defaultUpcomingLimit
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			badRequest(c, "Invalid limit, expected a positive integer")
			return
		}
		limit = parsed
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	programs, err := h.guideService.Upcoming(ctx, now, minutesAhead, limit)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Int("minutes_ahead", minutesAhead).
			Msg("Failed to query upcoming programs")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to retrieve upcoming programs",
		})
		return
	}

	c.JSON(http.StatusOK, LiveResponse{
		Programs: programs,
		Count:    len(programs),
		Now:      now,
	})
}

// SetupGuideRoutes registers guide grid and temporal query routes
func SetupGuideRoutes(apiGroup *gin.RouterGroup, guideService *guide.Service) {
	handler := NewGuideHandler(guideService)

	apiGroup.GET("/guide/week", handler.GetWeek)
	apiGroup.GET("/guide/grid", handler.GetGrid)
	apiGroup.GET("/guide/live", handler.GetLive)
	apiGroup.GET("/guide/upcoming", handler.GetUpcoming)
}

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/adjovi/telegrid/internal/db"
	"github.com/adjovi/telegrid/internal/logger"
	"github.com/adjovi/telegrid/internal/models"
	"github.com/adjovi/telegrid/internal/program"
)

// Request/Response DTOs

// CreateProgramRequest represents a request to create a new program
type CreateProgramRequest struct {
	Title        string     `json:"title" binding:"required"`
	Description  *string    `json:"description,omitempty"`
	Type         string     `json:"type" binding:"required"`
	Category     *string    `json:"category,omitempty"`
	StartTime    *time.Time `json:"start_time" binding:"required"`
	EndTime      *time.Time `json:"end_time" binding:"required"`
	ImageURL     *string    `json:"image_url,omitempty"`
	ThumbnailURL *string    `json:"thumbnail_url,omitempty"`
	Host         *string    `json:"host,omitempty"`
	Guests       []string   `json:"guests,omitempty"`
	HasReplay    bool       `json:"has_replay"`
	ReplayURL    *string    `json:"replay_url,omitempty"`
	ChannelID    *string    `json:"channel_id,omitempty"`
	ShowID       *string    `json:"show_id,omitempty"`
	Rating       *string    `json:"rating,omitempty"`
}

// UpdateProgramRequest represents a partial program update
type UpdateProgramRequest struct {
	Title        *string    `json:"title,omitempty"`
	Description  *string    `json:"description,omitempty"`
	Type         *string    `json:"type,omitempty"`
	Category     *string    `json:"category,omitempty"`
	StartTime    *time.Time `json:"start_time,omitempty"`
	EndTime      *time.Time `json:"end_time,omitempty"`
	ImageURL     *string    `json:"image_url,omitempty"`
	ThumbnailURL *string    `json:"thumbnail_url,omitempty"`
	Host         *string    `json:"host,omitempty"`
	Guests       []string   `json:"guests,omitempty"`
	HasReplay    *bool      `json:"has_replay,omitempty"`
	ReplayURL    *string    `json:"replay_url,omitempty"`
	ChannelID    *string    `json:"channel_id,omitempty"`
	ShowID       *string    `json:"show_id,omitempty"`
	Rating       *string    `json:"rating,omitempty"`
}

// MarkLiveRequest flips the live flag of a program
type MarkLiveRequest struct {
	IsLive *bool `json:"is_live" binding:"required"`
}

// ProgramListResponse represents a list of programs
type ProgramListResponse struct {
	Programs []*models.Program `json:"programs"`
	Count    int               `json:"count"`
}

// ProgramHandler handles program catalog API requests
type ProgramHandler struct {
	programService *program.Service
}

// NewProgramHandler creates a new program handler instance
func NewProgramHandler(programService *program.Service) *ProgramHandler {
	return &ProgramHandler{
		programService: programService,
	}
}

// CreateProgram handles POST /api/programs
func (h *ProgramHandler) CreateProgram(c *gin.Context) {
	var req CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	channelID, ok := parseOptionalUUID(c, req.ChannelID, "channel_id")
	if !ok {
		return
	}
	showID, ok := parseOptionalUUID(c, req.ShowID, "show_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	p, err := h.programService.Create(ctx, program.CreateParams{
		Title:        req.Title,
		Description:  req.Description,
		Type:         req.Type,
		Category:     req.Category,
		StartTime:    *req.StartTime,
		EndTime:      *req.EndTime,
		ImageURL:     req.ImageURL,
		ThumbnailURL: req.ThumbnailURL,
		Host:         req.Host,
		Guests:       req.Guests,
		HasReplay:    req.HasReplay,
		ReplayURL:    req.ReplayURL,
		ChannelID:    channelID,
		ShowID:       showID,
		Rating:       req.Rating,
	})
	if err != nil {
		if errors.Is(err, program.ErrInvalidTimeRange) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_time_range",
				Message: "End time must be after start time",
			})
			return
		}

		logger.Log.Error().
			Err(err).
			Str("title", req.Title).
			Msg("Failed to create program")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "create_failed",
			Message: "Failed to create program",
		})
		return
	}

	c.JSON(http.StatusCreated, p)
}

// ListPrograms handles GET /api/programs
func (h *ProgramHandler) ListPrograms(c *gin.Context) {
	filters, ok := h.parseFilters(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	programs, err := h.programService.List(ctx, filters)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Failed to list programs")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to retrieve program list",
		})
		return
	}

	c.JSON(http.StatusOK, ProgramListResponse{
		Programs: programs,
		Count:    len(programs),
	})
}

// GetProgram handles GET /api/programs/:id
func (h *ProgramHandler) GetProgram(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	p, err := h.programService.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, program.ErrProgramNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Program not found",
			})
			return
		}

		logger.Log.Error().
			Err(err).
			Str("program_id", id.String()).
			Msg("Failed to get program by ID")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to retrieve program",
		})
		return
	}

	c.JSON(http.StatusOK, p)
}

// UpdateProgram handles PUT /api/programs/:id
func (h *ProgramHandler) UpdateProgram(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return
	}

	channelID, ok := parseOptionalUUID(c, req.ChannelID, "channel_id")
	if !ok {
		return
	}
	showID, ok := parseOptionalUUID(c, req.ShowID, "show_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	p, err := h.programService.Update(ctx, id, program.UpdateParams{
		Title:        req.Title,
		Description:  req.Description,
		Type:         req.Type,
		Category:     req.Category,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		ImageURL:     req.ImageURL,
		ThumbnailURL: req.ThumbnailURL,
		Host:         req.Host,
		Guests:       req.Guests,
		HasReplay:    req.HasReplay,
		ReplayURL:    req.ReplayURL,
		ChannelID:    channelID,
		ShowID:       showID,
		Rating:       req.Rating,
	})
	if err != nil {
		if errors.Is(err, program.ErrProgramNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Program not found",
			})
			return
		}
		if errors.Is(err, program.ErrInvalidTimeRange) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_time_range",
				Message: "End time must be after start time",
			})
			return
		}

		logger.Log.Error().
			Err(err).
			Str("program_id", id.String()).
			Msg("Failed to update program")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "update_failed",
			Message: "Failed to update program",
		})
		return
	}

	c.JSON(http.StatusOK, p)
}

// MarkLive handles PATCH /api/programs/:id/live
func (h *ProgramHandler) MarkLive(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req MarkLiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: is_live is required",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	p, err := h.programService.MarkLive(ctx, id, *req.IsLive)
	if err != nil {
		if errors.Is(err, program.ErrProgramNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Program not found",
			})
			return
		}

		logger.Log.Error().
			Err(err).
			Str("program_id", id.String()).
			Msg("Failed to mark program live")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "update_failed",
			Message: "Failed to update live flag",
		})
		return
	}

	c.JSON(http.StatusOK, p)
}

// DeleteProgram handles DELETE /api/programs/:id
func (h *ProgramHandler) DeleteProgram(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.programService.Delete(ctx, id); err != nil {
		if errors.Is(err, program.ErrProgramNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Program not found",
			})
			return
		}

		logger.Log.Error().
			Err(err).
			Str("program_id", id.String()).
			Msg("Failed to delete program")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "delete_failed",
			Message: "Failed to delete program",
		})
		return
	}

	c.JSON(http.StatusOK, DeleteResponse{
		Message: "Program deleted successfully",
	})
}

// parseFilters builds the typed filter struct from query parameters
func (h *ProgramHandler) parseFilters(c *gin.Context) (db.ProgramFilters, bool) {
	var filters db.ProgramFilters

	if v := c.Query("date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			badRequest(c, "Invalid date, expected YYYY-MM-DD")
			return filters, false
		}
		filters.Date = &t
	}
	if v := c.Query("start_date"); v != "" {
		t, ok := parseDateOrTime(c, v, "start_date")
		if !ok {
			return filters, false
		}
		filters.StartDate = &t
	}
	if v := c.Query("end_date"); v != "" {
		t, ok := parseDateOrTime(c, v, "end_date")
		if !ok {
			return filters, false
		}
		filters.EndDate = &t
	}
	if v := c.Query("type"); v != "" {
		filters.Type = &v
	}
	if v := c.Query("category"); v != "" {
		filters.Category = &v
	}
	if v := c.Query("channel_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			badRequest(c, "Invalid channel_id format")
			return filters, false
		}
		filters.ChannelID = &id
	}
	if v := c.Query("is_live"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			badRequest(c, "Invalid is_live, expected true or false")
			return filters, false
		}
		filters.IsLive = &parsed
	}
	if v := c.Query("has_replay"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			badRequest(c, "Invalid has_replay, expected true or false")
			return filters, false
		}
		filters.HasReplay = &parsed
	}
	if v := c.Query("host"); v != "" {
		filters.Host = &v
	}

	offset, limit, ok := parsePagination(c)
	if !ok {
		return filters, false
	}
	filters.Offset = offset
	filters.Limit = limit

	return filters, true
}

// parseDateOrTime accepts either a calendar date or a full RFC 3339 timestamp
func parseDateOrTime(c *gin.Context, v, field string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t, true
	}
	badRequest(c, "Invalid "+field+", expected YYYY-MM-DD or RFC 3339 timestamp")
	return time.Time{}, false
}

// parseOptionalUUID parses an optional string field as a UUID
func parseOptionalUUID(c *gin.Context, v *string, field string) (*uuid.UUID, bool) {
	if v == nil || *v == "" {
		return nil, true
	}
	id, err := uuid.Parse(*v)
	if err != nil {
		badRequest(c, "Invalid "+field+" format")
		return nil, false
	}
	return &id, true
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "invalid_request",
		Message: message,
	})
}

// SetupProgramRoutes registers program catalog routes
func SetupProgramRoutes(apiGroup *gin.RouterGroup, programService *program.Service) {
	handler := NewProgramHandler(programService)

	apiGroup.POST("/programs", handler.CreateProgram)
	apiGroup.GET("/programs", handler.ListPrograms)
	apiGroup.GET("/programs/:id", handler.GetProgram)
	apiGroup.PUT("/programs/:id", handler.UpdateProgram)
	apiGroup.PATCH("/programs/:id/live", handler.MarkLive)
	apiGroup.DELETE("/programs/:id", handler.DeleteProgram)
}

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/adjovi/telegrid/internal/logger"
	"github.com/adjovi/telegrid/internal/reminder"
)

// userIDHeader carries the caller's identity, asserted by an upstream proxy
const userIDHeader = "X-User-ID"

// CreateReminderRequest represents the request body for creating a reminder
type CreateReminderRequest struct {
	ProgramID     string `json:"program_id" binding:"required"`
	MinutesBefore int    `json:"minutes_before"`
	ReminderType  string `json:"reminder_type"`
}

// UpdateReminderRequest represents the request body for updating a reminder
type UpdateReminderRequest struct {
	MinutesBefore *int    `json:"minutes_before"`
	ReminderType  *string `json:"reminder_type"`
	Status        *string `json:"status"`
}

// ReminderHandler handles reminder-related API requests
type ReminderHandler struct {
	reminderService *reminder.Service
}

// NewReminderHandler creates a new reminder handler instance
func NewReminderHandler(reminderService *reminder.Service) *ReminderHandler {
	return &ReminderHandler{
		reminderService: reminderService,
	}
}

// callerID extracts the user identity header, rejecting the request when absent
func callerID(c *gin.Context) (string, bool) {
	userID := c.GetHeader(userIDHeader)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "missing_identity",
			Message: "X-User-ID header is required",
		})
		return "", false
	}
	return userID, true
}

func (h *ReminderHandler) writeReminderError(c *gin.Context, err error, op string) {
	switch {
	case reminder.IsReminderNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Reminder not found",
		})
	case reminder.IsProgramNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Program not found",
		})
	case reminder.IsInvalidMinutesBefore(err):
		badRequest(c, "minutes_before must be between 1 and 1440")
	case reminder.IsInvalidReminderType(err):
		badRequest(c, "Invalid reminder_type")
	case reminder.IsInvalidStatusTransition(err):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "invalid_transition",
			Message: "Reminder is no longer in a state that allows this change",
		})
	default:
		logger.Log.Error().
			Err(err).
			Str("operation", op).
			Msg("Reminder operation failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   op + "_failed",
			Message: "Failed to " + op + " reminder",
		})
	}
}

// CreateReminder handles POST /api/reminders
func (h *ReminderHandler) CreateReminder(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req CreateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	programID, err := uuid.Parse(req.ProgramID)
	if err != nil {
		badRequest(c, "Invalid program_id format")
		return
	}

	minutesBefore := req.MinutesBefore
	if minutesBefore == 0 {
		minutesBefore = 15
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	rem, err := h.reminderService.Create(ctx, userID, programID, minutesBefore, req.ReminderType)
	if err != nil {
		h.writeReminderError(c, err, "create")
		return
	}

	c.JSON(http.StatusCreated, rem)
}

// ListReminders handles GET /api/reminders
func (h *ReminderHandler) ListReminders(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var status *string
	if v := c.Query("status"); v != "" {
		status = &v
	}
	upcomingOnly := c.Query("upcoming_only") == "true"

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	reminders, err := h.reminderService.ListForUser(ctx, userID, status, upcomingOnly, time.Now().UTC())
	if err != nil {
		h.writeReminderError(c, err, "list")
		return
	}

	c.JSON(http.StatusOK, reminders)
}

// GetReminder handles GET /api/reminders/:id
func (h *ReminderHandler) GetReminder(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	rem, err := h.reminderService.Get(ctx, userID, id)
	if err != nil {
		h.writeReminderError(c, err, "get")
		return
	}

	c.JSON(http.StatusOK, rem)
}

// UpdateReminder handles PATCH /api/reminders/:id
func (h *ReminderHandler) UpdateReminder(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	rem, err := h.reminderService.Update(ctx, userID, id, reminder.UpdateParams{
		MinutesBefore: req.MinutesBefore,
		ReminderType:  req.ReminderType,
		Status:        req.Status,
	})
	if err != nil {
		h.writeReminderError(c, err, "update")
		return
	}

	c.JSON(http.StatusOK, rem)
}

// CancelReminder handles POST /api/reminders/:id/cancel
func (h *ReminderHandler) CancelReminder(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	rem, err := h.reminderService.Cancel(ctx, userID, id)
	if err != nil {
		h.writeReminderError(c, err, "cancel")
		return
	}

	c.JSON(http.StatusOK, rem)
}

// DeleteReminder handles DELETE /api/reminders/:id
func (h *ReminderHandler) DeleteReminder(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.reminderService.Delete(ctx, userID, id); err != nil {
		h.writeReminderError(c, err, "delete")
		return
	}

	c.JSON(http.StatusOK, DeleteResponse{Message: "Reminder deleted successfully"})
}

// SetupReminderRoutes registers reminder-related routes
func SetupReminderRoutes(apiGroup *gin.RouterGroup, reminderService *reminder.Service) {
	handler := NewReminderHandler(reminderService)

	reminders := apiGroup.Group("/reminders")
	{
		reminders.POST("", handler.CreateReminder)
		reminders.GET("", handler.ListReminders)
		reminders.GET("/:id", handler.GetReminder)
		reminders.PATCH("/:id", handler.UpdateReminder)
		reminders.POST("/:id/cancel", handler.CancelReminder)
		reminders.DELETE("/:id", handler.DeleteReminder)
	}
}

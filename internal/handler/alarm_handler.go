package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-alarm-session/internal/domain"
	"github.com/KasumiMercury/primind-alarm-session/internal/service/session"
)

type AlarmHandler struct {
	manager *session.Manager
}

func NewAlarmHandler(manager *session.Manager) *AlarmHandler {
	return &AlarmHandler{
		manager: manager,
	}
}

// HandleTrigger activates a session for a fired alarm. A duplicate trigger
// while another session is ringing is reported as a conflict and leaves the
// active session untouched.
func (h *AlarmHandler) HandleTrigger(c *gin.Context) {
	ctx := c.Request.Context()

	var req TriggerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "trigger request validation failed",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	view, err := h.manager.Activate(ctx, session.ActivateInput{
		Reminder:   req.toReminder(),
		TimeSlotID: req.TimeSlotID,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSessionActive):
			body := gin.H{
				"error":   "session_active",
				"message": "another alarm session is already active",
			}
			if active, ok := h.manager.ActiveSession(); ok {
				body["active_session_id"] = active.SessionID
			}
			c.JSON(http.StatusConflict, body)
		case errors.Is(err, domain.ErrSessionResolved):
			respondError(c, http.StatusConflict, "already_resolved", "this alarm firing was already resolved")
		default:
			slog.ErrorContext(ctx, "failed to activate alarm session",
				slog.String("remind_id", req.RemindID),
				slog.String("error", err.Error()),
			)
			respondError(c, http.StatusInternalServerError, "processing_error", "failed to activate alarm session")
		}
		return
	}

	c.JSON(http.StatusCreated, view)
}

// HandleDismiss resolves the session as dismissed. A collaborator failure
// leaves the session open; the client may retry.
func (h *AlarmHandler) HandleDismiss(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := c.Param("sessionID")

	if err := h.manager.Dismiss(ctx, sessionID); err != nil {
		h.respondResolutionError(c, sessionID, "dismiss", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "dismissed"})
}

// HandleSnooze resolves the session as snoozed.
func (h *AlarmHandler) HandleSnooze(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := c.Param("sessionID")

	var req SnoozeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "validation_error", err.Error())
			return
		}
	}
	if req.Minutes < 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "minutes must not be negative")
		return
	}

	if err := h.manager.Snooze(ctx, sessionID, req.Minutes); err != nil {
		h.respondResolutionError(c, sessionID, "snooze", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "snoozed"})
}

// HandleAdjustSnooze moves the snooze duration of the ringing session up or
// down. The floor is one minute; there is no ceiling.
func (h *AlarmHandler) HandleAdjustSnooze(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := c.Param("sessionID")

	var req AdjustSnoozeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	minutes, err := h.manager.AdjustSnoozeMinutes(ctx, sessionID, req.Delta)
	if err != nil {
		h.respondResolutionError(c, sessionID, "adjust_snooze", err)
		return
	}

	c.JSON(http.StatusOK, AdjustSnoozeResponse{SnoozeMinutes: minutes})
}

// HandleActiveSession returns the ringing session, or 404 when nothing is
// active.
func (h *AlarmHandler) HandleActiveSession(c *gin.Context) {
	view, ok := h.manager.ActiveSession()
	if !ok {
		respondError(c, http.StatusNotFound, "no_active_session", "no alarm session is active")
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *AlarmHandler) respondResolutionError(c *gin.Context, sessionID, operation string, err error) {
	ctx := c.Request.Context()

	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		respondError(c, http.StatusNotFound, "session_not_found", "no active session with this id")
	case errors.Is(err, domain.ErrAlreadyResolving):
		respondError(c, http.StatusConflict, "already_resolving", "the session is already being resolved")
	default:
		slog.ErrorContext(ctx, "resolution request failed",
			slog.String("session_id", sessionID),
			slog.String("operation", operation),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusBadGateway, "processing_error", "resolution failed, the session is still active")
	}
}

func respondError(c *gin.Context, status int, errType, message string) {
	c.JSON(status, ErrorResponse{
		Error:   errType,
		Message: message,
	})
}

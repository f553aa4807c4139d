package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-alarm-session/internal/domain"
)

type SettingsHandler struct {
	settings domain.SettingsRepository
}

func NewSettingsHandler(settings domain.SettingsRepository) *SettingsHandler {
	return &SettingsHandler{
		settings: settings,
	}
}

// HandleSaveSnoozeSettings persists the user's snooze configuration. A
// custom duration below the floor is rejected.
func (h *SettingsHandler) HandleSaveSnoozeSettings(c *gin.Context) {
	ctx := c.Request.Context()

	var req SnoozeSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	if req.UseCustom && req.CustomMinutes < domain.MinSnoozeMinutes {
		respondError(c, http.StatusBadRequest, "validation_error", "custom_minutes must be at least 1")
		return
	}

	settings := &domain.SnoozeSettings{
		UseCustom:     req.UseCustom,
		CustomMinutes: req.CustomMinutes,
	}
	if err := h.settings.SaveSnoozeSettings(ctx, req.UserID, settings); err != nil {
		slog.ErrorContext(ctx, "failed to save snooze settings",
			slog.String("user_id", req.UserID),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "processing_error", "failed to save snooze settings")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}

// HandleGetSnoozeSettings returns the stored configuration, falling back to
// defaults when the user has none.
func (h *SettingsHandler) HandleGetSnoozeSettings(c *gin.Context) {
	ctx := c.Request.Context()

	userID := c.Query("user_id")
	if userID == "" {
		respondError(c, http.StatusBadRequest, "validation_error", "user_id is required")
		return
	}

	settings, err := h.settings.GetSnoozeSettings(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load snooze settings",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "processing_error", "failed to load snooze settings")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"use_custom":     settings.UseCustom,
		"custom_minutes": settings.CustomMinutes,
		"minutes":        settings.InitialMinutes(),
	})
}

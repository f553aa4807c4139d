package stub

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-alarm-session/internal/infra/taskqueue"
)

type Handler struct {
	store *RunStore
}

func NewHandler(store *RunStore) *Handler {
	return &Handler{store: store}
}

func (h *Handler) HandleReset(c *gin.Context) {
	runID := c.DefaultQuery("run_id", DefaultRunID)

	h.store.Reset(runID)

	slog.Info("reset data", slog.String("run_id", runID))

	c.JSON(http.StatusOK, gin.H{
		"status": "reset complete",
		"run_id": runID,
	})
}

func (h *Handler) HandleSeed(c *gin.Context) {
	runID := c.DefaultQuery("run_id", DefaultRunID)

	var req SeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.UserIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_ids is required"})
		return
	}

	h.store.SeedUsers(runID, req.UserIDs)

	slog.Info("seeded ringing users",
		slog.String("run_id", runID),
		slog.Int("user_count", len(req.UserIDs)),
	)

	c.JSON(http.StatusOK, gin.H{
		"status":     "seeded",
		"run_id":     runID,
		"user_count": len(req.UserIDs),
	})
}

// GET /api/v1/stats?run_id=...
func (h *Handler) HandleStats(c *gin.Context) {
	runID := c.DefaultQuery("run_id", DefaultRunID)

	c.JSON(http.StatusOK, h.store.Stats(runID))
}

// POST /api/v1/devices/sound/stop
// Stands in for the device push relay's stop-ringing endpoint.
func (h *Handler) HandleStopSound(c *gin.Context) {
	var req StopSoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	if !h.store.StopSound(req.UserID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no ringing device for user"})
		return
	}

	slog.Debug("stopped alarm sound",
		slog.String("user_id", req.UserID),
		slog.Int("device_count", len(req.DeviceTokens)),
	)

	c.Status(http.StatusNoContent)
}

// POST /tasks and POST /tasks/:queue
// Stands in for Primind Tasks task registration.
func (h *Handler) HandleCreateTask(c *gin.Context) {
	queue := c.Param("queue")
	if queue == "" {
		queue = "default"
	}

	var req taskqueue.PrimindTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payload, err := base64.StdEncoding.DecodeString(req.Task.HTTPRequest.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "task body is not valid base64"})
		return
	}

	var task taskqueue.AlarmTask
	if err := json.Unmarshal(payload, &task); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "task body is not a valid alarm task"})
		return
	}

	name := req.Task.Name
	if name == "" {
		name = taskqueue.TaskName(task.RemindID, task.TimeSlotID)
	}

	scheduleAt := task.ScheduleAt
	if req.Task.ScheduleTime != "" {
		if parsed, err := time.Parse(time.RFC3339, req.Task.ScheduleTime); err == nil {
			scheduleAt = parsed
		}
	}

	now := time.Now()
	h.store.CreateTask(&TaskRecord{
		Name:       name,
		Queue:      queue,
		RemindID:   task.RemindID,
		UserID:     task.UserID,
		TimeSlotID: task.TimeSlotID,
		ScheduleAt: scheduleAt,
		CreatedAt:  now,
	})

	slog.Debug("created task",
		slog.String("queue", queue),
		slog.String("task_name", name),
		slog.String("remind_id", task.RemindID),
		slog.Time("schedule_at", scheduleAt),
	)

	c.JSON(http.StatusCreated, taskqueue.PrimindTaskResponse{
		Name:         name,
		ScheduleTime: scheduleAt.Format(time.RFC3339),
		CreateTime:   now.Format(time.RFC3339),
	})
}

// DELETE /tasks/:queue/:name
func (h *Handler) HandleCancelTask(c *gin.Context) {
	queue := c.Param("queue")
	name := c.Param("name")

	if !h.store.CancelTask(name) {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	slog.Debug("cancelled task",
		slog.String("queue", queue),
		slog.String("task_name", name),
	)

	c.Status(http.StatusNoContent)
}

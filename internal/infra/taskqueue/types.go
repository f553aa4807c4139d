package taskqueue

import "time"

// AlarmTask is the payload registered with the task queue to re-present an
// alarm after a snooze.
type AlarmTask struct {
	RemindID     string    `json:"remind_id"`
	UserID       string    `json:"user_id"`
	TaskID       string    `json:"task_id"`
	TimeSlotID   string    `json:"time_slot_id,omitempty"`
	Title        string    `json:"title"`
	DeviceTokens []string  `json:"device_tokens,omitempty"`
	ScheduleAt   time.Time `json:"schedule_at"`
}

type TaskResponse struct {
	Name         string
	ScheduleTime time.Time
	CreateTime   time.Time
}

// TaskName derives the queue task identifier for a reminder firing. Slot
// firings get their own task so cancelling one slot leaves the others
// pending.
func TaskName(remindID, timeSlotID string) string {
	if timeSlotID == "" {
		return remindID
	}
	return remindID + "-" + timeSlotID
}

type PrimindTaskRequest struct {
	Task PrimindTask `json:"task"`
}

type PrimindTask struct {
	Name         string             `json:"name,omitempty"`
	ScheduleTime string             `json:"scheduleTime,omitempty"`
	HTTPRequest  PrimindHTTPRequest `json:"httpRequest"`
}

type PrimindHTTPRequest struct {
	Body    string            `json:"body"`
	Headers map[string]string `json:"headers"`
}

type PrimindTaskResponse struct {
	Name         string `json:"name"`
	ScheduleTime string `json:"scheduleTime"`
	CreateTime   string `json:"createTime"`
}

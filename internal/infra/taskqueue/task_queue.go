package taskqueue

import "context"

//go:generate mockgen -source=task_queue.go -destination=mock.go -package=taskqueue

type TaskQueue interface {
	ScheduleAlarm(ctx context.Context, task *AlarmTask) (*TaskResponse, error)
	CancelAlarm(ctx context.Context, remindID, timeSlotID string) error
}

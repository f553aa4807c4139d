package stub

import (
	"sync"
	"time"
)

const DefaultRunID = "default"

type TaskRecord struct {
	Name       string
	Queue      string
	RemindID   string
	UserID     string
	TimeSlotID string
	ScheduleAt time.Time
	CreatedAt  time.Time
}

type runState struct {
	ringing         map[string]bool
	tasks           map[string]*TaskRecord
	soundStops      int64
	stopsNotRinging int64
	tasksCreated    int64
	tasksCancelled  int64
	cancelMisses    int64
}

func newRunState() *runState {
	return &runState{
		ringing: make(map[string]bool),
		tasks:   make(map[string]*TaskRecord),
	}
}

// RunStore keeps per-run collaborator state. The alarm service calls the relay
// and task endpoints without any run context, so ownership is inferred:
// seeding binds a user to a run, and task creation binds the task name to the
// run of the task's user.
type RunStore struct {
	mu       sync.RWMutex
	runs     map[string]*runState
	userRuns map[string]string // userID -> runID
	taskRuns map[string]string // task name -> runID
}

func NewRunStore() *RunStore {
	return &RunStore{
		runs:     make(map[string]*runState),
		userRuns: make(map[string]string),
		taskRuns: make(map[string]string),
	}
}

func (s *RunStore) Reset(runID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.runs, runID)
	for userID, run := range s.userRuns {
		if run == runID {
			delete(s.userRuns, userID)
		}
	}
	for name, run := range s.taskRuns {
		if run == runID {
			delete(s.taskRuns, name)
		}
	}
}

func (s *RunStore) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = make(map[string]*runState)
	s.userRuns = make(map[string]string)
	s.taskRuns = make(map[string]string)
}

func (s *RunStore) SeedUsers(runID string, userIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run := s.runLocked(runID)
	for _, userID := range userIDs {
		run.ringing[userID] = true
		s.userRuns[userID] = runID
	}
}

// StopSound clears the ringing flag for the user and reports whether a seeded
// device was ringing.
func (s *RunStore) StopSound(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	run := s.runLocked(s.userRunLocked(userID))
	if run.ringing[userID] {
		delete(run.ringing, userID)
		run.soundStops++
		return true
	}
	run.stopsNotRinging++
	return false
}

func (s *RunStore) CreateTask(rec *TaskRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	runID := s.userRunLocked(rec.UserID)
	run := s.runLocked(runID)
	run.tasks[rec.Name] = rec
	s.taskRuns[rec.Name] = runID
	run.tasksCreated++
}

// CancelTask removes the named task and reports whether it was pending. The
// name stays bound to its run so a repeated cancel is still attributed.
func (s *RunStore) CancelTask(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	runID, known := s.taskRuns[name]
	if !known {
		runID = DefaultRunID
	}
	run := s.runLocked(runID)
	if _, pending := run.tasks[name]; pending {
		delete(run.tasks, name)
		run.tasksCancelled++
		return true
	}
	run.cancelMisses++
	return false
}

func (s *RunStore) Stats(runID string) StatsResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resp := StatsResponse{RunID: runID}
	run, exists := s.runs[runID]
	if !exists {
		return resp
	}

	resp.RingingUsers = len(run.ringing)
	resp.SoundStops = run.soundStops
	resp.StopsNotRinging = run.stopsNotRinging
	resp.TasksCreated = run.tasksCreated
	resp.TasksCancelled = run.tasksCancelled
	resp.CancelMisses = run.cancelMisses
	resp.PendingTasks = len(run.tasks)
	return resp
}

func (s *RunStore) runLocked(runID string) *runState {
	run, exists := s.runs[runID]
	if !exists {
		run = newRunState()
		s.runs[runID] = run
	}
	return run
}

func (s *RunStore) userRunLocked(userID string) string {
	if runID, exists := s.userRuns[userID]; exists {
		return runID
	}
	return DefaultRunID
}

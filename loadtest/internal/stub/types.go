package stub

type SeedRequest struct {
	UserIDs []string `json:"user_ids"`
}

type StopSoundRequest struct {
	UserID       string   `json:"user_id"`
	DeviceTokens []string `json:"device_tokens,omitempty"`
}

type StatsResponse struct {
	RunID           string `json:"run_id"`
	RingingUsers    int    `json:"ringing_users"`
	SoundStops      int64  `json:"sound_stops"`
	StopsNotRinging int64  `json:"stops_not_ringing"`
	TasksCreated    int64  `json:"tasks_created"`
	TasksCancelled  int64  `json:"tasks_cancelled"`
	CancelMisses    int64  `json:"cancel_misses"`
	PendingTasks    int    `json:"pending_tasks"`
}

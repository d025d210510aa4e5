package progress

type ModuleStatus string

const (
	StatusNotStarted ModuleStatus = "NOT_STARTED"
	StatusInProgress ModuleStatus = "IN_PROGRESS"
	StatusCompleted  ModuleStatus = "COMPLETED"
	StatusFailed     ModuleStatus = "FAILED"
)

package journal

import (
	"strings"
	"time"
)

// Status is the terminal outcome recorded for one broadcast in one run.
type Status string

const (
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

var allStatuses = []Status{
	StatusDone,
	StatusFailed,
	StatusSkipped,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// ParseStatus normalizes a stored status string.
func ParseStatus(value string) (Status, bool) {
	status := Status(strings.ToLower(strings.TrimSpace(value)))
	_, ok := statusSet[status]
	return status, ok
}

func (s Status) String() string { return string(s) }

// Run captures one invocation of the archiving pipeline.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Archived   int
	Failed     int
	Skipped    int
}

// Record captures the outcome for a single broadcast.
type Record struct {
	ID             int64
	RunID          string
	BroadcastID    int64
	Section        string
	Title          string
	ScheduledStart time.Time
	Status         Status
	ErrorMessage   string
	OutputPath     string
	CreatedAt      time.Time
}

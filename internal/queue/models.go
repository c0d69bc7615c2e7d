package queue

import (
	"strconv"
	"strings"
	"time"
)

// Status represents the lifecycle of a queue item.
type Status string

const (
	StatusPending   Status = "pending"
	StatusMigrating Status = "migrating"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusReview    Status = "review"
)

// DaemonStopReason is the error message set when items are failed due to daemon shutdown.
const DaemonStopReason = "Daemon stopped"

var allStatuses = []Status{
	StatusPending,
	StatusMigrating,
	StatusCompleted,
	StatusFailed,
	StatusReview,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

var processingStatuses = map[Status]struct{}{
	StatusMigrating: {},
}

// HealthSummary describes aggregated queue counts per key lifecycle states.
type HealthSummary struct {
	Total      int
	Pending    int
	Processing int
	Failed     int
	Review     int
	Completed  int
}

// DatabaseHealth captures diagnostic information about the queue database.
type DatabaseHealth struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	SchemaVersion    int
	MissingColumns   []string
	IntegrityCheck   bool
	TotalItems       int
	Error            string
}

// Item is a put task persisted in SQLite.
type Item struct {
	ID              int64
	ContentID       string
	Version         int64
	Status          Status
	SourcePath      string
	DocumentXML     string
	ErrorMessage    string
	ErrorKind       string
	ErrorDetail     string
	ProgressMessage string
	AssetCount      int
	CreatedAt       time.Time
	UpdatedAt       time.Time
	LastHeartbeat   *time.Time
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsProcessing returns true when the status reflects an in-flight operation.
func (i Item) IsProcessing() bool {
	return IsProcessingStatus(i.Status)
}

// IsProcessingStatus reports whether a status reflects an in-flight operation.
func IsProcessingStatus(status Status) bool {
	_, ok := processingStatuses[status]
	return ok
}

// InitProgress resets progress and error fields before a stage runs.
func (i *Item) InitProgress(message string) {
	i.ProgressMessage = message
	i.ErrorMessage = ""
	i.ErrorKind = ""
	i.ErrorDetail = ""
}

// SetFailure records a stage failure under status (failed or review).
// Clears the heartbeat.
func (i *Item) SetFailure(status Status, kind, message, detail string) {
	if status != StatusReview {
		status = StatusFailed
	}
	i.Status = status
	i.ErrorKind = kind
	i.ErrorMessage = message
	i.ErrorDetail = detail
	i.ProgressMessage = message
	i.LastHeartbeat = nil
}

// SetFailed marks the item as failed with the given error message.
func (i *Item) SetFailed(message string) {
	i.SetFailure(StatusFailed, "transient", message, "")
}

// Label is a short human description used in logs and tables.
func (i Item) Label() string {
	if i.ContentID == "" {
		return "(unnamed)"
	}
	return i.ContentID + " v" + strconv.FormatInt(i.Version, 10)
}

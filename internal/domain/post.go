package domain

import "time"

// Post is a core entity describing a single matched Reddit post.
type Post struct {
	ID        string
	Title     string
	URL       string
	CreatedAt time.Time
	Score     int
	Body      string
	Comments  []string
}

// Report is the persisted analysis document plus its on-disk location.
// The file at Path lives only between the report write and delivery cleanup.
type Report struct {
	Path        string
	Title       string
	GeneratedAt time.Time
	Summary     string
	Items       []Post
}

// DeliveryOutcome records what happened during a delivery attempt.
// It is used for logging and control decisions only, never persisted.
type DeliveryOutcome struct {
	Skipped      bool
	MessageSent  bool
	DocumentSent bool
	Err          error
}

// RunStatus enumerates terminal pipeline outcomes.
type RunStatus string

const (
	RunCompleted RunStatus = "completed"
	RunEmpty     RunStatus = "empty"
	RunFailed    RunStatus = "failed"
)

// RunRecord is the audit snapshot of one pipeline execution.
type RunRecord struct {
	ID         string
	Subreddits []string
	Keywords   []string
	ItemCount  int
	ReportPath string
	Status     RunStatus
	CreatedAt  time.Time
}

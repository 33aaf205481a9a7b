package entity

import "time"

// Run lifecycle statuses reported through the progress sink.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusErrored   = "errored"
)

// ProgressUpdate is a partial-update bag for the progress sink. Counter
// fields are monotonically non-decreasing over the life of a run.
type ProgressUpdate struct {
	Status     string
	Activity   string
	Accepted   int
	Duplicates int
	Saved      int
	Message    string
}

// RunProgress is the materialized progress of one scrape run.
type RunProgress struct {
	RunID      string     `json:"run_id"`
	Query      string     `json:"query"`
	Status     string     `json:"status"`
	Activity   string     `json:"activity,omitempty"`
	Accepted   int        `json:"accepted"`
	Duplicates int        `json:"duplicates"`
	Saved      int        `json:"saved"`
	Message    string     `json:"message,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Stats summarizes the stored business corpus for the dashboard.
type Stats struct {
	TotalBusinesses int            `json:"total_businesses"`
	Contacted       int            `json:"contacted"`
	NotContacted    int            `json:"not_contacted"`
	Keywords        []KeywordCount `json:"keywords"`
}

// KeywordCount is the number of stored businesses for one search keyword.
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

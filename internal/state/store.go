// Package state persists extraction runs and their dependency edges in
// SQLite, so impact queries can run against history without re-scanning
// source files.
package state

import "time"

// RunStatus represents the lifecycle state of an extraction run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run represents one extraction over a set of SQL sources.
type Run struct {
	ID          string
	Source      string // root path or file the run scanned
	Status      RunStatus
	StartedAt   time.Time
	CompletedAt *time.Time
	Error       string
	EdgeCount   int
}

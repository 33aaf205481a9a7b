package repository

import (
	"context"
	"errors"

	"github.com/user/leadgen-service/internal/entity"
)

// ErrRunNotFound is returned when a run ID is unknown to the progress sink.
var ErrRunNotFound = errors.New("scrape run not found")

// ProgressRepository defines the interface for publishing and reading the
// live progress of scrape runs.
type ProgressRepository interface {
	// Start registers a new run in the running state.
	Start(ctx context.Context, runID, query string) error
	// Update applies a partial progress update to a run. Zero-valued
	// fields of the update leave the stored values untouched.
	Update(ctx context.Context, runID string, update entity.ProgressUpdate) error
	// Get returns the current progress of a run.
	Get(ctx context.Context, runID string) (*entity.RunProgress, error)
}

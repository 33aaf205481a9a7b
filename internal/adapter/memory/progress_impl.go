// Package memory holds in-process fallbacks for the optional external
// stores, used by the CLI and by deployments without Redis.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/user/leadgen-service/internal/entity"
	"github.com/user/leadgen-service/internal/repository"
)

// ProgressRepoImpl keeps run progress in a map guarded by a mutex.
type ProgressRepoImpl struct {
	mu   sync.RWMutex
	runs map[string]*entity.RunProgress
}

func NewProgressRepo() *ProgressRepoImpl {
	return &ProgressRepoImpl{runs: map[string]*entity.RunProgress{}}
}

func (r *ProgressRepoImpl) Start(_ context.Context, runID, query string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[runID] = &entity.RunProgress{
		RunID:     runID,
		Query:     query,
		Status:    entity.RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}
	return nil
}

func (r *ProgressRepoImpl) Update(_ context.Context, runID string, update entity.ProgressUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[runID]
	if !ok {
		return repository.ErrRunNotFound
	}
	if update.Status != "" {
		run.Status = update.Status
		if update.Status == entity.RunStatusCompleted || update.Status == entity.RunStatusErrored {
			now := time.Now().UTC()
			run.FinishedAt = &now
		}
	}
	if update.Activity != "" {
		run.Activity = update.Activity
	}
	if update.Accepted > 0 {
		run.Accepted = update.Accepted
	}
	if update.Duplicates > 0 {
		run.Duplicates = update.Duplicates
	}
	if update.Saved > 0 {
		run.Saved = update.Saved
	}
	if update.Message != "" {
		run.Message = update.Message
	}
	return nil
}

func (r *ProgressRepoImpl) Get(_ context.Context, runID string) (*entity.RunProgress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	run, ok := r.runs[runID]
	if !ok {
		return nil, repository.ErrRunNotFound
	}
	copied := *run
	return &copied, nil
}

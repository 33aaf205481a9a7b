package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/user/leadgen-service/internal/entity"
	"github.com/user/leadgen-service/internal/repository"
)

const (
	progressPrefix = "scrape-run:"
	progressTTL    = 24 * time.Hour
)

// ProgressRepoImpl provides a concrete implementation for the
// ProgressRepository interface using a Redis hash per run.
type ProgressRepoImpl struct {
	client *redis.Client
}

// NewProgressRepo creates a new instance of ProgressRepoImpl.
func NewProgressRepo(client *redis.Client) *ProgressRepoImpl {
	return &ProgressRepoImpl{client: client}
}

func (r *ProgressRepoImpl) key(runID string) string {
	return progressPrefix + runID
}

// Start registers a new run in the running state.
func (r *ProgressRepoImpl) Start(ctx context.Context, runID, query string) error {
	key := r.key(runID)
	fields := map[string]interface{}{
		"query":      query,
		"status":     entity.RunStatusRunning,
		"accepted":   0,
		"duplicates": 0,
		"saved":      0,
		"started_at": time.Now().UTC().Format(time.RFC3339),
	}
	if err := r.client.HSet(ctx, key, fields).Err(); err != nil {
		return err
	}
	return r.client.Expire(ctx, key, progressTTL).Err()
}

// Update applies a partial progress update. Only non-zero fields are
// written, so counters never move backwards on a sparse update.
func (r *ProgressRepoImpl) Update(ctx context.Context, runID string, update entity.ProgressUpdate) error {
	fields := map[string]interface{}{}
	if update.Status != "" {
		fields["status"] = update.Status
		if update.Status == entity.RunStatusCompleted || update.Status == entity.RunStatusErrored {
			fields["finished_at"] = time.Now().UTC().Format(time.RFC3339)
		}
	}
	if update.Activity != "" {
		fields["activity"] = update.Activity
	}
	if update.Accepted > 0 {
		fields["accepted"] = update.Accepted
	}
	if update.Duplicates > 0 {
		fields["duplicates"] = update.Duplicates
	}
	if update.Saved > 0 {
		fields["saved"] = update.Saved
	}
	if update.Message != "" {
		fields["message"] = update.Message
	}
	if len(fields) == 0 {
		return nil
	}
	return r.client.HSet(ctx, r.key(runID), fields).Err()
}

// Get returns the current progress of a run.
func (r *ProgressRepoImpl) Get(ctx context.Context, runID string) (*entity.RunProgress, error) {
	values, err := r.client.HGetAll(ctx, r.key(runID)).Result()
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, repository.ErrRunNotFound
	}

	progress := &entity.RunProgress{
		RunID:      runID,
		Query:      values["query"],
		Status:     values["status"],
		Activity:   values["activity"],
		Message:    values["message"],
		Accepted:   atoi(values["accepted"]),
		Duplicates: atoi(values["duplicates"]),
		Saved:      atoi(values["saved"]),
	}
	if t, err := time.Parse(time.RFC3339, values["started_at"]); err == nil {
		progress.StartedAt = t
	}
	if raw, ok := values["finished_at"]; ok {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			progress.FinishedAt = &t
		}
	}
	return progress, nil
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

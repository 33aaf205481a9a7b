// Package jsonstore is a file-backed fallback for the business store,
// used when PostgreSQL is not configured. The whole dataset is kept in one
// JSON file and rewritten on every mutation, which is fine at lead-list
// scale.
package jsonstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/user/leadgen-service/internal/entity"
	"github.com/user/leadgen-service/internal/repository"
)

// BusinessRepoImpl provides a concrete implementation for the
// BusinessRepository interface backed by a JSON file.
type BusinessRepoImpl struct {
	mu   sync.Mutex
	path string
}

// NewBusinessRepo creates a new instance of BusinessRepoImpl writing to
// the given file path.
func NewBusinessRepo(path string) *BusinessRepoImpl {
	return &BusinessRepoImpl{path: path}
}

// Save appends a business unless an equivalent record (same name, phone
// and website, case-insensitively) is already stored.
func (r *BusinessRepoImpl) Save(_ context.Context, business *entity.Business, keyword string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return false, err
	}

	for _, existing := range records {
		if identityKey(existing) == identityKey(business) {
			return false, nil
		}
	}

	stored := *business
	stored.ID = uuid.NewString()
	stored.SearchKeyword = strings.ToLower(strings.TrimSpace(keyword))
	stored.CreatedAt = time.Now().UTC()
	stored.UpdatedAt = stored.CreatedAt
	records = append(records, &stored)

	if err := r.store(records); err != nil {
		return false, err
	}
	return true, nil
}

// List retrieves stored businesses matching the filter, newest first.
func (r *BusinessRepoImpl) List(_ context.Context, filter repository.BusinessFilter) ([]*entity.Business, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return nil, err
	}

	keyword := strings.ToLower(strings.TrimSpace(filter.Keyword))
	var out []*entity.Business
	for i := len(records) - 1; i >= 0; i-- {
		b := records[i]
		if keyword != "" && b.SearchKeyword != keyword {
			continue
		}
		if filter.Contacted != nil && b.Contacted != *filter.Contacted {
			continue
		}
		out = append(out, b)
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out, nil
}

// MarkContacted flips the contacted flag on one record.
func (r *BusinessRepoImpl) MarkContacted(_ context.Context, id string, contacted bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return err
	}
	for _, b := range records {
		if b.ID == id {
			b.Contacted = contacted
			b.UpdatedAt = time.Now().UTC()
			return r.store(records)
		}
	}
	return fmt.Errorf("business %s not found", id)
}

// Stats summarizes the stored corpus.
func (r *BusinessRepoImpl) Stats(ctx context.Context) (*entity.Stats, error) {
	r.mu.Lock()
	records, err := r.load()
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}

	stats := &entity.Stats{TotalBusinesses: len(records)}
	for _, b := range records {
		if b.Contacted {
			stats.Contacted++
		} else {
			stats.NotContacted++
		}
	}

	keywords, err := r.Keywords(ctx)
	if err != nil {
		return nil, err
	}
	stats.Keywords = keywords
	return stats, nil
}

// Keywords lists every search keyword with its record count.
func (r *BusinessRepoImpl) Keywords(_ context.Context) ([]entity.KeywordCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return nil, err
	}

	counts := map[string]int{}
	for _, b := range records {
		if b.SearchKeyword != "" {
			counts[b.SearchKeyword]++
		}
	}

	keywords := make([]entity.KeywordCount, 0, len(counts))
	for keyword, count := range counts {
		keywords = append(keywords, entity.KeywordCount{Keyword: keyword, Count: count})
	}
	return keywords, nil
}

func identityKey(b *entity.Business) string {
	return strings.ToLower(b.Name) + "|" + strings.ToLower(b.Phone) + "|" + strings.ToLower(b.Website)
}

func (r *BusinessRepoImpl) load() ([]*entity.Business, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	var records []*entity.Business
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", r.path, err)
	}
	return records, nil
}

func (r *BusinessRepoImpl) store(records []*entity.Business) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, r.path)
}

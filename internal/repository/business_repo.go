package repository

import (
	"context"

	"github.com/user/leadgen-service/internal/entity"
)

// BusinessFilter narrows List results. Zero values mean "no constraint".
type BusinessFilter struct {
	Keyword   string
	Contacted *bool
	Limit     int
}

// BusinessRepository defines the contract for persisting scraped business
// records.
type BusinessRepository interface {
	// Save stores a business under a search keyword. It reports false when
	// the store already held an equivalent record and nothing was written.
	Save(ctx context.Context, business *entity.Business, keyword string) (bool, error)
	// List retrieves stored businesses matching the filter, newest first.
	List(ctx context.Context, filter BusinessFilter) ([]*entity.Business, error)
	// MarkContacted flips the contacted flag on one record.
	MarkContacted(ctx context.Context, id string, contacted bool) error
	// Stats summarizes the stored corpus.
	Stats(ctx context.Context) (*entity.Stats, error)
	// Keywords lists every search keyword with its record count.
	Keywords(ctx context.Context) ([]entity.KeywordCount, error)
}

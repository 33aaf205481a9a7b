package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/leadgen-service/internal/entity"
	"github.com/user/leadgen-service/internal/repository"
)

// BusinessRepoImpl provides a concrete implementation for the
// BusinessRepository interface using PostgreSQL.
type BusinessRepoImpl struct {
	db *pgxpool.Pool
}

// NewBusinessRepo creates a new instance of BusinessRepoImpl.
func NewBusinessRepo(db *pgxpool.Pool) *BusinessRepoImpl {
	return &BusinessRepoImpl{db: db}
}

// EnsureSchema creates the businesses table and its indexes when missing.
// The compound unique index on (name, phone, website) is what makes Save
// report storage-level duplicates.
func (r *BusinessRepoImpl) EnsureSchema(ctx context.Context) error {
	ddl := `
		CREATE TABLE IF NOT EXISTS businesses (
			id                 UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name               TEXT NOT NULL,
			phone              TEXT NOT NULL DEFAULT '',
			website            TEXT NOT NULL DEFAULT '',
			email              TEXT NOT NULL DEFAULT '',
			whatsapp           TEXT NOT NULL DEFAULT '',
			instagram          TEXT NOT NULL DEFAULT '',
			address            TEXT NOT NULL DEFAULT '',
			rating             TEXT NOT NULL DEFAULT '',
			reviews            INTEGER NOT NULL DEFAULT 0,
			search_keyword     TEXT NOT NULL DEFAULT '',
			contacted          BOOLEAN NOT NULL DEFAULT FALSE,
			website_extraction JSONB,
			created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE UNIQUE INDEX IF NOT EXISTS business_unique_idx ON businesses (name, phone, website);
		CREATE INDEX IF NOT EXISTS business_keyword_idx ON businesses (search_keyword);
		CREATE INDEX IF NOT EXISTS business_contacted_idx ON businesses (contacted);
		CREATE INDEX IF NOT EXISTS business_created_at_idx ON businesses (created_at);
	`
	_, err := r.db.Exec(ctx, ddl)
	return err
}

// Save inserts a business, reporting false when the unique index already
// holds an equivalent record.
func (r *BusinessRepoImpl) Save(ctx context.Context, business *entity.Business, keyword string) (bool, error) {
	var extractionJSON []byte
	if business.WebsiteExtraction != nil {
		var err error
		extractionJSON, err = json.Marshal(business.WebsiteExtraction)
		if err != nil {
			return false, err
		}
	}

	query := `
		INSERT INTO businesses (name, phone, website, email, whatsapp, instagram, address, rating, reviews, search_keyword, website_extraction)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (name, phone, website) DO NOTHING;
	`
	tag, err := r.db.Exec(ctx, query,
		business.Name,
		business.Phone,
		business.Website,
		business.Email,
		business.WhatsApp,
		business.Instagram,
		business.Address,
		business.Rating,
		business.Reviews,
		normalizeKeyword(keyword),
		extractionJSON,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// List retrieves stored businesses matching the filter, newest first.
func (r *BusinessRepoImpl) List(ctx context.Context, filter repository.BusinessFilter) ([]*entity.Business, error) {
	query := `
		SELECT id, name, phone, website, email, whatsapp, instagram, address, rating, reviews, search_keyword, contacted, website_extraction, created_at, updated_at
		FROM businesses
		WHERE ($1 = '' OR search_keyword = $1)
		  AND ($2::boolean IS NULL OR contacted = $2)
		ORDER BY created_at DESC
		LIMIT $3;
	`
	limit := filter.Limit
	if limit <= 0 {
		limit = 500
	}

	rows, err := r.db.Query(ctx, query, normalizeKeyword(filter.Keyword), filter.Contacted, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var businesses []*entity.Business
	for rows.Next() {
		var b entity.Business
		var extractionJSON []byte
		if err := rows.Scan(
			&b.ID, &b.Name, &b.Phone, &b.Website, &b.Email, &b.WhatsApp,
			&b.Instagram, &b.Address, &b.Rating, &b.Reviews, &b.SearchKeyword,
			&b.Contacted, &extractionJSON, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if len(extractionJSON) > 0 {
			if err := json.Unmarshal(extractionJSON, &b.WebsiteExtraction); err != nil {
				return nil, err
			}
		}
		businesses = append(businesses, &b)
	}
	return businesses, rows.Err()
}

// MarkContacted flips the contacted flag on one record.
func (r *BusinessRepoImpl) MarkContacted(ctx context.Context, id string, contacted bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE businesses SET contacted = $2, updated_at = now() WHERE id = $1;`,
		id, contacted,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("business %s not found", id)
	}
	return nil
}

// Stats summarizes the stored corpus.
func (r *BusinessRepoImpl) Stats(ctx context.Context) (*entity.Stats, error) {
	var stats entity.Stats
	err := r.db.QueryRow(ctx, `
		SELECT count(*),
		       count(*) FILTER (WHERE contacted),
		       count(*) FILTER (WHERE NOT contacted)
		FROM businesses;
	`).Scan(&stats.TotalBusinesses, &stats.Contacted, &stats.NotContacted)
	if err != nil {
		return nil, err
	}

	keywords, err := r.Keywords(ctx)
	if err != nil {
		return nil, err
	}
	stats.Keywords = keywords
	return &stats, nil
}

// Keywords lists every search keyword with its record count.
func (r *BusinessRepoImpl) Keywords(ctx context.Context) ([]entity.KeywordCount, error) {
	rows, err := r.db.Query(ctx, `
		SELECT search_keyword, count(*)
		FROM businesses
		WHERE search_keyword <> ''
		GROUP BY search_keyword
		ORDER BY count(*) DESC;
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keywords []entity.KeywordCount
	for rows.Next() {
		var kc entity.KeywordCount
		if err := rows.Scan(&kc.Keyword, &kc.Count); err != nil {
			return nil, err
		}
		keywords = append(keywords, kc)
	}
	return keywords, rows.Err()
}

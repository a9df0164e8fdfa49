package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/madhurjya9655/scraper-tool/internal/store"
)

// ensure postgresStore implements store.Store
var _ store.Store = (*postgresStore)(nil)

type postgresStore struct {
	pool *pgxpool.Pool
}

const schema = `
CREATE TABLE IF NOT EXISTS leads (
	seq BIGINT GENERATED ALWAYS AS IDENTITY,
	id TEXT PRIMARY KEY,
	company_name TEXT NOT NULL,
	contact_person TEXT,
	email TEXT,
	phone TEXT,
	website TEXT,
	industry TEXT,
	location TEXT,
	company_type TEXT,
	source TEXT,
	scraped_date TIMESTAMPTZ NOT NULL,
	linkedin_url TEXT,
	enriched_emails TEXT,
	batch_id TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_leads_batch ON leads(batch_id);
CREATE INDEX IF NOT EXISTS idx_leads_website ON leads(website);
`

// New creates a Postgres-backed store.Store.
func New(ctx context.Context, dsn string) (store.Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &postgresStore{pool: pool}, nil
}

func (s *postgresStore) Upsert(ctx context.Context, lead *store.Lead, batchID string) (string, error) {
	id := lead.ID
	if id == "" {
		id = uuid.New().String()
	}

	query := `
	INSERT INTO leads (
		id, company_name, contact_person, email, phone, website, industry,
		location, company_type, source, scraped_date, linkedin_url,
		enriched_emails, batch_id
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := s.pool.Exec(ctx, query,
		id,
		lead.CompanyName,
		lead.ContactPerson,
		lead.Email,
		lead.Phone,
		lead.Website,
		lead.Industry,
		lead.Location,
		lead.CompanyType,
		lead.Source,
		lead.ScrapedAt,
		lead.LinkedInURL,
		lead.EnrichedEmails,
		batchID,
	)
	if err != nil {
		return "", fmt.Errorf("insert lead: %w", err)
	}

	return id, nil
}

func (s *postgresStore) FetchBatch(ctx context.Context, batchID string) ([]*store.Lead, error) {
	query := `
	SELECT id, company_name, contact_person, email, phone, website, industry,
	       location, company_type, source, scraped_date, linkedin_url,
	       enriched_emails, batch_id
	FROM leads WHERE batch_id = $1 ORDER BY seq
	`

	rows, err := s.pool.Query(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("query batch: %w", err)
	}
	defer rows.Close()

	var leads []*store.Lead
	for rows.Next() {
		var l store.Lead
		err := rows.Scan(
			&l.ID, &l.CompanyName, &l.ContactPerson, &l.Email, &l.Phone,
			&l.Website, &l.Industry, &l.Location, &l.CompanyType, &l.Source,
			&l.ScrapedAt, &l.LinkedInURL, &l.EnrichedEmails, &l.BatchID,
		)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, &l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate batch: %w", err)
	}

	return leads, nil
}

func (s *postgresStore) Close() error {
	s.pool.Close()
	return nil
}

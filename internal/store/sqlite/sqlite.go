package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/madhurjya9655/scraper-tool/internal/store"
	_ "modernc.org/sqlite"
)

// ensure sqliteStore implements store.Store
var _ store.Store = (*sqliteStore)(nil)

type sqliteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS leads (
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
	scraped_date DATETIME NOT NULL,
	linkedin_url TEXT,
	enriched_emails TEXT,
	batch_id TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_leads_batch ON leads(batch_id);
CREATE INDEX IF NOT EXISTS idx_leads_website ON leads(website);
CREATE INDEX IF NOT EXISTS idx_leads_name ON leads(company_name);
`

// New creates a SQLite-backed store.Store.
func New(dsn string) (store.Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Upsert(ctx context.Context, lead *store.Lead, batchID string) (string, error) {
	id := lead.ID
	if id == "" {
		id = uuid.New().String()
	}

	query := `
	INSERT INTO leads (
		id, company_name, contact_person, email, phone, website, industry,
		location, company_type, source, scraped_date, linkedin_url,
		enriched_emails, batch_id
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
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

func (s *sqliteStore) FetchBatch(ctx context.Context, batchID string) ([]*store.Lead, error) {
	query := `
	SELECT id, company_name, contact_person, email, phone, website, industry,
	       location, company_type, source, scraped_date, linkedin_url,
	       enriched_emails, batch_id
	FROM leads WHERE batch_id = ? ORDER BY rowid
	`

	rows, err := s.db.QueryContext(ctx, query, batchID)
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

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

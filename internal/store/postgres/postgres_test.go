package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/madhurjya9655/scraper-tool/internal/store"
)

func TestPostgresStore(t *testing.T) {
	// Only runs against a real database
	dsn := os.Getenv("LEADS_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("Skipping Postgres store test: LEADS_TEST_PG_DSN not set")
	}

	ctx := context.Background()
	s, err := New(ctx, dsn)
	if err != nil {
		t.Fatalf("Failed to create Postgres store: %v", err)
	}
	defer s.Close()

	batchID := "test-batch-" + time.Now().Format("20060102150405")

	lead := &store.Lead{
		CompanyName: "Acme Forging",
		Email:       "sales@acmeforging.com",
		Phone:       "919876543210",
		Website:     "https://acmeforging.com/",
		Industry:    "Forging",
		Location:    "Pune",
		CompanyType: "Forging Company",
		Source:      "https://acmeforging.com/",
		ScrapedAt:   time.Now().UTC(),
	}

	id, err := s.Upsert(ctx, lead, batchID)
	if err != nil {
		t.Fatalf("Failed to upsert: %v", err)
	}
	if id == "" {
		t.Fatal("expected a generated row id")
	}

	leads, err := s.FetchBatch(ctx, batchID)
	if err != nil {
		t.Fatalf("Failed to fetch batch: %v", err)
	}
	if len(leads) != 1 {
		t.Fatalf("expected 1 lead, got %d", len(leads))
	}
	if leads[0].ID != id || leads[0].CompanyName != "Acme Forging" {
		t.Errorf("round-trip mismatch: %+v", leads[0])
	}

	other, err := s.FetchBatch(ctx, batchID+"-other")
	if err != nil {
		t.Fatalf("Failed to fetch other batch: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("unrelated batch must be empty, got %d rows", len(other))
	}
}

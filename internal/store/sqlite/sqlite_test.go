package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/madhurjya9655/scraper-tool/internal/store"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "leads.db"))
	if err != nil {
		t.Fatalf("Failed to create SQLite store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleLead(company string) *store.Lead {
	return &store.Lead{
		CompanyName: company,
		Email:       "sales@example.com",
		Phone:       "919876543210",
		Website:     "https://example.com/",
		Industry:    "Forging",
		Location:    "Pune",
		CompanyType: "Forging Company",
		Source:      "https://example.com/",
		ScrapedAt:   time.Now().UTC(),
	}
}

func TestSQLiteStore_UpsertAndFetchBatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Upsert(ctx, sampleLead("Acme Forging"), "batch-a")
	if err != nil {
		t.Fatalf("Failed to upsert: %v", err)
	}
	if id == "" {
		t.Fatal("expected a generated row id")
	}

	leads, err := s.FetchBatch(ctx, "batch-a")
	if err != nil {
		t.Fatalf("Failed to fetch batch: %v", err)
	}
	if len(leads) != 1 {
		t.Fatalf("expected 1 lead, got %d", len(leads))
	}
	l := leads[0]
	if l.ID != id || l.CompanyName != "Acme Forging" || l.BatchID != "batch-a" {
		t.Errorf("round-trip mismatch: %+v", l)
	}
	if l.Email != "sales@example.com" || l.Phone != "919876543210" {
		t.Errorf("contact fields mismatch: %+v", l)
	}
}

func TestSQLiteStore_BatchIsolation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Upsert(ctx, sampleLead("Run A Co"), "batch-a"); err != nil {
		t.Fatalf("Failed to upsert: %v", err)
	}
	if _, err := s.Upsert(ctx, sampleLead("Run B Co"), "batch-b"); err != nil {
		t.Fatalf("Failed to upsert: %v", err)
	}

	a, err := s.FetchBatch(ctx, "batch-a")
	if err != nil {
		t.Fatalf("Failed to fetch batch: %v", err)
	}
	if len(a) != 1 || a[0].CompanyName != "Run A Co" {
		t.Errorf("batch-a leaked rows: %+v", a)
	}

	empty, err := s.FetchBatch(ctx, "batch-none")
	if err != nil {
		t.Fatalf("Failed to fetch empty batch: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("unknown batch must be empty, got %d rows", len(empty))
	}
}

func TestSQLiteStore_InsertionOrderPreserved(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	names := []string{"First Co", "Second Co", "Third Co"}
	for _, n := range names {
		if _, err := s.Upsert(ctx, sampleLead(n), "batch-a"); err != nil {
			t.Fatalf("Failed to upsert: %v", err)
		}
	}

	leads, err := s.FetchBatch(ctx, "batch-a")
	if err != nil {
		t.Fatalf("Failed to fetch batch: %v", err)
	}
	for i, n := range names {
		if leads[i].CompanyName != n {
			t.Errorf("position %d: expected %q, got %q", i, n, leads[i].CompanyName)
		}
	}
}

func TestSQLiteStore_DuplicateIDFails(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	lead := sampleLead("Acme Forging")
	lead.ID = "fixed-id"
	if _, err := s.Upsert(ctx, lead, "batch-a"); err != nil {
		t.Fatalf("Failed to upsert: %v", err)
	}
	if _, err := s.Upsert(ctx, lead, "batch-a"); err == nil {
		t.Fatal("expected primary-key violation for duplicate id")
	}
}

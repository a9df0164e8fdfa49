// Package store defines the lead record and the batch-scoped persistence
// interface its backends implement.
package store

import (
	"context"
	"time"
)

// Lead is one accepted business-contact record. Records are written once and
// never mutated; the enrichment step appends to EnrichedEmails on exported
// copies only.
type Lead struct {
	ID             string
	CompanyName    string
	ContactPerson  string
	Email          string
	Phone          string
	Website        string
	Industry       string
	Location       string
	CompanyType    string
	Source         string
	ScrapedAt      time.Time
	LinkedInURL    string
	EnrichedEmails string
	BatchID        string
}

// Store persists leads keyed by a run-scoped batch identifier. Rows are
// append-only and retrievable only by batch, which is what keeps one run's
// export from leaking into another's.
type Store interface {
	// Upsert inserts the lead under batchID and returns the row id.
	Upsert(ctx context.Context, lead *Lead, batchID string) (string, error)
	// FetchBatch returns the batch's leads in insertion order.
	FetchBatch(ctx context.Context, batchID string) ([]*Lead, error)
	Close() error
}

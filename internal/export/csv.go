// Package export materializes a batch's leads as a CSV file.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/madhurjya9655/scraper-tool/internal/store"
)

// maxRows caps a single export file.
const maxRows = 100000

// headers is the fixed 13-column export schema.
var headers = []string{
	"ID", "Company Name", "Contact Person", "Email", "Phone", "Website",
	"Industry", "Location", "Company Type", "Source", "Date", "LinkedIn URL",
	"Enriched Emails",
}

// WriteCSV writes the leads to a timestamped CSV file under dir and returns
// the file path.
func WriteCSV(leads []*store.Lead, dir, prefix string) (string, error) {
	if prefix == "" {
		prefix = "b2b_leads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_%s.csv", prefix, time.Now().Format("20060102_150405")))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(headers); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}

	for i, l := range leads {
		if i >= maxRows {
			break
		}
		record := []string{
			l.ID,
			l.CompanyName,
			l.ContactPerson,
			l.Email,
			l.Phone,
			l.Website,
			l.Industry,
			l.Location,
			l.CompanyType,
			l.Source,
			l.ScrapedAt.Format(time.RFC3339),
			l.LinkedInURL,
			l.EnrichedEmails,
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush export: %w", err)
	}

	return path, nil
}

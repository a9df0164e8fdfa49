package scanner

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/madhurjya9655/scraper-tool/internal/classify"
)

var (
	emailRe    = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phoneRe    = regexp.MustCompile(`(?:\+?\d{1,3}[-\s]?)?\d[\d\-\s]{8,}\d`)
	linkedinRe = regexp.MustCompile(`(?i)https?://(?:in\.)?linkedin\.com/(?:company|in)/[A-Za-z0-9\-_/%]+`)
)

const maxTitleLen = 180

// extractEmails returns all email-shaped matches in encounter order, deduped.
func extractEmails(text string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, m := range emailRe.FindAllString(text, -1) {
		m = strings.TrimSpace(m)
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

// extractPhones returns normalized phone digit strings in encounter order,
// deduped; runs that don't normalize to 10-15 digits are dropped.
func extractPhones(text string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, m := range phoneRe.FindAllString(text, -1) {
		p := classify.NormalizePhone(m)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// extractLinkedIn returns the first LinkedIn company/profile URL, or "".
func extractLinkedIn(text string) string {
	return linkedinRe.FindString(text)
}

// extractTitle pulls the page <title>, whitespace-collapsed, HTML-unescaped
// by the parser, and truncated.
func extractTitle(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	title := strings.Join(strings.Fields(doc.Find("title").First().Text()), " ")
	if len(title) > maxTitleLen {
		title = title[:maxTitleLen]
	}
	return title
}

// Package classify holds the rule tables and string heuristics that decide
// whether a crawled page looks like a company's own site, how to derive a
// company name from it, and how contact signals are normalized and ranked.
package classify

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	titleSplitRe = regexp.MustCompile(`[-|–:•,]`)
	titleBrandRe = regexp.MustCompile(`(?i)\b(Indiamart|IndiaMART|Justdial|TradeIndia)\b.*$`)
	wordRe       = regexp.MustCompile(`[a-zA-Z]+`)
)

// DomainOf extracts the lowercased host of a URL with any leading "www."
// stripped. Returns "" if the URL does not parse.
func DomainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}

// IsValidURL reports whether the string is an absolute http(s) URL with a
// dotted host.
func IsValidURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return strings.Contains(u.Host, ".")
}

// IsDirectoryDomain reports whether the host belongs to a directory,
// government, or education domain.
func IsDirectoryDomain(host string) bool {
	if host == "" {
		return false
	}
	h := strings.ToLower(host)
	for d := range DirectoryDomains {
		if strings.HasSuffix(h, d) {
			return true
		}
	}
	for _, s := range govEduSuffixes {
		if strings.HasSuffix(h, s) {
			return true
		}
	}
	return false
}

// IsNeverAcceptHost reports whether a search-result host is on the
// never-accept list (directories, social networks, registries).
func IsNeverAcceptHost(host string) bool {
	h := strings.ToLower(host)
	for d := range SERPNever {
		if strings.HasSuffix(h, d) {
			return true
		}
	}
	return false
}

// TitleHead returns the leading segment of a page title, cut at the first
// separator and with trailing directory branding removed.
func TitleHead(title string) string {
	if title == "" {
		return ""
	}
	head := strings.TrimSpace(titleSplitRe.Split(title, 2)[0])
	return strings.TrimSpace(titleBrandRe.ReplaceAllString(head, ""))
}

// BestCompanyName derives a company name from the page title head, falling
// back to a title-cased domain label. Returns "" if nothing usable remains.
func BestCompanyName(rawURL, title string) string {
	if head := TitleHead(title); len(head) >= 2 && len(head) <= 120 {
		return head
	}
	dom := DomainOf(rawURL)
	label, _, _ := strings.Cut(dom, ".")
	name := strings.TrimSpace(strings.ReplaceAll(label, "-", " "))
	if len(name) < 3 {
		return ""
	}
	return titleCase(name)
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// TitleLooksGeneric flags marketplace-style titles that describe listings
// rather than naming a single company.
func TitleLooksGeneric(title string) bool {
	t := strings.ToLower(strings.TrimSpace(title))
	for _, p := range genericTitlePrefixes {
		if strings.HasPrefix(t, p) {
			return true
		}
	}
	words := wordRe.FindAllString(t, -1)
	if len(words) <= 1 {
		return true
	}
	if len(words) <= 3 {
		allGeneric := true
		for _, w := range words {
			if _, ok := genericNouns[w]; !ok {
				allGeneric = false
				break
			}
		}
		if allGeneric {
			return true
		}
	}
	return false
}

// LooksLikeCompanySite applies the acceptance heuristics to a crawled page:
// valid non-directory URL, path and title not blacklisted, title not generic.
// In strict mode the title or body snippet must additionally contain one of
// the domain keywords.
func LooksLikeCompanySite(rawURL, title, snippet string, strict bool) bool {
	if !IsValidURL(rawURL) {
		return false
	}
	if IsDirectoryDomain(DomainOf(rawURL)) {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	path := strings.ToLower(u.Path)
	for _, bad := range pathBlacklist {
		if strings.Contains(path, bad) {
			return false
		}
	}
	t := strings.ToLower(strings.TrimSpace(title))
	for _, bad := range titleBlacklist {
		if strings.Contains(t, bad) {
			return false
		}
	}
	if TitleLooksGeneric(t) {
		return false
	}
	if !strict {
		return true
	}
	body := strings.ToLower(snippet)
	for _, kw := range mustHaveKeywords {
		if strings.Contains(t, kw) || strings.Contains(body, kw) {
			return true
		}
	}
	return false
}

// MatchCompanyType returns the first target company type found in the text,
// or "" when none matches.
func MatchCompanyType(text string) string {
	if text == "" {
		return ""
	}
	lower := strings.ToLower(text)
	for _, ct := range TargetCompanyTypes {
		if strings.Contains(lower, strings.ToLower(ct)) {
			return ct
		}
	}
	return ""
}

// IndustryForKeyword maps a search keyword to an industry tag via the
// industry's leading word. Unmatched keywords tag as "General".
func IndustryForKeyword(keyword string) string {
	kw := strings.ToLower(keyword)
	for _, ind := range TargetIndustries {
		first, _, _ := strings.Cut(ind, " ")
		if strings.Contains(kw, strings.ToLower(first)) {
			return ind
		}
	}
	return "General"
}

package classify

import (
	"regexp"
	"sort"
	"strings"
)

var (
	nonDigitRe = regexp.MustCompile(`\D`)
	emailRe    = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)
)

// Email quality ranks. Same-domain addresses beat corporate addresses beat
// free-mail; invalid addresses rank zero.
const (
	RankInvalid    = 0
	RankFreeMail   = 1
	RankCorporate  = 2
	RankSameDomain = 3
)

// NormalizePhone strips everything but digits and keeps runs of 10 to 15
// digits. Longer runs are truncated to their last 15 digits; shorter runs
// are rejected with "".
func NormalizePhone(raw string) string {
	digits := nonDigitRe.ReplaceAllString(raw, "")
	if len(digits) > 15 {
		digits = digits[len(digits)-15:]
	}
	if len(digits) < 10 {
		return ""
	}
	return digits
}

// IsValidEmail reports whether the string passes the strict email grammar.
func IsValidEmail(email string) bool {
	return emailRe.MatchString(strings.TrimSpace(email))
}

// RankEmail scores an email's quality relative to the site it was found on.
func RankEmail(email, siteDomain string) int {
	if !IsValidEmail(email) {
		return RankInvalid
	}
	_, dom, _ := strings.Cut(email, "@")
	dom = strings.ToLower(dom)
	if siteDomain != "" && dom == siteDomain {
		return RankSameDomain
	}
	if _, ok := FreeMailDomains[dom]; ok {
		return RankFreeMail
	}
	return RankCorporate
}

// HasDirectoryMailSuffix reports whether the address belongs to a directory
// domain's mail system.
func HasDirectoryMailSuffix(email string) bool {
	e := strings.ToLower(email)
	for d := range DirectoryDomains {
		if strings.HasSuffix(e, "@"+d) {
			return true
		}
	}
	return false
}

// FuzzySimilarity computes an order-independent similarity ratio between two
// strings. Both sides are lowercased, whitespace-normalized, and word-sorted
// before a sequence-alignment ratio is taken, so minor word-order and
// punctuation differences between name variants score high.
func FuzzySimilarity(a, b string) float64 {
	return alignRatio(tokenSort(a), tokenSort(b))
}

func tokenSort(s string) string {
	words := strings.Fields(strings.ToLower(s))
	sort.Strings(words)
	return strings.Join(words, " ")
}

// alignRatio is 2*M/(len(a)+len(b)) where M is the total length of the
// longest-common-substring matching blocks between a and b.
func alignRatio(a, b string) float64 {
	if len(a)+len(b) == 0 {
		return 1
	}
	m := matchTotal(a, b)
	return 2 * float64(m) / float64(len(a)+len(b))
}

func matchTotal(a, b string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	bestI, bestJ, bestN := 0, 0, 0
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		cur[0] = 0
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
				if cur[j] > bestN {
					bestN = cur[j]
					bestI = i - cur[j]
					bestJ = j - cur[j]
				}
			} else {
				cur[j] = 0
			}
		}
		prev, cur = cur, prev
	}
	if bestN == 0 {
		return 0
	}
	// Recurse on the unmatched halves on either side of the block.
	return matchTotal(a[:bestI], b[:bestJ]) + bestN +
		matchTotal(a[bestI+bestN:], b[bestJ+bestN:])
}

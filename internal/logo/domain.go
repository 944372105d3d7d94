// Package logo resolves website logos: it validates a user-entered domain,
// walks an ordered list of favicon/logo providers until one yields a usable
// image, and falls back to a deterministic generated placeholder so callers
// always get something to display.
package logo

import (
	"regexp"
	"strings"
)

var domainRe = regexp.MustCompile(`^([a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}$`)

// CleanDomain strips the scheme, the "www." prefix, and any path, query, or
// fragment from a raw domain/URL string, and lowercases the rest. Returns ""
// when the remainder is shorter than 4 characters or contains no dot.
func CleanDomain(raw string) string {
	domain := strings.TrimSpace(raw)
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	domain = strings.TrimPrefix(domain, "www.")

	if i := strings.IndexAny(domain, "/?#"); i >= 0 {
		domain = domain[:i]
	}

	domain = strings.ToLower(strings.TrimSpace(domain))

	if len(domain) < 4 || !strings.Contains(domain, ".") {
		return ""
	}

	return domain
}

// ValidDomain reports whether the already-cleaned domain passes the length,
// dot, and character-pattern checks. Inputs rejected here never reach the
// network.
func ValidDomain(domain string) bool {
	if domain == "" {
		return false
	}
	if len(domain) < 4 || !strings.Contains(domain, ".") {
		return false
	}
	return domainRe.MatchString(domain)
}

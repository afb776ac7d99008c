package sync

import (
	"strings"
	"unicode"
)

// ValidDomainName reports whether a candidate string looks like a domain
// name the registrar could know about: one to three dot-separated labels,
// each 1-63 characters, with no whitespace anywhere. Candidates are checked
// before any API call is spent on them.
func ValidDomainName(name string) bool {
	if name == "" {
		return false
	}
	if strings.ContainsFunc(name, unicode.IsSpace) {
		return false
	}

	labels := strings.Split(name, ".")
	if len(labels) > 3 {
		return false
	}
	for _, label := range labels {
		if len(label) == 0 || len(label) > 63 {
			return false
		}
	}
	return true
}

// Package filter implements the ordered eligibility predicates applied
// after deduplication.
package filter

import "strings"

// ContainsAny returns true if any term appears (case-insensitive)
// anywhere in the combined fields. Blank terms never match.
func ContainsAny(terms []string, fields ...string) bool {
	if len(terms) == 0 {
		return false
	}
	combined := strings.ToLower(strings.Join(fields, " "))
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		if strings.Contains(combined, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

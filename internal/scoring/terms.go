package scoring

import (
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"
)

// termSet matches a fixed keyword list against lowercase text in a
// single pass. Keywords are reported in list order, as written.
type termSet struct {
	display []string
	matcher *ahocorasick.Matcher
}

func newTermSet(terms []string) termSet {
	seen := make(map[string]bool, len(terms))
	var display, dict []string
	for _, t := range terms {
		t = strings.TrimSpace(t)
		k := strings.ToLower(t)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		display = append(display, t)
		dict = append(dict, k)
	}
	if len(dict) == 0 {
		return termSet{}
	}
	return termSet{display: display, matcher: ahocorasick.NewStringMatcher(dict)}
}

func (s termSet) empty() bool { return s.matcher == nil }

// find returns the keywords that occur in lowered, which must already be
// lowercase.
func (s termSet) find(lowered string) []string {
	if s.matcher == nil || lowered == "" {
		return nil
	}
	hits := s.matcher.MatchThreadSafe([]byte(lowered))
	if len(hits) == 0 {
		return nil
	}
	found := make([]bool, len(s.display))
	for _, i := range hits {
		if i >= 0 && i < len(found) {
			found[i] = true
		}
	}
	out := make([]string, 0, len(hits))
	for i, ok := range found {
		if ok {
			out = append(out, s.display[i])
		}
	}
	return out
}

// Package dedupe collapses listings that point at the same posting.
package dedupe

import (
	"net/url"
	"slices"
	"strings"

	"jobmate/job-finder/internal/model"
)

// isTrackingParam reports whether a query key carries no identity.
func isTrackingParam(key string) bool {
	k := strings.ToLower(key)
	return k == "ref" || strings.HasPrefix(k, "utm_")
}

// CanonicalURL returns the identity form of raw: lowercase scheme and host,
// path without trailing slashes, tracking parameters removed and the rest
// sorted by key. ok is false when raw is not an absolute URL.
func CanonicalURL(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", false
	}

	// ParseQuery keeps every well-formed pair even when it reports an error.
	values, _ := url.ParseQuery(u.RawQuery)
	keys := make([]string, 0, len(values))
	for k := range values {
		if !isTrackingParam(k) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		vs := slices.Clone(values[k])
		slices.Sort(vs)
		for _, v := range vs {
			pairs = append(pairs, url.QueryEscape(k)+"="+url.QueryEscape(v))
		}
	}

	var b strings.Builder
	b.WriteString(strings.ToLower(u.Scheme))
	b.WriteString("://")
	b.WriteString(strings.ToLower(u.Host))
	b.WriteString(strings.TrimRight(u.EscapedPath(), "/"))
	if len(pairs) > 0 {
		b.WriteByte('?')
		b.WriteString(strings.Join(pairs, "&"))
	}
	return b.String(), true
}

// Key is the identity of a listing: its canonical URL, or lowercase
// title and company when the URL is unusable.
func Key(l model.Listing) string {
	if c, ok := CanonicalURL(l.URL); ok {
		return c
	}
	return strings.ToLower(l.Title) + "|" + strings.ToLower(l.Company)
}

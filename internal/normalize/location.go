package normalize

import (
	"fmt"
	"strings"
)

// addressKeys are read from a PostalAddress, in display order.
var addressKeys = []string{"streetAddress", "addressLocality", "addressRegion", "addressCountry"}

// fallbackKeys are read from an untyped location object.
var fallbackKeys = []string{"name", "addressLocality", "addressRegion", "addressCountry"}

// Location flattens a location value into one display string. It accepts
// plain strings, JSON-LD Place/PostalAddress objects and lists of either;
// list entries are de-duplicated case-insensitively in order.
func Location(v any) string {
	return Truncate(location(v), MaxLocationLength)
}

func location(v any) string {
	switch loc := v.(type) {
	case nil:
		return ""
	case string:
		return StripHTML(loc)
	case []string:
		items := make([]any, len(loc))
		for i, s := range loc {
			items[i] = s
		}
		return location(items)
	case []any:
		seen := make(map[string]bool, len(loc))
		parts := make([]string, 0, len(loc))
		for _, item := range loc {
			p := location(item)
			k := strings.ToLower(p)
			if p == "" || seen[k] {
				continue
			}
			seen[k] = true
			parts = append(parts, p)
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		return objectLocation(loc)
	default:
		return StripHTML(fmt.Sprint(loc))
	}
}

func objectLocation(obj map[string]any) string {
	switch strings.ToLower(fmt.Sprint(obj["@type"])) {
	case "place":
		if addr, ok := obj["address"]; ok && addr != nil {
			return location(addr)
		}
		return location(obj["name"])
	case "postaladdress":
		return joinKeys(obj, addressKeys)
	}
	return joinKeys(obj, fallbackKeys)
}

// joinKeys renders the listed keys of obj, recursing into nested values
// such as {"@type": "Country", "name": "DE"}.
func joinKeys(obj map[string]any, keys []string) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v, ok := obj[k]
		if !ok {
			continue
		}
		if p := location(v); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

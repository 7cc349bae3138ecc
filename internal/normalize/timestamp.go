package normalize

import (
	"strconv"
	"strings"
	"time"
)

// Bare integers of at least minEpochDigits digits are unix seconds; from
// minEpochMilliDigits on they are milliseconds.
const (
	minEpochDigits      = 9
	minEpochMilliDigits = 13
)

// timeLayouts are tried in order. Layouts without a zone are read as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	"02.01.2006",
}

// ParseTime reads a publication timestamp in any of the formats the
// sources are known to send, including unix seconds and milliseconds. It
// returns nil when the value is empty or unrecognised.
func ParseTime(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil && len(raw) >= minEpochDigits {
		t := time.Unix(n, 0).UTC()
		if len(raw) >= minEpochMilliDigits {
			t = time.UnixMilli(n).UTC()
		}
		return &t
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

package dedupe

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// minQualityTitle is the rune length from which a title counts as descriptive.
const minQualityTitle = 12

var (
	roleSignal  = regexp.MustCompile(`(?i)referent|manager|leitung|projekt|kommunikation|politik|public|koordination|sachbearbeiter|analyst|consultant`)
	coreRole    = regexp.MustCompile(`(?i)referent|manager|leitung|projekt|kommunikation|politik`)
	legalEntity = regexp.MustCompile(`(?i)gmbh|e\.v\.|\bag\b|\bkg\b|mbh|stiftung|verband|universit`)
)

// Quality rates how likely a title names a real job rather than a
// navigation link. Higher is better; the value only matters relative to
// siblings in the same bucket.
func Quality(title, company string) int {
	score := 0
	if utf8.RuneCountInString(title) >= minQualityTitle {
		score += 2
	}
	if roleSignal.MatchString(title) {
		score += 3
	}
	if company != "" && strings.EqualFold(strings.TrimSpace(title), strings.TrimSpace(company)) {
		score -= 3
	}
	if legalEntity.MatchString(title) && !coreRole.MatchString(title) {
		score -= 2
	}
	return score
}

package normalize

import (
	"regexp"
	"strings"
)

// DefaultNarrator is used when no narrator can be derived from the text.
const DefaultNarrator = "Prophet Muhammad (ﷺ)"

// narratedPrefix captures "Narrated Abu Huraira:" style openings.
var narratedPrefix = regexp.MustCompile(`(?i)^\s*narrated\s+(?:by\s+)?([^:\n]{2,60}?)\s*:`)

// knownNarrators is checked in order when the text has no "Narrated X:" prefix.
var knownNarrators = []struct {
	label   string
	pattern *regexp.Regexp
}{
	{"Abu Huraira", regexp.MustCompile(`(?i)\babu\s+hurair[a-z]*\b`)},
	{"Aisha", regexp.MustCompile(`(?i)\ba['‘]?isha\b`)},
	{"Ibn Umar", regexp.MustCompile(`(?i)\b(?:ibn|bin)\s+['‘]?umar\b`)},
	{"Ibn Abbas", regexp.MustCompile(`(?i)\b(?:ibn|bin)\s+['‘]?abbas\b`)},
	{"Anas bin Malik", regexp.MustCompile(`(?i)\banas\b`)},
	{"Jabir bin Abdullah", regexp.MustCompile(`(?i)\bjabir\b`)},
	{"Abu Said al-Khudri", regexp.MustCompile(`(?i)\babu\s+sa['‘]?e?id\b`)},
	{"Abdullah bin Masud", regexp.MustCompile(`(?i)\b(?:ibn|bin)\s+mas['‘]?ud\b`)},
	{"Abu Musa", regexp.MustCompile(`(?i)\babu\s+musa\b`)},
	{"Umar bin al-Khattab", regexp.MustCompile(`(?i)\bumar\s+(?:bin|ibn)\s+al-khattab\b`)},
	{"Ali bin Abi Talib", regexp.MustCompile(`(?i)\bali\s+(?:bin|ibn)\s+abi\s+talib\b`)},
}

// Narrator derives a short narrator label from the entry text.
func Narrator(text string) string {
	if m := narratedPrefix.FindStringSubmatch(text); m != nil {
		if name := strings.Trim(strings.TrimSpace(m[1]), "'\"‘’"); name != "" {
			return name
		}
	}
	for _, n := range knownNarrators {
		if n.pattern.MatchString(text) {
			return n.label
		}
	}
	return DefaultNarrator
}

package normalize

import "hadithhub/pkg/models"

// PlaceholderText replaces entries whose provider record has no text at all.
const PlaceholderText = "Text not available"

// Field fallback chains, most preferred first.
var (
	textFields    = []string{"translation", "text", "english", "hadith", "body"}
	nativeFields  = []string{"arabic", "arabictext", "native"}
	numberFields  = []string{"hadithnumber", "number"}
	chapterFields = []string{"chapter_title", "chapter"}
	sectionFields = []string{"section", "section_title"}
)

// firstNonEmpty returns the first non-empty string among fields.
func firstNonEmpty(raw models.RawEntry, fields []string) string {
	for _, f := range fields {
		if v := raw.String(f); v != "" {
			return v
		}
	}
	return ""
}

// firstNumber returns the first positive integer among fields.
func firstNumber(raw models.RawEntry, fields []string) (int, bool) {
	for _, f := range fields {
		if n, ok := raw.Int(f); ok {
			return n, true
		}
	}
	return 0, false
}

func optional(raw models.RawEntry, fields []string) *string {
	v := firstNonEmpty(raw, fields)
	if v == "" {
		return nil
	}
	return &v
}

package corpus

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"hadithhub/pkg/models"
)

// SignatureLength is the number of leading runes that identify an entry's text.
const SignatureLength = 100

// Signature returns the dedupe signature of text: its first SignatureLength
// runes, trimmed and case-folded.
func Signature(text string) string {
	t := strings.TrimSpace(text)
	if utf8.RuneCountInString(t) > SignatureLength {
		t = string([]rune(t)[:SignatureLength])
	}
	// a Caser keeps state, so one per call
	return strings.TrimSpace(cases.Fold().String(t))
}

type numberKey struct {
	collectionID string
	number       int
}

// Deduper remembers what it has seen so batches of one load can be filtered
// incrementally. The zero value is not usable; call NewDeduper.
type Deduper struct {
	signatures map[string]struct{}
	numbers    map[numberKey]struct{}
	Dropped    int
}

func NewDeduper() *Deduper {
	return &Deduper{
		signatures: make(map[string]struct{}),
		numbers:    make(map[numberKey]struct{}),
	}
}

// Keep reports whether e is new. An entry is a duplicate when its text
// signature was seen before, or when its collection already has an entry with
// the same number.
func (d *Deduper) Keep(e models.Entry) bool {
	sig := Signature(e.PrimaryText)
	key := numberKey{collectionID: e.CollectionID, number: e.EntryNumber}
	if _, dup := d.signatures[sig]; dup {
		d.Dropped++
		return false
	}
	if _, dup := d.numbers[key]; dup {
		d.Dropped++
		return false
	}
	d.signatures[sig] = struct{}{}
	d.numbers[key] = struct{}{}
	return true
}

// Filter returns the entries of batch that are new, in order.
func (d *Deduper) Filter(batch []models.Entry) []models.Entry {
	out := make([]models.Entry, 0, len(batch))
	for _, e := range batch {
		if d.Keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// Dedupe collapses near-duplicates, keeping the first occurrence.
func Dedupe(entries []models.Entry) []models.Entry {
	return NewDeduper().Filter(entries)
}

package search

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// ErrUnknownCitationCode is returned when the collection code of a citation
// maps to no collection.
var ErrUnknownCitationCode = errors.New("unknown citation collection code")

var citationPattern = regexp.MustCompile(`^(\d+):(\d+)$`)

// Citation is a parsed "N:M" reference: collection code N, entry number M.
type Citation struct {
	Code        string
	EntryNumber int
}

func (c Citation) String() string {
	return c.Code + ":" + strconv.Itoa(c.EntryNumber)
}

// ParseCitation reports whether q is a citation. Surrounding whitespace is
// ignored; anything else routes the query to free-text mode.
func ParseCitation(q string) (Citation, bool) {
	m := citationPattern.FindStringSubmatch(strings.TrimSpace(q))
	if m == nil {
		return Citation{}, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return Citation{}, false
	}
	return Citation{Code: m[1], EntryNumber: n}, true
}

package edition

import (
	"strconv"
	"strings"
)

// CollectionForCode maps a short numeric code ("1") to its collection id.
func (c *Catalog) CollectionForCode(code string) (string, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(code))
	if err != nil {
		return "", false
	}
	id, ok := c.byCode[n]
	return id, ok
}

// CodeForCollection is the reverse of CollectionForCode.
func (c *Catalog) CodeForCollection(id string) (int, bool) {
	col, ok := c.Get(id)
	if !ok {
		return 0, false
	}
	return col.Code, true
}

// FormatCitation renders the "N:M" citation for an entry of collection id.
func (c *Catalog) FormatCitation(id string, entryNumber int) (string, bool) {
	code, ok := c.CodeForCollection(id)
	if !ok || entryNumber <= 0 {
		return "", false
	}
	return strconv.Itoa(code) + ":" + strconv.Itoa(entryNumber), true
}

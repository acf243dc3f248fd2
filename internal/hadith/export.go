package hadith

import (
	"encoding/csv"
	"io"
	"strconv"

	"hadithhub/pkg/models"
)

// CSVHeader is the column order written by WriteCSV.
var CSVHeader = []string{
	"id", "collection_id", "collection_name", "entry_number", "reference",
	"attributed_to", "category", "theme", "grade", "primary_text", "native_text",
	"chapter", "section",
}

// WriteCSV writes entries, header first, in the given order.
func WriteCSV(w io.Writer, entries []models.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write([]string{
			strconv.FormatInt(e.ID, 10),
			e.CollectionID,
			e.CollectionName,
			strconv.Itoa(e.EntryNumber),
			e.Reference,
			e.AttributedTo,
			string(e.Category),
			e.Theme,
			string(e.Grade),
			e.PrimaryText,
			e.NativeText,
			deref(e.Chapter),
			deref(e.Section),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

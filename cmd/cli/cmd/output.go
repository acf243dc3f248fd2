package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"hadithhub/internal/hadith"
	"hadithhub/pkg/models"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorCyan   = "\033[36m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

const previewRunes = 240

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printView renders a view:
//
//	📖 Sahih al-Bukhari │ 50 of 7563 │ sort: number
//	  Sahih al-Bukhari 1  [high] Faith and Belief · Umar bin Al-Khattab
//	    Actions are judged by intentions...
func printView(v hadith.View) error {
	if flagJSON {
		return printJSON(v)
	}

	if v.Notice != "" {
		fmt.Printf("%s! %s%s\n", colorYellow, v.Notice, colorReset)
	}

	sortLabel := string(v.Sort)
	if sortLabel == "" {
		sortLabel = "default"
	}
	header := fmt.Sprintf("%s📖 %s%s │ %d of %d │ sort: %s", colorBold, v.CollectionID, colorReset, len(v.Entries), v.Total, sortLabel)
	if v.Query != "" {
		header += fmt.Sprintf(" │ query: %q", v.Query)
	}
	fmt.Println(header)

	for _, e := range v.Entries {
		fmt.Print(formatEntry(e))
	}
	if v.Cursor.HasMore {
		fmt.Printf("%s… %d more (use --more or --all)%s\n", colorGray, v.Total-v.Cursor.DisplayedCount, colorReset)
	}
	return nil
}

func formatEntry(e models.Entry) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("  %s%s%s  %s[%s]%s %s", colorCyan, e.Reference, colorReset, gradeColor(e.Grade), e.Grade, colorReset, e.Theme))
	if e.AttributedTo != "" {
		sb.WriteString(" · " + e.AttributedTo)
	}
	sb.WriteString("\n    " + preview(e.PrimaryText) + "\n")
	return sb.String()
}

func gradeColor(g models.Grade) string {
	switch g {
	case models.GradeHigh:
		return colorGreen
	case models.GradeMedium:
		return colorYellow
	default:
		return colorGray
	}
}

func preview(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= previewRunes {
		return s
	}
	return string([]rune(s)[:previewRunes]) + "…"
}

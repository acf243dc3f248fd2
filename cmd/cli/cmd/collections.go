package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"hadithhub/internal/edition"
)

var collectionsCmd = &cobra.Command{
	Use:   "collections",
	Short: "List known collections with their citation codes and languages",
	Args:  cobra.NoArgs,
	RunE:  runCollections,
}

type collectionRow struct {
	ID         string   `json:"id"`
	Code       int      `json:"code"`
	Name       string   `json:"name"`
	NativeName string   `json:"native_name"`
	Curated    bool     `json:"curated"`
	Languages  []string `json:"languages"`
}

func runCollections(cmd *cobra.Command, args []string) error {
	cat := edition.NewCatalog()
	res := edition.NewResolver()

	curated := make(map[string]bool)
	for _, c := range cat.Curated() {
		curated[c.ID] = true
	}

	var rows []collectionRow
	for _, c := range cat.All() {
		row := collectionRow{ID: c.ID, Code: c.Code, Name: c.Name, NativeName: c.NativeName, Curated: curated[c.ID]}
		for _, lang := range res.LanguagesFor(c.ID) {
			row.Languages = append(row.Languages, string(lang))
		}
		rows = append(rows, row)
	}
	if flagJSON {
		return printJSON(rows)
	}

	for _, r := range rows {
		mark := " "
		if r.Curated {
			mark = "*"
		}
		fmt.Printf("%s %s%2d%s  %-10s %s%s%s  %s  %s[%s]%s\n",
			mark, colorBold, r.Code, colorReset, r.ID, colorCyan, r.Name, colorReset,
			r.NativeName, colorGray, strings.Join(r.Languages, ","), colorReset)
	}
	fmt.Printf("%s* part of \"all\"; cite as <code>:<number>%s\n", colorGray, colorReset)
	return nil
}

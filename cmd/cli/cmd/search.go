package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

var (
	searchSort string
	searchAll  bool
)

var searchCmd = &cobra.Command{
	Use:   "search <collection> <query>",
	Short: "Search a collection",
	Long:  "Loads a collection and filters it by a case-insensitive substring over text, narrator, theme and reference. A query such as 2:15 is a citation and fetches that entry directly.",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchSort, "sort", "s", "", "sort key")
	searchCmd.Flags().BoolVar(&searchAll, "all", false, "print every match")
}

func runSearch(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	s := a.Engine.NewSession("cli")
	defer s.Close()

	if _, err := s.Load(cmd.Context(), args[0], flagLanguage); err != nil {
		return err
	}
	if searchSort != "" {
		if err := s.SetSort(searchSort); err != nil {
			return err
		}
	}
	s.Search(cmd.Context(), strings.Join(args[1:], " "))
	return printView(reveal(s, 0, searchAll))
}

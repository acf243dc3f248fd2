package cmd

import (
	"github.com/spf13/cobra"

	"hadithhub/internal/hadith"
)

var (
	loadSort  string
	loadPages int
	loadAll   bool
)

var loadCmd = &cobra.Command{
	Use:   "load <collection>",
	Short: "Load a collection and print its first page",
	Long:  `Loads a collection ("bukhari", "Sahih Muslim", "3" or "all") and prints the first page. --more reveals extra pages.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runLoad,
}

func init() {
	loadCmd.Flags().StringVarP(&loadSort, "sort", "s", "", "sort key: number, collection, narrator, theme, length, grade")
	loadCmd.Flags().IntVar(&loadPages, "more", 0, "number of extra pages to reveal")
	loadCmd.Flags().BoolVar(&loadAll, "all", false, "print every entry")
}

func runLoad(cmd *cobra.Command, args []string) error {
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
	if loadSort != "" {
		if err := s.SetSort(loadSort); err != nil {
			return err
		}
	}
	return printView(reveal(s, loadPages, loadAll))
}

// reveal applies n load-more steps, or all of them.
func reveal(s *hadith.Session, n int, all bool) hadith.View {
	view := s.Page()
	for i := 0; view.Cursor.HasMore && (all || i < n); i++ {
		view, _ = s.LoadMore()
	}
	return view
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"hadithhub/internal/search"
)

var citeCmd = &cobra.Command{
	Use:   "cite <code>:<number>",
	Short: "Fetch one entry by citation",
	Long:  "Fetches a single entry by collection code and entry number, e.g. 1:1 for the first entry of Sahih al-Bukhari.",
	Args:  cobra.ExactArgs(1),
	RunE:  runCite,
}

func runCite(cmd *cobra.Command, args []string) error {
	if _, ok := search.ParseCitation(args[0]); !ok {
		return fmt.Errorf("%q is not a citation; expected <code>:<number>", args[0])
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	s := a.Engine.NewSession("cli")
	defer s.Close()

	view := s.Search(cmd.Context(), args[0])
	if view.Total == 0 && !flagJSON {
		return fmt.Errorf("no entry found for %s", args[0])
	}
	return printView(view)
}

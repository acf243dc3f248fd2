package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"hadithhub/internal/edition"
	"hadithhub/internal/fetcher"
)

var editionsCheck bool

var editionsCmd = &cobra.Command{
	Use:   "editions",
	Short: "List mapped provider editions",
	Long:  "Lists the edition ids the engine can request. With --check, compares them against the provider's listing.",
	Args:  cobra.NoArgs,
	RunE:  runEditions,
}

func init() {
	editionsCmd.Flags().BoolVar(&editionsCheck, "check", false, "verify every mapped edition exists upstream")
}

func runEditions(cmd *cobra.Command, args []string) error {
	res := edition.NewResolver()
	if !editionsCheck {
		ids := res.EditionIDs()
		if flagJSON {
			return printJSON(ids)
		}
		for _, id := range ids {
			fmt.Println(id)
		}
		return nil
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()
	listing, err := a.HTTP.ListEditions(ctx)
	if err != nil {
		return err
	}
	missing := res.Missing(fetcher.Available(listing))
	if flagJSON {
		return printJSON(map[string]any{"provider": len(listing), "missing": missing})
	}
	for _, id := range missing {
		fmt.Printf("%smissing%s %s\n", colorYellow, colorReset, id)
	}
	fmt.Printf("%d editions upstream, %d mapped, %d missing\n", len(listing), len(res.EditionIDs()), len(missing))
	if len(missing) > 0 {
		return fmt.Errorf("%d mapped editions missing upstream", len(missing))
	}
	return nil
}

package cmd

import (
	"github.com/spf13/cobra"

	"hadithhub/internal/app"
	"hadithhub/pkg/utils"
)

var (
	flagLanguage string
	flagJSON     bool
)

var rootCmd = &cobra.Command{
	Use:           "hadith",
	Short:         "hadith: browse and search hadith collections",
	Long:          "Loads hadith collections from the public edition CDN (or a local mirror), then pages, sorts and searches them.",
	SilenceUsage:  true,
}

// newApp builds the runtime from the user's config file and environment.
func newApp() (*app.App, error) {
	cfg, err := utils.LoadConfig()
	if err != nil {
		return nil, err
	}
	if flagLanguage != "" {
		cfg.Engine.DefaultLanguage = flagLanguage
	}
	return app.New(cfg)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagLanguage, "language", "l", "", "edition language (english, french, ...)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "print JSON instead of text")

	rootCmd.AddCommand(collectionsCmd)
	rootCmd.AddCommand(editionsCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(citeCmd)
	rootCmd.AddCommand(watchCmd)
}

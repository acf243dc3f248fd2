// hadith is a terminal front end for the corpus engine.
package main

import (
	"os"

	"hadithhub/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

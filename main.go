// Package main is the entrypoint for the gitsafe CLI.
// It delegates all command handling to the cmd package.
package main

import (
	"os"

	"github.com/Ronak-jain-afk/GitSafe/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

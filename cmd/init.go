package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Ronak-jain-afk/GitSafe/internal/config"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter .gitsafe.toml in the current repository",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		repoRoot, err := os.Getwd()
		if err != nil {
			return err
		}
		path := filepath.Join(repoRoot, ".gitsafe.toml")
		if _, err := os.Stat(path); err == nil && !forceInit {
			return fmt.Errorf("init: %s already exists; use --force to overwrite", path)
		}
		if err := os.WriteFile(path, []byte(config.Template), 0o644); err != nil {
			return fmt.Errorf("init: writing %s: %w", path, err)
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&forceInit, "force", false, "overwrite an existing .gitsafe.toml")
	rootCmd.AddCommand(initCmd)
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Ronak-jain-afk/GitSafe/internal/hookinstall"
)

var forceHook bool

var hooksCmd = &cobra.Command{
	Use:   "hooks",
	Short: "Manage the gitsafe pre-commit git hook",
}

var hooksInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the gitsafe pre-commit hook",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		repoRoot, err := os.Getwd()
		if err != nil {
			return err
		}
		msg, err := hookinstall.Install(repoRoot, forceHook)
		if err != nil {
			return err
		}
		fmt.Println(msg)
		return nil
	},
}

var hooksUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the gitsafe pre-commit hook",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		repoRoot, err := os.Getwd()
		if err != nil {
			return err
		}
		msg, err := hookinstall.Uninstall(repoRoot)
		if err != nil {
			return err
		}
		fmt.Println(msg)
		return nil
	},
}

func init() {
	hooksInstallCmd.Flags().BoolVar(&forceHook, "force", false, "overwrite an existing pre-commit hook not installed by gitsafe")
	hooksCmd.AddCommand(hooksInstallCmd, hooksUninstallCmd)
	rootCmd.AddCommand(hooksCmd)
}

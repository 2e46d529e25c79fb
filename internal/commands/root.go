package commands

import (
	"github.com/spf13/cobra"

	"github.com/jotbook-dev/jotbook/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "jotbook",
		Short:   "Pocket bookkeeping that reads messy notes",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newAddCommand())
	rootCmd.AddCommand(newListCommand())
	rootCmd.AddCommand(newShareCommand())
	rootCmd.AddCommand(newDeleteCommand())
	rootCmd.AddCommand(newSyncCommand())
	rootCmd.AddCommand(newUploadCommand())

	return rootCmd
}

// Package cli handles the command-line interface logic
// using the Cobra library.
package cli

import (
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "twinren",
		Short: "twinren - rename images to their twin codes",
		Long: `twinren renames image files using a two-column mapping read from a CSV or
Excel file. Every row pairs two codes; a file whose name (without extension)
matches either code is copied to the output directory under the other one.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	rootCmd.AddCommand(NewRenameCmd())
	rootCmd.AddCommand(NewServeCmd())

	return rootCmd
}

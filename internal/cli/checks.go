package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/bitfuzz/internal/suite"
)

// NewChecksCommand creates the checks command.
func NewChecksCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "checks",
		Short: "List the invariant catalogue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := make([]string, 0, len(suite.All()))
			for _, c := range suite.All() {
				names = append(names, c.Name)
			}
			if rootOpts.Format == "json" {
				return printJSON(cmd.OutOrStdout(), names)
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

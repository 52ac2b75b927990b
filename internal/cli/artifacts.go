package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/bitfuzz/internal/store"
)

// ArtifactsOptions holds flags for the artifacts command.
type ArtifactsOptions struct {
	*RootOptions
	Database string
}

// NewArtifactsCommand creates the artifacts command with its subcommands.
func NewArtifactsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ArtifactsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "artifacts",
		Short: "Inspect the SQLite artifact store",
	}
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite artifact store (required)")
	_ = cmd.MarkPersistentFlagRequired("db")

	cmd.AddCommand(newArtifactsListCommand(opts))
	cmd.AddCommand(newArtifactsShowCommand(opts))
	return cmd
}

func newArtifactsListCommand(opts *ArtifactsOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List captured failure artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(opts.Database)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to open artifact store", err)
			}
			defer st.Close()

			records, err := st.ListArtifacts(cmd.Context())
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to list artifacts", err)
			}
			if opts.Format == "json" {
				return printJSON(cmd.OutOrStdout(), records)
			}
			for _, r := range records {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s  %s\n",
					r.RecordedAt.Format("2006-01-02T15:04:05Z"), r.ID, r.Invariant, r.Error)
			}
			return nil
		},
	}
}

func newArtifactsShowCommand(opts *ArtifactsOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one failure artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(opts.Database)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to open artifact store", err)
			}
			defer st.Close()

			rec, err := st.ReadArtifact(cmd.Context(), args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read artifact", err)
			}
			return printJSON(cmd.OutOrStdout(), rec)
		},
	}
}

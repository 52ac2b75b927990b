package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/bitfuzz/internal/fuzz"
	"github.com/roach88/bitfuzz/internal/generate"
)

// SampleOptions holds flags for the sample command.
type SampleOptions struct {
	*RootOptions
	MaxKeys int
	Seed    uint64
}

// NewSampleCommand creates the sample command. It prints one randomly
// generated subject, which is handy for eyeballing generator output and
// for producing inputs to replay by hand.
func NewSampleCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SampleOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Generate one random bitmap and print it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src := generate.New()
			if opts.Seed != 0 {
				src = generate.NewSeeded(opts.Seed)
			}
			b, err := src.Bitmap(opts.MaxKeys)
			if err != nil {
				return WrapExitError(ExitCommandError, "generation failed", err)
			}
			if opts.Format == "json" {
				return printJSON(cmd.OutOrStdout(), b)
			}
			fmt.Fprintln(cmd.OutOrStdout(), b)
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.MaxKeys, "max-keys", fuzz.DefaultMaxKeys, "structural complexity bound")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "fixed generator seed (0: random)")
	return cmd
}

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/lvstitch/globalview"
)

// newDefaultsCmd writes DefaultOptions as TOML to stdout or --output.
func newDefaultsCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "defaults",
		Short: "Print the default engine options as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := globalview.DefaultOptions()
			if output == "" {
				return opts.Encode(cmd.OutOrStdout())
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := opts.Encode(f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Infof("Wrote %s", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}

// errFlag reports an invalid flag value.
func errFlag(name string, v interface{}) error {
	return fmt.Errorf("invalid --%s: %v", name, v)
}

package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// version is printed by --version; set with -ldflags "-X ...cli.version=v1.2.3".
var version = "dev"

// NewRootCommand builds the command tree. Logs go to stderr; command output
// goes to the command's out writer.
func NewRootCommand() *cobra.Command {
	return newRootCommand(os.Stderr)
}

func newRootCommand(logOut io.Writer) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "lvstitch",
		Short:         "lvstitch stitches local views into a global embedding",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(logOut, level)))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newRunCmd())
	root.AddCommand(newDefaultsCmd())

	return root
}

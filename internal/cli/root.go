// Package cli implements the readplan command line: it reads a YAML plan
// file and writes the reading calendar as an .ics file.
package cli

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"readplan/internal/logging"
)

// Version is set at build time with -ldflags
var Version = "0.1.0"

// now is replaced in tests
var now = time.Now

// globals are the settings shared by every subcommand
type globals struct {
	logLevel string
	logger   *zap.Logger
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	g := &globals{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:          "readplan",
		Short:        "Turn a reading list into a calendar of reading sessions",
		Long:         `readplan schedules books into daily reading sessions, adds a review after each finished book and exports the plan as an iCalendar file.`,
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(g.logLevel, true)
			if err != nil {
				return err
			}
			g.logger = logger
			return nil
		},
	}
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(newGenerateCmd(g))
	root.AddCommand(newEstimateCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// Package cmd contains the localrag command line interface.
//
// Following the pattern used by kubectl, hugo, and other standard Go CLI
// tools, all application logic is contained in the cmd package, leaving
// main.go as a minimal entry point.
package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/localrag/localrag/internal/log"
)

var debugLog bool

var rootCmd = &cobra.Command{
	Use:   "localrag",
	Short: "localrag - retrieval-augmented answers from a local fact store",
	Long: `localrag answers a question using only facts retrieved from a local
pgvector-backed store. It embeds a small corpus, retrieves the nearest facts
for the question, and streams a grounded answer from a local or remote model.

Running localrag with a question is shorthand for 'localrag ask'.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runAsk(cmd, args)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// newLogger builds the process logger. Diagnostics go to stderr; stdout is
// reserved for the streamed answer.
func newLogger() log.Logger {
	level := slog.LevelInfo
	if debugLog || os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	return log.New(log.Config{Level: level})
}

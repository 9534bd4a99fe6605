package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop the fact table",
	Long: `Reset drops the fact table entirely. The next ingest recreates it,
which also allows switching to an embedding model with a different vector
dimension.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sess, err := newSession(ctx, newLogger())
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := sess.pipeline.Reset(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Fact table dropped")
	return nil
}

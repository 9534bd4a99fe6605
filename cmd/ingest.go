package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var ingestCorpusPath string

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Embed the corpus and store it without answering",
	Long: `Ingest ensures the fact table exists, embeds the corpus, and stores
the facts. The rows are kept, so a later 'ask --keep' against the same
database can reuse them.`,
	Args: cobra.NoArgs,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestCorpusPath, "corpus", "", "corpus file, one fact per line (default: built-in corpus)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := newLogger()

	corpus, err := loadCorpus(ingestCorpusPath)
	if err != nil {
		return err
	}

	sess, err := newSession(ctx, logger)
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := sess.pipeline.Ingest(ctx, corpus); err != nil {
		return err
	}

	count, err := sess.pipeline.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Ingested %d facts (%d stored rows)\n", len(corpus), count)
	return nil
}

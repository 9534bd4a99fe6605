package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/localrag/localrag/internal/config"
)

var (
	askCorpusPath string
	askKeep       bool
	askTopK       int
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question using the ingested facts",
	Long: `Ask ingests the corpus, retrieves the facts nearest to the question,
and streams a grounded answer to stdout. The question is taken from the
arguments, or read from stdin when no arguments are given.

By default the fact table is dropped when the answer completes, so repeated
runs do not accumulate duplicate rows. Use --keep to retain it.`,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askCorpusPath, "corpus", "", "corpus file, one fact per line (default: built-in corpus)")
	askCmd.Flags().BoolVar(&askKeep, "keep", false, "keep the fact table after answering")
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of facts to retrieve (default from config)")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := newLogger()

	question, err := readQuestion(args)
	if err != nil {
		return err
	}

	corpus, err := loadCorpus(askCorpusPath)
	if err != nil {
		return err
	}

	sess, err := newSession(ctx, logger, func(cfg *config.Config) {
		if askTopK > 0 {
			cfg.TopK = askTopK
		}
	})
	if err != nil {
		return err
	}
	defer sess.Close()

	out := cmd.OutOrStdout()
	if err := sess.pipeline.Run(ctx, corpus, question, out, askKeep); err != nil {
		return err
	}
	fmt.Fprintln(out)
	return nil
}

// readQuestion joins the arguments, or reads one line from stdin when no
// arguments are given.
func readQuestion(args []string) (string, error) {
	if len(args) > 0 {
		q := strings.TrimSpace(strings.Join(args, " "))
		if q == "" {
			return "", fmt.Errorf("question is empty")
		}
		return q, nil
	}

	fmt.Fprint(os.Stderr, "Ask your question:\n> ")
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("reading question: %w", err)
		}
		return "", fmt.Errorf("no question given")
	}
	q := strings.TrimSpace(scanner.Text())
	if q == "" {
		return "", fmt.Errorf("question is empty")
	}
	return q, nil
}

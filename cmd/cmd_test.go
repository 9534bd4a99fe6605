package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/localrag/localrag/internal/rag"
)

func TestRootCmd_SubcommandsRegistered(t *testing.T) {
	want := []string{"ask", "ingest", "reset", "version"}
	for _, name := range want {
		found := false
		for _, sub := range rootCmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetArgs(nil)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out.String(), "localrag") {
		t.Errorf("version output missing program name: %q", out.String())
	}
}

func TestReadQuestion_FromArgs(t *testing.T) {
	q, err := readQuestion([]string{"what", "are", "cats?"})
	if err != nil {
		t.Fatalf("readQuestion: %v", err)
	}
	if q != "what are cats?" {
		t.Errorf("question = %q", q)
	}
}

func TestReadQuestion_BlankArgs(t *testing.T) {
	if _, err := readQuestion([]string{"  ", ""}); err == nil {
		t.Error("expected error for blank question")
	}
}

func TestLoadCorpus_DefaultWhenNoPath(t *testing.T) {
	corpus, err := loadCorpus("")
	if err != nil {
		t.Fatalf("loadCorpus: %v", err)
	}
	if len(corpus) != len(rag.DefaultCorpus) {
		t.Errorf("got %d facts, want the built-in corpus of %d", len(corpus), len(rag.DefaultCorpus))
	}
}

func TestAskCmd_Flags(t *testing.T) {
	for _, name := range []string{"corpus", "keep", "top-k"} {
		if askCmd.Flags().Lookup(name) == nil {
			t.Errorf("ask is missing the --%s flag", name)
		}
	}
	if f := askCmd.Flags().ShorthandLookup("k"); f == nil || f.Name != "top-k" {
		t.Error("-k is not wired to --top-k")
	}
}

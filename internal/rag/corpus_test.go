package rag

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/localrag/localrag/internal/knowledge"
)

func writeCorpusFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "corpus.txt")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing corpus file: %v", err)
	}
	return path
}

func TestLoadCorpus(t *testing.T) {
	path := writeCorpusFile(t, `# party roster
cats are mammals

  rockets use thrust
# trailing comment
water is wet
`)

	facts, err := LoadCorpus(path)
	if err != nil {
		t.Fatalf("LoadCorpus: %v", err)
	}

	want := []string{"cats are mammals", "rockets use thrust", "water is wet"}
	if len(facts) != len(want) {
		t.Fatalf("got %d facts, want %d: %v", len(facts), len(want), facts)
	}
	for i := range want {
		if facts[i] != want[i] {
			t.Errorf("facts[%d] = %q, want %q", i, facts[i], want[i])
		}
	}
}

func TestLoadCorpus_OverlongFact(t *testing.T) {
	long := strings.Repeat("x", knowledge.MaxTextLength+1)
	path := writeCorpusFile(t, "short fact\n"+long+"\n")

	_, err := LoadCorpus(path)
	if err == nil {
		t.Fatal("expected error for overlong fact")
	}
	if !strings.Contains(err.Error(), ":2:") {
		t.Errorf("error does not name the offending line: %v", err)
	}
}

func TestLoadCorpus_Empty(t *testing.T) {
	path := writeCorpusFile(t, "# only comments\n\n")

	if _, err := LoadCorpus(path); err == nil {
		t.Fatal("expected error for corpus without facts")
	}
}

func TestLoadCorpus_MissingFile(t *testing.T) {
	if _, err := LoadCorpus(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDefaultCorpus_FitsTextBound(t *testing.T) {
	if len(DefaultCorpus) == 0 {
		t.Fatal("default corpus is empty")
	}
	for i, fact := range DefaultCorpus {
		if len(fact) > knowledge.MaxTextLength {
			t.Errorf("default corpus fact %d is %d characters, exceeds %d",
				i, len(fact), knowledge.MaxTextLength)
		}
	}
}

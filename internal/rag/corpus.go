package rag

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/localrag/localrag/internal/knowledge"
)

// DefaultCorpus is the built-in example corpus, used when no corpus file is
// supplied.
var DefaultCorpus = []string{
	"Juzbo is a goblin booyahg that has turned into a party NPC much to the DMs annoyance",
	"Big Honker is a T-rex and the party's mascot. He is present on all of the party's armor pieces",
	"Chal C'pyryte is a copper Dragonborn fighter in the party and has something like 80 grandkids",
	"Nixie Vetra, real name Brigitte Wahls, is the party's Human Wizard and also the one that adopted Juzbo",
	"Saeth, short for Saethaleil Nailo, is the himbo Elf Bard of the party inspired by Aragorn from Lord of the Rings",
	"Oscar Seabringer is the Human Ranger of the party, he's known for catching fish by tickling them.",
	"Cleric-Kun is the Half-Elf Cleric of the party and is played by a first timer. He tends to just shoot arrows.",
}

// LoadCorpus reads a corpus file: one fact per line, blank lines and lines
// starting with '#' skipped. Facts longer than the store's text bound are
// rejected up front rather than failing mid-ingestion.
func LoadCorpus(path string) ([]string, error) {
	f, err := os.Open(path) // #nosec G304 -- path comes from an explicit CLI flag
	if err != nil {
		return nil, fmt.Errorf("opening corpus file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	var (
		facts []string
		line  int
	)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if len(text) > knowledge.MaxTextLength {
			return nil, fmt.Errorf("%s:%d: fact length %d exceeds %d characters",
				path, line, len(text), knowledge.MaxTextLength)
		}
		facts = append(facts, text)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading corpus file: %w", err)
	}

	if len(facts) == 0 {
		return nil, fmt.Errorf("corpus file %s contains no facts", path)
	}
	return facts, nil
}

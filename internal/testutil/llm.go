package testutil

import (
	"context"
	"sync"

	"github.com/localrag/localrag/internal/llm"
)

// Generator is a scripted llm.Generator for tests. It records the message
// lists it receives and replays a fixed token sequence.
type Generator struct {
	// Tokens is the sequence streamed to the callback.
	Tokens []string

	// Err, when non-nil, is returned after FailAfter tokens have been
	// delivered (0 means fail before any token).
	Err       error
	FailAfter int

	mu       sync.Mutex
	requests [][]llm.Message
}

// Stream replays the scripted tokens.
func (g *Generator) Stream(ctx context.Context, msgs []llm.Message, fn llm.StreamFunc) error {
	g.mu.Lock()
	g.requests = append(g.requests, append([]llm.Message(nil), msgs...))
	g.mu.Unlock()

	for i, tok := range g.Tokens {
		if g.Err != nil && i >= g.FailAfter {
			return g.Err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(ctx, tok); err != nil {
			return err
		}
	}
	if g.Err != nil && g.FailAfter >= len(g.Tokens) {
		return g.Err
	}
	return nil
}

// Requests returns every message list passed to Stream, in call order.
func (g *Generator) Requests() [][]llm.Message {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([][]llm.Message(nil), g.requests...)
}

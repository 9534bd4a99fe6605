package rag

import (
	"context"
	"fmt"

	"github.com/localrag/localrag/internal/llm"
)

// SystemPrompt frames the model as a retrieval-grounded answerer. The facts
// arrive as assistant-role context messages ahead of the question.
const SystemPrompt = "You are a helpful assistant. Answer the user's question using only the " +
	"facts provided in this conversation. If the facts do not contain the answer, say so " +
	"instead of guessing."

// Answerer composes retrieved facts and a question into a generation request
// and streams the model's answer.
type Answerer struct {
	generator llm.Generator
}

// NewAnswerer creates an Answerer.
func NewAnswerer(generator llm.Generator) *Answerer {
	return &Answerer{generator: generator}
}

// Answer builds the message list (one system instruction, one assistant
// message per retrieved fact in nearest-first order, and the raw question as
// the final user message), then streams the response verbatim
// through fn. It is a pure composition step: no buffering, no summarizing,
// no post-processing of tokens.
func (a *Answerer) Answer(ctx context.Context, question string, facts []string, fn llm.StreamFunc) error {
	if question == "" {
		return fmt.Errorf("question is required")
	}

	msgs := make([]llm.Message, 0, len(facts)+2)
	msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: SystemPrompt})
	for _, fact := range facts {
		msgs = append(msgs, llm.Message{Role: llm.RoleAssistant, Content: fact})
	}
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: question})

	return a.generator.Stream(ctx, msgs, fn)
}

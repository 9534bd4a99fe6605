// Package llm wraps chat/generation services behind the Generator interface.
//
// Generation output is a forward-only, in-order token stream delivered through
// a callback. The stream is finite and not restartable; cancellation is
// honored between tokens via the context or a callback error. Generators do
// not retry: any failure surfaces immediately as ErrGenerationService, and
// tokens already delivered are not retracted.
package llm

import (
	"context"
	"errors"
)

// ErrGenerationService indicates the generation call failed before or during
// streaming. When it fails mid-stream the caller has already seen a partial
// answer; that output stands, followed by this error.
var ErrGenerationService = errors.New("generation service error")

// Role tags a message with its conversational role.
type Role string

const (
	// RoleSystem frames the assistant's behavior.
	RoleSystem Role = "system"

	// RoleAssistant carries context the assistant is assumed to know,
	// including retrieved facts.
	RoleAssistant Role = "assistant"

	// RoleUser carries the user's question.
	RoleUser Role = "user"
)

// Message is a single role-tagged entry in a generation request.
type Message struct {
	Role    Role
	Content string
}

// StreamFunc receives one token of streamed output. Returning an error stops
// the stream; that error is returned from Stream unwrapped, since it is the
// consumer's decision, not a service failure.
type StreamFunc func(ctx context.Context, token string) error

// Generator submits an ordered message list to a generation model and streams
// the response verbatim.
type Generator interface {
	Stream(ctx context.Context, msgs []Message, fn StreamFunc) error
}

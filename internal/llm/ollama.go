package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	ollama "github.com/ollama/ollama/api"
)

// OllamaGenerator streams chat completions from a local Ollama server.
type OllamaGenerator struct {
	client *ollama.Client
	model  string
}

// NewOllamaGenerator creates a generator backed by the Ollama chat API.
// baseURL defaults to http://localhost:11434 when empty.
func NewOllamaGenerator(model, baseURL string) (*OllamaGenerator, error) {
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	client := ollama.NewClient(parsedURL, http.DefaultClient)

	return &OllamaGenerator{client: client, model: model}, nil
}

// Stream submits the message list and forwards response tokens to fn in
// arrival order.
func (g *OllamaGenerator) Stream(ctx context.Context, msgs []Message, fn StreamFunc) error {
	if len(msgs) == 0 {
		return fmt.Errorf("%w: no messages", ErrGenerationService)
	}

	chatMsgs := make([]ollama.Message, len(msgs))
	for i, m := range msgs {
		chatMsgs[i] = ollama.Message{Role: string(m.Role), Content: m.Content}
	}

	stream := true
	req := &ollama.ChatRequest{
		Model:    g.model,
		Messages: chatMsgs,
		Stream:   &stream,
	}

	// The ollama client returns a callback error verbatim, so remember it to
	// tell consumer aborts apart from service failures.
	var cbErr error
	err := g.client.Chat(ctx, req, func(resp ollama.ChatResponse) error {
		if resp.Message.Content == "" {
			return nil
		}
		if err := fn(ctx, resp.Message.Content); err != nil {
			cbErr = err
			return err
		}
		return nil
	})
	if err != nil {
		if cbErr != nil {
			return cbErr
		}
		return fmt.Errorf("%w: %v", ErrGenerationService, err)
	}
	return nil
}

package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiGenerator streams chat completions from the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a generator backed by the Gemini API. The API
// key is read from the GEMINI_API_KEY environment variable by the genai
// client.
func NewGeminiGenerator(ctx context.Context, model string) (*GeminiGenerator, error) {
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	return &GeminiGenerator{client: client, model: model}, nil
}

// Stream submits the message list and forwards response tokens to fn.
//
// Gemini has no system or assistant message rows in the request body:
// RoleSystem maps to the SystemInstruction config field and RoleAssistant to
// model-role content.
func (g *GeminiGenerator) Stream(ctx context.Context, msgs []Message, fn StreamFunc) error {
	if len(msgs) == 0 {
		return fmt.Errorf("%w: no messages", ErrGenerationService)
	}

	var cfg genai.GenerateContentConfig
	contents := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case RoleSystem:
			cfg.SystemInstruction = genai.NewContentFromText(m.Content, genai.RoleUser)
		case RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		case RoleUser:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		default:
			return fmt.Errorf("%w: unknown role %q", ErrGenerationService, m.Role)
		}
	}

	for chunk, err := range g.client.Models.GenerateContentStream(ctx, g.model, contents, &cfg) {
		if err != nil {
			return fmt.Errorf("%w: %v", ErrGenerationService, err)
		}

		token := chunk.Text()
		if token == "" {
			continue
		}
		if err := fn(ctx, token); err != nil {
			return err
		}
	}

	return nil
}

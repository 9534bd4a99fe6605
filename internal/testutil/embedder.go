package testutil

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sync"
)

// Embedder is a deterministic in-process embedder for tests. Vectors are
// derived from a hash of the input text, so equal texts always embed to equal
// vectors and distinct texts are far apart with overwhelming probability.
//
// Embedder is safe for concurrent use.
type Embedder struct {
	Dim int

	// Vectors overrides the hash-derived vector per text when set.
	Vectors map[string][]float32

	// Err, when non-nil, is returned by every call.
	Err error

	mu    sync.Mutex
	calls [][]string
}

// NewEmbedder creates a deterministic test embedder of the given dimension.
func NewEmbedder(dim int) *Embedder {
	return &Embedder{Dim: dim}
}

// Embed generates the embedding for a single text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch generates embeddings for a batch of texts.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	e.calls = append(e.calls, texts)
	e.mu.Unlock()

	if e.Err != nil {
		return nil, e.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		if v, ok := e.Vectors[text]; ok {
			vectors[i] = v
			continue
		}
		vectors[i] = e.hashVector(text)
	}
	return vectors, nil
}

// Dimension returns the embedder's vector dimension.
func (e *Embedder) Dimension() int {
	return e.Dim
}

// Calls returns every batch passed to EmbedBatch, in call order.
func (e *Embedder) Calls() [][]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([][]string(nil), e.calls...)
}

// hashVector derives a unit-scale vector from the text's SHA-256 digest.
func (e *Embedder) hashVector(text string) []float32 {
	vec := make([]float32, e.Dim)
	digest := sha256.Sum256([]byte(text))
	for i := range vec {
		if i%len(digest) == 0 && i > 0 {
			digest = sha256.Sum256(digest[:])
		}
		bits := binary.LittleEndian.Uint16([]byte{digest[i%len(digest)], digest[(i+1)%len(digest)]})
		vec[i] = float32(bits)/65535 - 0.5
	}
	return vec
}

// String implements fmt.Stringer for test failure output.
func (e *Embedder) String() string {
	return fmt.Sprintf("testutil.Embedder(dim=%d)", e.Dim)
}

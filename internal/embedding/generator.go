// Package embedding turns texts into fixed-length vectors, falling back to a
// deterministic byte-sum vector when no embedder is available.
package embedding

import (
	"context"
	"fmt"

	"github.com/ppiankov/aletheia/internal/llm"
	"github.com/ppiankov/aletheia/internal/model"
)

// MaxInputChars limits the text sent for embedding
const MaxInputChars = 1000

// Generator embeds texts through an llm.Embedder
type Generator struct {
	embedder llm.Embedder
}

// NewGenerator creates a generator. A nil embedder always uses the fallback.
func NewGenerator(embedder llm.Embedder) *Generator {
	return &Generator{embedder: embedder}
}

// Configured reports whether a real embedder is set
func (g *Generator) Configured() bool {
	return g != nil && g.embedder != nil
}

// Embed returns one vector per text, in input order. If any request fails the
// whole batch switches to fallback vectors so callers always get the same shape.
func (g *Generator) Embed(ctx context.Context, texts []string) model.Outcome[[]model.EmbeddingVector] {
	if !g.Configured() {
		return model.Skipped(Fallback(texts))
	}

	vectors := make([]model.EmbeddingVector, 0, len(texts))
	for i, text := range texts {
		text = truncateRunes(text, MaxInputChars)
		values, err := g.embedder.Embed(ctx, text)
		if err != nil {
			return model.Failed(Fallback(texts), fmt.Errorf("embed text %d: %w", i, err))
		}
		vectors = append(vectors, model.EmbeddingVector{
			ID:     model.DocumentID(text),
			Values: fitDimensions(values),
		})
	}
	return model.Succeeded(vectors)
}

// Fallback derives a vector from each text's byte sum: every component is
// (sum of UTF-8 bytes mod 100) / 100.
func Fallback(texts []string) []model.EmbeddingVector {
	vectors := make([]model.EmbeddingVector, 0, len(texts))
	for _, text := range texts {
		text = truncateRunes(text, MaxInputChars)

		sum := 0
		for _, b := range []byte(text) {
			sum += int(b)
		}
		v := float32(sum%100) / 100.0

		values := make([]float32, model.EmbeddingDimensions)
		for i := range values {
			values[i] = v
		}
		vectors = append(vectors, model.EmbeddingVector{
			ID:     model.DocumentID(text),
			Values: values,
		})
	}
	return vectors
}

// fitDimensions zero-pads or truncates to EmbeddingDimensions
func fitDimensions(values []float32) []float32 {
	out := make([]float32, model.EmbeddingDimensions)
	copy(out, values)
	return out
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

package model

import (
	"fmt"

	"github.com/OneOfOne/xxhash"
)

// EmbeddingDimensions is the length of every stored vector
const EmbeddingDimensions = 1536

// EmbeddingVector is a document id with its vector
type EmbeddingVector struct {
	ID     string    `json:"id"`
	Values []float32 `json:"values"`
}

// DocumentID derives a stable id from document text.
// Identical text always yields the same id across processes.
func DocumentID(text string) string {
	return fmt.Sprintf("doc-%016x", xxhash.Checksum64([]byte(text)))
}

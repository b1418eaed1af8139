// Package embedding provides clients that turn text into fixed-dimensionality
// embedding vectors.
package embedding

import (
	"context"
)

// Embedder turns text into embedding vectors. Implementations must return
// one vector per input text, in input order, all with the same
// dimensionality.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

package embedding

import (
	"context"
)

// Static is a deterministic Embedder for tests and offline runs. It maps
// each text to a pseudo-vector derived from its bytes; identical texts get
// identical vectors, and no semantic quality is implied.
type Static struct {
	// Dim is the vector dimensionality. Defaults to 16 when <= 0.
	Dim int
}

var _ Embedder = (*Static)(nil)

// NewStatic creates a Static embedder with the given dimensionality.
func NewStatic(dim int) *Static {
	if dim <= 0 {
		dim = 16
	}
	return &Static{Dim: dim}
}

// Embed maps texts to deterministic vectors.
func (e *Static) Embed(_ context.Context, texts []string) ([][]float32, error) {
	dim := e.Dim
	if dim <= 0 {
		dim = 16
	}

	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec := make([]float32, dim)
		if len(t) == 0 {
			out[i] = vec
			continue
		}
		for j := 0; j < dim; j++ {
			b := t[j%len(t)]
			vec[j] = float32(int(b%97)+j) / 100.0
		}
		out[i] = vec
	}
	return out, nil
}

// Package agent invokes the hosted research agent that discovers and distills
// web sources for a topic.
package agent

import (
	"context"
)

// Snippet represents a single researched web source.
type Snippet struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
	Summary string `json:"summary"`
}

// Researcher produces research snippets for a topic.
type Researcher interface {
	Research(ctx context.Context, topic string) ([]Snippet, error)
}

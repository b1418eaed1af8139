// Package summary produces executive summaries of research findings.
package summary

import (
	"context"
	"net/http"

	"github.com/hupe1980/researchgo/internal/openaiapi"
)

// Summarizer turns a query and a list of finding bullet points into a
// concise summary.
type Summarizer interface {
	Summarize(ctx context.Context, query string, bullets []string) (string, error)
}

// OpenAIOptions contains configuration options for the OpenAI summarizer.
type OpenAIOptions struct {
	// BaseURL is the API base URL. Empty selects the OpenAI API.
	BaseURL string

	// Model is the summarization model.
	Model string

	// HTTPClient overrides the default HTTP client.
	HTTPClient *http.Client

	// RequestsPerSecond enables client-side rate limiting when > 0.
	RequestsPerSecond float64
}

// DefaultOpenAIOptions contains the default configuration options for the
// OpenAI summarizer.
var DefaultOpenAIOptions = OpenAIOptions{
	Model: "gpt-4.1-mini",
}

// OpenAI is a Summarizer backed by the OpenAI responses API.
type OpenAI struct {
	client *openaiapi.Client
	opts   OpenAIOptions
}

var _ Summarizer = (*OpenAI)(nil)

// NewOpenAI creates an OpenAI summarizer.
func NewOpenAI(apiKey string, optFns ...func(o *OpenAIOptions)) *OpenAI {
	opts := DefaultOpenAIOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	return &OpenAI{
		client: openaiapi.New(opts.BaseURL, apiKey, opts.HTTPClient, opts.RequestsPerSecond),
		opts:   opts,
	}
}

// Summarize writes an executive summary of the findings.
func (s *OpenAI) Summarize(ctx context.Context, query string, bullets []string) (string, error) {
	return s.client.CreateResponse(ctx, s.opts.Model, "", buildPrompt(query, bullets))
}

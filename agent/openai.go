package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/hupe1980/researchgo/internal/openaiapi"
)

// DefaultInstructions is the system prompt for the research agent.
const DefaultInstructions = "You are an autonomous research assistant that specializes in data science. " +
	"Given a topic, you plan a brief research sprint, browse credible sources, " +
	"extract the most important quantitative insights, and compile a factual summary."

// OpenAIOptions contains configuration options for the OpenAI research agent.
type OpenAIOptions struct {
	// BaseURL is the API base URL. Empty selects the OpenAI API.
	BaseURL string

	// Model is the agent model.
	Model string

	// Instructions is the agent system prompt.
	Instructions string

	// MaxResults caps the number of sources the agent is asked for.
	MaxResults int

	// HTTPClient overrides the default HTTP client.
	HTTPClient *http.Client

	// RequestsPerSecond enables client-side rate limiting when > 0.
	RequestsPerSecond float64
}

// DefaultOpenAIOptions contains the default configuration options for the
// OpenAI research agent.
var DefaultOpenAIOptions = OpenAIOptions{
	Model:        "gpt-4.1-mini",
	Instructions: DefaultInstructions,
	MaxResults:   5,
}

// OpenAI is a Researcher backed by the OpenAI responses API. The agent is
// asked to return its findings as a JSON array of sources.
type OpenAI struct {
	client *openaiapi.Client
	opts   OpenAIOptions
}

var _ Researcher = (*OpenAI)(nil)

// NewOpenAI creates an OpenAI research agent.
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

// Research runs a single research sprint for the topic.
func (a *OpenAI) Research(ctx context.Context, topic string) ([]Snippet, error) {
	input := fmt.Sprintf(
		"Research the following data science topic. Return a JSON array of objects "+
			"with title, url, summary, and the most relevant content you discovered. "+
			"Limit to %d high quality sources.\n\nTopic: %s",
		a.opts.MaxResults, topic,
	)

	text, err := a.client.CreateResponse(ctx, a.opts.Model, a.opts.Instructions, input)
	if err != nil {
		return nil, err
	}

	return ParseSnippets(text)
}

type snippetPayload struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
	Body    string `json:"body"`
	Summary string `json:"summary"`
}

// ParseSnippets extracts the JSON array of sources from the agent's output.
// Models wrap JSON in code fences or prose more often than not, so anything
// around the outermost array is ignored.
func ParseSnippets(text string) ([]Snippet, error) {
	raw, err := extractJSONArray(text)
	if err != nil {
		return nil, err
	}

	var payload []snippetPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("agent response was not a valid JSON array: %w", err)
	}

	snippets := make([]Snippet, 0, len(payload))
	for i, item := range payload {
		if item.Title == "" {
			return nil, fmt.Errorf("missing title in source #%d", i)
		}
		content := item.Content
		if content == "" {
			content = item.Body
		}
		snippets = append(snippets, Snippet{
			Title:   item.Title,
			URL:     item.URL,
			Content: content,
			Summary: item.Summary,
		})
	}

	return snippets, nil
}

func extractJSONArray(text string) (string, error) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end == -1 || end < start {
		preview := text
		if len(preview) > 200 {
			preview = preview[:200]
		}
		return "", fmt.Errorf("agent response contains no JSON array: %q", preview)
	}
	return text[start : end+1], nil
}

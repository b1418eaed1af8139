package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// OpenAIOptions contains configuration options for the OpenAI embedder.
type OpenAIOptions struct {
	// BaseURL is the API base URL. Empty selects the OpenAI API.
	BaseURL string

	// Model is the embedding model.
	Model string

	// Dimensions requests reduced-dimensionality output from models that
	// support it. Zero keeps the model default.
	Dimensions int

	// BatchSize caps how many texts go into a single API request.
	BatchSize int

	// HTTPClient overrides the default HTTP client.
	HTTPClient *http.Client

	// RequestsPerSecond enables client-side rate limiting when > 0.
	RequestsPerSecond float64
}

// DefaultOpenAIOptions contains the default configuration options for the
// OpenAI embedder.
var DefaultOpenAIOptions = OpenAIOptions{
	BaseURL:   "https://api.openai.com/v1",
	Model:     "text-embedding-3-large",
	BatchSize: 64,
}

// OpenAI is an Embedder backed by the OpenAI embeddings endpoint.
type OpenAI struct {
	apiKey  string
	opts    OpenAIOptions
	client  *http.Client
	limiter *rate.Limiter
}

var _ Embedder = (*OpenAI)(nil)

// NewOpenAI creates an OpenAI embedder.
func NewOpenAI(apiKey string, optFns ...func(o *OpenAIOptions)) *OpenAI {
	opts := DefaultOpenAIOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.BaseURL == "" {
		opts.BaseURL = DefaultOpenAIOptions.BaseURL
	}
	if opts.Model == "" {
		opts.Model = DefaultOpenAIOptions.Model
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultOpenAIOptions.BatchSize
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 60 * time.Second}
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")

	e := &OpenAI{
		apiKey: apiKey,
		opts:   opts,
		client: opts.HTTPClient,
	}
	if opts.RequestsPerSecond > 0 {
		e.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	return e
}

type embeddingRequest struct {
	Input      []string `json:"input"`
	Model      string   `json:"model"`
	Dimensions int      `json:"dimensions,omitempty"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// Embed generates one embedding vector per input text, batching requests
// according to BatchSize.
func (e *OpenAI) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	if e.apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += e.opts.BatchSize {
		end := min(start+e.opts.BatchSize, len(texts))

		vectors, err := e.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, vectors...)
	}

	return out, nil
}

func (e *OpenAI) embedBatch(ctx context.Context, batch []string) ([][]float32, error) {
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	data, err := json.Marshal(embeddingRequest{
		Input:      batch,
		Model:      e.opts.Model,
		Dimensions: e.opts.Dimensions,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.opts.BaseURL+"/embeddings", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("embeddings API error: %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	var apiResp embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(apiResp.Data) != len(batch) {
		return nil, fmt.Errorf("embedding response mismatch: got %d vectors, want %d", len(apiResp.Data), len(batch))
	}

	vectors := make([][]float32, len(apiResp.Data))
	for i, d := range apiResp.Data {
		vectors[i] = d.Embedding
	}
	return vectors, nil
}

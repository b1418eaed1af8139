// Package openaiapi is a minimal client for the OpenAI responses endpoint,
// shared by the research agent and the summarizer.
package openaiapi

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

// DefaultBaseURL is the OpenAI API base URL.
const DefaultBaseURL = "https://api.openai.com/v1"

// Client calls the responses endpoint of an OpenAI-compatible API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
}

// New creates a Client. baseURL defaults to the OpenAI API; httpClient
// defaults to a client with a generous timeout (agent runs browse the web
// server-side and can take a while). rps > 0 enables client-side rate
// limiting of outgoing requests.
func New(baseURL, apiKey string, httpClient *http.Client, rps float64) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Minute}
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    httpClient,
	}
	if rps > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return c
}

type responseRequest struct {
	Model        string `json:"model"`
	Instructions string `json:"instructions,omitempty"`
	Input        string `json:"input"`
}

type responseBody struct {
	Output []struct {
		Type    string `json:"type"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// CreateResponse sends a single-turn request and returns the concatenated
// output text.
func (c *Client) CreateResponse(ctx context.Context, model, instructions, input string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("API key is required")
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	data, err := json.Marshal(responseRequest{
		Model:        model,
		Instructions: instructions,
		Input:        input,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/responses", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("responses API error: %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	var body responseBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if body.Error != nil {
		return "", fmt.Errorf("responses API error: %s", body.Error.Message)
	}

	var sb strings.Builder
	for _, out := range body.Output {
		if out.Type != "message" && out.Type != "" {
			continue
		}
		for _, content := range out.Content {
			if content.Type == "output_text" || content.Type == "" {
				sb.WriteString(content.Text)
			}
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("responses API returned no output text")
	}
	return text, nil
}

package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSnippets(t *testing.T) {
	t.Run("PlainArray", func(t *testing.T) {
		snippets, err := ParseSnippets(`[{"title":"T","url":"https://t","content":"body","summary":"gist"}]`)
		require.NoError(t, err)
		require.Len(t, snippets, 1)
		assert.Equal(t, Snippet{Title: "T", URL: "https://t", Content: "body", Summary: "gist"}, snippets[0])
	})

	t.Run("FencedArray", func(t *testing.T) {
		text := "Here are the sources:\n```json\n[{\"title\":\"T\",\"url\":\"https://t\"}]\n```\nDone."
		snippets, err := ParseSnippets(text)
		require.NoError(t, err)
		require.Len(t, snippets, 1)
		assert.Equal(t, "T", snippets[0].Title)
	})

	t.Run("BodyFallback", func(t *testing.T) {
		snippets, err := ParseSnippets(`[{"title":"T","body":"fallback"}]`)
		require.NoError(t, err)
		require.Len(t, snippets, 1)
		assert.Equal(t, "fallback", snippets[0].Content)
	})

	t.Run("MissingTitle", func(t *testing.T) {
		_, err := ParseSnippets(`[{"url":"https://t"}]`)
		assert.ErrorContains(t, err, "missing title")
	})

	t.Run("NoArray", func(t *testing.T) {
		_, err := ParseSnippets("I could not find anything.")
		assert.ErrorContains(t, err, "no JSON array")
	})

	t.Run("InvalidArray", func(t *testing.T) {
		_, err := ParseSnippets(`[{"title":}]`)
		assert.ErrorContains(t, err, "not a valid JSON array")
	})
}

func TestOpenAIResearch(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var gotPath, gotAuth string
		var gotBody map[string]any

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAuth = r.Header.Get("Authorization")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

			resp := map[string]any{
				"output": []map[string]any{{
					"type": "message",
					"content": []map[string]any{{
						"type": "output_text",
						"text": `[{"title":"T","url":"https://t","content":"body","summary":"gist"}]`,
					}},
				}},
			}
			require.NoError(t, json.NewEncoder(w).Encode(resp))
		}))
		defer server.Close()

		a := NewOpenAI("test-key", func(o *OpenAIOptions) {
			o.BaseURL = server.URL
			o.MaxResults = 3
		})

		snippets, err := a.Research(context.Background(), "boosting on tabular data")
		require.NoError(t, err)
		require.Len(t, snippets, 1)
		assert.Equal(t, "T", snippets[0].Title)

		assert.Equal(t, "/responses", gotPath)
		assert.Equal(t, "Bearer test-key", gotAuth)
		assert.Equal(t, "gpt-4.1-mini", gotBody["model"])
		assert.Contains(t, gotBody["input"], "Limit to 3 high quality sources")
		assert.Contains(t, gotBody["input"], "Topic: boosting on tabular data")
	})

	t.Run("APIError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusTooManyRequests)
		}))
		defer server.Close()

		a := NewOpenAI("test-key", func(o *OpenAIOptions) { o.BaseURL = server.URL })

		_, err := a.Research(context.Background(), "anything")
		assert.ErrorContains(t, err, "429")
	})

	t.Run("MissingAPIKey", func(t *testing.T) {
		a := NewOpenAI("")

		_, err := a.Research(context.Background(), "anything")
		assert.ErrorContains(t, err, "API key")
	})
}

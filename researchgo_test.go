package researchgo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/researchgo/agent"
	"github.com/hupe1980/researchgo/embedding"
	"github.com/hupe1980/researchgo/vectorstore"
)

type fakeResearcher struct {
	snippets []agent.Snippet
	err      error
}

func (f *fakeResearcher) Research(_ context.Context, _ string) ([]agent.Snippet, error) {
	return f.snippets, f.err
}

type fakeSummarizer struct {
	gotQuery   string
	gotBullets []string
}

func (f *fakeSummarizer) Summarize(_ context.Context, query string, bullets []string) (string, error) {
	f.gotQuery = query
	f.gotBullets = bullets
	return "summarized", nil
}

func newTestPipeline(t *testing.T, researcher agent.Researcher, optFns ...func(o *Options)) (*Pipeline, *vectorstore.Store) {
	t.Helper()

	store, err := vectorstore.New(filepath.Join(t.TempDir(), "store.json"))
	require.NoError(t, err)

	p, err := NewPipeline(store, researcher, embedding.NewStatic(8), optFns...)
	require.NoError(t, err)

	return p, store
}

func TestPipelineRun(t *testing.T) {
	ctx := context.Background()

	snippets := []agent.Snippet{
		{Title: "First", URL: "https://one", Content: "alpha content", Summary: "alpha gist"},
		{Title: "Second", URL: "https://two", Content: "beta content"},
	}

	t.Run("StoresAndRetrieves", func(t *testing.T) {
		p, store := newTestPipeline(t, &fakeResearcher{snippets: snippets})

		output, err := p.Run(ctx, "tabular models")
		require.NoError(t, err)

		_, err = uuid.Parse(output.RunID)
		assert.NoError(t, err)
		assert.Equal(t, "tabular models", output.Query)
		assert.Equal(t, snippets, output.Snippets)

		require.Equal(t, 2, store.Len())
		docs := store.Documents()
		assert.Equal(t, "alpha content", docs[0].Text)
		title, _ := docs[0].Metadata["title"].AsString()
		assert.Equal(t, "First", title)
		url, _ := docs[1].Metadata["url"].AsString()
		assert.Equal(t, "https://two", url)

		// Stored embeddings match what the embedder produces for each text.
		want, err := embedding.NewStatic(8).Embed(ctx, []string{"alpha content", "beta content"})
		require.NoError(t, err)
		assert.Equal(t, want[0], docs[0].Embedding)
		assert.Equal(t, want[1], docs[1].Embedding)

		require.NotEmpty(t, output.Similar)
		assert.LessOrEqual(t, len(output.Similar), 5)
	})

	t.Run("BulletSummaryWithoutSummarizer", func(t *testing.T) {
		p, _ := newTestPipeline(t, &fakeResearcher{snippets: snippets})

		output, err := p.Run(ctx, "tabular models")
		require.NoError(t, err)

		lines := strings.Split(output.Summary, "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "First: alpha gist", lines[0])
		assert.Equal(t, "Second: beta content", lines[1])
	})

	t.Run("SummarizerReceivesBullets", func(t *testing.T) {
		summarizer := &fakeSummarizer{}
		p, _ := newTestPipeline(t, &fakeResearcher{snippets: snippets}, func(o *Options) {
			o.Summarizer = summarizer
		})

		output, err := p.Run(ctx, "tabular models")
		require.NoError(t, err)

		assert.Equal(t, "summarized", output.Summary)
		assert.Equal(t, "tabular models", summarizer.gotQuery)
		require.Len(t, summarizer.gotBullets, 2)
		assert.Equal(t, "First: alpha gist", summarizer.gotBullets[0])
	})

	t.Run("NoFindings", func(t *testing.T) {
		p, store := newTestPipeline(t, &fakeResearcher{})

		output, err := p.Run(ctx, "obscure topic")
		require.NoError(t, err)

		assert.Equal(t, "No research findings were produced.", output.Summary)
		assert.Empty(t, output.Similar)
		assert.Equal(t, 0, store.Len())
	})

	t.Run("RunsAccumulate", func(t *testing.T) {
		p, store := newTestPipeline(t, &fakeResearcher{snippets: snippets})

		_, err := p.Run(ctx, "tabular models")
		require.NoError(t, err)
		_, err = p.Run(ctx, "tabular models again")
		require.NoError(t, err)

		assert.Equal(t, 4, store.Len())
	})

	t.Run("ResearchError", func(t *testing.T) {
		p, _ := newTestPipeline(t, &fakeResearcher{err: errors.New("agent down")})

		_, err := p.Run(ctx, "anything")
		assert.ErrorContains(t, err, "agent down")
	})

	t.Run("LongContentTruncatedInBullets", func(t *testing.T) {
		long := strings.Repeat("x", 300)
		p, _ := newTestPipeline(t, &fakeResearcher{snippets: []agent.Snippet{
			{Title: "Long", Content: long},
		}})

		output, err := p.Run(ctx, "anything")
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("Long: %s", long[:200]), output.Summary)
	})
}

func TestPipelineSearch(t *testing.T) {
	ctx := context.Background()

	snippets := []agent.Snippet{
		{Title: "First", Content: "alpha content"},
		{Title: "Second", Content: "beta content"},
	}

	p, _ := newTestPipeline(t, &fakeResearcher{snippets: snippets})

	_, err := p.Run(ctx, "seed the store")
	require.NoError(t, err)

	// Searching with a stored text must rank its own document first.
	results, err := p.Search(ctx, "alpha content", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "alpha content", results[0].Document.Text)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
}

func TestPipelineEmbedChunking(t *testing.T) {
	ctx := context.Background()

	// Many snippets with a tiny chunk size exercises the parallel embedding
	// path; order must be preserved.
	var snippets []agent.Snippet
	for i := 0; i < 10; i++ {
		snippets = append(snippets, agent.Snippet{
			Title:   fmt.Sprintf("S%d", i),
			Content: fmt.Sprintf("content number %d", i),
		})
	}

	p, store := newTestPipeline(t, &fakeResearcher{snippets: snippets}, func(o *Options) {
		o.EmbedChunkSize = 3
		o.EmbedConcurrency = 2
	})

	_, err := p.Run(ctx, "bulk")
	require.NoError(t, err)

	docs := store.Documents()
	require.Len(t, docs, 10)

	embedder := embedding.NewStatic(8)
	for i, doc := range docs {
		assert.Equal(t, fmt.Sprintf("content number %d", i), doc.Text)

		want, err := embedder.Embed(ctx, []string{doc.Text})
		require.NoError(t, err)
		assert.Equal(t, want[0], doc.Embedding)
	}
}

func TestNewPipelineValidation(t *testing.T) {
	store, err := vectorstore.New(filepath.Join(t.TempDir(), "store.json"))
	require.NoError(t, err)

	researcher := &fakeResearcher{}
	embedder := embedding.NewStatic(8)

	_, err = NewPipeline(nil, researcher, embedder)
	assert.Error(t, err)

	_, err = NewPipeline(store, nil, embedder)
	assert.Error(t, err)

	_, err = NewPipeline(store, researcher, nil)
	assert.Error(t, err)

	_, err = NewPipeline(store, researcher, embedder, func(o *Options) { o.TopK = 0 })
	assert.Error(t, err)
}

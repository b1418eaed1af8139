// Package researchgo coordinates a hosted research agent, embedding
// generation, a local JSON-backed vector store, and a summarizer into a
// single research pipeline.
//
// A pipeline run researches a topic, embeds the discovered snippets, appends
// them to the store, retrieves the stored documents most similar to the
// topic, and writes an executive summary:
//
//	store, err := vectorstore.New(".artifacts/vector_store.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	p, err := researchgo.NewPipeline(store,
//	    agent.NewOpenAI(apiKey),
//	    embedding.NewOpenAI(apiKey),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	output, err := p.Run(ctx, "gradient boosting vs transformers on tabular data")
package researchgo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/researchgo/agent"
	"github.com/hupe1980/researchgo/embedding"
	"github.com/hupe1980/researchgo/metadata"
	"github.com/hupe1980/researchgo/summary"
	"github.com/hupe1980/researchgo/vectorstore"
)

// Options contains configuration options for the pipeline.
type Options struct {
	// TopK is the number of similar documents retrieved per run.
	TopK int

	// EmbedConcurrency caps how many embedding requests run in parallel.
	EmbedConcurrency int

	// EmbedChunkSize is how many texts each parallel embedding call carries.
	EmbedChunkSize int

	// Summarizer writes the executive summary. Nil falls back to a plain
	// bullet list of the findings.
	Summarizer summary.Summarizer

	// Logger receives structured pipeline logs.
	Logger *Logger
}

// DefaultOptions contains the default configuration options for the pipeline.
var DefaultOptions = Options{
	TopK:             5,
	EmbedConcurrency: 4,
	EmbedChunkSize:   16,
}

// Output represents the artifacts produced by a pipeline run.
type Output struct {
	RunID    string                     `json:"run_id"`
	Query    string                     `json:"query"`
	Snippets []agent.Snippet            `json:"snippets"`
	Summary  string                     `json:"summary"`
	Similar  []vectorstore.SearchResult `json:"similar"`
}

// Pipeline coordinates the research agent, embeddings, and vector store.
type Pipeline struct {
	store       *vectorstore.Store
	researcher  agent.Researcher
	embedder    embedding.Embedder
	summarizer  summary.Summarizer
	topK        int
	concurrency int
	chunkSize   int
	logger      *Logger
}

// NewPipeline creates a pipeline around an explicitly constructed store so
// multiple stores can coexist (there is no process-wide singleton).
func NewPipeline(store *vectorstore.Store, researcher agent.Researcher, embedder embedding.Embedder, optFns ...func(o *Options)) (*Pipeline, error) {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if store == nil {
		return nil, errors.New("store must not be nil")
	}
	if researcher == nil {
		return nil, errors.New("researcher must not be nil")
	}
	if embedder == nil {
		return nil, errors.New("embedder must not be nil")
	}
	if opts.TopK < 1 {
		return nil, fmt.Errorf("top-k must be positive, got %d", opts.TopK)
	}
	if opts.EmbedConcurrency < 1 {
		opts.EmbedConcurrency = DefaultOptions.EmbedConcurrency
	}
	if opts.EmbedChunkSize < 1 {
		opts.EmbedChunkSize = DefaultOptions.EmbedChunkSize
	}
	if opts.Logger == nil {
		opts.Logger = NoopLogger()
	}

	return &Pipeline{
		store:       store,
		researcher:  researcher,
		embedder:    embedder,
		summarizer:  opts.Summarizer,
		topK:        opts.TopK,
		concurrency: opts.EmbedConcurrency,
		chunkSize:   opts.EmbedChunkSize,
		logger:      opts.Logger,
	}, nil
}

// Run executes the end-to-end workflow for a single user query.
func (p *Pipeline) Run(ctx context.Context, query string) (*Output, error) {
	runID := uuid.NewString()
	log := p.logger.WithRunID(runID).WithQuery(query)

	log.Info("research started")

	snippets, err := p.researcher.Research(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("research: %w", err)
	}
	log.Info("research completed", "sources", len(snippets))

	if len(snippets) > 0 {
		texts := make([]string, len(snippets))
		for i, snippet := range snippets {
			texts[i] = snippet.Content
		}

		embeddings, err := p.embedAll(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embed snippets: %w", err)
		}

		items := make([]vectorstore.BatchItem, len(snippets))
		for i, snippet := range snippets {
			items[i] = vectorstore.BatchItem{
				Text:      snippet.Content,
				Embedding: embeddings[i],
				Metadata: metadata.Metadata{
					"title":   metadata.String(snippet.Title),
					"url":     metadata.String(snippet.URL),
					"summary": metadata.String(snippet.Summary),
				},
			}
		}

		ids, err := p.store.InsertBatch(ctx, items)
		if err != nil {
			return nil, fmt.Errorf("store snippets: %w", err)
		}
		log.Info("snippets stored", "count", len(ids), "total", p.store.Len())
	}

	queryEmbeddings, err := p.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(queryEmbeddings) != 1 {
		return nil, fmt.Errorf("embed query: got %d vectors, want 1", len(queryEmbeddings))
	}

	similar, err := p.store.Query(ctx, queryEmbeddings[0], p.topK)
	if err != nil {
		return nil, fmt.Errorf("query store: %w", err)
	}

	summaryText, err := p.buildSummary(ctx, query, snippets)
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}

	log.Info("run completed", "similar", len(similar))

	return &Output{
		RunID:    runID,
		Query:    query,
		Snippets: snippets,
		Summary:  summaryText,
		Similar:  similar,
	}, nil
}

// Search embeds the text and returns the most similar stored documents
// without running a research sprint.
func (p *Pipeline) Search(ctx context.Context, text string, k int) ([]vectorstore.SearchResult, error) {
	embeddings, err := p.embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(embeddings) != 1 {
		return nil, fmt.Errorf("embed query: got %d vectors, want 1", len(embeddings))
	}
	return p.store.Query(ctx, embeddings[0], k)
}

// embedAll embeds texts in fixed-size chunks, running chunks in parallel
// while preserving input order.
func (p *Pipeline) embedAll(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for start := 0; start < len(texts); start += p.chunkSize {
		start := start
		end := min(start+p.chunkSize, len(texts))

		g.Go(func() error {
			vectors, err := p.embedder.Embed(ctx, texts[start:end])
			if err != nil {
				return err
			}
			if len(vectors) != end-start {
				return fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), end-start)
			}
			copy(out[start:end], vectors)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// buildSummary produces the run summary, falling back to a bullet list when
// no summarizer is configured.
func (p *Pipeline) buildSummary(ctx context.Context, query string, snippets []agent.Snippet) (string, error) {
	if len(snippets) == 0 {
		return "No research findings were produced.", nil
	}

	bullets := make([]string, len(snippets))
	for i, snippet := range snippets {
		gist := snippet.Summary
		if gist == "" {
			gist = truncate(snippet.Content, 200)
		}
		bullets[i] = fmt.Sprintf("%s: %s", snippet.Title, gist)
	}

	if p.summarizer == nil {
		return strings.Join(bullets, "\n"), nil
	}
	return p.summarizer.Summarize(ctx, query, bullets)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

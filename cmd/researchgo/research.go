package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/hupe1980/researchgo"
	"github.com/hupe1980/researchgo/agent"
	"github.com/hupe1980/researchgo/embedding"
	"github.com/hupe1980/researchgo/metadata"
	"github.com/hupe1980/researchgo/summary"
)

// researchResult is the condensed JSON view printed after a run.
type researchResult struct {
	RunID    string           `json:"run_id"`
	Query    string           `json:"query"`
	Summary  string           `json:"summary"`
	Snippets []snippetView    `json:"snippets"`
	Similar  []similarDocView `json:"similar_documents"`
}

type snippetView struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Summary string `json:"summary"`
}

type similarDocView struct {
	ID    uint64  `json:"id"`
	Score float32 `json:"score"`
	Title string  `json:"title,omitempty"`
	URL   string  `json:"url,omitempty"`
}

func runResearch(args []string) error {
	fs := flag.NewFlagSet("research", flag.ExitOnError)

	var cf commonFlags
	registerCommonFlags(fs, &cf)
	topK := fs.Int("top-k", 0, "number of similar documents to retrieve (0 = config value)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	topic := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if topic == "" {
		return errors.New("usage: researchgo research [flags] <topic>")
	}

	cfg, err := cf.loadConfig()
	if err != nil {
		return err
	}
	if *topK > 0 {
		cfg.Store.TopK = *topK
	}

	apiKey := cfg.APIKey()
	if apiKey == "" {
		return fmt.Errorf("no API key found (set %s)", envName(cfg.API.KeyEnv))
	}

	logger, err := cf.logger()
	if err != nil {
		return err
	}

	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}

	researcher := agent.NewOpenAI(apiKey, func(o *agent.OpenAIOptions) {
		o.BaseURL = cfg.API.BaseURL
		if cfg.Agent.Model != "" {
			o.Model = cfg.Agent.Model
		}
		if cfg.Agent.Instructions != "" {
			o.Instructions = cfg.Agent.Instructions
		}
		if cfg.Agent.MaxSearchResults > 0 {
			o.MaxResults = cfg.Agent.MaxSearchResults
		}
	})

	embedder := embedding.NewOpenAI(apiKey, func(o *embedding.OpenAIOptions) {
		o.BaseURL = cfg.API.BaseURL
		o.Model = cfg.Embedding.Model
		o.Dimensions = cfg.Embedding.Dimensions
		o.BatchSize = cfg.Embedding.BatchSize
	})

	var summarizer summary.Summarizer
	if cfg.Summary.Model != "" {
		summarizer = summary.NewOpenAI(apiKey, func(o *summary.OpenAIOptions) {
			o.BaseURL = cfg.API.BaseURL
			o.Model = cfg.Summary.Model
		})
	}

	pipeline, err := researchgo.NewPipeline(store, researcher, embedder, func(o *researchgo.Options) {
		o.TopK = cfg.Store.TopK
		o.Summarizer = summarizer
		o.Logger = logger
	})
	if err != nil {
		return err
	}

	output, err := pipeline.Run(context.Background(), topic)
	if err != nil {
		return err
	}

	return printJSON(condense(output))
}

func condense(output *researchgo.Output) researchResult {
	result := researchResult{
		RunID:    output.RunID,
		Query:    output.Query,
		Summary:  output.Summary,
		Snippets: make([]snippetView, len(output.Snippets)),
		Similar:  make([]similarDocView, len(output.Similar)),
	}
	for i, snippet := range output.Snippets {
		result.Snippets[i] = snippetView{
			Title:   snippet.Title,
			URL:     snippet.URL,
			Summary: snippet.Summary,
		}
	}
	for i, hit := range output.Similar {
		result.Similar[i] = similarDocView{
			ID:    hit.Document.ID,
			Score: hit.Score,
			Title: metadataString(hit.Document.Metadata, "title"),
			URL:   metadataString(hit.Document.Metadata, "url"),
		}
	}
	return result
}

func metadataString(md metadata.Metadata, key string) string {
	s, _ := md[key].AsString()
	return s
}

func envName(keyEnv string) string {
	if keyEnv == "" {
		return "OPENAI_API_KEY"
	}
	return keyEnv
}

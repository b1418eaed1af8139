package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/hupe1980/researchgo/embedding"
)

func runSearch(args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)

	var cf commonFlags
	registerCommonFlags(fs, &cf)
	k := fs.Int("k", 0, "number of results (0 = config top_k)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	text := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if text == "" {
		return errors.New("usage: researchgo search [flags] <text>")
	}

	cfg, err := cf.loadConfig()
	if err != nil {
		return err
	}
	if *k <= 0 {
		*k = cfg.Store.TopK
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

	embedder := embedding.NewOpenAI(apiKey, func(o *embedding.OpenAIOptions) {
		o.BaseURL = cfg.API.BaseURL
		o.Model = cfg.Embedding.Model
		o.Dimensions = cfg.Embedding.Dimensions
		o.BatchSize = cfg.Embedding.BatchSize
	})

	ctx := context.Background()

	vectors, err := embedder.Embed(ctx, []string{text})
	if err != nil {
		return err
	}

	results, err := store.Query(ctx, vectors[0], *k)
	if err != nil {
		return err
	}

	hits := make([]similarDocView, len(results))
	for i, hit := range results {
		hits[i] = similarDocView{
			ID:    hit.Document.ID,
			Score: hit.Score,
			Title: metadataString(hit.Document.Metadata, "title"),
			URL:   metadataString(hit.Document.Metadata, "url"),
		}
	}

	return printJSON(hits)
}

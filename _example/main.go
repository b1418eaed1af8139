package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/hupe1980/researchgo"
	"github.com/hupe1980/researchgo/agent"
	"github.com/hupe1980/researchgo/embedding"
	"github.com/hupe1980/researchgo/summary"
	"github.com/hupe1980/researchgo/vectorstore"
)

func main() {
	apiKey := os.Getenv("OPENAI_API_KEY")

	store, err := vectorstore.New(".artifacts/vector_store.json")
	if err != nil {
		log.Fatal(err)
	}

	pipeline, err := researchgo.NewPipeline(store,
		agent.NewOpenAI(apiKey),
		embedding.NewOpenAI(apiKey),
		func(o *researchgo.Options) {
			o.Summarizer = summary.NewOpenAI(apiKey)
		},
	)
	if err != nil {
		log.Fatal(err)
	}

	output, err := pipeline.Run(context.Background(), "gradient boosting vs transformers on tabular data")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(output.Summary)
	for _, hit := range output.Similar {
		fmt.Printf("%d (%.3f): %s\n", hit.Document.ID, hit.Score, hit.Document.Text)
	}
}

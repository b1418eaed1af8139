// Package vectorstore implements the durable append-only vector store that
// backs the research pipeline.
//
// Documents are kept in memory and the whole collection is rewritten to a
// single JSON file after every mutating operation. Search is an exhaustive
// similarity scan over all stored vectors. Both are deliberate: the expected
// scale is a few thousand snippets, and a human-readable single-file format
// beats indexing machinery at that size.
//
// A Store is safe for concurrent use within one process. Coordinating
// multiple processes against the same backing file is the caller's job.
package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"sync"

	"github.com/hupe1980/researchgo/codec"
	"github.com/hupe1980/researchgo/distance"
	"github.com/hupe1980/researchgo/metadata"
)

// FormatVersion is the current version of the persisted store format.
const FormatVersion = 1

// Document represents a stored research snippet.
type Document struct {
	// ID is assigned at insertion time, unique and monotonic within a store.
	ID uint64 `json:"id"`
	// Text is the original snippet content.
	Text string `json:"text"`
	// Embedding is the snippet's embedding vector. All embeddings in a store
	// share the same dimensionality.
	Embedding []float32 `json:"embedding"`
	// Metadata carries snippet attributes such as source URL or title.
	Metadata metadata.Metadata `json:"metadata,omitempty"`
}

func (d Document) clone() Document {
	d.Embedding = slices.Clone(d.Embedding)
	d.Metadata = d.Metadata.Clone()
	return d
}

// SearchResult is a single query hit.
type SearchResult struct {
	Document Document `json:"document"`
	Score    float32  `json:"score"`
}

// BatchItem is one pending insert in a batch.
type BatchItem struct {
	Text      string
	Embedding []float32
	Metadata  metadata.Metadata
}

// Options contains configuration options for the store.
type Options struct {
	// Dimension fixes the vector dimensionality up front. Zero means the
	// dimensionality is established by the first insert.
	Dimension int

	// Metric selects the similarity metric used by Query.
	Metric distance.Metric

	// Codec encodes/decodes the backing file. Both built-in codecs emit
	// standard JSON.
	Codec codec.Codec

	// Logger receives structured operation logs. Nil disables logging.
	Logger *slog.Logger
}

// DefaultOptions contains the default configuration options for the store.
var DefaultOptions = Options{
	Metric: distance.MetricCosine,
}

// Store is a durable append-only collection of embedded documents.
type Store struct {
	mu      sync.Mutex
	path    string
	dim     int
	nextID  uint64
	docs    []Document
	simFunc distance.Func
	codec   codec.Codec
	logger  *slog.Logger
}

// storeFile is the on-disk representation of a store.
type storeFile struct {
	Version   int        `json:"version"`
	Dimension int        `json:"dimension"`
	NextID    uint64     `json:"next_id"`
	Documents []Document `json:"documents"`
}

// New creates a store backed by the file at path, rehydrating any existing
// state. A missing file is a valid empty store; an unparseable file fails
// with *ErrCorruptStore.
func New(path string, optFns ...func(o *Options)) (*Store, error) {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Dimension < 0 {
		return nil, fmt.Errorf("invalid dimension: %d", opts.Dimension)
	}
	if opts.Codec == nil {
		opts.Codec = codec.Default
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	simFunc, err := distance.Provider(opts.Metric)
	if err != nil {
		return nil, err
	}

	s := &Store{
		path:    path,
		dim:     opts.Dimension,
		nextID:  1,
		simFunc: simFunc,
		codec:   opts.Codec,
		logger:  opts.Logger,
	}

	if err := s.load(); err != nil {
		return nil, err
	}

	return s, nil
}

// load rehydrates the store from the backing file, validating structural
// invariants so that a corrupt file never leaks partial state.
func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read store: %w", err)
	}

	var f storeFile
	if err := s.codec.Unmarshal(data, &f); err != nil {
		return &ErrCorruptStore{Path: s.path, cause: err}
	}

	if f.Version != FormatVersion {
		return &ErrCorruptStore{Path: s.path, cause: fmt.Errorf("unsupported store version: %d (expected %d)", f.Version, FormatVersion)}
	}

	if s.dim != 0 && f.Dimension != 0 && f.Dimension != s.dim {
		return &ErrDimensionMismatch{Expected: s.dim, Actual: f.Dimension}
	}

	var lastID uint64
	for i := range f.Documents {
		doc := &f.Documents[i]
		if len(doc.Embedding) == 0 {
			return &ErrCorruptStore{Path: s.path, cause: fmt.Errorf("document %d has no embedding", doc.ID)}
		}
		if len(doc.Embedding) != f.Dimension {
			return &ErrCorruptStore{Path: s.path, cause: fmt.Errorf("document %d has dimension %d (store dimension %d)", doc.ID, len(doc.Embedding), f.Dimension)}
		}
		if doc.ID <= lastID {
			return &ErrCorruptStore{Path: s.path, cause: fmt.Errorf("document IDs are not strictly increasing at id %d", doc.ID)}
		}
		lastID = doc.ID
	}
	if len(f.Documents) > 0 && f.NextID <= lastID {
		return &ErrCorruptStore{Path: s.path, cause: fmt.Errorf("next_id %d does not exceed last document id %d", f.NextID, lastID)}
	}

	if f.Dimension != 0 {
		s.dim = f.Dimension
	}
	if f.NextID > 0 {
		s.nextID = f.NextID
	}
	s.docs = f.Documents

	s.logger.Debug("store loaded",
		"path", s.path,
		"count", len(s.docs),
		"dimension", s.dim,
	)

	return nil
}

// Insert appends a single document and persists the store before returning.
// It returns the newly assigned document ID.
func (s *Store) Insert(ctx context.Context, text string, embedding []float32, md metadata.Metadata) (uint64, error) {
	ids, err := s.InsertBatch(ctx, []BatchItem{{Text: text, Embedding: embedding, Metadata: md}})
	if err != nil {
		return 0, err
	}
	return ids[0], nil
}

// InsertBatch appends a batch of documents with a single rewrite of the
// backing file. Every item is validated before any is applied: a dimension
// mismatch anywhere in the batch leaves the store unchanged.
func (s *Store) InsertBatch(ctx context.Context, items []BatchItem) ([]uint64, error) {
	if len(items) == 0 {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dim := s.dim
	for _, item := range items {
		if len(item.Embedding) == 0 {
			return nil, ErrEmptyEmbedding
		}
		if dim == 0 {
			dim = len(item.Embedding)
		}
		if len(item.Embedding) != dim {
			return nil, &ErrDimensionMismatch{Expected: dim, Actual: len(item.Embedding)}
		}
	}

	prevDim, prevNextID, prevLen := s.dim, s.nextID, len(s.docs)

	ids := make([]uint64, 0, len(items))
	for _, item := range items {
		doc := Document{
			ID:        s.nextID,
			Text:      item.Text,
			Embedding: slices.Clone(item.Embedding),
			Metadata:  metadata.CloneIfNeeded(item.Metadata),
		}
		s.nextID++
		s.docs = append(s.docs, doc)
		ids = append(ids, doc.ID)
	}
	s.dim = dim

	if err := s.persistLocked(); err != nil {
		// The pre-write collection must survive a failed persist.
		s.docs = s.docs[:prevLen]
		s.dim = prevDim
		s.nextID = prevNextID
		return nil, err
	}

	s.logger.DebugContext(ctx, "insert completed",
		"count", len(ids),
		"dimension", dim,
		"total", len(s.docs),
	)

	return ids, nil
}

// Query returns the k stored documents most similar to the given embedding,
// ordered by descending score with ties broken by ascending ID. If k exceeds
// the number of stored documents, all documents are returned. Querying an
// empty store returns an empty result.
func (s *Store) Query(ctx context.Context, embedding []float32, k int) ([]SearchResult, error) {
	if k < 1 {
		return nil, ErrInvalidK
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.docs) == 0 {
		return []SearchResult{}, nil
	}

	if len(embedding) != s.dim {
		return nil, &ErrDimensionMismatch{Expected: s.dim, Actual: len(embedding)}
	}

	results := make([]SearchResult, len(s.docs))
	for i := range s.docs {
		results[i] = SearchResult{
			Document: s.docs[i],
			Score:    s.simFunc(s.docs[i].Embedding, embedding),
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Document.ID < results[j].Document.ID
	})

	if k > len(results) {
		k = len(results)
	}
	results = results[:k]

	for i := range results {
		results[i].Document = results[i].Document.clone()
	}

	s.logger.DebugContext(ctx, "query completed",
		"k", k,
		"results", len(results),
	)

	return results, nil
}

// Documents returns all stored documents in insertion order.
// The returned documents are copies; mutating them does not affect the store.
func (s *Store) Documents() []Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := make([]Document, len(s.docs))
	for i := range s.docs {
		docs[i] = s.docs[i].clone()
	}
	return docs
}

// Len returns the number of stored documents.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}

// Dimension returns the store's established dimensionality, or 0 if no
// dimensionality has been established yet.
func (s *Store) Dimension() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dim
}

// Path returns the location of the backing file.
func (s *Store) Path() string { return s.path }

// Persist rewrites the backing file from the in-memory collection.
// It is invoked internally after every mutating operation; callers only need
// it to retry after an I/O failure.
func (s *Store) Persist() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked()
}

// persistLocked writes the store file atomically: encode, write to a temp
// file, fsync, then rename over the target.
func (s *Store) persistLocked() error {
	f := storeFile{
		Version:   FormatVersion,
		Dimension: s.dim,
		NextID:    s.nextID,
		Documents: s.docs,
	}

	data, err := s.codec.Marshal(&f)
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." && dir != string(filepath.Separator) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create store directory: %w", err)
		}
	}

	tmpPath := s.path + ".tmp"
	file, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write store: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync store: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close store: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename store: %w", err)
	}

	return nil
}

package vector

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/fwojciec/sitevec"
)

var _ sitevec.Searcher = (*Store)(nil)

// Store composes an Index, its Documents and an Embedder.
// Mutations and persistence are serialized by a single writer lock.
type Store struct {
	embedder  sitevec.Embedder
	snapshots sitevec.SnapshotStore
	logger    *slog.Logger

	mu    sync.RWMutex
	index *Index
	docs  *Documents
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to report skipped chunks.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDimensions fixes the vector length up front.
func WithDimensions(dims int) Option {
	return func(s *Store) {
		s.index = NewIndex(dims)
	}
}

// NewStore returns an empty store.
func NewStore(embedder sitevec.Embedder, snapshots sitevec.SnapshotStore, opts ...Option) *Store {
	s := &Store{
		embedder:  embedder,
		snapshots: snapshots,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		index:     NewIndex(0),
		docs:      &Documents{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddResult summarizes an AddDocuments call.
type AddResult struct {
	Added   int
	Skipped int
}

// AddDocuments embeds each chunk in order and stores it.
// An invalid chunk or one whose embedding fails is logged and skipped. A vector of the wrong
// length aborts the batch with EDIMENSION; chunks stored before it are kept.
// Chunks are embedded one at a time so positions follow input order.
func (s *Store) AddDocuments(ctx context.Context, chunks []*sitevec.Chunk) (*AddResult, error) {
	result := &AddResult{}
	for _, c := range chunks {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if err := c.Validate(); err != nil {
			s.logger.Warn("skipping invalid chunk", "url", c.URL, "chunk_id", c.ChunkID, "error", err)
			result.Skipped++
			continue
		}

		vec, err := s.embedder.Embed(ctx, c.Content)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			if sitevec.ErrorCode(err) == sitevec.EDIMENSION {
				return result, err
			}
			s.logger.Warn("skipping chunk", "url", c.URL, "chunk_id", c.ChunkID, "error", err)
			result.Skipped++
			continue
		}

		if err := s.add(vec, *c); err != nil {
			return result, err
		}
		result.Added++
	}
	return result, nil
}

// add stores vec and its record as one step.
func (s *Store) add(vec []float32, c sitevec.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, err := s.index.Add(vec)
	if err != nil {
		return err
	}
	if got := s.docs.Append(c); got != pos {
		return sitevec.Errorf(sitevec.EINTERNAL, "document position %d does not match vector position %d", got, pos)
	}
	return nil
}

// Search embeds query and returns up to k stored chunks nearest to it.
func (s *Store) Search(ctx context.Context, query string, k int) ([]sitevec.SearchResult, error) {
	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		if sitevec.ErrorCode(err) == sitevec.EEMBEDDING {
			return nil, err
		}
		return nil, sitevec.Errorf(sitevec.EEMBEDDING, "embed query: %v", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	hits, err := s.index.Search(vec, k)
	if err != nil {
		return nil, err
	}

	results := make([]sitevec.SearchResult, 0, len(hits))
	for _, h := range hits {
		doc, err := s.docs.Get(h.Position)
		if err != nil {
			return nil, err
		}
		results = append(results, sitevec.SearchResult{
			Chunk:    doc,
			Position: h.Position,
			Distance: h.Distance,
		})
	}
	return results, nil
}

// Len returns the number of stored chunks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Len()
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() *sitevec.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

func (s *Store) snapshot() *sitevec.Snapshot {
	snap := &sitevec.Snapshot{
		Dimensions: s.index.Dimensions(),
		Vectors:    make([][]float32, s.index.Len()),
		Records:    slices.Clone(s.docs.All()),
	}
	for i := range snap.Vectors {
		snap.Vectors[i] = s.index.Vector(i)
	}
	return snap
}

// Save writes the store under dir.
func (s *Store) Save(ctx context.Context, dir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.snapshots.WriteSnapshot(ctx, dir, s.snapshot()); err != nil {
		return fmt.Errorf("save store: %w", err)
	}
	return nil
}

// Load replaces the store's contents with the snapshot under dir.
// Returns ENOTFOUND if nothing is stored there, ECORRUPT if the vectors and
// records disagree and EDIMENSION if the stored vectors do not match a
// dimensionality fixed with WithDimensions.
func (s *Store) Load(ctx context.Context, dir string) error {
	snap, err := s.snapshots.ReadSnapshot(ctx, dir)
	if err != nil {
		return err
	}
	if len(snap.Vectors) != len(snap.Records) {
		return sitevec.Errorf(sitevec.ECORRUPT, "%d vectors but %d records", len(snap.Vectors), len(snap.Records))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dims := snap.Dimensions
	if want := s.index.Dimensions(); want != 0 {
		if dims != 0 && dims != want {
			return sitevec.Errorf(sitevec.EDIMENSION, "stored vectors have %d dimensions, store expects %d", dims, want)
		}
		dims = want
	}

	index := NewIndex(dims)
	docs := &Documents{}
	for i, v := range snap.Vectors {
		if _, err := index.Add(v); err != nil {
			return err
		}
		docs.Append(snap.Records[i])
	}

	s.index = index
	s.docs = docs
	return nil
}

package sitevec

import "context"

// SearchResult is a stored chunk matched by a query, with its distance.
type SearchResult struct {
	Chunk
	Position int     `json:"position"`
	Distance float32 `json:"distance"`
}

// Searcher finds stored chunks nearest to a query.
type Searcher interface {
	// Search embeds the query and returns up to k chunks ordered by
	// ascending distance. Returns EEMBEDDING if the query cannot be embedded.
	Search(ctx context.Context, query string, k int) ([]SearchResult, error)
}

// Snapshot is the persisted form of a vector store.
// Vectors[i] is the embedding of Records[i].
type Snapshot struct {
	Dimensions int
	Vectors    [][]float32
	Records    []Chunk
}

// SnapshotStore persists snapshots under a directory.
type SnapshotStore interface {
	// WriteSnapshot writes snap under dir, creating dir if needed.
	// A reader never observes an index artifact without its matching
	// metadata artifact.
	WriteSnapshot(ctx context.Context, dir string, snap *Snapshot) error

	// ReadSnapshot reads the snapshot stored under dir.
	// Returns ENOTFOUND if either artifact is missing and ECORRUPT if the
	// artifacts cannot be decoded or disagree with each other.
	ReadSnapshot(ctx context.Context, dir string) (*Snapshot, error)
}

package mock

import (
	"context"

	"github.com/fwojciec/sitevec"
)

var _ sitevec.Embedder = (*Embedder)(nil)

// Embedder is a mock implementation of sitevec.Embedder.
type Embedder struct {
	EmbedFn func(ctx context.Context, text string) ([]float32, error)
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.EmbedFn(ctx, text)
}

var _ sitevec.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore is a mock implementation of sitevec.SnapshotStore.
type SnapshotStore struct {
	WriteSnapshotFn func(ctx context.Context, dir string, snap *sitevec.Snapshot) error
	ReadSnapshotFn  func(ctx context.Context, dir string) (*sitevec.Snapshot, error)
}

func (s *SnapshotStore) WriteSnapshot(ctx context.Context, dir string, snap *sitevec.Snapshot) error {
	return s.WriteSnapshotFn(ctx, dir, snap)
}

func (s *SnapshotStore) ReadSnapshot(ctx context.Context, dir string) (*sitevec.Snapshot, error) {
	return s.ReadSnapshotFn(ctx, dir)
}

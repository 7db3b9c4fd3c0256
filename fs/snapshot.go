// Package fs persists vector store snapshots to a local directory.
package fs

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/sitevec"
	"github.com/gofrs/flock"
)

// Artifact names inside a store directory.
const (
	DocumentsFile = "documents.json"
	IndexFile     = "index.bin"
	lockFile      = ".lock"
)

const (
	indexMagic   = "SVIX"
	indexVersion = 1

	lockRetryDelay = 50 * time.Millisecond
)

// Ensure SnapshotStore implements sitevec.SnapshotStore at compile time.
var _ sitevec.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore stores a snapshot as two files: the ordered chunk records as
// JSON and the ordered vectors in a little-endian binary index.
//
// Each file is written to a temporary file and renamed into place. The index
// is written last and carries a checksum of the documents file, so a reader
// never accepts an index without the documents it was written with.
type SnapshotStore struct{}

// NewSnapshotStore creates a new SnapshotStore.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// indexHeader is the fixed-size prefix of the index file.
type indexHeader struct {
	Magic    [4]byte
	Version  uint32
	Dims     uint32
	Count    uint64
	DocsHash uint64
}

func (s *SnapshotStore) WriteSnapshot(ctx context.Context, dir string, snap *sitevec.Snapshot) error {
	if len(snap.Vectors) != len(snap.Records) {
		return sitevec.Errorf(sitevec.EINVALID, "%d vectors but %d records", len(snap.Vectors), len(snap.Records))
	}
	for i, v := range snap.Vectors {
		if len(v) != snap.Dimensions {
			return sitevec.Errorf(sitevec.EDIMENSION, "vector %d has %d dimensions, snapshot has %d", i, len(v), snap.Dimensions)
		}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	lock := flock.New(filepath.Join(dir, lockFile))
	if _, err := lock.TryLockContext(ctx, lockRetryDelay); err != nil {
		return fmt.Errorf("lock %s: %w", dir, err)
	}
	defer func() { _ = lock.Unlock() }()

	records := snap.Records
	if records == nil {
		records = []sitevec.Chunk{}
	}
	docs, err := json.Marshal(records)
	if err != nil {
		return err
	}

	if err := writeFileAtomic(filepath.Join(dir, DocumentsFile), func(w io.Writer) error {
		_, err := w.Write(docs)
		return err
	}); err != nil {
		return fmt.Errorf("write documents: %w", err)
	}

	header := indexHeader{
		Version:  indexVersion,
		Dims:     uint32(snap.Dimensions),
		Count:    uint64(len(snap.Vectors)),
		DocsHash: xxhash.Sum64(docs),
	}
	copy(header.Magic[:], indexMagic)

	if err := writeFileAtomic(filepath.Join(dir, IndexFile), func(w io.Writer) error {
		if err := binary.Write(w, binary.LittleEndian, header); err != nil {
			return err
		}
		for _, v := range snap.Vectors {
			if err := binary.Write(w, binary.LittleEndian, v); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("write index: %w", err)
	}

	return nil
}

func (s *SnapshotStore) ReadSnapshot(ctx context.Context, dir string) (*sitevec.Snapshot, error) {
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		return nil, sitevec.Errorf(sitevec.ENOTFOUND, "no store in %s", dir)
	} else if err != nil {
		return nil, err
	}

	lock := flock.New(filepath.Join(dir, lockFile))
	if _, err := lock.TryRLockContext(ctx, lockRetryDelay); err != nil {
		return nil, fmt.Errorf("lock %s: %w", dir, err)
	}
	defer func() { _ = lock.Unlock() }()

	docs, err := readArtifact(dir, DocumentsFile)
	if err != nil {
		return nil, err
	}
	index, err := readArtifact(dir, IndexFile)
	if err != nil {
		return nil, err
	}

	var records []sitevec.Chunk
	if err := json.Unmarshal(docs, &records); err != nil {
		return nil, sitevec.Errorf(sitevec.ECORRUPT, "decode %s: %v", DocumentsFile, err)
	}

	r := bytes.NewReader(index)
	var header indexHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, sitevec.Errorf(sitevec.ECORRUPT, "decode %s header: %v", IndexFile, err)
	}
	if string(header.Magic[:]) != indexMagic || header.Version != indexVersion {
		return nil, sitevec.Errorf(sitevec.ECORRUPT, "%s is not a version %d index", IndexFile, indexVersion)
	}
	if header.DocsHash != xxhash.Sum64(docs) {
		return nil, sitevec.Errorf(sitevec.ECORRUPT, "%s does not match %s", IndexFile, DocumentsFile)
	}
	if header.Count != uint64(len(records)) {
		return nil, sitevec.Errorf(sitevec.ECORRUPT, "%d vectors but %d records", header.Count, len(records))
	}
	if want := int64(header.Count) * int64(header.Dims) * 4; int64(r.Len()) != want {
		return nil, sitevec.Errorf(sitevec.ECORRUPT, "%s has %d vector bytes, want %d", IndexFile, r.Len(), want)
	}

	vectors := make([][]float32, header.Count)
	for i := range vectors {
		v := make([]float32, header.Dims)
		if err := binary.Read(r, binary.LittleEndian, v); err != nil {
			return nil, sitevec.Errorf(sitevec.ECORRUPT, "decode vector %d: %v", i, err)
		}
		vectors[i] = v
	}

	return &sitevec.Snapshot{
		Dimensions: int(header.Dims),
		Vectors:    vectors,
		Records:    records,
	}, nil
}

func readArtifact(dir, name string) ([]byte, error) {
	b, err := os.ReadFile(filepath.Join(dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, sitevec.Errorf(sitevec.ENOTFOUND, "%s missing in %s", name, dir)
	}
	return b, err
}

// writeFileAtomic writes to a temporary file in the target directory and
// renames it over path once fully written.
func writeFileAtomic(path string, write func(io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	if err = write(w); err != nil {
		return err
	}
	if err = w.Flush(); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

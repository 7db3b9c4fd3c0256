// Package vector holds the in-memory vector store: an append-only exact
// nearest-neighbour index, its position-aligned document records and the
// facade that keeps the two in lock-step.
package vector

import (
	"slices"

	"github.com/fwojciec/sitevec"
)

// Index is an append-only, order-preserving list of fixed-length vectors
// searched by exact squared Euclidean distance.
//
// Index is not safe for concurrent use; Store serializes access.
type Index struct {
	dims    int
	vectors [][]float32
}

// NewIndex returns an empty index for vectors of length dims.
// A dims of zero adopts the length of the first added vector.
func NewIndex(dims int) *Index {
	return &Index{dims: max(dims, 0)}
}

// Neighbor is one search hit.
type Neighbor struct {
	Position int
	Distance float32
}

// Add appends v and returns its position.
// Returns EDIMENSION, leaving the index unchanged, if len(v) differs from
// the index dimensionality.
func (idx *Index) Add(v []float32) (int, error) {
	if len(v) == 0 {
		return 0, sitevec.Errorf(sitevec.EDIMENSION, "empty vector")
	}
	if idx.dims == 0 {
		idx.dims = len(v)
	}
	if len(v) != idx.dims {
		return 0, sitevec.Errorf(sitevec.EDIMENSION, "vector has %d dimensions, index has %d", len(v), idx.dims)
	}
	idx.vectors = append(idx.vectors, slices.Clone(v))
	return len(idx.vectors) - 1, nil
}

// Search returns the k stored vectors nearest to query, ascending by
// distance with ties broken by lowest position. Fewer than k vectors
// yields all of them; k <= 0 yields none.
func (idx *Index) Search(query []float32, k int) ([]Neighbor, error) {
	if k <= 0 || len(idx.vectors) == 0 {
		return []Neighbor{}, nil
	}
	if len(query) != idx.dims {
		return nil, sitevec.Errorf(sitevec.EDIMENSION, "query has %d dimensions, index has %d", len(query), idx.dims)
	}

	hits := make([]Neighbor, len(idx.vectors))
	for i, v := range idx.vectors {
		hits[i] = Neighbor{Position: i, Distance: squaredL2(query, v)}
	}
	slices.SortFunc(hits, func(a, b Neighbor) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		}
		return a.Position - b.Position
	})

	return hits[:min(k, len(hits))], nil
}

// Len returns the number of stored vectors.
func (idx *Index) Len() int { return len(idx.vectors) }

// Dimensions returns the vector length, or 0 if not yet fixed.
func (idx *Index) Dimensions() int { return idx.dims }

// Vector returns the vector stored at position i.
func (idx *Index) Vector(i int) []float32 { return idx.vectors[i] }

func squaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

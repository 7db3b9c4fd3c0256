package vector_test

import (
	"testing"

	"github.com/fwojciec/sitevec"
	"github.com/fwojciec/sitevec/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex_Add(t *testing.T) {
	t.Parallel()

	t.Run("returns consecutive positions", func(t *testing.T) {
		t.Parallel()

		idx := vector.NewIndex(2)

		p0, err := idx.Add([]float32{1, 0})
		require.NoError(t, err)
		p1, err := idx.Add([]float32{0, 1})
		require.NoError(t, err)

		assert.Equal(t, 0, p0)
		assert.Equal(t, 1, p1)
		assert.Equal(t, 2, idx.Len())
	})

	t.Run("rejects mismatched dimension without state change", func(t *testing.T) {
		t.Parallel()

		idx := vector.NewIndex(2)
		_, err := idx.Add([]float32{1, 2})
		require.NoError(t, err)

		_, err = idx.Add([]float32{1, 2, 3})

		assert.Equal(t, sitevec.EDIMENSION, sitevec.ErrorCode(err))
		assert.Equal(t, 1, idx.Len())
	})

	t.Run("zero dimensions adopts first vector length", func(t *testing.T) {
		t.Parallel()

		idx := vector.NewIndex(0)

		_, err := idx.Add([]float32{1, 2, 3})
		require.NoError(t, err)
		assert.Equal(t, 3, idx.Dimensions())

		_, err = idx.Add([]float32{1, 2})
		assert.Equal(t, sitevec.EDIMENSION, sitevec.ErrorCode(err))
	})

	t.Run("copies the input vector", func(t *testing.T) {
		t.Parallel()

		idx := vector.NewIndex(2)
		v := []float32{1, 2}
		_, err := idx.Add(v)
		require.NoError(t, err)

		v[0] = 99

		assert.Equal(t, []float32{1, 2}, idx.Vector(0))
	})
}

func TestIndex_Search(t *testing.T) {
	t.Parallel()

	newIndex := func(t *testing.T, vectors ...[]float32) *vector.Index {
		t.Helper()
		idx := vector.NewIndex(2)
		for _, v := range vectors {
			_, err := idx.Add(v)
			require.NoError(t, err)
		}
		return idx
	}

	t.Run("orders by ascending squared distance", func(t *testing.T) {
		t.Parallel()

		idx := newIndex(t, []float32{3, 0}, []float32{1, 0}, []float32{0, 2})

		hits, err := idx.Search([]float32{0, 0}, 3)

		require.NoError(t, err)
		assert.Equal(t, []vector.Neighbor{
			{Position: 1, Distance: 1},
			{Position: 2, Distance: 4},
			{Position: 0, Distance: 9},
		}, hits)
	})

	t.Run("breaks ties by lowest position", func(t *testing.T) {
		t.Parallel()

		idx := newIndex(t, []float32{1, 0}, []float32{0, 1}, []float32{-1, 0})

		hits, err := idx.Search([]float32{0, 0}, 3)

		require.NoError(t, err)
		assert.Equal(t, []int{0, 1, 2}, []int{hits[0].Position, hits[1].Position, hits[2].Position})
	})

	t.Run("returns all vectors when fewer than k are stored", func(t *testing.T) {
		t.Parallel()

		idx := newIndex(t, []float32{1, 1}, []float32{2, 2})

		hits, err := idx.Search([]float32{0, 0}, 3)

		require.NoError(t, err)
		assert.Len(t, hits, 2)
	})

	t.Run("non-positive k returns empty", func(t *testing.T) {
		t.Parallel()

		idx := newIndex(t, []float32{1, 1})

		hits, err := idx.Search([]float32{0, 0}, 0)
		require.NoError(t, err)
		assert.Empty(t, hits)

		hits, err = idx.Search([]float32{0, 0}, -1)
		require.NoError(t, err)
		assert.Empty(t, hits)
	})

	t.Run("stored vector ranks itself first at distance zero", func(t *testing.T) {
		t.Parallel()

		idx := newIndex(t, []float32{0.5, 0.25}, []float32{-3, 7}, []float32{0.5, 0.3})

		for i := range idx.Len() {
			hits, err := idx.Search(idx.Vector(i), 1)
			require.NoError(t, err)
			require.Len(t, hits, 1)
			assert.Equal(t, i, hits[0].Position)
			assert.Zero(t, hits[0].Distance)
		}
	})

	t.Run("rejects query of wrong dimension", func(t *testing.T) {
		t.Parallel()

		idx := newIndex(t, []float32{1, 1})

		_, err := idx.Search([]float32{1, 1, 1}, 1)

		assert.Equal(t, sitevec.EDIMENSION, sitevec.ErrorCode(err))
	})
}

func TestDocuments(t *testing.T) {
	t.Parallel()

	var docs vector.Documents

	p := docs.Append(sitevec.Chunk{URL: "https://example.com/", Content: "hello"})
	assert.Equal(t, 0, p)
	assert.Equal(t, 1, docs.Len())

	got, err := docs.Get(0)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Content)

	_, err = docs.Get(1)
	assert.Equal(t, sitevec.ENOTFOUND, sitevec.ErrorCode(err))

	assert.Len(t, docs.All(), 1)
}

package vector

import "github.com/fwojciec/sitevec"

// Documents is the ordered list of chunk records. Position i describes the
// vector at position i of the matching Index.
type Documents struct {
	records []sitevec.Chunk
}

// Append adds c at the next position and returns that position.
func (d *Documents) Append(c sitevec.Chunk) int {
	d.records = append(d.records, c)
	return len(d.records) - 1
}

// Get returns the record at position i.
// Returns ENOTFOUND if i is out of range.
func (d *Documents) Get(i int) (sitevec.Chunk, error) {
	if i < 0 || i >= len(d.records) {
		return sitevec.Chunk{}, sitevec.Errorf(sitevec.ENOTFOUND, "no document at position %d", i)
	}
	return d.records[i], nil
}

// Len returns the number of records.
func (d *Documents) Len() int { return len(d.records) }

// All returns the records in position order.
func (d *Documents) All() []sitevec.Chunk { return d.records }

package sitevec

import "context"

// Chunk represents a bounded, possibly overlapping span of a page's text.
// Once added to a vector store it is the document record describing the
// embedding stored at the same position.
type Chunk struct {
	URL        string   `json:"url"`
	ChunkID    int      `json:"chunk_id"`
	Content    string   `json:"content"`
	Links      []string `json:"links"`
	TokenCount int      `json:"token_count"`
}

// Validate returns an error if the chunk contains invalid fields.
func (c *Chunk) Validate() error {
	if c.URL == "" {
		return Errorf(EINVALID, "chunk URL required")
	}
	if c.ChunkID < 0 {
		return Errorf(EINVALID, "chunk ID must not be negative")
	}
	if c.Content == "" {
		return Errorf(EINVALID, "chunk content required")
	}
	return nil
}

// Segment is one piece of text produced by a Splitter.
type Segment struct {
	Content    string
	TokenCount int
}

// Splitter splits page text into an ordered sequence of overlapping segments.
type Splitter interface {
	// Split returns the segments of text in document order.
	// Empty text yields no segments.
	Split(ctx context.Context, text string) ([]Segment, error)
}

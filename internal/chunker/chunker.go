// ABOUTME: Chunker splits text into overlapping token-bounded segments
// ABOUTME: Slides a fixed token window across the text with configurable overlap
package chunker

import (
	"github.com/harper/portfolio-rag/internal/tokenizer"
)

const (
	// DefaultChunkSize is the token window size per chunk.
	DefaultChunkSize = 500
	// DefaultOverlap is the number of tokens shared by consecutive chunks.
	DefaultOverlap = 50
)

// Segment is one chunk of a larger text.
type Segment struct {
	Content    string
	TokenCount int
	Index      int
}

// Chunker splits text into overlapping token windows.
type Chunker struct {
	tok       *tokenizer.Tokenizer
	chunkSize int
	overlap   int
}

// New creates a Chunker with the given window size and overlap.
// Non-positive sizes fall back to defaults; overlap is capped below chunkSize
// so the window always advances.
func New(chunkSize, overlap int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 10
	}
	return &Chunker{
		tok:       tokenizer.New(),
		chunkSize: chunkSize,
		overlap:   overlap,
	}
}

// Chunk splits text into segments of at most chunkSize tokens, consecutive
// segments sharing exactly overlap tokens. Text at or under the window size
// comes back as a single segment. Empty or whitespace-only input yields nil.
// Deterministic and side-effect free.
func (c *Chunker) Chunk(text string) []Segment {
	normalized, tokens := c.tok.Encode(text)
	if len(tokens) == 0 {
		return nil
	}

	if len(tokens) <= c.chunkSize {
		return []Segment{{
			Content:    normalized,
			TokenCount: len(tokens),
			Index:      0,
		}}
	}

	var segments []Segment
	step := c.chunkSize - c.overlap

	for start := 0; start < len(tokens); start += step {
		end := start + c.chunkSize
		if end > len(tokens) {
			end = len(tokens)
		}

		// Slice the normalized text between token byte spans so the chunk
		// decodes back to the exact source substring.
		content := normalized[tokens[start].Start:tokens[end-1].End]
		segments = append(segments, Segment{
			Content:    content,
			TokenCount: end - start,
			Index:      len(segments),
		})

		if end == len(tokens) {
			break
		}
	}

	return segments
}

// ChunkSize returns the configured window size in tokens.
func (c *Chunker) ChunkSize() int { return c.chunkSize }

// Overlap returns the configured overlap in tokens.
func (c *Chunker) Overlap() int { return c.overlap }

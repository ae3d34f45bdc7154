package chunker

import (
	"fmt"
	"strings"

	"book-rag/internal/models"
)

// Splitter cuts extracted text into overlapping chunks bounded by
// maxChunkSize bytes. Adjacent chunks share overlap bytes so that
// content spanning a cut point stays retrievable.
type Splitter struct {
	maxChunkSize int
	overlap      int
}

// NewSplitter validates the chunking parameters. Violations are
// configuration errors and belong at startup, not per request.
func NewSplitter(maxChunkSize, overlap int) (*Splitter, error) {
	if maxChunkSize <= 0 {
		return nil, fmt.Errorf("chunker: max chunk size must be positive, got %d", maxChunkSize)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("chunker: overlap cannot be negative, got %d", overlap)
	}
	if overlap >= maxChunkSize {
		return nil, fmt.Errorf("chunker: overlap %d must be smaller than max chunk size %d", overlap, maxChunkSize)
	}
	return &Splitter{maxChunkSize: maxChunkSize, overlap: overlap}, nil
}

// Split produces chunks in document order. Each chunk is a verbatim slice
// of the input, so offsets reconstruct the original text exactly.
func (s *Splitter) Split(text string) []models.Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var chunks []models.Chunk
	start := 0
	seq := 0
	for start < len(text) {
		end := start + s.maxChunkSize
		if end >= len(text) {
			end = len(text)
		} else if cut := s.naturalCut(text, start, end); cut > start {
			end = cut
		}

		chunks = append(chunks, models.Chunk{Text: text[start:end], Seq: seq, Start: start})
		seq++
		if end == len(text) {
			break
		}

		next := end - s.overlap
		if next <= start {
			// Overlap would stall on a short boundary-snapped chunk.
			next = end
		}
		start = next
	}
	return chunks
}

// naturalCut searches the tail of the window for a split point, preferring
// paragraph breaks, then sentence ends, then any whitespace. Returns 0 when
// only a hard cut is possible.
func (s *Splitter) naturalCut(text string, start, end int) int {
	lookBack := s.maxChunkSize / 10
	if lookBack < 1 {
		lookBack = 1
	}
	lo := end - lookBack
	if lo <= start {
		lo = start + 1
	}

	for i := end - 1; i >= lo; i-- {
		if text[i] == '\n' && i > start && text[i-1] == '\n' {
			return i + 1
		}
	}
	for i := end - 1; i >= lo; i-- {
		switch text[i] {
		case '.', '!', '?':
			return i + 1
		}
	}
	for i := end - 1; i >= lo; i-- {
		if text[i] == ' ' || text[i] == '\n' || text[i] == '\t' {
			return i + 1
		}
	}
	return 0
}

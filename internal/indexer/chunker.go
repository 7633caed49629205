package indexer

import (
	"fmt"
	"strings"
)

// Splitter produces bounded, overlapping windows over document text.
// Sizes are measured in runes so multi-byte content chunks predictably.
type Splitter struct {
	chunkSize int
	overlap   int
}

// NewSplitter validates the window parameters. A non-positive chunk size or
// an overlap as large as the window would stall the split loop, so both are
// rejected up front instead of being clamped mid-loop.
func NewSplitter(chunkSize, overlap int) (*Splitter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be greater than 0, got %d", chunkSize)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("chunk overlap must not be negative, got %d", overlap)
	}
	if overlap >= chunkSize {
		return nil, fmt.Errorf("chunk overlap (%d) must be smaller than chunk size (%d)", overlap, chunkSize)
	}
	return &Splitter{chunkSize: chunkSize, overlap: overlap}, nil
}

// Split slides a fixed-width window over text and returns the trimmed,
// non-empty windows in order. Adjacent windows overlap by the configured
// amount, and the final window always ends exactly at the end of the text.
// Windows that are empty after trimming are dropped, so the result may be
// shorter than the naive window count.
func (s *Splitter) Split(text string) []string {
	runes := []rune(text)

	if len(runes) <= s.chunkSize {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil
		}
		return []string{trimmed}
	}

	var chunks []string
	start := 0
	end := s.chunkSize
	for start < len(runes) {
		window := strings.TrimSpace(string(runes[start:end]))
		if window != "" {
			chunks = append(chunks, window)
		}
		if end >= len(runes) {
			break
		}
		start = end - s.overlap
		if start < 0 {
			start = 0
		}
		end = start + s.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
	}
	return chunks
}

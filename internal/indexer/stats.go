package indexer

import (
	"sort"
	"unicode/utf8"

	"ragsync/internal/storage"
)

// SourceCount pairs a source file name with its stored chunk count.
type SourceCount struct {
	Source string
	Count  int
}

// ChunkSetStats summarizes the persisted chunk state for inspection.
type ChunkSetStats struct {
	Rows     int
	Sources  []SourceCount // sorted by source name
	MinBody  int           // rune length of the shortest body
	MaxBody  int           // rune length of the longest body
	MeanBody float64       // mean body rune length
}

// CollectStats computes summary statistics over stored chunk records.
func CollectStats(records []storage.ChunkRecord) ChunkSetStats {
	stats := ChunkSetStats{Rows: len(records)}
	if len(records) == 0 {
		return stats
	}

	perSource := make(map[string]int)
	total := 0
	stats.MinBody = utf8.RuneCountInString(records[0].Body)
	for _, rec := range records {
		perSource[rec.Source]++
		n := utf8.RuneCountInString(rec.Body)
		total += n
		if n < stats.MinBody {
			stats.MinBody = n
		}
		if n > stats.MaxBody {
			stats.MaxBody = n
		}
	}
	stats.MeanBody = float64(total) / float64(len(records))

	for source, count := range perSource {
		stats.Sources = append(stats.Sources, SourceCount{Source: source, Count: count})
	}
	sort.Slice(stats.Sources, func(i, j int) bool {
		return stats.Sources[i].Source < stats.Sources[j].Source
	})
	return stats
}

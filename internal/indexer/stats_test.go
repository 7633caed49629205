package indexer

import (
	"reflect"
	"testing"

	"ragsync/internal/storage"
)

func TestCollectStats(t *testing.T) {
	records := []storage.ChunkRecord{
		{ID: "faq-a:1", Source: "faq.json", Body: "abcd"},
		{ID: "faq-b:1", Source: "faq.json", Body: "ab"},
		{ID: "about-x:1", Source: "about.json", Body: "abcdef"},
	}

	stats := CollectStats(records)
	if stats.Rows != 3 {
		t.Errorf("Rows = %d, want 3", stats.Rows)
	}
	wantSources := []SourceCount{
		{Source: "about.json", Count: 1},
		{Source: "faq.json", Count: 2},
	}
	if !reflect.DeepEqual(stats.Sources, wantSources) {
		t.Errorf("Sources = %v, want %v", stats.Sources, wantSources)
	}
	if stats.MinBody != 2 || stats.MaxBody != 6 {
		t.Errorf("MinBody/MaxBody = %d/%d, want 2/6", stats.MinBody, stats.MaxBody)
	}
	if stats.MeanBody != 4 {
		t.Errorf("MeanBody = %v, want 4", stats.MeanBody)
	}
}

func TestCollectStats_Empty(t *testing.T) {
	stats := CollectStats(nil)
	if stats.Rows != 0 || stats.Sources != nil || stats.MinBody != 0 || stats.MaxBody != 0 || stats.MeanBody != 0 {
		t.Errorf("CollectStats(nil) = %+v, want zero value", stats)
	}
}

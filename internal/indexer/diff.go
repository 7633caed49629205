package indexer

import "sort"

// Diff compares the freshly built chunk set against the previously persisted
// checksums and returns the chunks whose content is new or changed (in build
// order) plus the ids that no longer exist (sorted). Chunks whose checksum
// matches the stored one need no remote work at all.
func Diff(prev map[string]string, fresh []Chunk) (toRefresh []Chunk, toDelete []string) {
	freshIDs := make(map[string]struct{}, len(fresh))
	for _, chunk := range fresh {
		freshIDs[chunk.ID] = struct{}{}
		if prev[chunk.ID] != chunk.Checksum {
			toRefresh = append(toRefresh, chunk)
		}
	}

	for id := range prev {
		if _, ok := freshIDs[id]; !ok {
			toDelete = append(toDelete, id)
		}
	}
	sort.Strings(toDelete)

	return toRefresh, toDelete
}

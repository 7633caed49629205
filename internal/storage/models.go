package storage

// ChunkRecord is one row of the rag_chunks table: the durable record of a
// chunk as of the last successful synchronization run.
type ChunkRecord struct {
	ID        string // "<base_id>:<n>", primary key
	Source    string // originating file name (e.g. "faq.json")
	Topic     string // human label for the logical document
	Body      string // chunk text, trimmed at its boundaries
	Checksum  string // sha256 hex of Body
	UpdatedAt string // RFC 3339 UTC timestamp of the run that wrote the row
}

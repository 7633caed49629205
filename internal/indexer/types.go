package indexer

// Document is one logical unit extracted from a structured source file:
// a list element, a mapping entry, or an entire scalar file.
type Document struct {
	BaseID string // "<source stem>-<slug(topic)>"
	Topic  string // human label for the unit
	Text   string // composed text handed to the splitter
}

// Chunk is the unit of synchronization: a bounded, overlapping window of a
// document's text, addressed by a stable id and fingerprinted for change
// detection.
type Chunk struct {
	ID       string // "<base_id>:<n>", 1-based sequence within its document
	Source   string // originating file name (e.g. "faq.json")
	Topic    string
	Body     string // trimmed window content
	Checksum string // sha256 hex of Body
}

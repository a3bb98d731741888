package types

// KnowledgeEntry is one document in the knowledge base file.
type KnowledgeEntry struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags"`
	CreatedAt string   `json:"created_at"`
}

// KnowledgeMetadata is the bookkeeping section of the knowledge base file.
// NextID is the monotonic allocation counter; it is zero in files written
// before the counter existed and is recovered from the entry ids on load.
type KnowledgeMetadata struct {
	LastUpdated  string `json:"last_updated"`
	TotalEntries int    `json:"total_entries"`
	NextID       int    `json:"next_id,omitempty"`
}

// KnowledgeBase is the full persisted document: all entries in insertion
// order plus metadata. TotalEntries is recomputed on every save.
type KnowledgeBase struct {
	Entries  []KnowledgeEntry  `json:"entries"`
	Metadata KnowledgeMetadata `json:"metadata"`
}

// AddEntryRequest carries caller-supplied fields for a new entry.
// The id and created_at are assigned by the store, never by the caller.
type AddEntryRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags,omitempty"`
}

// KnowledgeSearchResult is the shape returned by the search operation.
type KnowledgeSearchResult struct {
	Query        string           `json:"query"`
	Tags         []string         `json:"tags"`
	ResultsCount int              `json:"results_count"`
	Results      []KnowledgeEntry `json:"results"`
}

// KnowledgeEntryResult wraps a single entry returned from a mutating
// operation. Persisted reports whether the save step actually reached disk;
// add and delete still return the entry when it did not (best-effort
// persistence, the caller decides whether that matters).
type KnowledgeEntryResult struct {
	Entry     KnowledgeEntry `json:"entry"`
	Persisted bool           `json:"persisted"`
}

package types

// DispatchRequest is the envelope accepted by the tool-dispatch server's
// POST /mcp endpoint.
type DispatchRequest struct {
	Action     string                 `json:"action" binding:"required"`
	Parameters map[string]interface{} `json:"parameters"`
	Context    map[string]interface{} `json:"context,omitempty"`
}

// SearchDocumentsRequest asks the vector store for similar ship documents.
type SearchDocumentsRequest struct {
	Queries []string `json:"queries"`
	Tags    []string `json:"tags,omitempty"`
	Limit   int      `json:"limit,omitempty"`
}

// QueryRequest carries a read-only SQL query for the passthrough endpoint.
type QueryRequest struct {
	Query string        `json:"query"`
	Args  []interface{} `json:"args,omitempty"`
}

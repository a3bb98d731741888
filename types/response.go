package types

// DataResponse is the generic REST response envelope.
type DataResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// DispatchResponse is the envelope returned by the tool-dispatch server.
type DispatchResponse struct {
	Result   interface{}            `json:"result"`
	Error    string                 `json:"error,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// SearchDocumentsResponse wraps vector store search results.
type SearchDocumentsResponse struct {
	Documents []Document `json:"documents"`
}

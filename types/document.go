package types

// Document represents one ship document chunk in the vector store.
type Document struct {
	ID        string   `json:"id"`
	Content   string   `json:"content"`
	Metadata  Metadata `json:"metadata"`
	CreatedAt int64    `json:"created_at"`
}

// Metadata contains additional document information.
type Metadata struct {
	Title  string            `json:"title"`
	Source string            `json:"source"`
	Tags   []string          `json:"tags"`
	Custom map[string]string `json:"custom"`
}

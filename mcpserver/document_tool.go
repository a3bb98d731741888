package mcpserver

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tieubaoca/mxp-gateway/database"
	"github.com/tieubaoca/mxp-gateway/types"
)

// DocumentSearchTool exposes semantic search over the ship document store.
type DocumentSearchTool struct {
	store database.DocumentStore
}

// NewDocumentSearchTool creates a DocumentSearchTool.
func NewDocumentSearchTool(store database.DocumentStore) *DocumentSearchTool {
	return &DocumentSearchTool{store: store}
}

// Register adds the document search and index management tools.
func (t *DocumentSearchTool) Register(s *server.MCPServer) {
	s.AddTool(t.Definition(), t.Handle)
	s.AddTool(t.indexDefinition(), t.handleIndex)
	s.AddTool(t.removeDefinition(), t.handleRemove)
}

// Definition returns the MCP tool definition for search_ship_documents.
func (t *DocumentSearchTool) Definition() mcp.Tool {
	return mcp.NewTool("search_ship_documents",
		mcp.WithDescription("Semantic search over indexed ship documents (manuals, procedures, notices). Returns the most relevant document chunks."),
		mcp.WithArray("queries",
			mcp.Required(),
			mcp.Description("Natural-language queries to search for"),
			mcp.Items(map[string]interface{}{"type": "string"}),
		),
		mcp.WithArray("tags",
			mcp.Description("Optional tags to restrict the search"),
			mcp.Items(map[string]interface{}{"type": "string"}),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max results (default: 5)"),
		),
	)
}

// Handle processes the search_ship_documents tool call.
func (t *DocumentSearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	queries := stringSliceArg(req, "queries")
	if len(queries) == 0 {
		return mcp.NewToolResultError("'queries' is required"), nil
	}
	tags := stringSliceArg(req, "tags")
	limit, ok := intArg(req, "limit")
	if !ok || limit <= 0 {
		limit = 5
	}

	docs, _, err := t.store.SearchSimilar(ctx, queries, tags, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("document search failed: %v", err)), nil
	}
	if len(docs) == 0 {
		return mcp.NewToolResultText("No documents found matching your query."), nil
	}
	return jsonResult(docs)
}

func (t *DocumentSearchTool) indexDefinition() mcp.Tool {
	return mcp.NewTool("index_ship_document",
		mcp.WithDescription("Index a ship document chunk for semantic search. Pass an id to update an existing document."),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Document text to index"),
		),
		mcp.WithString("title",
			mcp.Description("Document title"),
		),
		mcp.WithString("source",
			mcp.Description("Where the document came from (file name, system, deck log)"),
		),
		mcp.WithArray("tags",
			mcp.Description("Tags for filtering searches"),
			mcp.Items(map[string]interface{}{"type": "string"}),
		),
		mcp.WithString("id",
			mcp.Description("Existing document id to overwrite; omitted for new documents"),
		),
	)
}

func (t *DocumentSearchTool) handleIndex(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content := req.GetString("content", "")
	if content == "" {
		return mcp.NewToolResultError("'content' is required"), nil
	}

	doc := &types.Document{
		ID:        req.GetString("id", ""),
		Content:   content,
		CreatedAt: time.Now().Unix(),
		Metadata: types.Metadata{
			Title:  req.GetString("title", ""),
			Source: req.GetString("source", ""),
			Tags:   stringSliceArg(req, "tags"),
		},
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}

	if err := t.store.UpsertDocument(ctx, doc); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("indexing failed: %v", err)), nil
	}
	return jsonResult(map[string]interface{}{"id": doc.ID, "indexed": true})
}

func (t *DocumentSearchTool) removeDefinition() mcp.Tool {
	return mcp.NewTool("remove_ship_document",
		mcp.WithDescription("Remove an indexed ship document by its id."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("The document id to remove"),
		),
	)
}

func (t *DocumentSearchTool) handleRemove(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}
	if err := t.store.DeleteDocument(ctx, id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("removal failed: %v", err)), nil
	}
	return jsonResult(map[string]interface{}{"id": id, "removed": true})
}

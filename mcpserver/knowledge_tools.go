package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tieubaoca/mxp-gateway/service"
	"github.com/tieubaoca/mxp-gateway/types"
)

// KnowledgeTools exposes the knowledge entry store as MCP tools.
type KnowledgeTools struct {
	knowledge *service.KnowledgeService
}

// NewKnowledgeTools creates the knowledge tool set.
func NewKnowledgeTools(knowledge *service.KnowledgeService) *KnowledgeTools {
	return &KnowledgeTools{knowledge: knowledge}
}

// Register adds all knowledge tools to the server.
func (t *KnowledgeTools) Register(s *server.MCPServer) {
	s.AddTool(t.searchDefinition(), t.handleSearch)
	s.AddTool(t.getDefinition(), t.handleGet)
	s.AddTool(t.addDefinition(), t.handleAdd)
	s.AddTool(t.deleteDefinition(), t.handleDelete)
}

func (t *KnowledgeTools) searchDefinition() mcp.Tool {
	return mcp.NewTool("knowledge_search",
		mcp.WithDescription("Search the knowledge base by text and/or tags. Text matches entry titles and contents case-insensitively. An entry matches when it carries any of the given tags."),
		mcp.WithString("query",
			mcp.Description("Free-text search over titles and contents; empty matches everything"),
		),
		mcp.WithArray("tags",
			mcp.Description("Tags to filter by; an entry matches if it has at least one"),
			mcp.Items(map[string]interface{}{"type": "string"}),
		),
	)
}

func (t *KnowledgeTools) handleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	tags := stringSliceArg(req, "tags")
	result, err := t.knowledge.Search(query, tags)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (t *KnowledgeTools) getDefinition() mcp.Tool {
	return mcp.NewTool("knowledge_get",
		mcp.WithDescription("Get a single knowledge base entry by its ID (e.g. kb001)."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("The entry ID"),
		),
	)
}

func (t *KnowledgeTools) handleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}
	entry, err := t.knowledge.Get(id)
	if err != nil {
		if service.IsNotFound(err) {
			return mcp.NewToolResultError(fmt.Sprintf("entry %s not found", id)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("get failed: %v", err)), nil
	}
	return jsonResult(entry)
}

func (t *KnowledgeTools) addDefinition() mcp.Tool {
	return mcp.NewTool("knowledge_add",
		mcp.WithDescription("Add a new entry to the knowledge base. The entry is assigned the next sequential kbNNN identifier."),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Entry title"),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Entry content"),
		),
		mcp.WithArray("tags",
			mcp.Description("Optional tags for the entry"),
			mcp.Items(map[string]interface{}{"type": "string"}),
		),
	)
}

func (t *KnowledgeTools) handleAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	addReq := types.AddEntryRequest{
		Title:   req.GetString("title", ""),
		Content: req.GetString("content", ""),
		Tags:    stringSliceArg(req, "tags"),
	}
	result, err := t.knowledge.Add(addReq)
	if err != nil {
		if service.IsValidation(err) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("add failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (t *KnowledgeTools) deleteDefinition() mcp.Tool {
	return mcp.NewTool("knowledge_delete",
		mcp.WithDescription("Delete a knowledge base entry by its ID. Returns the removed entry."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("The entry ID to delete"),
		),
	)
}

func (t *KnowledgeTools) handleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}
	result, err := t.knowledge.Delete(id)
	if err != nil {
		if service.IsNotFound(err) {
			return mcp.NewToolResultError(fmt.Sprintf("entry %s not found", id)), nil
		}
		if service.IsValidation(err) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("delete failed: %v", err)), nil
	}
	return jsonResult(result)
}

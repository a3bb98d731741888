package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tieubaoca/mxp-gateway/database"
)

// QueryTool exposes the read-only SQL passthrough as an MCP tool.
type QueryTool struct {
	store database.QueryStore
}

// NewQueryTool creates a QueryTool.
func NewQueryTool(store database.QueryStore) *QueryTool {
	return &QueryTool{store: store}
}

// Definition returns the MCP tool definition for execute_read_only_query.
func (t *QueryTool) Definition() mcp.Tool {
	return mcp.NewTool("execute_read_only_query",
		mcp.WithDescription("Execute a read-only SQL SELECT query against the MXP database and return rows as objects keyed by column name. Only SELECT statements are accepted."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The SQL SELECT query string (use @p1, @p2, ... placeholders for parameters)"),
		),
		mcp.WithArray("params",
			mcp.Description("Optional positional query parameters"),
		),
	)
}

// Handle processes the execute_read_only_query tool call.
func (t *QueryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	if query == "" {
		return mcp.NewToolResultError("'query' is required"), nil
	}

	var args []interface{}
	if raw, ok := req.GetArguments()["params"].([]interface{}); ok {
		args = raw
	}

	rows, err := t.store.ExecuteReadOnlyQuery(ctx, query, args...)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
	}
	return jsonResult(rows)
}

package mcpserver

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tieubaoca/mxp-gateway/repository"
	"github.com/tieubaoca/mxp-gateway/service"
	"github.com/tieubaoca/mxp-gateway/types"
)

func newTestKnowledgeTools(t *testing.T) *KnowledgeTools {
	t.Helper()
	repo := repository.NewFileKnowledgeRepo(filepath.Join(t.TempDir(), "knowledge_base.json"))
	svc, err := service.NewKnowledgeService(repo)
	require.NoError(t, err)
	return NewKnowledgeTools(svc)
}

// makeReq builds a mcp.CallToolRequest with the given arguments.
func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultText extracts the text content from a tool result.
func resultText(t *testing.T, r *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, r)
	require.NotEmpty(t, r.Content)
	tc, ok := r.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return tc.Text
}

func TestKnowledgeSearchReturnsSeeds(t *testing.T) {
	tools := newTestKnowledgeTools(t)

	res, err := tools.handleSearch(context.Background(), makeReq(map[string]interface{}{}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var result types.KnowledgeSearchResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &result))
	assert.Equal(t, 3, result.ResultsCount)
}

func TestKnowledgeSearchByTag(t *testing.T) {
	tools := newTestKnowledgeTools(t)

	res, err := tools.handleSearch(context.Background(), makeReq(map[string]interface{}{
		"tags": []interface{}{"security"},
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var result types.KnowledgeSearchResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &result))
	require.Equal(t, 1, result.ResultsCount)
	assert.Equal(t, "kb003", result.Results[0].ID)
}

func TestKnowledgeGet(t *testing.T) {
	tools := newTestKnowledgeTools(t)

	res, err := tools.handleGet(context.Background(), makeReq(map[string]interface{}{
		"id": "kb001",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var entry types.KnowledgeEntry
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &entry))
	assert.Equal(t, "What is MCP?", entry.Title)
}

func TestKnowledgeGetMissingID(t *testing.T) {
	tools := newTestKnowledgeTools(t)

	res, err := tools.handleGet(context.Background(), makeReq(map[string]interface{}{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestKnowledgeGetNotFound(t *testing.T) {
	tools := newTestKnowledgeTools(t)

	res, err := tools.handleGet(context.Background(), makeReq(map[string]interface{}{
		"id": "kb999",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "kb999")
}

func TestKnowledgeAddAndDelete(t *testing.T) {
	tools := newTestKnowledgeTools(t)

	res, err := tools.handleAdd(context.Background(), makeReq(map[string]interface{}{
		"title":   "Test Entry",
		"content": "Some content",
		"tags":    []interface{}{"test"},
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var added types.KnowledgeEntryResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &added))
	assert.Equal(t, "kb004", added.Entry.ID)
	assert.True(t, added.Persisted)

	res, err = tools.handleDelete(context.Background(), makeReq(map[string]interface{}{
		"id": "kb004",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var deleted types.KnowledgeEntryResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &deleted))
	assert.Equal(t, "Test Entry", deleted.Entry.Title)
}

func TestKnowledgeAddRejectsEmpty(t *testing.T) {
	tools := newTestKnowledgeTools(t)

	res, err := tools.handleAdd(context.Background(), makeReq(map[string]interface{}{
		"title": "Only a title",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestKnowledgeToolDefinitions(t *testing.T) {
	tools := newTestKnowledgeTools(t)

	assert.Equal(t, "knowledge_search", tools.searchDefinition().Name)
	assert.Equal(t, "knowledge_get", tools.getDefinition().Name)
	assert.Equal(t, "knowledge_add", tools.addDefinition().Name)
	assert.Equal(t, "knowledge_delete", tools.deleteDefinition().Name)
}

// Package mcpserver wires the MXP gateway's tools, resources, and prompts
// into an MCP server instance. No business logic lives here, only wiring.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/tieubaoca/mxp-gateway/database"
	"github.com/tieubaoca/mxp-gateway/service"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Deps holds the services the MCP server exposes. Query and Documents are
// optional; their tools are only registered when the backing store is
// configured.
type Deps struct {
	MXP       service.MXPService
	Knowledge *service.KnowledgeService
	Query     database.QueryStore
	Documents database.DocumentStore
}

// New creates the MCP server with all tools, resources, and prompts
// registered.
func New(deps Deps) *server.MCPServer {
	s := server.NewMCPServer(
		"mxp-gateway",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	mxpTools := NewMXPTools(deps.MXP)
	mxpTools.Register(s)

	knowledgeTools := NewKnowledgeTools(deps.Knowledge)
	knowledgeTools.Register(s)

	if deps.Query != nil {
		queryTool := NewQueryTool(deps.Query)
		s.AddTool(queryTool.Definition(), queryTool.Handle)
	}

	if deps.Documents != nil {
		docTool := NewDocumentSearchTool(deps.Documents)
		docTool.Register(s)
	}

	registerResources(s)
	registerPrompts(s)

	return s
}

func serverInstructions() string {
	return `This server provides access to a shipboard MXP property management
system. Use the get_* tools to look up accounts, folios, crew, documents,
iCafe packages, images, quick codes, manifests, receipts, and invoices.

The knowledge_* tools manage a small knowledge base of operational notes.
When a SQL store is configured, execute_read_only_query runs SELECT
statements directly against the MXP database.`
}

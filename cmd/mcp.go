/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/tieubaoca/mxp-gateway/config"
	"github.com/tieubaoca/mxp-gateway/database"
	"github.com/tieubaoca/mxp-gateway/mcpserver"
	"github.com/tieubaoca/mxp-gateway/repository"
	"github.com/tieubaoca/mxp-gateway/service"
)

var (
	mcpTransport string
	mcpPort      int
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Model Context Protocol server",
	Long: `Starts an MCP server exposing the MXP lookups, the knowledge base,
and (when configured) the read-only SQL passthrough and ship document
search as tools for LLM clients.

Transports:
  stdio            for Claude Desktop and local MCP clients (default)
  sse              for browser-based clients
  streamable-http  for web-based clients`,
	RunE: func(cmd *cobra.Command, args []string) error {

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		deps := mcpserver.Deps{
			MXP: service.NewMXPService(cfg.MXP),
		}

		knowledgeRepo := repository.NewFileKnowledgeRepo(cfg.KnowledgeBasePath)
		deps.Knowledge, err = service.NewKnowledgeService(knowledgeRepo)
		if err != nil {
			return fmt.Errorf("initializing knowledge base: %w", err)
		}

		if cfg.DB.Server != "" {
			store, err := database.NewMSSQLStore(cfg.DB)
			if err != nil {
				return fmt.Errorf("connecting to MXP database: %w", err)
			}
			defer store.Close()
			deps.Query = store
		} else {
			log.Println("db.server not configured, SQL query tool disabled")
		}

		if cfg.Weaviate.Host != "" {
			docStore, err := database.NewWeaviateStore(cfg.Weaviate)
			if err != nil {
				return fmt.Errorf("connecting to Weaviate database: %w", err)
			}
			deps.Documents = docStore
		} else {
			log.Println("weaviate.host not configured, document tools disabled")
		}

		s := mcpserver.New(deps)

		switch mcpTransport {
		case "stdio":
			// stdout carries the protocol, so status goes to stderr via log
			log.Println("MCP server starting in stdio mode...")
			return server.ServeStdio(s)
		case "sse":
			addr := fmt.Sprintf(":%d", mcpPort)
			log.Printf("MCP server starting with SSE transport on %s...\n", addr)
			return serveWithShutdown(server.NewSSEServer(s), addr)
		case "streamable-http":
			addr := fmt.Sprintf(":%d", mcpPort)
			log.Printf("MCP server starting with streamable HTTP transport on %s...\n", addr)
			return serveWithShutdown(server.NewStreamableHTTPServer(s), addr)
		default:
			return fmt.Errorf("unknown transport %q (expected stdio, sse, or streamable-http)", mcpTransport)
		}
	},
}

// httpTransport is the surface shared by the SSE and streamable HTTP
// servers.
type httpTransport interface {
	Start(addr string) error
	Shutdown(ctx context.Context) error
}

// serveWithShutdown runs the transport until it fails or the process
// receives SIGINT/SIGTERM, then drains it. The stdio transport handles
// signals itself inside ServeStdio.
func serveWithShutdown(t httpTransport, addr string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- t.Start(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		stop()
		log.Println("Shutting down MCP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return t.Shutdown(shutdownCtx)
	}
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().StringVar(&mcpTransport, "transport", "stdio", "transport protocol: stdio, sse, or streamable-http")
	mcpCmd.Flags().IntVar(&mcpPort, "port", 8000, "port for HTTP transports")
}

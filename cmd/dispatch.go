/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/tieubaoca/mxp-gateway/config"
	"github.com/tieubaoca/mxp-gateway/handler"
	"github.com/tieubaoca/mxp-gateway/middleware"
	"github.com/tieubaoca/mxp-gateway/repository"
	"github.com/tieubaoca/mxp-gateway/service"
)

// dispatchCmd represents the dispatch command
var dispatchCmd = &cobra.Command{
	Use:   "dispatch",
	Short: "Start the tool-dispatch HTTP server",
	Long: `Starts an HTTP server accepting tool invocations as a JSON envelope
on POST /mcp. Supported actions: example_tool, knowledge_tool,
list_resources, read_resource. GET /mcp and GET /mcp/sse stream an SSE
heartbeat for clients probing the endpoint.`,
	Run: func(cmd *cobra.Command, args []string) {

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		mxpService := service.NewMXPService(cfg.MXP)

		knowledgeRepo := repository.NewFileKnowledgeRepo(cfg.KnowledgeBasePath)
		knowledgeService, err := service.NewKnowledgeService(knowledgeRepo)
		if err != nil {
			log.Fatalf("Failed to initialize knowledge base: %v", err)
		}

		corsHandler := handler.NewCorsHandler()
		healthHandler := handler.NewHealthHandler("MCP Server is running")
		dispatchHandler := handler.NewDispatchHandler(mxpService, knowledgeService)

		router := gin.Default()

		router.Use(corsHandler.CorsMiddleware)
		router.Use(middleware.RequestID())
		router.Use(middleware.RequestLogger())

		router.GET("/", healthHandler.HandleRoot)
		router.GET("/healthz", healthHandler.HandleHealthz)

		router.POST("/mcp", dispatchHandler.HandleDispatch)
		router.GET("/mcp", dispatchHandler.HandleSSE)
		router.GET("/mcp/sse", dispatchHandler.HandleSSE)

		log.Printf("Starting dispatch server on port %s...\n", cfg.Port)
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal("Server error:", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(dispatchCmd)
}

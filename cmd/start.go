/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/tieubaoca/mxp-gateway/config"
	"github.com/tieubaoca/mxp-gateway/database"
	"github.com/tieubaoca/mxp-gateway/handler"
	"github.com/tieubaoca/mxp-gateway/middleware"
	"github.com/tieubaoca/mxp-gateway/repository"
	"github.com/tieubaoca/mxp-gateway/service"
)

// startServerCmd represents the start command
var startServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the MXP REST API server",
	Long:  `Starts a REST server exposing MXP lookups and the knowledge base`,
	Run: func(cmd *cobra.Command, args []string) {

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		// Initialize services
		mxpService := service.NewMXPService(cfg.MXP)

		knowledgeRepo := repository.NewFileKnowledgeRepo(cfg.KnowledgeBasePath)
		knowledgeService, err := service.NewKnowledgeService(knowledgeRepo)
		if err != nil {
			log.Fatalf("Failed to initialize knowledge base: %v", err)
		}

		// Initialize handlers
		corsHandler := handler.NewCorsHandler()
		healthHandler := handler.NewHealthHandler("MXP REST API Server is running")
		mxpHandler := handler.NewMXPHandler(mxpService)
		knowledgeHandler := handler.NewKnowledgeHandler(knowledgeService)

		// Setup Gin router
		router := gin.Default()

		// Apply global middleware
		router.Use(corsHandler.CorsMiddleware)
		router.Use(middleware.RequestID())
		router.Use(middleware.RequestLogger())

		router.GET("/", healthHandler.HandleRoot)
		router.GET("/healthz", healthHandler.HandleHealthz)

		// MXP lookup routes
		router.GET("/account/:charge_id", mxpHandler.HandleAccount)
		router.GET("/crew", mxpHandler.HandleCrew)
		router.GET("/folio/:charge_id", mxpHandler.HandleFolio)
		router.GET("/document/:id", mxpHandler.HandleDocument)
		router.GET("/icafe", mxpHandler.HandleICafe)
		router.GET("/person-image/:id", mxpHandler.HandlePersonImage)
		router.GET("/quick-code", mxpHandler.HandleQuickCode)
		router.GET("/sailor-manifest", mxpHandler.HandleSailorManifest)
		router.GET("/receipt-image", mxpHandler.HandleReceiptImage)
		router.GET("/person-invoice/:charge_id", mxpHandler.HandlePersonInvoice)

		// Knowledge base routes
		apiV1 := router.Group("/api/v1")
		{
			apiV1.GET("/knowledge/search", knowledgeHandler.HandleSearch)
			apiV1.GET("/knowledge/:id", knowledgeHandler.HandleGet)
			apiV1.POST("/knowledge", knowledgeHandler.HandleAdd)
			apiV1.DELETE("/knowledge/:id", knowledgeHandler.HandleDelete)
		}

		// Ship document search, only when the vector store is configured
		if cfg.Weaviate.Host != "" {
			weaviateDb, err := database.NewWeaviateStore(cfg.Weaviate)
			if err != nil {
				log.Fatalf("Failed to connect to Weaviate database: %v", err)
			}
			searchHandler := handler.NewSearchHandler(weaviateDb)
			router.GET("/documents/search", searchHandler.HandleSearch)
		}

		log.Printf("Starting server on port %s...\n", cfg.Port)
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal("Server error:", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(startServerCmd)
}

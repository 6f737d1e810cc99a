package main

import (
	"log"
	"net/http"

	"steamweb-prices/internal/api"
	"steamweb-prices/internal/config"
	"steamweb-prices/internal/prices"
	"steamweb-prices/internal/services/steamwebapi"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()
	if cfg.APIKey == "" {
		log.Fatal("STEAM_WEB_API_KEY is not set")
	}

	client := steamwebapi.NewClient(cfg.APIKey)
	service := prices.NewService(cfg.APIKey, client)

	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API routes
	apiGroup := r.Group("/api/v1")
	api.SetupRoutes(apiGroup, service)

	log.Printf("Server starting on port %s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, r))
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olivere/elastic/v7"

	"github.com/oerhub/discovery/api"
	"github.com/oerhub/discovery/config"
	"github.com/oerhub/discovery/internal/engine"
	"github.com/oerhub/discovery/internal/images"
)

func main() {
	// Define command-line flags
	var (
		help      = flag.Bool("help", false, "Show help message")
		version   = flag.Bool("version", false, "Show version information")
		port      = flag.String("port", "", "Port to run the server on (overrides config)")
		configDir = flag.String("config-dir", ".", "Directory containing discovery.yaml")
	)

	flag.Parse()

	// Handle help flag
	if *help {
		fmt.Printf("OER Discovery - a search and recommendation API for open educational resources\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s                          # Start server on the configured port\n", os.Args[0])
		fmt.Printf("  %s --port 9000              # Start server on port 9000\n", os.Args[0])
		fmt.Printf("  %s --config-dir /etc/oer    # Read discovery.yaml from /etc/oer\n", os.Args[0])
		return
	}

	// Handle version flag
	if *version {
		fmt.Printf("OER Discovery v1.0.0\n")
		return
	}

	cfg, err := config.Load(*configDir)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port != "" {
		cfg.Server.Port = *port
	}

	// Connect to the index engine
	log.Printf("Using index '%s' at %s", cfg.Elastic.Index, cfg.Elastic.URL)
	client, err := elastic.NewClient(
		elastic.SetURL(cfg.Elastic.URL),
		elastic.SetSniff(cfg.Elastic.Sniff),
	)
	if err != nil {
		log.Fatalf("Failed to connect to index engine: %v", err)
	}

	imageProvider := images.NewProvider(cfg.Images.BaseURL, cfg.Images.Token, nil)
	searchEngine := engine.NewEngine(client, cfg.Elastic.Index, imageProvider,
		cfg.Search.BasePath, cfg.Search.RecommendPath)

	// Warm the language cache; a failure here only delays the languages
	// endpoint until the first successful refresh.
	languages := engine.NewLanguageCache(client, cfg.Elastic.Index)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := languages.Refresh(ctx); err != nil {
		log.Printf("Warning: initial language cache refresh failed: %v", err)
	}
	cancel()

	// Initialize Gin router
	router := gin.Default()
	router.Use(api.RequestIDMiddleware())
	router.Use(api.CORSMiddleware())
	router.Use(api.RequestSizeLimitMiddleware(cfg.Server.MaxRequestSize))

	// Setup API routes
	api.SetupRoutes(router, searchEngine, searchEngine, languages)

	// Start the server
	log.Printf("Starting server on port %s...", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

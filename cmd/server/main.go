package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/shopscan/backend/config"
	httpDelivery "github.com/shopscan/backend/internal/delivery/http"
	"github.com/shopscan/backend/internal/domain"
	"github.com/shopscan/backend/internal/infrastructure/cache"
	"github.com/shopscan/backend/internal/infrastructure/fetch"
	"github.com/shopscan/backend/internal/infrastructure/gemini"
	"github.com/shopscan/backend/internal/infrastructure/shopping"
	"github.com/shopscan/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debug := cfg.Server.Environment == "development"

	log.Printf("Starting ShopScan Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Default provider: %s", cfg.Provider.Default)

	// Infrastructure dependencies
	responseCache := cache.NewMemoryCache()
	imageMemo := cache.NewImageMemo()
	log.Printf("Cache TTL: %s", cfg.Cache.TTL)

	var generator domain.TextGenerator
	if cfg.Gemini.APIKey != "" {
		client, err := gemini.NewClient(context.Background(), gemini.Config{
			APIKey:  cfg.Gemini.APIKey,
			Model:   cfg.Gemini.Model,
			BaseURL: cfg.Gemini.BaseURL,
		})
		if err != nil {
			log.Fatalf("Failed to create Gemini client: %v", err)
		}
		client.SetDebug(debug)
		generator = client
		log.Printf("Gemini configured: model=%s", cfg.Gemini.Model)
	} else {
		log.Printf("WARNING: Gemini not configured - generative searches will fail")
	}

	var shoppingClient domain.ShoppingClient
	if cfg.Shopping.APIKey != "" {
		client := shopping.NewClient(cfg.Shopping.APIKey, cfg.Shopping.BaseURL)
		client.SetDebug(debug)
		shoppingClient = client
		log.Printf("Shopping provider configured: %s", cfg.Shopping.BaseURL)
	}

	fetcher := fetch.NewFetcher(cfg.Images.FetchTimeout, cfg.Images.MaxRedirects)
	imageResolver := usecase.NewImageResolver(fetcher, imageMemo, cfg.Images.MaxLookups, debug)
	log.Printf("Image resolution: max %d lookups, timeout %s", cfg.Images.MaxLookups, cfg.Images.FetchTimeout)

	// Usecase layer
	searchService := usecase.NewSearchService(
		responseCache,
		generator,
		shoppingClient,
		imageResolver,
		usecase.SearchServiceConfig{
			CacheTTL:        cfg.Cache.TTL,
			DefaultProvider: cfg.Provider.Default,
			Debug:           debug,
		},
	)

	// HTTP delivery
	handler := httpDelivery.NewHandler(searchService)
	router := httpDelivery.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}

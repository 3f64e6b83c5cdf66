package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bhenrique21/cotarpecas/internal/api"
	"github.com/bhenrique21/cotarpecas/internal/config"
	"github.com/bhenrique21/cotarpecas/internal/core"
	"github.com/bhenrique21/cotarpecas/internal/scraper"
	"github.com/bhenrique21/cotarpecas/internal/store"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup logging
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if cfg.LogLevel == "DEBUG" {
		log.Println("Service starting in DEBUG mode")
	}

	// Initialize persistence: SQLite when a DATABASE_URL is configured,
	// JSON-file fallback otherwise.
	var dbStore store.Store
	if cfg.DatabaseURL != "" {
		dbStore, err = store.NewSQLiteStore(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		log.Printf("Using SQLite store at %s", cfg.DatabaseURL)
	} else {
		dbStore, err = store.NewFileStore(cfg.DataDir)
		if err != nil {
			log.Fatalf("Failed to initialize file store: %v", err)
		}
		log.Printf("No DATABASE_URL configured, using file store under %s", cfg.DataDir)
	}
	defer dbStore.Close()

	// Initialize the offer provider only when a credential is present.
	// Without one the service runs in offline mode and every search takes
	// the deterministic fallback path.
	var provider core.OfferProvider
	if cfg.GeminiAPIKey != "" {
		geminiProvider, err := core.NewGeminiProvider(context.Background(), cfg.GeminiAPIKey)
		if err != nil {
			log.Fatalf("Failed to initialize Gemini provider: %v", err)
		}
		provider = geminiProvider
	} else {
		log.Println("GEMINI_API_KEY not set, running in offline fallback mode")
	}

	searchOpts := core.SearchOptions{
		Timeout:        cfg.SearchTimeout,
		Retries:        cfg.SearchRetries,
		BlockedDomains: cfg.BlockedDomains,
	}
	if cfg.PriceProbe {
		searchOpts.Probe = scraper.NewMercadoLivre()
		log.Println("Mercado Livre price probe enabled")
	}

	searchService := core.NewSearchService(provider, dbStore, searchOpts)

	// Initialize API Handler and Router
	apiHandler := api.NewAPIHandler(dbStore, searchService, []byte(cfg.JWTSecret))
	router := api.NewRouter(apiHandler)

	// Start HTTP server
	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // provider calls can take time
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		log.Printf("Starting server on %s. Press Ctrl+C to quit.", serverAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", serverAddr, err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give active connections time to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting gracefully")
}

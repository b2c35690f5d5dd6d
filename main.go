package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cervezafortuna/cicerone/agent"
	"github.com/cervezafortuna/cicerone/catalog"
	"github.com/cervezafortuna/cicerone/config"
	"github.com/cervezafortuna/cicerone/functions"
	"github.com/cervezafortuna/cicerone/server"
	"github.com/cervezafortuna/cicerone/session"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Create session manager
	sessionManager, err := session.NewManager(cfg)
	if err != nil {
		log.Fatalf("Failed to create session manager: %v", err)
	}

	// Catalog service: domain-restricted fetcher plus file cache
	catalogCache, err := catalog.NewCache(cfg.CacheDir, cfg.CacheTTL)
	if err != nil {
		log.Fatalf("Failed to create catalog cache: %v", err)
	}
	catalogService := catalog.NewService(
		catalog.NewFetcher(cfg.RequestTimeout, cfg.MaxRetries),
		catalogCache,
		cfg.CatalogURL,
	)

	// Register the tool surface exposed to the model
	registry := functions.NewRegistry()
	functions.RegisterCatalogTools(registry, catalogService)
	functions.RegisterPreferenceTools(registry, sessionManager)
	functions.RegisterSalesTools(registry)

	ctx, cancel := context.WithCancel(context.Background())
	ag, err := agent.New(ctx, cfg, registry)
	if err != nil {
		log.Fatalf("Failed to create agent: %v", err)
	}

	// Start cleanup routine
	go sessionManager.StartCleanupRoutine(ctx)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	switch cfg.ServerType {
	case "http":
		srv := server.NewHTTPServer(cfg, sessionManager, ag)

		go func() {
			<-sigChan
			log.Println("\nReceived shutdown signal...")
			cancel()
			sessionManager.Shutdown()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Printf("HTTP server shutdown error: %v", err)
			}
		}()

		if err := srv.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Fatalf("HTTP server error: %v", err)
		}

	case "websocket":
		srv := server.NewWebsocketServer(cfg, sessionManager, ag)

		go func() {
			<-sigChan
			log.Println("\nReceived shutdown signal...")
			cancel()
			sessionManager.Shutdown()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Printf("WebSocket server shutdown error: %v", err)
			}
		}()

		if err := srv.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Fatalf("WebSocket server error: %v", err)
		}

	case "both":
		httpSrv := server.NewHTTPServer(cfg, sessionManager, ag)
		wsSrv := server.NewWebsocketServer(cfg, sessionManager, ag)

		go func() {
			<-sigChan
			log.Println("\nReceived shutdown signal...")
			cancel()
			sessionManager.Shutdown()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			if err := httpSrv.Shutdown(shutdownCtx); err != nil {
				log.Printf("HTTP server shutdown error: %v", err)
			}
			if err := wsSrv.Shutdown(shutdownCtx); err != nil {
				log.Printf("WebSocket server shutdown error: %v", err)
			}
		}()

		// Start WebSocket server in background
		go func() {
			if err := wsSrv.Start(); err != nil && err.Error() != "http: Server closed" {
				log.Fatalf("WebSocket server error: %v", err)
			}
		}()

		// Start HTTP server (blocks)
		if err := httpSrv.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Fatalf("HTTP server error: %v", err)
		}

	default:
		log.Fatalf("Unknown SERVER_TYPE: %s", cfg.ServerType)
	}

	log.Println("Server stopped")
}

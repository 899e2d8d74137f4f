// Copyright 2025 Certen Protocol
//
// Command registryd runs the asset registry's HTTP boundary: it wires
// configuration, the chain indexer client, the entity-link verifier,
// the asset validator, and the filesystem registry into a single
// net/http server, with signal-driven graceful shutdown.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Blockstream/asset-registry/pkg/chainquery"
	"github.com/Blockstream/asset-registry/pkg/config"
	"github.com/Blockstream/asset-registry/pkg/entitylink"
	"github.com/Blockstream/asset-registry/pkg/registry"
	"github.com/Blockstream/asset-registry/pkg/server"
	"github.com/Blockstream/asset-registry/pkg/validator"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	logger := log.New(os.Stdout, "[registryd] ", log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("failed loading configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid configuration: %v", err)
	}

	chain := chainquery.New(cfg.EsploraURL)
	linker := entitylink.New(cfg.DomainVerifierDevMode)

	v := validator.New(chain, linker, logger)
	reg := registry.New(cfg.RegistryRoot, v, cfg.HookCmd, logger)

	// contractOnly has no chain configured: POST /contract/validate
	// only exercises field syntax and the commitment hash, never
	// on-chain issuance.
	contractOnly := validator.New(nil, linker, logger)

	handlers := server.NewHandlers(reg, chain, contractOnly, logger)

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: handlers.Mux(),
	}

	metricsServer := &http.Server{
		Addr:    cfg.MetricsAddr,
		Handler: promhttp.Handler(),
	}

	go func() {
		logger.Printf("listening on %s", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server failed: %v", err)
		}
	}()

	go func() {
		logger.Printf("metrics listening on %s", cfg.MetricsAddr)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Printf("metrics server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Printf("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Printf("http server shutdown error: %v", err)
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Printf("metrics server shutdown error: %v", err)
	}

	logger.Printf("stopped")
}

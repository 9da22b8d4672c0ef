package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"nlu-service/config"
	_ "nlu-service/docs" // Swagger docs
	"nlu-service/internal/classifier"
	"nlu-service/internal/httpserver"
	"nlu-service/internal/intent"
	nluHTTP "nlu-service/internal/nlu/delivery/http"
	"nlu-service/internal/nlu/usecase"
	"nlu-service/internal/rules"
	"nlu-service/internal/vocabulary"
	"nlu-service/pkg/embedding"
	"nlu-service/pkg/log"
)

// @title       NLU Recognition Service API
// @description Maps short utterances to domains, intents, and semantic slots.
// @version     1
// @host        localhost:8081
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		os.Exit(1)
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting NLU recognition service...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)
	logger.Infof(ctx, "Embedding endpoint: %s (model %s)", cfg.Embedding.BaseURL, cfg.Embedding.Model)

	// 3. Embedding provider
	embedder, err := embedding.New(cfg.Embedding.BaseURL)
	if err != nil {
		logger.Error(ctx, "Failed to initialize embedding client: ", err)
		os.Exit(1)
	}
	embedder.WithModel(cfg.Embedding.Model).
		WithAPIKey(cfg.Embedding.APIKey).
		WithRequestsPerSecond(cfg.Embedding.RequestsPerSecond)

	// 4. Recognition pipeline. Configuration errors here are fatal: the
	// service never starts half-initialized.
	vocab, err := vocabulary.New(logger, cfg.Paths.Vocabulary)
	if err != nil {
		logger.Error(ctx, "Failed to load vocabulary groups: ", err)
		os.Exit(1)
	}

	ruleMatcher, err := rules.New(logger, vocab, cfg.Paths.RegexDir)
	if err != nil {
		logger.Error(ctx, "Failed to load regex rules: ", err)
		os.Exit(1)
	}

	domainClassifier, err := classifier.New(ctx, logger, embedder, cfg.Paths.DomainExamples,
		cfg.NLU.SimilarityThreshold, cfg.NLU.FallbackDomain, cfg.NLU.CacheSize)
	if err != nil {
		logger.Error(ctx, "Failed to initialize domain classifier: ", err)
		os.Exit(1)
	}

	intentMatcher, err := intent.New(ctx, logger, embedder, vocab, cfg.Paths.IntentExamples,
		cfg.NLU.SimilarityThreshold, cfg.NLU.CacheSize)
	if err != nil {
		logger.Error(ctx, "Failed to initialize intent matcher: ", err)
		os.Exit(1)
	}

	nluUC := usecase.New(logger, vocab, ruleMatcher, domainClassifier, intentMatcher, usecase.Config{
		ConfidenceThreshold: cfg.NLU.ConfidenceThreshold,
		SimilarityThreshold: cfg.NLU.SimilarityThreshold,
		FallbackDomain:      cfg.NLU.FallbackDomain,
		RecognizeTimeout:    cfg.NLU.RecognizeTimeout,
	})

	// 5. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:      logger,
		Port:        cfg.HTTPServer.Port,
		Mode:        cfg.HTTPServer.Mode,
		Environment: cfg.Environment.Name,
		NLUHandler:  nluHTTP.New(logger, nluUC),
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		os.Exit(1)
	}

	// 6. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		os.Exit(1)
	}

	logger.Info(ctx, "Server stopped gracefully")
}

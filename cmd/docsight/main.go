package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"docsight/internal/api"
	"docsight/internal/config"
	"docsight/internal/rag/agent"
	"docsight/internal/rag/embeddings"
	"docsight/internal/rag/gateway"
	"docsight/internal/rag/guideline"
	"docsight/internal/rag/interfaces"
	"docsight/internal/rag/llms"
	"docsight/internal/rag/splitters"
	"docsight/internal/rag/storages/docstore"
	"docsight/internal/service"
	"docsight/pkg/logger"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		log.Fatalf("docsight: %v", err)
	}
}

// run wires the process and blocks until shutdown. Returning an error
// instead of calling Fatal lets the deferred cleanups (store close in
// particular) run on every failure path.
func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger.Init(logger.ParseLevel(cfg.Logger.Level))
	appLog := logger.New("docsight")
	appLog.WithFields(map[string]interface{}{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	}).Info("starting docsight")

	ctx := context.Background()

	embedder, err := embeddings.New(ctx, cfg.Embedding.Provider, cfg.Embedding.Model,
		cfg.Embedding.APIKey, cfg.Embedding.BaseURL)
	if err != nil {
		return fmt.Errorf("creating embedding client: %w", err)
	}

	llm, err := llms.New(ctx, cfg.LLM.Provider, cfg.LLM.Model, cfg.LLM.APIKey, cfg.LLM.BaseURL)
	if err != nil {
		return fmt.Errorf("creating llm client: %w", err)
	}

	splitter := splitters.NewRecursiveSplitter(cfg.Splitter.ChunkSize, cfg.Splitter.ChunkOverlap)

	var store interfaces.DocumentStore
	switch cfg.Storage.Backend {
	case "memory":
		store = docstore.NewMemoryStore(embedder, splitter, logger.New("docstore"))
	default:
		store, err = docstore.NewSQLiteStore(cfg.Storage.Path, embedder, splitter, logger.New("docstore"))
		if err != nil {
			return fmt.Errorf("opening document store: %w", err)
		}
	}
	defer store.Close()

	// The guideline index is rebuilt from its static corpus every startup;
	// it is never persisted.
	index, err := guideline.NewIndex(ctx, embedder, guideline.DefaultCorpus)
	if err != nil {
		return fmt.Errorf("building guideline index: %w", err)
	}
	appLog.WithField("guidelines", index.Len()).Info("guideline index ready")

	gw := gateway.New(llm, cfg.LLM.TimeoutDuration(), logger.New("gateway"))
	svc := service.New(
		agent.NewAnalysis(index, gw, logger.New("analysis_agent")),
		agent.NewQA(store, gw, logger.New("qa_agent")),
		store,
		logger.New("service"),
	)

	router := api.NewRouter(svc, logger.New("http"))
	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}

	serveErr := make(chan error, 1)
	go func() {
		appLog.WithField("address", cfg.Server.Address).Info("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	case <-quit:
	}
	appLog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownDuration())
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLog.WithError(err).Error("forced shutdown")
	}
	appLog.Info("stopped")
	return nil
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/pichimail/spark-ui-designer/internal/core"
	"github.com/pichimail/spark-ui-designer/internal/llm"
	"github.com/pichimail/spark-ui-designer/internal/persist"
	"github.com/pichimail/spark-ui-designer/internal/pipeline"
	"github.com/pichimail/spark-ui-designer/internal/server"
	"github.com/pichimail/spark-ui-designer/internal/store"
	"github.com/pichimail/spark-ui-designer/pkg/schema"
)

func main() {
	if err := run(); err != nil {
		os.Stderr.WriteString("spark: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	cfg, err := core.LoadConfig()
	if err != nil {
		return err
	}
	logger := core.NewLogger(cfg.LogLevel)

	bridge, err := persist.NewBridge(cfg.DataDir)
	if err != nil {
		return err
	}

	lock := persist.NewFileLock(cfg.DataDir)
	if err := lock.Acquire(); err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("failed to release data dir lock", "error", err)
		}
	}()

	st := store.New(bridge.Load())
	st.OnChange(func(sessions []schema.Session) {
		if err := bridge.Save(sessions); err != nil {
			logger.Error("failed to persist sessions", "error", err)
		}
	})

	var client llm.Client
	if cfg.GeminiAPIKey != "" {
		llmCfg := &llm.Config{
			APIKey:            cfg.GeminiAPIKey,
			Model:             cfg.Model,
			RequestsPerSecond: cfg.RPS,
		}
		client, err = llm.NewGeminiClient(context.Background(), llmCfg)
		if err != nil {
			return err
		}
		logger.Info("model client ready", "model", cfg.Model)
	} else {
		logger.Warn("GEMINI_API_KEY not set, generation disabled")
	}

	hist := store.NewHistory()
	pipe := pipeline.New(client, st, hist, logger)
	srv := server.New(st, hist, pipe, logger)

	httpSrv := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Handler(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

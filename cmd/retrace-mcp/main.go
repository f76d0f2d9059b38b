// Package main provides the entry point for the retrace MCP server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/raphaelgruber/retrace-go/internal/compress"
	"github.com/raphaelgruber/retrace-go/internal/config"
	"github.com/raphaelgruber/retrace-go/internal/history"
	"github.com/raphaelgruber/retrace-go/internal/llm"
	"github.com/raphaelgruber/retrace-go/internal/metrics"
	"github.com/raphaelgruber/retrace-go/internal/server"
	"github.com/raphaelgruber/retrace-go/internal/token"
	"github.com/raphaelgruber/retrace-go/internal/tools"
)

const version = "0.1.0"

func main() {
	// Load configuration
	cfg := config.Load()

	// Setup logger (dual output: stderr text + file JSON)
	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer cleanup()

	logger.Info("retrace starting",
		"version", version,
		"max_tokens", cfg.MaxTokens,
		"tokenizer_model", cfg.TokenizerModel,
		"llm_provider", cfg.LLMProvider,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	collector := metrics.NewCollector()

	// Token counter for digest budgeting
	counter, err := token.NewCounter(cfg.TokenizerModel)
	if err != nil {
		logger.Error("failed to create token counter", "error", err)
		os.Exit(1)
	}
	logger.Info("token counter initialized", "model", counter.Model())

	// Summarizer is optional: without a provider the ledger still works,
	// episodes just keep rendering in full form.
	var compressor *compress.Compressor
	if cfg.SummarizerConfigured() {
		model, err := llm.NewModel(ctx, cfg, collector)
		if err != nil {
			logger.Error("failed to create summarizer model", "error", err)
			os.Exit(1)
		}
		compressor = compress.New(model, 0, logger, collector)
		logger.Info("summarizer initialized", "provider", cfg.LLMProvider, "model", model.Model())
	} else {
		logger.Info("no summarizer configured, compression disabled")
	}

	// One ledger per server process: one agent run
	ledger := history.NewLedger()
	recorder := history.NewComponent(ledger, requesterOrNil(compressor), cfg.MaxTokens, counter.Count, logger)

	// Create server and register tools
	srv := server.New(version, logger)
	deps := &tools.Dependencies{
		Ledger:      ledger,
		Recorder:    recorder,
		Compressor:  compressor,
		CountTokens: counter.Count,
		MaxTokens:   cfg.MaxTokens,
		Metrics:     collector,
		Logger:      logger,
	}
	tools.RegisterAll(srv.MCPServer(), deps)

	logger.Info("server ready, awaiting connections")

	// Run server (blocks until disconnect or context cancelled)
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}

// requesterOrNil avoids handing the component a non-nil interface holding
// a nil *Compressor.
func requesterOrNil(c *compress.Compressor) history.CompressionRequester {
	if c == nil {
		return nil
	}
	return c
}

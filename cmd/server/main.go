// cmd/server/main.go
package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/sozercan/log-doctor/internal/analyzer"
	"github.com/sozercan/log-doctor/internal/config"
	"github.com/sozercan/log-doctor/internal/llm"
	"github.com/sozercan/log-doctor/internal/logging"
	"github.com/sozercan/log-doctor/internal/metrics"
	"github.com/sozercan/log-doctor/internal/prompt"
	"github.com/sozercan/log-doctor/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	logging.Init(logging.ParseLevel(cfg.Log.Level), cfg.Log.Format, os.Stderr)
	metrics.Register()

	llmProvider, err := llm.NewProvider(context.Background(), &cfg.LLM)
	if err != nil {
		log.Fatalf("failed to create LLM provider: %v", err)
	}

	builder := prompt.NewBuilder(cfg.Analysis.Domain, cfg.Analysis.Language)
	analyzer, err := analyzer.New(builder, llmProvider)
	if err != nil {
		log.Fatalf("failed to create analyzer: %v", err)
	}

	srv := server.New(*cfg, analyzer)
	slog.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port, "provider", llmProvider.Name(), "model", llmProvider.Model())
	if err := srv.Run(context.Background()); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

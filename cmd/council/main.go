// Command council runs the LLM Council HTTP API: it coordinates several
// language models in a three-phase deliberation (parallel query,
// anonymized peer ranking, chairman synthesis) and streams per-stage
// progress to callers over Server-Sent Events.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/codeready-toolchain/tarsy/pkg/api"
	"github.com/codeready-toolchain/tarsy/pkg/config"
	"github.com/codeready-toolchain/tarsy/pkg/engine"
	"github.com/codeready-toolchain/tarsy/pkg/llm"
	"github.com/codeready-toolchain/tarsy/pkg/observability"
	"github.com/codeready-toolchain/tarsy/pkg/registry"
	"github.com/codeready-toolchain/tarsy/pkg/stages"
	"github.com/codeready-toolchain/tarsy/pkg/storage"
	"github.com/codeready-toolchain/tarsy/pkg/template"
	"github.com/codeready-toolchain/tarsy/pkg/version"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

const councilWorkflowID = "llm-council"

func main() {
	configDir := flag.String("config-dir",
		getEnv("CONFIG_DIR", "./deploy/config"),
		"Path to configuration directory")
	flag.Parse()

	envPath := filepath.Join(*configDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		log.Printf("warning: could not load %s: %v", envPath, err)
		log.Printf("continuing with existing environment variables")
	} else {
		log.Printf("loaded environment from %s", envPath)
	}

	cfg, err := config.Load(filepath.Join(*configDir, "council.yaml"))
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracer, meter, shutdownObservability, err := observability.Init(ctx, cfg.Observability.Enabled, cfg.Observability.ServiceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownObservability(shutdownCtx); err != nil {
			slog.Warn("observability shutdown failed", "error", err)
		}
	}()

	store, err := storage.NewFileStore(cfg.Storage.DataDir)
	if err != nil {
		log.Fatalf("failed to initialize conversation store: %v", err)
	}

	var adapter llm.Adapter
	if cfg.LLM.MockMode {
		slog.Warn("MOCK_MODE enabled: serving canned LLM responses, no upstream calls will be made")
		adapter = llm.NewMockAdapter()
	} else {
		httpAdapter := llm.NewHTTPAdapter(cfg.LLM.APIURL, cfg.LLM.APIKey, &http.Client{Timeout: cfg.Timeouts.APITimeout})
		adapter = httpAdapter.WithMeter(meter)
	}

	services := engine.Services{
		LLM:       adapter,
		Storage:   store,
		Config:    cfg,
		Templates: template.NewRenderer(),
		Tracer:    tracer,
		Meter:     meter,
	}

	reg := registry.NewRegistry()
	reg.Register(buildCouncilWorkflow(cfg))

	srv := api.NewServer(cfg, store, reg, services, tracer)

	addr := ":" + strconv.Itoa(cfg.HTTP.Port)
	slog.Info("starting LLM Council API", "addr", addr, "version", version.Full())

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case err := <-errCh:
		log.Fatalf("server failed: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}

// buildCouncilWorkflow assembles the three-stage deliberation workflow from
// configuration, matching spec §4.3's fixed stage graph:
// parallel-query -> peer-ranking -> synthesis, and parallel-query ->
// synthesis directly (synthesis reads both stage outputs).
func buildCouncilWorkflow(cfg *config.Config) engine.WorkflowDefinition {
	return engine.WorkflowDefinition{
		ID:          councilWorkflowID,
		Name:        "LLM Council",
		Version:     "1.0.0",
		Description: "Parallel query, anonymized peer ranking, and chairman synthesis across a council of models.",
		Stages: []engine.Stage{
			stages.NewParallelQueryStage(stages.ParallelQueryConfig{
				Models:    cfg.LLM.CouncilModels,
				MaxTokens: cfg.LLM.DefaultMaxTokens,
			}),
			stages.NewPeerRankingStage(stages.PeerRankingConfig{
				Models:    cfg.LLM.CouncilModels,
				MaxTokens: cfg.LLM.DefaultMaxTokens,
			}),
			stages.NewSynthesisStage(stages.SynthesisConfig{
				ChairmanModel:     cfg.LLM.ChairmanModel,
				ChairmanMaxTokens: cfg.LLM.ChairmanMaxTokens,
			}),
		},
		Config: engine.WorkflowConfig{
			StreamingEnabled: true,
		},
	}
}

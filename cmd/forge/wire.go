package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"forge/internal/cache"
	"forge/internal/chunk"
	"forge/internal/config"
	"forge/internal/contextbuild"
	"forge/internal/embedding"
	"forge/internal/events"
	"forge/internal/logging"
	"forge/internal/metrics"
	"forge/internal/orchestrator"
	"forge/internal/provider"
	"forge/internal/retrieval"
	"forge/internal/tool"
	"forge/internal/validate"
	"forge/internal/workspace"
)

const systemPrompt = `You are forge, a routing orchestrator working directly in the user's
codebase. Answer using only the files given to you as context, citing every
file you rely on as path:line or path:line1-line2. When a change is needed,
emit it as a single fenced code block containing a script to run.`

// components bundles every constructed dependency the CLI's subcommands
// need, so each command only has to destructure what it actually uses.
type components struct {
	cfg       *config.Config
	store     *chunk.Store
	engine    embedding.EmbeddingEngine
	retriever *retrieval.Retriever
	ws        *workspace.Workspace
	orch      *orchestrator.Orchestrator
	events    *events.Channel
	metrics   *metrics.Collector
}

// buildComponents wires the full component graph from cfg: chunker/
// embedding store, hybrid retriever,
// context builder, response cache, provider registry, task analyzer,
// routing orchestrator, tool registry/runtime, isolated workspace,
// validation pipeline, event channel, and metrics collector.
func buildComponents(ctx context.Context, cfg *config.Config, root string) (*components, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace root: %w", err)
	}

	engine, err := embedding.NewEngine(embedding.Config{
		Provider:       cfg.Embedding.Provider,
		OllamaEndpoint: cfg.Embedding.OllamaEndpoint,
		OllamaModel:    cfg.Embedding.OllamaModel,
		GenAIAPIKey:    cfg.Embedding.GenAIAPIKey,
		GenAIModel:     cfg.Embedding.GenAIModel,
		TaskType:       cfg.Embedding.TaskType,
	})
	if err != nil {
		return nil, fmt.Errorf("build embedding engine: %w", err)
	}

	cachePath := filepath.Join(root, ".forge", "embeddings.db")
	store, err := chunk.Open(cachePath, engine.Dimensions())
	if err != nil {
		return nil, fmt.Errorf("open embedding cache: %w", err)
	}

	retriever := retrieval.New(store, engine, retrieval.DefaultConfig())
	builder := contextbuild.NewBuilder(retriever, root, modulePathOf(root), systemPrompt, 32000)

	ws, err := workspace.New(root)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("open workspace: %w", err)
	}

	respCache := cache.New(cache.Config{
		Enabled:             cfg.Cache.Enabled,
		TTL:                 cfg.Cache.TTL(),
		MaxSizeMB:           cfg.Cache.MaxSizeMB,
		SimilarityThreshold: cfg.Cache.SimilarityThreshold,
	})

	registry, err := buildProviderRegistry(ctx, cfg)
	if err != nil {
		store.Close()
		return nil, err
	}

	runtime := buildToolRuntime(ws, root)
	pipeline := buildValidationPipeline(cfg, ws)
	router := orchestrator.NewStrategyRouter(cfg.Tiers.LocalEnabled, cfg.Tiers.MidEnabled, cfg.Tiers.PremiumEnabled)

	ch := events.NewChannel()
	metricsCollector := metrics.NewCollector()

	orch := orchestrator.New(
		orchestrator.Config{
			MaxConcurrentTasks:      cfg.Execution.MaxConcurrentTasks,
			EnableConflictDetection: cfg.Execution.EnableConflictDetection,
			MaxRetries:              cfg.Tiers.MaxRetries,
			ScriptTimeout:           tool.DefaultScriptTimeout,
		},
		router, registry, builder, pipeline, ws, runtime, respCache, metricsCollector, ch,
	)

	return &components{
		cfg:       cfg,
		store:     store,
		engine:    engine,
		retriever: retriever,
		ws:        ws,
		orch:      orch,
		events:    ch,
		metrics:   metricsCollector,
	}, nil
}

func (c *components) Close() {
	if c.store != nil {
		c.store.Close()
	}
	c.events.Close()
}

func buildProviderRegistry(ctx context.Context, cfg *config.Config) (*provider.Registry, error) {
	registry := provider.NewRegistry()

	if cfg.Tiers.LocalEnabled {
		registry.Register(provider.Local, provider.NewLocalProvider(cfg.Providers.LocalBaseURL, cfg.Providers.LocalModel))
	}
	if cfg.Tiers.MidEnabled {
		registry.Register(provider.Mid, provider.NewMidProvider(cfg.Providers.MidAPIKey, cfg.Providers.MidBaseURL, cfg.Providers.MidModel))
	}
	if cfg.Tiers.PremiumEnabled {
		premium, err := provider.NewPremiumProvider(ctx, cfg.Providers.PremiumAPIKey, cfg.Providers.PremiumModel)
		if err != nil {
			return nil, fmt.Errorf("build premium provider: %w", err)
		}
		registry.Register(provider.Premium, premium)
	}

	return registry, nil
}

func buildToolRuntime(ws *workspace.Workspace, root string) *tool.Runtime {
	registry := tool.NewRegistry()
	registry.Register(tool.NewReadFileTool(ws))
	registry.Register(tool.NewWriteFileTool(ws))
	registry.Register(tool.NewEditFileTool(ws))
	registry.Register(tool.NewDeleteFileTool(ws))
	registry.Register(tool.NewShellTool(root, []string{"go", "git", "npm", "pytest", "cargo"}, 30*time.Second))
	registry.Register(tool.NewRequestContextTool(root))
	registry.Register(tool.NewListSymbolsTool(ws))

	return tool.NewRuntime(registry).WithTimeout(tool.DefaultScriptTimeout)
}

func buildValidationPipeline(cfg *config.Config, ws *workspace.Workspace) *validate.Pipeline {
	if !cfg.Validation.Enabled {
		return nil
	}

	var stages []validate.Stage
	for _, name := range cfg.Validation.Stages {
		switch name {
		case "citations":
			stages = append(stages, validate.NewCitationsStage(false, false))
		case "syntax":
			stages = append(stages, validate.NewSyntaxStage(false))
		case "build":
			stages = append(stages, validate.NewBuildStage(ws, []string{"go", "build", "./..."}, 2*time.Minute, true))
		default:
			logging.ValidateWarn("unknown validation stage %q, skipping", name)
		}
	}

	return validate.NewPipeline(stages, cfg.Validation.EarlyExit)
}

// modulePathOf reads a go.mod's module directive at root, falling back to
// the directory's base name when none exists (non-Go workspaces).
func modulePathOf(root string) string {
	data, err := os.ReadFile(filepath.Join(root, "go.mod"))
	if err != nil {
		return filepath.Base(root)
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "module ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "module"))
		}
	}
	return filepath.Base(root)
}

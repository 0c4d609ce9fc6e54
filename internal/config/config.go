// Package config loads forge's single TOML configuration document and
// applies environment variable overrides for API keys and embedder host.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"forge/internal/logging"
)

// Config holds all of forge's configuration, one field group per TOML
// section (providers, tiers, cache, execution, validation, workspace,
// logging, embedding, ui).
type Config struct {
	Providers ProvidersConfig `toml:"providers"`
	Tiers     TiersConfig     `toml:"tiers"`
	Cache     CacheConfig     `toml:"cache"`
	Execution ExecutionConfig `toml:"execution"`
	Validation ValidationConfig `toml:"validation"`
	Workspace WorkspaceConfig `toml:"workspace"`
	Logging   LoggingConfig   `toml:"logging"`
	Embedding EmbeddingConfig `toml:"embedding"`
	UI        UIConfig        `toml:"ui"`
}

// ProvidersConfig carries API keys and model names per tier. Keys left
// empty here fall back to environment variables in applyEnvOverrides.
type ProvidersConfig struct {
	LocalModel   string `toml:"local_model"`
	LocalBaseURL string `toml:"local_base_url"`

	MidAPIKey  string `toml:"mid_api_key"`
	MidModel   string `toml:"mid_model"`
	MidBaseURL string `toml:"mid_base_url"`

	PremiumAPIKey string `toml:"premium_api_key"`
	PremiumModel  string `toml:"premium_model"`
}

// TiersConfig governs which tiers are reachable and retry policy.
type TiersConfig struct {
	LocalEnabled   bool `toml:"local_enabled"`
	MidEnabled     bool `toml:"mid_enabled"`
	PremiumEnabled bool `toml:"premium_enabled"`
	MaxRetries     int  `toml:"max_retries"`
}

// CacheConfig governs the Response Cache.
type CacheConfig struct {
	Enabled             bool    `toml:"enabled"`
	TTLHours            int     `toml:"ttl_hours"`
	MaxSizeMB           int     `toml:"max_size_mb"`
	SimilarityThreshold float64 `toml:"similarity_threshold"`
}

// ExecutionConfig governs the Routing Orchestrator's scheduling.
type ExecutionConfig struct {
	MaxConcurrentTasks      int  `toml:"max_concurrent_tasks"`
	EnableConflictDetection bool `toml:"enable_conflict_detection"`
}

// ValidationConfig governs the Validation Pipeline.
type ValidationConfig struct {
	Enabled   bool     `toml:"enabled"`
	EarlyExit bool     `toml:"early_exit"`
	Stages    []string `toml:"stages"`
}

// WorkspaceConfig governs the Isolated Workspace.
type WorkspaceConfig struct {
	RootPath string `toml:"root_path"`
}

// LoggingConfig maps directly onto logging.Options.
type LoggingConfig struct {
	DebugMode  bool   `toml:"debug_mode"`
	StateDir   string `toml:"state_dir"`
	JSONFormat bool   `toml:"json_format"`
	Level      string `toml:"level"`
}

// EmbeddingConfig maps onto embedding.Config's TOML-facing fields.
type EmbeddingConfig struct {
	Provider       string `toml:"provider"`
	OllamaEndpoint string `toml:"ollama_endpoint"`
	OllamaModel    string `toml:"ollama_model"`
	GenAIAPIKey    string `toml:"genai_api_key"`
	GenAIModel     string `toml:"genai_model"`
	TaskType       string `toml:"task_type"`
	Skip           bool   `toml:"skip"`
}

// UIConfig governs the UI Event Channel's reference TUI consumer.
type UIConfig struct {
	Enabled bool `toml:"enabled"`
}

// DefaultConfig returns forge's built-in defaults, applied before a TOML
// file is read and before environment overrides.
func DefaultConfig() *Config {
	return &Config{
		Providers: ProvidersConfig{
			LocalModel:   "llama3.1",
			LocalBaseURL: "http://localhost:11434",
			MidModel:     "gpt-4o-mini",
			PremiumModel: "gemini-2.0-flash",
		},
		Tiers: TiersConfig{
			LocalEnabled:   true,
			MidEnabled:     true,
			PremiumEnabled: true,
			MaxRetries:     3,
		},
		Cache: CacheConfig{
			Enabled:             true,
			TTLHours:            24,
			MaxSizeMB:           100,
			SimilarityThreshold: 0.95,
		},
		Execution: ExecutionConfig{
			MaxConcurrentTasks:      4,
			EnableConflictDetection: true,
		},
		Validation: ValidationConfig{
			Enabled:   true,
			EarlyExit: true,
			Stages:    []string{"citations", "syntax", "build"},
		},
		Workspace: WorkspaceConfig{
			RootPath: ".",
		},
		Logging: LoggingConfig{
			DebugMode: false,
			StateDir:  filepath.Join(".forge", "logs"),
			Level:     "warn",
		},
		Embedding: EmbeddingConfig{
			Provider:       "ollama",
			OllamaEndpoint: "http://localhost:11434",
			OllamaModel:    "embeddinggemma",
			GenAIModel:     "gemini-embedding-001",
			TaskType:       "SEMANTIC_SIMILARITY",
		},
		UI: UIConfig{
			Enabled: true,
		},
	}
}

// Load reads a TOML config file, falling back to defaults if it doesn't
// exist. Unknown keys are logged as warnings, never fatal.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	logging.ConfigDebug("Loading config from: %s", path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		logging.Config("Config file not found, using defaults: %s", path)
		cfg.applyEnvOverrides()
		return cfg, nil
	}

	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		logging.ConfigError("Failed to parse config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	for _, key := range meta.Undecoded() {
		logging.ConfigWarn("Unrecognized config key: %s", key.String())
	}

	cfg.applyEnvOverrides()
	logging.Config("Config loaded: local_model=%s mid_model=%s premium_model=%s",
		cfg.Providers.LocalModel, cfg.Providers.MidModel, cfg.Providers.PremiumModel)

	return cfg, nil
}

// Save writes the configuration back out as TOML.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// applyEnvOverrides resolves API keys and the embedder host from the
// environment, per §6's documented fallback order. Explicit TOML values
// win; environment variables only fill in what's left empty.
func (c *Config) applyEnvOverrides() {
	if c.Providers.MidAPIKey == "" {
		if key := os.Getenv("OPENROUTER_API_KEY"); key != "" {
			c.Providers.MidAPIKey = key
		}
	}
	if c.Providers.PremiumAPIKey == "" {
		if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
			c.Providers.PremiumAPIKey = key
		}
	}
	if c.Providers.MidAPIKey == "" {
		if key := os.Getenv("GROQ_API_KEY"); key != "" {
			c.Providers.MidAPIKey = key
		}
	}
	if host := os.Getenv("OLLAMA_HOST"); host != "" {
		c.Providers.LocalBaseURL = host
		c.Embedding.OllamaEndpoint = host
	}
	if os.Getenv("MERLIN_SKIP_EMBEDDINGS") != "" {
		c.Embedding.Skip = true
	}
	if folder := os.Getenv("MERLIN_FOLDER"); folder != "" {
		c.Workspace.RootPath = folder
	}
	if c.Embedding.GenAIAPIKey == "" {
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			c.Embedding.GenAIAPIKey = key
		}
	}
}

// TTL returns the cache TTL as a duration.
func (c *CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// LoggingOptions converts LoggingConfig to logging.Options.
func (c *LoggingConfig) LoggingOptions() logging.Options {
	return logging.Options{
		DebugMode:  c.DebugMode,
		StateDir:   c.StateDir,
		JSONFormat: c.JSONFormat,
		Level:      c.Level,
	}
}

// Validate checks the configuration for fatal problems (missing required
// keys, invalid values). Configuration errors are fatal at startup.
func (c *Config) Validate() error {
	if !c.Tiers.LocalEnabled && !c.Tiers.MidEnabled && !c.Tiers.PremiumEnabled {
		return fmt.Errorf("no provider tier enabled: enable at least one of local/mid/premium")
	}
	if c.Tiers.MidEnabled && c.Providers.MidAPIKey == "" {
		return fmt.Errorf("mid tier enabled but no API key configured (set providers.mid_api_key, OPENROUTER_API_KEY, or GROQ_API_KEY)")
	}
	if c.Tiers.PremiumEnabled && c.Providers.PremiumAPIKey == "" {
		return fmt.Errorf("premium tier enabled but no API key configured (set providers.premium_api_key or ANTHROPIC_API_KEY)")
	}
	if c.Cache.MaxSizeMB <= 0 && c.Cache.Enabled {
		return fmt.Errorf("cache.max_size_mb must be positive when cache.enabled is true")
	}
	if c.Execution.MaxConcurrentTasks <= 0 {
		return fmt.Errorf("execution.max_concurrent_tasks must be positive")
	}
	for _, stage := range c.Validation.Stages {
		switch stage {
		case "citations", "syntax", "build":
		default:
			return fmt.Errorf("unknown validation stage: %s", stage)
		}
	}
	return nil
}

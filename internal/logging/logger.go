// Package logging provides config-driven, categorized logging for forge.
// Each component gets its own category. Every category logs to the
// console at the configured level (with no level set: debug when
// debug_mode is on, warn otherwise). When debug_mode is on, each category
// also writes to its own file, <category>.log, under the configured state
// directory (default .forge/logs, relative to the working directory), as
// JSON lines when json_format is set and console-formatted lines otherwise.
package logging

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category names one of the system's logical components.
type Category string

const (
	CategoryBoot         Category = "boot"
	CategoryConfig       Category = "config"
	CategoryChunk        Category = "chunk"
	CategoryEmbedding    Category = "embedding"
	CategoryRetrieval    Category = "retrieval"
	CategoryContext      Category = "context"
	CategoryCache        Category = "cache"
	CategoryProvider     Category = "provider"
	CategoryTask         Category = "task"
	CategoryOrchestrator Category = "orchestrator"
	CategoryTool         Category = "tool"
	CategoryWorkspace    Category = "workspace"
	CategoryValidate     Category = "validate"
	CategoryUI           Category = "ui"
	CategoryMetrics      Category = "metrics"
)

var allCategories = []Category{
	CategoryBoot, CategoryConfig, CategoryChunk, CategoryEmbedding, CategoryRetrieval,
	CategoryContext, CategoryCache, CategoryProvider, CategoryTask, CategoryOrchestrator,
	CategoryTool, CategoryWorkspace, CategoryValidate, CategoryUI, CategoryMetrics,
}

// Options configures the logging package. Mirrors the [logging] TOML section.
type Options struct {
	DebugMode  bool
	StateDir   string // directory to hold <category>.log files; defaults to ".forge/logs"
	JSONFormat bool
	Level      string // "debug", "info", "warn", "error"
}

// Logger wraps a zap sugared logger with the printf-style call sites the
// rest of the codebase uses.
type Logger struct {
	category Category
	sugar    *zap.SugaredLogger
}

var (
	mu         sync.RWMutex
	loggers    = map[Category]*Logger{}
	configured Options
	baseLevel  = zap.NewAtomicLevelAt(zap.WarnLevel)
)

func init() {
	// Safe zero-value default: console-only, warn level, until Configure runs.
	Configure(Options{DebugMode: false, Level: "warn"})
}

// Configure (re)initializes all category loggers. Safe to call multiple
// times; later calls replace earlier ones.
func Configure(opts Options) {
	mu.Lock()
	defer mu.Unlock()

	configured = opts
	if opts.StateDir == "" {
		opts.StateDir = filepath.Join(".forge", "logs")
	}

	level := zap.WarnLevel
	if opts.DebugMode {
		level = zap.DebugLevel
	}
	switch opts.Level {
	case "debug":
		level = zap.DebugLevel
	case "info":
		level = zap.InfoLevel
	case "warn":
		level = zap.WarnLevel
	case "error":
		level = zap.ErrorLevel
	}
	baseLevel.SetLevel(level)

	if opts.DebugMode {
		_ = os.MkdirAll(opts.StateDir, 0o755)
	}

	loggers = make(map[Category]*Logger, len(allCategories))
	for _, cat := range allCategories {
		loggers[cat] = newCategoryLogger(cat, opts)
	}
}

func newCategoryLogger(cat Category, opts Options) *Logger {
	consoleEncoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder, zapcore.Lock(zapcore.AddSync(os.Stderr)), baseLevel),
	}

	if opts.DebugMode {
		path := filepath.Join(opts.StateDir, string(cat)+".log")
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
			if !opts.JSONFormat {
				enc = zapcore.NewConsoleEncoder(zap.NewProductionEncoderConfig())
			}
			cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(f), baseLevel))
		}
	}

	core := zapcore.NewTee(cores...)
	base := zap.New(core).With(zap.String("category", string(cat)))
	return &Logger{category: cat, sugar: base.Sugar()}
}

// Get returns the logger for a category, creating a fallback lazily if the
// category wasn't in the known set (forward-compat for new components).
func Get(category Category) *Logger {
	mu.RLock()
	l, ok := loggers[category]
	mu.RUnlock()
	if ok {
		return l
	}
	mu.Lock()
	defer mu.Unlock()
	l = newCategoryLogger(category, configured)
	loggers[category] = l
	return l
}

func (l *Logger) Debug(format string, args ...interface{}) { l.sugar.Debugf(format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.sugar.Infof(format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.sugar.Warnf(format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.sugar.Errorf(format, args...) }

// Sync flushes all category loggers; call once at process exit.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	for _, l := range loggers {
		_ = l.sugar.Sync()
	}
}

// Timer measures and logs the duration of an operation within a category.
type Timer struct {
	category  Category
	operation string
	start     time.Time
}

// StartTimer begins timing operation within category. Call Stop when done.
func StartTimer(category Category, operation string) *Timer {
	return &Timer{category: category, operation: operation, start: time.Now()}
}

// Stop logs the elapsed duration at debug level and returns it.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %v", t.operation, elapsed)
	return elapsed
}

// StopWithThreshold logs at warn level instead of debug if elapsed exceeds threshold.
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	if elapsed > threshold {
		Get(t.category).Warn("%s took %v (exceeds threshold %v)", t.operation, elapsed, threshold)
	} else {
		Get(t.category).Debug("%s completed in %v", t.operation, elapsed)
	}
	return elapsed
}

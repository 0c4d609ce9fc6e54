package logging

// Shorthand package-level functions for the categories with the highest
// call-site volume, following a logging.Embedding(...) /
// logging.EmbeddingDebug(...) convention so call sites read as one line.

func Chunk(format string, args ...interface{})      { Get(CategoryChunk).Info(format, args...) }
func ChunkDebug(format string, args ...interface{}) { Get(CategoryChunk).Debug(format, args...) }
func ChunkWarn(format string, args ...interface{})  { Get(CategoryChunk).Warn(format, args...) }

func Config(format string, args ...interface{})      { Get(CategoryConfig).Info(format, args...) }
func ConfigDebug(format string, args ...interface{}) { Get(CategoryConfig).Debug(format, args...) }
func ConfigWarn(format string, args ...interface{})  { Get(CategoryConfig).Warn(format, args...) }
func ConfigError(format string, args ...interface{}) { Get(CategoryConfig).Error(format, args...) }

func Embedding(format string, args ...interface{})      { Get(CategoryEmbedding).Info(format, args...) }
func EmbeddingDebug(format string, args ...interface{})  { Get(CategoryEmbedding).Debug(format, args...) }
func EmbeddingWarn(format string, args ...interface{})   { Get(CategoryEmbedding).Warn(format, args...) }
func EmbeddingError(format string, args ...interface{})  { Get(CategoryEmbedding).Error(format, args...) }

func Retrieval(format string, args ...interface{})      { Get(CategoryRetrieval).Info(format, args...) }
func RetrievalDebug(format string, args ...interface{}) { Get(CategoryRetrieval).Debug(format, args...) }
func RetrievalWarn(format string, args ...interface{})  { Get(CategoryRetrieval).Warn(format, args...) }

func Orchestrator(format string, args ...interface{})     { Get(CategoryOrchestrator).Info(format, args...) }
func OrchestratorDebug(format string, args ...interface{}) { Get(CategoryOrchestrator).Debug(format, args...) }

func Tool(format string, args ...interface{})      { Get(CategoryTool).Info(format, args...) }
func ToolDebug(format string, args ...interface{})  { Get(CategoryTool).Debug(format, args...) }

func Workspace(format string, args ...interface{})      { Get(CategoryWorkspace).Info(format, args...) }
func WorkspaceDebug(format string, args ...interface{})  { Get(CategoryWorkspace).Debug(format, args...) }

func Cache(format string, args ...interface{})      { Get(CategoryCache).Info(format, args...) }
func CacheDebug(format string, args ...interface{}) { Get(CategoryCache).Debug(format, args...) }
func CacheWarn(format string, args ...interface{})  { Get(CategoryCache).Warn(format, args...) }

func Provider(format string, args ...interface{})      { Get(CategoryProvider).Info(format, args...) }
func ProviderDebug(format string, args ...interface{}) { Get(CategoryProvider).Debug(format, args...) }
func ProviderWarn(format string, args ...interface{})  { Get(CategoryProvider).Warn(format, args...) }

func Metrics(format string, args ...interface{})      { Get(CategoryMetrics).Info(format, args...) }
func MetricsDebug(format string, args ...interface{}) { Get(CategoryMetrics).Debug(format, args...) }

func Task(format string, args ...interface{})      { Get(CategoryTask).Info(format, args...) }
func TaskDebug(format string, args ...interface{}) { Get(CategoryTask).Debug(format, args...) }

func Validate(format string, args ...interface{})      { Get(CategoryValidate).Info(format, args...) }
func ValidateDebug(format string, args ...interface{}) { Get(CategoryValidate).Debug(format, args...) }
func ValidateWarn(format string, args ...interface{})  { Get(CategoryValidate).Warn(format, args...) }

func UI(format string, args ...interface{})      { Get(CategoryUI).Info(format, args...) }
func UIDebug(format string, args ...interface{}) { Get(CategoryUI).Debug(format, args...) }

package embedding

import "forge/internal/logging"

// ContentType distinguishes how a piece of text will be embedded, so the
// GenAI task type hint (see Config.TaskType) can be chosen to match.
type ContentType string

const (
	ContentTypeCode          ContentType = "code"          // source chunk
	ContentTypeDocumentation ContentType = "documentation" // markdown/docs chunk
	ContentTypeQuery         ContentType = "query"          // a retrieval query
)

// SelectTaskType picks the GenAI task type for a content/query combination.
// Indexed chunks use RETRIEVAL_DOCUMENT; queries use RETRIEVAL_QUERY;
// anything else falls back to SEMANTIC_SIMILARITY.
func SelectTaskType(contentType ContentType, isQuery bool) string {
	if isQuery || contentType == ContentTypeQuery {
		return "RETRIEVAL_QUERY"
	}
	switch contentType {
	case ContentTypeCode, ContentTypeDocumentation:
		return "RETRIEVAL_DOCUMENT"
	default:
		logging.EmbeddingDebug("SelectTaskType: unrecognized content type %q, defaulting to SEMANTIC_SIMILARITY", contentType)
		return "SEMANTIC_SIMILARITY"
	}
}

// DetectContentType classifies a chunk by file extension, the same signal
// the Chunker already has on hand.
func DetectContentType(filePath string) ContentType {
	for _, ext := range sourceExtensions {
		if hasSuffixFold(filePath, ext) {
			return ContentTypeCode
		}
	}
	for _, ext := range []string{".md", ".txt", ".rst"} {
		if hasSuffixFold(filePath, ext) {
			return ContentTypeDocumentation
		}
	}
	return ContentTypeDocumentation
}

// sourceExtensions lists the file extensions treated as "source code" for
// both task-type selection here and the non-source retrieval penalty in
// internal/retrieval.
var sourceExtensions = []string{
	".go", ".rs", ".py", ".js", ".jsx", ".ts", ".tsx", ".java", ".c", ".h",
	".cpp", ".cc", ".hpp", ".rb", ".php", ".cs", ".kt", ".swift", ".scala",
	".toml", ".yaml", ".yml", ".json", ".xml",
}

// IsSourceFile reports whether path has an extension in sourceExtensions.
// The Hybrid Retriever applies a score penalty to files that aren't.
func IsSourceFile(path string) bool {
	for _, ext := range sourceExtensions {
		if hasSuffixFold(path, ext) {
			return true
		}
	}
	return false
}

func hasSuffixFold(s, suffix string) bool {
	if len(s) < len(suffix) {
		return false
	}
	tail := s[len(s)-len(suffix):]
	for i := 0; i < len(suffix); i++ {
		a, b := tail[i], suffix[i]
		if 'A' <= a && a <= 'Z' {
			a += 'a' - 'A'
		}
		if 'A' <= b && b <= 'Z' {
			b += 'a' - 'A'
		}
		if a != b {
			return false
		}
	}
	return true
}

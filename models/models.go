package models

// Message represents a message in a model conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// FileType tags an indexed chunk's origin.
const (
	FileTypeSourceCode = "source-code"
	FileTypeDocument   = "document"
)

// DocumentInfo describes a processed document as reported by the registry.
type DocumentInfo struct {
	Filename  string `json:"filename"`
	Size      int64  `json:"size"`
	Type      string `json:"type"`
	Processed bool   `json:"processed"`
	IsSource  bool   `json:"is_source"`
}

// ChunkMetadata travels with every indexed chunk and keeps it traceable
// back to the document it was cut from.
type ChunkMetadata struct {
	Source   string `json:"source"`
	ChunkID  int    `json:"chunk_id"`
	FilePath string `json:"file_path"`
	FileType string `json:"file_type"`
}

// QueryResult is the outcome of a retrieval-grounded query.
type QueryResult struct {
	Answer      string   `json:"answer"`
	Sources     []string `json:"sources"`
	ContextUsed bool     `json:"context_used"`
	Accuracy    float64  `json:"accuracy_percentage"`
}

// TestCaseResult is the outcome of test-case generation.
type TestCaseResult struct {
	TestCase    string  `json:"test_case"`
	Accuracy    float64 `json:"accuracy_percentage"`
	SourcesUsed int     `json:"sources_used"`
}

// ExecutionResult captures a sandboxed script run.
type ExecutionResult struct {
	Success       bool   `json:"success"`
	Stdout        string `json:"stdout"`
	Stderr        string `json:"stderr"`
	ReturnCode    int    `json:"return_code"`
	ExecutionTime string `json:"execution_time"`
}

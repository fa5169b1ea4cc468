// Package bridge implements the stdin/stdout JSON protocol of the
// treebridge adapter. Each invocation reads one request object, runs
// one action, and writes exactly one response object to stdout.
package bridge

import "github.com/auditworks/triage/internal/treebuild"

// Actions accepted by the bridge.
const (
	ActionBuild         = "build"
	ActionBuildFromText = "build_from_text"
	ActionHealth        = "health"
)

// Error types reported in failure responses.
const (
	ErrorInvalidInput    = "INVALID_INPUT"
	ErrorProcessingError = "PROCESSING_ERROR"
)

// Request is the single JSON object read from stdin.
type Request struct {
	Action       string             `json:"action"`
	DocumentPath string             `json:"document_path,omitempty"`
	Text         string             `json:"text,omitempty"`
	DocumentName string             `json:"document_name,omitempty"`
	Options      *treebuild.Options `json:"options,omitempty"`
}

// Error describes a failed request.
type Error struct {
	ErrorType string            `json:"error_type"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
}

// Response is the single JSON object written to stdout. Data holds a
// treebuild.BuildResult for build actions or a Health for health
// checks.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   *Error `json:"error,omitempty"`
}

// Health is the payload of a successful health action.
type Health struct {
	Status           string `json:"status"`
	BuilderAvailable bool   `json:"builder_available"`
	GoVersion        string `json:"go_version"`
}

func success(data any) *Response {
	return &Response{Success: true, Data: data}
}

func failure(errorType, message string, details map[string]string) *Response {
	return &Response{Success: false, Error: &Error{
		ErrorType: errorType,
		Message:   message,
		Details:   details,
	}}
}

package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/zap"

	"github.com/auditworks/triage/internal/treebuild"
)

// supportedExtensions whitelists the document types the build action
// accepts.
var supportedExtensions = map[string]bool{
	".pdf":      true,
	".md":       true,
	".markdown": true,
	".txt":      true,
}

// Handler dispatches bridge requests to the document builder.
type Handler struct {
	builder *treebuild.Builder
	logger  *zap.Logger
}

func NewHandler(builder *treebuild.Builder, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{builder: builder, logger: logger}
}

// Handle processes one raw request and always returns a response,
// folding every failure into the protocol's error envelope.
func (h *Handler) Handle(input []byte) *Response {
	if strings.TrimSpace(string(input)) == "" {
		return failure(ErrorInvalidInput, "No input provided", nil)
	}

	var req Request
	if err := json.Unmarshal(input, &req); err != nil {
		return failure(ErrorInvalidInput, fmt.Sprintf("Invalid JSON input: %v", err), nil)
	}
	if req.Action == "" {
		return failure(ErrorInvalidInput, "Missing 'action' field", nil)
	}

	h.logger.Debug("handling request", zap.String("action", req.Action))

	switch req.Action {
	case ActionBuild:
		return h.handleBuild(req)
	case ActionBuildFromText:
		return h.handleBuildFromText(req)
	case ActionHealth:
		return h.handleHealth()
	default:
		return failure(ErrorInvalidInput, fmt.Sprintf("Unknown action: %s", req.Action), nil)
	}
}

func (h *Handler) handleBuild(req Request) *Response {
	if req.DocumentPath == "" {
		return failure(ErrorInvalidInput, "Missing 'document_path' for build action", nil)
	}

	ext := strings.ToLower(filepath.Ext(req.DocumentPath))
	if !supportedExtensions[ext] {
		return failure(ErrorInvalidInput, fmt.Sprintf("Unsupported file type: %s", ext), nil)
	}
	if _, err := os.Stat(req.DocumentPath); err != nil {
		return failure(ErrorInvalidInput, fmt.Sprintf("Document not found: %s", req.DocumentPath), nil)
	}

	result, err := h.builder.BuildFile(req.DocumentPath, options(req))
	if err != nil {
		return buildFailure(err)
	}
	return success(result)
}

func (h *Handler) handleBuildFromText(req Request) *Response {
	if req.Text == "" {
		return failure(ErrorInvalidInput, "Missing 'text' for build_from_text action", nil)
	}
	name := req.DocumentName
	if name == "" {
		name = "document.txt"
	}

	result, err := h.builder.BuildText(req.Text, name, options(req))
	if err != nil {
		return buildFailure(err)
	}
	return success(result)
}

func (h *Handler) handleHealth() *Response {
	return success(Health{
		Status:           "healthy",
		BuilderAvailable: h.builder.Available(),
		GoVersion:        runtime.Version(),
	})
}

func options(req Request) treebuild.Options {
	if req.Options != nil {
		return *req.Options
	}
	return treebuild.Options{}
}

func buildFailure(err error) *Response {
	if errors.Is(err, treebuild.ErrUnsupportedType) {
		return failure(ErrorInvalidInput, err.Error(), nil)
	}
	return failure(ErrorProcessingError, fmt.Sprintf("Unexpected error: %v", err),
		map[string]string{"type": errorType(err)})
}

// errorType names the root cause of an error chain for the response's
// details object.
func errorType(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return fmt.Sprintf("%T", err)
		}
		err = next
	}
}

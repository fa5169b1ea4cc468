// Command treebridge builds document outline trees over a JSON
// stdin/stdout protocol.
//
// It reads one request object from stdin, runs it, and writes exactly
// one response object to stdout:
//
//	echo '{"action": "build", "document_path": "/path/to/doc.pdf"}' | treebridge
//	echo '{"action": "build_from_text", "text": "...", "document_name": "doc.txt"}' | treebridge
//	echo '{"action": "health"}' | treebridge
//
// The exit code is 0 when the response reports success and 1
// otherwise. All logging goes to stderr; stdout carries only the
// response object.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/auditworks/triage/internal/bridge"
	"github.com/auditworks/triage/internal/treebuild"
)

func main() {
	os.Exit(run())
}

func run() int {
	logger := newLogger()
	defer logger.Sync()

	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		logger.Error("failed to read stdin", zap.Error(err))
		fmt.Fprintln(os.Stderr, "Error: failed to read stdin:", err)
		return 1
	}

	// Capability is probed once here and passed down explicitly.
	available := treebuild.CheckCapability()
	builder := treebuild.New(available, logger)
	handler := bridge.NewHandler(builder, logger)

	resp := handler.Handle(input)

	out, err := json.Marshal(resp)
	if err != nil {
		logger.Error("failed to encode response", zap.Error(err))
		return 1
	}
	fmt.Println(string(out))

	if !resp.Success {
		logger.Warn("request failed",
			zap.String("error_type", resp.Error.ErrorType),
			zap.String("message", resp.Error.Message))
		return 1
	}
	return 0
}

// newLogger builds a stderr-only production logger so stdout stays
// reserved for the response object.
func newLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

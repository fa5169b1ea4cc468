package githubcli

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CommandRunner executes an external command and returns its stdout.
// The indirection exists so tests can fake gh without a GitHub remote.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// OSRunner runs commands on the host.
type OSRunner struct{}

// Run executes the command, returning trimmed stdout. On failure the
// stderr tail is folded into the error, which is where gh puts its
// human-readable diagnostics.
func (OSRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return "", fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
		}
		return "", fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, msg)
	}
	return stdout.String(), nil
}

package cfr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/Mr-xn/cfr-mcp-server/internal/messages"
	"github.com/Mr-xn/cfr-mcp-server/internal/protocol"
)

// Runner executes a built command as a child process with a hard wall-clock
// timeout. It always produces a Result; child failures become result text,
// never an error to the caller.
type Runner struct {
	timeout  time.Duration
	logger   *slog.Logger
	messages messages.Renderer
	slots    chan struct{}
}

// NewRunner creates a runner. maxConcurrent bounds simultaneous child
// processes; zero or negative leaves execution unbounded.
func NewRunner(timeout time.Duration, maxConcurrent int, msgs messages.Renderer, logger *slog.Logger) *Runner {
	r := &Runner{
		timeout:  timeout,
		logger:   logger,
		messages: msgs,
	}
	if maxConcurrent > 0 {
		r.slots = make(chan struct{}, maxConcurrent)
	}
	return r
}

// Run spawns argv with no shell interpretation and waits for completion.
// Stdout and stderr are captured separately; non-empty stderr is appended to
// the output as a delimited comment block so the caller always receives a
// single text blob. The exit code is ignored.
func (r *Runner) Run(ctx context.Context, argv []string) protocol.Result {
	if len(argv) == 0 {
		return protocol.Result{
			Status: protocol.StatusError,
			Output: r.execError(errors.New("empty command")),
		}
	}

	if r.slots != nil {
		select {
		case r.slots <- struct{}{}:
			defer func() { <-r.slots }()
		case <-ctx.Done():
			return protocol.Result{
				Status: protocol.StatusError,
				Output: r.execError(ctx.Err()),
			}
		}
	}

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if r.logger != nil {
		r.logger.Debug("exec", "command", strings.Join(argv, " "))
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// After the context kills the child, give it a short grace period before
	// Wait gives up on its pipes.
	cmd.WaitDelay = 3 * time.Second

	start := time.Now()
	err := cmd.Run()
	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			if r.logger != nil {
				r.logger.Error("decompilation timed out", "timeout", r.timeout, "elapsed", time.Since(start))
			}
			if errors.Is(err, exec.ErrWaitDelay) {
				// Kill did not reap the child in time; an orphan may remain.
				if r.logger != nil {
					r.logger.Error("child process may be orphaned after timeout")
				}
			}
			return protocol.Result{
				Status: protocol.StatusTimeout,
				Output: messages.RenderOr(r.messages, messages.KeyTimeout, nil,
					"/* Error: Decompilation timed out. File might be too complex or large. */"),
			}
		}

		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			// The process never started (tool missing, permission denied).
			if r.logger != nil {
				r.logger.Error("spawn failed", "error", err)
			}
			return protocol.Result{
				Status: protocol.StatusError,
				Output: r.execError(err),
			}
		}
		// Non-zero exit: only the captured text matters.
	}

	output := stdout.String()
	if strings.TrimSpace(stderr.String()) != "" {
		output += fmt.Sprintf("\n\n/*\n%s\n%s\n*/", protocol.StderrMarker, stderr.String())
	}

	if r.logger != nil {
		r.logger.Debug("exec finished", "bytes", len(output), "elapsed", time.Since(start))
	}
	return protocol.Result{
		Status: protocol.StatusSuccess,
		Output: output,
		Stderr: stderr.String(),
	}
}

func (r *Runner) execError(err error) string {
	return messages.RenderOr(r.messages, messages.KeyExecError, map[string]any{"Error": err.Error()},
		fmt.Sprintf("/* Error executing CFR: %s */", err))
}

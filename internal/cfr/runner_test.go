package cfr

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Mr-xn/cfr-mcp-server/internal/messages"
	"github.com/Mr-xn/cfr-mcp-server/internal/protocol"
)

func testRunner(t *testing.T, timeout time.Duration) *Runner {
	t.Helper()
	bundle, err := messages.Load("en")
	require.NoError(t, err)
	return NewRunner(timeout, 2, bundle, nil)
}

func TestRunCapturesStdout(t *testing.T) {
	r := testRunner(t, 10*time.Second)

	result := r.Run(context.Background(), []string{"sh", "-c", "printf hello"})
	require.Equal(t, protocol.StatusSuccess, result.Status)
	require.Equal(t, "hello", result.Output)
	require.Empty(t, result.Stderr)
}

func TestRunAppendsStderrAsCommentBlock(t *testing.T) {
	r := testRunner(t, 10*time.Second)

	result := r.Run(context.Background(), []string{"sh", "-c", "echo out; echo oops 1>&2"})
	require.Equal(t, protocol.StatusSuccess, result.Status)
	require.Contains(t, result.Output, "out")
	require.Contains(t, result.Output, protocol.StderrMarker)
	require.Contains(t, result.Output, "oops")
	// stdout comes first, the comment block after.
	require.Less(t, strings.Index(result.Output, "out"), strings.Index(result.Output, protocol.StderrMarker))
	require.True(t, strings.HasSuffix(strings.TrimSpace(result.Output), "*/"))
}

func TestRunIgnoresExitCode(t *testing.T) {
	r := testRunner(t, 10*time.Second)

	result := r.Run(context.Background(), []string{"sh", "-c", "echo partial; exit 3"})
	require.Equal(t, protocol.StatusSuccess, result.Status)
	require.Contains(t, result.Output, "partial")
}

func TestRunTimeoutKillsChild(t *testing.T) {
	r := testRunner(t, 150*time.Millisecond)

	start := time.Now()
	result := r.Run(context.Background(), []string{"sleep", "30"})
	require.Equal(t, protocol.StatusTimeout, result.Status)
	require.Equal(t, "/* Error: Decompilation timed out. File might be too complex or large. */", result.Output)
	// The child must be reaped well before its own runtime.
	require.Less(t, time.Since(start), 10*time.Second)
}

func TestRunSpawnFailure(t *testing.T) {
	r := testRunner(t, time.Second)

	result := r.Run(context.Background(), []string{"/definitely/not/a/binary"})
	require.Equal(t, protocol.StatusError, result.Status)
	require.Contains(t, result.Output, "Error executing CFR")
	require.True(t, strings.HasPrefix(result.Output, "/*"))
}

func TestRunEmptyCommand(t *testing.T) {
	r := testRunner(t, time.Second)

	result := r.Run(context.Background(), nil)
	require.Equal(t, protocol.StatusError, result.Status)
	require.Contains(t, result.Output, "Error executing CFR")
}

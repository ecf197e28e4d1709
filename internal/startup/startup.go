package startup

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

const probeTimeout = 5 * time.Second

// Probe checks the external collaborators at boot: the java runtime must be
// invocable and the CFR jar should exist. Problems are logged, not fatal;
// individual decompile calls report them as result text.
func Probe(ctx context.Context, javaPath, jarPath string, logger *slog.Logger) {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	var output bytes.Buffer
	cmd := exec.CommandContext(probeCtx, javaPath, "-version")
	cmd.Stdout = &output
	cmd.Stderr = &output // java prints its version to stderr
	if err := cmd.Run(); err != nil {
		if logger != nil {
			logger.Warn("java runtime probe failed", "java", javaPath, "error", err)
		}
	} else if logger != nil {
		version := strings.TrimSpace(output.String())
		if idx := strings.IndexByte(version, '\n'); idx > 0 {
			version = version[:idx]
		}
		logger.Info("java runtime available", "version", version)
	}

	if _, err := os.Stat(jarPath); err != nil {
		if logger != nil {
			logger.Warn("cfr jar not found", "path", jarPath)
		}
		return
	}
	if logger != nil {
		logger.Info("cfr jar found", "path", jarPath)
	}
}

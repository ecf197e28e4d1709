package cfr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Mr-xn/cfr-mcp-server/internal/jar"
	"github.com/Mr-xn/cfr-mcp-server/internal/messages"
	"github.com/Mr-xn/cfr-mcp-server/internal/protocol"
)

// Service runs the full decompile flow: pre-checks, JAR strategies, command
// construction and execution. Apart from ErrMissingFilePath every failure is
// a text result so the calling model receives readable prose, not a fault.
type Service struct {
	// Builder constructs argv vectors.
	Builder Builder
	// Runner executes them.
	Runner *Runner
	// Messages renders localized result texts.
	Messages messages.Renderer
	// Logger is used for structured logging.
	Logger *slog.Logger
}

// Decompile handles one validated tool call.
func (s Service) Decompile(ctx context.Context, opts Options) (protocol.Result, error) {
	if strings.TrimSpace(opts.FilePath) == "" {
		return protocol.Result{}, ErrMissingFilePath
	}
	target, err := filepath.Abs(opts.FilePath)
	if err != nil {
		return protocol.Result{}, fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(target); err != nil {
		return s.textFailure(messages.KeyFileNotFound, map[string]any{"Path": target},
			"Error: File not found: "+target), nil
	}
	if _, err := os.Stat(s.Builder.JarPath); err != nil {
		return s.textFailure(messages.KeyJarNotFound, map[string]any{"Path": s.Builder.JarPath},
			"Error: CFR jar not found at: "+s.Builder.JarPath), nil
	}

	if strings.EqualFold(filepath.Ext(target), ".jar") {
		if opts.ClassName != "" {
			if s.Logger != nil {
				s.Logger.Info("decompiling class from jar", "class", opts.ClassName, "jar", filepath.Base(target))
			}
			return s.decompileJarClass(ctx, target, opts), nil
		}
		if opts.MethodName != "" {
			if s.Logger != nil {
				s.Logger.Info("smart scan for method in jar", "method", opts.MethodName, "jar", filepath.Base(target))
			}
			return s.decompileJarMethod(ctx, target, opts), nil
		}
	}

	return s.Runner.Run(ctx, s.Builder.Command(target, s.Builder.Flags(opts, true))), nil
}

// decompileJarClass extracts the classes matching opts.ClassName and
// decompiles each whole class, so the method filter is omitted.
func (s Service) decompileJarClass(ctx context.Context, target string, opts Options) protocol.Result {
	candidates, err := jar.FindClassByName(target, opts.ClassName)
	if err != nil {
		return s.scanFailure(err)
	}
	if len(candidates) == 0 {
		return s.textFailure(messages.KeyClassNotFound,
			map[string]any{"Class": opts.ClassName, "Jar": filepath.Base(target)},
			fmt.Sprintf("/* Class '%s' not found in %s. */", opts.ClassName, filepath.Base(target)))
	}
	if s.Logger != nil {
		s.Logger.Info("classes matched", "count", len(candidates), "class", opts.ClassName)
	}

	outputs := s.decompileEntries(ctx, target, candidates, s.Builder.Flags(opts, false), func(string) bool {
		return true
	})
	if len(outputs) == 0 {
		return s.textFailure(messages.KeyClassNoOutput, map[string]any{"Count": len(candidates)},
			fmt.Sprintf("/* Found %d class(es) but CFR produced no output. */", len(candidates)))
	}
	return protocol.Result{Status: protocol.StatusSuccess, Output: strings.Join(outputs, "\n\n")}
}

// decompileJarMethod byte-scans the archive for classes that may define
// opts.MethodName and decompiles the candidates with the method filter,
// keeping only outputs that actually mention the method.
func (s Service) decompileJarMethod(ctx context.Context, target string, opts Options) protocol.Result {
	candidates, err := jar.FindClassesWithMethod(target, opts.MethodName)
	if err != nil {
		return s.scanFailure(err)
	}
	if len(candidates) == 0 {
		size := int64(0)
		if info, err := os.Stat(target); err == nil {
			size = info.Size()
		}
		return s.textFailure(messages.KeyMethodNotFound,
			map[string]any{"Method": opts.MethodName, "Jar": filepath.Base(target), "Size": size},
			fmt.Sprintf("/* Method '%s' not found in any class within %s (scanned %d bytes) */",
				opts.MethodName, filepath.Base(target), size))
	}
	if s.Logger != nil {
		s.Logger.Info("candidate classes for method", "count", len(candidates), "method", opts.MethodName)
	}

	outputs := s.decompileEntries(ctx, target, candidates, s.Builder.Flags(opts, true), func(output string) bool {
		return strings.Contains(output, opts.MethodName)
	})
	if len(outputs) == 0 {
		return s.textFailure(messages.KeyMethodNoOutput,
			map[string]any{"Method": opts.MethodName, "Count": len(candidates)},
			fmt.Sprintf("/* Method '%s' matched binary search in %d classes but CFR produced no output. */",
				opts.MethodName, len(candidates)))
	}
	return protocol.Result{Status: protocol.StatusSuccess, Output: strings.Join(outputs, "\n\n")}
}

func (s Service) decompileEntries(ctx context.Context, target string, entries []string, flags []string, keep func(string) bool) []string {
	tempDir, err := os.MkdirTemp("", "cfr-extract-")
	if err != nil {
		return []string{s.scanFailure(err).Output}
	}
	defer os.RemoveAll(tempDir)

	extracted, err := jar.Extract(target, entries, tempDir)
	if err != nil {
		return []string{s.scanFailure(err).Output}
	}

	var outputs []string
	for _, entry := range entries {
		path, ok := extracted[entry]
		if !ok {
			continue
		}
		result := s.Runner.Run(ctx, s.Builder.Command(path, flags))
		if strings.TrimSpace(result.Output) == "" || !keep(result.Output) {
			continue
		}
		outputs = append(outputs, "// Source: "+entry+"\n"+result.Output)
	}
	return outputs
}

func (s Service) textFailure(key string, data map[string]any, fallback string) protocol.Result {
	return protocol.Result{
		Status: protocol.StatusError,
		Output: messages.RenderOr(s.Messages, key, data, fallback),
	}
}

func (s Service) scanFailure(err error) protocol.Result {
	if s.Logger != nil {
		s.Logger.Error("jar scan failed", "error", err)
	}
	return s.textFailure(messages.KeyExecError, map[string]any{"Error": err.Error()},
		fmt.Sprintf("/* Error executing CFR: %s */", err))
}

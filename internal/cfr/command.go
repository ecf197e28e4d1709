package cfr

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ErrMissingFilePath is returned when the required file_path argument is
// absent. It is the one builder failure surfaced as a protocol fault.
var ErrMissingFilePath = errors.New("file_path is required")

// Option keys must be alphanumeric. Keys become flag names on the external
// command line, so anything else is an injection vector and is dropped.
var optionKeyPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// Options is the validated argument set for one decompilation.
type Options struct {
	// FilePath is the .class or .jar target. Required.
	FilePath string
	// ClassName selects a class inside a JAR, simple or dotted form.
	ClassName string
	// MethodName restricts output to methods with this name.
	MethodName string
	// IgnoreExceptions drops try-catch blocks.
	IgnoreExceptions bool
	// HideUTF hides UTF-8 characters.
	HideUTF bool
	// Extra holds advanced CFR options, allow-list checked per key.
	Extra map[string]any
}

// Builder turns decompile options into an external argv vector. It never
// touches a shell; every token stays a discrete process argument.
type Builder struct {
	// JavaPath is the java binary.
	JavaPath string
	// JarPath is the CFR jar.
	JarPath string
	// Logger reports dropped option keys.
	Logger *slog.Logger
}

// Build returns the full argv for decompiling the options' target. The
// target is resolved to an absolute path but not required to exist here;
// existence is checked at execution time.
func (b Builder) Build(opts Options) ([]string, error) {
	if strings.TrimSpace(opts.FilePath) == "" {
		return nil, ErrMissingFilePath
	}
	target, err := filepath.Abs(opts.FilePath)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	return b.Command(target, b.Flags(opts, true)), nil
}

// Command joins the java binary, jar, target and flags into one argv.
func (b Builder) Command(target string, flags []string) []string {
	argv := []string{b.JavaPath, "-jar", b.JarPath, target}
	return append(argv, flags...)
}

// Flags renders the flag portion of the command line. The method filter is
// included only when withMethod is set; JAR class extraction decompiles
// whole classes and omits it. The two trailing defaults are unconditional
// policy, not user-controlled.
func (b Builder) Flags(opts Options, withMethod bool) []string {
	var flags []string
	if withMethod && opts.MethodName != "" {
		flags = append(flags, "--methodname", opts.MethodName)
	}
	if opts.IgnoreExceptions {
		flags = append(flags, "--ignoreexceptions", "true")
	}
	if opts.HideUTF {
		flags = append(flags, "--hideutf", "true")
	}
	flags = append(flags, "--comments", "false", "--showversion", "false")
	return append(flags, b.extraFlags(opts.Extra)...)
}

func (b Builder) extraFlags(extra map[string]any) []string {
	if len(extra) == 0 {
		return nil
	}
	// Sorted keys keep the built argv deterministic; map iteration order is
	// not part of the contract.
	keys := make([]string, 0, len(extra))
	for key := range extra {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	flags := make([]string, 0, 2*len(keys))
	for _, key := range keys {
		if !optionKeyPattern.MatchString(key) {
			if b.Logger != nil {
				b.Logger.Warn("ignored invalid option key", "key", key)
			}
			continue
		}
		flags = append(flags, "--"+key, formatValue(extra[key]))
	}
	return flags
}

func formatValue(value any) string {
	switch v := value.(type) {
	case bool:
		return strconv.FormatBool(v)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

package cfr

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Mr-xn/cfr-mcp-server/internal/messages"
	"github.com/Mr-xn/cfr-mcp-server/internal/protocol"
)

// testService uses echo as the java binary so each "decompilation" prints
// the argv it received.
func testService(t *testing.T) Service {
	t.Helper()
	bundle, err := messages.Load("en")
	require.NoError(t, err)

	jarPath := filepath.Join(t.TempDir(), "cfr.jar")
	require.NoError(t, os.WriteFile(jarPath, []byte("stub"), 0o644))

	return Service{
		Builder:  Builder{JavaPath: "echo", JarPath: jarPath},
		Runner:   NewRunner(10*time.Second, 2, bundle, nil),
		Messages: bundle,
	}
}

func writeJar(t *testing.T, entries map[string][]byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.jar")
	out, err := os.Create(path)
	require.NoError(t, err)
	writer := zip.NewWriter(out)
	for name, content := range entries {
		entry, err := writer.Create(name)
		require.NoError(t, err)
		_, err = entry.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	require.NoError(t, out.Close())
	return path
}

func TestDecompileMissingFilePath(t *testing.T) {
	s := testService(t)

	_, err := s.Decompile(context.Background(), Options{})
	require.ErrorIs(t, err, ErrMissingFilePath)
}

func TestDecompileFileNotFound(t *testing.T) {
	s := testService(t)
	// A broken java binary would change the text if anything were spawned.
	s.Builder.JavaPath = "/definitely/not/java"

	result, err := s.Decompile(context.Background(), Options{FilePath: "/no/such/File.class"})
	require.NoError(t, err)
	require.Equal(t, protocol.StatusError, result.Status)
	require.Contains(t, result.Output, "Error: File not found:")
	require.Contains(t, result.Output, "/no/such/File.class")
}

func TestDecompileJarMissing(t *testing.T) {
	s := testService(t)
	s.Builder.JarPath = "/no/such/cfr.jar"

	target := filepath.Join(t.TempDir(), "A.class")
	require.NoError(t, os.WriteFile(target, []byte{0xCA, 0xFE}, 0o644))

	result, err := s.Decompile(context.Background(), Options{FilePath: target})
	require.NoError(t, err)
	require.Contains(t, result.Output, "Error: CFR jar not found at:")
}

func TestDecompileClassFile(t *testing.T) {
	s := testService(t)

	target := filepath.Join(t.TempDir(), "A.class")
	require.NoError(t, os.WriteFile(target, []byte{0xCA, 0xFE}, 0o644))

	result, err := s.Decompile(context.Background(), Options{FilePath: target, MethodName: "main"})
	require.NoError(t, err)
	require.Equal(t, protocol.StatusSuccess, result.Status)
	require.Contains(t, result.Output, target)
	require.Contains(t, result.Output, "--methodname main")
	require.Contains(t, result.Output, "--comments false --showversion false")
}

func TestDecompileJarByClassName(t *testing.T) {
	s := testService(t)
	target := writeJar(t, map[string][]byte{
		"com/example/Foo.class": []byte("foo-bytes"),
		"com/example/Bar.class": []byte("bar-bytes"),
	})

	result, err := s.Decompile(context.Background(), Options{FilePath: target, ClassName: "Foo"})
	require.NoError(t, err)
	require.Equal(t, protocol.StatusSuccess, result.Status)
	require.Contains(t, result.Output, "// Source: com/example/Foo.class")
	require.NotContains(t, result.Output, "Bar.class")
	// Whole classes are decompiled in class mode; no method filter leaks in.
	require.NotContains(t, result.Output, "--methodname")
}

func TestDecompileJarClassNotFound(t *testing.T) {
	s := testService(t)
	target := writeJar(t, map[string][]byte{
		"com/example/Foo.class": []byte("foo-bytes"),
	})

	result, err := s.Decompile(context.Background(), Options{FilePath: target, ClassName: "Missing"})
	require.NoError(t, err)
	require.Equal(t, protocol.StatusError, result.Status)
	require.Contains(t, result.Output, "Class 'Missing' not found")
}

func TestDecompileJarByMethodName(t *testing.T) {
	s := testService(t)
	target := writeJar(t, map[string][]byte{
		"com/example/Foo.class": []byte("contains runMe somewhere"),
		"com/example/Bar.class": []byte("nothing of interest"),
	})

	result, err := s.Decompile(context.Background(), Options{FilePath: target, MethodName: "runMe"})
	require.NoError(t, err)
	require.Equal(t, protocol.StatusSuccess, result.Status)
	require.Contains(t, result.Output, "// Source: com/example/Foo.class")
	require.Contains(t, result.Output, "--methodname runMe")
	require.NotContains(t, result.Output, "Bar.class")
}

func TestDecompileJarMethodNotFound(t *testing.T) {
	s := testService(t)
	target := writeJar(t, map[string][]byte{
		"com/example/Foo.class": []byte("nothing here"),
	})

	result, err := s.Decompile(context.Background(), Options{FilePath: target, MethodName: "ghost"})
	require.NoError(t, err)
	require.Equal(t, protocol.StatusError, result.Status)
	require.Contains(t, result.Output, "Method 'ghost' not found in any class")
}

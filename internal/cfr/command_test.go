package cfr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildDefaultFlags(t *testing.T) {
	b := Builder{JavaPath: "java", JarPath: "cfr.jar"}

	argv, err := b.Build(Options{FilePath: "/tmp/A.class"})
	require.NoError(t, err)
	require.Equal(t, []string{
		"java", "-jar", "cfr.jar", "/tmp/A.class",
		"--comments", "false", "--showversion", "false",
	}, argv)
}

func TestBuildMissingFilePath(t *testing.T) {
	b := Builder{JavaPath: "java", JarPath: "cfr.jar"}

	_, err := b.Build(Options{})
	require.ErrorIs(t, err, ErrMissingFilePath)

	_, err = b.Build(Options{FilePath: "   "})
	require.ErrorIs(t, err, ErrMissingFilePath)
}

func TestBuildResolvesRelativePath(t *testing.T) {
	b := Builder{JavaPath: "java", JarPath: "cfr.jar"}

	argv, err := b.Build(Options{FilePath: "A.class"})
	require.NoError(t, err)
	require.True(t, len(argv) > 3)
	require.NotEqual(t, "A.class", argv[3])
	require.Contains(t, argv[3], "A.class")
}

func TestBuildOptionalFlags(t *testing.T) {
	b := Builder{JavaPath: "java", JarPath: "cfr.jar"}

	argv, err := b.Build(Options{
		FilePath:         "/tmp/A.class",
		MethodName:       "run",
		IgnoreExceptions: true,
		HideUTF:          true,
	})
	require.NoError(t, err)
	require.Equal(t, []string{
		"java", "-jar", "cfr.jar", "/tmp/A.class",
		"--methodname", "run",
		"--ignoreexceptions", "true",
		"--hideutf", "true",
		"--comments", "false", "--showversion", "false",
	}, argv)
}

func TestBuildDropsInvalidOptionKeys(t *testing.T) {
	b := Builder{JavaPath: "java", JarPath: "cfr.jar"}

	argv, err := b.Build(Options{
		FilePath:   "/tmp/A.class",
		MethodName: "run",
		Extra: map[string]any{
			"ignoreexceptions;rm -rf": true,
			"--sneaky":                "x",
			"with space":              "x",
			"under_score":             "x",
		},
	})
	require.NoError(t, err)
	require.Equal(t, []string{
		"java", "-jar", "cfr.jar", "/tmp/A.class",
		"--methodname", "run",
		"--comments", "false", "--showversion", "false",
	}, argv)
}

func TestBuildExtraOptionsSortedAndRendered(t *testing.T) {
	b := Builder{JavaPath: "java", JarPath: "cfr.jar"}

	argv, err := b.Build(Options{
		FilePath: "/tmp/A.class",
		Extra: map[string]any{
			"sugarboxing":   false,
			"aggressive":    true,
			"forcetopsort":  "TRUE",
			"recpasses":     float64(2),
			"zzz;injection": "dropped",
		},
	})
	require.NoError(t, err)
	require.Equal(t, []string{
		"java", "-jar", "cfr.jar", "/tmp/A.class",
		"--comments", "false", "--showversion", "false",
		"--aggressive", "true",
		"--forcetopsort", "TRUE",
		"--recpasses", "2",
		"--sugarboxing", "false",
	}, argv)
}

func TestFlagsWithoutMethod(t *testing.T) {
	b := Builder{JavaPath: "java", JarPath: "cfr.jar"}

	flags := b.Flags(Options{MethodName: "run"}, false)
	require.Equal(t, []string{"--comments", "false", "--showversion", "false"}, flags)
}

package jar

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeArchive(t *testing.T, entries map[string][]byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.jar")
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

func TestFindClassByNameSimple(t *testing.T) {
	path := writeArchive(t, map[string][]byte{
		"com/a/Service.class":    []byte("a"),
		"com/b/Service.class":    []byte("b"),
		"com/b/Other.class":      []byte("c"),
		"META-INF/MANIFEST.MF":   []byte("m"),
		"com/b/Service.class.go": []byte("not a class"),
	})

	found, err := FindClassByName(path, "Service")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"com/a/Service.class", "com/b/Service.class"}, found)
}

func TestFindClassByNameDotted(t *testing.T) {
	path := writeArchive(t, map[string][]byte{
		"com/a/Service.class": []byte("a"),
		"com/b/Service.class": []byte("b"),
	})

	found, err := FindClassByName(path, "com.b.Service")
	require.NoError(t, err)
	require.Equal(t, []string{"com/b/Service.class"}, found)
}

func TestFindClassByNameMiss(t *testing.T) {
	path := writeArchive(t, map[string][]byte{
		"com/a/Service.class": []byte("a"),
	})

	found, err := FindClassByName(path, "Nope")
	require.NoError(t, err)
	require.Empty(t, found)
}

func TestFindClassesWithMethod(t *testing.T) {
	path := writeArchive(t, map[string][]byte{
		"com/a/Has.class":    []byte("xx doWork yy"),
		"com/a/HasNot.class": []byte("nothing"),
		"com/a/readme.txt":   []byte("doWork mentioned but not a class"),
	})

	found, err := FindClassesWithMethod(path, "doWork")
	require.NoError(t, err)
	require.Equal(t, []string{"com/a/Has.class"}, found)
}

func TestFindOpenError(t *testing.T) {
	_, err := FindClassByName("/no/such.jar", "Foo")
	require.Error(t, err)

	_, err = FindClassesWithMethod("/no/such.jar", "foo")
	require.Error(t, err)
}

func TestExtract(t *testing.T) {
	path := writeArchive(t, map[string][]byte{
		"com/a/Foo.class": []byte("foo-bytes"),
		"com/a/Bar.class": []byte("bar-bytes"),
	})
	dest := t.TempDir()

	extracted, err := Extract(path, []string{"com/a/Foo.class"}, dest)
	require.NoError(t, err)
	require.Len(t, extracted, 1)

	content, err := os.ReadFile(extracted["com/a/Foo.class"])
	require.NoError(t, err)
	require.Equal(t, []byte("foo-bytes"), content)
	require.NoFileExists(t, filepath.Join(dest, "com/a/Bar.class"))
}

func TestExtractSkipsNonLocalEntries(t *testing.T) {
	path := writeArchive(t, map[string][]byte{
		"../evil.class": []byte("evil"),
	})
	dest := t.TempDir()

	extracted, err := Extract(path, []string{"../evil.class"}, dest)
	require.NoError(t, err)
	require.Empty(t, extracted)
	require.NoFileExists(t, filepath.Join(filepath.Dir(dest), "evil.class"))
}

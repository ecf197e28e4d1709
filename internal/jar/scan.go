package jar

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FindClassesWithMethod returns the .class entries of the archive whose raw
// bytes contain methodName. Method names sit UTF-8 encoded in the constant
// pool, so a byte search is a cheap candidate filter before decompiling.
func FindClassesWithMethod(jarPath, methodName string) ([]string, error) {
	reader, err := zip.OpenReader(jarPath)
	if err != nil {
		return nil, fmt.Errorf("open jar: %w", err)
	}
	defer reader.Close()

	needle := []byte(methodName)
	var candidates []string
	for _, file := range reader.File {
		if !strings.HasSuffix(file.Name, ".class") {
			continue
		}
		content, err := readEntry(file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file.Name, err)
		}
		if bytes.Contains(content, needle) {
			candidates = append(candidates, file.Name)
		}
	}
	return candidates, nil
}

// FindClassByName returns the .class entries matching className. A dotted
// name ("com.x.Foo") matches its exact path; a simple name ("Foo") matches
// any package.
func FindClassByName(jarPath, className string) ([]string, error) {
	reader, err := zip.OpenReader(jarPath)
	if err != nil {
		return nil, fmt.Errorf("open jar: %w", err)
	}
	defer reader.Close()

	var target string
	exact := strings.Contains(className, ".") && !strings.HasSuffix(className, ".class")
	if exact {
		target = strings.ReplaceAll(className, ".", "/") + ".class"
	} else {
		target = strings.TrimSuffix(className, ".class") + ".class"
	}

	var candidates []string
	for _, file := range reader.File {
		if !strings.HasSuffix(file.Name, ".class") {
			continue
		}
		if exact {
			if file.Name == target {
				candidates = append(candidates, file.Name)
			}
			continue
		}
		if file.Name == target || strings.HasSuffix(file.Name, "/"+target) {
			candidates = append(candidates, file.Name)
		}
	}
	return candidates, nil
}

// Extract copies the named entries into destDir and returns a mapping from
// entry name to path on disk. Entries with non-local names are skipped.
func Extract(jarPath string, entries []string, destDir string) (map[string]string, error) {
	reader, err := zip.OpenReader(jarPath)
	if err != nil {
		return nil, fmt.Errorf("open jar: %w", err)
	}
	defer reader.Close()

	wanted := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		wanted[entry] = struct{}{}
	}

	extracted := make(map[string]string, len(entries))
	for _, file := range reader.File {
		if _, ok := wanted[file.Name]; !ok {
			continue
		}
		if !filepath.IsLocal(filepath.FromSlash(file.Name)) {
			continue
		}
		path := filepath.Join(destDir, filepath.FromSlash(file.Name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("extract %s: %w", file.Name, err)
		}
		if err := writeEntry(file, path); err != nil {
			return nil, fmt.Errorf("extract %s: %w", file.Name, err)
		}
		extracted[file.Name] = path
	}
	return extracted, nil
}

func readEntry(file *zip.File) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func writeEntry(file *zip.File, path string) error {
	rc, err := file.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, rc)
	return err
}

// Package testutil writes Swift fixture trees for tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes content to path, creating parent directories, and
// returns path.
func WriteFile(t *testing.T, path, content string) string {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll(%s) error: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile(%s) error: %v", path, err)
	}
	return path
}

// SwiftProject writes files (relative path -> content) under a fresh temp
// dir and returns the dir with symlinks resolved, so it compares equal to
// the absolute paths the scanner reports.
func SwiftProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("EvalSymlinks error: %v", err)
	}
	for name, content := range files {
		WriteFile(t, filepath.Join(root, name), content)
	}
	return root
}

// RelPaths returns files relative to root using forward slashes.
func RelPaths(t *testing.T, root string, files []string) []string {
	t.Helper()
	out := make([]string, len(files))
	for i, f := range files {
		rel, err := filepath.Rel(root, f)
		if err != nil {
			t.Fatalf("Rel(%s, %s) error: %v", root, f, err)
		}
		out[i] = filepath.ToSlash(rel)
	}
	return out
}

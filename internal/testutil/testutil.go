// Package testutil provides common test helpers for the launchpad project.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

// WriteManifest writes a dependencies.yaml with the given content into dir
// and returns its path.
func WriteManifest(t *testing.T, fs afero.Fs, dir, content string) string {
	t.Helper()

	if err := fs.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("WriteManifest: mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, "dependencies.yaml")
	if err := afero.WriteFile(fs, path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}
	return path
}

// MkdirAll creates every directory in dirs, failing the test on error.
func MkdirAll(t *testing.T, fs afero.Fs, dirs ...string) {
	t.Helper()

	for _, d := range dirs {
		if err := fs.MkdirAll(d, 0755); err != nil {
			t.Fatalf("MkdirAll: %s: %v", d, err)
		}
	}
}

// InstalledPrefix creates a prefix root with a bin directory and one
// domain/version lib directory, mimicking a finished install.
func InstalledPrefix(t *testing.T, fs afero.Fs, root, domain, version string) {
	t.Helper()

	MkdirAll(t, fs,
		filepath.Join(root, "bin"),
		filepath.Join(root, domain, version, "lib"),
	)
}

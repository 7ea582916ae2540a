package harness

import (
	"archive/zip"
	"os"
	"os/exec"
	"path/filepath"
)

// TestDataEnv names the environment variable pointing at the fixture
// directory
const TestDataEnv = "WRAPFLOW_TESTDATA"

// Fixture returns the path of a fixture file, skipping the test when the
// fixture directory is not set up or lacks the file
func Fixture(t TB, name string) string {
	t.Helper()
	dir := os.Getenv(TestDataEnv)
	if dir == "" {
		t.Skipf("%s not set", TestDataEnv)
	}
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err != nil {
		t.Skipf("fixture %s: %v", name, err)
	}
	return path
}

// RequireTools skips the test unless every named tool is on PATH
func RequireTools(t TB, names ...string) {
	t.Helper()
	for _, name := range names {
		if _, err := exec.LookPath(name); err != nil {
			t.Skipf("%s not on PATH", name)
		}
	}
}

// ReadFile returns the content of a file
func ReadFile(t TB, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

// FirstLine returns the first line of a file
func FirstLine(t TB, path string) string {
	t.Helper()
	lines := splitLines(ReadFile(t, path))
	if len(lines) == 0 {
		return ""
	}
	return lines[0]
}

// LastLine returns the last non-empty line of a file
func LastLine(t TB, path string) string {
	t.Helper()
	lines := splitLines(ReadFile(t, path))
	for i := len(lines) - 1; i >= 0; i-- {
		if lines[i] != "" {
			return lines[i]
		}
	}
	return ""
}

// ZipMembers returns the names of the entries of a zip archive, in archive
// order
func ZipMembers(t TB, path string) []string {
	t.Helper()
	r, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("opening zip archive: %v", err)
	}
	defer r.Close()
	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	return names
}

package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteSubtitle writes an SRT document under the test temp directory and
// returns its path.
func WriteSubtitle(t testing.TB, name, content string) string {
	t.Helper()
	return WriteFile(t, filepath.Join(t.TempDir(), name), content)
}

// BilingualSRT is a two-cue Vietnamese/English document.
const BilingualSRT = "1\n00:00:01,000 --> 00:00:03,500\nXin chào\nHello\n\n2\n00:00:04,000 --> 00:00:06,000\nTạm biệt\nGoodbye\n"

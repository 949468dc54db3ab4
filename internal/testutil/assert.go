package testutil

import (
	"os"
	"strings"
	"testing"
)

// AssertFileExists fails the test if the file does not exist.
func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("expected file to exist: %s", path)
	}
}

// AssertFileContains fails the test if the file doesn't contain every substring.
func AssertFileContains(t *testing.T, path string, substrs ...string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("failed to read %s: %v", path, err)
		return
	}
	for _, s := range substrs {
		if !strings.Contains(string(data), s) {
			t.Errorf("expected %s to contain %q", path, s)
		}
	}
}

// AssertContainsAll fails the test if out is missing any of the substrings.
func AssertContainsAll(t *testing.T, out string, substrs ...string) {
	t.Helper()
	for _, s := range substrs {
		if !strings.Contains(out, s) {
			t.Errorf("output missing %q:\n%s", s, out)
		}
	}
}

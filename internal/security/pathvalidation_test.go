package security

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidatePathWithinDirectory(t *testing.T) {
	safe := t.TempDir()

	t.Run("existing file inside", func(t *testing.T) {
		path := filepath.Join(safe, "results.csv")
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
		if err := ValidatePathWithinDirectory(path, safe); err != nil {
			t.Fatalf("expected valid path, got %v", err)
		}
	})

	t.Run("new file inside", func(t *testing.T) {
		path := filepath.Join(safe, "not-yet-created", "results.csv")
		if err := ValidatePathWithinDirectory(path, safe); err != nil {
			t.Fatalf("expected valid path, got %v", err)
		}
	})

	t.Run("relative escape", func(t *testing.T) {
		path := filepath.Join(safe, "..", "escape.csv")
		if err := ValidatePathWithinDirectory(path, safe); err == nil {
			t.Fatal("expected traversal to be rejected")
		}
	})

	t.Run("absolute outside", func(t *testing.T) {
		if err := ValidatePathWithinDirectory("/etc/passwd", safe); err == nil {
			t.Fatal("expected outside path to be rejected")
		}
	})
}

func TestValidatePathWithinDirectorySymlinkEscape(t *testing.T) {
	safe := t.TempDir()
	outside := t.TempDir()

	link := filepath.Join(safe, "link")
	if err := os.Symlink(outside, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	// The path looks like it is inside safe but resolves outside it.
	if err := ValidatePathWithinDirectory(filepath.Join(link, "results.csv"), safe); err == nil {
		t.Fatal("expected symlinked escape to be rejected")
	}
}

func TestValidateExportPath(t *testing.T) {
	if err := ValidateExportPath("exports/benchmarks.csv"); err != nil {
		t.Fatalf("expected working-directory export to be accepted, got %v", err)
	}
	if err := ValidateExportPath(filepath.Join(t.TempDir(), "sweep.csv")); err != nil {
		t.Fatalf("expected temp-directory export to be accepted, got %v", err)
	}
	if err := ValidateExportPath("/etc/crontab"); err == nil {
		t.Fatal("expected system path to be rejected")
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "unknown"},
		{"!!!", "unknown"},
		{"run 42!", "run_42"},
		{"abc-DEF_123.csv", "abc-DEF_123.csv"},
		{"../../etc", "etc"},
		{strings.Repeat("a", 200), strings.Repeat("a", 128)},
	}
	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

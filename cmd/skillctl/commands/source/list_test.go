package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeSourcesConfig writes a config file registering the given collections
// and returns its path.
func writeSourcesConfig(t *testing.T, names ...string) string {
	t.Helper()

	var sb strings.Builder
	sb.WriteString("version: 1\nregistry: \".\"\nsources:\n")
	for _, name := range names {
		fmt.Fprintf(&sb, "  %s:\n", name)
		fmt.Fprintf(&sb, "    url: https://example.com/%s.git\n", name)
		fmt.Fprintf(&sb, "    name: %s\n", name)
		fmt.Fprintf(&sb, "    path: /tmp/cache/%s\n", name)
		fmt.Fprintf(&sb, "    added_at: 2026-08-20T10:00:00Z\n")
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestRunListWithWriter_Empty(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	listJSON = false

	var buf bytes.Buffer
	if err := runListWithWriter(&buf, configPath); err != nil {
		t.Fatalf("runListWithWriter() error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "No collections registered.") {
		t.Errorf("expected empty message, got:\n%s", output)
	}
	if !strings.Contains(output, "skillctl source add") {
		t.Errorf("expected add hint, got:\n%s", output)
	}
}

func TestRunListWithWriter_Sorted(t *testing.T) {
	configPath := writeSourcesConfig(t, "zeta-skills", "alpha-skills")
	listJSON = false

	var buf bytes.Buffer
	if err := runListWithWriter(&buf, configPath); err != nil {
		t.Fatalf("runListWithWriter() error = %v", err)
	}

	output := buf.String()
	alphaIdx := strings.Index(output, "alpha-skills")
	zetaIdx := strings.Index(output, "zeta-skills")
	if alphaIdx == -1 || zetaIdx == -1 {
		t.Fatalf("expected both collections in output, got:\n%s", output)
	}
	if alphaIdx > zetaIdx {
		t.Error("expected collections sorted by name")
	}
}

func TestRunListWithWriter_JSON(t *testing.T) {
	configPath := writeSourcesConfig(t, "community")
	listJSON = true
	t.Cleanup(func() { listJSON = false })

	var buf bytes.Buffer
	if err := runListWithWriter(&buf, configPath); err != nil {
		t.Fatalf("runListWithWriter() error = %v", err)
	}

	var sources []sourceJSON
	if err := json.Unmarshal(buf.Bytes(), &sources); err != nil {
		t.Fatalf("failed to parse JSON output: %v\nOutput:\n%s", err, buf.String())
	}

	if len(sources) != 1 {
		t.Fatalf("expected 1 collection, got %d", len(sources))
	}
	if sources[0].Name != "community" {
		t.Errorf("Name = %q, want %q", sources[0].Name, "community")
	}
	if sources[0].URL != "https://example.com/community.git" {
		t.Errorf("URL = %q, want the registered URL", sources[0].URL)
	}
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"zero time", time.Time{}, "unknown"},
		{"just now", now.Add(-30 * time.Second), "just now"},
		{"minutes", now.Add(-5 * time.Minute), "5 minutes ago"},
		{"one hour", now.Add(-90 * time.Minute), "1 hour ago"},
		{"days", now.Add(-49 * time.Hour), "2 days ago"},
		{"weeks", now.Add(-8 * 24 * time.Hour), "1 week ago"},
		{"months", now.Add(-70 * 24 * time.Hour), "2 months ago"},
		{"years", now.Add(-800 * 24 * time.Hour), "2 years ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatRelativeTime(tt.t); got != tt.want {
				t.Errorf("formatRelativeTime() = %q, want %q", got, tt.want)
			}
		})
	}
}

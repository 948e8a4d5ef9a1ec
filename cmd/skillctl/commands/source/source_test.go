package source

import (
	"bytes"
	"strings"
	"testing"

	"github.com/openhands/skillctl/internal/source"
)

func TestPrintValidationWarnings(t *testing.T) {
	tests := []struct {
		name         string
		warnings     []source.ValidationWarning
		wantContains []string
		wantEmpty    bool
	}{
		{
			name:      "no warnings",
			warnings:  nil,
			wantEmpty: true,
		},
		{
			name: "warning is shown with its path",
			warnings: []source.ValidationWarning{
				{Path: "skills/test/SKILL.md", Message: "invalid frontmatter: unexpected EOF"},
			},
			wantContains: []string{
				"Validation warnings:",
				"skills/test/SKILL.md",
				"invalid frontmatter",
			},
		},
		{
			name: "multiple warnings all appear",
			warnings: []source.ValidationWarning{
				{Path: "skills/broken", Message: "missing SKILL.md"},
				{Path: "plugins/test/PLUGIN.md", Message: "invalid frontmatter: yaml error"},
			},
			wantContains: []string{
				"skills/broken",
				"missing SKILL.md",
				"plugins/test/PLUGIN.md",
				"invalid frontmatter",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printValidationWarnings(&buf, tt.warnings)
			output := buf.String()

			if tt.wantEmpty {
				if output != "" {
					t.Errorf("expected empty output, got: %q", output)
				}
				return
			}

			for _, want := range tt.wantContains {
				if !strings.Contains(output, want) {
					t.Errorf("output missing expected content %q\noutput: %s", want, output)
				}
			}
		})
	}
}

func TestHandleAddError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{"invalid url", source.ErrInvalidURL, "not a valid git URL"},
		{"name collision", source.ErrNameCollision, "already exists"},
		{"invalid name", source.ErrInvalidName, "invalid source name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := handleAddError("https://example.com/x.git", tt.err)
			if got == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(got.Error(), tt.wantMsg) {
				t.Errorf("error %q missing %q", got.Error(), tt.wantMsg)
			}
		})
	}
}

func TestSourceCommand_Metadata(t *testing.T) {
	if Cmd.Use != "source" {
		t.Errorf("Use = %q, want %q", Cmd.Use, "source")
	}

	want := map[string]bool{"add": false, "list": false, "update": false, "remove": false}
	for _, sub := range Cmd.Commands() {
		want[sub.Name()] = true
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

package frontmatter

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// SkillMeta represents the frontmatter structure for skill files.
type SkillMeta struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Triggers    []string `yaml:"triggers"`
}

// PluginMeta represents the frontmatter structure for plugin files.
type PluginMeta struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Triggers    []string          `yaml:"triggers"`
	Metadata    map[string]string `yaml:"metadata"`
}

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantMeta SkillMeta
		wantBody string
	}{
		{
			name: "full document",
			input: "---\nname: skill-name\ndescription: A brief description\ntriggers:\n" +
				"  - deploy\n  - rollout\n---\n\n# Skill instructions here\n",
			wantMeta: SkillMeta{
				Name:        "skill-name",
				Description: "A brief description",
				Triggers:    []string{"deploy", "rollout"},
			},
			wantBody: "\n# Skill instructions here\n",
		},
		{
			name:     "empty frontmatter block",
			input:    "---\n---\n\nBody content here.\n",
			wantMeta: SkillMeta{},
			wantBody: "\nBody content here.\n",
		},
		{
			name:     "no body",
			input:    "---\nname: no-body-skill\n---\n",
			wantMeta: SkillMeta{Name: "no-body-skill"},
			wantBody: "",
		},
		{
			name:     "closing delimiter without trailing newline",
			input:    "---\nname: minimal\n---",
			wantMeta: SkillMeta{Name: "minimal"},
			wantBody: "",
		},
		{
			name:     "windows CRLF line endings",
			input:    "---\r\nname: windows-skill\r\ndescription: Uses CRLF\r\n---\r\n\r\nBody with CRLF.\r\n",
			wantMeta: SkillMeta{Name: "windows-skill", Description: "Uses CRLF"},
			wantBody: "\nBody with CRLF.\n",
		},
		{
			name: "multiline description",
			input: "---\nname: multiline-skill\ndescription: |\n  line one\n  line two\n" +
				"triggers:\n  - deploy\n---\n\nInstructions follow.\n",
			wantMeta: SkillMeta{
				Name:        "multiline-skill",
				Description: "line one\nline two\n",
				Triggers:    []string{"deploy"},
			},
			wantBody: "\nInstructions follow.\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, body, err := Parse[SkillMeta](strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if !reflect.DeepEqual(*meta, tt.wantMeta) {
				t.Errorf("meta = %+v, want %+v", *meta, tt.wantMeta)
			}
			if body != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"no frontmatter", "# Just a markdown file\n\nNo frontmatter here.", ErrNoFrontmatter},
		{"empty input", "", ErrNoFrontmatter},
		{"wrong delimiter", "--\nname: not-frontmatter\n--\n\nbody\n", ErrNoFrontmatter},
		{"unclosed frontmatter", "---\nname: unclosed\n", ErrNoFrontmatter},
		{"broken yaml", "---\nname: [invalid yaml\n  this is broken\n---\n\nBody content.\n", ErrInvalidYAML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse[SkillMeta](strings.NewReader(tt.input))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParse_PluginMeta(t *testing.T) {
	input := "---\nname: pr-review\ndescription: Reviews pull requests\ntriggers:\n" +
		"  - review\n  - pr\nmetadata:\n  author: platform-team\n---\n\nPlugin instructions go here.\n"

	meta, body, err := Parse[PluginMeta](strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := PluginMeta{
		Name:        "pr-review",
		Description: "Reviews pull requests",
		Triggers:    []string{"review", "pr"},
		Metadata:    map[string]string{"author": "platform-team"},
	}
	if !reflect.DeepEqual(*meta, want) {
		t.Errorf("meta = %+v, want %+v", *meta, want)
	}
	if body != "\nPlugin instructions go here.\n" {
		t.Errorf("body = %q", body)
	}
}

func TestParseFile(t *testing.T) {
	write := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "SKILL.md")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	t.Run("valid file", func(t *testing.T) {
		path := write(t, "---\nname: file-skill\ntriggers:\n  - files\n---\n\nFile body content.\n")

		meta, body, err := ParseFile[SkillMeta](path)
		if err != nil {
			t.Fatalf("ParseFile: %v", err)
		}
		if meta.Name != "file-skill" || len(meta.Triggers) != 1 || meta.Triggers[0] != "files" {
			t.Errorf("meta = %+v", *meta)
		}
		if body != "\nFile body content.\n" {
			t.Errorf("body = %q", body)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := ParseFile[SkillMeta]("/nonexistent/path/to/file.md")
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("ParseFile(missing) = %v, want os.ErrNotExist", err)
		}
	})

	t.Run("file without frontmatter", func(t *testing.T) {
		path := write(t, "# No Frontmatter\n\nJust content.")
		if _, _, err := ParseFile[SkillMeta](path); !errors.Is(err, ErrNoFrontmatter) {
			t.Errorf("ParseFile = %v, want ErrNoFrontmatter", err)
		}
	})
}

func TestParseHeader(t *testing.T) {
	t.Run("reads only the header", func(t *testing.T) {
		input := "---\nname: header-only\ndescription: Streaming parse\n---\n\nA very long body that should not matter.\n"

		var meta SkillMeta
		if err := ParseHeader(strings.NewReader(input), &meta); err != nil {
			t.Fatalf("ParseHeader: %v", err)
		}
		if meta.Name != "header-only" || meta.Description != "Streaming parse" {
			t.Errorf("meta = %+v", meta)
		}
	})

	t.Run("no frontmatter is silent", func(t *testing.T) {
		var meta SkillMeta
		if err := ParseHeader(strings.NewReader("# Plain markdown\n"), &meta); err != nil {
			t.Fatalf("ParseHeader: %v", err)
		}
		if meta.Name != "" {
			t.Errorf("meta should stay zero, got name %q", meta.Name)
		}
	})

	t.Run("invalid YAML surfaces error", func(t *testing.T) {
		var meta SkillMeta
		err := ParseHeader(strings.NewReader("---\nname: [broken\n---\nbody"), &meta)
		if !errors.Is(err, ErrInvalidYAML) {
			t.Errorf("ParseHeader = %v, want ErrInvalidYAML", err)
		}
	})
}

func TestFormat(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		meta := SkillMeta{
			Name:        "round-trip",
			Description: "Formatted and parsed back",
			Triggers:    []string{"format"},
		}
		out, err := Format(meta, "# Body\n")
		if err != nil {
			t.Fatalf("Format: %v", err)
		}

		parsed, body, err := Parse[SkillMeta](strings.NewReader(string(out)))
		if err != nil {
			t.Fatalf("Parse of formatted output: %v\noutput:\n%s", err, out)
		}
		if !reflect.DeepEqual(*parsed, meta) {
			t.Errorf("round trip mismatch: got %+v, want %+v", *parsed, meta)
		}
		if !strings.Contains(body, "# Body") {
			t.Errorf("body lost in round trip: %q", body)
		}
	})

	t.Run("body without trailing newline gains one", func(t *testing.T) {
		out, err := Format(SkillMeta{Name: "x"}, "no newline")
		if err != nil {
			t.Fatalf("Format: %v", err)
		}
		if !strings.HasSuffix(string(out), "no newline\n") {
			t.Errorf("want trailing newline, got %q", out)
		}
	})

	t.Run("empty body emits header only", func(t *testing.T) {
		out, err := Format(SkillMeta{Name: "only-header"}, "")
		if err != nil {
			t.Fatalf("Format: %v", err)
		}
		if !strings.HasSuffix(string(out), "---\n") {
			t.Errorf("want output ending at closing delimiter, got %q", out)
		}
	})
}

package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// createTestCollection creates a collection directory structure for
// validation tests.
func createTestCollection(t *testing.T, opts validatorTestOptions) string {
	t.Helper()
	dir := t.TempDir()

	if opts.createSkillsDir {
		skillsDir := filepath.Join(dir, "skills")
		if err := os.MkdirAll(skillsDir, 0o755); err != nil {
			t.Fatal(err)
		}
		for name, content := range opts.skills {
			skillDir := filepath.Join(skillsDir, name)
			if err := os.MkdirAll(skillDir, 0o755); err != nil {
				t.Fatal(err)
			}
			if content != "" {
				if err := os.WriteFile(filepath.Join(skillDir, "SKILL.md"), []byte(content), 0o644); err != nil {
					t.Fatal(err)
				}
			}
		}
	}

	if opts.createPluginsDir {
		pluginsDir := filepath.Join(dir, "plugins")
		if err := os.MkdirAll(pluginsDir, 0o755); err != nil {
			t.Fatal(err)
		}
		for name, content := range opts.plugins {
			pluginDir := filepath.Join(pluginsDir, name)
			if err := os.MkdirAll(pluginDir, 0o755); err != nil {
				t.Fatal(err)
			}
			if content != "" {
				if err := os.WriteFile(filepath.Join(pluginDir, "PLUGIN.md"), []byte(content), 0o644); err != nil {
					t.Fatal(err)
				}
			}
		}
	}

	return dir
}

type validatorTestOptions struct {
	createSkillsDir  bool
	createPluginsDir bool
	skills           map[string]string // name -> SKILL.md content (empty string = no SKILL.md)
	plugins          map[string]string // name -> PLUGIN.md content
}

// validSkillDoc returns valid SKILL.md content.
func validSkillDoc(name, description string) string {
	return "---\nname: " + name + "\ndescription: " + description + "\ntriggers:\n  - " + name + "\n---\n\nSkill instructions here."
}

// validPluginDoc returns valid PLUGIN.md content.
func validPluginDoc(name, description string) string {
	return "---\nname: " + name + "\ndescription: " + description + "\ntriggers:\n  - " + name + "\n---\n\nPlugin instructions here."
}

func TestValidateContent_ValidCollection(t *testing.T) {
	collectionPath := createTestCollection(t, validatorTestOptions{
		createSkillsDir:  true,
		createPluginsDir: true,
		skills: map[string]string{
			"code-review":    validSkillDoc("code-review", "Reviews code"),
			"test-generator": validSkillDoc("test-generator", "Generates tests"),
		},
		plugins: map[string]string{
			"git-hygiene": validPluginDoc("git-hygiene", "Keeps commits clean"),
		},
	})

	warnings := ValidateContent(collectionPath)

	if len(warnings) != 0 {
		t.Errorf("expected 0 warnings for valid collection, got %d:", len(warnings))
		for _, w := range warnings {
			t.Errorf("  - %s: %s", w.Path, w.Message)
		}
	}
}

func TestValidateContent_PartialLayouts(t *testing.T) {
	// Collections may carry only skills or only plugins. A missing
	// directory is not a warning as long as one of the two exists.
	tests := []struct {
		name string
		opts validatorTestOptions
	}{
		{
			name: "skills only",
			opts: validatorTestOptions{
				createSkillsDir: true,
				skills: map[string]string{
					"code-review": validSkillDoc("code-review", "Reviews code"),
				},
			},
		},
		{
			name: "plugins only",
			opts: validatorTestOptions{
				createPluginsDir: true,
				plugins: map[string]string{
					"git-hygiene": validPluginDoc("git-hygiene", "Keeps commits clean"),
				},
			},
		},
		{
			name: "empty skills directory",
			opts: validatorTestOptions{
				createSkillsDir: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collectionPath := createTestCollection(t, tt.opts)
			warnings := ValidateContent(collectionPath)

			if len(warnings) != 0 {
				t.Errorf("expected 0 warnings, got %d:", len(warnings))
				for _, w := range warnings {
					t.Errorf("  - %s: %s", w.Path, w.Message)
				}
			}
		})
	}
}

func TestValidateContent_NoContentDirs(t *testing.T) {
	collectionPath := createTestCollection(t, validatorTestOptions{})

	warnings := ValidateContent(collectionPath)

	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(warnings))
	}
	if warnings[0].Path != "." {
		t.Errorf("warning path = %q, want %q", warnings[0].Path, ".")
	}
	if !strings.Contains(warnings[0].Message, "neither") {
		t.Errorf("warning message = %q, want mention of missing layout", warnings[0].Message)
	}
}

func TestValidateContent_NonExistentCollection(t *testing.T) {
	warnings := ValidateContent("/path/that/does/not/exist")

	if len(warnings) != 1 {
		t.Errorf("expected 1 warning for non-existent collection, got %d", len(warnings))
	}
}

func TestValidateContent_MissingDocFiles(t *testing.T) {
	tests := []struct {
		name            string
		opts            validatorTestOptions
		wantMsgContains string
	}{
		{
			name: "skill directory without SKILL.md",
			opts: validatorTestOptions{
				createSkillsDir: true,
				skills: map[string]string{
					"empty-skill": "", // Empty string means create dir but no SKILL.md
				},
			},
			wantMsgContains: "missing SKILL.md",
		},
		{
			name: "plugin directory without PLUGIN.md",
			opts: validatorTestOptions{
				createPluginsDir: true,
				plugins: map[string]string{
					"empty-plugin": "",
				},
			},
			wantMsgContains: "missing PLUGIN.md",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collectionPath := createTestCollection(t, tt.opts)
			warnings := ValidateContent(collectionPath)

			if len(warnings) != 1 {
				t.Fatalf("expected 1 warning, got %d", len(warnings))
			}
			if !strings.Contains(warnings[0].Message, tt.wantMsgContains) {
				t.Errorf("warning message = %q, want containing %q", warnings[0].Message, tt.wantMsgContains)
			}
		})
	}
}

func TestValidateContent_InvalidFrontmatter(t *testing.T) {
	tests := []struct {
		name             string
		opts             validatorTestOptions
		wantPathContains string
	}{
		{
			name: "malformed skill frontmatter",
			opts: validatorTestOptions{
				createSkillsDir: true,
				skills: map[string]string{
					"broken": "---\nname: [invalid yaml\n---\n\nContent",
				},
			},
			wantPathContains: filepath.Join("skills", "broken", "SKILL.md"),
		},
		{
			name: "malformed plugin frontmatter",
			opts: validatorTestOptions{
				createPluginsDir: true,
				plugins: map[string]string{
					"broken": "---\nname: {unclosed\n---\n\nContent",
				},
			},
			wantPathContains: filepath.Join("plugins", "broken", "PLUGIN.md"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collectionPath := createTestCollection(t, tt.opts)
			warnings := ValidateContent(collectionPath)

			if len(warnings) != 1 {
				t.Fatalf("expected 1 warning, got %d", len(warnings))
			}
			if !strings.Contains(warnings[0].Path, tt.wantPathContains) {
				t.Errorf("warning path = %q, want containing %q", warnings[0].Path, tt.wantPathContains)
			}
			if !strings.Contains(warnings[0].Message, "invalid frontmatter") {
				t.Errorf("warning message = %q, want containing %q", warnings[0].Message, "invalid frontmatter")
			}
		})
	}
}

func TestValidateContent_MixedValidAndInvalid(t *testing.T) {
	collectionPath := createTestCollection(t, validatorTestOptions{
		createSkillsDir:  true,
		createPluginsDir: true,
		skills: map[string]string{
			"valid-skill":  validSkillDoc("valid-skill", "A valid skill"),
			"broken-skill": "---\nname: [broken\n---",
		},
		plugins: map[string]string{
			"valid-plugin":  validPluginDoc("valid-plugin", "A valid plugin"),
			"broken-plugin": "---\nname: {broken\n---",
		},
	})

	warnings := ValidateContent(collectionPath)

	if len(warnings) != 2 {
		t.Errorf("expected 2 warnings, got %d:", len(warnings))
		for _, w := range warnings {
			t.Errorf("  - %s: %s", w.Path, w.Message)
		}
	}

	foundBrokenSkill := false
	foundBrokenPlugin := false
	for _, w := range warnings {
		if strings.Contains(w.Path, "broken-skill") {
			foundBrokenSkill = true
		}
		if strings.Contains(w.Path, "broken-plugin") {
			foundBrokenPlugin = true
		}
	}

	if !foundBrokenSkill {
		t.Error("expected warning for broken-skill")
	}
	if !foundBrokenPlugin {
		t.Error("expected warning for broken-plugin")
	}
}

func TestValidateContent_LayoutAsFile(t *testing.T) {
	collectionPath := createTestCollection(t, validatorTestOptions{
		createPluginsDir: true,
		plugins: map[string]string{
			"valid-plugin": validPluginDoc("valid-plugin", "A valid plugin"),
		},
	})

	// A skills entry that is a file, not a directory
	if err := os.WriteFile(filepath.Join(collectionPath, "skills"), []byte("not a directory"), 0o644); err != nil {
		t.Fatal(err)
	}

	warnings := ValidateContent(collectionPath)

	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(warnings))
	}
	if warnings[0].Path != "skills" {
		t.Errorf("warning path = %q, want %q", warnings[0].Path, "skills")
	}
	if !strings.Contains(warnings[0].Message, "expected directory") {
		t.Errorf("warning message = %q, want containing %q", warnings[0].Message, "expected directory")
	}
}

func TestValidateContent_LooseFilesIgnored(t *testing.T) {
	collectionPath := createTestCollection(t, validatorTestOptions{
		createSkillsDir: true,
		skills: map[string]string{
			"valid-skill": validSkillDoc("valid-skill", "A valid skill"),
		},
	})

	// Loose files at the layout level are not entries and produce no warnings
	if err := os.WriteFile(filepath.Join(collectionPath, "skills", "README.md"), []byte("# Skills"), 0o644); err != nil {
		t.Fatal(err)
	}

	warnings := ValidateContent(collectionPath)

	if len(warnings) != 0 {
		t.Errorf("expected 0 warnings, got %d:", len(warnings))
		for _, w := range warnings {
			t.Errorf("  - %s: %s", w.Path, w.Message)
		}
	}
}

func TestValidationWarning_Fields(t *testing.T) {
	warning := ValidationWarning{
		Path:    "skills/test",
		Message: "test message",
	}

	if warning.Path != "skills/test" {
		t.Errorf("Path = %q, want %q", warning.Path, "skills/test")
	}
	if warning.Message != "test message" {
		t.Errorf("Message = %q, want %q", warning.Message, "test message")
	}
}

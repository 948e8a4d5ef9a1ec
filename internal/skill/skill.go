// Package skill defines the document model shared by skills and plugins.
// Both are Markdown files with YAML frontmatter; plugins additionally carry
// hook scripts next to the document.
package skill

import "strings"

// Document represents a parsed SKILL.md or PLUGIN.md file.
type Document struct {
	// Name is the entry's unique identifier (required).
	// Must be 1-64 chars, lowercase alphanumeric + hyphens, no --, no start/end -.
	Name string `yaml:"name" json:"name"`

	// Description tells the assistant when to reach for this entry (required).
	Description string `yaml:"description" json:"description"`

	// Triggers lists phrases that activate the entry. A plugin whose
	// triggers never appear in a conversation will not fire.
	Triggers []string `yaml:"triggers,omitempty" json:"triggers,omitempty"`

	// License is the SPDX license identifier (optional).
	License string `yaml:"license,omitempty" json:"license,omitempty"`

	// Version is an informational version string (optional).
	Version string `yaml:"version,omitempty" json:"version,omitempty"`

	// Metadata contains optional key-value pairs like author and repository.
	Metadata map[string]string `yaml:"metadata,omitempty" json:"metadata,omitempty"`

	// Instructions contains the markdown body content.
	// This field is not part of the YAML frontmatter.
	Instructions string `yaml:"-" json:"-"`
}

// HasTrigger reports whether any trigger phrase appears in the given text.
// Matching is case-insensitive substring matching, the same rule the runtime
// applies when deciding whether to surface an entry.
func (d *Document) HasTrigger(text string) bool {
	lower := strings.ToLower(text)
	for _, t := range d.Triggers {
		t = strings.TrimSpace(t)
		if t != "" && strings.Contains(lower, strings.ToLower(t)) {
			return true
		}
	}
	return false
}

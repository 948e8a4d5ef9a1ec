// Package registry defines types for discoverable registry entries (skills and
// plugins) found in the local registry tree and in cached source collections.
package registry

import (
	"path/filepath"

	"github.com/openhands/skillctl/internal/paths"
)

// Kind identifies the kind of entry.
type Kind string

// Entry kind constants.
const (
	KindSkill  Kind = "skill"
	KindPlugin Kind = "plugin"
)

// DirName returns the registry directory that holds entries of this kind.
func (k Kind) DirName() string {
	if k == KindPlugin {
		return paths.PluginsDirName
	}
	return paths.SkillsDirName
}

// DocFile returns the document file name for entries of this kind.
func (k Kind) DocFile() string {
	if k == KindPlugin {
		return paths.PluginFileName
	}
	return paths.SkillFileName
}

// Entry represents a skill or plugin discovered in a registry tree or a
// cached source collection.
type Entry struct {
	// Name is the unique identifier for this entry within its root.
	Name string `json:"name"`

	// Description provides a brief explanation of what this entry does.
	Description string `json:"description,omitempty"`

	// Kind identifies the kind of entry (skill or plugin).
	Kind Kind `json:"kind"`

	// Triggers are the activation keywords declared in the frontmatter.
	Triggers []string `json:"triggers,omitempty"`

	// Source is the short name of the source collection containing this
	// entry. Empty for entries in the local registry.
	Source string `json:"source,omitempty"`

	// SourceURL is the full URL of the source collection.
	SourceURL string `json:"source_url,omitempty"`

	// Path is the relative path to this entry within its root.
	Path string `json:"path"`

	// Root is the absolute path of the tree this entry was scanned from.
	Root string `json:"-"`
}

// Dir returns the absolute path of the entry's directory.
func (e *Entry) Dir() string {
	return filepath.Join(e.Root, e.Path)
}

// DocPath returns the absolute path of the entry's document file.
func (e *Entry) DocPath() string {
	return filepath.Join(e.Dir(), e.Kind.DocFile())
}

// IsLocal reports whether the entry lives in the local registry rather than
// a source collection.
func (e *Entry) IsLocal() bool {
	return e.Source == ""
}

// Package frontmatter provides generic parsing of YAML frontmatter from
// Markdown files such as SKILL.md and PLUGIN.md documents.
//
// Frontmatter is delimited by lines containing only "---" at the start and end.
// The content between delimiters is parsed as YAML and unmarshaled into the
// type parameter T. The remaining content after the closing delimiter is
// returned as the body.
//
// # Basic Usage
//
//	type SkillMeta struct {
//		Name        string   `yaml:"name"`
//		Description string   `yaml:"description"`
//		Triggers    []string `yaml:"triggers"`
//	}
//
//	meta, body, err := frontmatter.ParseFile[SkillMeta]("SKILL.md")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("Skill: %s\nInstructions:\n%s", meta.Name, body)
//
// # Header-Only Parsing
//
// [ParseHeader] reads just the frontmatter block and stops, so listing a
// large directory of documents never loads their bodies:
//
//	var meta SkillMeta
//	err := frontmatter.ParseHeader(f, &meta)
//
// # Error Handling
//
// The package defines sentinel errors for common failure conditions:
//
//   - [ErrNoFrontmatter]: content doesn't carry an opening and closing "---" delimiter
//   - [ErrInvalidYAML]: frontmatter exists but contains invalid YAML
//
// These can be checked using [errors.Is]:
//
//	meta, body, err := frontmatter.Parse[SkillMeta](r)
//	if errors.Is(err, frontmatter.ErrNoFrontmatter) {
//		// handle missing frontmatter
//	}
//
// # Supported Formats
//
// The parser supports YAML frontmatter with the standard "---" delimiters.
// Both Unix (LF) and Windows (CRLF) line endings are handled correctly.
package frontmatter

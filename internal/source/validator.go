package source

import (
	"os"
	"path/filepath"

	"github.com/openhands/skillctl/internal/paths"
	"github.com/openhands/skillctl/pkg/frontmatter"
)

// ValidationWarning represents a non-fatal issue found during collection
// validation. Warnings are informational and do not block operations.
type ValidationWarning struct {
	// Path is the relative path within the collection where the issue was found.
	Path string

	// Message describes the validation issue.
	Message string
}

// ValidateContent checks a collection for structural issues and invalid
// entries. It returns warnings for missing directories and unparseable
// documents. This function never returns an error - all issues are reported
// as warnings to avoid blocking operations.
func ValidateContent(collectionPath string) []ValidationWarning {
	var warnings []ValidationWarning

	layouts := []struct {
		dir  string
		file string
	}{
		{paths.SkillsDirName, paths.SkillFileName},
		{paths.PluginsDirName, paths.PluginFileName},
	}

	foundAny := false
	for _, layout := range layouts {
		dirPath := filepath.Join(collectionPath, layout.dir)
		info, err := os.Stat(dirPath)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			warnings = append(warnings, ValidationWarning{
				Path:    layout.dir,
				Message: "cannot access directory: " + err.Error(),
			})
			continue
		}
		if !info.IsDir() {
			warnings = append(warnings, ValidationWarning{
				Path:    layout.dir,
				Message: "expected directory, found file",
			})
			continue
		}

		foundAny = true
		warnings = append(warnings, validateEntries(collectionPath, layout.dir, layout.file)...)
	}

	if !foundAny {
		warnings = append(warnings, ValidationWarning{
			Path:    ".",
			Message: "collection has neither a skills/ nor a plugins/ directory",
		})
	}

	return warnings
}

// docMeta is a minimal struct for parsing frontmatter headers.
type docMeta struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// validateEntries checks every entry directory under dir for a parseable
// document file.
func validateEntries(collectionPath, dir, docFile string) []ValidationWarning {
	var warnings []ValidationWarning

	entries, err := os.ReadDir(filepath.Join(collectionPath, dir))
	if err != nil {
		// Directory access issues are already reported by ValidateContent
		return nil
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		docPath := filepath.Join(collectionPath, dir, entry.Name(), docFile)
		relPath := filepath.Join(dir, entry.Name(), docFile)

		if _, err := os.Stat(docPath); os.IsNotExist(err) {
			warnings = append(warnings, ValidationWarning{
				Path:    filepath.Join(dir, entry.Name()),
				Message: "entry directory missing " + docFile,
			})
			continue
		}

		if err := validateFrontmatter(docPath); err != nil {
			warnings = append(warnings, ValidationWarning{
				Path:    relPath,
				Message: "invalid frontmatter: " + err.Error(),
			})
		}
	}

	return warnings
}

// validateFrontmatter attempts to parse the frontmatter from a markdown file.
// It returns an error if the frontmatter is malformed.
func validateFrontmatter(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var meta docMeta
	return frontmatter.ParseHeader(file, &meta)
}

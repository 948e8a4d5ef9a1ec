// Package frontmatter provides utilities for parsing and formatting
// YAML frontmatter in Markdown files.
package frontmatter

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Sentinel errors for frontmatter parsing.
var (
	// ErrNoFrontmatter indicates the content does not start with an opening
	// "---" delimiter, or the closing delimiter is missing.
	ErrNoFrontmatter = errors.New("no frontmatter found")

	// ErrInvalidYAML indicates the frontmatter block is not valid YAML.
	ErrInvalidYAML = errors.New("invalid YAML")
)

// Parse extracts YAML frontmatter and body content from a reader.
// Frontmatter is required: content must begin with a line containing only
// "---" and carry a matching closing line. CRLF line endings are normalized
// to LF in both the frontmatter and the body.
func Parse[T any](r io.Reader) (*T, string, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, "", err
	}

	lines := strings.Split(string(content), "\n")
	if strings.TrimRight(lines[0], "\r") != "---" {
		return nil, "", ErrNoFrontmatter
	}

	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], "\r") != "---" {
			continue
		}

		header := joinNormalized(lines[1:i])
		body := joinNormalized(lines[i+1:])

		matter := new(T)
		if err := yaml.Unmarshal([]byte(header), matter); err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrInvalidYAML, err)
		}
		return matter, body, nil
	}

	// Opening delimiter without a closing one.
	return nil, "", ErrNoFrontmatter
}

// ParseFile is like Parse but reads from the named file.
func ParseFile[T any](path string) (*T, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	return Parse[T](f)
}

// joinNormalized joins lines with LF, stripping any CR left by CRLF input.
func joinNormalized(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	trimmed := make([]string, len(lines))
	for i, l := range lines {
		trimmed[i] = strings.TrimRight(l, "\r")
	}
	return strings.Join(trimmed, "\n")
}

// ParseHeader parses only the frontmatter from the reader.
// It stops reading after the closing delimiter "---"; the body is not
// consumed. This keeps directory listings cheap: a document's metadata can
// be read without loading its instructions.
// Returns nil if no frontmatter is found (silent success, matter remains empty).
func ParseHeader(r io.Reader, matter any) error {
	scanner := bufio.NewScanner(r)

	// Check first line
	if !scanner.Scan() {
		return scanner.Err()
	}
	line := strings.TrimSpace(scanner.Text())
	if line != "---" {
		// No frontmatter start delimiter
		return nil
	}

	var buf bytes.Buffer
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "---" {
			// Found closing delimiter
			if err := yaml.Unmarshal(buf.Bytes(), matter); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidYAML, err)
			}
			return nil
		}
		buf.WriteString(line)
		buf.WriteString("\n")
	}

	return scanner.Err()
}

// Format formats content with YAML frontmatter.
// The matter struct is serialized to YAML and wrapped in "---" delimiters,
// followed by the body content.
func Format(matter any, body string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(matter); err != nil {
		return nil, err
	}

	buf.WriteString("---\n")
	if body != "" {
		buf.WriteString("\n")
		buf.WriteString(body)
		if !strings.HasSuffix(body, "\n") {
			buf.WriteString("\n")
		}
	}

	return buf.Bytes(), nil
}

// Package parser provides SKILL.md and PLUGIN.md file parsing.
// It extracts YAML frontmatter and markdown body content from registry
// documents.
package parser

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/openhands/skillctl/internal/skill"
	"github.com/openhands/skillctl/pkg/frontmatter"
)

// Parser handles registry document parsing operations.
type Parser struct{}

// New creates a new Parser instance.
func New() *Parser {
	return &Parser{}
}

// ParseFile reads and parses a document from the given path.
// Returns the parsed Document or an error if parsing fails.
func (p *Parser) ParseFile(path string) (*skill.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	defer f.Close()

	return p.Parse(f, path)
}

// Parse reads and parses a document from the given reader.
// The path parameter is used for error context only.
func (p *Parser) Parse(r io.Reader, path string) (*skill.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	return p.ParseBytes(data, path)
}

// ParseBytes parses document content from bytes.
// The path parameter is used for error context only.
func (p *Parser) ParseBytes(data []byte, path string) (*skill.Document, error) {
	doc, body, err := frontmatter.Parse[skill.Document](bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	doc.Instructions = strings.TrimSpace(body)
	return doc, nil
}

// ParseHeader parses only the frontmatter metadata, stopping at the closing ---.
// This is more efficient for listing entries without reading full content.
func (p *Parser) ParseHeader(path string) (*skill.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	defer f.Close()

	var doc skill.Document
	if err := frontmatter.ParseHeader(f, &doc); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	return &doc, nil
}

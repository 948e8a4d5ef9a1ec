// Package validator provides a unified validation framework for registry
// documents.
//
// It defines shared types for representing validation issues (errors,
// warnings, info) and the document and tree checkers used by both the
// validate and doctor commands.
//
// # Core Concepts
//
//   - [Severity]: Distinguishes between blocking errors and non-blocking warnings.
//   - [Issue]: Represents a single validation problem with field context.
//   - [Result]: Aggregates multiple issues and provides helper methods.
//   - [DocumentReport]: The outcome of checking one SKILL.md or PLUGIN.md.
//   - [TreeReport]: The outcome of checking a whole registry root.
//
// # Basic Usage
//
//	tree, err := validator.CheckTree(root)
//	if err != nil {
//		// the tree could not be read at all
//	}
//	if !tree.Valid() {
//		// one or more documents failed validation
//	}
package validator

package doctor

// Fixer is implemented by checks that can remediate what they find.
// The runner consults it only when --fix is given.
type Fixer interface {
	// CanFix reports whether the last Run left anything fixable.
	CanFix() bool

	// Fix remediates the issues found by Run, one FixResult per attempt.
	Fix() []FixResult
}

// FixResult is the outcome of one fix attempt.
type FixResult struct {
	// Path is the file or directory the fix targeted.
	Path string

	// Fixed reports whether the fix was applied.
	Fixed bool

	// Description says what changed, or why nothing could.
	Description string

	// Error holds the failure when Fixed is false because of one.
	Error error
}

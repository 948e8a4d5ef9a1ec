package validator

import "fmt"

// ValidationError reports one failed rule on one frontmatter field.
// Context carries extra detail for rules that need it, such as the
// directory name in a name/directory mismatch.
type ValidationError struct {
	Field   string
	Message string
	Value   string
	Context map[string]string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s %q: %s", e.Field, e.Value, e.Message)
}

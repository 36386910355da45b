package domain

import (
	"strings"

	"golang.org/x/text/cases"
)

// Key folds s into the form used for equality joins across tables:
// surrounding and repeated inner whitespace removed, Unicode case-folded.
func Key(s string) string {
	return cases.Fold().String(strings.Join(strings.Fields(s), " "))
}

// Clean trims s for display without changing its case.
func Clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

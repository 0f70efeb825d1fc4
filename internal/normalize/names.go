package normalize

import "regexp"

var multiSpace = regexp.MustCompile(`\s+`)

// NormalizeLabel trims and collapses whitespace in a categorical value.
// Returns nil if the input is a null token.
func NormalizeLabel(s string) *string {
	v := OptString(s)
	if v == nil {
		return nil
	}
	out := multiSpace.ReplaceAllString(*v, " ")
	return &out
}

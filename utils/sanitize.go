package utils

import "github.com/microcosm-cc/bluemonday"

// Responses are rendered as plain reflective text; strip all markup rather
// than allowing a UGC subset.
var sanitizer = bluemonday.StrictPolicy()

// Sanitize cleans user submitted content to prevent XSS attacks.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}

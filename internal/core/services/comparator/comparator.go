// Package comparator decides whether a program's output matches the expected output.
package comparator

import "strings"

// Match trims leading and trailing whitespace from both sides and compares
// the rest byte for byte. Interior whitespace and line endings are significant.
func Match(actual, expected string) bool {
	return strings.TrimSpace(actual) == strings.TrimSpace(expected)
}

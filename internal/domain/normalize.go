package domain

import "strings"

// NormalizeHumanName trims leading/trailing whitespace and collapses internal whitespace runs.
// It is used for account first and last names.
func NormalizeHumanName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeEmail trims and lower-cases an identifier used to log in.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

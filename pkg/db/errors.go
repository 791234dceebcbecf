package db

import "strings"

// IsUniqueViolation reports whether the error is a unique-constraint failure
// from either supported driver. When column is provided the helper also
// requires the column name to appear in the message, so callers can tell
// apart a username collision from an email collision.
func IsUniqueViolation(err error, column string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	unique := strings.Contains(msg, "UNIQUE constraint failed") || // sqlite
		strings.Contains(msg, "duplicate key value") // postgres
	if !unique {
		return false
	}
	if column == "" {
		return true
	}
	return strings.Contains(msg, column)
}

package db

import (
	"errors"
	"testing"
)

func TestIsUniqueViolation(t *testing.T) {
	sqliteErr := errors.New("UNIQUE constraint failed: users.username")
	pgErr := errors.New(`ERROR: duplicate key value violates unique constraint "users_email_key"`)

	if !IsUniqueViolation(sqliteErr, "") {
		t.Errorf("sqlite unique violation not detected")
	}
	if !IsUniqueViolation(sqliteErr, "username") {
		t.Errorf("sqlite column match not detected")
	}
	if IsUniqueViolation(sqliteErr, "email") {
		t.Errorf("sqlite column mismatch should not match")
	}
	if !IsUniqueViolation(pgErr, "email") {
		t.Errorf("postgres unique violation not detected")
	}
	if IsUniqueViolation(errors.New("syntax error"), "") {
		t.Errorf("unrelated error must not match")
	}
	if IsUniqueViolation(nil, "") {
		t.Errorf("nil error must not match")
	}
}

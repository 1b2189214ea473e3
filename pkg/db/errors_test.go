package db

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestIsUniqueViolationPostgres(t *testing.T) {
	err := &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "users_email_key",
	}

	if !IsUniqueViolation(err, "users_email_key") {
		t.Fatalf("expected pg unique violation to match")
	}
	if IsUniqueViolation(err, "other_constraint") {
		t.Fatalf("expected mismatched constraint to fail")
	}
	if !IsUniqueViolation(err, "") {
		t.Fatalf("expected empty constraint to match any unique violation")
	}
}

func TestIsUniqueViolationWrapped(t *testing.T) {
	inner := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	err := fmt.Errorf("create user: %w", inner)

	if !IsUniqueViolation(err, "users_email_key") {
		t.Fatalf("expected wrapped pg error to match")
	}
}

func TestIsUniqueViolationOtherPGCode(t *testing.T) {
	err := &pgconn.PgError{Code: "23503", ConstraintName: "users_email_key"}
	if IsUniqueViolation(err, "users_email_key") {
		t.Fatalf("foreign key violation must not count as unique violation")
	}
}

func TestIsUniqueViolationSQLiteMessage(t *testing.T) {
	err := fmt.Errorf("UNIQUE constraint failed: users.email")
	if !IsUniqueViolation(err, "") {
		t.Fatalf("expected sqlite unique message to match")
	}
}

func TestIsUniqueViolationGormDuplicatedKey(t *testing.T) {
	if !IsUniqueViolation(gorm.ErrDuplicatedKey, "") {
		t.Fatalf("expected gorm duplicated key to match")
	}
}

func TestIsUniqueViolationNil(t *testing.T) {
	if IsUniqueViolation(nil, "users_email_key") {
		t.Fatalf("nil error must not match")
	}
	if IsUniqueViolation(fmt.Errorf("connection refused"), "") {
		t.Fatalf("unrelated error must not match")
	}
}

package utils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
)

func TestTranslateStorageError(t *testing.T) {
	if got := TranslateStorageError(nil); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}

	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'SO-00000001-AAAA' for key 'order_number'"}
	if got := TranslateStorageError(dup); !errors.Is(got, ErrorDuplicateCode) {
		t.Errorf("expected ErrorDuplicateCode for 1062, got %v", got)
	}

	wrapped := fmt.Errorf("create order: %w", dup)
	if got := TranslateStorageError(wrapped); !errors.Is(got, ErrorDuplicateCode) {
		t.Errorf("expected ErrorDuplicateCode for wrapped 1062, got %v", got)
	}

	other := &mysql.MySQLError{Number: 1213, Message: "Deadlock found"}
	if got := TranslateStorageError(other); !errors.Is(got, other) {
		t.Errorf("expected passthrough for non-1062, got %v", got)
	}

	plain := errors.New("connection refused")
	if got := TranslateStorageError(plain); got != plain {
		t.Errorf("expected passthrough for plain error, got %v", got)
	}
}

func TestIsValidationError(t *testing.T) {
	err := NewValidationError("quantity must be positive")
	if !IsValidationError(err) {
		t.Error("expected validation error")
	}
	if err.Error() != "quantity must be positive" {
		t.Errorf("unexpected message %q", err.Error())
	}
	wrapped := fmt.Errorf("item 2: %w", err)
	if !IsValidationError(wrapped) {
		t.Error("expected wrapped validation error to match")
	}
	if IsValidationError(errors.New("boom")) {
		t.Error("plain error must not match")
	}
	if IsValidationError(ErrorRecordNotFound) {
		t.Error("not-found must not match")
	}
}

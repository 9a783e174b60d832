package utils

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

var ErrorRecordNotFound = errors.New("record not found")

// ErrorDuplicateCode signals a business-code collision on create/update.
// Raised by the façade precheck when enabled, and by TranslateStorageError
// when the unique index rejects the write (the index is the source of truth).
var ErrorDuplicateCode = errors.New("duplicate business code")

var ErrorInvalidCredentials = errors.New("invalid email or password")

// ValidationError marks caller-input failures so route handlers can map
// them to 422 instead of 500.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

const mysqlDuplicateEntry = 1062

// TranslateStorageError maps driver-level failures onto the façade taxonomy.
// A duplicate-key rejection becomes ErrorDuplicateCode; anything else is
// returned as-is and surfaces to the caller (never downgraded to nil/false).
func TranslateStorageError(err error) error {
	if err == nil {
		return nil
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
		return ErrorDuplicateCode
	}
	return err
}

func ErrorPanic(err error) {
	if err != nil {
		panic(err)
	}
}

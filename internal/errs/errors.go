// Package errs defines the error kinds shared by the catalog, directory,
// pricing and history packages.
//
// Callers classify failures with the Is* helpers, which use errors.As so
// that wrapped errors are still recognised.
package errs

import (
	"errors"
	"fmt"
)

// Code categorizes an Error.
type Code string

const (
	// CodeValidation indicates bad input, usually a number that could not be
	// coerced or is out of range.
	CodeValidation Code = "VALIDATION"

	// CodeNotFound indicates an unknown id in an update or delete.
	CodeNotFound Code = "NOT_FOUND"

	// CodePriceNotFound indicates no catalog entry matches a fabric/method pair.
	CodePriceNotFound Code = "PRICE_NOT_FOUND"

	// CodeStorageDecode indicates a persisted document could not be parsed.
	CodeStorageDecode Code = "STORAGE_DECODE"
)

// Error is a classified failure with an optional underlying cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation returns a CodeValidation error.
func Validation(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound returns a CodeNotFound error naming the kind of record and its id.
func NotFound(kind, id string) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s %q not found", kind, id)}
}

// PriceNotFound returns a CodePriceNotFound error for a fabric/method pair.
func PriceNotFound(fabric, method string) *Error {
	return &Error{
		Code:    CodePriceNotFound,
		Message: fmt.Sprintf("no sewing price for fabric %q with method %q", fabric, method),
	}
}

// StorageDecode wraps a parse failure of the document at path.
func StorageDecode(path string, err error) *Error {
	return &Error{Code: CodeStorageDecode, Message: fmt.Sprintf("decode %s", path), Err: err}
}

// CodeOf returns the Code of err, or "" if err is not an *Error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return CodeOf(err) == CodeValidation }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return CodeOf(err) == CodeNotFound }

// IsPriceNotFound reports whether err is a missing catalog price.
func IsPriceNotFound(err error) bool { return CodeOf(err) == CodePriceNotFound }

// IsStorageDecode reports whether err is a document decode failure.
func IsStorageDecode(err error) bool { return CodeOf(err) == CodeStorageDecode }

package sheet

import (
	"errors"
	"fmt"
)

// Row-level error codes
const (
	ErrCodeRowParsing        = "ERR_ROW_PARSING"
	ErrCodeRowValidation     = "ERR_ROW_VALIDATION"
	ErrCodeRowRequiredField  = "ERR_ROW_REQUIRED_FIELD"
	ErrCodeRowInvalidNumber  = "ERR_ROW_INVALID_NUMBER"
	ErrCodeRowOutOfRange     = "ERR_ROW_OUT_OF_RANGE"
	ErrCodeRowReferenceMiss  = "ERR_ROW_REFERENCE_NOT_FOUND"
	ErrCodeRowDuplicate      = "ERR_ROW_DUPLICATE"
	ErrCodeRowPersistFailure = "ERR_ROW_PERSIST_FAILURE"
)

// File-level errors
var (
	ErrEmptyFile       = errors.New("spreadsheet file is empty")
	ErrInvalidEncoding = errors.New("invalid file encoding")
	ErrMissingHeader   = errors.New("spreadsheet file missing header row")
	ErrNoDataRows      = errors.New("spreadsheet file contains no data rows")
)

// RowError represents an error in a specific row
type RowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// Error implements the error interface
func (e RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("row %d, column '%s': %s", e.Row, e.Column, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// NewRowError creates a new RowError
func NewRowError(row int, column, code, message string) RowError {
	return RowError{
		Row:     row,
		Column:  column,
		Code:    code,
		Message: message,
	}
}

// ErrorCollection accumulates row errors up to a cap, counting the rest
type ErrorCollection struct {
	errors     []RowError
	maxErrors  int
	totalCount int
}

// NewErrorCollection creates a new ErrorCollection with a maximum error limit
func NewErrorCollection(maxErrors int) *ErrorCollection {
	if maxErrors <= 0 {
		maxErrors = 100
	}
	return &ErrorCollection{
		errors:    make([]RowError, 0, maxErrors),
		maxErrors: maxErrors,
	}
}

// Add adds an error to the collection
func (ec *ErrorCollection) Add(err RowError) {
	ec.totalCount++
	if len(ec.errors) < ec.maxErrors {
		ec.errors = append(ec.errors, err)
	}
}

// Errors returns the collected errors
func (ec *ErrorCollection) Errors() []RowError {
	return ec.errors
}

// TotalCount returns the total number of errors including uncollected ones
func (ec *ErrorCollection) TotalCount() int {
	return ec.totalCount
}

// HasErrors returns true if there are any errors
func (ec *ErrorCollection) HasErrors() bool {
	return ec.totalCount > 0
}

// IsTruncated returns true if some errors were dropped due to the limit
func (ec *ErrorCollection) IsTruncated() bool {
	return ec.totalCount > ec.maxErrors
}

package core

// validation.go decides whether a tokenized data row has the right shape.
//
// Validation checks shape only:
//  1. The row must have exactly four non-empty tokens (id, time, kind, value)
//  2. The kind token must be an integer naming a defined RecordKind
//
// The id, time and value tokens are only checked by ParseRecord. A row that
// passes here can still fail there with ErrMalformedField.

import (
	"fmt"
	"strconv"
	"strings"
)

// fieldDelimiter separates columns in the meter export.
const fieldDelimiter = "\t"

// ValidationError describes why a row or field was rejected.
type ValidationError struct {
	Field   string // Field name, empty for row-level problems
	Value   string // The offending token
	Message string // Human-readable description
	Err     error  // ErrMalformedRow or ErrMalformedField, optionally joined with a parse error
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e ValidationError) Unwrap() error {
	return e.Err
}

// Tokenize splits a raw line on tabs and drops empty tokens.
func Tokenize(line string) []string {
	parts := strings.Split(line, fieldDelimiter)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ValidateRow reports whether fields form a structurally valid data row.
// It returns nil for a valid row and a ValidationError wrapping ErrMalformedRow otherwise.
func ValidateRow(fields []string) error {
	if len(fields) != rowFieldCount {
		return ValidationError{
			Message: fmt.Sprintf("row has %d fields, expected %d", len(fields), rowFieldCount),
			Err:     ErrMalformedRow,
		}
	}

	raw := fields[kindIndex]
	code, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return ValidationError{
			Field:   "kind",
			Value:   raw,
			Message: "kind is not an integer",
			Err:     ErrMalformedRow,
		}
	}
	if !RecordKind(code).Defined() {
		return ValidationError{
			Field:   "kind",
			Value:   raw,
			Message: fmt.Sprintf("undefined kind code %d", code),
			Err:     ErrMalformedRow,
		}
	}

	return nil
}

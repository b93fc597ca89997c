package core

import "errors"

// Sentinel errors for the pipeline failure taxonomy. Callers match them with errors.Is.
var (
	// ErrSourceUnavailable means the input could not be opened or read. Fatal to a load.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrMalformedRow means a data row has the wrong field count or an undefined kind code.
	ErrMalformedRow = errors.New("malformed row")

	// ErrMalformedField means a field of a well-shaped row failed to parse.
	ErrMalformedField = errors.New("malformed field")

	// ErrEmptyResult means no record survived the cutoff filter.
	ErrEmptyResult = errors.New("empty result")

	// ErrSinkFailure means the output lines could not be persisted.
	ErrSinkFailure = errors.New("sink failure")

	// ErrDatasetLoaded is returned when Load is called on an already loaded dataset.
	ErrDatasetLoaded = errors.New("dataset already loaded")

	// ErrInvalidCutoff means a cutoff timestamp did not match the fixed pattern.
	ErrInvalidCutoff = errors.New("invalid cutoff")
)

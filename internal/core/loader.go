package core

// loader.go drives a full load of a meter export.
//
// The input is consumed as a state machine:
//
//	expectHeader1 -> expectHeader2 -> expectData (loops until the source is exhausted)
//
// Header lines are captured verbatim. Data lines are tokenized, validated and
// parsed; rows that fail are skipped and the load carries on. Only a source that
// cannot be opened or read fails the load as a whole.

import (
	"errors"
	"fmt"
	"io"
)

type loadState int

const (
	expectHeader1 loadState = iota
	expectHeader2
	expectData
)

// ReadCloser is a LineSource that holds a resource needing release.
type ReadCloser interface {
	LineSource
	io.Closer
}

// Opener opens the export at path for reading.
type Opener func(path string) (ReadCloser, error)

// LoadResult is the externally observable outcome of a load.
// Dataset is nil unless Success is true.
type LoadResult struct {
	Success bool
	Dataset *Dataset
	Stats   LoadStats
	Err     error
}

// Loader reads an export into a Dataset.
type Loader struct {
	logger Logger
	open   Opener
}

// NewLoader creates a Loader that logs through logger and opens files with open.
func NewLoader(logger Logger, open Opener) *Loader {
	return &Loader{logger: logger, open: open}
}

// LoadFile opens path and loads it. The source is closed on every exit path.
// Failures are reported through the result and the logger, never as a panic or
// returned error.
func (l *Loader) LoadFile(path string) LoadResult {
	if l.open == nil {
		return l.fail(path, fmt.Errorf("%w: no opener configured", ErrSourceUnavailable))
	}

	src, err := l.open(path)
	if err != nil {
		return l.fail(path, fmt.Errorf("%w: %w", ErrSourceUnavailable, err))
	}
	defer src.Close()

	res := l.load(src, path)
	if res.Success {
		l.logger.Info("file was successfully parsed", "path", path)
	}
	return res
}

// LoadFrom consumes src to exhaustion and builds a Dataset from it.
func (l *Loader) LoadFrom(src LineSource) LoadResult {
	return l.load(src, "")
}

// load runs the state machine over src. path only labels failure logs.
func (l *Loader) load(src LineSource, path string) LoadResult {
	var (
		state   = expectHeader1
		header1 string
		header2 string
		records []Record
		stats   LoadStats
	)

	for src.Scan() {
		line := src.Text()
		stats.Lines++

		switch state {
		case expectHeader1:
			header1 = line
			state = expectHeader2
		case expectHeader2:
			header2 = line
			state = expectData
		case expectData:
			fields := Tokenize(line)
			if err := ValidateRow(fields); err != nil {
				stats.MalformedRows++
				continue
			}
			rec, err := ParseRecord(fields)
			if err != nil {
				stats.MalformedFields++
				l.logger.Error("record parsing failed", "line", stats.Lines, "error", err)
				continue
			}
			records = append(records, rec)
		}
	}

	if err := src.Err(); err != nil {
		return l.fail(path, fmt.Errorf("%w: %w", ErrSourceUnavailable, err))
	}

	ds := NewDataset()
	if err := ds.Load(header1, header2, records); err != nil {
		return l.fail(path, err)
	}

	stats.Records = ds.PristineCount()
	l.logger.Info("lines found", "lines", stats.Lines)
	l.logger.Info("valid records found", "records", stats.Records)

	if earliest, latest, ok := ds.Bounds(); ok {
		stats.Earliest = earliest
		stats.Latest = latest
		l.logger.Info("record range",
			"records", stats.Records,
			"since", FormatTime(earliest),
			"till", FormatTime(latest),
		)
	}

	return LoadResult{Success: true, Dataset: ds, Stats: stats}
}

// fail logs err exactly once and returns the failed result.
func (l *Loader) fail(path string, err error) LoadResult {
	args := []any{"error", err}
	if path != "" {
		args = append(args, "path", path)
	}
	if errors.Is(err, ErrSourceUnavailable) {
		l.logger.Error("source unavailable", args...)
	} else {
		l.logger.Error("load failed", args...)
	}
	return LoadResult{Err: err}
}

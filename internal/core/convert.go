package core

// convert.go turns validated tokens into typed records.
//
// The export uses one fixed timestamp pattern and plain base-10 integers,
// so unlike a general importer there is no format guessing here: a token
// either matches exactly or the row is skipped. Numeric tokens may carry
// surrounding spaces.

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// ParseRecord converts a row that passed ValidateRow into a Record.
// Any field that fails to parse yields a ValidationError wrapping ErrMalformedField
// and the underlying parse error.
func ParseRecord(fields []string) (Record, error) {
	if err := ValidateRow(fields); err != nil {
		return Record{}, err
	}

	id, err := strconv.ParseInt(strings.TrimSpace(fields[idIndex]), 10, 32)
	if err != nil {
		return Record{}, malformedField("id", fields[idIndex], err)
	}

	ts, err := ParseTime(fields[timeIndex])
	if err != nil {
		return Record{}, malformedField("time", fields[timeIndex], err)
	}

	code, err := strconv.Atoi(strings.TrimSpace(fields[kindIndex]))
	if err != nil {
		return Record{}, malformedField("kind", fields[kindIndex], err)
	}

	value, err := strconv.ParseInt(strings.TrimSpace(fields[valueIndex]), 10, 32)
	if err != nil {
		return Record{}, malformedField("value", fields[valueIndex], err)
	}

	rec := Record{
		ID:         int(id),
		RecordTime: ts,
		Kind:       RecordKind(code),
	}
	slot := ToPgInt4(int32(value))
	switch rec.Kind {
	case AutoScan:
		rec.HistoricValue = slot
	case ManualScan:
		rec.ManualValue = slot
	case StripScan:
		rec.StripValue = slot
	}

	return rec, nil
}

// ParseTime parses a timestamp in the export's fixed pattern.
// Every component is zero padded, so a one-digit hour is rejected.
// The result carries no zone information and is expressed in UTC.
func ParseTime(s string) (time.Time, error) {
	if len(s) != len(TimeLayout) {
		return time.Time{}, fmt.Errorf("parsing time %q: want %d characters in layout %q", s, len(TimeLayout), TimeLayout)
	}
	return time.Parse(TimeLayout, s)
}

// FormatTime renders t with the export's fixed pattern.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// ParseCutoff parses a user-supplied cutoff in the export's fixed pattern.
func ParseCutoff(s string) (time.Time, error) {
	t, err := ParseTime(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q does not match %s: %w", ErrInvalidCutoff, s, "yyyy/MM/dd HH:mm", err)
	}
	return t, nil
}

// CutoffFromClock builds a cutoff from a wall-clock reading minus lookback.
// The local date and time are kept; seconds and below are set to zero and the
// result is placed in UTC so it compares directly with parsed record times.
func CutoffFromClock(now time.Time, lookback time.Duration) time.Time {
	t := now.Add(-lookback)
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
}

// ToPgInt4 wraps a measurement as a populated pgtype.Int4.
func ToPgInt4(v int32) pgtype.Int4 {
	return pgtype.Int4{Int32: v, Valid: true}
}

func malformedField(field, value string, cause error) error {
	return ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf("cannot parse %q: %v", value, cause),
		Err:     errors.Join(ErrMalformedField, cause),
	}
}

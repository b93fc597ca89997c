package core

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// TimeLayout is the fixed timestamp pattern of the meter export (yyyy/MM/dd HH:mm).
// It is used both for parsing input rows and for rendering output rows.
const TimeLayout = "2006/01/02 15:04"

// Column positions of a data row.
const (
	idIndex    = 0
	timeIndex  = 1
	kindIndex  = 2
	valueIndex = 3

	// rowFieldCount is the exact number of non-empty tab-separated tokens in a data row.
	rowFieldCount = 4
)

// RecordKind identifies which measurement method produced a reading.
type RecordKind int

const (
	AutoScan   RecordKind = 0
	ManualScan RecordKind = 1
	StripScan  RecordKind = 2
)

var kindNames = map[RecordKind]string{
	AutoScan:   "auto scan",
	ManualScan: "manual scan",
	StripScan:  "strip scan",
}

// Kinds lists every defined record kind in code order.
func Kinds() []RecordKind {
	return []RecordKind{AutoScan, ManualScan, StripScan}
}

// Defined reports whether k is a member of the closed kind enumeration.
func (k RecordKind) Defined() bool {
	_, ok := kindNames[k]
	return ok
}

func (k RecordKind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// Record is one measurement event from the export.
//
// Exactly one measurement slot is Valid, selected by Kind:
// HistoricValue for AutoScan, ManualValue for ManualScan, StripValue for StripScan.
// The other two keep their zero value.
type Record struct {
	ID            int
	RecordTime    time.Time
	Kind          RecordKind
	HistoricValue pgtype.Int4
	ManualValue   pgtype.Int4
	StripValue    pgtype.Int4
}

// Value returns the populated measurement. Unpopulated slots hold zero, so the
// sum of all three slots is the value of the one that is set.
func (r Record) Value() int {
	return int(r.HistoricValue.Int32) + int(r.ManualValue.Int32) + int(r.StripValue.Int32)
}

// LineSource produces raw text lines until exhausted. *bufio.Scanner satisfies it.
type LineSource interface {
	Scan() bool
	Text() string
	Err() error
}

// LineSink persists an ordered sequence of lines, replacing any prior content.
type LineSink interface {
	WriteLines(lines []string) error
}

// Logger is the observability sink used by the loader and service.
// *slog.Logger satisfies it. Calls never affect control flow.
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

// LoadStats summarizes a load run.
type LoadStats struct {
	Lines           int       `json:"lines"`
	Records         int       `json:"records"`
	MalformedRows   int       `json:"malformed_rows"`
	MalformedFields int       `json:"malformed_fields"`
	Earliest        time.Time `json:"earliest,omitzero"`
	Latest          time.Time `json:"latest,omitzero"`
}

// HasRange reports whether Earliest and Latest are meaningful.
func (s LoadStats) HasRange() bool {
	return s.Records > 0
}

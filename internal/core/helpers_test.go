package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

// logEntry is one captured log call.
type logEntry struct {
	level string
	msg   string
	args  []any
}

// recordingLogger captures log calls for assertions.
type recordingLogger struct {
	entries []logEntry
}

func (l *recordingLogger) Info(msg string, args ...any) {
	l.entries = append(l.entries, logEntry{"info", msg, args})
}

func (l *recordingLogger) Error(msg string, args ...any) {
	l.entries = append(l.entries, logEntry{"error", msg, args})
}

func (l *recordingLogger) count(level string) int {
	n := 0
	for _, e := range l.entries {
		if e.level == level {
			n++
		}
	}
	return n
}

func (l *recordingLogger) has(level, msg string) bool {
	for _, e := range l.entries {
		if e.level == level && e.msg == msg {
			return true
		}
	}
	return false
}

// sliceSource is an in-memory LineSource.
type sliceSource struct {
	lines  []string
	pos    int
	err    error
	closed bool
}

func newSliceSource(lines ...string) *sliceSource {
	return &sliceSource{lines: lines, pos: -1}
}

func (s *sliceSource) Scan() bool {
	if s.pos+1 >= len(s.lines) {
		return false
	}
	s.pos++
	return true
}

func (s *sliceSource) Text() string { return s.lines[s.pos] }
func (s *sliceSource) Err() error   { return s.err }
func (s *sliceSource) Close() error {
	s.closed = true
	return nil
}

// memorySink is an in-memory LineSink.
type memorySink struct {
	writes [][]string
	err    error
}

func (s *memorySink) WriteLines(lines []string) error {
	if s.err != nil {
		return s.err
	}
	s.writes = append(s.writes, append([]string(nil), lines...))
	return nil
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := ParseTime(s)
	if err != nil {
		t.Fatalf("ParseTime(%q) error = %v", s, err)
	}
	return ts
}

func row(id int, ts string, kind, value int) string {
	return fmt.Sprintf("%d\t%s\t%d\t%d", id, ts, kind, value)
}

// sampleExport is a small export with three valid rows out of order.
func sampleExport() []string {
	return []string{
		"Patient\tJane Doe",
		"ID\tTime\tRecord Type\tHistoric Glucose",
		row(3, "2023/01/03 10:00", 2, 120),
		row(1, "2023/01/01 08:00", 0, 100),
		row(2, "2023/01/02 09:30", 1, 110),
	}
}

func loadSample(t *testing.T) *Dataset {
	t.Helper()
	res := NewLoader(&recordingLogger{}, nil).LoadFrom(newSliceSource(sampleExport()...))
	if !res.Success {
		t.Fatalf("LoadFrom() failed: %v", res.Err)
	}
	return res.Dataset
}

func trailing() string {
	return strings.Repeat("\t", 14)
}

var errBoom = errors.New("boom")

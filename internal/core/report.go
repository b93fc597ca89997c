package core

import (
	"strconv"
	"strings"
)

// ReportKind is written as the kind column of every output row, whatever the
// source kind was. The downstream tool only imports manual scans.
const ReportKind = ManualScan

// trailingFieldCount is the number of empty columns appended after the value
// so each row matches the column width the downstream tool expects.
const trailingFieldCount = 14

var trailingFields = strings.Repeat(fieldDelimiter, trailingFieldCount)

// FormatReport renders the dataset's live records as output lines.
// The two header lines are reproduced verbatim ahead of the data rows.
func FormatReport(d *Dataset) []string {
	h1, h2 := d.Headers()
	lines := make([]string, 0, d.Count()+2)
	lines = append(lines, h1, h2)
	for _, r := range d.live {
		lines = append(lines, FormatRecord(r))
	}
	return lines
}

// FormatRecord renders one output row:
//
//	id <TAB> time <TAB> 1 <TAB> <TAB> value, followed by 14 empty fields
//
// The source kind is not preserved.
func FormatRecord(r Record) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(r.ID))
	b.WriteString(fieldDelimiter)
	b.WriteString(FormatTime(r.RecordTime))
	b.WriteString(fieldDelimiter)
	b.WriteString(strconv.Itoa(int(ReportKind)))
	b.WriteString(fieldDelimiter)
	b.WriteString(fieldDelimiter)
	b.WriteString(strconv.Itoa(r.Value()))
	b.WriteString(trailingFields)
	return b.String()
}

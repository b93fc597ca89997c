// Package core provides the business logic for glucose export processing.
//
// This package is the heart of the converter, containing all domain logic
// independent of any UI, CLI or file system. It can be driven by the web
// front end, the CLI or tests without modification.
//
// # Pipeline
//
// A meter export is a tab-delimited text file: a free-text identifier line, a
// column header line, then one row per measurement (id, time, kind, value).
//
//  1. [Loader] consumes a [LineSource], capturing the two header lines
//  2. Each data row is split with [Tokenize], checked with [ValidateRow] and
//     converted with [ParseRecord]; bad rows are skipped
//  3. The records land in a [Dataset] as a pristine snapshot plus a live copy
//  4. [Service.GenerateReport] resets the live copy, filters it by a cutoff,
//     renders it with [FormatReport] and hands the lines to a [LineSink]
//
// Because every report starts from the pristine snapshot, reports can be
// regenerated with different cutoffs without reading the file again.
//
// # Record kinds
//
// A record is an [AutoScan], [ManualScan] or [StripScan] reading. Its value is
// stored in the slot that matches its kind. Output rows are always tagged as
// [ManualScan], which is what the downstream tool imports.
//
// # Error Handling
//
// Row-level problems ([ErrMalformedRow], [ErrMalformedField]) are recovered by
// skipping the row. Only [ErrSourceUnavailable] fails a load, and only
// [ErrEmptyResult] and [ErrSinkFailure] fail a report. [MapError] maps each to
// a coded [UserMessage].
package core

package core

import (
	"slices"
	"time"
)

// Dataset holds the records of one loaded export.
//
// The pristine snapshot is written once by Load and never changes afterwards.
// The live list is a disposable working copy: Reset restores it from the
// snapshot and FilterAndSort narrows and orders it in place.
//
// A Dataset is not safe for concurrent use.
type Dataset struct {
	header1  string
	header2  string
	pristine []Record
	live     []Record
	loaded   bool
}

// NewDataset returns an empty, unloaded dataset.
func NewDataset() *Dataset {
	return &Dataset{}
}

// Load initializes the dataset with the two header lines and the parsed records.
// It may be called only once.
func (d *Dataset) Load(header1, header2 string, records []Record) error {
	if d.loaded {
		return ErrDatasetLoaded
	}
	d.header1 = header1
	d.header2 = header2
	d.pristine = slices.Clone(records)
	d.live = slices.Clone(records)
	d.loaded = true
	return nil
}

// Reset discards any prior filtering by replacing the live list with a fresh
// copy of the pristine snapshot.
func (d *Dataset) Reset() {
	d.live = slices.Clone(d.pristine)
}

// FilterAndSort keeps only live records at or after cutoff and orders them by
// time. Records with equal timestamps keep their relative order.
//
// Filters compose: without a Reset in between, a second call narrows the
// result of the first.
func (d *Dataset) FilterAndSort(cutoff time.Time) {
	d.live = slices.DeleteFunc(d.live, func(r Record) bool {
		return r.RecordTime.Before(cutoff)
	})
	slices.SortStableFunc(d.live, func(a, b Record) int {
		return a.RecordTime.Compare(b.RecordTime)
	})
}

// Count returns the number of live records.
func (d *Dataset) Count() int {
	return len(d.live)
}

// PristineCount returns the number of records captured at load time.
func (d *Dataset) PristineCount() int {
	return len(d.pristine)
}

// Records returns a copy of the live records in their current order.
func (d *Dataset) Records() []Record {
	return slices.Clone(d.live)
}

// Headers returns the two header lines captured at load time.
func (d *Dataset) Headers() (string, string) {
	return d.header1, d.header2
}

// Loaded reports whether Load has been called.
func (d *Dataset) Loaded() bool {
	return d.loaded
}

// Bounds returns the earliest and latest timestamps of the pristine snapshot.
// ok is false when the snapshot is empty.
func (d *Dataset) Bounds() (earliest, latest time.Time, ok bool) {
	if len(d.pristine) == 0 {
		return time.Time{}, time.Time{}, false
	}
	earliest = d.pristine[0].RecordTime
	latest = earliest
	for _, r := range d.pristine[1:] {
		if r.RecordTime.Before(earliest) {
			earliest = r.RecordTime
		}
		if r.RecordTime.After(latest) {
			latest = r.RecordTime
		}
	}
	return earliest, latest, true
}

// KindCounts returns the number of pristine records per kind.
func (d *Dataset) KindCounts() map[RecordKind]int {
	counts := make(map[RecordKind]int, len(kindNames))
	for _, k := range Kinds() {
		counts[k] = 0
	}
	for _, r := range d.pristine {
		counts[r.Kind]++
	}
	return counts
}

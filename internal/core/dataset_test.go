package core

import (
	"errors"
	"reflect"
	"testing"
)

func recordIDs(rs []Record) []int {
	ids := make([]int, len(rs))
	for i, r := range rs {
		ids[i] = r.ID
	}
	return ids
}

func TestDataset_LoadOnce(t *testing.T) {
	ds := NewDataset()
	if ds.Loaded() {
		t.Fatal("new dataset reports loaded")
	}
	if err := ds.Load("a", "b", nil); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := ds.Load("c", "d", nil); !errors.Is(err, ErrDatasetLoaded) {
		t.Errorf("second Load() error = %v, want ErrDatasetLoaded", err)
	}
	h1, h2 := ds.Headers()
	if h1 != "a" || h2 != "b" {
		t.Errorf("Headers() = %q, %q; headers must be write-once", h1, h2)
	}
}

func TestDataset_LoadCopiesInput(t *testing.T) {
	recs := []Record{{ID: 1}, {ID: 2}}
	ds := NewDataset()
	if err := ds.Load("", "", recs); err != nil {
		t.Fatal(err)
	}
	recs[0].ID = 99
	if got := ds.Records()[0].ID; got != 1 {
		t.Errorf("dataset aliased caller slice: ID = %d", got)
	}
}

func TestDataset_FilterAndSort(t *testing.T) {
	ds := loadSample(t)

	ds.FilterAndSort(mustTime(t, "2023/01/02 00:00"))

	if got := recordIDs(ds.Records()); !reflect.DeepEqual(got, []int{2, 3}) {
		t.Errorf("ids = %v, want [2 3]", got)
	}
	if ds.Count() != 2 {
		t.Errorf("Count() = %d, want 2", ds.Count())
	}
}

func TestDataset_FilterIsInclusive(t *testing.T) {
	ds := loadSample(t)

	ds.FilterAndSort(mustTime(t, "2023/01/02 09:30"))

	if got := recordIDs(ds.Records()); !reflect.DeepEqual(got, []int{2, 3}) {
		t.Errorf("ids = %v, want [2 3]", got)
	}
}

func TestDataset_SortedAscending(t *testing.T) {
	ds := loadSample(t)
	ds.FilterAndSort(mustTime(t, "2000/01/01 00:00"))

	recs := ds.Records()
	for i := 1; i < len(recs); i++ {
		if recs[i].RecordTime.Before(recs[i-1].RecordTime) {
			t.Fatalf("records out of order at %d: %v before %v", i, recs[i].RecordTime, recs[i-1].RecordTime)
		}
	}
	if got := recordIDs(recs); !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("ids = %v, want [1 2 3]", got)
	}
}

func TestDataset_StableForEqualTimes(t *testing.T) {
	ts := mustTime(t, "2023/01/01 08:00")
	later := mustTime(t, "2023/01/01 09:00")
	ds := NewDataset()
	recs := []Record{
		{ID: 10, RecordTime: later},
		{ID: 20, RecordTime: ts},
		{ID: 30, RecordTime: ts},
		{ID: 40, RecordTime: ts},
	}
	if err := ds.Load("", "", recs); err != nil {
		t.Fatal(err)
	}

	ds.FilterAndSort(ts)

	if got := recordIDs(ds.Records()); !reflect.DeepEqual(got, []int{20, 30, 40, 10}) {
		t.Errorf("ids = %v, want [20 30 40 10]", got)
	}
}

func TestDataset_ResetMakesFiltersIdempotent(t *testing.T) {
	t1 := mustTime(t, "2023/01/03 00:00")
	t2 := mustTime(t, "2023/01/01 12:00")

	ds := loadSample(t)
	ds.Reset()
	ds.FilterAndSort(t1)
	ds.Reset()
	ds.FilterAndSort(t2)
	got := ds.Records()

	fresh := loadSample(t)
	fresh.FilterAndSort(t2)
	want := fresh.Records()

	if !reflect.DeepEqual(got, want) {
		t.Errorf("reset+filter(t1)+reset+filter(t2) = %v, want %v", recordIDs(got), recordIDs(want))
	}
	if ds.PristineCount() != 3 {
		t.Errorf("PristineCount() = %d, want 3", ds.PristineCount())
	}
}

func TestDataset_FiltersComposeWithoutReset(t *testing.T) {
	ds := loadSample(t)
	ds.FilterAndSort(mustTime(t, "2023/01/03 00:00"))
	ds.FilterAndSort(mustTime(t, "2023/01/01 00:00"))

	if got := recordIDs(ds.Records()); !reflect.DeepEqual(got, []int{3}) {
		t.Errorf("ids = %v, want [3]", got)
	}

	ds.Reset()
	if ds.Count() != 3 {
		t.Errorf("Count() after Reset = %d, want 3", ds.Count())
	}
}

func TestDataset_LiveIsSubsetOfPristine(t *testing.T) {
	ds := loadSample(t)
	pristine := ds.Records()

	for _, cutoff := range []string{"2023/01/01 00:00", "2023/01/02 10:00", "2024/01/01 00:00"} {
		ds.Reset()
		ds.FilterAndSort(mustTime(t, cutoff))
		for _, r := range ds.Records() {
			found := false
			for _, p := range pristine {
				if reflect.DeepEqual(r, p) {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("cutoff %s: record %d not in pristine snapshot", cutoff, r.ID)
			}
		}
	}
}

func TestDataset_Bounds(t *testing.T) {
	ds := loadSample(t)
	earliest, latest, ok := ds.Bounds()
	if !ok {
		t.Fatal("Bounds() ok = false")
	}
	if FormatTime(earliest) != "2023/01/01 08:00" || FormatTime(latest) != "2023/01/03 10:00" {
		t.Errorf("Bounds() = %s, %s", FormatTime(earliest), FormatTime(latest))
	}

	// Bounds come from the pristine snapshot, not the filtered view
	ds.FilterAndSort(mustTime(t, "2023/01/03 00:00"))
	if e, _, _ := ds.Bounds(); FormatTime(e) != "2023/01/01 08:00" {
		t.Errorf("Bounds() after filter earliest = %s", FormatTime(e))
	}

	if _, _, ok := NewDataset().Bounds(); ok {
		t.Error("empty dataset Bounds() ok = true")
	}
}

func TestDataset_KindCounts(t *testing.T) {
	ds := loadSample(t)
	got := ds.KindCounts()
	want := map[RecordKind]int{AutoScan: 1, ManualScan: 1, StripScan: 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("KindCounts() = %v, want %v", got, want)
	}
}

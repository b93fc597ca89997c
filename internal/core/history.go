package core

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// ReportStatus is the outcome of one report attempt.
type ReportStatus string

const (
	ReportWritten ReportStatus = "written"
	ReportEmpty   ReportStatus = "empty"
	ReportFailed  ReportStatus = "failed"
)

// DefaultHistoryLimit is the number of report attempts kept in memory.
const DefaultHistoryLimit = 50

// ReportEntry records one report attempt.
type ReportEntry struct {
	ID        string       `json:"id"`
	Cutoff    time.Time    `json:"cutoff"`
	Records   int          `json:"records"`
	Status    ReportStatus `json:"status"`
	Error     string       `json:"error,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// ReportHistory is a bounded, newest-first log of report attempts.
type ReportHistory struct {
	mu      sync.Mutex
	limit   int
	entries []ReportEntry
}

// NewReportHistory creates a history keeping at most limit entries.
// A non-positive limit falls back to DefaultHistoryLimit.
func NewReportHistory(limit int) *ReportHistory {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &ReportHistory{limit: limit}
}

// Record adds an entry, assigning it an ID when it has none, and returns it.
func (h *ReportHistory) Record(e ReportEntry) ReportEntry {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append([]ReportEntry{e}, h.entries...)
	if len(h.entries) > h.limit {
		h.entries = h.entries[:h.limit]
	}
	return e
}

// Entries returns a copy of the history, newest first.
func (h *ReportHistory) Entries() []ReportEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]ReportEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Get returns the entry with the given ID.
func (h *ReportHistory) Get(id string) (ReportEntry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, e := range h.entries {
		if e.ID == id {
			return e, true
		}
	}
	return ReportEntry{}, false
}

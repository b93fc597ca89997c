package core

import (
	"fmt"
	"sync"
	"time"
)

// ReportResult describes a successfully generated report.
type ReportResult struct {
	ID      string    `json:"report_id"`
	Cutoff  time.Time `json:"cutoff"`
	Records int       `json:"records"`
	Lines   []string  `json:"-"`
}

// Service runs report cycles against one loaded dataset.
//
// Every cycle is reset -> filter and sort -> format, executed under a mutex so
// that a concurrent front end never interleaves two cycles on the same dataset.
type Service struct {
	dataset *Dataset
	sink    LineSink
	logger  Logger
	history *ReportHistory

	mu sync.Mutex
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithHistoryLimit bounds the number of report attempts kept in memory.
func WithHistoryLimit(limit int) ServiceOption {
	return func(s *Service) {
		s.history = NewReportHistory(limit)
	}
}

// NewService creates a Service over a loaded dataset. sink may be nil when the
// caller only needs previews.
func NewService(ds *Dataset, sink LineSink, logger Logger, opts ...ServiceOption) *Service {
	s := &Service{
		dataset: ds,
		sink:    sink,
		logger:  logger,
		history: NewReportHistory(DefaultHistoryLimit),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dataset returns the dataset the service operates on.
func (s *Service) Dataset() *Dataset {
	return s.dataset
}

// History returns the report attempts, newest first.
func (s *Service) History() []ReportEntry {
	return s.history.Entries()
}

// HistoryEntry returns a single report attempt by ID.
func (s *Service) HistoryEntry(id string) (ReportEntry, bool) {
	return s.history.Get(id)
}

// GenerateReport filters the pristine records by cutoff and writes the
// formatted report to the sink. It returns ErrEmptyResult without touching the
// sink when nothing survives the filter, and an error wrapping ErrSinkFailure
// when the sink cannot persist the lines.
func (s *Service) GenerateReport(cutoff time.Time) (ReportResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.render(cutoff)
	if err != nil {
		s.history.Record(ReportEntry{Cutoff: cutoff, Status: ReportEmpty, Error: err.Error()})
		return ReportResult{}, err
	}
	count := len(lines) - 2

	if s.sink == nil {
		err := fmt.Errorf("%w: no output configured", ErrSinkFailure)
		s.logger.Error("output file generation failed", "error", err)
		s.history.Record(ReportEntry{Cutoff: cutoff, Records: count, Status: ReportFailed, Error: err.Error()})
		return ReportResult{}, err
	}

	if err := s.sink.WriteLines(lines); err != nil {
		err = fmt.Errorf("%w: %w", ErrSinkFailure, err)
		s.logger.Error("output file generation failed", "error", err)
		s.history.Record(ReportEntry{Cutoff: cutoff, Records: count, Status: ReportFailed, Error: err.Error()})
		return ReportResult{}, err
	}

	entry := s.history.Record(ReportEntry{Cutoff: cutoff, Records: count, Status: ReportWritten})
	s.logger.Info("output file was successfully generated", "records", count, "report_id", entry.ID)

	return ReportResult{ID: entry.ID, Cutoff: cutoff, Records: count, Lines: lines}, nil
}

// Preview runs the same cycle as GenerateReport but returns the lines instead
// of writing them.
func (s *Service) Preview(cutoff time.Time) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.render(cutoff)
}

// render must be called with s.mu held.
func (s *Service) render(cutoff time.Time) ([]string, error) {
	s.logger.Info("chosen start date", "cutoff", FormatTime(cutoff))

	s.dataset.Reset()
	s.dataset.FilterAndSort(cutoff)

	if s.dataset.Count() == 0 {
		s.logger.Error("there are 0 records after filtering", "cutoff", FormatTime(cutoff))
		return nil, fmt.Errorf("%w: no records at or after %s", ErrEmptyResult, FormatTime(cutoff))
	}

	return FormatReport(s.dataset), nil
}

package web

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/JonMunkholm/SugarParser/internal/core"
	"github.com/JonMunkholm/SugarParser/internal/logging"
)

// ReportRequest is the body of POST /api/report.
type ReportRequest struct {
	Since string `json:"since" validate:"required,cutoff"`
}

// ReportResponse is returned after a report has been written.
type ReportResponse struct {
	ReportID string `json:"report_id"`
	Since    string `json:"since"`
	Records  int    `json:"records"`
	Output   string `json:"output"`
}

// DatasetResponse describes the loaded export.
type DatasetResponse struct {
	Input   string         `json:"input"`
	Output  string         `json:"output"`
	Headers [2]string      `json:"headers"`
	Stats   core.LoadStats `json:"stats"`
	Kinds   map[string]int `json:"kinds"`
}

// errNotFound is mapped to 404 by the report lookup handler.
var errNotFound = errors.New("report not found")

// newValidator builds the request validator with the cutoff rule registered
// and JSON field names in error messages.
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("cutoff", func(fl validator.FieldLevel) bool {
		_, err := core.ParseCutoff(fl.Field().String())
		return err == nil
	})
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	ds := s.service.Dataset()
	h1, h2 := ds.Headers()

	kinds := make(map[string]int)
	for k, n := range ds.KindCounts() {
		kinds[k.String()] = n
	}

	render.JSON(w, r, DatasetResponse{
		Input:   s.input,
		Output:  s.output,
		Headers: [2]string{h1, h2},
		Stats:   s.stats,
		Kinds:   kinds,
	})
}

func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	var req ReportRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		s.respondErrorStatus(w, r, fmt.Errorf("decode request: %w", err), http.StatusBadRequest)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.respondErrorStatus(w, r, fmt.Errorf("%w: %w", core.ErrInvalidCutoff, err), http.StatusBadRequest)
		return
	}

	cutoff, err := core.ParseCutoff(req.Since)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	result, err := s.service.GenerateReport(cutoff)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("report generated",
		"report_id", result.ID,
		"records", result.Records,
	)

	render.JSON(w, r, ReportResponse{
		ReportID: result.ID,
		Since:    core.FormatTime(cutoff),
		Records:  result.Records,
		Output:   s.output,
	})
}

func (s *Server) handlePreviewReport(w http.ResponseWriter, r *http.Request) {
	cutoff, err := core.ParseCutoff(r.URL.Query().Get("since"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	lines, err := s.service.Preview(cutoff)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.service.History())
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "reportID")
	entry, ok := s.service.HistoryEntry(id)
	if !ok {
		s.respondErrorStatus(w, r, fmt.Errorf("%w: %s", errNotFound, id), http.StatusNotFound)
		return
	}
	render.JSON(w, r, entry)
}

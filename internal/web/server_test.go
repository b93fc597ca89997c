package web

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/SugarParser/internal/config"
	"github.com/JonMunkholm/SugarParser/internal/core"
	"github.com/JonMunkholm/SugarParser/internal/textfile"
)

const testExport = "Patient\tJane Doe\n" +
	"ID\tTime\tRecord Type\tHistoric Glucose\n" +
	"3\t2023/01/03 10:00\t2\t120\n" +
	"1\t2023/01/01 08:00\t0\t100\n" +
	"2\t2023/01/02 09:30\t1\t110\n"

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	res := core.NewLoader(logger, nil).LoadFrom(textfile.NewSource(strings.NewReader(testExport)))
	require.True(t, res.Success, "load failed: %v", res.Err)

	output := filepath.Join(t.TempDir(), "export_res.txt")
	svc := core.NewService(res.Dataset, textfile.NewSink(output), logger)

	srv := NewServer(svc, config.ServerConfig{Host: "127.0.0.1", Port: 0}, Options{
		Input:  "export.txt",
		Output: output,
		Stats:  res.Stats,
	})
	return srv, output
}

func do(t *testing.T, srv *Server, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func reportBody(t *testing.T, since string) []byte {
	t.Helper()
	b, err := json.Marshal(ReportRequest{Since: since})
	require.NoError(t, err)
	return b
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestDataset(t *testing.T) {
	srv, output := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/dataset", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp DatasetResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "export.txt", resp.Input)
	assert.Equal(t, output, resp.Output)
	assert.Equal(t, "Patient\tJane Doe", resp.Headers[0])
	assert.Equal(t, 3, resp.Stats.Records)
	assert.Equal(t, map[string]int{"auto scan": 1, "manual scan": 1, "strip scan": 1}, resp.Kinds)
}

func TestGenerateReport(t *testing.T) {
	srv, output := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/report", reportBody(t, "2023/01/02 00:00"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ReportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Records)
	assert.Equal(t, "2023/01/02 00:00", resp.Since)
	assert.NotEmpty(t, resp.ReportID)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[2], "2\t2023/01/02 09:30\t1\t\t110"))
	assert.True(t, strings.HasPrefix(lines[3], "3\t2023/01/03 10:00\t1\t\t120"))

	rec = do(t, srv, http.MethodGet, "/api/reports/"+resp.ReportID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var entry core.ReportEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entry))
	assert.Equal(t, core.ReportWritten, entry.Status)
	assert.Equal(t, 2, entry.Records)
}

func TestGenerateReport_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     []byte
		wantCode int
		wantErr  string
	}{
		{
			name:     "invalid json",
			body:     []byte(`{"since":`),
			wantCode: http.StatusBadRequest,
			wantErr:  "ERR000",
		},
		{
			name:     "missing since",
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantErr:  "CUT001",
		},
		{
			name:     "bad cutoff format",
			body:     []byte(`{"since":"2023-01-02"}`),
			wantCode: http.StatusBadRequest,
			wantErr:  "CUT001",
		},
		{
			name:     "nothing after cutoff",
			body:     []byte(`{"since":"2030/01/01 00:00"}`),
			wantCode: http.StatusUnprocessableEntity,
			wantErr:  "RPT001",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, output := newTestServer(t)

			rec := do(t, srv, http.MethodPost, "/api/report", tt.body)

			assert.Equal(t, tt.wantCode, rec.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantErr, resp.Code)
			assert.NotEmpty(t, resp.Message)

			_, err := os.Stat(output)
			assert.True(t, os.IsNotExist(err), "output written on error")
		})
	}
}

func TestGenerateReport_SinkFailure(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	res := core.NewLoader(logger, nil).LoadFrom(textfile.NewSource(strings.NewReader(testExport)))
	require.True(t, res.Success)

	output := filepath.Join(t.TempDir(), "missing", "export_res.txt")
	svc := core.NewService(res.Dataset, textfile.NewSink(output), logger)
	srv := NewServer(svc, config.ServerConfig{}, Options{Output: output})

	rec := do(t, srv, http.MethodPost, "/api/report", reportBody(t, "2023/01/01 00:00"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "OUT001", resp.Code)
}

func TestPreviewReport(t *testing.T) {
	srv, output := newTestServer(t)

	q := url.Values{"since": {"2023/01/02 00:00"}}
	rec := do(t, srv, http.MethodGet, "/api/report/preview?"+q.Encode(), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	lines := strings.Split(strings.TrimSuffix(rec.Body.String(), "\n"), "\n")
	assert.Len(t, lines, 4)

	_, err := os.Stat(output)
	assert.True(t, os.IsNotExist(err), "preview wrote the output file")

	rec = do(t, srv, http.MethodGet, "/api/report/preview?since=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListReports(t *testing.T) {
	srv, _ := newTestServer(t)

	do(t, srv, http.MethodPost, "/api/report", reportBody(t, "2023/01/01 00:00"))
	do(t, srv, http.MethodPost, "/api/report", reportBody(t, "2030/01/01 00:00"))

	rec := do(t, srv, http.MethodGet, "/api/reports", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []core.ReportEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, core.ReportEmpty, entries[0].Status)
	assert.Equal(t, core.ReportWritten, entries[1].Status)
}

func TestGetReport_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/reports/does-not-exist", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestShutdown_NotStarted(t *testing.T) {
	srv, _ := newTestServer(t)
	require.NoError(t, srv.Shutdown(t.Context()))
	assert.ErrorIs(t, srv.Start(), http.ErrServerClosed)
}

func TestAPIKeyAuth(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	res := core.NewLoader(logger, nil).LoadFrom(textfile.NewSource(strings.NewReader(testExport)))
	require.True(t, res.Success)

	svc := core.NewService(res.Dataset, nil, logger)
	key := "0123456789abcdef"
	srv := NewServer(svc, config.ServerConfig{APIKeys: []string{key}}, Options{})

	tests := []struct {
		name     string
		target   string
		key      string
		wantCode int
	}{
		{"health is public", "/healthz", "", http.StatusOK},
		{"missing key", "/api/dataset", "", http.StatusUnauthorized},
		{"wrong key", "/api/dataset", "fedcba9876543210", http.StatusForbidden},
		{"valid key", "/api/dataset", key, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.key != "" {
				req.Header.Set("X-API-Key", tt.key)
			}
			rec := httptest.NewRecorder()
			srv.Router().ServeHTTP(rec, req)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

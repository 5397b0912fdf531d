package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/speedwagon-io/sysdash/internal/model"
	"github.com/speedwagon-io/sysdash/internal/report"
)

type recordsResponse struct {
	Status  *model.Status       `json:"status,omitempty"`
	Columns []string            `json:"columns"`
	Records []report.FlaggedRow `json:"records"`
	Total   int                 `json:"total"`
	Shown   int                 `json:"shown"`
}

type summaryResponse struct {
	Status   *model.Status  `json:"status,omitempty"`
	Latest   *model.Record  `json:"latest"`
	Counts   map[string]int `json:"counts"`
	Earliest string         `json:"earliest,omitempty"`
	LatestTS string         `json:"latest_ts,omitempty"`
	Total    int            `json:"total"`
	Shown    int            `json:"shown"`
}

type seriesResponse struct {
	Status *model.Status        `json:"status,omitempty"`
	Field  string               `json:"field"`
	Points []report.SeriesPoint `json:"points"`
}

// GET /api/records?status=&tail=&field=&threshold=
func (s *Server) handleAPIRecords(w http.ResponseWriter, r *http.Request) {
	table, loadStatus := s.loader.LoadAll(r.Context())
	status := s.renderStatus(loadStatus, table)

	filtered := report.Filter(table, queryStatus(r))

	if tail, ok := queryInt(r, "tail"); ok {
		filtered = report.TailWindow(filtered, tail)
	}

	field := r.URL.Query().Get("field")
	threshold := s.cfg.Dashboard.Threshold
	if t, ok := queryFloat(r, "threshold"); ok {
		threshold = t
	}
	if field == "" {
		field = model.ColCPU
	}

	resp := recordsResponse{
		Status:  statusPtr(status),
		Columns: model.Columns(),
		Records: report.FlagThreshold(filtered, field, threshold),
		Total:   len(table),
		Shown:   len(filtered),
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /api/summary?status=
func (s *Server) handleAPISummary(w http.ResponseWriter, r *http.Request) {
	table, loadStatus := s.loader.LoadAll(r.Context())
	status := s.renderStatus(loadStatus, table)

	filtered := report.Filter(table, queryStatus(r))

	resp := summaryResponse{
		Status: statusPtr(status),
		Latest: report.LatestRow(filtered),
		Counts: report.StatusCounts(filtered),
		Total:  len(table),
		Shown:  len(filtered),
	}
	if earliest, latest, ok := report.TimeRange(filtered); ok {
		resp.Earliest = earliest.Format(model.TimeLayout)
		resp.LatestTS = latest.Format(model.TimeLayout)
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /api/series?field=CPU&status=
func (s *Server) handleAPISeries(w http.ResponseWriter, r *http.Request) {
	field := r.URL.Query().Get("field")
	if !model.IsMetricColumn(field) {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "unknown metric field: " + field,
		})
		return
	}

	table, loadStatus := s.loader.LoadAll(r.Context())
	status := s.renderStatus(loadStatus, table)

	filtered := report.Filter(table, queryStatus(r))

	resp := seriesResponse{
		Status: statusPtr(status),
		Field:  field,
		Points: report.SeriesPoints(filtered, field),
	}
	writeJSON(w, http.StatusOK, resp)
}

// POST /api/refresh invalidates the load cache before the next read.
func (s *Server) handleAPIRefresh(w http.ResponseWriter, r *http.Request) {
	s.loader.Refresh()
	w.WriteHeader(http.StatusNoContent)
}

func queryStatus(r *http.Request) string {
	status := r.URL.Query().Get("status")
	if status == "" {
		return report.FilterAll
	}
	return status
}

func queryInt(r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

func queryFloat(r *http.Request, name string) (float64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func statusPtr(status model.Status) *model.Status {
	if status.IsZero() {
		return nil
	}
	return &status
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

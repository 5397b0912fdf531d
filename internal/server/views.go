package server

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/speedwagon-io/sysdash/internal/lib/logger/sl"
	"github.com/speedwagon-io/sysdash/internal/model"
	"github.com/speedwagon-io/sysdash/internal/report"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

var filterChoices = []string{report.FilterAll, "UP", "DOWN"}

type rowView struct {
	Timestamp  string
	CPU        string
	Memory     string
	Disk       string
	PingStatus string
	PingMs     string
	Flagged    bool
}

type chartView struct {
	Title    string
	Segments []string
	MinLabel string
	MaxLabel string
	Empty    bool
}

type pageView struct {
	Title     string
	Active    string
	Status    *model.Status
	Fatal     bool
	Filter    string
	Filters   []string
	Field     string
	Fields    []string
	Threshold float64
	Total     int
	Shown     int
	TimeRange string
	Rows      []rowView
	Latest    *rowView
	Charts    []chartView
}

// GET /: status filter, latest-row metrics, last-N table and the three
// usage charts.
func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	table, loadStatus := s.loader.LoadAll(r.Context())
	status := s.renderStatus(loadStatus, table)

	filter := queryStatus(r)
	filtered := report.Filter(table, filter)

	view := pageView{
		Title:   "Overview",
		Active:  "overview",
		Status:  statusPtr(status),
		Fatal:   status.Kind == model.StatusError,
		Filter:  filter,
		Filters: filterChoices,
		Total:   len(table),
		Shown:   len(filtered),
	}

	if !view.Fatal {
		if earliest, latest, ok := report.TimeRange(filtered); ok {
			view.TimeRange = earliest.Format(model.TimeLayout) + " to " + latest.Format(model.TimeLayout)
		}

		tail := report.TailWindow(filtered, s.cfg.Dashboard.TailRows)
		for _, rec := range tail {
			view.Rows = append(view.Rows, newRowView(rec, false))
		}

		if latest := report.LatestRow(filtered); latest != nil {
			rv := newRowView(*latest, false)
			view.Latest = &rv
		}

		for _, field := range []string{model.ColCPU, model.ColMemory, model.ColDisk} {
			view.Charts = append(view.Charts, newChartView(field, report.SeriesPoints(filtered, field)))
		}
	}

	s.render(w, "overview.html", view)
}

// GET /records: the full filtered table with threshold flagging.
func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	table, loadStatus := s.loader.LoadAll(r.Context())
	status := s.renderStatus(loadStatus, table)

	filter := queryStatus(r)
	filtered := report.Filter(table, filter)

	field := r.URL.Query().Get("field")
	if !model.IsMetricColumn(field) {
		field = model.ColCPU
	}
	threshold := s.cfg.Dashboard.Threshold
	if t, ok := queryFloat(r, "threshold"); ok {
		threshold = t
	}

	view := pageView{
		Title:     "Records",
		Active:    "records",
		Status:    statusPtr(status),
		Fatal:     status.Kind == model.StatusError,
		Filter:    filter,
		Filters:   filterChoices,
		Field:     field,
		Fields:    []string{model.ColCPU, model.ColMemory, model.ColDisk, model.ColPingMs},
		Threshold: threshold,
		Total:     len(table),
		Shown:     len(filtered),
	}

	if !view.Fatal {
		for _, fr := range report.FlagThreshold(filtered, field, threshold) {
			view.Rows = append(view.Rows, newRowView(fr.Record, fr.Flagged))
		}
	}

	s.render(w, "records.html", view)
}

// POST /refresh invalidates the cache, then sends the browser back to
// re-render with fresh data.
func (s *Server) handleRefreshPage(w http.ResponseWriter, r *http.Request) {
	s.loader.Refresh()

	target := r.Referer()
	if target == "" {
		target = "/"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (s *Server) render(w http.ResponseWriter, name string, view pageView) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, name, view); err != nil {
		s.log.Error("failed to render template", sl.Err(err))
	}
}

func newRowView(rec model.Record, flagged bool) rowView {
	ts := "-"
	if rec.Timestamp != nil {
		ts = rec.Timestamp.Format(model.TimeLayout)
	}
	return rowView{
		Timestamp:  ts,
		CPU:        fmtMetric(rec.CPU),
		Memory:     fmtMetric(rec.Memory),
		Disk:       fmtMetric(rec.Disk),
		PingStatus: rec.PingStatus,
		PingMs:     fmtMetric(rec.PingMs),
		Flagged:    flagged,
	}
}

func fmtMetric(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}

const (
	chartWidth  = 360.0
	chartHeight = 120.0
	chartPad    = 6.0
)

// newChartView turns a metric series into SVG polyline segments. A nil
// value breaks the line, so malformed samples show as gaps.
func newChartView(title string, points []report.SeriesPoint) chartView {
	view := chartView{Title: title}

	lo, hi, any := seriesBounds(points)
	if !any || len(points) < 2 {
		view.Empty = true
		return view
	}
	if hi == lo {
		hi = lo + 1
	}
	view.MinLabel = fmt.Sprintf("%.0f", lo)
	view.MaxLabel = fmt.Sprintf("%.0f", hi)

	t0 := points[0].Timestamp
	t1 := points[len(points)-1].Timestamp
	span := t1.Sub(t0).Seconds()
	if span <= 0 {
		span = 1
	}

	var segment []string
	flush := func() {
		if len(segment) >= 2 {
			view.Segments = append(view.Segments, strings.Join(segment, " "))
		}
		segment = nil
	}

	for _, p := range points {
		if p.Value == nil {
			flush()
			continue
		}
		x := chartPad + (chartWidth-2*chartPad)*p.Timestamp.Sub(t0).Seconds()/span
		y := chartHeight - chartPad - (chartHeight-2*chartPad)*(*p.Value-lo)/(hi-lo)
		segment = append(segment, fmt.Sprintf("%.1f,%.1f", x, y))
	}
	flush()

	view.Empty = len(view.Segments) == 0
	return view
}

func seriesBounds(points []report.SeriesPoint) (lo, hi float64, any bool) {
	for _, p := range points {
		if p.Value == nil {
			continue
		}
		v := *p.Value
		if !any {
			lo, hi = v, v
			any = true
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi, any
}

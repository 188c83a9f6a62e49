// Package web serves a localhost-only single-user UI; it intentionally has no
// auth/CSRF protection in this mode.
package web

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"roadboard/aggregate"
	"roadboard/filter"
	"roadboard/internal/log"
	"roadboard/loader"
	"roadboard/output"
	"roadboard/roadmap"
)

//go:embed templates/*.html
var templateFS embed.FS

type Server struct {
	source     *loader.Cached
	logger     *log.Logger
	timelineBy aggregate.TimelineKey
	mux        *http.ServeMux
}

// filtered is the outcome of one request's load and filter step.
type filtered struct {
	canonical *roadmap.Table
	available filter.Available
	criteria  filter.Criteria
	table     *roadmap.Table
	timeline  aggregate.TimelineKey
}

type dashboardResponse struct {
	Source    string              `json:"source"`
	Total     int                 `json:"total"`
	Criteria  criteriaView        `json:"criteria"`
	Dashboard aggregate.Dashboard `json:"dashboard"`
}

func NewServer(source *loader.Cached, logger *log.Logger, timelineBy aggregate.TimelineKey) http.Handler {
	if logger == nil {
		logger = log.Discard()
	}
	if timelineBy == "" {
		timelineBy = aggregate.TimelineBySubject
	}
	server := &Server{
		source:     source,
		logger:     logger.WithComponent("web"),
		timelineBy: timelineBy,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", server.handleDashboard)
	mux.HandleFunc("GET /api/options", server.handleAPIOptions)
	mux.HandleFunc("GET /api/dashboard", server.handleAPIDashboard)
	mux.HandleFunc("GET /export.csv", server.handleExport("csv"))
	mux.HandleFunc("GET /export.xlsx", server.handleExport("excel"))
	mux.HandleFunc("GET /export/dashboard.xlsx", server.handleExportDashboard)
	server.mux = mux

	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	s.mux.ServeHTTP(w, r)
	s.logger.Debug("request served", "method", r.Method, "path", r.URL.Path, "duration", time.Since(started))
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	result, ok := s.filter(w, r)
	if !ok {
		return
	}

	view := buildPageView(s.source.Source().Path, result, r.URL.Query())
	if err := renderTemplate(w, "dashboard.html", view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleAPIOptions(w http.ResponseWriter, r *http.Request) {
	table, err := s.source.Table(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, filter.Options(table))
}

func (s *Server) handleAPIDashboard(w http.ResponseWriter, r *http.Request) {
	result, ok := s.filterJSON(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		Source:    s.source.Source().Path,
		Total:     result.canonical.Len(),
		Criteria:  newCriteriaView(result.criteria),
		Dashboard: aggregate.Build(result.table, result.timeline),
	})
}

func (s *Server) handleExport(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, ok := s.filter(w, r)
		if !ok {
			return
		}

		writer, err := output.WriterForFormat(format)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", writer.ContentType())
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "roadmap-filtered"+writer.Extension()))
		if err := writer.Write(w, result.table); err != nil {
			s.logger.Error("export failed", "format", format, "error", err)
		}
	}
}

func (s *Server) handleExportDashboard(w http.ResponseWriter, r *http.Request) {
	result, ok := s.filter(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", (&output.ExcelWriter{}).ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="roadmap-dashboard.xlsx"`)
	if err := output.WriteDashboardExcel(w, aggregate.Build(result.table, result.timeline)); err != nil {
		s.logger.Error("dashboard export failed", "error", err)
	}
}

// filter loads the canonical table and applies the request's criteria. On
// failure it writes a plain-text error and returns false.
func (s *Server) filter(w http.ResponseWriter, r *http.Request) (filtered, bool) {
	result, status, err := s.apply(r)
	if err != nil {
		http.Error(w, err.Error(), status)
		return filtered{}, false
	}
	return result, true
}

func (s *Server) filterJSON(w http.ResponseWriter, r *http.Request) (filtered, bool) {
	result, status, err := s.apply(r)
	if err != nil {
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return filtered{}, false
	}
	return result, true
}

func (s *Server) apply(r *http.Request) (filtered, int, error) {
	table, err := s.source.Table(r.Context())
	if err != nil {
		return filtered{}, http.StatusInternalServerError, err
	}

	query := r.URL.Query()
	timeline := s.timelineBy
	if raw := query.Get("timeline"); raw != "" {
		timeline, err = aggregate.ParseTimelineKey(raw)
		if err != nil {
			return filtered{}, http.StatusBadRequest, err
		}
	}

	available := filter.Options(table)
	criteria := filter.FromValues(query, available)
	return filtered{
		canonical: table,
		available: available,
		criteria:  criteria,
		table:     filter.Apply(table, criteria),
		timeline:  timeline,
	}, http.StatusOK, nil
}

func renderTemplate(w http.ResponseWriter, pageTemplate string, data any) error {
	tmpl, err := template.New("base.html").Funcs(template.FuncMap{
		"fmtHours": func(value float64) string {
			return fmt.Sprintf("%.2f", value)
		},
		"fmtDate": func(value time.Time) string {
			return value.Format("2006-01-02")
		},
	}).ParseFS(templateFS, "templates/base.html", "templates/"+pageTemplate)
	if err != nil {
		return fmt.Errorf("parse template %s: %w", pageTemplate, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		return fmt.Errorf("render template %s: %w", pageTemplate, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

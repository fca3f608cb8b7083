// Package server exposes the aggregation pipeline over HTTP as plain
// JSON series and CSV exports. Rendering is the client's concern; every
// endpoint accepts the same filter parameters the Filter Engine takes.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/pipeline-insights/internal/aggregate"
	"github.com/sells-group/pipeline-insights/internal/export"
	"github.com/sells-group/pipeline-insights/internal/filter"
	"github.com/sells-group/pipeline-insights/internal/model"
)

const dateLayout = "2006-01-02"

// Server serves dashboard data for one normalized record set.
type Server struct {
	records    []model.Record
	thresholds aggregate.Thresholds
	topOwners  int

	// now supplies the clock for the activity alert; overridable in tests.
	now func() time.Time
}

// New creates a Server over an already-normalized record set.
func New(records []model.Record, thresholds aggregate.Thresholds) *Server {
	return &Server{
		records:    records,
		thresholds: thresholds,
		topOwners:  10,
		now:        time.Now,
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedMethods: []string{http.MethodGet},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/metrics", s.handleMetrics)
		r.Get("/stages", s.handleStages)
		r.Get("/monthly", s.handleMonthly)
		r.Get("/monthly/by-stage", s.handleMonthlyByStage)
		r.Get("/owners", s.handleOwners)
		r.Get("/funnel", s.handleFunnel)
		r.Get("/alerts", s.handleAlerts)
		r.Get("/export/records", s.handleExportRecords)
		r.Get("/export/owners", s.handleExportOwners)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	recs, ok := s.filtered(w, r)
	if !ok {
		return
	}
	respondJSON(w, aggregate.Metrics(recs))
}

func (s *Server) handleStages(w http.ResponseWriter, r *http.Request) {
	recs, ok := s.filtered(w, r)
	if !ok {
		return
	}
	respondJSON(w, aggregate.StageDistribution(recs))
}

func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	recs, ok := s.filtered(w, r)
	if !ok {
		return
	}
	respondJSON(w, map[string]any{
		"series":  aggregate.MonthlySeries(recs),
		"summary": aggregate.MonthlySummaries(recs),
	})
}

func (s *Server) handleMonthlyByStage(w http.ResponseWriter, r *http.Request) {
	recs, ok := s.filtered(w, r)
	if !ok {
		return
	}
	respondJSON(w, aggregate.MonthlyByStage(recs))
}

func (s *Server) handleOwners(w http.ResponseWriter, r *http.Request) {
	recs, ok := s.filtered(w, r)
	if !ok {
		return
	}
	limit := s.topOwners
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			badRequest(w, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	respondJSON(w, aggregate.TopOwners(recs, limit))
}

func (s *Server) handleFunnel(w http.ResponseWriter, r *http.Request) {
	recs, ok := s.filtered(w, r)
	if !ok {
		return
	}
	respondJSON(w, map[string]any{
		"stages":      aggregate.StageDistribution(recs),
		"conversions": aggregate.FunnelConversions(recs),
	})
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	recs, ok := s.filtered(w, r)
	if !ok {
		return
	}
	alerts := aggregate.EvaluateAlerts(recs, s.now(), s.thresholds)
	if alerts == nil {
		alerts = []aggregate.Alert{}
	}
	respondJSON(w, alerts)
}

func (s *Server) handleExportRecords(w http.ResponseWriter, r *http.Request) {
	recs, ok := s.filtered(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="pipeline_records.csv"`)
	if err := export.WriteRecords(w, recs); err != nil {
		zap.L().Error("export records", zap.Error(err))
	}
}

func (s *Server) handleExportOwners(w http.ResponseWriter, r *http.Request) {
	recs, ok := s.filtered(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="owner_performance.csv"`)
	if err := export.WriteOwners(w, aggregate.OwnerPerformance(recs)); err != nil {
		zap.L().Error("export owners", zap.Error(err))
	}
}

func (s *Server) filtered(w http.ResponseWriter, r *http.Request) ([]model.Record, bool) {
	cfg, err := parseFilter(r)
	if err != nil {
		badRequest(w, err.Error())
		return nil, false
	}
	return filter.Apply(s.records, cfg), true
}

// parseFilter maps query parameters onto the Filter Engine config:
// from, to (YYYY-MM-DD), stages, owners (comma-separated), min_mrr,
// max_mrr.
func parseFilter(r *http.Request) (filter.Config, error) {
	q := r.URL.Query()
	var cfg filter.Config

	if v := q.Get("from"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return cfg, errBadParam("from")
		}
		cfg.DateFrom = t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return cfg, errBadParam("to")
		}
		// Inclusive end of day.
		cfg.DateTo = t.Add(24*time.Hour - time.Nanosecond)
	}
	if v := q.Get("stages"); v != "" {
		cfg.Stages = splitList(v)
	}
	if v := q.Get("owners"); v != "" {
		cfg.Owners = splitList(v)
	}
	if v := q.Get("min_mrr"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, errBadParam("min_mrr")
		}
		cfg.MinMRR = &f
	}
	if v := q.Get("max_mrr"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, errBadParam("max_mrr")
		}
		cfg.MaxMRR = &f
	}
	return cfg, nil
}

type paramError string

func errBadParam(name string) error { return paramError(name) }

func (e paramError) Error() string { return "invalid value for parameter " + string(e) }

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func respondJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("encode response", zap.Error(err))
	}
}

func badRequest(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

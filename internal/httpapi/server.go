package httpapi

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hamed0406/seoaudit/internal/domain"
	apimw "github.com/hamed0406/seoaudit/internal/httpapi/middleware"
	"github.com/hamed0406/seoaudit/internal/report"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTmpl = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// Auditor runs one audit. *audit.Auditor implements it.
type Auditor interface {
	Run(ctx context.Context, rawURL string) *domain.Report
}

type Server struct {
	Logger   *zap.Logger
	Auditor  Auditor
	Gatherer prometheus.Gatherer // nil disables /metrics
}

func NewServer(l *zap.Logger, a Auditor, g prometheus.Gatherer) *Server {
	return &Server{Logger: l, Auditor: a, Gatherer: g}
}

// Router wires the routes. An empty origins list allows every origin;
// rpm <= 0 disables rate limiting of the audit endpoints.
func (s *Server) Router(origins []string, rpm, burst int) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(apimw.RequestLogger(s.Logger))
	r.Use(chimw.Recoverer)
	if len(origins) == 0 {
		r.Use(cors.AllowAll().Handler)
	} else {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type"},
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if s.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/", s.handleIndex)
	r.Group(func(r chi.Router) {
		r.Use(apimw.RateLimit(rpm, burst))
		r.Post("/", s.handleFormAudit)
		r.Post("/api/audit", s.handleAPIAudit)
	})

	return r
}

type indexPage struct {
	URL   string
	Error string
	Lines []string
}

func (s *Server) render(w http.ResponseWriter, status int, p indexPage) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := indexTmpl.Execute(w, p); err != nil {
		s.Logger.Warn("render_failed", zap.Error(err))
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, indexPage{})
}

func (s *Server) handleFormAudit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, http.StatusBadRequest, indexPage{Error: "could not read form"})
		return
	}
	raw := strings.TrimSpace(r.PostFormValue("url"))
	if raw == "" {
		s.render(w, http.StatusBadRequest, indexPage{Error: "please enter a URL"})
		return
	}

	rep := s.Auditor.Run(r.Context(), raw)
	s.render(w, http.StatusOK, indexPage{URL: raw, Lines: rep.Lines()})
}

type auditPayload struct {
	URL string `json:"url"`
}

func (s *Server) handleAPIAudit(w http.ResponseWriter, r *http.Request) {
	var p auditPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || strings.TrimSpace(p.URL) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad payload"})
		return
	}

	rep := s.Auditor.Run(r.Context(), strings.TrimSpace(p.URL))
	writeJSON(w, http.StatusOK, report.NewJSON(rep))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

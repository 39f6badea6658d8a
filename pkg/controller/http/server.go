package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/secmon-lab/themis/pkg/usecase"
	"github.com/secmon-lab/themis/pkg/utils/logging"
	"github.com/secmon-lab/themis/pkg/utils/metrics"
)

type Server struct {
	router        *chi.Mux
	uc            *usecase.UseCases
	authUC        AuthUseCase
	enableMetrics bool
}

type Options func(*Server)

func WithAuth(authUC AuthUseCase) Options {
	return func(s *Server) {
		s.authUC = authUC
	}
}

func WithMetrics(enabled bool) Options {
	return func(s *Server) {
		s.enableMetrics = enabled
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:        r,
		uc:            uc,
		authUC:        uc.Auth,
		enableMetrics: true,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)
	if s.enableMetrics {
		r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware(s.authUC))

		r.Get("/me", meHandler)
		r.Get("/config/stages", s.stageSchemasHandler)
		r.Get("/config/controls", controlsHandler)

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", s.listProjectsHandler)
			r.Post("/", s.createProjectHandler)

			r.Route("/{projectID}", func(r chi.Router) {
				r.Get("/", s.getProjectHandler)
				r.Put("/", s.updateProjectHandler)
				r.Get("/overview", s.overviewHandler)
				r.Post("/classify", s.classifyHandler)

				r.Route("/stages", func(r chi.Router) {
					r.Get("/", s.listStagesHandler)
					r.Get("/{stage}", s.getStageHandler)
					r.Put("/{stage}", s.saveStageHandler)
					r.Post("/{stage}/suggest", s.suggestStageHandler)
				})

				r.Route("/risks", func(r chi.Router) {
					r.Get("/", s.listRisksHandler)
					r.Post("/", s.createRiskHandler)
					r.Post("/analyze", s.analyzeRisksHandler)
					r.Post("/accept", s.acceptRisksHandler)
					r.Get("/summary", s.riskSummaryHandler)
					r.Get("/{riskID}", s.getRiskHandler)
					r.Put("/{riskID}", s.updateRiskHandler)
					r.Delete("/{riskID}", s.deleteRiskHandler)
					r.Post("/{riskID}/controls/suggest", s.suggestControlsHandler)
				})

				r.Route("/documents", func(r chi.Router) {
					r.Get("/", s.listDocumentsHandler)
					r.Post("/", s.generateDocumentHandler)
					r.Get("/{documentID}", s.getDocumentHandler)
					r.Get("/{documentID}/diff", s.diffDocumentsHandler)
				})
			})
		})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger logs HTTP requests and attaches a request scoped logger to the context
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		logger := logging.Default().With("request_id", middleware.GetReqID(r.Context()))
		r = r.WithContext(logging.With(r.Context(), logger))

		defer func() {
			metrics.ObserveHTTP(r.Method, strconv.Itoa(ww.Status()))
			logger.Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

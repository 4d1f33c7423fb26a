// Package api exposes the career-guide operations over HTTP/JSON.
package api

import (
	"context"
	"net/http"
	"time"

	"career-guide/internal/common/camunda"
	"career-guide/internal/common/logger"
	"career-guide/internal/common/observability"
	"career-guide/internal/common/storage"
	coverletter "career-guide/internal/workers/ai/cover-letter"
	linkedinaudit "career-guide/internal/workers/ai/linkedin-audit"
	mockinterview "career-guide/internal/workers/ai/mock-interview"
	authlogin "career-guide/internal/workers/auth/auth-login"
	authsignup "career-guide/internal/workers/auth/auth-signup"
	predictcareer "career-guide/internal/workers/career/predict-career"
	predictstream "career-guide/internal/workers/career/predict-stream"
	searchpredictions "career-guide/internal/workers/data-access/search-predictions"
	jobinsights "career-guide/internal/workers/jobs/job-insights"
	generateportfolio "career-guide/internal/workers/portfolio/generate-portfolio"
	profilefetch "career-guide/internal/workers/profile/profile-fetch"
	profilesave "career-guide/internal/workers/profile/profile-save"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	maxJSONBytes      = 1 << 20
	maxMultipartBytes = 32 << 20
	multipartMemory   = 8 << 20
)

// ReadinessCheck reports whether a backing service is usable.
type ReadinessCheck func(ctx context.Context) error

// Dependencies wires the operations served by the API. A nil operation
// leaves its route unregistered.
type Dependencies struct {
	Signup            camunda.Executor[authsignup.Input, authsignup.Output]
	Login             camunda.Executor[authlogin.Input, authlogin.Output]
	PredictCareer     camunda.Executor[predictcareer.Input, predictcareer.Output]
	PredictStream     camunda.Executor[predictstream.Input, predictstream.Output]
	JobInsights       camunda.Executor[jobinsights.Input, jobinsights.Output]
	CoverLetter       camunda.Executor[coverletter.Input, coverletter.Output]
	SaveProfile       camunda.Executor[profilesave.Input, profilesave.Output]
	FetchProfile      camunda.Executor[profilefetch.Input, profilefetch.Output]
	AuditLinkedIn     camunda.Executor[linkedinaudit.Input, linkedinaudit.Output]
	MockInterview     camunda.Executor[mockinterview.Input, mockinterview.Output]
	GeneratePortfolio camunda.Executor[generateportfolio.Input, generateportfolio.Output]
	SearchPredictions camunda.Executor[searchpredictions.Input, searchpredictions.Output]

	// Uploads serves /uploads/{filename}. It is nil when uploads go to S3.
	Uploads *storage.LocalStore

	ReadinessChecks map[string]ReadinessCheck
	CORSOrigins     []string
	Observability   *observability.Observability
	Logger          logger.Logger
}

type Server struct {
	deps    Dependencies
	log     logger.Logger
	obs     *observability.Observability
	origins map[string]struct{}
	anyOrig bool
	handler http.Handler
}

func NewServer(deps Dependencies) *Server {
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	s := &Server{
		deps:    deps,
		log:     log.WithFields(map[string]interface{}{"component": "api"}),
		obs:     deps.Observability,
		origins: make(map[string]struct{}, len(deps.CORSOrigins)),
	}
	if len(deps.CORSOrigins) == 0 {
		s.anyOrig = true
	}
	for _, o := range deps.CORSOrigins {
		if o == "*" {
			s.anyOrig = true
		}
		s.origins[o] = struct{}{}
	}

	mux := http.NewServeMux()
	s.routes(mux)
	s.handler = s.recovery(s.requestID(s.cors(s.accessLog(mux))))
	return s
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes(mux *http.ServeMux) {
	d := s.deps

	if d.Signup != nil {
		s.handle(mux, http.MethodPost, "/signup", jsonRoute(s, d.Signup, http.StatusCreated, messageBody))
	}
	if d.Login != nil {
		s.handle(mux, http.MethodPost, "/login", jsonRoute(s, d.Login, http.StatusOK, messageBody))
	}
	if d.PredictCareer != nil {
		s.handle(mux, http.MethodPost, "/predict", jsonRoute(s, d.PredictCareer, http.StatusOK, errorBody))
	}
	if d.JobInsights != nil {
		s.handle(mux, http.MethodPost, "/job-insights", jsonRoute(s, d.JobInsights, http.StatusOK, errorBody))
	}
	if d.PredictStream != nil {
		s.handle(mux, http.MethodPost, "/api/predict_stream", jsonRoute(s, d.PredictStream, http.StatusOK, errorBody))
	}
	if d.CoverLetter != nil {
		s.handle(mux, http.MethodPost, "/api/generate_cover_letter", jsonRoute(s, d.CoverLetter, http.StatusOK, errorBody))
	}
	if d.SaveProfile != nil {
		s.handle(mux, http.MethodPost, "/api/profile", jsonRoute(s, d.SaveProfile, http.StatusOK, errorBody))
	}
	if d.FetchProfile != nil {
		s.handle(mux, http.MethodGet, "/api/profile/{email}", s.fetchProfile)
	}
	if d.AuditLinkedIn != nil {
		s.handle(mux, http.MethodPost, "/audit-linkedin", s.auditLinkedIn)
	}
	if d.MockInterview != nil {
		s.handle(mux, http.MethodPost, "/mock-interview", jsonRoute(s, d.MockInterview, http.StatusOK, errorBody))
	}
	if d.GeneratePortfolio != nil {
		s.handle(mux, http.MethodPost, "/generate-portfolio", s.generatePortfolio)
	}
	if d.SearchPredictions != nil {
		s.handle(mux, http.MethodGet, "/api/predictions", s.searchPredictions)
	}

	s.handle(mux, http.MethodGet, "/uploads/{filename}", s.serveUpload)
	s.handle(mux, http.MethodGet, "/health", s.health)
	s.handle(mux, http.MethodGet, "/ready", s.ready)
	mux.Handle("GET /metrics", promhttp.Handler())
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	failed := map[string]string{}
	for name, check := range s.deps.ReadinessChecks {
		if err := check(ctx); err != nil {
			failed[name] = err.Error()
		}
	}

	if len(failed) > 0 {
		s.log.Warn("readiness check failed", map[string]interface{}{"checks": failed})
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status": "not ready",
			"checks": failed,
			"time":   time.Now().Format(time.RFC3339),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().Format(time.RFC3339),
	})
}

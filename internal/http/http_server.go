package http

// this is entry point of the http request handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gitlab.com/fcv-2025.net/codejudge/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/codejudge/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/codejudge/internal/core/services/judge"
	"gitlab.com/fcv-2025.net/codejudge/internal/core/services/language"
	"gitlab.com/fcv-2025.net/codejudge/internal/handlers"
	"gitlab.com/fcv-2025.net/codejudge/internal/handlers/languages"
	"gitlab.com/fcv-2025.net/codejudge/internal/handlers/ratelimit"
	"gitlab.com/fcv-2025.net/codejudge/internal/handlers/response"
	"gitlab.com/fcv-2025.net/codejudge/internal/handlers/solutions"
	"gitlab.com/fcv-2025.net/codejudge/internal/handlers/submissions"
)

type ServiceProvider struct {
	judgeService judge.IJudgeService
	languages    language.ILanguageRegistry
	submissions  secondary.SubmissionRepository
	tokens       primary.TokenService
	limiter      *ratelimit.RateLimiter
}

func NewServiceProvider(
	judgeService judge.IJudgeService,
	languages language.ILanguageRegistry,
	submissions secondary.SubmissionRepository,
	tokens primary.TokenService,
	limiter *ratelimit.RateLimiter,
) *ServiceProvider {
	return &ServiceProvider{
		judgeService: judgeService,
		languages:    languages,
		submissions:  submissions,
		tokens:       tokens,
		limiter:      limiter,
	}
}

type Server struct {
	router          *mux.Router
	srv             *http.Server
	Port            int
	ServiceName     string
	ServiceProvider ServiceProvider
	logger          primary.Logger
}

func NewServer(port int, serviceName string, serviceProvider ServiceProvider, logger primary.Logger) *Server {
	return &Server{
		Port:            port,
		ServiceName:     serviceName,
		ServiceProvider: serviceProvider,
		logger:          logger,
	}
}

func (s *Server) Init() error {
	p := s.ServiceProvider
	if p.judgeService == nil || p.languages == nil || p.submissions == nil || p.tokens == nil || p.limiter == nil {
		return fmt.Errorf("%s: incomplete service provider", s.ServiceName)
	}

	r := mux.NewRouter()
	auth := handlers.New(s.ServiceProvider.tokens, s.logger).JWTMiddleware

	solutions.
		NewSolutionHandler(s.ServiceProvider.judgeService, s.logger).
		RegisterRoutes(r, auth, s.ServiceProvider.limiter.Middleware)
	submissions.
		NewSubmissionHandler(s.ServiceProvider.submissions, s.logger).
		RegisterRoutes(r, auth)
	languages.NewLanguageHandler(s.ServiceProvider.languages).RegisterRoutes(r)

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		response.WriteSuccess(w, map[string]string{"status": "ok", "service": s.ServiceName})
	}).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	s.router = r
	return nil
}

// Handler exposes the routed handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() {
	// Set up server. The write timeout leaves room for a full grading run.
	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Start the server in a goroutine
	go func() {
		s.logger.Info("Server listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server error", "error", err)
		}
	}()
}

func (s *Server) Stop(ctx context.Context) {
	s.logger.Info("Shutting down http server...")
	if s.srv == nil {
		return
	}
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Error("Server forced to shutdown", "error", err)
	}
}

package http

import (
	"context"
	"net/http"
	"time"

	"github.com/bnema/renderfarm/internal/adapter/http/middleware"
	"github.com/bnema/renderfarm/internal/adapter/http/ratelimit"
	"github.com/bnema/renderfarm/internal/domain"
	"github.com/bnema/renderfarm/internal/service"
)

// JobService is the slice of service.JobService the ingress needs.
type JobService interface {
	Submit(ctx context.Context, req service.SubmitRequest) (*domain.Job, int, error)
	Get(ctx context.Context, id int64) (*domain.Job, error)
	List(ctx context.Context, filter domain.JobFilter) ([]*domain.Job, error)
	QueuePosition(ctx context.Context, id int64) (int, error)
}

// EventSource is what the SSE endpoint subscribes to.
type EventSource interface {
	Subscribe(jobID int64) chan domain.StatusEvent
	Unsubscribe(jobID int64, ch chan domain.StatusEvent)
}

type Options struct {
	Jobs   JobService
	Events EventSource
	Auth   APIKeyValidator
	// ArtifactDir is served under /artifacts/ when set (local artifact driver).
	ArtifactDir string
	BehindProxy bool
	Version     string
}

type Server struct {
	mux         *http.ServeMux
	handlers    *Handlers
	sseHandler  *SSEHandler
	auth        APIKeyValidator
	rateLimiter *ratelimit.FailureLimiter
	behindProxy bool
	artifactDir string
}

func NewServer(opts Options) *Server {
	if opts.Auth == nil {
		opts.Auth = service.NewAPIKeyAuth("")
	}

	s := &Server{
		mux:         http.NewServeMux(),
		handlers:    NewHandlers(opts.Jobs, opts.Version),
		sseHandler:  NewSSEHandler(opts.Events, opts.Jobs),
		auth:        opts.Auth,
		rateLimiter: ratelimit.NewFailureLimiter(5, 15*time.Minute, 30*time.Minute),
		behindProxy: opts.BehindProxy,
		artifactDir: opts.ArtifactDir,
	}

	s.registerRoutes()
	s.registerArtifacts()

	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /healthz", s.handlers.Health())

	s.mux.HandleFunc("POST /jobs", s.requireAPIKey(s.handlers.Submit()))
	s.mux.HandleFunc("GET /jobs", s.requireAPIKey(s.handlers.List()))
	s.mux.HandleFunc("GET /jobs/{id}", s.requireAPIKey(s.handlers.Get()))
	s.mux.HandleFunc("GET /jobs/{id}/events", s.requireAPIKey(s.sseHandler.Events()))
	s.mux.HandleFunc("GET /jobs/{id}/view", s.requireAPIKey(s.handlers.View()))
}

func (s *Server) registerArtifacts() {
	if s.artifactDir == "" {
		return
	}
	s.mux.Handle("GET /artifacts/", http.StripPrefix("/artifacts/", http.FileServer(http.Dir(s.artifactDir))))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	middleware.RequestLogger(middleware.SecurityHeaders(s.mux)).ServeHTTP(w, r)
}

// Close releases the background rate limiter cleanup.
func (s *Server) Close() {
	s.rateLimiter.Close()
}

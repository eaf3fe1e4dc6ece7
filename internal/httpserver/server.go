package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/orgball2608/reddit-reader-bot/internal/domain"
	"github.com/orgball2608/reddit-reader-bot/internal/reddit"
	"github.com/orgball2608/reddit-reader-bot/internal/repositories/saved"
	"github.com/orgball2608/reddit-reader-bot/pkg/config"
	apperrors "github.com/orgball2608/reddit-reader-bot/pkg/errors"
	"github.com/orgball2608/reddit-reader-bot/pkg/logger"
	"github.com/samber/lo"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Saved  saved.Repository
	Reddit reddit.Client
	Logger logger.Logger
	Config *config.Config
}

// Server exposes health, a read-only view of the saved posts and single feed pages.
type Server struct {
	saved  saved.Repository
	reddit reddit.Client
	cfg    *config.Config
	logger logger.Logger
	router chi.Router
	srv    *http.Server
}

type savedResponse struct {
	Posts    []domain.Post `json:"posts"`
	Count    int           `json:"count"`
	Recovery string        `json:"recovery"`
}

type savedStatusResponse struct {
	ID    string `json:"id"`
	Saved bool   `json:"saved"`
}

type feedResponse struct {
	Subreddit string        `json:"subreddit"`
	Posts     []domain.Post `json:"posts"`
	After     string        `json:"after,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func New(opts Opts) *Server {
	s := &Server{
		saved:  opts.Saved,
		reddit: opts.Reddit,
		cfg:    opts.Config,
		logger: opts.Logger.WithComponent("HTTP"),
	}
	s.setupRoutes()
	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Config.App.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/saved", s.handleSaved)
		r.Get("/saved/{id}", s.handleSavedStatus)
		r.Get("/feed", s.handleFeed)
	})

	s.router = r
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens in the background. Listen errors are returned synchronously.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.srv.Addr, err)
	}

	s.logger.Info("Starting server", "addr", s.srv.Addr)
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server stopped", "error", err)
		}
	}()
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("Request served",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).String(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	if _, err := w.Write([]byte("ok")); err != nil {
		s.logger.Error("Failed to write response", "error", err)
	}
}

func (s *Server) handleSaved(w http.ResponseWriter, r *http.Request) {
	res := s.saved.Load()
	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))

	posts := res.Posts
	if query != "" {
		posts = lo.Filter(posts, func(p domain.Post, _ int) bool {
			return strings.Contains(strings.ToLower(p.Title), query)
		})
	}

	s.writeJSON(w, http.StatusOK, savedResponse{
		Posts:    posts,
		Count:    len(posts),
		Recovery: res.Recovery.String(),
	})
}

func (s *Server) handleSavedStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.writeJSON(w, http.StatusOK, savedStatusResponse{
		ID:    id,
		Saved: s.saved.IsSaved(id),
	})
}

// handleFeed fetches one listing page. Query parameters subreddit, limit and
// after override the configured defaults.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	builder, err := s.feedBuilder(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	page, err := s.reddit.FetchPage(r.Context(), builder)
	if err != nil {
		s.writeError(w, err)
		return
	}

	label, _ := builder.SubredditLabel()
	s.writeJSON(w, http.StatusOK, feedResponse{
		Subreddit: label,
		Posts:     page.Posts,
		After:     page.After,
	})
}

func (s *Server) feedBuilder(r *http.Request) (*reddit.URLBuilder, error) {
	q := r.URL.Query()

	builder, err := reddit.NewURLBuilder(s.cfg.Reddit.BaseURL)
	if err != nil {
		return nil, apperrors.Wrap(err, "feed is misconfigured")
	}

	subreddit := lo.CoalesceOrEmpty(q.Get("subreddit"), s.cfg.Reddit.Subreddit)
	if subreddit != "" {
		if err := builder.AddParam(reddit.ParamSubreddit, subreddit); err != nil {
			return nil, apperrors.Wrap(err, "invalid subreddit")
		}
	}

	limit := s.cfg.Reddit.PageSize
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, apperrors.WrapWithCode(apperrors.ErrInvalidURL, apperrors.CodeInvalidURL, "limit must be a positive integer")
		}
		limit = n
	}
	if limit > 0 {
		if err := builder.AddParam(reddit.ParamLimit, strconv.Itoa(limit)); err != nil {
			return nil, apperrors.Wrap(err, "invalid limit")
		}
	}

	if after := q.Get("after"); after != "" {
		if err := builder.AddParam(reddit.ParamAfter, after); err != nil {
			return nil, apperrors.Wrap(err, "invalid cursor")
		}
	}
	return builder, nil
}

// statusFor maps an error code to the HTTP status reported to the caller.
func statusFor(err error) int {
	switch apperrors.GetCode(err) {
	case apperrors.CodeInvalidURL:
		return http.StatusBadRequest
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeInvalidResponse, apperrors.CodeDecode, apperrors.CodeInvalidPost:
		return http.StatusBadGateway
	case apperrors.CodeNetwork:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	code := lo.CoalesceOrEmpty(apperrors.GetCode(err), "internal")
	s.logger.Error("Request failed", "status", status, "code", code, "error", err)
	s.writeJSON(w, status, errorResponse{
		Code:    code,
		Message: apperrors.GetMessage(err),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", "error", err)
	}
}

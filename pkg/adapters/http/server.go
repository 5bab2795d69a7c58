package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/aretw0/newsmeme/internal/logging"
	"github.com/aretw0/newsmeme/pkg/domain"
	"github.com/aretw0/newsmeme/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// UserHeader carries the acting user's name.
const UserHeader = "X-User"

// Messages of the failure envelopes, as served by the original site.
const (
	MsgLoginRequired = "Login required"
	MsgNotFound      = "Sorry, page not found"
	MsgNotAllowed    = "Sorry, not allowed"
	MsgServerError   = "Sorry, an error has occurred"
)

// ServerObserver receives one event per served action.
type ServerObserver interface {
	ActionServed(action string, result string)
}

// Server serves the newsmeme action endpoints on top of a VoteStore.
type Server struct {
	Store    ports.VoteStore
	Logger   *slog.Logger
	Observer ServerObserver
	Metrics  http.Handler

	// Moderators may delete posts and comments they did not write.
	Moderators map[string]bool
}

// ServerOption defines a functional option for configuring the Server.
type ServerOption func(*Server)

// WithServerLogger configures the structured logger.
func WithServerLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithServerObserver registers an observer of served actions.
func WithServerObserver(o ServerObserver) ServerOption {
	return func(s *Server) {
		s.Observer = o
	}
}

// WithModerators grants the named users moderator rights.
func WithModerators(names ...string) ServerOption {
	return func(s *Server) {
		if s.Moderators == nil {
			s.Moderators = make(map[string]bool, len(names))
		}
		for _, name := range names {
			s.Moderators[name] = true
		}
	}
}

// WithMetricsHandler mounts h on GET /metrics.
func WithMetricsHandler(h http.Handler) ServerOption {
	return func(s *Server) {
		s.Metrics = h
	}
}

// NewHandler creates the HTTP handler of the action server.
//
// Application failures are answered with 200 and a failure envelope, so the
// client shows their message. Only malformed traffic gets an HTTP error.
func NewHandler(store ports.VoteStore, opts ...ServerOption) http.Handler {
	s := &Server{
		Store:  store,
		Logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(s.recoverEnvelope)

	r.Get("/health", s.GetHealth)
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics)
	}

	r.Post("/post/{id}/upvote/", s.votePost("post.upvote", 1))
	r.Post("/post/{id}/downvote/", s.votePost("post.downvote", -1))
	r.Post("/post/{id}/delete/", s.DeletePost)
	r.Post("/comment/{id}/upvote/", s.voteComment("comment.upvote", 1))
	r.Post("/comment/{id}/downvote/", s.voteComment("comment.downvote", -1))
	r.Post("/comment/{id}/delete/", s.DeleteComment)

	return r
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) votePost(action string, delta int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, user, ok := s.target(w, r, action)
		if !ok {
			return
		}
		score, err := s.Store.VotePost(r.Context(), id, user, delta)
		if err != nil {
			s.fail(w, r, action, err)
			return
		}
		s.reply(w, action, domain.PostScore(id, score))
	}
}

func (s *Server) voteComment(action string, delta int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, user, ok := s.target(w, r, action)
		if !ok {
			return
		}
		score, err := s.Store.VoteComment(r.Context(), id, user, delta)
		if err != nil {
			s.fail(w, r, action, err)
			return
		}
		s.reply(w, action, domain.CommentScore(id, score))
	}
}

// DeletePost handles POST /post/{id}/delete/. The reply redirects to the front page.
func (s *Server) DeletePost(w http.ResponseWriter, r *http.Request) {
	const action = "post.delete"
	id, user, ok := s.target(w, r, action)
	if !ok {
		return
	}
	if err := s.Store.DeletePost(r.Context(), id, s.actor(user)); err != nil {
		s.fail(w, r, action, err)
		return
	}
	s.Logger.Info("Post deleted", "post_id", id, "user", user)
	s.reply(w, action, domain.Redirect("/"))
}

// DeleteComment handles POST /comment/{id}/delete/.
func (s *Server) DeleteComment(w http.ResponseWriter, r *http.Request) {
	const action = "comment.delete"
	id, user, ok := s.target(w, r, action)
	if !ok {
		return
	}
	if err := s.Store.DeleteComment(r.Context(), id, s.actor(user)); err != nil {
		s.fail(w, r, action, err)
		return
	}
	s.Logger.Info("Comment deleted", "comment_id", id, "user", user)
	s.reply(w, action, domain.CommentDeleted(id))
}

// target extracts the entity id and the acting user, replying on failure.
func (s *Server) target(w http.ResponseWriter, r *http.Request, action string) (int64, string, bool) {
	user := r.Header.Get(UserHeader)
	if user == "" {
		s.reply(w, action, domain.Failure(MsgLoginRequired))
		return 0, "", false
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		s.reply(w, action, domain.Failure(MsgNotFound))
		return 0, "", false
	}
	return id, user, true
}

func (s *Server) actor(user string) domain.Actor {
	return domain.Actor{Name: user, Moderator: s.Moderators[user]}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, action string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		s.reply(w, action, domain.Failure(MsgNotFound))
	case errors.Is(err, domain.ErrForbidden):
		s.reply(w, action, domain.Failure(MsgNotAllowed))
	default:
		s.Logger.Error("Action failed", "action", action, "request_id", middleware.GetReqID(r.Context()), "error", err)
		s.reply(w, action, domain.Failure(MsgServerError))
	}
}

func (s *Server) reply(w http.ResponseWriter, action string, resp domain.ActionResponse) {
	if s.Observer != nil {
		s.Observer.ActionServed(action, string(domain.Classify(resp)))
	}
	writeEnvelope(w, resp)
}

func writeEnvelope(w http.ResponseWriter, resp domain.ActionResponse) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("Envelope encode failed", "error", err)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.Logger.Info("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", middleware.GetReqID(r.Context()),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// recoverEnvelope turns handler panics into a failure envelope.
func (s *Server) recoverEnvelope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				s.Logger.Error("Handler panicked", "path", r.URL.Path, "panic", rec)
				writeEnvelope(w, domain.Failure(MsgServerError))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

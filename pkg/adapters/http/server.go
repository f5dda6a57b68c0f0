package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/onboarding"
	"github.com/aretw0/onboarding/pkg/domain"
	"github.com/aretw0/onboarding/pkg/profile"
	"github.com/aretw0/onboarding/pkg/session"
	"github.com/aretw0/onboarding/pkg/validation"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// Server exposes onboarding sessions to a rendering client.
// Every mutation runs under the session manager's lock, so concurrent
// submissions for one session apply one after the other.
type Server struct {
	Engine   *onboarding.Engine
	Sessions *session.Manager
	Streams  *StreamManager
	Logger   *slog.Logger
	Locale   domain.Locale

	// PingInterval is the keep-alive period of event streams.
	// Zero means DefaultPingInterval.
	PingInterval time.Duration
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger. Default slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithDefaultLocale sets the locale of sessions created without one.
func WithDefaultLocale(locale domain.Locale) Option {
	return func(s *Server) {
		s.Locale = locale
	}
}

// WithPingInterval sets the keep-alive period of event streams.
func WithPingInterval(d time.Duration) Option {
	return func(s *Server) {
		s.PingInterval = d
	}
}

// NewHandler creates the HTTP handler for engine, persisting through sessions.
func NewHandler(engine *onboarding.Engine, sessions *session.Manager, opts ...Option) http.Handler {
	server := &Server{
		Engine:   engine,
		Sessions: sessions,
		Logger:   slog.Default(),
		Locale:   domain.LocaleFR,
	}
	for _, opt := range opts {
		opt(server)
	}
	server.Streams = NewStreamManager(server.Logger)
	return server.Routes()
}

// Routes mounts every endpoint on a chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/flow", s.GetFlow)

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Post("/", s.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Get("/step", s.GetStep)
			r.Post("/responses", s.SubmitResponse)
			r.Post("/back", s.GoBack)
			r.Get("/profile", s.GetProfile)
			r.Get("/events", s.SubscribeEvents)
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SessionResponse is the body returned by every session endpoint.
type SessionResponse struct {
	State    *domain.AnswerState  `json:"state"`
	Step     *domain.ResolvedStep `json:"step,omitempty"`
	Complete bool                 `json:"complete"`
}

// CreateSessionRequest is the body of POST /sessions. Both fields are optional.
type CreateSessionRequest struct {
	SessionID string        `json:"session_id,omitempty"`
	Locale    domain.Locale `json:"locale,omitempty"`
}

// SubmitRequest is the body of POST /sessions/{id}/responses.
// Value is coerced to the current step's input kind.
type SubmitRequest struct {
	Value any `json:"value"`
}

// ErrorResponse is the body of every error status.
type ErrorResponse struct {
	Error   string              `json:"error"`
	Failure *validation.Failure `json:"failure,omitempty"`
}

// FlowResponse describes the flow served by the handler.
type FlowResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	InitialStep string     `json:"initial_step"`
	Modules     []string   `json:"modules"`
	Steps       []FlowStep `json:"steps"`
	Edges       []FlowEdge `json:"edges"`
}

// FlowStep is the static outline of a step.
type FlowStep struct {
	ID        string           `json:"id"`
	Kind      domain.StepKind  `json:"kind"`
	InputKind domain.InputKind `json:"input_kind,omitempty"`
	Minutes   int              `json:"estimated_minutes,omitempty"`
}

// FlowEdge is a transition found by the flow linter.
type FlowEdge struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Dynamic bool   `json:"dynamic,omitempty"`
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "onboarding-http",
		"version": strings.TrimSpace(onboarding.Version),
		"flow_id": s.Engine.Flow().ID,
	})
}

// GetFlow handles GET /flow.
func (s *Server) GetFlow(w http.ResponseWriter, r *http.Request) {
	flow := s.Engine.Flow()
	resp := FlowResponse{
		ID:          flow.ID,
		Name:        flow.Name,
		Description: flow.Description,
		InitialStep: flow.InitialStep,
		Modules:     flow.Modules,
		Steps:       make([]FlowStep, 0, flow.Len()),
		Edges:       []FlowEdge{},
	}
	for _, st := range flow.Steps {
		resp.Steps = append(resp.Steps, FlowStep{ID: st.ID, Kind: st.Kind, InputKind: st.InputKind, Minutes: st.EstimatedMinutes})
	}
	for _, e := range s.Engine.Report().Edges {
		resp.Edges = append(resp.Edges, FlowEdge{From: e.From, To: e.To, Dynamic: e.Dynamic})
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

// CreateSession handles POST /sessions. Creating an existing ID returns it unchanged.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var body CreateSessionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
			s.Logger.Warn("CreateSession: invalid request body", "error", err)
			return
		}
	}
	locale := body.Locale
	if locale == "" {
		locale = s.Locale
	}
	if locale != domain.LocaleFR && locale != domain.LocaleUS {
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("unsupported locale %q", locale)})
		return
	}

	var sess *onboarding.Session
	start := func(ctx context.Context, sessionID string) (*domain.AnswerState, error) {
		var err error
		sess, err = s.Engine.Start(ctx, sessionID, locale)
		if err != nil {
			return nil, err
		}
		return sess.State(), nil
	}

	id := body.SessionID
	if id == "" {
		id = uuid.NewString()
	}

	state, err := s.Sessions.LoadOrStart(r.Context(), id, start)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	status := http.StatusOK
	if sess != nil {
		status = http.StatusCreated
		s.Logger.Info("session created", "session_id", id, "locale", locale)
	}
	s.respondState(w, r, status, state)
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	state, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respondState(w, r, http.StatusOK, state)
}

// GetStep handles GET /sessions/{id}/step.
func (s *Server) GetStep(w http.ResponseWriter, r *http.Request) {
	state, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess, err := s.Engine.Resume(state)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	step, err := sess.CurrentResolvedStep()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, step)
}

// SubmitResponse handles POST /sessions/{id}/responses.
// A rejected answer yields 422 with the failure; the session is unchanged.
func (s *Server) SubmitResponse(w http.ResponseWriter, r *http.Request) {
	var body SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		s.Logger.Warn("SubmitResponse: invalid request body", "error", err)
		return
	}

	s.mutate(w, r, func(ctx context.Context, sess *onboarding.Session) error {
		return sess.SubmitRaw(ctx, body.Value)
	})
}

// GoBack handles POST /sessions/{id}/back.
func (s *Server) GoBack(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(ctx context.Context, sess *onboarding.Session) error {
		return sess.GoBack(ctx)
	})
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Sessions.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetProfile handles GET /sessions/{id}/profile.
func (s *Server) GetProfile(w http.ResponseWriter, r *http.Request) {
	state, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := profile.Decode(state)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

// mutate applies fn to the stored session under its lock, then broadcasts the diff.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, fn func(context.Context, *onboarding.Session) error) {
	id := chi.URLParam(r, "id")
	var before *domain.AnswerState

	after, err := s.Sessions.Update(r.Context(), id, func(ctx context.Context, state *domain.AnswerState) (*domain.AnswerState, error) {
		before = state
		sess, err := s.Engine.Resume(state)
		if err != nil {
			return nil, err
		}
		if err := fn(ctx, sess); err != nil {
			return nil, err
		}
		return sess.State(), nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if diff := domain.Diff(before, after); diff != nil && !diff.IsEmpty() {
		if payload, err := json.Marshal(diff); err == nil {
			s.Streams.Broadcast(id, string(payload))
		}
	}
	s.respondState(w, r, http.StatusOK, after)
}

func (s *Server) respondState(w http.ResponseWriter, r *http.Request, status int, state *domain.AnswerState) {
	resp := SessionResponse{State: state, Complete: state.IsComplete()}
	if !resp.Complete {
		sess, err := s.Engine.Resume(state)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		step, err := sess.CurrentResolvedStep()
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		resp.Step = &step
	}
	s.writeJSON(w, status, resp)
}

// statusFor maps engine errors to HTTP statuses.
func statusFor(err error) int {
	var unknown *domain.UnknownStepError
	var cycle *domain.NavigationCycleError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrFlowComplete), errors.Is(err, domain.ErrNoHistory):
		return http.StatusConflict
	case errors.As(err, &unknown), errors.As(err, &cycle):
		return http.StatusInternalServerError
	}
	if _, ok := validation.AsFailure(err); ok {
		return http.StatusUnprocessableEntity
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	resp := ErrorResponse{Error: err.Error()}
	if failure, ok := validation.AsFailure(err); ok {
		resp.Failure = failure
	}
	if status >= http.StatusInternalServerError {
		s.Logger.Error("request failed", "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "error", err)
	} else {
		s.Logger.Debug("request rejected", "path", r.URL.Path, "status", status, "error", err)
	}
	s.writeJSON(w, status, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "error", err)
	}
}

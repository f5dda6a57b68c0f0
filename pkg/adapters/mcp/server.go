// Package mcp exposes onboarding sessions as Model Context Protocol tools, so
// an agent can walk a user through the questionnaire.
package mcp

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
	"github.com/aretw0/onboarding/internal/presentation/graph"
	"github.com/aretw0/onboarding/pkg/domain"
	"github.com/aretw0/onboarding/pkg/profile"
	"github.com/aretw0/onboarding/pkg/runner"
	"github.com/aretw0/onboarding/pkg/session"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// FlowResourceURI is the resource serving the Mermaid diagram of the flow.
const FlowResourceURI = "onboarding://flow"

// SessionView is the structured result of every session tool.
type SessionView struct {
	SessionID string               `json:"session_id" jsonschema_description:"The session the result belongs to"`
	Step      *domain.ResolvedStep `json:"step,omitempty" jsonschema_description:"The step to present next, absent once complete"`
	Progress  domain.Progress      `json:"progress" jsonschema_description:"Progress and remaining time estimate"`
	Modules   []string             `json:"selected_modules" jsonschema_description:"Modules selected so far"`
	Complete  bool                 `json:"complete" jsonschema_description:"Indicates if the questionnaire is finished"`
}

// Server wraps the onboarding engine and exposes it as an MCP Server.
type Server struct {
	engine    *onboarding.Engine
	sessions  *session.Manager
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine *onboarding.Engine, sessions *session.Manager, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		engine:    engine,
		sessions:  sessions,
		logger:    logger,
		mcpServer: server.NewMCPServer("onboarding-mcp", strings.TrimSpace(onboarding.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on addr until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("start_session",
		mcp.WithDescription("Start an onboarding session, or return the existing one with that ID."),
		mcp.WithString("session_id", mcp.Description("Session ID (optional, generated when omitted)")),
		mcp.WithString("locale", mcp.Description("Locale of a new session: fr or us (optional)")),
		mcp.WithOutputSchema[SessionView](),
	), mcp.NewStructuredToolHandler(s.handleStartSession))

	s.mcpServer.AddTool(mcp.NewTool("get_step",
		mcp.WithDescription("Render the current step of a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithOutputSchema[SessionView](),
	), mcp.NewStructuredToolHandler(s.handleGetStep))

	s.mcpServer.AddTool(mcp.NewTool("submit_response",
		mcp.WithDescription("Answer the current step. A rejected answer returns the validation message and leaves the session unchanged."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithString("value", mcp.Description("The answer: JSON for lists, numbers, booleans and groups, plain text otherwise. Omit to skip an optional step.")),
		mcp.WithOutputSchema[SessionView](),
	), mcp.NewStructuredToolHandler(s.handleSubmit))

	s.mcpServer.AddTool(mcp.NewTool("go_back",
		mcp.WithDescription("Return to the previously answered step."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithOutputSchema[SessionView](),
	), mcp.NewStructuredToolHandler(s.handleGoBack))

	s.mcpServer.AddTool(mcp.NewTool("get_profile",
		mcp.WithDescription("Get the typed profile built from the answers of a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithOutputSchema[profile.Profile](),
	), mcp.NewStructuredToolHandler(s.handleGetProfile))

	s.mcpServer.AddTool(mcp.NewTool("get_flow",
		mcp.WithDescription("Get the flow as a Mermaid diagram for introspection."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(s.flowDiagram()), nil
	})
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(FlowResourceURI, "Onboarding flow diagram",
		mcp.WithMIMEType("text/vnd.mermaid"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      FlowResourceURI,
				MIMEType: "text/vnd.mermaid",
				Text:     s.flowDiagram(),
			},
		}, nil
	})
}

func (s *Server) flowDiagram() string {
	return graph.GenerateMermaid(s.engine.Flow(), s.engine.Report().Edges, nil)
}

func (s *Server) handleStartSession(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SessionView, error) {
	id, _ := args["session_id"].(string)
	if id == "" {
		id = uuid.NewString()
	}
	locale := domain.LocaleFR
	if l, _ := args["locale"].(string); l != "" {
		locale = domain.Locale(strings.ToLower(l))
	}
	if locale != domain.LocaleFR && locale != domain.LocaleUS {
		return SessionView{}, fmt.Errorf("unsupported locale %q", locale)
	}

	state, err := s.sessions.LoadOrStart(ctx, id, func(ctx context.Context, sessionID string) (*domain.AnswerState, error) {
		sess, err := s.engine.Start(ctx, sessionID, locale)
		if err != nil {
			return nil, err
		}
		s.logger.Info("MCP session started", "session_id", sessionID, "locale", locale)
		return sess.State(), nil
	})
	if err != nil {
		return SessionView{}, err
	}
	return s.view(state)
}

func (s *Server) handleGetStep(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SessionView, error) {
	id, err := sessionID(args)
	if err != nil {
		return SessionView{}, err
	}
	state, err := s.sessions.Load(ctx, id)
	if err != nil {
		return SessionView{}, err
	}
	return s.view(state)
}

func (s *Server) handleSubmit(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SessionView, error) {
	id, err := sessionID(args)
	if err != nil {
		return SessionView{}, err
	}
	raw, err := parseValue(args["value"])
	if err != nil {
		s.logger.Warn("MCP submit: input rejected", "session_id", id, "error", err)
		return SessionView{}, fmt.Errorf("input rejected: %w", err)
	}
	return s.mutate(ctx, id, func(ctx context.Context, sess *onboarding.Session) error {
		return sess.SubmitRaw(ctx, raw)
	})
}

func (s *Server) handleGoBack(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SessionView, error) {
	id, err := sessionID(args)
	if err != nil {
		return SessionView{}, err
	}
	return s.mutate(ctx, id, func(ctx context.Context, sess *onboarding.Session) error {
		return sess.GoBack(ctx)
	})
}

func (s *Server) handleGetProfile(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (profile.Profile, error) {
	id, err := sessionID(args)
	if err != nil {
		return profile.Profile{}, err
	}
	state, err := s.sessions.Load(ctx, id)
	if err != nil {
		return profile.Profile{}, err
	}
	return profile.Decode(state)
}

func (s *Server) mutate(ctx context.Context, id string, fn func(context.Context, *onboarding.Session) error) (SessionView, error) {
	state, err := s.sessions.Update(ctx, id, func(ctx context.Context, state *domain.AnswerState) (*domain.AnswerState, error) {
		sess, err := s.engine.Resume(state)
		if err != nil {
			return nil, err
		}
		if err := fn(ctx, sess); err != nil {
			return nil, err
		}
		return sess.State(), nil
	})
	if err != nil {
		return SessionView{}, err
	}
	return s.view(state)
}

func (s *Server) view(state *domain.AnswerState) (SessionView, error) {
	v := SessionView{
		SessionID: state.SessionID,
		Progress:  state.Progress,
		Modules:   state.SelectedModules,
		Complete:  state.IsComplete(),
	}
	if v.Complete {
		return v, nil
	}
	sess, err := s.engine.Resume(state)
	if err != nil {
		return SessionView{}, err
	}
	step, err := sess.CurrentResolvedStep()
	if err != nil {
		return SessionView{}, err
	}
	v.Step = &step
	return v, nil
}

func sessionID(args map[string]interface{}) (string, error) {
	id, _ := args["session_id"].(string)
	if id == "" {
		return "", fmt.Errorf("%w: session_id is required", domain.ErrInvalidInput)
	}
	return id, nil
}

// parseValue turns a tool argument into a raw answer. Strings holding JSON
// (lists, numbers, booleans, objects) are decoded; other strings are text.
func parseValue(arg any) (any, error) {
	text, ok := arg.(string)
	if !ok {
		return arg, nil
	}
	clean, err := runner.SanitizeInput(text)
	if err != nil {
		return nil, err
	}
	trimmed := strings.TrimSpace(clean)
	if trimmed == "" {
		return nil, nil
	}
	var decoded any
	if err := json.Unmarshal([]byte(trimmed), &decoded); err == nil {
		return decoded, nil
	}
	return clean, nil
}

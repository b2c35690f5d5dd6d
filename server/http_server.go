// Package server hosts the two front-ends: a request/response HTTP API
// and a websocket chat endpoint. Both relay user text to the agent and
// persist the session after each turn.
package server

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/bytedance/sonic"

	"github.com/cervezafortuna/cicerone/config"
	"github.com/cervezafortuna/cicerone/messages"
	"github.com/cervezafortuna/cicerone/session"
)

// maxRequestBody caps POST /invocations payloads at 1MB.
const maxRequestBody = 1 << 20

// Converser produces one agent reply per user turn.
type Converser interface {
	Converse(ctx context.Context, sess *session.TastingSession, text string) (string, error)
}

type HTTPServer struct {
	httpServer     *http.Server
	sessionManager *session.Manager
	agent          Converser
	config         *config.Config
}

func NewHTTPServer(cfg *config.Config, sessionManager *session.Manager, ag Converser) *HTTPServer {
	s := &HTTPServer{
		sessionManager: sessionManager,
		agent:          ag,
		config:         cfg,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/invocations", s.handleInvocation)
	mux.HandleFunc("/health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: mux,
		// No WriteTimeout. Agent turns can take longer than a typical
		// request while the model resolves tool calls.
		ReadTimeout: 30 * time.Second,
	}

	return s
}

// Start begins listening for connections
func (s *HTTPServer) Start() error {
	log.Printf("🚀 HTTP server starting on port %d", s.config.Port)
	log.Printf("📡 Invocation endpoint: http://localhost:%d/invocations", s.config.Port)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	log.Println("🛑 Shutting down HTTP server...")
	return s.httpServer.Shutdown(ctx)
}

func (s *HTTPServer) handleInvocation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed,
			messages.NewInvocationError("", messages.ApologyValidation, "method not allowed"))
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest,
			messages.NewInvocationError("", messages.ApologyValidation, "failed to read request body"))
		return
	}

	var req messages.InvocationRequest
	if err := sonic.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest,
			messages.NewInvocationError("", messages.ApologyValidation, "invalid JSON payload"))
		return
	}

	text, ok := req.UserMessage()
	if !ok {
		writeJSON(w, http.StatusBadRequest,
			messages.NewInvocationError(req.Session(), messages.ApologyValidation, "no message provided"))
		return
	}

	sessionID := req.Session()
	if sessionID == "" {
		sessionID = session.NewSessionID()
	}

	sess, err := s.sessionManager.GetOrCreate(r.Context(), sessionID, req.User())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable,
			messages.NewInvocationError(sessionID, messages.ApologyInternal, err.Error()))
		return
	}

	sess.Lock()
	defer sess.Unlock()

	reply, err := s.agent.Converse(r.Context(), sess, text)
	if err != nil {
		log.Printf("❌ Agent error for session %s: %v", sessionID, err)
		writeJSON(w, http.StatusInternalServerError,
			messages.NewInvocationError(sessionID, messages.ApologyInternal, "agent invocation failed"))
		return
	}

	if err := s.sessionManager.Save(r.Context(), sess); err != nil {
		log.Printf("⚠️ Failed to persist session %s: %v", sessionID, err)
	}

	writeJSON(w, http.StatusOK, messages.NewInvocationResponse(sessionID, reply, sessionMetadata(sess)))
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ok","sessions":%d}`, s.sessionManager.Count())
}

func sessionMetadata(sess *session.TastingSession) *messages.InvocationMetadata {
	return &messages.InvocationMetadata{
		BeersTastedCount:     len(sess.BeersTasted),
		HasPreferenceProfile: sess.Profile != nil || len(sess.Preferences) > 0,
		MessageCount:         len(sess.History),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := sonic.Marshal(v)
	if err != nil {
		log.Printf("❌ Failed to encode response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

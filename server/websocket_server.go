package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"github.com/cervezafortuna/cicerone/config"
	"github.com/cervezafortuna/cicerone/messages"
	"github.com/cervezafortuna/cicerone/session"
)

type WebsocketServer struct {
	httpServer     *http.Server
	upgrader       websocket.Upgrader
	sessionManager *session.Manager
	agent          Converser
	config         *config.Config
}

func NewWebsocketServer(cfg *config.Config, sessionManager *session.Manager, ag Converser) *WebsocketServer {
	s := &WebsocketServer{
		sessionManager: sessionManager,
		agent:          ag,
		config:         cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:    4 * 1024,
			WriteBufferSize:   4 * 1024,
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				// Check allowed origins
				origin := r.Header.Get("Origin")
				for _, allowed := range cfg.AllowedOrigins {
					if allowed == "*" || allowed == origin {
						return true
					}
				}
				return false
			},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	// When running as the standalone front-end, take the main port.
	port := cfg.WebsocketPort
	if cfg.ServerType == "websocket" {
		port = cfg.Port
	}

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
		// No ReadTimeout/WriteTimeout. These interfere with long-lived
		// WebSocket connections; deadlines are set per message instead.
	}

	return s
}

// Start begins listening for connections
func (s *WebsocketServer) Start() error {
	log.Printf("🚀 WebSocket server starting on %s", s.httpServer.Addr)
	log.Printf("📡 WebSocket endpoint: ws://localhost%s/ws", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server
func (s *WebsocketServer) Shutdown(ctx context.Context) error {
	log.Println("🛑 Shutting down WebSocket server...")
	return s.httpServer.Shutdown(ctx)
}

func (s *WebsocketServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// Each connection gets its own tasting session.
	sessionID := session.NewSessionID()
	sess, err := s.sessionManager.GetOrCreate(r.Context(), sessionID, "")
	if err != nil {
		log.Printf("Failed to create session: %v", err)
		_ = writeMessage(conn, messages.NewErrorMessage("", messages.ErrCodeSessionFailed, err.Error()))
		return
	}

	log.Printf("✅ New WebSocket session: %s", sessionID)
	_ = writeMessage(conn, messages.NewStatusMessage(sessionID, "connected", "Session established"))

	// Messages are handled sequentially. A turn must complete before
	// the next one is read, matching the conversational flow.
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("⚠️ WebSocket read error: %v", err)
			}
			break
		}

		var msg messages.ClientMessage
		if err := sonic.Unmarshal(data, &msg); err != nil {
			_ = writeMessage(conn, messages.NewErrorMessage(sessionID, messages.ErrCodeInvalidMessage, "invalid JSON message"))
			continue
		}

		switch msg.Type {
		case messages.TypeText:
			s.handleTextMessage(r.Context(), conn, sess, msg)
		case messages.TypeControl:
			s.handleControlMessage(conn, sessionID, msg)
		default:
			_ = writeMessage(conn, messages.NewErrorMessage(sessionID, messages.ErrCodeInvalidMessage,
				fmt.Sprintf("unknown message type: %s", msg.Type)))
		}
	}

	_ = s.sessionManager.Save(context.Background(), sess)
	log.Printf("🔌 WebSocket session closed: %s", sessionID)
}

func (s *WebsocketServer) handleTextMessage(ctx context.Context, conn *websocket.Conn, sess *session.TastingSession, msg messages.ClientMessage) {
	var payload messages.TextPayload
	if err := sonic.Unmarshal(msg.Payload, &payload); err != nil || payload.Text == "" {
		_ = writeMessage(conn, messages.NewErrorMessage(sess.ID, messages.ErrCodeInvalidMessage, "text payload requires a non-empty text field"))
		return
	}

	sess.Lock()
	reply, err := s.agent.Converse(ctx, sess, payload.Text)
	sess.Unlock()
	if err != nil {
		log.Printf("❌ Agent error for session %s: %v", sess.ID, err)
		_ = writeMessage(conn, messages.NewErrorMessage(sess.ID, messages.ErrCodeAgentError, messages.ApologyInternal))
		return
	}

	if err := s.sessionManager.Save(ctx, sess); err != nil {
		log.Printf("⚠️ Failed to persist session %s: %v", sess.ID, err)
	}
	_ = writeMessage(conn, messages.NewTextMessage(sess.ID, reply))
}

func (s *WebsocketServer) handleControlMessage(conn *websocket.Conn, sessionID string, msg messages.ClientMessage) {
	var payload messages.ControlPayload
	if err := sonic.Unmarshal(msg.Payload, &payload); err != nil {
		_ = writeMessage(conn, messages.NewErrorMessage(sessionID, messages.ErrCodeInvalidMessage, "invalid control payload"))
		return
	}
	switch payload.Action {
	case "ping":
		_ = writeMessage(conn, messages.NewStatusMessage(sessionID, "pong", ""))
	default:
		_ = writeMessage(conn, messages.NewErrorMessage(sessionID, messages.ErrCodeInvalidMessage,
			fmt.Sprintf("unknown control action: %s", payload.Action)))
	}
}

func (s *WebsocketServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ok","server":"websocket","sessions":%d}`, s.sessionManager.Count())
}

func writeMessage(conn *websocket.Conn, msg *messages.ServerMessage) error {
	data, err := sonic.Marshal(msg)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, data)
}

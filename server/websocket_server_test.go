package server

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"github.com/cervezafortuna/cicerone/config"
	"github.com/cervezafortuna/cicerone/messages"
	"github.com/cervezafortuna/cicerone/session"
)

var errTest = errors.New("model unavailable")

func dialTestWebsocket(t *testing.T, ag Converser) *websocket.Conn {
	t.Helper()
	cfg := &config.Config{
		CacheDir:       t.TempDir(),
		MaxSessions:    10,
		SessionTimeout: time.Hour,
		RedisURL:       "localhost:0",
		AllowedOrigins: []string{"*"},
	}
	mgr, err := session.NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	t.Cleanup(mgr.Shutdown)

	s := NewWebsocketServer(cfg, mgr, ag)
	srv := httptest.NewServer(s.httpServer.Handler)
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readServerMessage(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read message: %v", err)
	}
	var msg map[string]any
	if err := sonic.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode message: %v", err)
	}
	return msg
}

func sendClientMessage(t *testing.T, conn *websocket.Conn, raw string) {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(raw)); err != nil {
		t.Fatalf("write message: %v", err)
	}
}

func TestWebsocketConversation(t *testing.T) {
	conn := dialTestWebsocket(t, &stubAgent{})

	hello := readServerMessage(t, conn)
	if hello["type"] != messages.TypeStatus {
		t.Fatalf("expected status greeting, got %+v", hello)
	}
	sessionID, _ := hello["sessionId"].(string)
	if sessionID == "" {
		t.Fatal("greeting should carry the session id")
	}

	sendClientMessage(t, conn, `{"type":"text","payload":{"text":"Hola"}}`)
	reply := readServerMessage(t, conn)
	if reply["type"] != messages.TypeText {
		t.Fatalf("expected text reply, got %+v", reply)
	}
	if reply["sessionId"] != sessionID {
		t.Errorf("reply session id mismatch: %v", reply["sessionId"])
	}
	payload := reply["payload"].(map[string]any)
	if payload["text"] != "🍺 Hola" {
		t.Errorf("unexpected reply text: %v", payload["text"])
	}
}

func TestWebsocketPing(t *testing.T) {
	conn := dialTestWebsocket(t, &stubAgent{})
	readServerMessage(t, conn) // greeting

	sendClientMessage(t, conn, `{"type":"control","payload":{"action":"ping"}}`)
	pong := readServerMessage(t, conn)
	if pong["type"] != messages.TypeStatus {
		t.Fatalf("expected status message, got %+v", pong)
	}
	payload := pong["payload"].(map[string]any)
	if payload["status"] != "pong" {
		t.Errorf("expected pong, got %v", payload["status"])
	}
}

func TestWebsocketInvalidMessages(t *testing.T) {
	conn := dialTestWebsocket(t, &stubAgent{})
	readServerMessage(t, conn) // greeting

	cases := []struct {
		raw  string
		code string
	}{
		{`{not json`, messages.ErrCodeInvalidMessage},
		{`{"type":"audio","payload":{}}`, messages.ErrCodeInvalidMessage},
		{`{"type":"text","payload":{"text":""}}`, messages.ErrCodeInvalidMessage},
		{`{"type":"control","payload":{"action":"dance"}}`, messages.ErrCodeInvalidMessage},
	}
	for _, tt := range cases {
		sendClientMessage(t, conn, tt.raw)
		msg := readServerMessage(t, conn)
		if msg["type"] != messages.TypeError {
			t.Fatalf("expected error for %q, got %+v", tt.raw, msg)
		}
		payload := msg["payload"].(map[string]any)
		if payload["code"] != tt.code {
			t.Errorf("expected code %s for %q, got %v", tt.code, tt.raw, payload["code"])
		}
	}
}

func TestWebsocketAgentError(t *testing.T) {
	conn := dialTestWebsocket(t, &stubAgent{err: errTest})
	readServerMessage(t, conn) // greeting

	sendClientMessage(t, conn, `{"type":"text","payload":{"text":"Hola"}}`)
	msg := readServerMessage(t, conn)
	if msg["type"] != messages.TypeError {
		t.Fatalf("expected error message, got %+v", msg)
	}
	payload := msg["payload"].(map[string]any)
	if payload["code"] != messages.ErrCodeAgentError {
		t.Errorf("expected agent error code, got %v", payload["code"])
	}
}

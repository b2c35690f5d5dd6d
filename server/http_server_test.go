package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"

	"github.com/cervezafortuna/cicerone/config"
	"github.com/cervezafortuna/cicerone/messages"
	"github.com/cervezafortuna/cicerone/session"
)

// stubAgent echoes the user text, optionally failing, and appends
// history the way the real agent does.
type stubAgent struct {
	err error
}

func (a *stubAgent) Converse(ctx context.Context, sess *session.TastingSession, text string) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	reply := "🍺 " + text
	sess.AppendHistory("user", text)
	sess.AppendHistory("assistant", reply)
	return reply, nil
}

func testHTTPServer(t *testing.T, ag Converser) (*httptest.Server, *session.Manager) {
	t.Helper()
	cfg := &config.Config{
		Port:           0,
		CacheDir:       t.TempDir(),
		MaxSessions:    10,
		SessionTimeout: time.Hour,
		RedisURL:       "localhost:0",
	}
	mgr, err := session.NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	t.Cleanup(mgr.Shutdown)

	s := NewHTTPServer(cfg, mgr, ag)
	srv := httptest.NewServer(s.httpServer.Handler)
	t.Cleanup(srv.Close)
	return srv, mgr
}

func postInvocation(t *testing.T, url, body string) (*http.Response, *messages.InvocationResponse) {
	t.Helper()
	httpResp, err := http.Post(url+"/invocations", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /invocations: %v", err)
	}
	t.Cleanup(func() { httpResp.Body.Close() })

	var resp messages.InvocationResponse
	if err := sonic.ConfigDefault.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return httpResp, &resp
}

func TestInvocationSuccess(t *testing.T) {
	srv, _ := testHTTPServer(t, &stubAgent{})

	httpResp, resp := postInvocation(t, srv.URL, `{"prompt":"Hola"}`)
	if httpResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", httpResp.StatusCode)
	}
	if resp.Status != "success" {
		t.Errorf("expected success status, got %q", resp.Status)
	}
	if resp.Response != "🍺 Hola" {
		t.Errorf("unexpected reply: %q", resp.Response)
	}
	if resp.SessionID == "" {
		t.Error("expected a generated session id")
	}
	if resp.Metadata == nil || resp.Metadata.MessageCount != 2 {
		t.Errorf("unexpected metadata: %+v", resp.Metadata)
	}
}

func TestInvocationKeepsSession(t *testing.T) {
	srv, _ := testHTTPServer(t, &stubAgent{})

	_, first := postInvocation(t, srv.URL, `{"message":"Hola"}`)
	body := fmt.Sprintf(`{"message":"Otra","sessionId":%q}`, first.SessionID)
	_, second := postInvocation(t, srv.URL, body)

	if second.SessionID != first.SessionID {
		t.Errorf("session id changed between turns: %q vs %q", first.SessionID, second.SessionID)
	}
	if second.Metadata == nil || second.Metadata.MessageCount != 4 {
		t.Errorf("expected 4 history messages after two turns, got %+v", second.Metadata)
	}
}

func TestInvocationMalformedJSON(t *testing.T) {
	srv, _ := testHTTPServer(t, &stubAgent{})

	httpResp, resp := postInvocation(t, srv.URL, `{not json`)
	if httpResp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", httpResp.StatusCode)
	}
	if resp.Status != "error" || resp.Response != messages.ApologyValidation {
		t.Errorf("expected validation apology, got %+v", resp)
	}
}

func TestInvocationMissingMessage(t *testing.T) {
	srv, _ := testHTTPServer(t, &stubAgent{})

	httpResp, resp := postInvocation(t, srv.URL, `{"session_id":"s-1"}`)
	if httpResp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", httpResp.StatusCode)
	}
	if resp.Response != messages.ApologyValidation {
		t.Errorf("expected validation apology, got %q", resp.Response)
	}
	if resp.SessionID != "s-1" {
		t.Errorf("error envelope should echo the session id, got %q", resp.SessionID)
	}
}

func TestInvocationAgentFailure(t *testing.T) {
	srv, _ := testHTTPServer(t, &stubAgent{err: errors.New("model unavailable")})

	httpResp, resp := postInvocation(t, srv.URL, `{"prompt":"Hola"}`)
	if httpResp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", httpResp.StatusCode)
	}
	if resp.Response != messages.ApologyInternal {
		t.Errorf("expected internal apology, got %q", resp.Response)
	}
}

func TestInvocationMethodNotAllowed(t *testing.T) {
	srv, _ := testHTTPServer(t, &stubAgent{})

	httpResp, err := http.Get(srv.URL + "/invocations")
	if err != nil {
		t.Fatalf("GET /invocations: %v", err)
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", httpResp.StatusCode)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv, mgr := testHTTPServer(t, &stubAgent{})
	if _, err := mgr.GetOrCreate(context.Background(), "s-1", ""); err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	httpResp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", httpResp.StatusCode)
	}

	var health struct {
		Status   string `json:"status"`
		Sessions int    `json:"sessions"`
	}
	if err := sonic.ConfigDefault.NewDecoder(httpResp.Body).Decode(&health); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if health.Status != "ok" || health.Sessions != 1 {
		t.Errorf("unexpected health payload: %+v", health)
	}
}

package messages

import (
	"testing"

	"github.com/bytedance/sonic"
)

func TestUserMessageAliases(t *testing.T) {
	tests := []struct {
		name string
		req  InvocationRequest
		want string
		ok   bool
	}{
		{"prompt", InvocationRequest{Prompt: "hola"}, "hola", true},
		{"message", InvocationRequest{Message: "hola"}, "hola", true},
		{"input", InvocationRequest{Input: "hola"}, "hola", true},
		{"prompt wins", InvocationRequest{Prompt: "p", Message: "m", Input: "i"}, "p", true},
		{"message over input", InvocationRequest{Message: "m", Input: "i"}, "m", true},
		{"trimmed", InvocationRequest{Prompt: "  hola  "}, "hola", true},
		{"whitespace falls through", InvocationRequest{Prompt: "   ", Message: "m"}, "m", true},
		{"empty", InvocationRequest{}, "", false},
		{"all whitespace", InvocationRequest{Prompt: " ", Message: "\t"}, "", false},
	}
	for _, tt := range tests {
		got, ok := tt.req.UserMessage()
		if got != tt.want || ok != tt.ok {
			t.Errorf("%s: UserMessage() = (%q, %v), want (%q, %v)", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSessionAndUserAliases(t *testing.T) {
	req := InvocationRequest{SessionIDAlt: "camel", UserIDAlt: "camel-user"}
	if req.Session() != "camel" {
		t.Errorf("expected camelCase session alias, got %q", req.Session())
	}
	if req.User() != "camel-user" {
		t.Errorf("expected camelCase user alias, got %q", req.User())
	}

	req.SessionID = "snake"
	req.UserID = "snake-user"
	if req.Session() != "snake" {
		t.Errorf("snake_case session id should win, got %q", req.Session())
	}
	if req.User() != "snake-user" {
		t.Errorf("snake_case user id should win, got %q", req.User())
	}
}

func TestInvocationRequestDecoding(t *testing.T) {
	payload := `{"message":"Quiero catar una IPA","sessionId":"s-1","userId":"u-1"}`
	var req InvocationRequest
	if err := sonic.UnmarshalString(payload, &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	text, ok := req.UserMessage()
	if !ok || text != "Quiero catar una IPA" {
		t.Errorf("unexpected message: %q", text)
	}
	if req.Session() != "s-1" || req.User() != "u-1" {
		t.Errorf("aliases not decoded: %+v", req)
	}
}

func TestInvocationResponseEnvelopes(t *testing.T) {
	ok := NewInvocationResponse("s-1", "¡Salud!", &InvocationMetadata{BeersTastedCount: 2, MessageCount: 4})
	if ok.Status != "success" || ok.Error != "" {
		t.Errorf("unexpected success envelope: %+v", ok)
	}

	fail := NewInvocationError("s-1", ApologyInternal, "boom")
	if fail.Status != "error" || fail.Response != ApologyInternal || fail.Error != "boom" {
		t.Errorf("unexpected error envelope: %+v", fail)
	}
	if fail.Metadata != nil {
		t.Error("error envelope should not carry metadata")
	}
}

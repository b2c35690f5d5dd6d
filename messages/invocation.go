package messages

import "strings"

// User facing apology strings returned when a request cannot be served.
const (
	ApologyValidation = "Lo siento, hubo un problema con tu mensaje. ¿Podrías intentarlo de nuevo?"
	ApologyInternal   = "Lo siento, ocurrió un error inesperado. Por favor, intenta de nuevo en un momento."
)

// InvocationRequest is the POST /invocations payload. Clients built
// against earlier revisions of the API use different field names for
// the same data, so each field carries its aliases.
type InvocationRequest struct {
	Prompt  string `json:"prompt,omitempty"`
	Message string `json:"message,omitempty"`
	Input   string `json:"input,omitempty"`

	SessionID    string `json:"session_id,omitempty"`
	SessionIDAlt string `json:"sessionId,omitempty"`

	UserID    string `json:"user_id,omitempty"`
	UserIDAlt string `json:"userId,omitempty"`
}

// UserMessage resolves the message text across its aliases, preferring
// prompt over message over input. Whitespace-only text is rejected.
func (r *InvocationRequest) UserMessage() (string, bool) {
	for _, candidate := range []string{r.Prompt, r.Message, r.Input} {
		if text := strings.TrimSpace(candidate); text != "" {
			return text, true
		}
	}
	return "", false
}

// Session resolves the session id across its aliases. Empty means the
// server should start a new session.
func (r *InvocationRequest) Session() string {
	if r.SessionID != "" {
		return r.SessionID
	}
	return r.SessionIDAlt
}

// User resolves the user id across its aliases.
func (r *InvocationRequest) User() string {
	if r.UserID != "" {
		return r.UserID
	}
	return r.UserIDAlt
}

// InvocationMetadata summarizes session progress for the client UI.
type InvocationMetadata struct {
	BeersTastedCount     int  `json:"beers_tasted_count"`
	HasPreferenceProfile bool `json:"has_preference_profile"`
	MessageCount         int  `json:"message_count"`
}

// InvocationResponse is the POST /invocations reply envelope.
type InvocationResponse struct {
	Response  string              `json:"response"`
	SessionID string              `json:"session_id"`
	Status    string              `json:"status"`
	Metadata  *InvocationMetadata `json:"metadata,omitempty"`
	Error     string              `json:"error,omitempty"`
}

// NewInvocationResponse builds a success envelope.
func NewInvocationResponse(sessionID, reply string, meta *InvocationMetadata) *InvocationResponse {
	return &InvocationResponse{
		Response:  reply,
		SessionID: sessionID,
		Status:    "success",
		Metadata:  meta,
	}
}

// NewInvocationError builds an error envelope carrying an apology the
// client can show directly.
func NewInvocationError(sessionID, apology, detail string) *InvocationResponse {
	return &InvocationResponse{
		Response:  apology,
		SessionID: sessionID,
		Status:    "error",
		Error:     detail,
	}
}

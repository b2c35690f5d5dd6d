// Package agent drives conversations with the Gemini model. It builds
// a chat from the stored session history, sends the user turn and
// resolves function calls through the tool registry until the model
// produces a text reply.
package agent

import (
	"context"
	"fmt"
	"log"

	"google.golang.org/genai"

	"github.com/cervezafortuna/cicerone/config"
	"github.com/cervezafortuna/cicerone/functions"
	"github.com/cervezafortuna/cicerone/session"
)

// maxToolRounds bounds the function call loop so a model stuck calling
// tools cannot spin forever.
const maxToolRounds = 8

type Agent struct {
	client   *genai.Client
	model    string
	registry *functions.Registry
}

func New(ctx context.Context, cfg *config.Config, registry *functions.Registry) (*Agent, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	log.Printf("✅ Gemini client initialized (model: %s)", cfg.GeminiModel)
	return &Agent{
		client:   client,
		model:    cfg.GeminiModel,
		registry: registry,
	}, nil
}

// Converse sends one user message within the given tasting session and
// returns the model's reply. Both turns are appended to the session
// history on success; the caller is responsible for persisting the
// session afterwards.
func (a *Agent) Converse(ctx context.Context, sess *session.TastingSession, text string) (string, error) {
	ctx = functions.WithSessionID(ctx, sess.ID)

	chat, err := a.client.Chats.Create(ctx, a.model, a.chatConfig(), historyContents(sess))
	if err != nil {
		return "", fmt.Errorf("failed to create chat: %w", err)
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: text})
	if err != nil {
		return "", fmt.Errorf("failed to send message: %w", err)
	}

	for round := 0; round < maxToolRounds; round++ {
		calls := resp.FunctionCalls()
		if len(calls) == 0 {
			break
		}
		parts := make([]genai.Part, 0, len(calls))
		for _, call := range calls {
			result := a.registry.Dispatch(ctx, call.Name, call.Args)
			parts = append(parts, genai.Part{
				FunctionResponse: &genai.FunctionResponse{
					ID:       call.ID,
					Name:     call.Name,
					Response: result,
				},
			})
		}
		resp, err = chat.SendMessage(ctx, parts...)
		if err != nil {
			return "", fmt.Errorf("failed to send function responses: %w", err)
		}
	}

	reply := resp.Text()
	if reply == "" {
		return "", fmt.Errorf("model returned an empty reply")
	}

	_ = sess.AppendHistory("user", text)
	_ = sess.AppendHistory("assistant", reply)
	return reply, nil
}

func (a *Agent) chatConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: SystemPrompt}},
		},
		Tools: []*genai.Tool{
			{FunctionDeclarations: a.registry.Declarations()},
		},
	}
}

// historyContents converts the persisted conversation history into the
// content list a new chat starts from. Stored "assistant" turns map to
// the API's "model" role.
func historyContents(sess *session.TastingSession) []*genai.Content {
	contents := make([]*genai.Content, 0, len(sess.History))
	for _, msg := range sess.History {
		role := genai.RoleUser
		if msg.Role == "assistant" {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: msg.Content}},
		})
	}
	return contents
}

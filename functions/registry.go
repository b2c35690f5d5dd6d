// Package functions declares the tool surface exposed to the model and
// implements each tool against the catalog and session layers. Every
// handler returns a plain map so results serialize directly into a
// Gemini function response.
package functions

import (
	"context"
	"log"

	"google.golang.org/genai"
)

// Handler executes a single tool call. Handlers report failures inside
// the result map ("success": false) instead of returning an error so
// the model can recover conversationally.
type Handler func(ctx context.Context, args map[string]any) map[string]any

// Tool pairs a Gemini function declaration with its implementation.
type Tool struct {
	Declaration *genai.FunctionDeclaration
	Handler     Handler
}

// Registry holds the tools available to the agent. It is populated at
// startup and read-only afterwards, so no locking is needed.
type Registry struct {
	tools map[string]Tool
	order []string
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool. Later registrations with the same name replace
// earlier ones.
func (r *Registry) Register(t Tool) {
	name := t.Declaration.Name
	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = t
}

// Declarations returns the function declarations in registration order,
// ready to hand to the model configuration.
func (r *Registry) Declarations() []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(r.order))
	for _, name := range r.order {
		decls = append(decls, r.tools[name].Declaration)
	}
	return decls
}

// Dispatch runs the named tool. Unknown names produce an error result
// rather than a panic so a hallucinated call cannot take the session
// down.
func (r *Registry) Dispatch(ctx context.Context, name string, args map[string]any) map[string]any {
	tool, ok := r.tools[name]
	if !ok {
		log.Printf("⚠️ Unknown function call: %s", name)
		return map[string]any{"success": false, "error": "unknown function: " + name}
	}
	log.Printf("📥 Function call: %s", name)
	return tool.Handler(ctx, args)
}

// stringArg extracts a string argument, tolerating absent keys.
func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

// floatArg extracts a numeric argument. JSON numbers arrive as float64.
func floatArg(args map[string]any, key string) (float64, bool) {
	switch v := args[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

// stringSliceArg extracts a list-of-strings argument. JSON arrays
// arrive as []any; non-string elements are skipped.
func stringSliceArg(args map[string]any, key string) []string {
	raw, _ := args[key].([]any)
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// boolArg extracts a boolean argument, defaulting to false.
func boolArg(args map[string]any, key string) bool {
	b, _ := args[key].(bool)
	return b
}

func errorResult(err error) map[string]any {
	return map[string]any{"success": false, "error": err.Error()}
}

// noParamDecl builds a declaration for a tool that takes no arguments.
func noParamDecl(name, description string) *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        name,
		Description: description,
		Parameters: &genai.Schema{
			Type:       genai.TypeObject,
			Properties: map[string]*genai.Schema{},
		},
	}
}

// stringParamDecl builds a declaration for a tool with a single
// required string argument.
func stringParamDecl(name, description, param, paramDesc string) *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        name,
		Description: description,
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				param: {Type: genai.TypeString, Description: paramDesc},
			},
			Required: []string{param},
		},
	}
}

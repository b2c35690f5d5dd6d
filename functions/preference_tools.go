package functions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/cervezafortuna/cicerone/session"
)

type sessionKey struct{}

// WithSessionID binds the active tasting session to the context so
// session-scoped tools know which session to operate on.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

func sessionID(ctx context.Context) (string, error) {
	id, _ := ctx.Value(sessionKey{}).(string)
	if id == "" {
		return "", errors.New("no active session")
	}
	return id, nil
}

// RegisterPreferenceTools wires the session-scoped preference and
// evaluation tools against the session manager.
func RegisterPreferenceTools(r *Registry, mgr *session.Manager) {
	r.Register(Tool{
		Declaration: storePreferenceDecl,
		Handler: func(ctx context.Context, args map[string]any) map[string]any {
			return storePreference(ctx, mgr, args)
		},
	})
	r.Register(Tool{
		Declaration: getPreferencesDecl,
		Handler: func(ctx context.Context, args map[string]any) map[string]any {
			return getPreferences(ctx, mgr)
		},
	})
	r.Register(Tool{
		Declaration: storeEvaluationDecl,
		Handler: func(ctx context.Context, args map[string]any) map[string]any {
			return storeEvaluation(ctx, mgr, args)
		},
	})
	r.Register(Tool{
		Declaration: getEvaluationsDecl,
		Handler: func(ctx context.Context, args map[string]any) map[string]any {
			return getEvaluations(ctx, mgr)
		},
	})
	r.Register(Tool{
		Declaration: analyzePreferencesDecl,
		Handler: func(ctx context.Context, args map[string]any) map[string]any {
			return analyzePreferences(ctx, mgr)
		},
	})
}

var storePreferenceDecl = &genai.FunctionDeclaration{
	Name:        "store_preference",
	Description: "Store one component of the user's taste preference profile, such as preferred_styles, bitterness_preference, alcohol_tolerance, flavor_notes or body_preference.",
	Parameters: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"key": {
				Type:        genai.TypeString,
				Description: "Preference key, e.g. bitterness_preference",
			},
			"value": {
				Type:        genai.TypeString,
				Description: "Preference value. Lists are passed as comma separated values.",
			},
		},
		Required: []string{"key", "value"},
	},
}

var getPreferencesDecl = noParamDecl(
	"get_preferences",
	"Return all stored preference components for the current user.",
)

var storeEvaluationDecl = &genai.FunctionDeclaration{
	Name:        "store_evaluation",
	Description: "Record the user's tasting evaluation of a beer across the four tasting steps. Call this once the user has described a beer.",
	Parameters: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"beer_id": {
				Type:        genai.TypeString,
				Description: "Catalog identifier of the beer being evaluated",
			},
			"appearance_notes": {Type: genai.TypeString, Description: "Color, clarity and head"},
			"aroma_notes":      {Type: genai.TypeString, Description: "Aromatic notes and intensity"},
			"taste_notes":      {Type: genai.TypeString, Description: "Flavors, balance, bitterness"},
			"mouthfeel_notes":  {Type: genai.TypeString, Description: "Body, carbonation, finish"},
			"overall_rating": {
				Type:        genai.TypeInteger,
				Description: "Overall rating from 1 to 5",
			},
		},
		Required: []string{"beer_id"},
	},
}

var getEvaluationsDecl = noParamDecl(
	"get_evaluations",
	"Return all beer evaluations recorded in this tasting session, in tasting order.",
)

var analyzePreferencesDecl = noParamDecl(
	"analyze_preferences",
	"Return the recorded evaluations prepared for preference analysis. Requires at least two evaluated beers.",
)

func storePreference(ctx context.Context, mgr *session.Manager, args map[string]any) map[string]any {
	id, err := sessionID(ctx)
	if err != nil {
		return errorResult(err)
	}
	key := stringArg(args, "key")
	value := stringArg(args, "value")
	if key == "" || value == "" {
		return map[string]any{"success": false, "error": "key and value are required"}
	}
	if err := mgr.StorePreference(ctx, id, key, value); err != nil {
		return errorResult(err)
	}
	return map[string]any{"success": true, "key": key}
}

func getPreferences(ctx context.Context, mgr *session.Manager) map[string]any {
	id, err := sessionID(ctx)
	if err != nil {
		return errorResult(err)
	}
	prefs, err := mgr.Preferences(ctx, id)
	if err != nil {
		return errorResult(err)
	}
	return map[string]any{"success": true, "preferences": prefs, "count": len(prefs)}
}

func storeEvaluation(ctx context.Context, mgr *session.Manager, args map[string]any) map[string]any {
	id, err := sessionID(ctx)
	if err != nil {
		return errorResult(err)
	}
	eval := &session.BeerEvaluation{
		BeerID:          stringArg(args, "beer_id"),
		AppearanceNotes: stringArg(args, "appearance_notes"),
		AromaNotes:      stringArg(args, "aroma_notes"),
		TasteNotes:      stringArg(args, "taste_notes"),
		MouthfeelNotes:  stringArg(args, "mouthfeel_notes"),
		Timestamp:       time.Now().UTC(),
	}
	if rating, ok := floatArg(args, "overall_rating"); ok {
		eval.OverallRating = int(rating)
	}
	count, err := mgr.StoreEvaluation(ctx, id, eval)
	if err != nil {
		return errorResult(err)
	}
	return map[string]any{
		"success":            true,
		"beer_id":            eval.BeerID,
		"beers_tasted_count": count,
	}
}

func getEvaluations(ctx context.Context, mgr *session.Manager) map[string]any {
	id, err := sessionID(ctx)
	if err != nil {
		return errorResult(err)
	}
	evals, err := mgr.Evaluations(ctx, id)
	if err != nil {
		return errorResult(err)
	}
	return map[string]any{
		"success":     true,
		"evaluations": evaluationsAsMaps(evals),
		"count":       len(evals),
	}
}

func analyzePreferences(ctx context.Context, mgr *session.Manager) map[string]any {
	id, err := sessionID(ctx)
	if err != nil {
		return errorResult(err)
	}
	evals, err := mgr.Evaluations(ctx, id)
	if err != nil {
		return errorResult(err)
	}
	if len(evals) < 2 {
		return map[string]any{
			"success": false,
			"error":   fmt.Sprintf("need at least 2 evaluated beers to analyze preferences, have %d", len(evals)),
		}
	}
	return map[string]any{
		"success":     true,
		"evaluations": evaluationsAsMaps(evals),
		"beer_count":  len(evals),
	}
}

func evaluationsAsMaps(evals []*session.BeerEvaluation) []map[string]any {
	out := make([]map[string]any, 0, len(evals))
	for _, e := range evals {
		m := map[string]any{
			"beer_id":          e.BeerID,
			"appearance_notes": e.AppearanceNotes,
			"aroma_notes":      e.AromaNotes,
			"taste_notes":      e.TasteNotes,
			"mouthfeel_notes":  e.MouthfeelNotes,
		}
		if e.OverallRating > 0 {
			m["overall_rating"] = e.OverallRating
		}
		out = append(out, m)
	}
	return out
}

// Package session holds tasting-session state: who is tasting, which
// beers they tried, how they rated them, and the conversation so far.
// Sessions live in memory behind a single lock and are mirrored to JSON
// files so a restart doesn't lose an ongoing tasting.
package session

import (
	"fmt"
	"sync"
	"time"
)

// Message is one turn of the conversation.
type Message struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage creates a timestamped message after validating the role.
func NewMessage(role, content string) (Message, error) {
	if role != "user" && role != "assistant" {
		return Message{}, fmt.Errorf("message role must be \"user\" or \"assistant\", got %q", role)
	}
	if content == "" {
		return Message{}, fmt.Errorf("message content must be a non-empty string")
	}
	return Message{Role: role, Content: content, Timestamp: time.Now()}, nil
}

// BeerEvaluation records the user's impressions of one beer across the
// four tasting steps.
type BeerEvaluation struct {
	BeerID          string    `json:"beer_id"`
	AppearanceNotes string    `json:"appearance_notes,omitempty"`
	AromaNotes      string    `json:"aroma_notes,omitempty"`
	TasteNotes      string    `json:"taste_notes,omitempty"`
	MouthfeelNotes  string    `json:"mouthfeel_notes,omitempty"`
	OverallRating   int       `json:"overall_rating,omitempty"` // 1-5, 0 when unset
	Timestamp       time.Time `json:"timestamp"`
}

// Validate checks the evaluation's required fields and rating range.
func (e *BeerEvaluation) Validate() error {
	if e.BeerID == "" {
		return fmt.Errorf("beer ID must be a non-empty string")
	}
	if e.OverallRating != 0 && (e.OverallRating < 1 || e.OverallRating > 5) {
		return fmt.Errorf("overall rating must be between 1 and 5, got %d", e.OverallRating)
	}
	return nil
}

// PreferenceProfile is the model's structured read of a user's tastes,
// built from at least two evaluations.
type PreferenceProfile struct {
	PreferredStyles      []string `json:"preferred_styles"`
	BitternessPreference string   `json:"bitterness_preference"` // "low", "medium", "high"
	AlcoholTolerance     string   `json:"alcohol_tolerance"`     // "light", "moderate", "strong"
	FlavorNotes          []string `json:"flavor_notes"`          // e.g. "citrus", "caramel", "coffee"
	BodyPreference       string   `json:"body_preference"`       // "light", "medium", "full"
}

// Validate checks the enumerated fields.
func (p *PreferenceProfile) Validate() error {
	switch p.BitternessPreference {
	case "low", "medium", "high":
	default:
		return fmt.Errorf("bitterness preference must be low, medium, or high, got %q", p.BitternessPreference)
	}
	switch p.AlcoholTolerance {
	case "light", "moderate", "strong":
	default:
		return fmt.Errorf("alcohol tolerance must be light, moderate, or strong, got %q", p.AlcoholTolerance)
	}
	switch p.BodyPreference {
	case "light", "medium", "full":
	default:
		return fmt.Errorf("body preference must be light, medium, or full, got %q", p.BodyPreference)
	}
	return nil
}

// TastingSession is the complete state of one user's tasting.
// Front-ends hold mu for the duration of a conversation turn so two
// requests on the same session cannot interleave.
type TastingSession struct {
	mu sync.Mutex

	ID           string                     `json:"session_id"`
	UserID       string                     `json:"user_id,omitempty"`
	StartedAt    time.Time                  `json:"started_at"`
	LastActivity time.Time                  `json:"last_activity"`
	BeersTasted  []string                   `json:"beers_tasted"`
	Evaluations  map[string]*BeerEvaluation `json:"evaluations"`
	Preferences  map[string]any             `json:"preferences"`
	Profile      *PreferenceProfile         `json:"preference_profile,omitempty"`
	History      []Message                  `json:"conversation_history"`
}

// NewTastingSession initializes a fresh session.
func NewTastingSession(id, userID string) *TastingSession {
	now := time.Now()
	return &TastingSession{
		ID:           id,
		UserID:       userID,
		StartedAt:    now,
		LastActivity: now,
		BeersTasted:  []string{},
		Evaluations:  make(map[string]*BeerEvaluation),
		Preferences:  make(map[string]any),
		History:      []Message{},
	}
}

// Lock claims the session for one conversation turn.
func (s *TastingSession) Lock() { s.mu.Lock() }

// Unlock releases the session after a turn completes.
func (s *TastingSession) Unlock() { s.mu.Unlock() }

// Touch records activity, deferring expiry.
func (s *TastingSession) Touch() {
	s.LastActivity = time.Now()
}

// AddEvaluation stores an evaluation and tracks the beer as tasted.
func (s *TastingSession) AddEvaluation(eval *BeerEvaluation) error {
	if err := eval.Validate(); err != nil {
		return err
	}
	if s.Evaluations == nil {
		s.Evaluations = make(map[string]*BeerEvaluation)
	}
	s.Evaluations[eval.BeerID] = eval
	for _, id := range s.BeersTasted {
		if id == eval.BeerID {
			return nil
		}
	}
	s.BeersTasted = append(s.BeersTasted, eval.BeerID)
	return nil
}

// AppendHistory records a conversation turn.
func (s *TastingSession) AppendHistory(role, content string) error {
	msg, err := NewMessage(role, content)
	if err != nil {
		return err
	}
	s.History = append(s.History, msg)
	return nil
}

package session

import (
	"errors"
	"testing"
	"time"
)

func TestStoreRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	sess := NewTastingSession("abc-123", "user-1")
	sess.AppendHistory("user", "Hola")
	sess.AppendHistory("assistant", "¡Bienvenido! 🍺")
	sess.Preferences["bitterness_preference"] = "high"
	if err := sess.AddEvaluation(&BeerEvaluation{
		BeerID:        "ippolita",
		TasteNotes:    "cítrica, amarga",
		OverallRating: 5,
		Timestamp:     time.Now(),
	}); err != nil {
		t.Fatalf("AddEvaluation: %v", err)
	}

	if err := store.Save(sess); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := store.Load("abc-123")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.ID != "abc-123" || loaded.UserID != "user-1" {
		t.Errorf("identity not preserved: %+v", loaded)
	}
	if len(loaded.History) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(loaded.History))
	}
	if loaded.History[1].Role != "assistant" || loaded.History[1].Content != "¡Bienvenido! 🍺" {
		t.Errorf("history not preserved: %+v", loaded.History[1])
	}
	if loaded.Preferences["bitterness_preference"] != "high" {
		t.Errorf("preferences not preserved: %+v", loaded.Preferences)
	}
	if len(loaded.BeersTasted) != 1 || loaded.BeersTasted[0] != "ippolita" {
		t.Errorf("beers tasted not preserved: %+v", loaded.BeersTasted)
	}
	eval, ok := loaded.Evaluations["ippolita"]
	if !ok {
		t.Fatal("evaluation missing after reload")
	}
	if eval.OverallRating != 5 || eval.TasteNotes != "cítrica, amarga" {
		t.Errorf("evaluation not preserved: %+v", eval)
	}
}

func TestStoreLoadMissing(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if _, err := store.Load("nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestStoreRejectsUnsafeIDs(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	for _, id := range []string{"", "../escape", "a/b", "..", "x\\y"} {
		if err := store.Save(NewTastingSession(id, "")); err == nil {
			t.Errorf("expected error for unsafe id %q", id)
		}
	}
}

func TestStoreDelete(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	sess := NewTastingSession("to-delete", "")
	if err := store.Save(sess); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Delete("to-delete"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Load("to-delete"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after delete, got %v", err)
	}
	// Deleting a missing session is not an error.
	if err := store.Delete("to-delete"); err != nil {
		t.Fatalf("Delete (missing): %v", err)
	}
}

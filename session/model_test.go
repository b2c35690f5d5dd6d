package session

import "testing"

func TestNewMessageValidation(t *testing.T) {
	if _, err := NewMessage("user", "hola"); err != nil {
		t.Errorf("valid user message rejected: %v", err)
	}
	if _, err := NewMessage("assistant", "hola"); err != nil {
		t.Errorf("valid assistant message rejected: %v", err)
	}
	if _, err := NewMessage("system", "hola"); err == nil {
		t.Error("expected error for unknown role")
	}
	if _, err := NewMessage("user", ""); err == nil {
		t.Error("expected error for empty content")
	}
}

func TestEvaluationValidation(t *testing.T) {
	if err := (&BeerEvaluation{BeerID: "ippolita", OverallRating: 3}).Validate(); err != nil {
		t.Errorf("valid evaluation rejected: %v", err)
	}
	if err := (&BeerEvaluation{BeerID: "ippolita"}).Validate(); err != nil {
		t.Errorf("unrated evaluation should be valid: %v", err)
	}
	if err := (&BeerEvaluation{OverallRating: 3}).Validate(); err == nil {
		t.Error("expected error for missing beer id")
	}
	if err := (&BeerEvaluation{BeerID: "x", OverallRating: 6}).Validate(); err == nil {
		t.Error("expected error for rating above 5")
	}
}

func TestProfileValidation(t *testing.T) {
	valid := &PreferenceProfile{
		PreferredStyles:      []string{"IPA"},
		BitternessPreference: "high",
		AlcoholTolerance:     "moderate",
		BodyPreference:       "medium",
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid profile rejected: %v", err)
	}

	bad := *valid
	bad.BitternessPreference = "extreme"
	if err := bad.Validate(); err == nil {
		t.Error("expected error for unknown bitterness level")
	}
}

func TestAddEvaluationTracksTastingOrder(t *testing.T) {
	sess := NewTastingSession("s", "")
	for _, id := range []string{"ippolita", "oat-stout"} {
		if err := sess.AddEvaluation(&BeerEvaluation{BeerID: id, OverallRating: 4}); err != nil {
			t.Fatalf("AddEvaluation(%s): %v", id, err)
		}
	}
	// Re-evaluating a beer replaces the record without duplicating it.
	if err := sess.AddEvaluation(&BeerEvaluation{BeerID: "ippolita", OverallRating: 2}); err != nil {
		t.Fatalf("AddEvaluation (repeat): %v", err)
	}

	if len(sess.BeersTasted) != 2 {
		t.Fatalf("expected 2 tasted beers, got %v", sess.BeersTasted)
	}
	if sess.BeersTasted[0] != "ippolita" || sess.BeersTasted[1] != "oat-stout" {
		t.Errorf("tasting order not preserved: %v", sess.BeersTasted)
	}
	if sess.Evaluations["ippolita"].OverallRating != 2 {
		t.Errorf("re-evaluation should replace the record: %+v", sess.Evaluations["ippolita"])
	}
}

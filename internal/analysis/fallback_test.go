package analysis

import "testing"

func TestFallbackShape(t *testing.T) {
	fb := Fallback()
	if len(fb.EmotionalTone) != 1 || fb.EmotionalTone[0] != "Reflective" {
		t.Errorf("unexpected fallback tone: %v", fb.EmotionalTone)
	}
	if fb.Summary != "Your story is valid." {
		t.Errorf("unexpected fallback summary: %q", fb.Summary)
	}
	if fb.IsCrisis {
		t.Error("fallback must never flag crisis")
	}
	if fb.CopingStrategies == nil || len(fb.CopingStrategies) != 0 {
		t.Errorf("fallback strategies should be empty, not nil: %v", fb.CopingStrategies)
	}
}

func TestFallbackIsFresh(t *testing.T) {
	a := Fallback()
	a.EmotionalTone[0] = "Mutated"
	b := Fallback()
	if b.EmotionalTone[0] != "Reflective" {
		t.Error("Fallback shares state between calls")
	}
}

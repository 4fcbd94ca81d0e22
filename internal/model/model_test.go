package model

import (
	"testing"
	"time"
)

func TestParseEnergyLevel(t *testing.T) {
	for _, s := range []string{"low", "medium", "high"} {
		lvl, err := ParseEnergyLevel(s)
		if err != nil {
			t.Errorf("%q: unexpected error %v", s, err)
		}
		if lvl.String() != s {
			t.Errorf("%q: got %q", s, lvl)
		}
	}
	if _, err := ParseEnergyLevel("extreme"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestCognitiveLoadValid(t *testing.T) {
	for _, l := range []CognitiveLoad{LoadHeavy, LoadMedium, LoadLight} {
		if !l.Valid() {
			t.Errorf("%q should be valid", l)
		}
	}
	if CognitiveLoad("extreme").Valid() {
		t.Error("unknown load should be invalid")
	}
}

func TestOptimizedEventDisplaced(t *testing.T) {
	start := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	ev := OptimizedEvent{Start: start, OriginalStart: start}
	if ev.Displaced() {
		t.Error("identical start must not count as displaced")
	}
	ev.Start = start.Add(30 * time.Minute)
	if !ev.Displaced() {
		t.Error("shifted start must count as displaced")
	}
}

package model

import (
	"fmt"
	"time"
)

// CognitiveLoad estimates the mental effort a calendar event demands,
// derived from its title by the classifier.
type CognitiveLoad string

const (
	LoadHeavy  CognitiveLoad = "heavy"
	LoadMedium CognitiveLoad = "medium"
	LoadLight  CognitiveLoad = "light"
)

func (l CognitiveLoad) Valid() bool {
	switch l {
	case LoadHeavy, LoadMedium, LoadLight:
		return true
	}
	return false
}

func (l CognitiveLoad) String() string { return string(l) }

// EnergyLevel is the user's self-reported energy for one working hour.
type EnergyLevel string

const (
	EnergyLow    EnergyLevel = "low"
	EnergyMedium EnergyLevel = "medium"
	EnergyHigh   EnergyLevel = "high"
)

func (e EnergyLevel) Valid() bool {
	switch e {
	case EnergyLow, EnergyMedium, EnergyHigh:
		return true
	}
	return false
}

func (e EnergyLevel) String() string { return string(e) }

// ParseEnergyLevel converts a config string into an EnergyLevel.
func ParseEnergyLevel(s string) (EnergyLevel, error) {
	lvl := EnergyLevel(s)
	if !lvl.Valid() {
		return "", fmt.Errorf("unknown energy level %q (want low, medium or high)", s)
	}
	return lvl, nil
}

// HourlyEnergy maps an hour-of-day (8..19) to the user's energy level.
// The map is sparse: an absent hour has no defined preference and never
// matches a desired level.
type HourlyEnergy map[int]EnergyLevel

// Event is a single imported calendar entry after parsing and filtering.
// Start <= End always holds; OriginalStart is a copy of Start taken at
// parse time and is never changed afterwards.
type Event struct {
	UID     string
	Summary string

	Start time.Time
	End   time.Time

	OriginalStart time.Time
}

// Duration returns the exact event duration.
func (e Event) Duration() time.Duration { return e.End.Sub(e.Start) }

// ClassifiedEvent is an Event with its cognitive-load tag attached.
type ClassifiedEvent struct {
	Event

	Load CognitiveLoad
}

// OptimizedEvent is the final pipeline output: the event at its new
// placement, alongside the pre-optimization times. End-Start always equals
// OriginalEnd-OriginalStart.
type OptimizedEvent struct {
	UID     string
	Summary string
	Load    CognitiveLoad

	Start time.Time
	End   time.Time

	OriginalStart time.Time
	OriginalEnd   time.Time
}

// Displaced reports whether the optimizer moved the event.
func (o OptimizedEvent) Displaced() bool { return !o.Start.Equal(o.OriginalStart) }

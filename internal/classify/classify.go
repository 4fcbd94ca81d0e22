package classify

import (
	"fmt"
	"strings"

	"timetwister/internal/model"
)

// Classifier assigns a cognitive-load tag to events by matching keywords
// against the event title. Matching is case-insensitive substring
// containment ("meeting" matches "Meetings"); heavy keywords always take
// precedence over light ones, and titles matching neither list classify
// as medium.
//
// A Classifier is immutable after construction and safe for concurrent use.
type Classifier struct {
	heavy []string
	light []string
}

// Result explains how a title was classified. It is introspection output
// for debugging and UI display; the optimizer never consumes it.
type Result struct {
	Load            model.CognitiveLoad
	MatchedKeywords []string
	SourceText      string
	// IsDefault is true when no keyword matched and the medium fallback applied.
	IsDefault bool
}

// New builds a Classifier from heavy and light keyword lists. Keywords are
// lowercase-normalized once here. The lists must be non-empty and literally
// disjoint; these invariants are checked at construction, not per call.
func New(heavy, light []string) (*Classifier, error) {
	if len(heavy) == 0 || len(light) == 0 {
		return nil, fmt.Errorf("classify: both keyword lists must be non-empty (heavy=%d light=%d)", len(heavy), len(light))
	}

	c := &Classifier{
		heavy: normalizeList(heavy),
		light: normalizeList(light),
	}

	seen := make(map[string]struct{}, len(c.heavy))
	for _, kw := range c.heavy {
		if kw == "" {
			return nil, fmt.Errorf("classify: empty heavy keyword")
		}
		seen[kw] = struct{}{}
	}
	for _, kw := range c.light {
		if kw == "" {
			return nil, fmt.Errorf("classify: empty light keyword")
		}
		if _, dup := seen[kw]; dup {
			return nil, fmt.Errorf("classify: keyword %q appears in both heavy and light lists", kw)
		}
	}

	return c, nil
}

// Default returns a Classifier over the built-in keyword lists.
func Default() *Classifier {
	c, err := New(DefaultHeavyKeywords, DefaultLightKeywords)
	if err != nil {
		// The built-in lists are validated by tests; reaching here means
		// they were edited into an invalid state.
		panic(err)
	}
	return c
}

// Classify tags a single event with its cognitive load.
func (c *Classifier) Classify(ev model.Event) model.ClassifiedEvent {
	return model.ClassifiedEvent{
		Event: ev,
		Load:  c.loadForTitle(ev.Summary),
	}
}

// ClassifyAll tags events in batch, preserving input order. Classification
// is a pure per-element map; no state crosses events.
func (c *Classifier) ClassifyAll(events []model.Event) []model.ClassifiedEvent {
	out := make([]model.ClassifiedEvent, 0, len(events))
	for _, ev := range events {
		out = append(out, c.Classify(ev))
	}
	return out
}

// Explain returns the full classification result for a title, including
// every matched keyword and whether the medium default applied.
func (c *Classifier) Explain(title string) Result {
	normalized := strings.ToLower(title)

	if matched := matchingKeywords(normalized, c.heavy); len(matched) > 0 {
		return Result{Load: model.LoadHeavy, MatchedKeywords: matched, SourceText: title}
	}
	if matched := matchingKeywords(normalized, c.light); len(matched) > 0 {
		return Result{Load: model.LoadLight, MatchedKeywords: matched, SourceText: title}
	}
	return Result{Load: model.LoadMedium, SourceText: title, IsDefault: true}
}

func (c *Classifier) loadForTitle(title string) model.CognitiveLoad {
	normalized := strings.ToLower(title)

	// Heavy first: heavy keywords take precedence over light ones.
	if hasKeyword(normalized, c.heavy) {
		return model.LoadHeavy
	}
	if hasKeyword(normalized, c.light) {
		return model.LoadLight
	}
	return model.LoadMedium
}

func hasKeyword(normalizedTitle string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(normalizedTitle, kw) {
			return true
		}
	}
	return false
}

func matchingKeywords(normalizedTitle string, keywords []string) []string {
	var matched []string
	for _, kw := range keywords {
		if strings.Contains(normalizedTitle, kw) {
			matched = append(matched, kw)
		}
	}
	return matched
}

func normalizeList(keywords []string) []string {
	out := make([]string, len(keywords))
	for i, kw := range keywords {
		out[i] = strings.ToLower(strings.TrimSpace(kw))
	}
	return out
}

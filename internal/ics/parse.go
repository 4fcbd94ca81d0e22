package ics

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "timetwister/internal/log"
	"timetwister/internal/model"
	"timetwister/internal/schedule"
)

// Fatal parse errors. Any of these aborts the whole import attempt; the
// caller decides user-visible messaging. Check with errors.Is.
var (
	ErrEmptyFile     = errors.New("file content is empty")
	ErrInvalidFormat = errors.New("invalid ICS file format")
	ErrNoEvents      = errors.New("no events found in ICS file")
)

// SkipReason records why one VEVENT block was dropped during import.
type SkipReason string

const (
	SkipAllDay        SkipReason = "all_day"
	SkipMissingFields SkipReason = "missing_fields"
	SkipOutsideWindow SkipReason = "outside_window"
	SkipInvalidTimes  SkipReason = "invalid_times"
	SkipMalformed     SkipReason = "malformed"
)

// Skip describes a single dropped VEVENT block.
type Skip struct {
	UID     string
	Summary string
	Reason  SkipReason
}

// Result is the parser output: the importable events in source block order,
// plus every per-block skip. One bad block never aborts the batch.
type Result struct {
	Events  []model.Event
	Skipped []Skip
}

// Parse decodes an ICS payload into importable events. Event times are
// converted into loc (nil means the ambient local zone) before the
// working-window filter runs.
//
// Per discovered VEVENT, the block is skipped (not an error) when it is
// all-day, missing UID/SUMMARY/DTSTART/DTEND, malformed, starts before
// 8 AM, or ends after 20:00:00 exactly.
func Parse(body []byte, loc *time.Location) (Result, error) {
	var result Result

	if loc == nil {
		loc = time.Local
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return result, ErrEmptyFile
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(normalizeLineEndings(body)))
	if err != nil {
		appLog.Error("ics parse failed", err)
		return result, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	vevents := cal.Events()
	if len(vevents) == 0 {
		return result, ErrNoEvents
	}

	for _, ve := range vevents {
		ev, skip, perr := parseVEvent(ve, loc)
		if perr != nil {
			// Malformed fields inside an otherwise well-formed block: warn
			// and keep parsing the rest.
			appLog.Warn("skipping malformed vevent", "err", perr, "uid", propValue(ve, ical.ComponentPropertyUniqueId))
			result.Skipped = append(result.Skipped, Skip{
				UID:     propValue(ve, ical.ComponentPropertyUniqueId),
				Summary: propValue(ve, ical.ComponentPropertySummary),
				Reason:  SkipMalformed,
			})
			continue
		}
		if skip != nil {
			appLog.Debug("skipping vevent", "uid", skip.UID, "reason", string(skip.Reason))
			result.Skipped = append(result.Skipped, *skip)
			continue
		}
		result.Events = append(result.Events, ev)
	}

	appLog.Info("ics parse completed", "event_count", len(result.Events), "skipped", len(result.Skipped))
	return result, nil
}

func parseVEvent(ve *ical.VEvent, loc *time.Location) (model.Event, *Skip, error) {
	var out model.Event

	uid := propValue(ve, ical.ComponentPropertyUniqueId)
	summary := propValue(ve, ical.ComponentPropertySummary)
	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	dtEnd := ve.GetProperty(ical.ComponentPropertyDtEnd)

	if uid == "" || summary == "" || dtStart == nil || dtStart.Value == "" || dtEnd == nil || dtEnd.Value == "" {
		return out, &Skip{UID: uid, Summary: summary, Reason: SkipMissingFields}, nil
	}

	// All-day events carry date-only values; they cannot be placed on hour
	// slots and are filtered out.
	if isDateOnly(dtStart) || isDateOnly(dtEnd) {
		return out, &Skip{UID: uid, Summary: summary, Reason: SkipAllDay}, nil
	}

	// The library resolves TZID/VTIMEZONE and UTC forms into time.Time.
	start, err := ve.GetStartAt()
	if err != nil {
		return out, nil, fmt.Errorf("bad DTSTART: %w", err)
	}
	end, err := ve.GetEndAt()
	if err != nil {
		return out, nil, fmt.Errorf("bad DTEND: %w", err)
	}

	// Filtering happens on wall-clock time in the target zone.
	start = start.In(loc)
	end = end.In(loc)

	if end.Before(start) {
		return out, &Skip{UID: uid, Summary: summary, Reason: SkipInvalidTimes}, nil
	}
	if !withinWorkingWindow(start, end) {
		return out, &Skip{UID: uid, Summary: summary, Reason: SkipOutsideWindow}, nil
	}

	// The library already unescaped TEXT values; Summary holds the literal
	// characters.
	out = model.Event{
		UID:           uid,
		Summary:       summary,
		Start:         start,
		End:           end,
		OriginalStart: start,
	}
	return out, nil, nil
}

// withinWorkingWindow keeps events starting at or after 8 AM and ending at
// or before 20:00:00 exactly; 20:00:01 is already out.
func withinWorkingWindow(start, end time.Time) bool {
	if start.Hour() < schedule.WorkDayStart {
		return false
	}
	eh := end.Hour()
	if eh > schedule.WorkDayEnd {
		return false
	}
	if eh == schedule.WorkDayEnd && (end.Minute() > 0 || end.Second() > 0 || end.Nanosecond() > 0) {
		return false
	}
	return true
}

// isDateOnly detects DATE (all-day) values: VALUE=DATE parameter or a value
// without a time-of-day component.
func isDateOnly(prop *ical.IANAProperty) bool {
	if params := prop.ICalParameters; params != nil {
		if vs, ok := params["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
			return true
		}
	}
	return !strings.Contains(prop.Value, "T")
}

func propValue(ve *ical.VEvent, name ical.ComponentProperty) string {
	if p := ve.GetProperty(name); p != nil {
		return p.Value
	}
	return ""
}

// normalizeLineEndings maps CRLF, LF and bare-CR input onto the strict CRLF
// content lines the decoder expects, dropping trailing whitespace per line.
// Leading whitespace is preserved: a leading space marks a folded
// continuation line.
func normalizeLineEndings(body []byte) []byte {
	s := string(body)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return []byte(strings.Join(lines, "\r\n"))
}

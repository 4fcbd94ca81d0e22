package ics

import (
	"strings"
	"testing"
	"time"

	"timetwister/internal/model"
)

func optimized(uid, summary string, startHour int) model.OptimizedEvent {
	start := time.Date(2025, 6, 2, startHour, 0, 0, 0, time.UTC)
	origStart := time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC)
	return model.OptimizedEvent{
		UID:           uid,
		Summary:       summary,
		Load:          model.LoadHeavy,
		Start:         start,
		End:           start.Add(time.Hour),
		OriginalStart: origStart,
		OriginalEnd:   origStart.Add(time.Hour),
	}
}

func TestBuild_EmptyListYieldsValidContainer(t *testing.T) {
	out := Build(nil)
	for _, want := range []string{"BEGIN:VCALENDAR", "VERSION:2.0", "CALSCALE:GREGORIAN", "END:VCALENDAR"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "BEGIN:VEVENT") {
		t.Error("empty input must not emit any VEVENT")
	}
}

func TestBuild_EmitsUTCTimestampsAndMetadata(t *testing.T) {
	out := Build([]model.OptimizedEvent{optimized("uid-1", "Deep work", 9)})

	for _, want := range []string{
		"UID:uid-1",
		"DTSTART:20250602T090000Z",
		"DTEND:20250602T100000Z",
		"SUMMARY:Deep work",
		"X-TIMETWISTER-OPTIMIZED:true",
		"X-TIMETWISTER-CLASSIFICATION:heavy",
		"X-TIMETWISTER-ORIGINAL-START:20250602T140000Z",
		"X-TIMETWISTER-ORIGINAL-END:20250602T150000Z",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "DTSTAMP:") {
		t.Error("every event must carry a generation timestamp")
	}
}

func TestBuild_UsesCRLFLineTerminators(t *testing.T) {
	out := Build([]model.OptimizedEvent{optimized("uid-1", "Deep work", 9)})
	for i := 0; i < len(out); i++ {
		if out[i] == '\n' && (i == 0 || out[i-1] != '\r') {
			t.Fatalf("bare LF at offset %d", i)
		}
	}
}

func TestBuild_FoldsLongLines(t *testing.T) {
	long := strings.Repeat("meeting agenda item and then some more text ", 5)
	out := Build([]model.OptimizedEvent{optimized("uid-1", long, 9)})

	for _, line := range strings.Split(out, "\r\n") {
		if len(line) > 75 {
			t.Errorf("physical line exceeds 75 octets (%d): %q", len(line), line)
		}
	}
	// The long summary must actually have been folded.
	folded := false
	for _, line := range strings.Split(out, "\r\n") {
		if strings.HasPrefix(line, " ") {
			folded = true
		}
	}
	if !folded {
		t.Error("expected at least one folded continuation line")
	}
}

func TestBuild_EscapesSpecialCharacters(t *testing.T) {
	title := "Meeting; with, special\\chars\nand newlines"
	out := Build([]model.OptimizedEvent{optimized("uid-1", title, 9)})

	if !strings.Contains(out, `Meeting\; with\, special\\chars\nand newlines`) {
		t.Errorf("summary not escaped as expected:\n%s", out)
	}
}

func TestBuild_EscapesExactlyOnce(t *testing.T) {
	// Escaping is owned by the serializer; nothing upstream may pre-escape,
	// or every special character comes out doubled.
	out := Build([]model.OptimizedEvent{optimized("uid-1", `a;b,c\d`, 9)})

	if !strings.Contains(out, `SUMMARY:a\;b\,c\\d`) {
		t.Errorf("expected singly-escaped summary, got:\n%s", out)
	}
	if strings.Contains(out, `\\;`) || strings.Contains(out, `\\,`) || strings.Contains(out, `\\\\`) {
		t.Errorf("summary double-escaped:\n%s", out)
	}
}

func TestBuild_StripsCarriageReturns(t *testing.T) {
	out := Build([]model.OptimizedEvent{optimized("uid-1", "line one\r\nline two\rtail", 9)})

	if !strings.Contains(out, `SUMMARY:line one\nline two` + "tail") {
		t.Errorf("expected CRs stripped and LF escaped, got:\n%s", out)
	}
}

func TestBuild_ParseRoundTrip(t *testing.T) {
	events := []model.OptimizedEvent{
		optimized("uid-1", "Meeting; with, special\\chars\nand newlines", 9),
		optimized("uid-2", "Quiet hour", 11),
		// A literal backslash-n sequence must survive as two characters,
		// not collapse into a newline.
		optimized("uid-3", `back\nslash`, 12),
	}
	out := Build(events)

	res, err := Parse([]byte(out), time.UTC)
	if err != nil {
		t.Fatalf("built output failed to parse: %v", err)
	}
	if len(res.Events) != len(events) {
		t.Fatalf("expected %d events back, got %d (skipped %+v)", len(events), len(res.Events), res.Skipped)
	}
	for i, want := range events {
		got := res.Events[i]
		if got.UID != want.UID {
			t.Errorf("event %d: uid %q != %q", i, got.UID, want.UID)
		}
		if got.Summary != want.Summary {
			t.Errorf("event %d: summary %q != %q", i, got.Summary, want.Summary)
		}
		if !got.Start.Equal(want.Start) || !got.End.Equal(want.End) {
			t.Errorf("event %d: times %v-%v != %v-%v", i, got.Start, got.End, want.Start, want.End)
		}
	}
}

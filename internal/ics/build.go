package ics

import (
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"timetwister/internal/model"
)

const prodID = "-//timetwister//timetwister//EN"

// utcTimestampLayout is the compact ICS date-time form with the UTC marker.
const utcTimestampLayout = "20060102T150405Z"

// Vendor metadata carried on every emitted VEVENT so a re-import can show
// what the optimizer did.
const (
	propOptimized      = ical.ComponentProperty("X-TIMETWISTER-OPTIMIZED")
	propClassification = ical.ComponentProperty("X-TIMETWISTER-CLASSIFICATION")
	propOriginalStart  = ical.ComponentProperty("X-TIMETWISTER-ORIGINAL-START")
	propOriginalEnd    = ical.ComponentProperty("X-TIMETWISTER-ORIGINAL-END")
)

// Build serializes optimized events back into ICS text. It is a total
// function: any OptimizedEvent list, including the empty one, yields a valid
// VCALENDAR. Every timestamp is normalized to UTC.
//
// Property values are passed to the library unescaped: the serializer owns
// RFC 5545 TEXT escaping (backslash before the rest) as well as 75-octet
// line folding. Only two wire concerns live here: carriage returns, which
// the serializer would emit verbatim, are stripped from titles, and the
// line terminator is pinned to CRLF since the library defaults to bare LF
// on unix.
func Build(events []model.OptimizedEvent) string {
	cal := ical.NewCalendar()
	cal.SetVersion("2.0")
	cal.SetProductId(prodID)
	cal.SetCalscale("GREGORIAN")

	for _, ev := range events {
		ve := cal.AddEvent(ev.UID)

		// Each event is stamped independently at generation time.
		ve.SetDtStampTime(time.Now().UTC())
		ve.SetStartAt(ev.Start.UTC())
		ve.SetEndAt(ev.End.UTC())
		ve.SetSummary(stripCR(ev.Summary))

		ve.SetProperty(propOptimized, "true")
		ve.SetProperty(propClassification, ev.Load.String())
		ve.SetProperty(propOriginalStart, ev.OriginalStart.UTC().Format(utcTimestampLayout))
		ve.SetProperty(propOriginalEnd, ev.OriginalEnd.UTC().Format(utcTimestampLayout))
	}

	return cal.Serialize(ical.WithNewLineWindows)
}

// stripCR drops carriage returns outright; they are not escapable TEXT
// characters and would corrupt the emitted line structure.
func stripCR(s string) string {
	return strings.ReplaceAll(s, "\r", "")
}

package schedule

import (
	"math"
	"time"

	"timetwister/internal/model"
)

// Working day boundaries. All scheduling happens inside [WorkDayStart,
// WorkDayEnd) on integer-hour slots.
const (
	// WorkDayStart is the first schedulable hour (8 AM).
	WorkDayStart = 8
	// WorkDayEnd is the exclusive end of the working day (8 PM).
	WorkDayEnd = 20
	// WorkDayHours is the number of hour slots in the working day.
	WorkDayHours = WorkDayEnd - WorkDayStart
)

// IsSlotAvailable reports whether the candidate interval
// [startHour, startHour+durationHours) anchored to day is free of conflicts
// with the given events. Overlap uses half-open semantics: an event
// conflicts iff event.Start < slotEnd && event.End > slotStart. Events on
// other calendar days never conflict.
func IsSlotAvailable(startHour, durationHours int, events []model.ClassifiedEvent, day time.Time) bool {
	slotStart := DateAtHour(day, startHour)
	slotEnd := slotStart.Add(time.Duration(durationHours) * time.Hour)

	for _, ev := range events {
		if !SameDay(ev.Start, day) {
			continue
		}
		if ev.Start.Before(slotEnd) && ev.End.After(slotStart) {
			return false
		}
	}
	return true
}

// AvailableSlots returns, in ascending hour order, every working-day slot
// whose mapped energy equals level and which is free of conflicts assuming
// a one-hour duration. Unmapped hours never match.
func AvailableSlots(energy model.HourlyEnergy, level model.EnergyLevel, events []model.ClassifiedEvent, day time.Time) []int {
	var slots []int
	for hour := WorkDayStart; hour < WorkDayEnd; hour++ {
		if energy[hour] != level {
			continue
		}
		if IsSlotAvailable(hour, 1, events, day) {
			slots = append(slots, hour)
		}
	}
	return slots
}

// CeilHours returns the span between start and end in whole hours, rounding
// partial hours up. Used for integral-hour capacity planning only; actual
// placement preserves the exact duration.
func CeilHours(start, end time.Time) int {
	span := end.Sub(start)
	if span <= 0 {
		return 0
	}
	return int(math.Ceil(span.Hours()))
}

// DateAtHour returns the instant at hour o'clock on the same calendar day
// as base, in base's location.
func DateAtHour(base time.Time, hour int) time.Time {
	return time.Date(base.Year(), base.Month(), base.Day(), hour, 0, 0, 0, base.Location())
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// WithinWorkingHours reports whether t's hour lies inside the working day.
func WithinWorkingHours(t time.Time) bool {
	h := t.Hour()
	return h >= WorkDayStart && h < WorkDayEnd
}

package schedule

import (
	"math"
	"sort"
	"time"

	"timetwister/internal/model"
)

// Metrics summarizes one optimization run.
type Metrics struct {
	// TotalEvents is the number of input events.
	TotalEvents int
	// EventsOptimized counts events whose placement moved (displacement > 0).
	EventsOptimized int
	// TotalDisplacement is the summed absolute start-time shift, in hours,
	// across the optimized events.
	TotalDisplacement float64
	// AverageDisplacement is TotalDisplacement / EventsOptimized, 0 if none.
	AverageDisplacement float64
	// DegradedEvents counts events for which no fitting slot existed and
	// which kept their original hour even though that may overlap another
	// placement. Non-zero means the no-overlap guarantee does not hold for
	// those events.
	DegradedEvents int
}

// Result is the optimizer output: every input event at its (possibly new)
// placement plus run metrics.
type Result struct {
	Events  []model.OptimizedEvent
	Metrics Metrics
}

// occupiedSlots is the per-run arena of claimed working-day hours, indexed
// by hour-WorkDayStart. It is local to one Optimize call and never escapes,
// so concurrent runs need no coordination.
type occupiedSlots [WorkDayHours]bool

func (o *occupiedSlots) claim(startHour int, durationHours float64) {
	// A degraded placement may spill outside the working day; only the
	// in-day portion is tracked.
	for h := startHour; h < startHour+spanHours(durationHours); h++ {
		if h >= WorkDayStart && h < WorkDayEnd {
			o[h-WorkDayStart] = true
		}
	}
}

// Optimize reassigns event start hours to match the user's energy profile
// while preserving exact durations and, on a best-effort basis, avoiding
// overlaps.
//
// The algorithm is greedy and deterministic:
//  1. Bucket events by cognitive load; stable-sort each bucket by original
//     start so same-load events keep their relative order.
//  2. Place heavy events first, then medium, then light, so heavy work gets
//     first claim on scarce high-energy slots.
//  3. For each event, keep it in place when the original hour still fits and
//     already carries the event's top-preference energy; otherwise take the
//     earliest free hour at the most preferred available energy level.
//  4. Fall back to the original hour, then to the first free hour anywhere
//     in the working day. An event no slot can hold keeps its original hour
//     even though that may overlap; this degraded case is counted in
//     Metrics.DegradedEvents instead of raising an error.
func Optimize(events []model.ClassifiedEvent, energy model.HourlyEnergy) Result {
	if len(events) == 0 {
		return Result{Events: []model.OptimizedEvent{}}
	}

	buckets := map[model.CognitiveLoad][]model.ClassifiedEvent{}
	for _, ev := range events {
		buckets[ev.Load] = append(buckets[ev.Load], ev)
	}
	for _, bucket := range buckets {
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].Start.Before(bucket[j].Start)
		})
	}

	ordered := make([]model.ClassifiedEvent, 0, len(events))
	ordered = append(ordered, buckets[model.LoadHeavy]...)
	ordered = append(ordered, buckets[model.LoadMedium]...)
	ordered = append(ordered, buckets[model.LoadLight]...)

	var occupied occupiedSlots
	out := make([]model.OptimizedEvent, 0, len(events))
	metrics := Metrics{TotalEvents: len(events)}

	for _, ev := range ordered {
		duration := ev.Duration().Hours()

		hour, ok := findBestSlot(ev, energy, &occupied)
		if !ok {
			// Degraded terminal case: nothing fits, keep the original hour.
			hour = ev.Start.Hour()
			metrics.DegradedEvents++
		}

		placed := placeAt(ev, hour)
		out = append(out, placed)

		if d := displacementHours(ev.Start, placed.Start); d > 0 {
			metrics.TotalDisplacement += d
			metrics.EventsOptimized++
		}

		occupied.claim(hour, duration)
	}

	if metrics.EventsOptimized > 0 {
		metrics.AverageDisplacement = metrics.TotalDisplacement / float64(metrics.EventsOptimized)
	}

	return Result{Events: out, Metrics: metrics}
}

// findBestSlot picks the start hour for one event. Returns false only when
// no hour in the working day can hold the event at all.
func findBestSlot(ev model.ClassifiedEvent, energy model.HourlyEnergy, occupied *occupiedSlots) (int, bool) {
	duration := ev.Duration().Hours()
	originalHour := ev.Start.Hour()
	prefs := preferredLevels(ev.Load)

	// Short-circuit: already at a fitting slot with top-preference energy.
	if canFit(originalHour, duration, occupied) && energy[originalHour] == prefs[0] {
		return originalHour, true
	}

	// Group still-available start hours by the energy level mapped to them.
	// Unmapped hours stay out: a sparse profile never implies a default level.
	slotsByLevel := map[model.EnergyLevel][]int{}
	for hour := WorkDayStart; hour < WorkDayEnd; hour++ {
		if !canFit(hour, duration, occupied) {
			continue
		}
		if level, mapped := energy[hour]; mapped {
			slotsByLevel[level] = append(slotsByLevel[level], hour)
		}
	}

	// Walk the preference order; within a level the earliest hour wins to
	// keep the day front-loaded.
	for _, level := range prefs {
		if hours := slotsByLevel[level]; len(hours) > 0 {
			return hours[0], true
		}
	}

	// No energy-matched slot anywhere: keep the original hour if it fits.
	if canFit(originalHour, duration, occupied) {
		return originalHour, true
	}

	// Last resort: first free hour anywhere in the working day.
	for hour := WorkDayStart; hour < WorkDayEnd; hour++ {
		if canFit(hour, duration, occupied) {
			return hour, true
		}
	}

	return 0, false
}

// preferredLevels maps a cognitive load to its energy preference order.
func preferredLevels(load model.CognitiveLoad) [3]model.EnergyLevel {
	switch load {
	case model.LoadHeavy:
		return [3]model.EnergyLevel{model.EnergyHigh, model.EnergyMedium, model.EnergyLow}
	case model.LoadLight:
		return [3]model.EnergyLevel{model.EnergyLow, model.EnergyMedium, model.EnergyHigh}
	default:
		return [3]model.EnergyLevel{model.EnergyMedium, model.EnergyHigh, model.EnergyLow}
	}
}

// canFit reports whether an event of the given exact duration can start at
// startHour without leaving the working day or touching a claimed slot.
func canFit(startHour int, durationHours float64, occupied *occupiedSlots) bool {
	if startHour < WorkDayStart || float64(startHour)+durationHours > WorkDayEnd {
		return false
	}
	for h := startHour; h < startHour+spanHours(durationHours); h++ {
		if occupied[h-WorkDayStart] {
			return false
		}
	}
	return true
}

// spanHours is the number of hour slots an exact duration occupies.
func spanHours(durationHours float64) int {
	return int(math.Ceil(durationHours))
}

// placeAt rebuilds the event at the chosen start hour on its own day,
// minutes and seconds zeroed, preserving the exact duration.
func placeAt(ev model.ClassifiedEvent, hour int) model.OptimizedEvent {
	newStart := DateAtHour(ev.Start, hour)
	newEnd := newStart.Add(ev.Duration())

	return model.OptimizedEvent{
		UID:           ev.UID,
		Summary:       ev.Summary,
		Load:          ev.Load,
		Start:         newStart,
		End:           newEnd,
		OriginalStart: ev.Start,
		OriginalEnd:   ev.End,
	}
}

func displacementHours(original, placed time.Time) float64 {
	return math.Abs(placed.Sub(original).Hours())
}

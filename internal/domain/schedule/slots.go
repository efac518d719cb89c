package schedule

import "time"

// GenerateSlots derives the bookable slots for one provider and calendar day.
//
// Candidates are laid back-to-back inside each open interval at a step equal
// to the service duration; a trailing remainder that cannot hold the full
// duration is not offered. Candidates overlapping a busy slot (an existing
// non-cancelled booking, half-open comparison) are dropped. Past dates yield
// nothing; on the current day only slots starting strictly after now survive.
//
// The busy list must already be filtered to non-cancelled bookings for the
// same provider and date. Output is chronological and duplicate-free by
// construction; identical inputs always produce identical output.
func GenerateSlots(
	date CalendarDate,
	serviceDurationMinutes int,
	weekly WeeklySchedule,
	busy []TimeSlot,
	now time.Time,
) []TimeSlot {
	if serviceDurationMinutes <= 0 {
		return nil
	}

	today := DateOf(now)
	if date.Before(today) {
		return nil
	}
	isToday := date.Equal(today)
	nowTime, _ := NewLocalTime(now.Hour(), now.Minute())

	var slots []TimeSlot
	for _, interval := range weekly.OpenIntervalsFor(date.Weekday()) {
		for start := interval.Start(); ; {
			end, ok := start.Add(serviceDurationMinutes)
			if !ok || interval.End().Before(end) {
				break
			}
			slot := TimeSlot{start: start, end: end}
			if !conflicts(slot, busy) && !(isToday && !start.After(nowTime)) {
				slots = append(slots, slot)
			}
			start = end
		}
	}
	return slots
}

func conflicts(slot TimeSlot, busy []TimeSlot) bool {
	for _, b := range busy {
		if slot.Overlaps(b) {
			return true
		}
	}
	return false
}

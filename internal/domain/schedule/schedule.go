package schedule

import (
	"errors"
	"sort"
	"time"
)

var (
	ErrIntervalOverlap = errors.New("schedule intervals overlap")
)

// Interval is one opening-hours row of a provider's weekly schedule. An
// interval with available=false is kept on record but never produces slots.
type Interval struct {
	start     LocalTime
	end       LocalTime
	available bool
}

func NewInterval(start, end LocalTime, available bool) (Interval, error) {
	if !end.After(start) {
		return Interval{}, ErrInvalidTimeSlot
	}
	return Interval{start: start, end: end, available: available}, nil
}

func (i Interval) Start() LocalTime { return i.start }
func (i Interval) End() LocalTime   { return i.end }
func (i Interval) Available() bool  { return i.available }

// Contains reports whether the slot fits entirely inside the interval.
func (i Interval) Contains(s TimeSlot) bool {
	return !s.Start().Before(i.start) && !i.end.Before(s.End())
}

// WeeklySchedule holds a provider's recurring open hours, one ordered interval
// list per weekday. The zero value is a schedule with every day closed.
type WeeklySchedule struct {
	days map[time.Weekday][]Interval
}

// NewWeeklySchedule validates that intervals within each day do not overlap
// and returns them ordered by start time. Days absent from the map are closed.
func NewWeeklySchedule(days map[time.Weekday][]Interval) (WeeklySchedule, error) {
	normalized := make(map[time.Weekday][]Interval, len(days))
	for day, intervals := range days {
		if len(intervals) == 0 {
			continue
		}
		sorted := make([]Interval, len(intervals))
		copy(sorted, intervals)
		sort.Slice(sorted, func(a, b int) bool {
			return sorted[a].start.Before(sorted[b].start)
		})
		for i := 1; i < len(sorted); i++ {
			if sorted[i].start.Before(sorted[i-1].end) {
				return WeeklySchedule{}, ErrIntervalOverlap
			}
		}
		normalized[day] = sorted
	}
	return WeeklySchedule{days: normalized}, nil
}

// IntervalsFor returns the day's intervals in start order. An unset day is
// indistinguishable from an explicitly closed one: both yield an empty list,
// never an error.
func (s WeeklySchedule) IntervalsFor(day time.Weekday) []Interval {
	intervals, ok := s.days[day]
	if !ok {
		return nil
	}
	out := make([]Interval, len(intervals))
	copy(out, intervals)
	return out
}

// OpenIntervalsFor returns only the intervals marked available.
func (s WeeklySchedule) OpenIntervalsFor(day time.Weekday) []Interval {
	var out []Interval
	for _, i := range s.days[day] {
		if i.available {
			out = append(out, i)
		}
	}
	return out
}

// IsEmpty reports whether no weekday has any interval configured. A provider
// in this state is "not yet configured", which is valid and simply yields no
// bookable slots.
func (s WeeklySchedule) IsEmpty() bool {
	for _, intervals := range s.days {
		if len(intervals) > 0 {
			return false
		}
	}
	return true
}

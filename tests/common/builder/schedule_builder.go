//go:build unit

package builder

import (
	"time"

	"pawmarket/internal/domain/schedule"
)

type ScheduleBuilder struct {
	days map[time.Weekday][]schedule.Interval
}

func NewScheduleBuilder() *ScheduleBuilder {
	return &ScheduleBuilder{days: make(map[time.Weekday][]schedule.Interval)}
}

func (s *ScheduleBuilder) WithOpen(day time.Weekday, slot string) *ScheduleBuilder {
	return s.add(day, slot, true)
}

// WithUnavailable records an interval that is on the schedule but closed for
// booking.
func (s *ScheduleBuilder) WithUnavailable(day time.Weekday, slot string) *ScheduleBuilder {
	return s.add(day, slot, false)
}

func (s *ScheduleBuilder) add(day time.Weekday, slot string, available bool) *ScheduleBuilder {
	parsed, err := schedule.ParseTimeSlot(slot)
	if err != nil {
		panic(err)
	}
	interval, err := schedule.NewInterval(parsed.Start(), parsed.End(), available)
	if err != nil {
		panic(err)
	}
	s.days[day] = append(s.days[day], interval)
	return s
}

func (s *ScheduleBuilder) Build() (schedule.WeeklySchedule, error) {
	return schedule.NewWeeklySchedule(s.days)
}

func (s *ScheduleBuilder) MustBuild() schedule.WeeklySchedule {
	weekly, err := s.Build()
	if err != nil {
		panic(err)
	}
	return weekly
}

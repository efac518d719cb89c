package schedule

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidLocalTime    = errors.New("invalid local time")
	ErrInvalidCalendarDate = errors.New("invalid calendar date")
	ErrInvalidTimeSlot     = errors.New("invalid time slot")
)

const minutesPerDay = 24 * 60

// LocalTime is a wall-clock time of day with no timezone attached.
// Comparisons against "now" must go through an injected clock instant.
type LocalTime struct {
	minutes int
}

func NewLocalTime(hour, minute int) (LocalTime, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return LocalTime{}, ErrInvalidLocalTime
	}
	return LocalTime{minutes: hour*60 + minute}, nil
}

// ParseLocalTime parses "15:04" strings.
func ParseLocalTime(s string) (LocalTime, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return LocalTime{}, ErrInvalidLocalTime
	}
	return NewLocalTime(hour, minute)
}

func LocalTimeFromMinutes(minutes int) (LocalTime, error) {
	if minutes < 0 || minutes >= minutesPerDay {
		return LocalTime{}, ErrInvalidLocalTime
	}
	return LocalTime{minutes: minutes}, nil
}

func (t LocalTime) Hour() int   { return t.minutes / 60 }
func (t LocalTime) Minute() int { return t.minutes % 60 }

// MinutesSinceMidnight is the storage representation of a LocalTime.
func (t LocalTime) MinutesSinceMidnight() int { return t.minutes }

func (t LocalTime) Before(o LocalTime) bool { return t.minutes < o.minutes }
func (t LocalTime) After(o LocalTime) bool  { return t.minutes > o.minutes }

// Add returns the time shifted by the given number of minutes. ok is false
// when the result would cross midnight; day-spanning intervals are not
// representable.
func (t LocalTime) Add(minutes int) (LocalTime, bool) {
	m := t.minutes + minutes
	if m < 0 || m > minutesPerDay {
		return LocalTime{}, false
	}
	return LocalTime{minutes: m}, true
}

func (t LocalTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

func (t LocalTime) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *LocalTime) UnmarshalText(data []byte) error {
	parsed, err := ParseLocalTime(string(data))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// CalendarDate is a timezone-naive calendar day.
type CalendarDate struct {
	year  int
	month time.Month
	day   int
}

func NewCalendarDate(year int, month time.Month, day int) (CalendarDate, error) {
	if year < 1 || month < time.January || month > time.December || day < 1 || day > 31 {
		return CalendarDate{}, ErrInvalidCalendarDate
	}
	// Reject dates like Feb 30 by round-tripping through time.Date.
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return CalendarDate{}, ErrInvalidCalendarDate
	}
	return CalendarDate{year: year, month: month, day: day}, nil
}

// ParseCalendarDate parses "2006-01-02" strings.
func ParseCalendarDate(s string) (CalendarDate, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return CalendarDate{}, ErrInvalidCalendarDate
	}
	return CalendarDate{year: t.Year(), month: t.Month(), day: t.Day()}, nil
}

// DateOf truncates an instant to its calendar day in the instant's location.
func DateOf(t time.Time) CalendarDate {
	return CalendarDate{year: t.Year(), month: t.Month(), day: t.Day()}
}

func (d CalendarDate) Year() int         { return d.year }
func (d CalendarDate) Month() time.Month { return d.month }
func (d CalendarDate) Day() int          { return d.day }

func (d CalendarDate) IsZero() bool {
	return d == CalendarDate{}
}

func (d CalendarDate) Weekday() time.Weekday {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC).Weekday()
}

// At composes the date with a wall-clock time into a single comparable
// instant. Local times alone are not orderable across dates.
func (d CalendarDate) At(t LocalTime) time.Time {
	return time.Date(d.year, d.month, d.day, t.Hour(), t.Minute(), 0, 0, time.Local)
}

func (d CalendarDate) Compare(o CalendarDate) int {
	if d.year != o.year {
		return cmpInt(d.year, o.year)
	}
	if d.month != o.month {
		return cmpInt(int(d.month), int(o.month))
	}
	return cmpInt(d.day, o.day)
}

func (d CalendarDate) Before(o CalendarDate) bool { return d.Compare(o) < 0 }
func (d CalendarDate) Equal(o CalendarDate) bool  { return d.Compare(o) == 0 }

func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.year, int(d.month), d.day)
}

func (d CalendarDate) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *CalendarDate) UnmarshalText(data []byte) error {
	parsed, err := ParseCalendarDate(string(data))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// TimeSlot is a half-open [start, end) interval within a single day.
type TimeSlot struct {
	start LocalTime
	end   LocalTime
}

func NewTimeSlot(start, end LocalTime) (TimeSlot, error) {
	if !end.After(start) {
		return TimeSlot{}, ErrInvalidTimeSlot
	}
	return TimeSlot{start: start, end: end}, nil
}

// ParseTimeSlot parses "09:00-10:00" strings.
func ParseTimeSlot(s string) (TimeSlot, error) {
	var sh, sm, eh, em int
	if _, err := fmt.Sscanf(s, "%d:%d-%d:%d", &sh, &sm, &eh, &em); err != nil {
		return TimeSlot{}, ErrInvalidTimeSlot
	}
	start, err := NewLocalTime(sh, sm)
	if err != nil {
		return TimeSlot{}, ErrInvalidTimeSlot
	}
	end, err := NewLocalTime(eh, em)
	if err != nil {
		return TimeSlot{}, ErrInvalidTimeSlot
	}
	return NewTimeSlot(start, end)
}

func (s TimeSlot) Start() LocalTime { return s.start }
func (s TimeSlot) End() LocalTime   { return s.end }

func (s TimeSlot) DurationMinutes() int {
	return s.end.minutes - s.start.minutes
}

// Overlaps reports whether two slots intersect. Boundaries are half-open, so
// back-to-back slots do not overlap.
func (s TimeSlot) Overlaps(o TimeSlot) bool {
	return s.start.Before(o.end) && o.start.Before(s.end)
}

func (s TimeSlot) Equal(o TimeSlot) bool {
	return s.start == o.start && s.end == o.end
}

func (s TimeSlot) String() string {
	return s.start.String() + "-" + s.end.String()
}

func (s TimeSlot) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *TimeSlot) UnmarshalText(data []byte) error {
	parsed, err := ParseTimeSlot(string(data))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

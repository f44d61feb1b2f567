package policy

import (
	"fmt"
	"time"

	dErrors "docflow/pkg/domain-errors"
)

// TimeOfDay is a wall-clock time measured from midnight, in [0, 24h).
type TimeOfDay time.Duration

const day = 24 * time.Hour

// ParseTimeOfDay accepts "HH:MM" or "HH:MM:SS".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDayOf(t), nil
		}
	}
	return 0, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("invalid time of day %q: want HH:MM or HH:MM:SS", s))
}

// MustParseTimeOfDay is ParseTimeOfDay for literals. It panics on bad input.
func MustParseTimeOfDay(s string) TimeOfDay {
	tod, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return tod
}

// TimeOfDayOf extracts the wall-clock component of t in t's location.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay(time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond()))
}

// Valid reports whether the value lies within one day.
func (t TimeOfDay) Valid() bool {
	return t >= 0 && time.Duration(t) < day
}

// String formats as HH:MM, or HH:MM:SS when seconds are present.
func (t TimeOfDay) String() string {
	d := time.Duration(t)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	sec := (d % time.Minute) / time.Second
	if sec != 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%02d:%02d", h, m)
}

// minutesBetween returns whole minutes from a to b, signed and truncated
// toward zero. 07:00 to 07:00:59 is 0; 07:01 to 07:00 is -1.
func minutesBetween(a, b TimeOfDay) int64 {
	return int64((time.Duration(b) - time.Duration(a)) / time.Minute)
}

package epochtime

import (
	"math"
	"strconv"
	"time"
)

// Seconds is a unix timestamp in seconds. Fractions are allowed.
//
// This is the timestamp form the platform API speaks; JSON and YAML render
// it as a plain number.
type Seconds float64

func Now() Seconds {
	return FromTime(time.Now())
}

func FromTime(t time.Time) Seconds {
	return Seconds(float64(t.UnixNano()) / float64(time.Second))
}

// Time converts back to time.Time, at nanosecond resolution.
func (s Seconds) Time() time.Time {
	sec, frac := math.Modf(float64(s))
	return time.Unix(int64(sec), int64(frac*float64(time.Second)))
}

func (s Seconds) Equal(other Seconds) bool {
	return s == other
}

// Equiv compares through pointers. Two nils are equivalent.
func Equiv(a, b *Seconds) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func (s Seconds) String() string {
	return strconv.FormatFloat(float64(s), 'f', -1, 64)
}

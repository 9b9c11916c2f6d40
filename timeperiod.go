package fwconf

import (
	"fmt"
	"math"
	"time"
)

// TimeUnit is one component of a TimePeriod, finest first.
type TimeUnit int

const (
	Microseconds TimeUnit = iota
	Milliseconds
	Seconds
	Minutes
	Hours
	Days
)

var timeUnitNames = [...]string{"microseconds", "milliseconds", "seconds", "minutes", "hours", "days"}

func (u TimeUnit) String() string {
	if u < Microseconds || u > Days {
		return fmt.Sprintf("TimeUnit(%d)", int(u))
	}
	return timeUnitNames[u]
}

// ParseTimeUnit maps a long unit name ("seconds") back to its TimeUnit.
func ParseTimeUnit(name string) (TimeUnit, bool) {
	for i, n := range timeUnitNames {
		if n == name {
			return TimeUnit(i), true
		}
	}
	return 0, false
}

// factor converting one unit of u into the next finer unit.
var finerFactor = [...]float64{Milliseconds: 1000, Seconds: 1000, Minutes: 60, Hours: 60, Days: 24}

// TimePeriod is a duration kept as separate components. Only components that
// were set take part in rendering; equality and ordering use the total.
type TimePeriod struct {
	parts [Days + 1]int64
	set   uint8
	// Precision is the finest unit the period may carry once narrowed by a
	// precision validator. The zero value means microseconds.
	Precision TimeUnit
}

// NewTimePeriod builds a period from component values. Fractional components
// cascade into the next finer unit; a fractional microsecond fails.
func NewTimePeriod(parts map[TimeUnit]float64) (TimePeriod, error) {
	var vals [Days + 1]float64
	var have uint8
	for u, v := range parts {
		if u < Microseconds || u > Days {
			return TimePeriod{}, fmt.Errorf("fwconf: unknown time unit %d", int(u))
		}
		vals[u] = v
		have |= 1 << u
	}
	var tp TimePeriod
	for u := Days; u >= Microseconds; u-- {
		if have&(1<<u) == 0 {
			continue
		}
		v := vals[u]
		if !isApproximatelyInteger(v) {
			if u == Microseconds {
				return TimePeriod{}, Errorf(CodeInvalidValue, "Maximum precision is microseconds")
			}
			ip, frac := math.Modf(v)
			vals[u-1] += frac * finerFactor[u]
			have |= 1 << (u - 1)
			v = ip
		}
		tp.parts[u] = int64(math.RoundToEven(v))
		tp.set |= 1 << u
	}
	return tp, nil
}

// MustTimePeriod is NewTimePeriod for literals known to be valid.
func MustTimePeriod(parts map[TimeUnit]float64) TimePeriod {
	tp, err := NewTimePeriod(parts)
	if err != nil {
		panic(err)
	}
	return tp
}

func isApproximatelyInteger(v float64) bool {
	return math.Abs(v-math.RoundToEven(v)) < 0.001
}

// Get returns the component value and whether it was set.
func (t TimePeriod) Get(u TimeUnit) (int64, bool) {
	if u < Microseconds || u > Days {
		return 0, false
	}
	return t.parts[u], t.set&(1<<u) != 0
}

// IsSet reports whether the component was specified.
func (t TimePeriod) IsSet(u TimeUnit) bool {
	_, ok := t.Get(u)
	return ok
}

// Parts returns the set components keyed by unit.
func (t TimePeriod) Parts() map[TimeUnit]int64 {
	out := map[TimeUnit]int64{}
	for u := Microseconds; u <= Days; u++ {
		if v, ok := t.Get(u); ok {
			out[u] = v
		}
	}
	return out
}

// Total returns the whole period expressed in unit u, dropping finer parts.
func (t TimePeriod) Total(u TimeUnit) int64 {
	var total int64
	for x := Days; x >= u; x-- {
		if x < Days {
			total *= int64(finerFactor[x+1])
		}
		total += t.parts[x]
	}
	return total
}

func (t TimePeriod) TotalMicroseconds() int64 { return t.Total(Microseconds) }
func (t TimePeriod) TotalMilliseconds() int64 { return t.Total(Milliseconds) }
func (t TimePeriod) TotalSeconds() int64      { return t.Total(Seconds) }
func (t TimePeriod) TotalMinutes() int64      { return t.Total(Minutes) }
func (t TimePeriod) TotalHours() int64        { return t.Total(Hours) }
func (t TimePeriod) TotalDays() int64         { return t.Total(Days) }

// Duration converts the period to a time.Duration.
func (t TimePeriod) Duration() time.Duration {
	return time.Duration(t.TotalMicroseconds()) * time.Microsecond
}

// Compare orders two periods by total length.
func (t TimePeriod) Compare(o TimePeriod) int {
	a, b := t.TotalMicroseconds(), o.TotalMicroseconds()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Equal reports whether both periods have the same total length.
func (t TimePeriod) Equal(o TimePeriod) bool { return t.Compare(o) == 0 }

// WithPrecision returns a copy narrowed to unit u.
func (t TimePeriod) WithPrecision(u TimeUnit) TimePeriod {
	t.Precision = u
	return t
}

var unitSuffix = [...]string{"us", "ms", "s", "min", "h", "d"}

// String renders the total in the finest set unit, e.g. "1500ms".
func (t TimePeriod) String() string {
	for u := Microseconds; u <= Days; u++ {
		if t.IsSet(u) {
			return fmt.Sprintf("%d%s", t.Total(u), unitSuffix[u])
		}
	}
	return "0s"
}

// MarshalText renders the same form as String.
func (t TimePeriod) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

package fwconf_test

import (
	"testing"
	"time"

	"github.com/reoring/fwconf"
)

func TestNewTimePeriod_Cascades(t *testing.T) {
	cases := []struct {
		parts map[fwconf.TimeUnit]float64
		want  string
	}{
		{map[fwconf.TimeUnit]float64{fwconf.Hours: 5.1}, "306min"},
		{map[fwconf.TimeUnit]float64{fwconf.Days: 6.1}, "8784min"},
		{map[fwconf.TimeUnit]float64{fwconf.Seconds: 3.01}, "3010ms"},
		{map[fwconf.TimeUnit]float64{fwconf.Minutes: 1, fwconf.Seconds: 30}, "90s"},
		{map[fwconf.TimeUnit]float64{}, "0s"},
	}
	for _, tc := range cases {
		tp, err := fwconf.NewTimePeriod(tc.parts)
		if err != nil {
			t.Fatalf("%v: %v", tc.parts, err)
		}
		if got := tp.String(); got != tc.want {
			t.Fatalf("%v: got %s, want %s", tc.parts, got, tc.want)
		}
	}
}

func TestNewTimePeriod_MicrosecondPrecision(t *testing.T) {
	_, err := fwconf.NewTimePeriod(map[fwconf.TimeUnit]float64{fwconf.Microseconds: 1.5})
	inv, _ := fwconf.AsInvalid(err)
	if inv == nil || inv.Message != "Maximum precision is microseconds" {
		t.Fatalf("unexpected: %v", err)
	}
}

func TestTimePeriod_Totals(t *testing.T) {
	tp := fwconf.MustTimePeriod(map[fwconf.TimeUnit]float64{fwconf.Minutes: 2, fwconf.Seconds: 5})
	if tp.TotalSeconds() != 125 || tp.TotalMilliseconds() != 125000 || tp.TotalMinutes() != 2 {
		t.Fatalf("totals: %d %d %d", tp.TotalSeconds(), tp.TotalMilliseconds(), tp.TotalMinutes())
	}
	if tp.Duration() != 125*time.Second {
		t.Fatalf("duration: %v", tp.Duration())
	}
	if !tp.IsSet(fwconf.Minutes) || tp.IsSet(fwconf.Hours) {
		t.Fatalf("set components: %v", tp.Parts())
	}
}

func TestTimePeriod_CompareByTotal(t *testing.T) {
	a := fwconf.MustTimePeriod(map[fwconf.TimeUnit]float64{fwconf.Milliseconds: 1500})
	b := fwconf.MustTimePeriod(map[fwconf.TimeUnit]float64{fwconf.Seconds: 1.5})
	if !a.Equal(b) || !fwconf.Equal(a, b) {
		t.Fatalf("1500ms and 1.5s are the same length")
	}
	c := fwconf.MustTimePeriod(map[fwconf.TimeUnit]float64{fwconf.Seconds: 2})
	if a.Compare(c) != -1 || c.Compare(a) != 1 {
		t.Fatalf("ordering broken")
	}
}

func TestTimeUnit_Names(t *testing.T) {
	for u := fwconf.Microseconds; u <= fwconf.Days; u++ {
		back, ok := fwconf.ParseTimeUnit(u.String())
		if !ok || back != u {
			t.Fatalf("%v does not round trip", u)
		}
	}
	if _, ok := fwconf.ParseTimeUnit("weeks"); ok {
		t.Fatalf("unknown unit accepted")
	}
}

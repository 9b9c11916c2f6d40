package fwconf_test

import (
	"encoding/json"
	"testing"

	"github.com/reoring/fwconf"
)

func TestEqual(t *testing.T) {
	cases := []struct {
		a, b any
		want bool
	}{
		{1, 1.0, true},
		{json.Number("5"), 5, true},
		{fwconf.HexInt(255), 255, true},
		{true, 1, false},
		{"1", 1, false},
		{fwconf.EnumValue{Value: "HIGH", EnumValue: 1}, "HIGH", true},
		{fwconf.M("a", 1, "b", 2), fwconf.M("b", 2, "a", 1), true},
		{fwconf.M("a", 1), map[string]any{"a": 1}, true},
		{fwconf.M("a", 1), fwconf.M("a", 1, "b", nil), false},
		{[]any{1, "x"}, []any{1.0, "x"}, true},
		{[]any{1}, []any{1, 2}, false},
		{fwconf.NewID("a", true, nil), fwconf.NewID("a", true, nil), true},
		{fwconf.NewID("a", true, nil), fwconf.NewID("a", false, nil), false},
		{nil, nil, true},
	}
	for _, tc := range cases {
		if got := fwconf.Equal(tc.a, tc.b); got != tc.want {
			t.Fatalf("Equal(%#v, %#v) = %v", tc.a, tc.b, got)
		}
	}
}

func TestToInt(t *testing.T) {
	if n, ok := fwconf.ToInt(json.Number("12")); !ok || n != 12 {
		t.Fatalf("json.Number: %d %v", n, ok)
	}
	if _, ok := fwconf.ToInt(json.Number("1.5")); ok {
		t.Fatalf("fractional numbers are not ints")
	}
	if _, ok := fwconf.ToInt(true); ok {
		t.Fatalf("booleans are not ints")
	}
}

func TestClone_Deep(t *testing.T) {
	id := fwconf.NewID("x", true, nil)
	src := fwconf.M("list", []any{fwconf.M("id", id)})
	c := fwconf.Clone(src).(*fwconf.Map)
	l, _ := c.Get("list")
	inner := l.([]any)[0].(*fwconf.Map)
	inner.Set("extra", 1)
	cid, _ := inner.Get("id")
	cid.(*fwconf.ID).Name = "y"

	orig, _ := src.Get("list")
	om := orig.([]any)[0].(*fwconf.Map)
	if om.Has("extra") || id.Name != "x" {
		t.Fatalf("clone aliases the source: %v", src)
	}
}

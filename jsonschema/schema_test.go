package jsonschema_test

import (
	"testing"

	j "github.com/goccy/go-json"

	js "github.com/reoring/fwconf/jsonschema"
)

func TestMerge(t *testing.T) {
	s := js.Merge(&js.Schema{Type: "integer"}, nil, &js.Schema{Minimum: js.Float(0), Maximum: js.Float(39)})
	b, err := j.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(b); got != `{"type":"integer","minimum":0,"maximum":39}` {
		t.Fatalf("got %s", got)
	}
}

func TestAnyOf(t *testing.T) {
	one := js.String()
	if js.AnyOf(one) != one {
		t.Fatalf("a single alternative is returned as-is")
	}
	if s := js.AnyOf(one, &js.Schema{Type: "null"}); len(s.AnyOf) != 2 || s.Type != "" {
		t.Fatalf("got %+v", s)
	}
}

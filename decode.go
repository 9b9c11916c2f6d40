package fwconf

import (
	"fmt"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Decode binds a validated tree onto out (a pointer to a struct, map or
// slice). Struct fields are matched through the `config` tag. TimePeriod
// values bind to time.Duration fields as well as TimePeriod fields.
func Decode(validated any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "config",
		Result:     out,
		DecodeHook: durationHook,
	})
	if err != nil {
		return fmt.Errorf("fwconf: decode: %w", err)
	}
	if err := dec.Decode(plain(validated)); err != nil {
		return fmt.Errorf("fwconf: decode: %w", err)
	}
	return nil
}

var (
	durationType   = reflect.TypeOf(time.Duration(0))
	timePeriodType = reflect.TypeOf(TimePeriod{})
)

func durationHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from == timePeriodType && to == durationType {
		return data.(TimePeriod).Duration(), nil
	}
	return data, nil
}

// plain rewrites ordered maps and tagged scalars into shapes mapstructure
// understands, keeping IDs, lambdas and periods as they are.
func plain(v any) any {
	switch t := v.(type) {
	case *Map:
		out := make(map[string]any, t.Len())
		t.Range(func(k string, x any) bool {
			out[k] = plain(x)
			return true
		})
		return out
	case []any:
		out := make([]any, len(t))
		for i, x := range t {
			out[i] = plain(x)
		}
		return out
	case EnumValue:
		return plain(t.Value)
	case HexInt:
		return int(t)
	}
	return v
}

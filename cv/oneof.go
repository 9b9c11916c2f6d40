package cv

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/reoring/fwconf"
	"github.com/reoring/fwconf/internal/scalar"
	"github.com/reoring/fwconf/internal/suggest"
	js "github.com/reoring/fwconf/jsonschema"
)

// OneOfValidator checks membership in a fixed set of options.
type OneOfValidator struct {
	values                  []any
	lower, upper, stringify bool
	toInt, toFloat          bool
	space                   string
}

// OneOf accepts exactly one of values. Misspellings get "did you mean"
// suggestions drawn from the options.
func OneOf(values ...any) OneOfValidator {
	return OneOfValidator{values: values, space: " "}
}

// Lower stringifies and lowercases the input before comparing.
func (o OneOfValidator) Lower() OneOfValidator { o.lower, o.stringify = true, true; return o }

// Upper stringifies and uppercases the input before comparing.
func (o OneOfValidator) Upper() OneOfValidator { o.upper, o.stringify = true, true; return o }

// AsString stringifies the input before comparing.
func (o OneOfValidator) AsString() OneOfValidator { o.stringify = true; return o }

// Int coerces the input to an integer before comparing.
func (o OneOfValidator) Int() OneOfValidator { o.toInt = true; return o }

// Float coerces the input to a float before comparing.
func (o OneOfValidator) Float() OneOfValidator { o.toFloat = true; return o }

// Space replaces spaces in stringified input with s.
func (o OneOfValidator) Space(s string) OneOfValidator { o.space = s; return o }

// Values returns the accepted options.
func (o OneOfValidator) Values() []any { return append([]any(nil), o.values...) }

func (o OneOfValidator) normalize(v any) (any, error) {
	if ev, ok := v.(fwconf.EnumValue); ok {
		v = ev.Value
	}
	if o.stringify {
		s, err := ToString(v)
		if err != nil {
			return nil, err
		}
		v = strings.ReplaceAll(s, " ", o.space)
	}
	if o.toInt {
		i, err := ToInt(v)
		if err != nil {
			return nil, err
		}
		v = i
	}
	if o.toFloat {
		f, err := ToFloat(v)
		if err != nil {
			return nil, err
		}
		v = f
	}
	if s, ok := v.(string); ok {
		if o.lower {
			v = strings.ToLower(s)
		}
		if o.upper {
			v = strings.ToUpper(s)
		}
	}
	return v, nil
}

func (o OneOfValidator) index(v any) int {
	for i, opt := range o.values {
		if fwconf.Equal(v, opt) {
			return i
		}
	}
	return -1
}

func (o OneOfValidator) unknown(v any) *fwconf.Invalid {
	opts := make([]string, len(o.values))
	for i, x := range o.values {
		opts[i] = scalar.Format(x)
	}
	got := scalar.Format(v)
	params := map[string]any{"options": opts, "got": got}
	if m := suggest.Close(got, opts); len(m) > 0 {
		return fwconf.Errorf(fwconf.CodeInvalidEnum, "Unknown value '%s', did you mean %s?", got, suggest.Quote(m)).WithParams(params)
	}
	return fwconf.Errorf(fwconf.CodeInvalidEnum, "Unknown value '%s', valid options are %s.", got, suggest.Quote(opts)).WithParams(params)
}

func (o OneOfValidator) Validate(_ context.Context, v any) (any, error) {
	v, err := o.normalize(v)
	if err != nil {
		return nil, err
	}
	if o.index(v) < 0 {
		return nil, o.unknown(v)
	}
	return v, nil
}

func (o OneOfValidator) JSONSchema() *js.Schema {
	return &js.Schema{Enum: o.Values()}
}

// EnumValidator is OneOf tagging the result with a code-generation value.
type EnumValidator struct {
	one    OneOfValidator
	mapped []any
}

// Enum accepts the keys of mapping and returns fwconf.EnumValue carrying the
// mapped value. Options are listed in key order.
func Enum[K cmp.Ordered, V any](mapping map[K]V) EnumValidator {
	keys := make([]K, 0, len(mapping))
	for k := range mapping {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	values := make([]any, len(keys))
	mapped := make([]any, len(keys))
	for i, k := range keys {
		values[i] = k
		mapped[i] = mapping[k]
	}
	return EnumValidator{one: OneOf(values...), mapped: mapped}
}

// Lower applies OneOfValidator.Lower.
func (e EnumValidator) Lower() EnumValidator { e.one = e.one.Lower(); return e }

// Upper applies OneOfValidator.Upper.
func (e EnumValidator) Upper() EnumValidator { e.one = e.one.Upper(); return e }

// AsString applies OneOfValidator.AsString.
func (e EnumValidator) AsString() EnumValidator { e.one = e.one.AsString(); return e }

// Int applies OneOfValidator.Int.
func (e EnumValidator) Int() EnumValidator { e.one = e.one.Int(); return e }

// Float applies OneOfValidator.Float.
func (e EnumValidator) Float() EnumValidator { e.one = e.one.Float(); return e }

// Space applies OneOfValidator.Space.
func (e EnumValidator) Space(s string) EnumValidator { e.one = e.one.Space(s); return e }

func (e EnumValidator) Validate(ctx context.Context, v any) (any, error) {
	res, err := e.one.Validate(ctx, v)
	if err != nil {
		return nil, err
	}
	return fwconf.EnumValue{Value: res, EnumValue: e.mapped[e.one.index(res)]}, nil
}

func (e EnumValidator) JSONSchema() *js.Schema { return e.one.JSONSchema() }

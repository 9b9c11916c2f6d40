package cv

import (
	"context"
	"fmt"
	"strconv"

	"github.com/reoring/fwconf"
	"github.com/reoring/fwconf/internal/scalar"
	js "github.com/reoring/fwconf/jsonschema"
)

// leaf pairs a validation function with the JSON Schema it accepts.
type leaf struct {
	fn     func(ctx context.Context, v any) (any, error)
	schema func() *js.Schema
}

func (l leaf) Validate(ctx context.Context, v any) (any, error) { return l.fn(ctx, v) }

func (l leaf) JSONSchema() *js.Schema {
	if l.schema == nil {
		return &js.Schema{}
	}
	return l.schema()
}

func typed(t string) func() *js.Schema {
	return func() *js.Schema { return &js.Schema{Type: t} }
}

func invalid(format string, args ...any) *fwconf.Invalid {
	return fwconf.Errorf(fwconf.CodeInvalidValue, format, args...)
}

// AllValidator chains validators, feeding each one's output to the next.
type AllValidator struct{ vs []fwconf.Validator }

// All applies validators in order and stops at the first failure.
func All(vs ...fwconf.Validator) AllValidator { return AllValidator{vs: vs} }

func (a AllValidator) Validate(ctx context.Context, v any) (any, error) {
	cur := v
	for _, x := range a.vs {
		res, err := x.Validate(ctx, cur)
		if err != nil {
			return nil, err
		}
		cur = res
	}
	return cur, nil
}

func (a AllValidator) JSONSchema() *js.Schema {
	parts := make([]*js.Schema, len(a.vs))
	for i, x := range a.vs {
		parts[i] = fwconf.JSONSchemaOf(x)
	}
	return js.Merge(parts...)
}

// AnyValidator tries alternatives against the original input.
type AnyValidator struct{ vs []fwconf.Validator }

// Any returns the first alternative that succeeds, in construction order.
// When all fail, the failures of every alternative are reported together.
func Any(vs ...fwconf.Validator) AnyValidator { return AnyValidator{vs: vs} }

func (a AnyValidator) Validate(ctx context.Context, v any) (any, error) {
	var errs fwconf.MultipleInvalid
	for _, x := range a.vs {
		res, err := x.Validate(ctx, v)
		if err == nil {
			return res, nil
		}
		errs = fwconf.AppendErrors(errs, err)
	}
	if len(errs) == 0 {
		return nil, invalid("no valid value")
	}
	return nil, errs
}

func (a AnyValidator) JSONSchema() *js.Schema {
	alts := make([]*js.Schema, len(a.vs))
	for i, x := range a.vs {
		alts[i] = fwconf.JSONSchemaOf(x)
	}
	return js.AnyOf(alts...)
}

// ListValidator is the validator returned by EnsureList.
type ListValidator struct{ item fwconf.Validator }

// EnsureList accepts a single value or a list of them. Null and an empty
// mapping become an empty list; any other non-list is validated and
// wrapped. Every failing element is reported with its index.
func EnsureList(vs ...fwconf.Validator) ListValidator {
	if len(vs) == 1 {
		return ListValidator{item: vs[0]}
	}
	return ListValidator{item: All(vs...)}
}

func (l ListValidator) Validate(ctx context.Context, v any) (any, error) {
	if v == nil {
		return []any{}, nil
	}
	if m, ok := fwconf.AsMap(v); ok && m.Len() == 0 {
		return []any{}, nil
	}
	list, ok := v.([]any)
	if !ok {
		res, err := l.item.Validate(ctx, v)
		if err != nil {
			return nil, err
		}
		return []any{res}, nil
	}
	out := make([]any, 0, len(list))
	var errs fwconf.MultipleInvalid
	for i, x := range list {
		res, err := l.item.Validate(ctx, x)
		if err != nil {
			errs = fwconf.AppendErrors(errs, fwconf.PrependPath(err, i))
			if fwconf.IsFailFast(ctx) {
				break
			}
			continue
		}
		out = append(out, res)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

func (l ListValidator) JSONSchema() *js.Schema {
	item := fwconf.JSONSchemaOf(l.item)
	return js.AnyOf(&js.Schema{Type: "array", Items: item}, item)
}

// RangeValidator bounds a number or a TimePeriod.
type RangeValidator struct {
	min, max         *float64
	minTP, maxTP     *fwconf.TimePeriod
	exclMin, exclMax bool
}

// Range returns an unbounded range; add bounds with Min and Max.
func Range() RangeValidator { return RangeValidator{} }

// Min sets an inclusive lower bound.
func (r RangeValidator) Min(v float64) RangeValidator { r.min = &v; return r }

// Max sets an inclusive upper bound.
func (r RangeValidator) Max(v float64) RangeValidator { r.max = &v; return r }

// MinPeriod bounds TimePeriod values from below.
func (r RangeValidator) MinPeriod(tp fwconf.TimePeriod) RangeValidator { r.minTP = &tp; return r }

// MaxPeriod bounds TimePeriod values from above.
func (r RangeValidator) MaxPeriod(tp fwconf.TimePeriod) RangeValidator { r.maxTP = &tp; return r }

// ExclusiveMin makes the lower bound exclusive.
func (r RangeValidator) ExclusiveMin() RangeValidator { r.exclMin = true; return r }

// ExclusiveMax makes the upper bound exclusive.
func (r RangeValidator) ExclusiveMax() RangeValidator { r.exclMax = true; return r }

func (r RangeValidator) params() map[string]any {
	p := map[string]any{}
	if r.min != nil {
		p["min"] = *r.min
	}
	if r.max != nil {
		p["max"] = *r.max
	}
	if r.minTP != nil {
		p["min"] = r.minTP.String()
	}
	if r.maxTP != nil {
		p["max"] = r.maxTP.String()
	}
	return p
}

func (r RangeValidator) fail(format string, limit string) *fwconf.Invalid {
	return fwconf.Errorf(fwconf.CodeOutOfRange, format, limit).WithParams(r.params())
}

func (r RangeValidator) Validate(_ context.Context, v any) (any, error) {
	if tp, ok := v.(fwconf.TimePeriod); ok {
		if r.minTP != nil {
			c := tp.Compare(*r.minTP)
			if r.exclMin && c <= 0 {
				return nil, r.fail("value must be higher than %s", r.minTP.String())
			}
			if !r.exclMin && c < 0 {
				return nil, r.fail("value must be at least %s", r.minTP.String())
			}
		}
		if r.maxTP != nil {
			c := tp.Compare(*r.maxTP)
			if r.exclMax && c >= 0 {
				return nil, r.fail("value must be lower than %s", r.maxTP.String())
			}
			if !r.exclMax && c > 0 {
				return nil, r.fail("value must be at most %s", r.maxTP.String())
			}
		}
		return v, nil
	}
	f, ok := fwconf.ToFloat(v)
	if !ok {
		return nil, fwconf.Errorf(fwconf.CodeInvalidType, "invalid value or type (must have a partial ordering)")
	}
	if r.min != nil {
		if r.exclMin && f <= *r.min {
			return nil, r.fail("value must be higher than %s", bound(*r.min))
		}
		if !r.exclMin && f < *r.min {
			return nil, r.fail("value must be at least %s", bound(*r.min))
		}
	}
	if r.max != nil {
		if r.exclMax && f >= *r.max {
			return nil, r.fail("value must be lower than %s", bound(*r.max))
		}
		if !r.exclMax && f > *r.max {
			return nil, r.fail("value must be at most %s", bound(*r.max))
		}
	}
	return v, nil
}

func (r RangeValidator) JSONSchema() *js.Schema {
	s := &js.Schema{}
	if r.min != nil {
		if r.exclMin {
			s.ExclusiveMinimum = js.Float(*r.min)
		} else {
			s.Minimum = js.Float(*r.min)
		}
	}
	if r.max != nil {
		if r.exclMax {
			s.ExclusiveMaximum = js.Float(*r.max)
		} else {
			s.Maximum = js.Float(*r.max)
		}
	}
	return s
}

func bound(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// NumberRange is a coercer followed by a range check.
type NumberRange struct {
	base fwconf.Validator
	r    RangeValidator
}

// IntRange accepts integers in [min, max].
func IntRange(min, max int) NumberRange {
	return NumberRange{base: Int, r: Range().Min(float64(min)).Max(float64(max))}
}

// FloatRange accepts floats in [min, max].
func FloatRange(min, max float64) NumberRange {
	return NumberRange{base: Float, r: Range().Min(min).Max(max)}
}

// HexIntRange is IntRange producing fwconf.HexInt values.
func HexIntRange(min, max int) NumberRange {
	return NumberRange{base: HexInt, r: Range().Min(float64(min)).Max(float64(max))}
}

// NoMin drops the lower bound.
func (n NumberRange) NoMin() NumberRange { n.r.min = nil; return n }

// NoMax drops the upper bound.
func (n NumberRange) NoMax() NumberRange { n.r.max = nil; return n }

// ExclusiveMin makes the lower bound exclusive.
func (n NumberRange) ExclusiveMin() NumberRange { n.r = n.r.ExclusiveMin(); return n }

// ExclusiveMax makes the upper bound exclusive.
func (n NumberRange) ExclusiveMax() NumberRange { n.r = n.r.ExclusiveMax(); return n }

func (n NumberRange) Validate(ctx context.Context, v any) (any, error) {
	return All(n.base, n.r).Validate(ctx, v)
}

func (n NumberRange) JSONSchema() *js.Schema { return All(n.base, n.r).JSONSchema() }

// LengthValidator bounds the length of a string, list or mapping.
type LengthValidator struct{ min, max *int }

// Length bounds the length; pass -1 to leave a side open.
func Length(min, max int) LengthValidator {
	var l LengthValidator
	if min >= 0 {
		l.min = &min
	}
	if max >= 0 {
		l.max = &max
	}
	return l
}

func (l LengthValidator) Validate(_ context.Context, v any) (any, error) {
	var n int
	switch t := v.(type) {
	case string:
		n = len([]rune(t))
	case []any:
		n = len(t)
	default:
		m, ok := fwconf.AsMap(v)
		if !ok {
			return nil, fwconf.Errorf(fwconf.CodeInvalidType, "expected a string, list or dictionary, got %s", scalar.TypeName(v))
		}
		n = m.Len()
	}
	if l.min != nil && n < *l.min {
		return nil, fwconf.Errorf(fwconf.CodeTooShort, "length of value must be at least %d", *l.min).WithParams(map[string]any{"min": *l.min, "got": n})
	}
	if l.max != nil && n > *l.max {
		return nil, fwconf.Errorf(fwconf.CodeTooLong, "length of value must be at most %d", *l.max).WithParams(map[string]any{"max": *l.max, "got": n})
	}
	return v, nil
}

func (l LengthValidator) JSONSchema() *js.Schema {
	return &js.Schema{MinLength: l.min, MaxLength: l.max, MinItems: l.min, MaxItems: l.max}
}

// DictValidator validates every entry of a free-form mapping.
type DictValidator struct{ key, value fwconf.Validator }

// Dict validates keys with key (results must stay strings) and values with
// value. Either may be nil to accept anything.
func Dict(key, value fwconf.Validator) DictValidator { return DictValidator{key: key, value: value} }

func (d DictValidator) Validate(ctx context.Context, v any) (any, error) {
	src, ok := fwconf.AsMap(v)
	if !ok {
		return nil, expectedMap()
	}
	out := fwconf.NewMap()
	var errs fwconf.MultipleInvalid
	src.Range(func(k string, x any) bool {
		key := k
		if d.key != nil {
			res, err := d.key.Validate(ctx, k)
			if err != nil {
				errs = fwconf.AppendErrors(errs, fwconf.PrependPath(err, k))
				return !fwconf.IsFailFast(ctx)
			}
			key = scalar.Format(res)
		}
		val := x
		if d.value != nil {
			res, err := d.value.Validate(ctx, x)
			if err != nil {
				errs = fwconf.AppendErrors(errs, fwconf.PrependPath(err, k))
				return !fwconf.IsFailFast(ctx)
			}
			val = res
		}
		out.Set(key, val)
		return true
	})
	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

func (d DictValidator) JSONSchema() *js.Schema {
	var add any = true
	if d.value != nil {
		add = fwconf.JSONSchemaOf(d.value)
	}
	return &js.Schema{Type: "object", AdditionalProperties: add}
}

// Valid accepts any value unchanged.
var Valid fwconf.Validator = leaf{fn: func(_ context.Context, v any) (any, error) { return v, nil }}

// Invalid always fails with msg. Useful for retired options.
func Invalid(msg string) fwconf.Validator {
	return leaf{fn: func(context.Context, any) (any, error) { return nil, invalid("%s", msg) }}
}

// None accepts only null.
var None fwconf.Validator = leaf{
	fn: func(_ context.Context, v any) (any, error) {
		if v != nil {
			return nil, fwconf.Errorf(fwconf.CodeInvalidType, "expected null, got %s", scalar.Format(v))
		}
		return nil, nil
	},
	schema: typed("null"),
}

// Literal accepts only values equal to want.
func Literal(want any) fwconf.Validator {
	return leaf{
		fn: func(_ context.Context, v any) (any, error) {
			if !fwconf.Equal(v, want) {
				return nil, invalid("%s not match for %s", scalar.Format(v), scalar.Format(want))
			}
			return v, nil
		},
		schema: func() *js.Schema { return &js.Schema{Enum: []any{want}} },
	}
}

// MaybeSimpleValue lets a mapping be written as a bare value: anything that
// is not a mapping holding key becomes {key: value} before v validates it.
func MaybeSimpleValue(v fwconf.Validator, key string) fwconf.Validator {
	return leaf{
		fn: func(ctx context.Context, x any) (any, error) {
			if m, ok := fwconf.AsMap(x); ok && m.Has(key) {
				return v.Validate(ctx, x)
			}
			return v.Validate(ctx, fwconf.M(key, x))
		},
		schema: func() *js.Schema {
			inner := fwconf.JSONSchemaOf(v)
			simple := &js.Schema{}
			if inner.Properties != nil {
				if p, ok := inner.Properties[key]; ok {
					simple = p
				}
			}
			return js.AnyOf(inner, simple)
		},
	}
}

// Coerce converts with fn, reporting its error message on failure.
func Coerce(name string, fn func(v any) (any, error)) fwconf.Validator {
	return leaf{fn: func(_ context.Context, v any) (any, error) {
		out, err := fn(v)
		if err != nil {
			return nil, &fwconf.Invalid{Code: fwconf.CodeInvalidValue, Message: fmt.Sprintf("expected %s", name), Cause: err}
		}
		return out, nil
	}}
}

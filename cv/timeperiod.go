package cv

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/reoring/fwconf"
	"github.com/reoring/fwconf/internal/scalar"
	js "github.com/reoring/fwconf/jsonschema"
)

const timePeriodError = "Time period %s should be format number + unit, for example 5ms, 5s, 5min, 5h"

// timeUnitNames maps every accepted unit spelling to its component.
var timeUnitNames = map[string]fwconf.TimeUnit{
	"us":           fwconf.Microseconds,
	"microseconds": fwconf.Microseconds,
	"ms":           fwconf.Milliseconds,
	"milliseconds": fwconf.Milliseconds,
	"s":            fwconf.Seconds,
	"sec":          fwconf.Seconds,
	"seconds":      fwconf.Seconds,
	"min":          fwconf.Minutes,
	"minutes":      fwconf.Minutes,
	"h":            fwconf.Hours,
	"hours":        fwconf.Hours,
	"d":            fwconf.Days,
	"days":         fwconf.Days,
}

var timeUnitOneOf = OneOf(
	"us", "microseconds", "ms", "milliseconds", "s", "sec", "seconds",
	"min", "minutes", "h", "hours", "d", "days",
)

var timePeriodPattern = regexp.MustCompile(`^([-+]?[0-9]*\.?[0-9]*)\s*(` + word + `*)$`)

func isInteger(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}

func periodSchema() *js.Schema {
	return &js.Schema{Type: "string", Pattern: `^[-+]?[0-9]*\.?[0-9]*\s*[a-z]+$`, Format: "time-period"}
}

// TimePeriodStrUnit accepts "<number><unit>" such as "500ms" or "1.5 h".
var TimePeriodStrUnit fwconf.Validator = leaf{
	fn: func(ctx context.Context, v any) (any, error) {
		if err := CheckNotTemplatable(v); err != nil {
			return nil, err
		}
		if isInteger(v) {
			return nil, fwconf.Errorf(fwconf.CodeInvalidFormat, "Don't know what '%v' means as it has no time *unit*! Did you mean '%vs'?", v, v)
		}
		if tp, ok := v.(fwconf.TimePeriod); ok {
			v = tp.String()
		}
		s, ok := v.(string)
		if !ok {
			return nil, fwconf.Errorf(fwconf.CodeInvalidType, "Expected string for time period with unit.")
		}
		m := timePeriodPattern.FindStringSubmatch(s)
		if m == nil {
			return nil, fwconf.Errorf(fwconf.CodeInvalidFormat, "Expected time period with unit, got %s", s)
		}
		unit, err := timeUnitOneOf.Validate(ctx, m[2])
		if err != nil {
			return nil, err
		}
		f, perr := strconv.ParseFloat(m[1], 64)
		if perr != nil {
			return nil, fwconf.Errorf(fwconf.CodeInvalidFormat, "Expected time period with unit, got %s", s)
		}
		tp, terr := fwconf.NewTimePeriod(map[fwconf.TimeUnit]float64{timeUnitNames[unit.(string)]: f})
		if terr != nil {
			return nil, terr
		}
		return tp, nil
	},
	schema: periodSchema,
}

// TimePeriodStrColon accepts "HH:MM" and "HH:MM:SS".
var TimePeriodStrColon fwconf.Validator = leaf{
	fn: func(_ context.Context, v any) (any, error) {
		if isInteger(v) {
			return nil, fwconf.Errorf(fwconf.CodeInvalidFormat, "Make sure you wrap time values in quotes")
		}
		s, ok := v.(string)
		if !ok {
			return nil, fwconf.Errorf(fwconf.CodeInvalidFormat, timePeriodError, scalar.Format(v))
		}
		fields := strings.Split(s, ":")
		parsed := make([]float64, len(fields))
		for i, f := range fields {
			n, err := strconv.Atoi(strings.TrimSpace(f))
			if err != nil {
				return nil, fwconf.Errorf(fwconf.CodeInvalidFormat, timePeriodError, s)
			}
			parsed[i] = float64(n)
		}
		parts := map[fwconf.TimeUnit]float64{}
		switch len(parsed) {
		case 2:
			parts[fwconf.Hours], parts[fwconf.Minutes], parts[fwconf.Seconds] = parsed[0], parsed[1], 0
		case 3:
			parts[fwconf.Hours], parts[fwconf.Minutes], parts[fwconf.Seconds] = parsed[0], parsed[1], parsed[2]
		default:
			return nil, fwconf.Errorf(fwconf.CodeInvalidFormat, timePeriodError, s)
		}
		return fwconf.NewTimePeriod(parts)
	},
	schema: func() *js.Schema {
		return &js.Schema{Type: "string", Pattern: `^[0-9]+:[0-9]+(:[0-9]+)?$`}
	},
}

var timePeriodKeys = []string{"days", "hours", "minutes", "seconds", "milliseconds", "microseconds"}

func timePeriodDictSchema() *SchemaValidator {
	fields := make([]*Field, len(timePeriodKeys))
	for i, k := range timePeriodKeys {
		fields[i] = Optional(k, Float)
	}
	return Schema(fields...)
}

// TimePeriodDict accepts a mapping of days/hours/minutes/seconds/
// milliseconds/microseconds with at least one key.
var TimePeriodDict fwconf.Validator = leaf{
	fn: func(ctx context.Context, v any) (any, error) {
		res, err := All(timePeriodDictSchema(), HasAtLeastOneKey(timePeriodKeys...)).Validate(ctx, v)
		if err != nil {
			return nil, err
		}
		m, _ := fwconf.AsMap(res)
		parts := map[fwconf.TimeUnit]float64{}
		m.Range(func(k string, x any) bool {
			u, _ := fwconf.ParseTimeUnit(k)
			parts[u] = x.(float64)
			return true
		})
		return fwconf.NewTimePeriod(parts)
	},
	schema: func() *js.Schema {
		s := timePeriodDictSchema().JSONSchema()
		s.MinProperties = js.Int(1)
		return s
	},
}

// TimePeriod accepts any of the unit, colon or mapping forms.
var TimePeriod = Any(TimePeriodStrUnit, TimePeriodStrColon, TimePeriodDict)

// PositiveTimePeriod rejects negative periods.
var PositiveTimePeriod = All(TimePeriod, Range().MinPeriod(fwconf.TimePeriod{}))

// PositiveNotNullTimePeriod rejects negative and zero periods.
var PositiveNotNullTimePeriod = All(TimePeriod, Range().MinPeriod(fwconf.TimePeriod{}).ExclusiveMin())

// narrow fails when tp has a nonzero component finer than u.
func narrow(u fwconf.TimeUnit) fwconf.Validator {
	return leaf{fn: func(_ context.Context, v any) (any, error) {
		tp, ok := v.(fwconf.TimePeriod)
		if !ok {
			return nil, fwconf.Errorf(fwconf.CodeInvalidType, "expected time period")
		}
		for x := fwconf.Microseconds; x < u; x++ {
			if n, _ := tp.Get(x); n != 0 {
				return nil, fwconf.Errorf(fwconf.CodeInvalidValue, "Maximum precision is %s", u)
			}
		}
		return tp.WithPrecision(u), nil
	}}
}

// Precision-narrowed periods.
var (
	TimePeriodMicroseconds                = All(TimePeriod, narrow(fwconf.Microseconds))
	PositiveTimePeriodMicroseconds        = All(PositiveTimePeriod, narrow(fwconf.Microseconds))
	PositiveTimePeriodMilliseconds        = All(PositiveTimePeriod, narrow(fwconf.Milliseconds))
	PositiveTimePeriodSeconds             = All(PositiveTimePeriod, narrow(fwconf.Seconds))
	PositiveTimePeriodMinutes             = All(PositiveTimePeriod, narrow(fwconf.Minutes))
	PositiveNotNullTimePeriodSeconds      = All(PositiveNotNullTimePeriod, narrow(fwconf.Seconds))
	PositiveNotNullTimePeriodMilliseconds = All(PositiveNotNullTimePeriod, narrow(fwconf.Milliseconds))
)

// Never is the update interval meaning "do not poll".
const Never = 4294967295

// UpdateInterval is PositiveTimePeriodMilliseconds that also accepts
// "never", returned as Never. Never itself is accepted so validated
// output validates again.
var UpdateInterval fwconf.Validator = leaf{
	fn: func(ctx context.Context, v any) (any, error) {
		if s, ok := v.(string); ok && s == "never" {
			return Never, nil
		}
		if i, ok := fwconf.ToInt(v); ok && i == Never {
			return Never, nil
		}
		return PositiveTimePeriodMilliseconds.Validate(ctx, v)
	},
	schema: func() *js.Schema {
		return js.AnyOf(PositiveTimePeriodMilliseconds.JSONSchema(), &js.Schema{Enum: []any{"never"}})
	},
}

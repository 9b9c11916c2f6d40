package cv

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/reoring/fwconf"
	"github.com/reoring/fwconf/i18n"
	"github.com/reoring/fwconf/internal/scalar"
	js "github.com/reoring/fwconf/jsonschema"
)

// CheckNotTemplatable fails when v is a deferred expression.
func CheckNotTemplatable(v any) error {
	if _, ok := v.(fwconf.Lambda); ok {
		return fwconf.NewInvalid(fwconf.CodeNotTemplatable)
	}
	return nil
}

// ToString applies the String coercion outside a validator chain.
func ToString(v any) (string, error) {
	if err := CheckNotTemplatable(v); err != nil {
		return "", err
	}
	switch t := v.(type) {
	case string:
		return t, nil
	case nil:
		return "", invalid("string value is null")
	case bool:
		return "", invalid("Auto-converted this value to boolean, please wrap the value in quotes.")
	case []any, map[string]any, *fwconf.Map:
		return "", fwconf.Errorf(fwconf.CodeInvalidType, "string value cannot be dictionary or list.")
	case fwconf.EnumValue:
		return ToString(t.Value)
	}
	return scalar.Format(v), nil
}

// ToStringStrict applies the StringStrict check outside a validator chain.
func ToStringStrict(v any) (string, error) {
	if err := CheckNotTemplatable(v); err != nil {
		return "", err
	}
	if ev, ok := v.(fwconf.EnumValue); ok {
		v = ev.Value
	}
	s, ok := v.(string)
	if !ok {
		return "", fwconf.Errorf(fwconf.CodeInvalidType, "Must be string, got %s. did you forget putting quotes around the value?", scalar.TypeName(v))
	}
	return s, nil
}

// String accepts any scalar except booleans and stringifies it.
var String fwconf.Validator = leaf{
	fn:     func(_ context.Context, v any) (any, error) { return ToString(v) },
	schema: typed("string"),
}

// StringStrict accepts only values that are already strings.
var StringStrict fwconf.Validator = leaf{
	fn:     func(_ context.Context, v any) (any, error) { return ToStringStrict(v) },
	schema: typed("string"),
}

// Boolean accepts booleans and the words true/yes/on/enable and
// false/no/off/disable in any case.
var Boolean fwconf.Validator = leaf{
	fn: func(_ context.Context, v any) (any, error) {
		if err := CheckNotTemplatable(v); err != nil {
			return nil, err
		}
		switch t := v.(type) {
		case bool:
			return t, nil
		case string:
			switch strings.ToLower(t) {
			case "true", "yes", "on", "enable":
				return true, nil
			case "false", "no", "off", "disable":
				return false, nil
			}
			v = strings.ToLower(t)
		}
		return nil, fwconf.Errorf(fwconf.CodeInvalidType, "Expected boolean value, but cannot convert %s to a boolean. Please use 'true' or 'false'", scalar.Format(v))
	},
	schema: typed("boolean"),
}

// ToInt applies the Int coercion outside a validator chain.
func ToInt(v any) (int, error) {
	if err := CheckNotTemplatable(v); err != nil {
		return 0, err
	}
	switch t := v.(type) {
	case bool:
		return 0, fwconf.Errorf(fwconf.CodeInvalidType, "Expected integer, but cannot parse %s as an integer", scalar.Format(t))
	case float32, float64:
		f, _ := fwconf.ToFloat(t)
		if f != float64(int64(f)) {
			return 0, invalid("This option only accepts integers with no fractional part. Please remove the fractional part from %s", scalar.Format(f))
		}
		return int(f), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return int(i), nil
		}
		if f, err := t.Float64(); err == nil {
			return ToInt(f)
		}
	case fwconf.EnumValue:
		return ToInt(t.Value)
	}
	if i, ok := fwconf.ToInt(v); ok {
		return i, nil
	}
	s, err := ToStringStrict(v)
	if err != nil {
		return 0, err
	}
	s = strings.ToLower(strings.TrimSpace(s))
	digits, base := s, 10
	if strings.HasPrefix(s, "0x") {
		digits, base = s[2:], 16
	}
	if digits == "" || (base == 16 && (digits[0] == '-' || digits[0] == '+')) {
		return 0, fwconf.Errorf(fwconf.CodeInvalidFormat, "Expected integer, but cannot parse %s as an integer", s)
	}
	n, perr := strconv.ParseInt(digits, base, 64)
	if perr != nil {
		return 0, fwconf.Errorf(fwconf.CodeInvalidFormat, "Expected integer, but cannot parse %s as an integer", s)
	}
	return int(n), nil
}

// Int accepts integers, integral floats and decimal or 0x-prefixed strings.
var Int fwconf.Validator = leaf{
	fn:     func(_ context.Context, v any) (any, error) { return ToInt(v) },
	schema: typed("integer"),
}

// ToFloat applies the Float coercion outside a validator chain.
func ToFloat(v any) (float64, error) {
	if err := CheckNotTemplatable(v); err != nil {
		return 0, err
	}
	if ev, ok := v.(fwconf.EnumValue); ok {
		v = ev.Value
	}
	if f, ok := fwconf.ToFloat(v); ok {
		return f, nil
	}
	if s, ok := v.(string); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f, nil
		}
	}
	return 0, fwconf.Errorf(fwconf.CodeInvalidType, "expected float")
}

// Float accepts any number or numeric string.
var Float fwconf.Validator = leaf{
	fn:     func(_ context.Context, v any) (any, error) { return ToFloat(v) },
	schema: typed("number"),
}

// HexInt is Int tagging the result so it renders in hexadecimal.
var HexInt fwconf.Validator = leaf{
	fn: func(_ context.Context, v any) (any, error) {
		i, err := ToInt(v)
		if err != nil {
			return nil, err
		}
		return fwconf.HexInt(i), nil
	},
	schema: typed("integer"),
}

// Fixed-width integer ranges.
var (
	Uint8     = IntRange(0, 255)
	Uint16    = IntRange(0, 65535)
	Uint32    = IntRange(0, 4294967295)
	HexUint8  = HexIntRange(0, 255)
	HexUint16 = HexIntRange(0, 65535)
	HexUint32 = HexIntRange(0, 4294967295)

	Port               = IntRange(1, 65535)
	PositiveInt        = IntRange(0, 0).NoMax()
	PositiveNotNullInt = IntRange(0, 0).NoMax().ExclusiveMin()

	PositiveFloat         = FloatRange(0, 0).NoMax()
	ZeroToOneFloat        = FloatRange(0, 1)
	NegativeOneToOneFloat = FloatRange(-1, 1)
)

// PossiblyNegativePercentage accepts -100%..100% (or a bare float in
// -1..1) and returns the fraction.
var PossiblyNegativePercentage fwconf.Validator = leaf{
	fn: func(ctx context.Context, v any) (any, error) {
		hasPercent := false
		if s, ok := v.(string); ok {
			body := s
			if strings.HasSuffix(s, "%") {
				hasPercent = true
				body = strings.TrimRight(s[:len(s)-1], " \t")
			}
			f, err := strconv.ParseFloat(strings.TrimSpace(body), 64)
			if err != nil {
				return nil, fwconf.Errorf(fwconf.CodeInvalidFormat, "invalid number")
			}
			if hasPercent {
				f /= 100.0
			}
			v = f
		}
		f, ok := fwconf.ToFloat(v)
		if !ok {
			return nil, fwconf.Errorf(fwconf.CodeInvalidType, "Expected percentage or float between -1.0 and 1.0")
		}
		suffix := ""
		if !hasPercent {
			suffix = " Please put a percent sign after the number!"
		}
		if f > 1 {
			return nil, fwconf.Errorf(fwconf.CodeOutOfRange, "Percentage must not be higher than 100%%.%s", suffix)
		}
		if f < -1 {
			return nil, fwconf.Errorf(fwconf.CodeOutOfRange, "Percentage must not be smaller than -100%%.%s", suffix)
		}
		return NegativeOneToOneFloat.Validate(ctx, f)
	},
	schema: func() *js.Schema {
		return js.AnyOf(&js.Schema{Type: "number", Minimum: js.Float(-1), Maximum: js.Float(1)}, &js.Schema{Type: "string", Pattern: `^-?[0-9.]+\s*%$`})
	},
}

// Percentage accepts 0%..100% (or a bare float in 0..1) and returns the
// fraction.
var Percentage fwconf.Validator = leaf{
	fn: func(ctx context.Context, v any) (any, error) {
		return All(PossiblyNegativePercentage, ZeroToOneFloat).Validate(ctx, v)
	},
	schema: func() *js.Schema {
		return js.AnyOf(&js.Schema{Type: "number", Minimum: js.Float(0), Maximum: js.Float(1)}, &js.Schema{Type: "string", Pattern: `^[0-9.]+\s*%$`})
	},
}

// PercentageInt turns "50%" into 50 and leaves anything else for the next
// validator in the chain.
var PercentageInt fwconf.Validator = leaf{
	fn: func(_ context.Context, v any) (any, error) {
		s, ok := v.(string)
		if !ok || !strings.HasSuffix(s, "%") {
			return v, nil
		}
		body := strings.TrimSpace(s[:len(s)-1])
		n, err := strconv.Atoi(body)
		if err != nil {
			return nil, fwconf.Errorf(fwconf.CodeInvalidFormat, "Expected integer percentage, got %s", s)
		}
		return n, nil
	},
}

// MACAddress accepts XX:XX:XX:XX:XX:XX.
var MACAddress fwconf.Validator = leaf{
	fn: func(_ context.Context, v any) (any, error) {
		if mac, ok := v.(fwconf.MACAddress); ok {
			return mac, nil
		}
		s, err := ToStringStrict(v)
		if err != nil {
			return nil, err
		}
		parts := strings.Split(s, ":")
		if len(parts) != 6 {
			return nil, fwconf.Errorf(fwconf.CodeInvalidFormat, "MAC Address must consist of 6 : (colon) separated parts")
		}
		for _, p := range parts {
			if len(p) != 2 {
				return nil, fwconf.Errorf(fwconf.CodeInvalidFormat, "MAC Address must be format XX:XX:XX:XX:XX:XX")
			}
		}
		var mac fwconf.MACAddress
		for i, p := range parts {
			b, err := strconv.ParseUint(p, 16, 8)
			if err != nil {
				return nil, fwconf.Errorf(fwconf.CodeInvalidFormat, "MAC Address parts must be hexadecimal values from 00 to FF")
			}
			mac[i] = byte(b)
		}
		return mac, nil
	},
	schema: func() *js.Schema {
		return &js.Schema{Type: "string", Pattern: `^([0-9A-Fa-f]{2}:){5}[0-9A-Fa-f]{2}$`}
	},
}

// UUID accepts the textual UUID forms and returns a uuid.UUID.
var UUID fwconf.Validator = leaf{
	fn: func(_ context.Context, v any) (any, error) {
		if u, ok := v.(uuid.UUID); ok {
			return u, nil
		}
		s, ok := v.(string)
		if !ok {
			return nil, fwconf.Errorf(fwconf.CodeInvalidType, "expected UUID")
		}
		u, err := uuid.Parse(strings.TrimSpace(s))
		if err != nil {
			return nil, &fwconf.Invalid{Code: fwconf.CodeInvalidFormat, Message: "expected UUID", Cause: err}
		}
		return u, nil
	},
	schema: func() *js.Schema { return &js.Schema{Type: "string", Format: "uuid"} },
}

// expectedMap is the failure for non-mapping input to mapping validators.
func expectedMap() *fwconf.Invalid {
	return &fwconf.Invalid{Code: fwconf.CodeInvalidType, Message: i18n.T("expected_map", nil)}
}

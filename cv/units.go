package cv

import (
	"context"
	"math"
	"regexp"
	"strconv"

	"github.com/reoring/fwconf"
	"github.com/reoring/fwconf/internal/scalar"
	js "github.com/reoring/fwconf/jsonschema"
)

// MetricSuffixes maps SI prefixes to their multipliers.
var MetricSuffixes = map[string]float64{
	"E":  1e18,
	"P":  1e15,
	"T":  1e12,
	"G":  1e9,
	"M":  1e6,
	"k":  1e3,
	"da": 10,
	"d":  1e-1,
	"c":  1e-2,
	"m":  0.001,
	"µ":  1e-6,
	"u":  1e-6,
	"n":  1e-9,
	"p":  1e-12,
	"f":  1e-15,
	"a":  1e-18,
	"":   1,
}

// word matches the prefix slot; unlike \w it also covers non-ASCII letters
// such as µ.
const word = `[\p{L}\p{N}_]`

// UnitValidator parses "<number><optional space><prefix><unit>".
type UnitValidator struct {
	quantity string
	pattern  *regexp.Regexp
	optional bool
}

// FloatWithUnit builds a parser for a physical quantity. suffix is a regular
// expression group matching the accepted unit spellings. With optionalUnit a
// bare number is accepted first.
func FloatWithUnit(quantity, suffix string, optionalUnit bool) UnitValidator {
	return UnitValidator{
		quantity: quantity,
		pattern:  regexp.MustCompile(`^([-+]?[0-9]*\.?[0-9]*)\s*(` + word + `*?)` + suffix + `$`),
		optional: optionalUnit,
	}
}

// Parse converts v to the quantity in base units. Numbers, as opposed to
// numeric strings, are already in base units.
func (u UnitValidator) Parse(v any) (float64, error) {
	if f, ok := fwconf.ToFloat(v); ok {
		return f, nil
	}
	if u.optional {
		if f, err := ToFloat(v); err == nil {
			return f, nil
		}
	}
	s, err := ToString(v)
	if err != nil {
		return 0, err
	}
	m := u.pattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fwconf.Errorf(fwconf.CodeInvalidFormat, "Expected %s with unit, got %s", u.quantity, scalar.Format(v))
	}
	mantissa, perr := strconv.ParseFloat(m[1], 64)
	if perr != nil {
		return 0, fwconf.Errorf(fwconf.CodeInvalidFormat, "Expected %s with unit, got %s", u.quantity, scalar.Format(v))
	}
	mult, ok := MetricSuffixes[m[2]]
	if !ok {
		return 0, fwconf.Errorf(fwconf.CodeInvalidFormat, "Invalid %s suffix %s", u.quantity, m[2])
	}
	return mantissa * mult, nil
}

func (u UnitValidator) Validate(_ context.Context, v any) (any, error) {
	f, err := u.Parse(v)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (u UnitValidator) JSONSchema() *js.Schema {
	return js.AnyOf(&js.Schema{Type: "number"}, &js.Schema{Type: "string", Description: u.quantity})
}

// Physical quantities, all returned as float64 in base units.
var (
	Frequency  = FloatWithUnit("frequency", "(Hz|HZ|hz)?", false)
	Resistance = FloatWithUnit("resistance", `(\x{03A9}|\x{2126}|ohm|Ohm|OHM)?`, false)
	Current    = FloatWithUnit("current", "(a|A|amp|Amp|amps|Amps|ampere|Ampere)?", false)
	Voltage    = FloatWithUnit("voltage", "(v|V|volt|Volts)?", false)
	Distance   = FloatWithUnit("distance", "(m)", false)
	Framerate  = FloatWithUnit("framerate", "(FPS|fps|Fps|FpS|Hz)", false)
	Angle      = FloatWithUnit("angle", "(°|deg)", true)
	Decibel    = FloatWithUnit("decibel", "(dB|dBm|db|dbm)", true)
	Pressure   = FloatWithUnit("pressure", "(bar|Bar)", true)

	TemperatureCelsius    = FloatWithUnit("temperature", "(°C|° C|°|C)?", false)
	TemperatureKelvin     = FloatWithUnit("temperature", "(° K|° K|K)?", false)
	TemperatureFahrenheit = FloatWithUnit("temperature", "(°F|° F|F)?", false)

	colorTemperatureMireds = FloatWithUnit("Color Temperature", "(mireds|Mireds)", false)
	colorTemperatureKelvin = FloatWithUnit("Color Temperature", "(K|Kelvin)", false)
)

// Temperature accepts Celsius, Kelvin or Fahrenheit and returns Celsius.
// When no reading fits, the Celsius parser's failure is reported.
var Temperature fwconf.Validator = leaf{
	fn: func(_ context.Context, v any) (any, error) {
		c, err := TemperatureCelsius.Parse(v)
		if err == nil {
			return c, nil
		}
		if k, kerr := TemperatureKelvin.Parse(v); kerr == nil {
			return k - 273.15, nil
		}
		if f, ferr := TemperatureFahrenheit.Parse(v); ferr == nil {
			return (f - 32) * 5 / 9, nil
		}
		return nil, err
	},
	schema: func() *js.Schema { return TemperatureCelsius.JSONSchema() },
}

// TemperatureDelta is Temperature for differences: no offsets are applied.
var TemperatureDelta fwconf.Validator = leaf{
	fn: func(_ context.Context, v any) (any, error) {
		c, err := TemperatureCelsius.Parse(v)
		if err == nil {
			return c, nil
		}
		if k, kerr := TemperatureKelvin.Parse(v); kerr == nil {
			return k, nil
		}
		if f, ferr := TemperatureFahrenheit.Parse(v); ferr == nil {
			return f * 5 / 9, nil
		}
		return nil, err
	},
	schema: func() *js.Schema { return TemperatureCelsius.JSONSchema() },
}

// ColorTemperature accepts mireds or Kelvin and returns mireds.
var ColorTemperature fwconf.Validator = leaf{
	fn: func(_ context.Context, v any) (any, error) {
		val, err := colorTemperatureMireds.Parse(v)
		if err != nil {
			k, kerr := colorTemperatureKelvin.Parse(v)
			if kerr != nil {
				return nil, kerr
			}
			if k == 0 {
				return nil, fwconf.Errorf(fwconf.CodeOutOfRange, "Color temperature cannot be zero Kelvin")
			}
			val = 1000000.0 / k
		}
		if val < 0 {
			return nil, fwconf.Errorf(fwconf.CodeOutOfRange, "Color temperature cannot be negative")
		}
		return val, nil
	},
	schema: func() *js.Schema {
		return &js.Schema{Type: "string", Pattern: `^[0-9.]+\s*(mireds|Mireds|K|Kelvin)$`}
	},
}

var bytesPattern = regexp.MustCompile(`^([0-9]+)\s*(` + word + `*?)(?:byte|B|b)?s?$`)

// Bytes accepts a byte count with an optional SI prefix ("4kB", "1 MB").
// Prefixes below one (m, µ, ...) are rejected.
var Bytes fwconf.Validator = leaf{
	fn: func(_ context.Context, v any) (any, error) {
		s, err := ToString(v)
		if err != nil {
			return nil, err
		}
		m := bytesPattern.FindStringSubmatch(s)
		if m == nil {
			return nil, fwconf.Errorf(fwconf.CodeInvalidFormat, "Expected number of bytes with unit, got %s", s)
		}
		mult, ok := MetricSuffixes[m[2]]
		if !ok {
			return nil, fwconf.Errorf(fwconf.CodeInvalidFormat, "Invalid metric suffix %s", m[2])
		}
		if mult < 1 {
			return nil, fwconf.Errorf(fwconf.CodeInvalidFormat, "Only suffixes with positive exponents are supported. Got %s", m[2])
		}
		mantissa, perr := strconv.ParseFloat(m[1], 64)
		if perr != nil {
			return nil, fwconf.Errorf(fwconf.CodeInvalidFormat, "Expected number of bytes with unit, got %s", s)
		}
		total := mantissa * mult
		if total >= math.MaxInt64 {
			return nil, fwconf.Errorf(fwconf.CodeOutOfRange, "Byte size %s is too large", s)
		}
		return int(total), nil
	},
	schema: func() *js.Schema {
		return js.AnyOf(&js.Schema{Type: "integer", Minimum: js.Float(0)}, &js.Schema{Type: "string", Pattern: `^[0-9]+\s*[a-zA-Zµ]*$`})
	},
}

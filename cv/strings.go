package cv

import (
	"context"
	"fmt"
	"net/netip"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/reoring/fwconf"
	js "github.com/reoring/fwconf/jsonschema"
)

func stringValidator(fn func(s string) (any, error), strict bool, schema func() *js.Schema) fwconf.Validator {
	if schema == nil {
		schema = typed("string")
	}
	return leaf{
		fn: func(_ context.Context, v any) (any, error) {
			conv := ToString
			if strict {
				conv = ToStringStrict
			}
			s, err := conv(v)
			if err != nil {
				return nil, err
			}
			return fn(s)
		},
		schema: schema,
	}
}

// Alphanumeric accepts letters and digits only.
var Alphanumeric = stringValidator(func(s string) (any, error) {
	if s == "" {
		return nil, invalid("%s is not alphanumeric", s)
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return nil, invalid("%s is not alphanumeric", s)
		}
	}
	return s, nil
}, false, nil)

// AllowedNameChars are the characters a device name may use.
const AllowedNameChars = "abcdefghijklmnopqrstuvwxyz0123456789_"

// ValidName accepts lowercase names made of AllowedNameChars.
var ValidName = stringValidator(func(s string) (any, error) {
	for _, r := range s {
		if !strings.ContainsRune(AllowedNameChars, r) {
			return nil, fwconf.Errorf(fwconf.CodeInvalidFormat, "'%c' is an invalid character for names. Valid characters are: %s (lowercase, no spaces)", r, AllowedNameChars)
		}
	}
	return s, nil
}, true, func() *js.Schema { return &js.Schema{Type: "string", Pattern: `^[a-z0-9_]*$`} })

var iconPattern = regexp.MustCompile(`^[\w\-]+:[\w\-]+$`)

// Icon accepts "[icon pack]:[icon]" or the empty string.
var Icon = stringValidator(func(s string) (any, error) {
	if s == "" || iconPattern.MatchString(s) {
		return s, nil
	}
	return nil, fwconf.Errorf(fwconf.CodeInvalidFormat, `Icons must match the format "[icon pack]:[icon]", e.g. "mdi:home-assistant"`)
}, true, func() *js.Schema { return &js.Schema{Type: "string", Pattern: iconPattern.String()} })

var hostnamePattern = regexp.MustCompile(`(?i)^[a-z0-9-]{1,63}$`)

// Hostname accepts a single DNS label.
var Hostname = stringValidator(func(s string) (any, error) {
	if hostnamePattern.MatchString(s) {
		return s, nil
	}
	return nil, fwconf.Errorf(fwconf.CodeInvalidFormat, "Invalid hostname: %s", s)
}, false, func() *js.Schema { return &js.Schema{Type: "string", Format: "hostname"} })

// DomainName accepts a search domain such as ".local", or the empty string.
var DomainName = stringValidator(func(s string) (any, error) {
	if s == "" {
		return s, nil
	}
	if !strings.HasPrefix(s, ".") {
		return nil, fwconf.Errorf(fwconf.CodeInvalidFormat, "Domain name must start with .")
	}
	if strings.HasPrefix(s, "..") {
		return nil, fwconf.Errorf(fwconf.CodeInvalidFormat, "Domain name must start with single .")
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !strings.ContainsRune("._-", r) {
			return nil, fwconf.Errorf(fwconf.CodeInvalidFormat, "Domain name can only have alphanumeric characters and _ or -")
		}
	}
	return s, nil
}, true, nil)

// SSID accepts a non-empty network name of at most 32 characters.
var SSID = stringValidator(func(s string) (any, error) {
	if s == "" {
		return nil, fwconf.Errorf(fwconf.CodeTooShort, "SSID can't be empty.")
	}
	if len([]rune(s)) > 32 {
		return nil, fwconf.Errorf(fwconf.CodeTooLong, "SSID can't be longer than 32 characters")
	}
	return s, nil
}, true, func() *js.Schema { return &js.Schema{Type: "string", MinLength: js.Int(1), MaxLength: js.Int(32)} })

// IPv4 accepts a dotted quad or a list of four integers and returns a
// netip.Addr.
var IPv4 fwconf.Validator = leaf{
	fn: func(_ context.Context, v any) (any, error) {
		var parts []any
		switch t := v.(type) {
		case netip.Addr:
			if t.Is4() {
				return t, nil
			}
			return nil, fwconf.Errorf(fwconf.CodeInvalidFormat, "IPv4 address must consist of four point-separated integers")
		case []any:
			parts = t
		case string:
			for _, p := range strings.Split(t, ".") {
				parts = append(parts, p)
			}
		default:
			return nil, fwconf.Errorf(fwconf.CodeInvalidType, "IPv4 address must consist of either string or integer list")
		}
		if len(parts) != 4 {
			return nil, fwconf.Errorf(fwconf.CodeInvalidFormat, "IPv4 address must consist of four point-separated integers")
		}
		var octets [4]byte
		for i, p := range parts {
			n, err := ToInt(p)
			if err != nil {
				return nil, fwconf.Errorf(fwconf.CodeInvalidFormat, "IPv4 address must consist of four point-separated integers")
			}
			if n < 0 || n > 255 {
				return nil, fwconf.Errorf(fwconf.CodeOutOfRange, "IPv4 address parts must be in range from 0 to 255")
			}
			octets[i] = byte(n)
		}
		return netip.AddrFrom4(octets), nil
	},
	schema: func() *js.Schema { return &js.Schema{Type: "string", Format: "ipv4"} },
}

// URL accepts an absolute URL with scheme and host.
var URL = stringValidator(func(s string) (any, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, &fwconf.Invalid{Code: fwconf.CodeInvalidFormat, Message: "Not a valid URL", Cause: err}
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fwconf.Errorf(fwconf.CodeInvalidFormat, "Expected a URL scheme and host")
	}
	return u.String(), nil
}, true, func() *js.Schema { return &js.Schema{Type: "string", Format: "uri"} })

var versionPattern = regexp.MustCompile(`^(\d+).(\d+).(\d+)-?\w*$`)

// VersionNumber accepts "major.minor.patch" with an optional suffix and
// returns the normalized "major.minor.patch".
var VersionNumber = stringValidator(func(s string) (any, error) {
	m := versionPattern.FindStringSubmatch(s)
	if m == nil {
		return nil, fwconf.Errorf(fwconf.CodeInvalidFormat, "Not a valid version number")
	}
	var n [3]int
	for i := range n {
		x, err := strconv.Atoi(m[i+1])
		if err != nil {
			return nil, fwconf.Errorf(fwconf.CodeInvalidFormat, "Not a valid version number")
		}
		n[i] = x
	}
	return fmt.Sprintf("%d.%d.%d", n[0], n[1], n[2]), nil
}, true, nil)

// EntityID accepts a Home Assistant entity id ("sensor.kitchen"), lowercased.
var EntityID = stringValidator(func(s string) (any, error) {
	s = strings.ToLower(s)
	if strings.Count(s, ".") != 1 {
		return nil, fwconf.Errorf(fwconf.CodeInvalidFormat, "Entity ID must have exactly one dot in it")
	}
	for _, r := range s {
		if r != '.' && !strings.ContainsRune(AllowedNameChars, r) {
			return nil, fwconf.Errorf(fwconf.CodeInvalidFormat, "Invalid character for entity ID: %c", r)
		}
	}
	return s, nil
}, true, nil)

// BindKey accepts 16 hexadecimal bytes and returns them uppercased.
var BindKey = stringValidator(func(s string) (any, error) {
	if (len(s)+1)/2 != 16 {
		return nil, fwconf.Errorf(fwconf.CodeInvalidFormat, "Bind key must consist of 16 hexadecimal numbers")
	}
	if len(s) != 32 {
		return nil, fwconf.Errorf(fwconf.CodeInvalidFormat, "Bind key must be format XX")
	}
	b := &strings.Builder{}
	for i := 0; i < len(s); i += 2 {
		n, err := strconv.ParseUint(s[i:i+2], 16, 8)
		if err != nil {
			return nil, fwconf.Errorf(fwconf.CodeInvalidFormat, "Bind key must be hex values from 00 to FF")
		}
		fmt.Fprintf(b, "%02X", n)
	}
	return b.String(), nil
}, true, func() *js.Schema { return &js.Schema{Type: "string", Pattern: `^[0-9A-Fa-f]{32}$`} })

var dimensionsPattern = regexp.MustCompile(`^\s*([0-9]+)\s*[xX]\s*([0-9]+)\s*$`)

// Dimensions accepts "WIDTHxHEIGHT" or a [width, height] list and returns
// []any{width, height}.
var Dimensions fwconf.Validator = leaf{
	fn: func(_ context.Context, v any) (any, error) {
		var w, h any
		if list, ok := v.([]any); ok {
			if len(list) != 2 {
				return nil, fwconf.Errorf(fwconf.CodeInvalidFormat, "Dimensions must have a length of two, not %d", len(list))
			}
			w, h = list[0], list[1]
		} else {
			s, err := ToString(v)
			if err != nil {
				return nil, err
			}
			m := dimensionsPattern.FindStringSubmatch(s)
			if m == nil {
				return nil, fwconf.Errorf(fwconf.CodeInvalidFormat, "Invalid value '%s' for dimensions. Only WIDTHxHEIGHT is allowed.", s)
			}
			w, h = m[1], m[2]
		}
		width, werr := ToInt(w)
		height, herr := ToInt(h)
		if werr != nil || herr != nil {
			return nil, fwconf.Errorf(fwconf.CodeInvalidType, "Width and height dimensions must be integers")
		}
		if width <= 0 || height <= 0 {
			return nil, fwconf.Errorf(fwconf.CodeOutOfRange, "Width and height must at least be 1")
		}
		return []any{width, height}, nil
	},
}

func validTopic(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	if _, ok := fwconf.AsMap(v); ok {
		return "", fwconf.Errorf(fwconf.CodeInvalidType, "Can't use dictionary with topic")
	}
	s, err := ToString(v)
	if err != nil {
		return "", err
	}
	switch {
	case s == "":
		return "", fwconf.Errorf(fwconf.CodeTooShort, "MQTT topic name/filter must not be empty.")
	case len(s) > 65535:
		return "", fwconf.Errorf(fwconf.CodeTooLong, "MQTT topic name/filter must not be longer than 65535 encoded bytes.")
	case strings.ContainsRune(s, 0):
		return "", fwconf.Errorf(fwconf.CodeInvalidFormat, "MQTT topic name/filter must not contain null character.")
	}
	return s, nil
}

// SubscribeTopic accepts an MQTT topic filter; null disables the topic.
var SubscribeTopic fwconf.Validator = leaf{
	fn: func(_ context.Context, v any) (any, error) {
		s, err := validTopic(v)
		if err != nil {
			return nil, err
		}
		for i := 0; i < len(s); i++ {
			if s[i] != '+' {
				continue
			}
			if (i > 0 && s[i-1] != '/') || (i < len(s)-1 && s[i+1] != '/') {
				return nil, fwconf.Errorf(fwconf.CodeInvalidFormat, "Single-level wildcard must occupy an entire level of the filter")
			}
		}
		if i := strings.IndexByte(s, '#'); i != -1 {
			if i != len(s)-1 {
				return nil, fwconf.Errorf(fwconf.CodeInvalidFormat, "Multi-level wildcard must be the last character in the topic filter.")
			}
			if len(s) > 1 && s[i-1] != '/' {
				return nil, fwconf.Errorf(fwconf.CodeInvalidFormat, "Multi-level wildcard must be after a topic level separator.")
			}
		}
		return s, nil
	},
	schema: typed("string"),
}

// PublishTopic accepts an MQTT topic name without wildcards.
var PublishTopic fwconf.Validator = leaf{
	fn: func(_ context.Context, v any) (any, error) {
		s, err := validTopic(v)
		if err != nil {
			return nil, err
		}
		if strings.ContainsAny(s, "+#") {
			return nil, fwconf.Errorf(fwconf.CodeInvalidFormat, "Wildcards can not be used in topic names")
		}
		return s, nil
	},
	schema: typed("string"),
}

// MQTTPayload stringifies a payload; null becomes "".
var MQTTPayload fwconf.Validator = leaf{
	fn: func(_ context.Context, v any) (any, error) {
		if v == nil {
			return "", nil
		}
		return ToString(v)
	},
	schema: typed("string"),
}

// MQTTQoS accepts 0, 1 or 2.
var MQTTQoS fwconf.Validator = leaf{
	fn: func(ctx context.Context, v any) (any, error) {
		n, err := ToInt(v)
		if err != nil {
			return nil, fwconf.Errorf(fwconf.CodeInvalidType, "MQTT Quality of Service must be integer, got %v", v)
		}
		return OneOf(0, 1, 2).Validate(ctx, n)
	},
	schema: func() *js.Schema { return &js.Schema{Enum: []any{0, 1, 2}} },
}

// Package scalar renders config scalars as text for coercion and messages.
package scalar

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatFloat renders f with the shortest round-trip digits, always keeping
// a decimal point for integral values ("60.0") and switching to exponent
// form only for very large or very small magnitudes.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	e := strconv.FormatFloat(f, 'e', -1, 64)
	idx := strings.LastIndexByte(e, 'e')
	exp, _ := strconv.Atoi(e[idx+1:])
	if exp < -4 || exp >= 16 {
		return e
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// Format renders any scalar for use inside a message or as a coerced string.
func Format(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case float64:
		return FormatFloat(t)
	case float32:
		return FormatFloat(float64(t))
	case bool:
		if t {
			return "true"
		}
		return "false"
	}
	return fmt.Sprint(v)
}

// TypeName names the kind of a config node the way users see it in YAML.
func TypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float32, float64:
		return "float"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "integer"
	case []any:
		return "list"
	}
	switch v.(type) {
	case keyed, map[string]any:
		return "dictionary"
	}
	return fmt.Sprintf("%T", v)
}

// keyed matches ordered mappings without importing them.
type keyed interface {
	Len() int
	Keys() []string
}

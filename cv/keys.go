package cv

import (
	"context"
	"strings"

	"github.com/reoring/fwconf"
	js "github.com/reoring/fwconf/jsonschema"
)

// keyCount counts how many of keys are present in a validated mapping.
type keyCount struct {
	keys  []string
	check func(n int) bool
	msg   string
}

func (k keyCount) Validate(_ context.Context, v any) (any, error) {
	m, ok := fwconf.AsMap(v)
	if !ok {
		return nil, expectedMap()
	}
	n := 0
	for _, key := range k.keys {
		if m.Has(key) {
			n++
		}
	}
	if !k.check(n) {
		return nil, fwconf.Errorf(fwconf.CodeKeyCount, k.msg, strings.Join(k.keys, ", ")).
			WithParams(map[string]any{"keys": append([]string(nil), k.keys...), "got": n})
	}
	return v, nil
}

func (k keyCount) JSONSchema() *js.Schema { return &js.Schema{Type: "object"} }

// HasAtLeastOneKey requires one or more of keys.
func HasAtLeastOneKey(keys ...string) fwconf.Validator {
	return keyCount{keys: keys, check: func(n int) bool { return n >= 1 }, msg: "Must contain at least one of %s."}
}

// HasExactlyOneKey requires exactly one of keys.
func HasExactlyOneKey(keys ...string) fwconf.Validator {
	return keyCount{keys: keys, check: func(n int) bool { return n == 1 }, msg: "Must contain exactly one of %s."}
}

// HasAtMostOneKey allows none or one of keys.
func HasAtMostOneKey(keys ...string) fwconf.Validator {
	return keyCount{keys: keys, check: func(n int) bool { return n <= 1 }, msg: "Cannot specify more than one of %s."}
}

// HasNoneOrAllKeys requires keys to appear together or not at all.
func HasNoneOrAllKeys(keys ...string) fwconf.Validator {
	return keyCount{keys: keys, check: func(n int) bool { return n == 0 || n == len(keys) }, msg: "Must specify either none or all of %s."}
}

package fwconf

import (
	"bytes"
	"fmt"
	"sort"

	j "github.com/goccy/go-json"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Map is an insertion-ordered string-keyed mapping, the shape every config
// mapping takes inside the engine. The zero value is an empty Map ready to
// use, and a nil *Map reads as empty.
type Map struct {
	om *orderedmap.OrderedMap[string, any]
}

// NewMap returns an empty Map.
func NewMap() *Map { return &Map{om: orderedmap.New[string, any]()} }

// M builds a Map from alternating key/value arguments:
//
//	fwconf.M("pin", 5, "inverted", false)
//
// It panics when a key is not a string or a value is missing.
func M(kv ...any) *Map {
	if len(kv)%2 != 0 {
		panic("fwconf.M: odd number of arguments")
	}
	m := NewMap()
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("fwconf.M: key %v is not a string", kv[i]))
		}
		m.Set(k, kv[i+1])
	}
	return m
}

// AsMap views v as a Map. Plain map[string]any values are converted with
// their keys in sorted order.
func AsMap(v any) (*Map, bool) {
	switch t := v.(type) {
	case *Map:
		if t == nil {
			return nil, false
		}
		return t, true
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := NewMap()
		for _, k := range keys {
			m.Set(k, t[k])
		}
		return m, true
	}
	return nil, false
}

// Len reports the number of entries.
func (m *Map) Len() int {
	if m == nil || m.om == nil {
		return 0
	}
	return m.om.Len()
}

// Get returns the value stored under k.
func (m *Map) Get(k string) (any, bool) {
	if m == nil || m.om == nil {
		return nil, false
	}
	return m.om.Get(k)
}

// Has reports whether k is present.
func (m *Map) Has(k string) bool {
	_, ok := m.Get(k)
	return ok
}

// Set stores v under k. An existing key keeps its position.
func (m *Map) Set(k string, v any) {
	if m.om == nil {
		m.om = orderedmap.New[string, any]()
	}
	m.om.Set(k, v)
}

// Delete removes k and reports whether it was present.
func (m *Map) Delete(k string) bool {
	if m == nil || m.om == nil {
		return false
	}
	_, ok := m.om.Delete(k)
	return ok
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	keys := make([]string, 0, m.Len())
	m.Range(func(k string, _ any) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

// Range calls fn for each entry in insertion order until fn returns false.
func (m *Map) Range(fn func(k string, v any) bool) {
	if m == nil || m.om == nil {
		return
	}
	for p := m.om.Oldest(); p != nil; p = p.Next() {
		if !fn(p.Key, p.Value) {
			return
		}
	}
}

// Clone returns a shallow copy.
func (m *Map) Clone() *Map {
	out := NewMap()
	m.Range(func(k string, v any) bool {
		out.Set(k, v)
		return true
	})
	return out
}

// ToStdMap returns a plain map with the same entries (order is lost).
func (m *Map) ToStdMap() map[string]any {
	out := make(map[string]any, m.Len())
	m.Range(func(k string, v any) bool {
		out[k] = v
		return true
	})
	return out
}

func (m *Map) String() string {
	b := &bytes.Buffer{}
	b.WriteByte('{')
	i := 0
	m.Range(func(k string, v any) bool {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(b, "%s: %v", k, v)
		i++
		return true
	})
	b.WriteByte('}')
	return b.String()
}

// MarshalJSON writes the entries in insertion order.
func (m *Map) MarshalJSON() ([]byte, error) {
	b := &bytes.Buffer{}
	b.WriteByte('{')
	i := 0
	var err error
	m.Range(func(k string, v any) bool {
		if i > 0 {
			b.WriteByte(',')
		}
		i++
		var kb, vb []byte
		if kb, err = j.Marshal(k); err != nil {
			return false
		}
		if vb, err = j.Marshal(v); err != nil {
			err = fmt.Errorf("key %q: %w", k, err)
			return false
		}
		b.Write(kb)
		b.WriteByte(':')
		b.Write(vb)
		return true
	})
	if err != nil {
		return nil, err
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

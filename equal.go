package fwconf

import (
	"encoding/json"
	"reflect"
)

// Equal compares two config trees. Mappings compare regardless of key order,
// numbers compare by value across kinds, EnumValue compares as its scalar
// and TimePeriod by its total length.
func Equal(a, b any) bool {
	if ev, ok := a.(EnumValue); ok {
		a = ev.Value
	}
	if ev, ok := b.(EnumValue); ok {
		b = ev.Value
	}
	if am, ok := AsMap(a); ok {
		bm, ok := AsMap(b)
		if !ok || am.Len() != bm.Len() {
			return false
		}
		eq := true
		am.Range(func(k string, av any) bool {
			bv, ok := bm.Get(k)
			eq = ok && Equal(av, bv)
			return eq
		})
		return eq
	}
	if al, ok := a.([]any); ok {
		bl, ok := b.([]any)
		if !ok || len(al) != len(bl) {
			return false
		}
		for i := range al {
			if !Equal(al[i], bl[i]) {
				return false
			}
		}
		return true
	}
	if at, ok := a.(TimePeriod); ok {
		bt, ok := b.(TimePeriod)
		return ok && at.Equal(bt)
	}
	if af, ok := ToFloat(a); ok {
		bf, ok := ToFloat(b)
		return ok && af == bf
	}
	if aid, ok := a.(*ID); ok {
		bid, ok := b.(*ID)
		if !ok {
			return false
		}
		if aid == nil || bid == nil {
			return aid == bid
		}
		return aid.Name == bid.Name && aid.IsDeclaration == bid.IsDeclaration && aid.Type.String() == bid.Type.String()
	}
	return reflect.DeepEqual(a, b)
}

// ToFloat converts any Go numeric kind (and json.Number) to float64.
// Booleans are not numbers here.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case HexInt:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// ToInt converts Go integer kinds (and integral json.Number) to int.
func ToInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		return int(n), true
	case HexInt:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	}
	return 0, false
}

// Clone deep-copies the containers of a config tree. Scalars and IDs are
// shared; IDs are copied so a clone never aliases a declaration.
func Clone(v any) any {
	switch t := v.(type) {
	case *Map:
		out := NewMap()
		t.Range(func(k string, x any) bool {
			out.Set(k, Clone(x))
			return true
		})
		return out
	case map[string]any:
		m, _ := AsMap(t)
		return Clone(m)
	case []any:
		out := make([]any, len(t))
		for i, x := range t {
			out[i] = Clone(x)
		}
		return out
	case *ID:
		if t == nil {
			return t
		}
		return t.Copy()
	}
	return v
}

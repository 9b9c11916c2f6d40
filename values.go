package fwconf

import (
	"fmt"
	"regexp"
	"strings"

	j "github.com/goccy/go-json"
)

// Lambda is a deferred expression: a config value the loader marked with
// !lambda. Validators either reject it or pass it through untouched.
type Lambda struct {
	Value string
}

func (l Lambda) String() string { return l.Value }

// MarshalText renders the expression source.
func (l Lambda) MarshalText() ([]byte, error) { return []byte(l.Value), nil }

var lambdaIDRef = regexp.MustCompile(`id\(\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*\)(\.?)`)

// ReferencedIDs returns the names referenced through id(name) inside the
// expression, in order of appearance and without duplicates.
func (l Lambda) ReferencedIDs() []string {
	var out []string
	seen := map[string]struct{}{}
	for _, m := range lambdaIDRef.FindAllStringSubmatch(l.Value, -1) {
		if _, dup := seen[m[1]]; dup {
			continue
		}
		seen[m[1]] = struct{}{}
		out = append(out, m[1])
	}
	return out
}

// Type is an opaque tag naming the kind of object an ID refers to. Parents
// model the inheritance the linking pass checks.
type Type struct {
	Name    string
	Parents []*Type
}

// NewType declares a type tag.
func NewType(name string, parents ...*Type) *Type {
	return &Type{Name: name, Parents: parents}
}

// InheritsFrom reports whether t is other or derives from it.
func (t *Type) InheritsFrom(other *Type) bool {
	if t == nil || other == nil {
		return false
	}
	if t == other || t.Name == other.Name {
		return true
	}
	for _, p := range t.Parents {
		if p.InheritsFrom(other) {
			return true
		}
	}
	return false
}

func (t *Type) String() string {
	if t == nil {
		return ""
	}
	return t.Name
}

// ID identifies a named, typed entity. An empty Name is an anonymous ID the
// linking pass names later.
type ID struct {
	Name          string
	IsDeclaration bool
	Type          *Type
	// IsManual is true when the name came from the config rather than being
	// synthesized.
	IsManual bool
}

// NewID builds an ID; IsManual follows from whether name is set.
func NewID(name string, isDeclaration bool, t *Type) *ID {
	return &ID{Name: name, IsDeclaration: isDeclaration, Type: t, IsManual: name != ""}
}

// Copy returns an independent copy.
func (id *ID) Copy() *ID {
	c := *id
	return &c
}

func (id *ID) String() string {
	if id == nil {
		return ""
	}
	return id.Name
}

// GoString renders the debug form.
func (id *ID) GoString() string {
	return fmt.Sprintf("ID<%s declaration=%t, type=%s, manual=%t>", id.Name, id.IsDeclaration, id.Type, id.IsManual)
}

// MarshalText renders the name.
func (id *ID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// EnumValue is a validated scalar tagged with the code-generation value an
// enum mapping selected for it. Equal treats it as its underlying scalar.
type EnumValue struct {
	Value     any
	EnumValue any
}

func (e EnumValue) String() string { return fmt.Sprint(e.Value) }

// MarshalJSON encodes the underlying scalar.
func (e EnumValue) MarshalJSON() ([]byte, error) { return j.Marshal(e.Value) }

// HexInt is an integer that renders in hexadecimal.
type HexInt int

func (h HexInt) String() string {
	if h < 0 {
		return fmt.Sprintf("-0x%02X", -int(h))
	}
	return fmt.Sprintf("0x%02X", int(h))
}

// MACAddress is a six-octet hardware address.
type MACAddress [6]byte

func (m MACAddress) String() string {
	parts := make([]string, len(m))
	for i, b := range m {
		parts[i] = fmt.Sprintf("%02X", b)
	}
	return strings.Join(parts, ":")
}

// MarshalText renders XX:XX:XX:XX:XX:XX.
func (m MACAddress) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

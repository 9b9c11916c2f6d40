package cv

import (
	"context"
	"fmt"
	"strings"

	"github.com/reoring/fwconf"
	"github.com/reoring/fwconf/internal/scalar"
	"github.com/reoring/fwconf/internal/suggest"
	js "github.com/reoring/fwconf/jsonschema"
)

const typeIDKey = "type_id"

// RegistryEntry is one named item a registry dispatches to.
type RegistryEntry struct {
	Name   string
	Schema fwconf.Validator
	// TypeID, when set, makes each item declare an anonymous ID of this type
	// under "type_id".
	TypeID *fwconf.Type
}

// Registry is a named set of item schemas sharing a base schema: actions,
// filters, effects and the like. Items are written as a single-key mapping
// {name: config} next to the base keys.
type Registry struct {
	base    *SchemaValidator
	entries map[string]RegistryEntry
	order   []string
}

// NewRegistry returns an empty registry. base may be nil.
func NewRegistry(base *SchemaValidator) *Registry {
	if base == nil {
		base = Schema()
	}
	return &Registry{base: base, entries: map[string]RegistryEntry{}}
}

// Register adds an entry. Registering a name twice panics.
func (r *Registry) Register(name string, schema fwconf.Validator, typeID *fwconf.Type) *Registry {
	if _, dup := r.entries[name]; dup {
		panic(fmt.Sprintf("cv: registry entry %q registered twice", name))
	}
	if schema == nil {
		schema = Schema()
	}
	r.entries[name] = RegistryEntry{Name: name, Schema: schema, TypeID: typeID}
	r.order = append(r.order, name)
	return r
}

// Get looks an entry up.
func (r *Registry) Get(name string) (RegistryEntry, bool) {
	e, ok := r.entries[name]
	return e, ok
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string { return append([]string(nil), r.order...) }

func (r *Registry) ignored(k string) bool {
	if k == typeIDKey {
		return true
	}
	_, ok := r.base.Field(k)
	return ok
}

type registryEntryValidator struct {
	name string
	reg  *Registry
}

// ValidateRegistryEntry validates one registry item. name is the singular
// noun used in messages ("action", "filter").
func ValidateRegistryEntry(name string, reg *Registry) fwconf.Validator {
	return registryEntryValidator{name: name, reg: reg}
}

// ValidateRegistry validates a list of registry items.
func ValidateRegistry(name string, reg *Registry) ListValidator {
	return EnsureList(ValidateRegistryEntry(name, reg))
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (rv registryEntryValidator) Validate(ctx context.Context, v any) (any, error) {
	if s, ok := v.(string); ok {
		v = fwconf.M(s, fwconf.NewMap())
	}
	src, ok := fwconf.AsMap(v)
	if !ok {
		return nil, fwconf.Errorf(fwconf.CodeInvalidType, "%s must consist of key-value mapping! Got %s", title(rv.name), scalar.Format(v))
	}
	var key, key2 string
	for _, k := range src.Keys() {
		if rv.reg.ignored(k) {
			continue
		}
		if key == "" {
			key = k
		} else if key2 == "" {
			key2 = k
		}
	}
	if key == "" {
		return nil, fwconf.Errorf(fwconf.CodeDiscriminatorMissing, "Key missing from %s! Got %s", rv.name, src.String())
	}
	entry, ok := rv.reg.Get(key)
	if !ok {
		inv := &fwconf.Invalid{
			Path:    fwconf.Path{key},
			Code:    fwconf.CodeDiscriminatorUnknown,
			Message: fmt.Sprintf("Unable to find %s with the name '%s'", rv.name, key),
		}
		if m := suggest.Close(key, rv.reg.Names()); len(m) > 0 {
			inv.Hint = "did you mean " + suggest.Quote(m) + "?"
		}
		return nil, inv
	}
	if key2 != "" {
		return nil, fwconf.Errorf(fwconf.CodeKeyCount, "Cannot have two %ss in one item. Key '%s' overrides '%s'! Did you forget to indent the block inside the %s?", rv.name, key, key2, key)
	}

	body, _ := src.Get(key)
	if body == nil {
		body = fwconf.NewMap()
	}
	res, err := entry.Schema.Validate(ctx, body)
	if err != nil {
		return nil, fwconf.PrependPath(err, key)
	}
	out := src.Clone()
	out.Set(key, res)

	typeID := Optional(typeIDKey, Valid)
	if entry.TypeID != nil {
		typeID = GenerateIDKey(typeIDKey, DeclareID(entry.TypeID))
	}
	return rv.reg.base.Extend(typeID).AllowExtra().Validate(ctx, out)
}

func (rv registryEntryValidator) JSONSchema() *js.Schema {
	var alts []*js.Schema
	for _, n := range rv.reg.Names() {
		e := rv.reg.entries[n]
		s := fwconf.JSONSchemaOf(rv.reg.base)
		c := *s
		props := make(map[string]*js.Schema, len(s.Properties)+1)
		for k, p := range s.Properties {
			props[k] = p
		}
		props[n] = fwconf.JSONSchemaOf(e.Schema)
		c.Properties = props
		c.Required = append(append([]string(nil), s.Required...), n)
		alts = append(alts, &c)
	}
	if len(alts) == 0 {
		return &js.Schema{Type: "object"}
	}
	return js.AnyOf(alts...)
}

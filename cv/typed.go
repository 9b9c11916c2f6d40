package cv

import (
	"context"
	"sort"

	"github.com/reoring/fwconf"
	js "github.com/reoring/fwconf/jsonschema"
)

// TypedSchemaValidator dispatches on a discriminator key.
type TypedSchemaValidator struct {
	schemas     map[string]fwconf.Validator
	key         string
	defaultType string
	sel         OneOfValidator
	enum        map[string]any
}

// TypedSchema selects a validator for the rest of the mapping by the value
// of its "type" key. The discriminator is validated with OneOf over the
// names of schemas and written back first in the output.
func TypedSchema(schemas map[string]fwconf.Validator) TypedSchemaValidator {
	names := make([]any, 0, len(schemas))
	for _, n := range sortedKeys(schemas) {
		names = append(names, n)
	}
	return TypedSchemaValidator{schemas: schemas, key: "type", sel: OneOf(names...)}
}

func sortedKeys(m map[string]fwconf.Validator) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Key changes the discriminator key.
func (t TypedSchemaValidator) Key(k string) TypedSchemaValidator { t.key = k; return t }

// DefaultType is used when the discriminator is missing.
func (t TypedSchemaValidator) DefaultType(name string) TypedSchemaValidator {
	t.defaultType = name
	return t
}

// Enum tags the discriminator in the output with mapping[name] as a
// fwconf.EnumValue. The keys of mapping must be the schema names.
func (t TypedSchemaValidator) Enum(mapping map[string]any) TypedSchemaValidator {
	if len(mapping) != len(t.schemas) {
		panic("cv: TypedSchema enum keys must match the schema names")
	}
	for name := range t.schemas {
		if _, ok := mapping[name]; !ok {
			panic("cv: TypedSchema enum is missing " + name)
		}
	}
	t.enum = mapping
	return t
}

// Lower case-folds the discriminator before matching.
func (t TypedSchemaValidator) Lower() TypedSchemaValidator { t.sel = t.sel.Lower(); return t }

// Upper upper-cases the discriminator before matching.
func (t TypedSchemaValidator) Upper() TypedSchemaValidator { t.sel = t.sel.Upper(); return t }

// Space replaces spaces in the discriminator with s.
func (t TypedSchemaValidator) Space(s string) TypedSchemaValidator { t.sel = t.sel.Space(s); return t }

func (t TypedSchemaValidator) Validate(ctx context.Context, v any) (any, error) {
	src, ok := fwconf.AsMap(v)
	if !ok {
		return nil, &fwconf.Invalid{Code: fwconf.CodeInvalidType, Message: "Value must be dict"}
	}
	rest := src.Clone()
	var option any = t.defaultType
	if raw, ok := rest.Get(t.key); ok {
		option = raw
		rest.Delete(t.key)
	} else if t.defaultType == "" {
		return nil, &fwconf.Invalid{Path: fwconf.Path{t.key}, Code: fwconf.CodeDiscriminatorMissing, Message: t.key + " not specified!"}
	}
	sel, err := t.sel.Validate(ctx, option)
	if err != nil {
		all := fwconf.Errors(err)
		out := make(fwconf.MultipleInvalid, len(all))
		for i, inv := range all {
			c := *inv
			c.Path = append(fwconf.Path{t.key}, inv.Path...)
			if c.Code == fwconf.CodeInvalidEnum {
				c.Code = fwconf.CodeDiscriminatorUnknown
			}
			out[i] = &c
		}
		if len(out) == 1 {
			return nil, out[0]
		}
		return nil, out
	}
	name := sel.(string)
	res, err := t.schemas[name].Validate(ctx, rest)
	if err != nil {
		return nil, err
	}
	body, ok := fwconf.AsMap(res)
	if !ok {
		return res, nil
	}
	out := fwconf.NewMap()
	if t.enum != nil {
		out.Set(t.key, fwconf.EnumValue{Value: name, EnumValue: t.enum[name]})
	} else {
		out.Set(t.key, name)
	}
	body.Range(func(k string, x any) bool {
		if k != t.key {
			out.Set(k, x)
		}
		return true
	})
	return out, nil
}

// JSONSchema projects one alternative per discriminator value.
func (t TypedSchemaValidator) JSONSchema() *js.Schema {
	var alts []*js.Schema
	for _, name := range sortedKeys(t.schemas) {
		base := fwconf.JSONSchemaOf(t.schemas[name])
		c := *base
		props := make(map[string]*js.Schema, len(base.Properties)+1)
		for k, p := range base.Properties {
			props[k] = p
		}
		props[t.key] = &js.Schema{Enum: []any{name}}
		c.Properties = props
		if t.defaultType != name {
			c.Required = append(append([]string(nil), base.Required...), t.key)
		}
		alts = append(alts, &c)
	}
	if len(alts) == 0 {
		return &js.Schema{Type: "object"}
	}
	return js.AnyOf(alts...)
}

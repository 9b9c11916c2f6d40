package cv

import (
	"context"
	"errors"
	"sort"

	"github.com/reoring/fwconf"
	"github.com/reoring/fwconf/i18n"
	"github.com/reoring/fwconf/internal/suggest"
	js "github.com/reoring/fwconf/jsonschema"
)

// ExtraPolicy decides what happens to keys a schema does not declare.
type ExtraPolicy int

const (
	// ExtraPrevent reports every undeclared key (default).
	ExtraPrevent ExtraPolicy = iota
	// ExtraAllow copies undeclared keys to the output unvalidated.
	ExtraAllow
	// ExtraRemove drops undeclared keys silently.
	ExtraRemove
)

// Field is one declared key of a schema: the key marker (name, requiredness,
// default) plus the validator for its value. Fields compare by key name only.
type Field struct {
	key             string
	required        bool
	hasDefault      bool
	def             any
	defFn           func() any
	validateDefault bool
	msg             string
	description     string
	v               fwconf.Validator
}

// Required declares a key that must be present.
func Required(key string, v fwconf.Validator) *Field {
	return &Field{key: key, required: true, v: v}
}

// Optional declares a key that may be absent.
func Optional(key string, v fwconf.Validator) *Field {
	return &Field{key: key, v: v}
}

// Default sets a static default. It is deep-copied into every output.
func (f *Field) Default(v any) *Field {
	f.hasDefault, f.def, f.defFn = true, v, nil
	return f
}

// DefaultFunc sets a factory called each time the key is missing.
func (f *Field) DefaultFunc(fn func() any) *Field {
	f.hasDefault, f.def, f.defFn = true, nil, fn
	return f
}

// ValidateDefault runs the key's validator over the materialized default.
// Defaults are otherwise trusted.
func (f *Field) ValidateDefault() *Field {
	f.validateDefault = true
	return f
}

// Msg replaces the message of failures reported directly at this key.
func (f *Field) Msg(m string) *Field {
	f.msg = m
	return f
}

// Describe attaches a description used by the JSON Schema export.
func (f *Field) Describe(d string) *Field {
	f.description = d
	return f
}

// Key returns the key name.
func (f Field) Key() string { return f.key }

// IsRequired reports whether the key must be present.
func (f Field) IsRequired() bool { return f.required }

// Validator returns the value validator.
func (f Field) Validator() fwconf.Validator { return f.v }

// DefaultValue materializes the default and reports whether there is one.
func (f Field) DefaultValue() (any, bool) {
	if !f.hasDefault {
		return nil, false
	}
	if f.defFn != nil {
		return f.defFn(), true
	}
	return fwconf.Clone(f.def), true
}

func (f Field) validate(ctx context.Context, v any) (any, error) {
	if f.v == nil {
		return v, nil
	}
	return f.v.Validate(ctx, v)
}

func (f Field) wrap(err error) error {
	err = fwconf.PrependPath(err, f.key)
	if f.msg == "" {
		return err
	}
	all := fwconf.Errors(err)
	out := make(fwconf.MultipleInvalid, len(all))
	for i, inv := range all {
		c := *inv
		if len(c.Path) == 1 {
			c.Message = f.msg
		}
		out[i] = &c
	}
	return out
}

type refine struct {
	name string
	fn   func(ctx context.Context, m *fwconf.Map) error
}

// SchemaValidator validates a mapping against declared fields. Build with
// Schema; every method returns a new schema and leaves the receiver as is.
type SchemaValidator struct {
	fields      []Field
	index       map[string]int
	extra       ExtraPolicy
	validators  []fwconf.Validator
	refines     []refine
	nullAsEmpty bool
}

// Schema builds a mapping validator. A later field with the same key
// replaces an earlier one in place.
func Schema(fields ...*Field) *SchemaValidator {
	s := &SchemaValidator{index: map[string]int{}}
	for _, f := range fields {
		s.put(*f)
	}
	return s
}

func (s *SchemaValidator) put(f Field) {
	if i, ok := s.index[f.key]; ok {
		s.fields[i] = f
		return
	}
	s.index[f.key] = len(s.fields)
	s.fields = append(s.fields, f)
}

func (s *SchemaValidator) clone() *SchemaValidator {
	c := &SchemaValidator{
		fields:      append([]Field(nil), s.fields...),
		index:       make(map[string]int, len(s.index)),
		extra:       s.extra,
		validators:  append([]fwconf.Validator(nil), s.validators...),
		refines:     append([]refine(nil), s.refines...),
		nullAsEmpty: s.nullAsEmpty,
	}
	for k, v := range s.index {
		c.index[k] = v
	}
	return c
}

// Extend returns the union of this schema and the given schemas or fields.
// A key present on both sides takes the right-hand marker and validator.
// Whole-mapping validators of extending schemas are appended.
func (s *SchemaValidator) Extend(parts ...any) *SchemaValidator {
	c := s.clone()
	for _, p := range parts {
		switch t := p.(type) {
		case *SchemaValidator:
			for _, f := range t.fields {
				c.put(f)
			}
			c.validators = append(c.validators, t.validators...)
			c.refines = append(c.refines, t.refines...)
		case *Field:
			c.put(*t)
		case []*Field:
			for _, f := range t {
				c.put(*f)
			}
		default:
			panic("cv: Extend accepts *SchemaValidator, *Field or []*Field")
		}
	}
	return c
}

// Extra returns a copy using policy p for undeclared keys.
func (s *SchemaValidator) Extra(p ExtraPolicy) *SchemaValidator {
	c := s.clone()
	c.extra = p
	return c
}

// AllowExtra keeps undeclared keys.
func (s *SchemaValidator) AllowExtra() *SchemaValidator { return s.Extra(ExtraAllow) }

// RemoveExtra drops undeclared keys.
func (s *SchemaValidator) RemoveExtra() *SchemaValidator { return s.Extra(ExtraRemove) }

// NullAsEmpty treats a null input as an empty mapping.
func (s *SchemaValidator) NullAsEmpty() *SchemaValidator {
	c := s.clone()
	c.nullAsEmpty = true
	return c
}

// AddExtra appends validators run over the whole mapping after every key
// validated successfully. Each receives the previous one's output.
func (s *SchemaValidator) AddExtra(vs ...fwconf.Validator) *SchemaValidator {
	c := s.clone()
	c.validators = append(c.validators, vs...)
	return c
}

// Refine registers a named check over the validated mapping. Failures not
// already carrying Invalid are reported under the rule name.
func (s *SchemaValidator) Refine(name string, fn func(ctx context.Context, m *fwconf.Map) error) *SchemaValidator {
	c := s.clone()
	c.refines = append(c.refines, refine{name: name, fn: fn})
	return c
}

// Fields returns the declared fields in declaration order.
func (s *SchemaValidator) Fields() []Field { return append([]Field(nil), s.fields...) }

// Field looks up a declared field by key.
func (s *SchemaValidator) Field(key string) (Field, bool) {
	i, ok := s.index[key]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Keys returns the declared keys in declaration order.
func (s *SchemaValidator) Keys() []string {
	out := make([]string, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.key
	}
	return out
}

// Validate checks every declared key, reports all failures together and
// returns a new mapping: present keys in input order, then defaults.
func (s *SchemaValidator) Validate(ctx context.Context, v any) (any, error) {
	if fwconf.StateFrom(ctx) == nil {
		ctx = fwconf.WithState(ctx, fwconf.NewState())
	}
	if v == nil && s.nullAsEmpty {
		v = fwconf.NewMap()
	}
	src, ok := fwconf.AsMap(v)
	if !ok {
		return nil, expectedMap()
	}
	failFast := fwconf.IsFailFast(ctx)
	out := fwconf.NewMap()
	var errs fwconf.MultipleInvalid

	src.Range(func(k string, val any) bool {
		i, declared := s.index[k]
		if !declared {
			switch s.extra {
			case ExtraAllow:
				out.Set(k, val)
			case ExtraRemove:
			default:
				errs = append(errs, s.extraKey(k))
			}
			return !(failFast && len(errs) > 0)
		}
		f := s.fields[i]
		res, err := f.validate(ctx, val)
		if err != nil {
			errs = fwconf.AppendErrors(errs, f.wrap(err))
			return !failFast
		}
		out.Set(k, res)
		return true
	})
	if failFast && len(errs) > 0 {
		return nil, errs
	}

	for _, f := range s.fields {
		if src.Has(f.key) {
			continue
		}
		if f.required {
			errs = append(errs, &fwconf.Invalid{
				Path:    fwconf.Path{f.key},
				Code:    fwconf.CodeRequired,
				Message: i18n.T(fwconf.CodeRequired, nil),
			})
			if failFast {
				return nil, errs
			}
			continue
		}
		dv, ok := f.DefaultValue()
		if !ok {
			continue
		}
		if f.validateDefault {
			res, err := f.validate(ctx, dv)
			if err != nil {
				errs = fwconf.AppendErrors(errs, f.wrap(err))
				continue
			}
			dv = res
		}
		out.Set(f.key, dv)
	}
	if len(errs) > 0 {
		return nil, errs
	}

	var cur any = out
	for _, ev := range s.validators {
		res, err := ev.Validate(ctx, cur)
		if err != nil {
			return nil, err
		}
		cur = res
	}
	if len(s.refines) > 0 {
		m, ok := fwconf.AsMap(cur)
		if !ok {
			return cur, nil
		}
		for _, r := range s.refines {
			if err := r.fn(ctx, m); err != nil {
				var inv *fwconf.Invalid
				var multi fwconf.MultipleInvalid
				if errors.As(err, &inv) || errors.As(err, &multi) {
					errs = fwconf.AppendErrors(errs, err)
				} else {
					errs = append(errs, &fwconf.Invalid{Code: fwconf.CodeInvalidValue, Message: err.Error(), Cause: err, Params: map[string]any{"rule": r.name}})
				}
				if failFast {
					break
				}
			}
		}
		if len(errs) > 0 {
			return nil, errs
		}
	}
	return cur, nil
}

func (s *SchemaValidator) extraKey(k string) *fwconf.Invalid {
	inv := &fwconf.Invalid{
		Path:    fwconf.Path{k},
		Code:    fwconf.CodeExtraKey,
		Message: i18n.T(fwconf.CodeExtraKey, nil),
	}
	if m := suggest.Close(k, s.Keys()); len(m) > 0 {
		inv.Hint = "did you mean " + suggest.Quote(m) + "?"
	}
	return inv
}

// JSONSchema projects the declared fields.
func (s *SchemaValidator) JSONSchema() *js.Schema {
	props := make(map[string]*js.Schema, len(s.fields))
	var req []string
	for _, f := range s.fields {
		ps := fwconf.JSONSchemaOf(f.v)
		if f.description != "" {
			c := *ps
			c.Description = f.description
			ps = &c
		}
		if f.hasDefault && f.defFn == nil && f.def != nil {
			c := *ps
			c.Default = f.def
			ps = &c
		}
		props[f.key] = ps
		if f.required {
			req = append(req, f.key)
		}
	}
	sort.Strings(req)
	var additional any
	switch s.extra {
	case ExtraPrevent:
		additional = false
	default:
		additional = true
	}
	return &js.Schema{Type: "object", Properties: props, Required: req, AdditionalProperties: additional}
}

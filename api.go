package fwconf

import (
	"context"

	js "github.com/reoring/fwconf/jsonschema"
)

// Validator turns a raw config node into its validated form or fails with
// *Invalid / MultipleInvalid. Validators are immutable and may be shared.
type Validator interface {
	Validate(ctx context.Context, v any) (any, error)
}

// Func adapts a plain function into a Validator.
type Func func(ctx context.Context, v any) (any, error)

func (f Func) Validate(ctx context.Context, v any) (any, error) { return f(ctx, v) }

// JSONSchemaer is implemented by validators that can describe the values
// they accept.
type JSONSchemaer interface {
	JSONSchema() *js.Schema
}

// JSONSchemaOf projects v, falling back to an unconstrained schema.
func JSONSchemaOf(v Validator) *js.Schema {
	if s, ok := v.(JSONSchemaer); ok {
		if out := s.JSONSchema(); out != nil {
			return out
		}
	}
	return &js.Schema{}
}

// Option configures a top-level Validate run.
type Option func(*State)

// WithIntegrations registers the names of loaded integrations; declared IDs
// may not reuse them.
func WithIntegrations(names ...string) Option {
	return func(s *State) {
		for _, n := range names {
			s.integrations[n] = struct{}{}
		}
	}
}

// WithTargetPlatform sets the platform OnlyOn checks against.
func WithTargetPlatform(platform string) Option {
	return func(s *State) { s.TargetPlatform = platform }
}

// WithConfigDir sets the directory relative paths resolve against.
func WithConfigDir(dir string) Option {
	return func(s *State) { s.ConfigDir = dir }
}

// Validate runs v over raw with a fresh State attached to ctx, unless ctx
// already carries one (see WithState), in which case that state is reused.
func Validate(ctx context.Context, v Validator, raw any, opts ...Option) (any, error) {
	st := StateFrom(ctx)
	if st == nil {
		st = NewState()
		ctx = WithState(ctx, st)
	}
	for _, o := range opts {
		o(st)
	}
	return v.Validate(ctx, raw)
}

type contextKey int

const (
	_ctxKeyState contextKey = iota
	_ctxKeyFailFast
)

// WithState attaches s to ctx so several Validate calls share one ID
// registry (for example, validating components one by one).
func WithState(ctx context.Context, s *State) context.Context {
	return context.WithValue(ctx, _ctxKeyState, s)
}

// StateFrom returns the State attached to ctx, or nil.
func StateFrom(ctx context.Context) *State {
	s, _ := ctx.Value(_ctxKeyState).(*State)
	return s
}

// WithFailFast marks the context so container validators stop at the first
// failure instead of collecting all of them.
func WithFailFast(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, _ctxKeyFailFast, enabled)
}

// IsFailFast reports whether the current run should stop on the first failure.
func IsFailFast(ctx context.Context) bool {
	v := ctx.Value(_ctxKeyFailFast)
	b, _ := v.(bool)
	return b
}

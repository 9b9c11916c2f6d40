package cv

import (
	"context"
	"unicode"

	"github.com/reoring/fwconf"
	js "github.com/reoring/fwconf/jsonschema"
)

// ReservedIDs are names the generated code already uses: C++ keywords plus
// framework globals.
var ReservedIDs = map[string]struct{}{}

func init() {
	for _, n := range []string{
		"alarm", "alignas", "alignof", "and", "and_eq", "asm", "auto", "bitand", "bitor", "bool",
		"break", "case", "catch", "char", "char16_t", "char32_t", "class", "clock", "compl",
		"concept", "const", "constexpr", "const_cast", "continue", "decltype", "default", "delete",
		"do", "double", "dynamic_cast", "else", "enum", "explicit", "export", "extern", "false",
		"float", "for", "friend", "goto", "if", "inline", "int", "long", "mutable", "namespace",
		"new", "noexcept", "not", "not_eq", "nullptr", "operator", "or", "or_eq", "private",
		"protected", "public", "register", "reinterpret_cast", "requires", "return", "short",
		"signed", "sizeof", "static", "static_assert", "static_cast", "struct", "switch",
		"template", "text", "this", "thread_local", "throw", "true", "try", "typedef", "typeid",
		"typename", "union", "unsigned", "using", "virtual", "void", "volatile", "wchar_t",
		"while", "xor", "xor_eq",
		"App", "pinMode", "delay", "delayMicroseconds", "digitalRead", "digitalWrite", "INPUT",
		"OUTPUT", "uint8_t", "uint16_t", "uint32_t", "uint64_t", "int8_t", "int16_t", "int32_t",
		"int64_t", "close", "pause", "sleep", "open", "setup", "loop", "uart0", "uart1", "uart2",
	} {
		ReservedIDs[n] = struct{}{}
	}
}

// IsReservedID reports whether name is unusable as an ID.
func IsReservedID(name string) bool {
	_, ok := ReservedIDs[name]
	return ok
}

func isIDChar(r rune) bool {
	return r == '_' || (r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)))
}

// ValidateIDName checks that v would be a valid C++ identifier and is free
// to use. Integration names loaded into the run's State are rejected too.
func ValidateIDName(ctx context.Context, v any) (string, error) {
	s, err := ToString(v)
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", fwconf.Errorf(fwconf.CodeInvalidID, "ID must not be empty")
	}
	if s[0] >= '0' && s[0] <= '9' {
		return "", fwconf.Errorf(fwconf.CodeInvalidID, "First character in ID cannot be a digit.")
	}
	for _, r := range s {
		if r == '-' {
			return "", fwconf.Errorf(fwconf.CodeInvalidID, "Dashes are not supported in IDs, please use underscores instead.")
		}
	}
	for _, r := range s {
		if !isIDChar(r) {
			return "", fwconf.Errorf(fwconf.CodeInvalidID, "IDs must only consist of upper/lowercase characters, the underscore character and numbers. The character '%c' cannot be used", r)
		}
	}
	if IsReservedID(s) {
		return "", fwconf.Errorf(fwconf.CodeReservedID, "ID '%s' is reserved internally and cannot be used", s)
	}
	if st := fwconf.StateFrom(ctx); st != nil && st.HasIntegration(s) {
		return "", fwconf.Errorf(fwconf.CodeReservedID, "ID '%s' conflicts with the name of an integration, please use another ID name.", s)
	}
	return s, nil
}

// IDValidator produces *fwconf.ID values of one type.
type IDValidator struct {
	t       *fwconf.Type
	declare bool
}

// DeclareID accepts null (an anonymous declaration named later) or a valid
// identifier. Named declarations are registered in the run's State and a
// second declaration of the same name fails. The State is the one attached
// by fwconf.Validate or WithState, else a fresh one created by the outermost
// Schema; a DeclareID called with no State at all only checks the name.
func DeclareID(t *fwconf.Type) IDValidator { return IDValidator{t: t, declare: true} }

// UseID accepts null or a valid identifier referring to a declaration of
// type t. Whether the declaration exists is checked by the linking pass.
func UseID(t *fwconf.Type) IDValidator { return IDValidator{t: t} }

// Type returns the type tag.
func (v IDValidator) Type() *fwconf.Type { return v.t }

// IsDeclaration reports whether the validator declares IDs.
func (v IDValidator) IsDeclaration() bool { return v.declare }

func (v IDValidator) Validate(ctx context.Context, x any) (any, error) {
	if err := CheckNotTemplatable(x); err != nil {
		return nil, err
	}
	if x == nil {
		return fwconf.NewID("", v.declare, v.t), nil
	}
	// Already validated by this validator: keep it as is.
	if id, ok := x.(*fwconf.ID); ok && id.IsDeclaration == v.declare && id.Type == v.t {
		return id, nil
	}
	name, err := ValidateIDName(ctx, x)
	if err != nil {
		return nil, err
	}
	id := fwconf.NewID(name, v.declare, v.t)
	if v.declare {
		if st := fwconf.StateFrom(ctx); st != nil {
			if _, ok := st.Declare(id); !ok {
				return nil, fwconf.Errorf(fwconf.CodeDuplicateID, "ID %s redefined!", name)
			}
		}
	}
	return id, nil
}

func (v IDValidator) JSONSchema() *js.Schema {
	return &js.Schema{Type: "string", Pattern: `^[a-zA-Z_][a-zA-Z0-9_]*$`, Description: v.t.String()}
}

// GenerateID declares the optional "id" key: when missing, v runs over
// null so an anonymous ID is still produced.
func GenerateID(v fwconf.Validator) *Field {
	return GenerateIDKey("id", v)
}

// GenerateIDKey is GenerateID for a custom key.
func GenerateIDKey(key string, v fwconf.Validator) *Field {
	return Optional(key, v).DefaultFunc(func() any { return nil }).ValidateDefault()
}

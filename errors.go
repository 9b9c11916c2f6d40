package fwconf

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/reoring/fwconf/i18n"
)

// Invalid codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType          = "invalid_type"
	CodeInvalidValue         = "invalid_value"
	CodeInvalidFormat        = "invalid_format"
	CodeRequired             = "required"
	CodeExtraKey             = "extra_key"
	CodeOutOfRange           = "out_of_range"
	CodeTooShort             = "too_short"
	CodeTooLong              = "too_long"
	CodeInvalidEnum          = "invalid_enum"
	CodeDiscriminatorMissing = "discriminator_missing"
	CodeDiscriminatorUnknown = "discriminator_unknown"
	CodeKeyCount             = "key_count"
	CodeNotTemplatable       = "not_templatable"
	// Identifier handling
	CodeInvalidID      = "invalid_id"
	CodeReservedID     = "reserved_id"
	CodeDuplicateID    = "duplicate_id"
	CodeUndeclaredID   = "undeclared_id"
	CodeIDTypeMismatch = "id_type_mismatch"
)

// Path is the ordered list of steps from the document root to a node.
// Steps are map keys (string) or list indexes (int).
type Path []any

// String renders the path as "a->b->0".
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = fmt.Sprint(s)
	}
	return strings.Join(parts, "->")
}

// Pointer renders the path as a JSON Pointer (for example: /sensor/2/name).
func (p Path) Pointer() string {
	if len(p) == 0 {
		return ""
	}
	b := &strings.Builder{}
	for _, s := range p {
		b.WriteByte('/')
		switch v := s.(type) {
		case int:
			b.WriteString(strconv.Itoa(v))
		default:
			seg := fmt.Sprint(v)
			seg = strings.ReplaceAll(seg, "~", "~0")
			seg = strings.ReplaceAll(seg, "/", "~1")
			b.WriteString(seg)
		}
	}
	return b.String()
}

// Invalid represents a single validation failure.
type Invalid struct {
	Path    Path
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: "did you mean" suggestions and similar remediation.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"min":0, "max":39}) for
	// i18n and tooling.
	Params map[string]any
}

// Errorf builds an Invalid with a formatted message.
func Errorf(code, format string, args ...any) *Invalid {
	return &Invalid{Code: code, Message: fmt.Sprintf(format, args...)}
}

// NewInvalid builds an Invalid whose message comes from the current
// translator for code.
func NewInvalid(code string) *Invalid {
	return &Invalid{Code: code, Message: i18n.T(code, nil)}
}

// WithHint returns a copy carrying the hint.
func (e *Invalid) WithHint(hint string) *Invalid {
	c := *e
	c.Hint = hint
	return &c
}

// WithParams returns a copy carrying structured parameters.
func (e *Invalid) WithParams(params map[string]any) *Invalid {
	c := *e
	c.Params = params
	return &c
}

func (e *Invalid) Error() string {
	msg := e.Message
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	if len(e.Path) == 0 {
		return msg
	}
	return msg + " @ " + e.Path.String()
}

func (e *Invalid) Unwrap() error { return e.Cause }

// MultipleInvalid is every independent failure found during one pass.
type MultipleInvalid []*Invalid

// Error summarizes the first few failures.
func (m MultipleInvalid) Error() string {
	if len(m) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(m)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(m[i].Error())
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Errors flattens any validation error into its individual failures.
// Errors outside the Invalid family become a single invalid_value entry.
func Errors(err error) []*Invalid {
	if err == nil {
		return nil
	}
	var m MultipleInvalid
	if errors.As(err, &m) {
		return m
	}
	var inv *Invalid
	if errors.As(err, &inv) {
		return []*Invalid{inv}
	}
	return []*Invalid{{Code: CodeInvalidValue, Message: err.Error(), Cause: err}}
}

// AsInvalid extracts the first Invalid from err.
func AsInvalid(err error) (*Invalid, bool) {
	all := Errors(err)
	if len(all) == 0 {
		return nil, false
	}
	return all[0], true
}

// AppendErrors appends the failures carried by err to dst.
func AppendErrors(dst MultipleInvalid, err error) MultipleInvalid {
	if err == nil {
		return dst
	}
	return append(dst, Errors(err)...)
}

// PrependPath returns err with steps prefixed to every failure's path.
// A single Invalid stays a single Invalid.
func PrependPath(err error, steps ...any) error {
	if err == nil || len(steps) == 0 {
		return err
	}
	all := Errors(err)
	out := make(MultipleInvalid, len(all))
	for i, inv := range all {
		c := *inv
		p := make(Path, 0, len(steps)+len(inv.Path))
		p = append(p, steps...)
		p = append(p, inv.Path...)
		c.Path = p
		out[i] = &c
	}
	var m MultipleInvalid
	if len(out) == 1 && !errors.As(err, &m) {
		return out[0]
	}
	return out
}

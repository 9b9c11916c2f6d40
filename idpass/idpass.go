// Package idpass links the IDs of a validated config tree: it names
// anonymous declarations, checks that every reference points at a
// declaration of a compatible type, and resolves anonymous references.
//
// Run mutates the *fwconf.ID values found in the tree. It is meant to run
// once over the output of a successful validation.
package idpass

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/reoring/fwconf"
	"github.com/reoring/fwconf/cv"
	"github.com/reoring/fwconf/internal/suggest"
)

// Entry is one ID occurrence and where it was found.
type Entry struct {
	ID   *fwconf.ID
	Path fwconf.Path
}

// Result lists the occurrences seen by Run, in document order.
type Result struct {
	Declarations []Entry
	Uses         []Entry
}

// Declared returns the declaration named name.
func (r *Result) Declared(name string) (*fwconf.ID, bool) {
	for _, d := range r.Declarations {
		if d.ID.Name == name {
			return d.ID, true
		}
	}
	return nil, false
}

// Walk calls fn for every ID in tree in document order. References written
// inside deferred expressions as id(name) are reported as manual,
// untyped uses.
func Walk(tree any, fn func(id *fwconf.ID, path fwconf.Path)) {
	walk(tree, nil, fn)
}

func walk(v any, path fwconf.Path, fn func(*fwconf.ID, fwconf.Path)) {
	switch t := v.(type) {
	case *fwconf.ID:
		if t != nil {
			fn(t, path)
		}
	case fwconf.Lambda:
		for _, name := range t.ReferencedIDs() {
			fn(fwconf.NewID(name, false, nil), path)
		}
	case []any:
		for i, x := range t {
			walk(x, extend(path, i), fn)
		}
	default:
		if m, ok := fwconf.AsMap(v); ok {
			m.Range(func(k string, x any) bool {
				walk(x, extend(path, k), fn)
				return true
			})
		}
	}
}

func extend(p fwconf.Path, step any) fwconf.Path {
	out := make(fwconf.Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, step)
}

// Run links the IDs of tree. Every problem is reported; the returned Result
// is complete even when err is non-nil.
func Run(tree any) (*Result, error) {
	res := &Result{}
	var errs fwconf.MultipleInvalid
	used := map[string]struct{}{}

	Walk(tree, func(id *fwconf.ID, path fwconf.Path) {
		if !id.IsDeclaration {
			res.Uses = append(res.Uses, Entry{ID: id, Path: path})
			return
		}
		if id.Name != "" {
			if _, dup := used[id.Name]; dup {
				errs = append(errs, &fwconf.Invalid{Path: path, Code: fwconf.CodeDuplicateID, Message: fmt.Sprintf("ID %s redefined!", id.Name)})
				return
			}
			used[id.Name] = struct{}{}
		}
		res.Declarations = append(res.Declarations, Entry{ID: id, Path: path})
	})

	// Manual names are known before any anonymous one is generated.
	for _, d := range res.Declarations {
		if d.ID.Name == "" {
			d.ID.Name = uniqueName(baseName(d.ID.Type), used)
			used[d.ID.Name] = struct{}{}
		}
	}

	for _, u := range res.Uses {
		if inv := res.link(u); inv != nil {
			errs = append(errs, inv)
		}
	}
	if len(errs) > 0 {
		return res, errs
	}
	return res, nil
}

func (r *Result) link(u Entry) *fwconf.Invalid {
	if u.ID.Name != "" {
		decl, ok := r.Declared(u.ID.Name)
		if !ok {
			inv := &fwconf.Invalid{
				Path:    u.Path,
				Code:    fwconf.CodeUndeclaredID,
				Message: fmt.Sprintf("Couldn't find ID '%s'. Please check you have defined an ID with that name in your configuration.", u.ID.Name),
			}
			if m := suggest.Close(u.ID.Name, r.names()); len(m) > 0 {
				inv.Hint = "did you mean " + suggest.Quote(m) + "?"
			}
			return inv
		}
		if decl.Type != nil && u.ID.Type != nil && !decl.Type.InheritsFrom(u.ID.Type) {
			return &fwconf.Invalid{
				Path:    u.Path,
				Code:    fwconf.CodeIDTypeMismatch,
				Message: fmt.Sprintf("ID '%s' of type %s doesn't inherit from %s. Please double check your ID is pointing to the correct value", u.ID.Name, decl.Type, u.ID.Type),
				Params:  map[string]any{"declared": decl.Type.String(), "wanted": u.ID.Type.String()},
			}
		}
		return nil
	}
	if u.ID.Type == nil {
		return nil
	}
	for _, d := range r.Declarations {
		if d.ID.Type.InheritsFrom(u.ID.Type) {
			u.ID.Name = d.ID.Name
			return nil
		}
	}
	return &fwconf.Invalid{
		Path:    u.Path,
		Code:    fwconf.CodeUndeclaredID,
		Message: fmt.Sprintf("Couldn't resolve ID for type '%s'", u.ID.Type),
	}
}

func (r *Result) names() []string {
	out := make([]string, 0, len(r.Declarations))
	for _, d := range r.Declarations {
		out = append(out, d.ID.Name)
	}
	sort.Strings(out)
	return out
}

// baseName derives a variable name from a type name: "sensor::Sensor"
// becomes "sensor_sensor".
func baseName(t *fwconf.Type) string {
	s := strings.ToLower(strings.ReplaceAll(t.String(), "::", "_"))
	b := &strings.Builder{}
	for _, r := range s {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "id"
	}
	return b.String()
}

// uniqueName returns name, or name_2, name_3, ... avoiding used and
// reserved names.
func uniqueName(name string, used map[string]struct{}) string {
	taken := func(s string) bool {
		_, ok := used[s]
		return ok || cv.IsReservedID(s)
	}
	candidate := name
	for n := 2; taken(candidate); n++ {
		candidate = name + "_" + strconv.Itoa(n)
	}
	return candidate
}

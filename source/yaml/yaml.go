// Package yaml loads YAML config documents into raw config nodes: *fwconf.Map
// for mappings (key order preserved), []any for sequences and plain scalars.
//
// Two local tags are understood: !lambda marks a deferred expression
// (fwconf.Lambda) and !secret NAME is replaced by the named entry of the
// secrets map. Merge keys (<<) are honored and duplicate keys are rejected.
package yaml

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	yamlv3 "gopkg.in/yaml.v3"

	"github.com/reoring/fwconf"
)

// DuplicateKeyError reports a key that appears twice in one mapping.
type DuplicateKeyError struct {
	Key       string
	FirstLine int
	FirstCol  int
	Line      int
	Col       int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key %q at %d:%d (first at %d:%d)", e.Key, e.Line, e.Col, e.FirstLine, e.FirstCol)
}

// NodeError is a problem tied to a position in the document.
type NodeError struct {
	Line int
	Col  int
	Msg  string
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg)
}

func nodeErr(n *yamlv3.Node, format string, args ...any) error {
	return &NodeError{Line: n.Line, Col: n.Column, Msg: fmt.Sprintf(format, args...)}
}

// Option configures a load.
type Option func(*loader)

// WithSecrets supplies the values !secret tags resolve to.
func WithSecrets(secrets map[string]any) Option {
	return func(l *loader) { l.secrets = secrets }
}

type loader struct {
	secrets map[string]any
	// anchors being expanded on the current path
	active map[*yamlv3.Node]bool
}

// Load decodes the first document of r. An empty document yields an empty
// Map.
func Load(r io.Reader, opts ...Option) (any, error) {
	l := &loader{}
	for _, o := range opts {
		o(l)
	}
	var root yamlv3.Node
	if err := yamlv3.NewDecoder(r).Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return fwconf.NewMap(), nil
		}
		return nil, err
	}
	if len(root.Content) == 0 {
		return fwconf.NewMap(), nil
	}
	return l.node(root.Content[0])
}

// LoadFile loads the YAML file at path.
func LoadFile(path string, opts ...Option) (any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	out, err := Load(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// LoadSecrets reads a secrets file: a single top-level mapping.
func LoadSecrets(path string) (map[string]any, error) {
	v, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	m, ok := fwconf.AsMap(v)
	if !ok {
		return nil, fmt.Errorf("%s: secrets file must be a mapping", path)
	}
	return m.ToStdMap(), nil
}

func (l *loader) node(n *yamlv3.Node) (any, error) {
	switch n.Kind {
	case yamlv3.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return l.node(n.Content[0])
	case yamlv3.AliasNode:
		if l.active[n.Alias] {
			return nil, nodeErr(n, "anchor %q contains itself", n.Value)
		}
		if l.active == nil {
			l.active = map[*yamlv3.Node]bool{}
		}
		l.active[n.Alias] = true
		defer delete(l.active, n.Alias)
		return l.node(n.Alias)
	case yamlv3.MappingNode:
		return l.mapping(n)
	case yamlv3.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := l.node(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yamlv3.ScalarNode:
		return l.scalar(n)
	}
	return nil, nodeErr(n, "unsupported node kind %d", n.Kind)
}

func (l *loader) mapping(n *yamlv3.Node) (any, error) {
	out := fwconf.NewMap()
	var merges []*yamlv3.Node
	first := make(map[string][2]int, len(n.Content)/2)
	own := fwconf.NewMap()
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Kind == yamlv3.ScalarNode && k.Tag == "!!merge" {
			merges = append(merges, v)
			continue
		}
		if k.Kind != yamlv3.ScalarNode {
			return nil, nodeErr(k, "mapping keys must be scalars")
		}
		key := k.Value
		if pos, dup := first[key]; dup {
			return nil, &DuplicateKeyError{Key: key, FirstLine: pos[0], FirstCol: pos[1], Line: k.Line, Col: k.Column}
		}
		first[key] = [2]int{k.Line, k.Column}
		val, err := l.node(v)
		if err != nil {
			return nil, err
		}
		own.Set(key, val)
	}
	for _, src := range merges {
		if err := l.merge(out, src); err != nil {
			return nil, err
		}
	}
	own.Range(func(k string, v any) bool {
		out.Set(k, v)
		return true
	})
	return out, nil
}

// merge copies the entries of a merge source into dst. Within a sequence of
// sources the earlier one wins.
func (l *loader) merge(dst *fwconf.Map, src *yamlv3.Node) error {
	if src.Kind == yamlv3.SequenceNode {
		for _, c := range src.Content {
			if err := l.merge(dst, c); err != nil {
				return err
			}
		}
		return nil
	}
	v, err := l.node(src)
	if err != nil {
		return err
	}
	m, ok := fwconf.AsMap(v)
	if !ok {
		return nodeErr(src, "merge source must be a mapping")
	}
	m.Range(func(k string, v any) bool {
		if !dst.Has(k) {
			dst.Set(k, v)
		}
		return true
	})
	return nil
}

func (l *loader) scalar(n *yamlv3.Node) (any, error) {
	switch n.Tag {
	case "!lambda":
		return fwconf.Lambda{Value: n.Value}, nil
	case "!secret":
		v, ok := l.secrets[n.Value]
		if !ok {
			return nil, nodeErr(n, "Secret '%s' not defined", n.Value)
		}
		return v, nil
	case "!!null":
		return nil, nil
	case "!!bool":
		b, err := strconv.ParseBool(strings.ToLower(n.Value))
		if err != nil {
			return n.Value, nil
		}
		return b, nil
	case "!!int":
		if i, err := strconv.ParseInt(n.Value, 0, 64); err == nil {
			return int(i), nil
		}
		return n.Value, nil
	case "!!float":
		return parseFloat(n.Value), nil
	case "!!str", "!", "":
		return n.Value, nil
	}
	if strings.HasPrefix(n.Tag, "!!") {
		return n.Value, nil
	}
	return nil, nodeErr(n, "unsupported tag %s", n.Tag)
}

func parseFloat(s string) any {
	switch strings.ToLower(s) {
	case ".inf", "+.inf":
		return math.Inf(1)
	case "-.inf":
		return math.Inf(-1)
	case ".nan":
		return math.NaN()
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// Package json loads JSON config documents into raw config nodes, keeping
// object key order. Numbers without a fraction or exponent become int; the
// rest become float64.
package json

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	j "github.com/goccy/go-json"

	"github.com/reoring/fwconf"
)

// DuplicateKeyError reports a key that appears twice in one object.
type DuplicateKeyError struct {
	Key    string
	Offset int64
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key %q at offset %d", e.Key, e.Offset)
}

// Load decodes exactly one JSON value from r.
func Load(r io.Reader) (any, error) {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	v, err := value(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after top-level value at offset %d", dec.InputOffset())
	}
	return v, nil
}

// LoadBytes decodes b.
func LoadBytes(b []byte) (any, error) { return Load(bytes.NewReader(b)) }

// LoadFile loads the JSON file at path.
func LoadFile(path string) (any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	out, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

func value(dec *j.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	switch t := tok.(type) {
	case j.Delim:
		switch t {
		case '{':
			return object(dec)
		case '[':
			return array(dec)
		}
		return nil, fmt.Errorf("unexpected %q at offset %d", rune(t), dec.InputOffset())
	case j.Number:
		return number(t)
	case float64:
		return t, nil
	case string, bool, nil:
		return t, nil
	}
	return nil, fmt.Errorf("unexpected token %v at offset %d", tok, dec.InputOffset())
}

func object(dec *j.Decoder) (any, error) {
	m := fwconf.NewMap()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key must be a string at offset %d", dec.InputOffset())
		}
		if m.Has(key) {
			return nil, &DuplicateKeyError{Key: key, Offset: dec.InputOffset()}
		}
		v, err := value(dec)
		if err != nil {
			return nil, err
		}
		m.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return m, nil
}

func array(dec *j.Decoder) (any, error) {
	out := []any{}
	for dec.More() {
		v, err := value(dec)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return out, nil
}

func number(n j.Number) (any, error) {
	if i, err := strconv.ParseInt(string(n), 10, 64); err == nil {
		return int(i), nil
	}
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", string(n))
	}
	return f, nil
}

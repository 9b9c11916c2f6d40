package cv_test

import (
	"context"
	"strings"
	"testing"

	"github.com/reoring/fwconf"
	"github.com/reoring/fwconf/cv"
)

func typedFixture() cv.TypedSchemaValidator {
	return cv.TypedSchema(map[string]fwconf.Validator{
		"x": cv.Schema(cv.Required("pin", cv.Uint8)),
		"y": cv.Schema(cv.Optional("name", cv.String).Default("why")),
	})
}

func TestTypedSchema_Dispatch(t *testing.T) {
	out, err := typedFixture().Validate(context.Background(), fwconf.M("pin", "3", "type", "x"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	m, _ := fwconf.AsMap(out)
	if got := strings.Join(m.Keys(), ","); got != "type,pin" {
		t.Fatalf("unexpected keys %s", got)
	}
	if !fwconf.Equal(out, fwconf.M("type", "x", "pin", 3)) {
		t.Fatalf("unexpected output %v", out)
	}
}

func TestTypedSchema_Unknown(t *testing.T) {
	_, err := typedFixture().Validate(context.Background(), fwconf.M("type", "z"))
	inv, ok := fwconf.AsInvalid(err)
	if !ok || inv.Code != fwconf.CodeDiscriminatorUnknown || inv.Path.String() != "type" {
		t.Fatalf("expected discriminator_unknown at type, got %v", err)
	}
	if inv.Message != "Unknown value 'z', valid options are 'x', 'y'." {
		t.Fatalf("options must come from the schema names only: %q", inv.Message)
	}
}

func TestTypedSchema_MissingAndDefault(t *testing.T) {
	ctx := context.Background()
	_, err := typedFixture().Validate(ctx, fwconf.M("pin", 1))
	inv, _ := fwconf.AsInvalid(err)
	if inv == nil || inv.Code != fwconf.CodeDiscriminatorMissing || inv.Message != "type not specified!" {
		t.Fatalf("unexpected: %v", err)
	}

	out, err := typedFixture().Key("kind").DefaultType("y").Validate(ctx, fwconf.NewMap())
	if err != nil || !fwconf.Equal(out, fwconf.M("kind", "y", "name", "why")) {
		t.Fatalf("default type: got %v, %v", out, err)
	}

	_, err = typedFixture().Validate(ctx, "x")
	inv, _ = fwconf.AsInvalid(err)
	if inv == nil || inv.Message != "Value must be dict" {
		t.Fatalf("unexpected: %v", err)
	}
}

func TestTypedSchema_SubSchemaErrors(t *testing.T) {
	_, err := typedFixture().Validate(context.Background(), fwconf.M("type", "x", "pin", 300, "extra", 1))
	got := strings.Join(codes(err), ",")
	if got != "out_of_range@pin,extra_key@extra" {
		t.Fatalf("unexpected failures: %s", got)
	}
}

func TestTypedSchema_Enum(t *testing.T) {
	v := typedFixture().Enum(map[string]any{"x": "Mode::X", "y": "Mode::Y"}).Upper()
	_, err := v.Validate(context.Background(), fwconf.M("type", "x", "pin", 1))
	if err == nil {
		t.Fatalf("Upper must not match lowercase schema names")
	}

	v = typedFixture().Enum(map[string]any{"x": "Mode::X", "y": "Mode::Y"})
	out, err := v.Validate(context.Background(), fwconf.M("type", "y"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	m, _ := fwconf.AsMap(out)
	d, _ := m.Get("type")
	ev, ok := d.(fwconf.EnumValue)
	if !ok || ev.Value != "y" || ev.EnumValue != "Mode::Y" {
		t.Fatalf("expected tagged discriminator, got %#v", d)
	}
	if again, err := v.Validate(context.Background(), out); err != nil || !fwconf.Equal(again, out) {
		t.Fatalf("not idempotent: %v, %v", again, err)
	}
}

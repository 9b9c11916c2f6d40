package cv_test

import (
	"context"
	"testing"

	"github.com/reoring/fwconf"
	"github.com/reoring/fwconf/cv"
)

var sensorType = fwconf.NewType("sensor::Sensor")

func TestDeclareID_Names(t *testing.T) {
	ctx := fwconf.WithState(context.Background(), fwconf.NewState())
	d := cv.DeclareID(sensorType)
	for in, code := range map[any]string{
		"1abc":    fwconf.CodeInvalidID,
		"class":   fwconf.CodeReservedID,
		"my-id":   fwconf.CodeInvalidID,
		"temp°":   fwconf.CodeInvalidID,
		"":        fwconf.CodeInvalidID,
		"setup":   fwconf.CodeReservedID,
		"uint8_t": fwconf.CodeReservedID,
	} {
		_, err := d.Validate(ctx, in)
		inv, _ := fwconf.AsInvalid(err)
		if inv == nil || inv.Code != code {
			t.Fatalf("%q: expected %s, got %v", in, code, err)
		}
	}

	out, err := d.Validate(ctx, "outdoor_temp")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	id := out.(*fwconf.ID)
	if id.Name != "outdoor_temp" || !id.IsDeclaration || id.Type != sensorType || !id.IsManual {
		t.Fatalf("got %#v", id)
	}
}

func TestDeclareID_Messages(t *testing.T) {
	ctx := context.Background()
	for in, msg := range map[string]string{
		"1abc":  "First character in ID cannot be a digit.",
		"a-b":   "Dashes are not supported in IDs, please use underscores instead.",
		"a b":   "IDs must only consist of upper/lowercase characters, the underscore character and numbers. The character ' ' cannot be used",
		"class": "ID 'class' is reserved internally and cannot be used",
	} {
		_, err := cv.DeclareID(sensorType).Validate(ctx, in)
		inv, _ := fwconf.AsInvalid(err)
		if inv == nil || inv.Message != msg {
			t.Fatalf("%q: got %v", in, err)
		}
	}
}

func TestDeclareID_Duplicates(t *testing.T) {
	st := fwconf.NewState()
	ctx := fwconf.WithState(context.Background(), st)
	if _, err := cv.DeclareID(sensorType).Validate(ctx, "flow_meter"); err != nil {
		t.Fatalf("first declaration: %v", err)
	}
	_, err := cv.DeclareID(fwconf.NewType("other")).Validate(ctx, "flow_meter")
	inv, _ := fwconf.AsInvalid(err)
	if inv == nil || inv.Code != fwconf.CodeDuplicateID {
		t.Fatalf("expected duplicate_id, got %v", err)
	}
	if names := st.DeclaredNames(); len(names) != 1 || names[0] != "flow_meter" {
		t.Fatalf("unexpected registry %v", names)
	}

	// Separate runs do not share a registry.
	s := cv.Schema(cv.Required("id", cv.DeclareID(sensorType)))
	for i := 0; i < 2; i++ {
		if _, err := fwconf.Validate(context.Background(), s, fwconf.M("id", "flow_meter")); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
}

func TestDeclareID_WithinOneDocument(t *testing.T) {
	s := cv.Schema(cv.Required("sensor", cv.EnsureList(cv.Schema(
		cv.GenerateID(cv.DeclareID(sensorType)),
	))))
	_, err := fwconf.Validate(context.Background(), s, fwconf.M("sensor", []any{
		fwconf.M("id", "a"), fwconf.M("id", "b"), fwconf.M("id", "a"),
	}))
	inv, _ := fwconf.AsInvalid(err)
	if inv == nil || inv.Code != fwconf.CodeDuplicateID || inv.Path.String() != "sensor->2->id" {
		t.Fatalf("expected duplicate at sensor->2->id, got %v", err)
	}
}

func TestDeclareID_IntegrationName(t *testing.T) {
	_, err := fwconf.Validate(context.Background(), cv.DeclareID(sensorType), "wifi", fwconf.WithIntegrations("wifi"))
	inv, _ := fwconf.AsInvalid(err)
	if inv == nil || inv.Code != fwconf.CodeReservedID {
		t.Fatalf("expected reserved_id, got %v", err)
	}
}

func TestGenerateID(t *testing.T) {
	s := cv.Schema(cv.GenerateID(cv.DeclareID(sensorType)))
	out, err := fwconf.Validate(context.Background(), s, fwconf.NewMap())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	m, _ := fwconf.AsMap(out)
	v, ok := m.Get("id")
	id, isID := v.(*fwconf.ID)
	if !ok || !isID || id.Name != "" || !id.IsDeclaration || id.IsManual {
		t.Fatalf("expected anonymous declaration, got %#v", v)
	}
}

func TestUseID(t *testing.T) {
	ctx := context.Background()
	u := cv.UseID(sensorType)
	out, err := u.Validate(ctx, "flow_meter")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	id := out.(*fwconf.ID)
	if id.IsDeclaration || id.Name != "flow_meter" {
		t.Fatalf("got %#v", id)
	}
	again, err := u.Validate(ctx, id)
	if err != nil || again != any(id) {
		t.Fatalf("an ID produced by the same validator passes through: %v, %v", again, err)
	}
	if _, err := u.Validate(ctx, fwconf.Lambda{Value: "id(x)"}); err == nil {
		t.Fatalf("IDs are not templatable")
	}
	out, err = u.Validate(ctx, nil)
	if err != nil || out.(*fwconf.ID).Name != "" {
		t.Fatalf("null use: got %v, %v", out, err)
	}
}

func TestDeclareID_DirectSchemaCall(t *testing.T) {
	s := cv.Schema(cv.Required("sensor", cv.EnsureList(cv.Schema(
		cv.Required("id", cv.DeclareID(sensorType)),
	))))
	_, err := s.Validate(context.Background(), fwconf.M("sensor", []any{
		fwconf.M("id", "a"), fwconf.M("id", "a"),
	}))
	inv, _ := fwconf.AsInvalid(err)
	if inv == nil || inv.Code != fwconf.CodeDuplicateID || inv.Path.String() != "sensor->1->id" {
		t.Fatalf("expected duplicate at sensor->1->id, got %v", err)
	}

	// Each direct call starts over.
	if _, err := s.Validate(context.Background(), fwconf.M("sensor", []any{fwconf.M("id", "a")})); err != nil {
		t.Fatalf("second call: %v", err)
	}
}

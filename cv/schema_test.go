package cv_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/reoring/fwconf"
	"github.com/reoring/fwconf/cv"
)

func codes(err error) []string {
	var out []string
	for _, inv := range fwconf.Errors(err) {
		out = append(out, inv.Code+"@"+inv.Path.String())
	}
	return out
}

func TestSchema_RequiredAndDefault(t *testing.T) {
	ctx := context.Background()
	s := cv.Schema(
		cv.Required("a", cv.Int),
		cv.Optional("b", cv.Int).Default(0),
	)

	_, err := s.Validate(ctx, fwconf.NewMap())
	var multi fwconf.MultipleInvalid
	if !errors.As(err, &multi) {
		t.Fatalf("expected MultipleInvalid, got %T: %v", err, err)
	}
	if len(multi) != 1 || multi[0].Code != fwconf.CodeRequired || multi[0].Path.String() != "a" {
		t.Fatalf("expected only required@a, got %v", codes(err))
	}
	if multi[0].Message != "required key not provided" {
		t.Fatalf("unexpected message: %q", multi[0].Message)
	}

	out, err := s.Validate(ctx, fwconf.M("a", 1))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !fwconf.Equal(out, fwconf.M("a", 1, "b", 0)) {
		t.Fatalf("unexpected output: %v", out)
	}

	_, err = s.Validate(ctx, fwconf.M("a", 1, "c", 2))
	got := codes(err)
	if len(got) != 1 || got[0] != "extra_key@c" {
		t.Fatalf("expected extra_key@c, got %v", got)
	}
}

func TestSchema_CollectsEveryFailure(t *testing.T) {
	s := cv.Schema(
		cv.Required("name", cv.StringStrict),
		cv.Required("port", cv.Port),
		cv.Optional("enabled", cv.Boolean),
	)
	_, err := s.Validate(context.Background(), fwconf.M("port", 70000, "enabled", "maybe", "nmae", "x"))
	got := strings.Join(codes(err), ",")
	for _, want := range []string{"out_of_range@port", "invalid_type@enabled", "extra_key@nmae", "required@name"} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %s in %s", want, got)
		}
	}
}

func TestSchema_OutputOrder(t *testing.T) {
	s := cv.Schema(
		cv.Optional("x", cv.Int).Default(1),
		cv.Required("b", cv.Int),
		cv.Required("a", cv.Int),
	)
	out, err := s.Validate(context.Background(), fwconf.M("a", 1, "b", 2))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	m, _ := fwconf.AsMap(out)
	if got := strings.Join(m.Keys(), ","); got != "a,b,x" {
		t.Fatalf("unexpected key order: %s", got)
	}
}

func TestSchema_ExtraKeySuggestion(t *testing.T) {
	s := cv.Schema(cv.Optional("update_interval", cv.UpdateInterval))
	_, err := s.Validate(context.Background(), fwconf.M("update_intervall", "1s"))
	inv, ok := fwconf.AsInvalid(err)
	if !ok || inv.Code != fwconf.CodeExtraKey {
		t.Fatalf("expected extra_key, got %v", err)
	}
	if !strings.Contains(inv.Hint, "'update_interval'") {
		t.Fatalf("expected suggestion in hint, got %q", inv.Hint)
	}
}

func TestSchema_ExtraPolicies(t *testing.T) {
	ctx := context.Background()
	base := cv.Schema(cv.Required("a", cv.Int))

	out, err := base.AllowExtra().Validate(ctx, fwconf.M("a", "1", "z", true))
	if err != nil {
		t.Fatalf("allow: unexpected err: %v", err)
	}
	if !fwconf.Equal(out, fwconf.M("a", 1, "z", true)) {
		t.Fatalf("allow: unexpected output: %v", out)
	}

	out, err = base.RemoveExtra().Validate(ctx, fwconf.M("a", 1, "z", true))
	if err != nil {
		t.Fatalf("remove: unexpected err: %v", err)
	}
	if !fwconf.Equal(out, fwconf.M("a", 1)) {
		t.Fatalf("remove: unexpected output: %v", out)
	}

	if _, err := base.Validate(ctx, fwconf.M("a", 1, "z", true)); err == nil {
		t.Fatalf("base schema must still reject extras")
	}
}

func TestSchema_NotAMapping(t *testing.T) {
	s := cv.Schema(cv.Optional("a", cv.Int))
	_, err := s.Validate(context.Background(), []any{1})
	inv, ok := fwconf.AsInvalid(err)
	if !ok || inv.Message != "expected dictionary" {
		t.Fatalf("expected 'expected dictionary', got %v", err)
	}
	if _, err := s.Validate(context.Background(), nil); err == nil {
		t.Fatalf("null must be rejected without NullAsEmpty")
	}
	out, err := s.NullAsEmpty().Validate(context.Background(), nil)
	if err != nil || !fwconf.Equal(out, fwconf.NewMap()) {
		t.Fatalf("NullAsEmpty: got %v, %v", out, err)
	}
}

func TestSchema_Extend(t *testing.T) {
	ctx := context.Background()
	parent := cv.Schema(
		cv.Required("name", cv.String),
		cv.Optional("interval", cv.Int).Default(60),
	)
	child := parent.Extend(
		cv.Optional("name", cv.String).Default("dev"),
		cv.Schema(cv.Required("pin", cv.Uint8)),
	)

	out, err := child.Validate(ctx, fwconf.M("pin", 3))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !fwconf.Equal(out, fwconf.M("pin", 3, "name", "dev", "interval", 60)) {
		t.Fatalf("unexpected output: %v", out)
	}
	if got := strings.Join(child.Keys(), ","); got != "name,interval,pin" {
		t.Fatalf("overridden key must keep its position, got %s", got)
	}
	if _, err := parent.Validate(ctx, fwconf.M("pin", 3)); err == nil {
		t.Fatalf("parent must be unchanged by Extend")
	}
}

func TestSchema_FactoryDefaultsAreFresh(t *testing.T) {
	ctx := context.Background()
	s := cv.Schema(
		cv.Optional("static", cv.Valid).Default([]any{1}),
		cv.Optional("made", cv.Valid).DefaultFunc(func() any { return fwconf.NewMap() }),
	)
	a, err := s.Validate(ctx, fwconf.NewMap())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	b, _ := s.Validate(ctx, fwconf.NewMap())
	am, _ := fwconf.AsMap(a)
	bm, _ := fwconf.AsMap(b)

	madeA, _ := am.Get("made")
	madeA.(*fwconf.Map).Set("k", 1)
	madeB, _ := bm.Get("made")
	if madeB.(*fwconf.Map).Len() != 0 {
		t.Fatalf("factory default shared between outputs")
	}

	staticA, _ := am.Get("static")
	staticA.([]any)[0] = 99
	staticB, _ := bm.Get("static")
	if staticB.([]any)[0] != 1 {
		t.Fatalf("static default shared between outputs")
	}
}

func TestSchema_DefaultsValidatedOnlyOnRequest(t *testing.T) {
	ctx := context.Background()
	trusted := cv.Schema(cv.Optional("n", cv.Int).Default("not a number"))
	out, err := trusted.Validate(ctx, fwconf.NewMap())
	if err != nil || !fwconf.Equal(out, fwconf.M("n", "not a number")) {
		t.Fatalf("defaults are trusted: got %v, %v", out, err)
	}
	checked := cv.Schema(cv.Optional("n", cv.Int).Default("7").ValidateDefault())
	out, err = checked.Validate(ctx, fwconf.NewMap())
	if err != nil || !fwconf.Equal(out, fwconf.M("n", 7)) {
		t.Fatalf("validated default: got %v, %v", out, err)
	}
}

func TestSchema_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := cv.Schema(
		cv.Required("name", cv.String),
		cv.Optional("interval", cv.UpdateInterval).Default("60s").ValidateDefault(),
		cv.Optional("level", cv.OneOf("DEBUG", "INFO").Upper()).Default("INFO"),
		cv.Optional("pins", cv.EnsureList(cv.Uint8)).Default([]any{}),
		cv.Optional("mode", cv.Enum(map[string]int{"fast": 1, "slow": 2})),
	)
	raw := fwconf.M("name", 12, "interval", "1.5s", "pins", "0x10", "mode", "fast")
	once, err := fwconf.Validate(ctx, s, raw)
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	twice, err := fwconf.Validate(ctx, s, once)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if !fwconf.Equal(once, twice) {
		t.Fatalf("not idempotent:\n%v\n%v", once, twice)
	}
}

func TestSchema_PinScenario(t *testing.T) {
	ctx := context.Background()
	s := cv.Schema(
		cv.Required("pin", cv.IntRange(0, 39)),
		cv.Optional("inverted", cv.Boolean).Default(false),
	)

	_, err := s.Validate(ctx, fwconf.M("pin", "40"))
	inv, ok := fwconf.AsInvalid(err)
	if !ok || inv.Code != fwconf.CodeOutOfRange || inv.Path.String() != "pin" {
		t.Fatalf("expected out_of_range at pin, got %v", err)
	}
	if !strings.Contains(inv.Message, "39") {
		t.Fatalf("message should cite the bound: %q", inv.Message)
	}

	out, err := s.Validate(ctx, fwconf.M("pin", 5))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !fwconf.Equal(out, fwconf.M("pin", 5, "inverted", false)) {
		t.Fatalf("unexpected output: %v", out)
	}
}

func TestSchema_MsgReplacesDirectFailures(t *testing.T) {
	s := cv.Schema(cv.Required("ssid", cv.SSID).Msg("WiFi network name is invalid"))
	_, err := s.Validate(context.Background(), fwconf.M("ssid", ""))
	inv, _ := fwconf.AsInvalid(err)
	if inv == nil || inv.Message != "WiFi network name is invalid" {
		t.Fatalf("expected custom message, got %v", err)
	}
}

func TestSchema_AddExtraAndRefine(t *testing.T) {
	ctx := context.Background()
	s := cv.Schema(
		cv.Optional("min", cv.Int),
		cv.Optional("max", cv.Int),
	).AddExtra(cv.HasAtLeastOneKey("min", "max")).
		Refine("min_le_max", func(_ context.Context, m *fwconf.Map) error {
			lo, okLo := m.Get("min")
			hi, okHi := m.Get("max")
			if okLo && okHi && lo.(int) > hi.(int) {
				return errors.New("min must not exceed max")
			}
			return nil
		})

	if _, err := s.Validate(ctx, fwconf.NewMap()); err == nil {
		t.Fatalf("expected key_count failure")
	} else if inv, _ := fwconf.AsInvalid(err); inv.Code != fwconf.CodeKeyCount {
		t.Fatalf("expected key_count, got %v", err)
	}

	_, err := s.Validate(ctx, fwconf.M("min", 5, "max", 1))
	inv, ok := fwconf.AsInvalid(err)
	if !ok || inv.Params["rule"] != "min_le_max" {
		t.Fatalf("expected refine failure, got %v", err)
	}

	if _, err := s.Validate(ctx, fwconf.M("min", 1, "max", 5)); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestSchema_FailFast(t *testing.T) {
	s := cv.Schema(
		cv.Required("a", cv.Int),
		cv.Required("b", cv.Int),
	)
	ctx := fwconf.WithFailFast(context.Background(), true)
	_, err := s.Validate(ctx, fwconf.M("a", "x", "b", "y"))
	if n := len(fwconf.Errors(err)); n != 1 {
		t.Fatalf("fail-fast should stop at one failure, got %d: %v", n, err)
	}
}

func TestSchema_NestedPaths(t *testing.T) {
	s := cv.Schema(
		cv.Required("sensor", cv.EnsureList(cv.Schema(
			cv.Required("name", cv.StringStrict),
		))),
	)
	_, err := s.Validate(context.Background(), fwconf.M("sensor", []any{
		fwconf.M("name", "ok"),
		fwconf.M("name", 5),
	}))
	inv, ok := fwconf.AsInvalid(err)
	if !ok {
		t.Fatalf("expected failure")
	}
	if got := inv.Path.String(); got != "sensor->1->name" {
		t.Fatalf("unexpected path %q", got)
	}
	if got := inv.Path.Pointer(); got != "/sensor/1/name" {
		t.Fatalf("unexpected pointer %q", got)
	}
}

package cv_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/reoring/fwconf"
	"github.com/reoring/fwconf/cv"
)

func TestRequiresComponentAndOnlyOn(t *testing.T) {
	ctx := context.Background()
	s := cv.Schema(
		cv.Optional("wake_pin", cv.All(cv.OnlyOn("esp32"), cv.Uint8)),
		cv.Optional("topic", cv.All(cv.RequiresComponent("mqtt"), cv.PublishTopic)),
	)
	raw := fwconf.M("wake_pin", 4, "topic", "dev/state")

	if _, err := fwconf.Validate(ctx, s, raw, fwconf.WithTargetPlatform("esp32"), fwconf.WithIntegrations("mqtt")); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	_, err := fwconf.Validate(ctx, s, raw, fwconf.WithTargetPlatform("esp8266"))
	got := strings.Join(codes(err), ",")
	if got != "invalid_value@wake_pin,invalid_value@topic" {
		t.Fatalf("unexpected failures: %s", got)
	}
	for _, inv := range fwconf.Errors(err) {
		if inv.Path.String() == "topic" && inv.Message != "This option requires component mqtt" {
			t.Fatalf("unexpected message %q", inv.Message)
		}
		if inv.Path.String() == "wake_pin" && inv.Message != "This feature is only available on [esp32]" {
			t.Fatalf("unexpected message %q", inv.Message)
		}
	}
}

func TestFileAndDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "font.ttf"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "assets"), 0o700); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	opt := fwconf.WithConfigDir(dir)

	if out, err := fwconf.Validate(ctx, cv.File, "font.ttf", opt); err != nil || out != "font.ttf" {
		t.Fatalf("file: got %v, %v", out, err)
	}
	if _, err := fwconf.Validate(ctx, cv.Directory, "assets", opt); err != nil {
		t.Fatalf("directory: %v", err)
	}

	_, err := fwconf.Validate(ctx, cv.File, "assets", opt)
	inv, _ := fwconf.AsInvalid(err)
	if inv == nil || !strings.HasPrefix(inv.Message, "Path '"+filepath.Join(dir, "assets")+"' is not a file") {
		t.Fatalf("unexpected: %v", err)
	}
	_, err = fwconf.Validate(ctx, cv.Directory, "missing", opt)
	inv, _ = fwconf.AsInvalid(err)
	if inv == nil || !strings.HasPrefix(inv.Message, "Could not find directory") {
		t.Fatalf("unexpected: %v", err)
	}
}

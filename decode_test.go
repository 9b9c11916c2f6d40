package fwconf_test

import (
	"testing"
	"time"

	"github.com/reoring/fwconf"
)

type pinConfig struct {
	Number   int  `config:"number"`
	Inverted bool `config:"inverted"`
}

type sensorConfig struct {
	ID       *fwconf.ID        `config:"id"`
	Name     string            `config:"name"`
	Pin      pinConfig         `config:"pin"`
	Mode     string            `config:"mode"`
	Address  int               `config:"address"`
	Interval time.Duration     `config:"update_interval"`
	Period   fwconf.TimePeriod `config:"debounce"`
	Lambda   fwconf.Lambda     `config:"lambda"`
}

func TestDecode(t *testing.T) {
	period := fwconf.MustTimePeriod(map[fwconf.TimeUnit]float64{fwconf.Seconds: 30})
	tree := fwconf.M(
		"id", fwconf.NewID("climate", true, nil),
		"name", "Climate",
		"pin", fwconf.M("number", 4, "inverted", true),
		"mode", fwconf.EnumValue{Value: "INPUT", EnumValue: "gpio::INPUT"},
		"address", fwconf.HexInt(0x76),
		"update_interval", period,
		"debounce", fwconf.MustTimePeriod(map[fwconf.TimeUnit]float64{fwconf.Milliseconds: 10}),
		"lambda", fwconf.Lambda{Value: "return 1;"},
	)
	var out sensorConfig
	if err := fwconf.Decode(tree, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.ID == nil || out.ID.Name != "climate" {
		t.Fatalf("id: %#v", out.ID)
	}
	if out.Pin != (pinConfig{Number: 4, Inverted: true}) || out.Mode != "INPUT" || out.Address != 0x76 {
		t.Fatalf("unexpected %+v", out)
	}
	if out.Interval != 30*time.Second || out.Period.TotalMilliseconds() != 10 {
		t.Fatalf("periods: %v %v", out.Interval, out.Period)
	}
	if out.Lambda.Value != "return 1;" {
		t.Fatalf("lambda: %v", out.Lambda)
	}
}

func TestDecode_TypeMismatch(t *testing.T) {
	var out sensorConfig
	if err := fwconf.Decode(fwconf.M("pin", "four"), &out); err == nil {
		t.Fatalf("expected error")
	}
}

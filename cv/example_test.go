package cv_test

import (
	"context"
	"fmt"

	"github.com/reoring/fwconf"
	"github.com/reoring/fwconf/cv"
)

func ExampleSchema() {
	ctx := context.Background()
	pin := cv.Schema(
		cv.Required("pin", cv.IntRange(0, 39)),
		cv.Optional("inverted", cv.Boolean).Default(false),
	)

	out, _ := fwconf.Validate(ctx, pin, fwconf.M("pin", "5"))
	fmt.Println(out)

	_, err := fwconf.Validate(ctx, pin, fwconf.M("pin", 40, "invert", true))
	for _, inv := range fwconf.Errors(err) {
		fmt.Printf("%s: %s", inv.Path, inv.Code)
		if inv.Hint != "" {
			fmt.Printf(" (%s)", inv.Hint)
		}
		fmt.Println()
	}
	// Output:
	// {pin: 5, inverted: false}
	// pin: out_of_range
	// invert: extra_key (did you mean 'inverted'?)
}

func ExampleOneOf() {
	color := cv.OneOf("red", "green", "blue").Lower()
	_, err := color.Validate(context.Background(), "GREN")
	inv, _ := fwconf.AsInvalid(err)
	fmt.Println(inv.Message)
	// Output: Unknown value 'gren', did you mean 'green'?
}

func ExampleTimePeriod() {
	out, _ := cv.TimePeriod.Validate(context.Background(), "1.5min")
	fmt.Println(out)
	// Output: 90s
}

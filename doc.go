// Package fwconf validates firmware configuration trees.
//
// A config tree is what a loader produces from YAML or JSON: ordered mappings
// (*Map), lists ([]any) and scalars, plus Lambda values for deferred
// expressions. Validators built with the cv package turn such a tree into a
// typed, defaulted copy with IDs, enum tags and time periods resolved, or
// report every problem at once.
//
// Quick example:
//
//	schema := cv.Schema(
//		cv.Required("pin", cv.IntRange(0, 39)),
//		cv.Optional("inverted", cv.Boolean).Default(false),
//	)
//	out, err := fwconf.Validate(ctx, schema, fwconf.M("pin", 5))
//	// out == {pin: 5, inverted: false}
//
// Errors are *Invalid (one failure) or MultipleInvalid (several). Both carry
// the path of every failing node; Errors flattens either into a slice.
package fwconf

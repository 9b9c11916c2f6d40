// Package cv holds the validator vocabulary component schemas are built
// from: scalar coercers, unit parsers, combinators, the mapping Schema,
// discriminated and registry dispatch, and ID declaration.
//
// Every validator implements fwconf.Validator and most also implement
// fwconf.JSONSchemaer. Validators are immutable values; builders such as
// Schema(...).Extend(...) or OneOf(...).Lower() return new validators.
//
//	pin := cv.Schema(
//		cv.Required("pin", cv.IntRange(0, 39)),
//		cv.Optional("inverted", cv.Boolean).Default(false),
//	)
//	out, err := fwconf.Validate(ctx, pin, raw)
//
// Container validators (Schema, EnsureList, Dict, Any) report every failure
// they find; All stops at the first one.
package cv

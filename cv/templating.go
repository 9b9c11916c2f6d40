package cv

import (
	"context"
	"regexp"
	"strings"

	"github.com/reoring/fwconf"
	js "github.com/reoring/fwconf/jsonschema"
)

var lambdaEntityID = regexp.MustCompile(`\Wid\(\s*([a-zA-Z0-9_]+\.[.a-zA-Z0-9_]+)\s*\)`)

// LambdaExpr accepts a deferred expression, or a string it turns into one.
// Home Assistant style entity ids inside id(...) are rejected.
var LambdaExpr fwconf.Validator = leaf{
	fn: func(_ context.Context, v any) (any, error) {
		l, ok := v.(fwconf.Lambda)
		if !ok {
			s, err := ToStringStrict(v)
			if err != nil {
				return nil, err
			}
			l = fwconf.Lambda{Value: s}
		}
		if ms := lambdaEntityID.FindAllStringSubmatch(l.Value, -1); len(ms) > 0 {
			ids := make([]string, len(ms))
			for i, m := range ms {
				ids[i] = "'" + m[1] + "'"
			}
			return nil, invalid("Lambda contains reference to entity-id-style ID %s. The id() wrapper only works for internal types.", strings.Join(ids, " "))
		}
		return l, nil
	},
	schema: func() *js.Schema { return &js.Schema{Type: "string", Format: "lambda"} },
}

// ReturningLambda is LambdaExpr requiring a return statement.
var ReturningLambda fwconf.Validator = leaf{
	fn: func(ctx context.Context, v any) (any, error) {
		res, err := LambdaExpr.Validate(ctx, v)
		if err != nil {
			return nil, err
		}
		if !strings.Contains(res.(fwconf.Lambda).Value, "return") {
			return nil, invalid("Lambda doesn't contain a 'return' statement, but the lambda is expected to return a value. \nPlease make sure the lambda contains at least one return statement.")
		}
		return res, nil
	},
	schema: func() *js.Schema { return &js.Schema{Type: "string", Format: "lambda"} },
}

// Templatable lets a field hold a deferred expression instead of a literal.
// Expressions skip v and are only checked to return a value.
func Templatable(v fwconf.Validator) fwconf.Validator {
	return leaf{
		fn: func(ctx context.Context, x any) (any, error) {
			if _, ok := x.(fwconf.Lambda); ok {
				return ReturningLambda.Validate(ctx, x)
			}
			return v.Validate(ctx, x)
		},
		schema: func() *js.Schema {
			return js.AnyOf(fwconf.JSONSchemaOf(v), &js.Schema{Type: "string", Format: "lambda"})
		},
	}
}

package cv_test

import (
	"context"
	"testing"

	"github.com/reoring/fwconf"
	"github.com/reoring/fwconf/cv"
)

func TestKeyCounts(t *testing.T) {
	ctx := context.Background()
	none := fwconf.M("x", 1)
	one := fwconf.M("a", 1, "x", 1)
	both := fwconf.M("a", 1, "b", 2)

	for _, tc := range []struct {
		name string
		v    fwconf.Validator
		in   *fwconf.Map
		ok   bool
		msg  string
	}{
		{"at least one/none", cv.HasAtLeastOneKey("a", "b"), none, false, "Must contain at least one of a, b."},
		{"at least one/one", cv.HasAtLeastOneKey("a", "b"), one, true, ""},
		{"exactly one/both", cv.HasExactlyOneKey("a", "b"), both, false, "Must contain exactly one of a, b."},
		{"exactly one/one", cv.HasExactlyOneKey("a", "b"), one, true, ""},
		{"exactly one/none", cv.HasExactlyOneKey("a", "b"), none, false, "Must contain exactly one of a, b."},
		{"at most one/both", cv.HasAtMostOneKey("a", "b"), both, false, "Cannot specify more than one of a, b."},
		{"at most one/none", cv.HasAtMostOneKey("a", "b"), none, true, ""},
		{"none or all/one", cv.HasNoneOrAllKeys("a", "b"), one, false, "Must specify either none or all of a, b."},
		{"none or all/both", cv.HasNoneOrAllKeys("a", "b"), both, true, ""},
		{"none or all/none", cv.HasNoneOrAllKeys("a", "b"), none, true, ""},
	} {
		out, err := tc.v.Validate(ctx, tc.in)
		if tc.ok {
			if err != nil || out != any(tc.in) {
				t.Fatalf("%s: got %v, %v", tc.name, out, err)
			}
			continue
		}
		inv, _ := fwconf.AsInvalid(err)
		if inv == nil || inv.Code != fwconf.CodeKeyCount || inv.Message != tc.msg {
			t.Fatalf("%s: unexpected %v", tc.name, err)
		}
	}
}

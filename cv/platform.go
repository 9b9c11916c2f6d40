package cv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/reoring/fwconf"
)

// RequiresComponent passes v through only when the integration comp is
// loaded in the run's State.
func RequiresComponent(comp string) fwconf.Validator {
	return leaf{fn: func(ctx context.Context, v any) (any, error) {
		st := fwconf.StateFrom(ctx)
		if st == nil || !st.HasIntegration(comp) {
			return nil, invalid("This option requires component %s", comp)
		}
		return v, nil
	}}
}

// OnlyOn passes v through only when the run targets one of platforms.
func OnlyOn(platforms ...string) fwconf.Validator {
	return leaf{fn: func(ctx context.Context, v any) (any, error) {
		if st := fwconf.StateFrom(ctx); st != nil {
			for _, p := range platforms {
				if st.TargetPlatform == p {
					return v, nil
				}
			}
		}
		return nil, invalid("This feature is only available on %v", platforms)
	}}
}

func configPath(ctx context.Context, rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	if st := fwconf.StateFrom(ctx); st != nil && st.ConfigDir != "" {
		return filepath.Join(st.ConfigDir, rel)
	}
	return rel
}

func absPath(p string) string {
	if a, err := filepath.Abs(p); err == nil {
		return a
	}
	return p
}

func pathValidator(wantDir bool) fwconf.Validator {
	kind := "file"
	if wantDir {
		kind = "directory"
	}
	return leaf{
		fn: func(ctx context.Context, v any) (any, error) {
			s, err := ToString(v)
			if err != nil {
				return nil, err
			}
			p := configPath(ctx, s)
			fi, serr := os.Stat(p)
			if serr != nil {
				return nil, &fwconf.Invalid{
					Code:    fwconf.CodeInvalidValue,
					Message: fmt.Sprintf("Could not find %s '%s'. Please make sure it exists (full path: %s).", kind, p, absPath(p)),
					Cause:   serr,
				}
			}
			if fi.IsDir() != wantDir {
				return nil, invalid("Path '%s' is not a %s (full path: %s).", p, kind, absPath(p))
			}
			return s, nil
		},
		schema: typed("string"),
	}
}

// File accepts a path to an existing regular file, relative to the config
// directory of the run. The original string is returned.
var File = pathValidator(false)

// Directory accepts a path to an existing directory, relative to the config
// directory of the run.
var Directory = pathValidator(true)

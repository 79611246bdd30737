// Package version compares semantic versions and checks the installed player against the supported minimum.
package version

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
)

// semver is a major.minor.patch triple as the player prints it.
type semver [3]int

func parseSemver(s string) (semver, error) {
	core := strings.TrimPrefix(strings.TrimSpace(s), "v")
	core, _, _ = strings.Cut(core, "-")

	parts := strings.Split(core, ".")
	if len(parts) < 2 || len(parts) > 3 {
		return semver{}, fmt.Errorf("malformed version %q", s)
	}

	var v semver
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return semver{}, fmt.Errorf("malformed version %q", s)
		}
		v[i] = n
	}

	return v, nil
}

// Compare orders two versions: 1 when a is newer than b, -1 when older, 0 when equal.
// A missing patch counts as zero and a git describe suffix such as -123-gdeadbee is ignored.
func Compare(a, b string) (int, error) {
	av, err := parseSemver(a)
	if err != nil {
		return 0, err
	}

	bv, err := parseSemver(b)
	if err != nil {
		return 0, err
	}

	for i := range av {
		if c := cmp.Compare(av[i], bv[i]); c != 0 {
			return c, nil
		}
	}

	return 0, nil
}

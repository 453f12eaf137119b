package install

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// CheckVersion verifies that a deployed DLL version (as reported by
// Library.Version, e.g. "1.54") is at least the configured minimum. An empty
// minimum accepts anything.
func CheckVersion(version, min string) error {
	if min == "" {
		return nil
	}
	got := canonical(version)
	want := canonical(min)
	if !semver.IsValid(got) {
		return fmt.Errorf("install: DLL reports invalid version %q", version)
	}
	if semver.Compare(got, want) < 0 {
		return fmt.Errorf("install: DLL version %s is older than required %s", version, min)
	}
	return nil
}

func canonical(v string) string {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return semver.Canonical(v)
}

package semver

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/Masterminds/semver/v3"
)

// ErrVersionNotFound is returned when no version number appears in the scanner output.
var ErrVersionNotFound = errors.New("no version found")

// versionPattern finds the first dotted version number, e.g. in
// "Dependency-Check Core version 9.0.9".
var versionPattern = regexp.MustCompile(`\d+\.\d+(\.\d+)?([-+][0-9A-Za-z.+-]+)?`)

// ParseScannerVersion extracts the version reported by a scanner's --version output.
func ParseScannerVersion(output string) (*semver.Version, error) {
	raw := versionPattern.FindString(output)
	if raw == "" {
		return nil, fmt.Errorf("%w in %q", ErrVersionNotFound, output)
	}
	v, err := semver.NewVersion(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid semver: %s", raw)
	}
	return v, nil
}

// AtLeast reports whether the version in output is greater than or equal to minimum.
func AtLeast(output, minimum string) (bool, error) {
	found, err := ParseScannerVersion(output)
	if err != nil {
		return false, err
	}
	constraint, err := semver.NewConstraint(">= " + minimum)
	if err != nil {
		return false, fmt.Errorf("invalid minimum version %q: %w", minimum, err)
	}
	return constraint.Check(found), nil
}

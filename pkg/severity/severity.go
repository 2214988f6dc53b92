// Package severity decides which vulnerability severities fail the build.
package severity

import (
	"strings"

	"github.com/pacmon-ci/pacmon/internal/teamcity"
)

// DefaultAllowList fails the build for every severity Dependency-Check reports.
const DefaultAllowList AllowList = "LOW, MEDIUM, HIGH, CRITICAL"

// AllowList is the operator-configured text naming the severities that fail the build,
// for example "HIGH, CRITICAL".
//
// Matching is a plain substring test against the whole text, not a token comparison:
// an allow-list of "CRITICAL" also allows a severity of "CRIT" or "IC".
type AllowList string

// Allowed reports whether a finding with the given severity should fail the build.
// An empty severity is never allowed.
func (a AllowList) Allowed(severity string) bool {
	label := teamcity.Normalize(severity)
	if label == "" {
		return false
	}
	return strings.Contains(string(a), label)
}

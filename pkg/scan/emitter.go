package scan

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/pacmon-ci/pacmon/internal/metrics"
	"github.com/pacmon-ci/pacmon/internal/teamcity"
	"github.com/pacmon-ci/pacmon/pkg/severity"
	"github.com/pacmon-ci/pacmon/pkg/types"
)

// suppressedPrefix marks ignored tests created from suppressed vulnerabilities.
const suppressedPrefix = "SUPPRESSED: "

// Emitter turns dependencies into TeamCity tests: one test per dependency, a failure per
// vulnerability whose severity is allowed, and an ignore per suppressed vulnerability.
type Emitter struct {
	out     *teamcity.Writer
	allow   severity.AllowList
	logger  types.Logger
	metrics *metrics.Collector
}

// NewEmitter creates an Emitter writing to out.
func NewEmitter(out *teamcity.Writer, allow severity.AllowList, logger types.Logger,
	collector *metrics.Collector) *Emitter {
	return &Emitter{
		out:     out,
		allow:   allow,
		logger:  logger,
		metrics: collector,
	}
}

// Emit reports deps in order and returns whether any dependency had a vulnerability,
// suppressed or not. The only error is a failure to write to the output.
//
// Vulnerabilities whose severity is not allowed produce no service message; they are
// logged as warnings instead.
func (e *Emitter) Emit(deps []types.Dependency) (hadVulnerability bool, err error) {
	for _, dep := range deps {
		name := teamcity.Normalize(dep.FileName)
		description := teamcity.Normalize(dep.Description)

		e.out.TestStarted(name, description)
		e.metrics.IncDependencies()

		if dep.HasFindings() {
			hadVulnerability = true
		}
		for _, f := range dep.Findings {
			e.emitFinding(name, f)
		}

		e.out.TestFinished(name)
	}
	return hadVulnerability, e.out.Err()
}

func (e *Emitter) emitFinding(dependency string, f types.Finding) {
	if f.Suppressed {
		message := teamcity.Normalize(fmt.Sprintf("%s%s (%s)", suppressedPrefix, f.Name, f.Severity))
		e.out.TestIgnored(dependency, message)
		e.metrics.IncIgnored()
		return
	}

	message := teamcity.Normalize(fmt.Sprintf("%s (%s)", f.Name, f.Severity))
	details := teamcity.Normalize(f.Description)
	if e.allow.Allowed(f.Severity) {
		e.out.TestFailed(dependency, message, details)
		e.metrics.IncFailed()
		return
	}

	e.logger.Warn("vulnerability below failure threshold",
		zap.String("dependency", dependency),
		zap.String("message", message),
		zap.String("description", details),
		zap.String("severity", f.Severity),
	)
	e.metrics.IncWarned()
}

package scan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/pacmon-ci/pacmon/internal/config"
	"github.com/pacmon-ci/pacmon/internal/metrics"
	"github.com/pacmon-ci/pacmon/internal/teamcity"
	"github.com/pacmon-ci/pacmon/pkg/report"
	"github.com/pacmon-ci/pacmon/pkg/semver"
	"github.com/pacmon-ci/pacmon/pkg/types"
)

// ErrScannerTooOld is returned when the scanner is older than the configured minimum.
var ErrScannerTooOld = errors.New("scanner version is too old")

// metricsNamespace prefixes the build statistic keys.
const metricsNamespace = "pacmon"

// Pipeline runs a scan and reports it to TeamCity.
type Pipeline struct {
	cfg     config.Config
	scanner types.Scanner
	logger  types.Logger
	out     io.Writer
}

// NewPipeline creates a Pipeline writing service messages to out.
func NewPipeline(cfg config.Config, scanner types.Scanner, logger types.Logger, out io.Writer) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		scanner: scanner,
		logger:  logger,
		out:     out,
	}
}

// Run scans the target, reports every dependency as a test, and asks the scanner for the
// human readable artifact when any dependency has a vulnerability.
//
// A missing or malformed report is returned as report.ErrReportMissing or
// report.ErrReportMalformed before any service message is written. A malformed report is
// deleted; a valid report listing no dependencies is left in place and Run returns nil.
func (p *Pipeline) Run(ctx context.Context) error {
	if err := p.checkScannerVersion(ctx); err != nil {
		return err
	}

	req := types.ScanRequest{
		Project:         p.cfg.Project,
		Target:          p.cfg.Target,
		OutputPath:      p.cfg.ReportPath,
		SuppressionPath: p.suppressionPath(),
		ExtraArgs:       p.cfg.ExtraArgs,
	}
	p.runScan(ctx, req)

	r, err := report.Load(p.cfg.ReportPath)
	switch {
	case errors.Is(err, report.ErrReportMalformed):
		p.removeReport()
		return err
	case err != nil:
		return err
	}

	if len(r.Dependencies) == 0 {
		p.logger.Info("no dependencies found in report", zap.String("report", p.cfg.ReportPath))
		return nil
	}
	p.removeReport()

	collector := metrics.NewCollector(metricsNamespace)
	out := teamcity.NewWriter(p.out)
	hadVulnerability, err := NewEmitter(out, p.cfg.Severities, p.logger, collector).Emit(r.Dependencies)
	if err != nil {
		return err
	}

	if p.cfg.Statistics {
		if err := writeStatistics(out, collector); err != nil {
			return err
		}
	}

	if !hadVulnerability {
		p.logger.Info("no vulnerabilities found", zap.Int("dependencies", len(r.Dependencies)))
		return nil
	}

	artifact := req
	artifact.OutputPath = p.cfg.ArtifactPath
	p.runScan(ctx, artifact)
	return nil
}

func (p *Pipeline) checkScannerVersion(ctx context.Context) error {
	if p.cfg.MinScannerVersion == "" {
		return nil
	}
	output, err := p.scanner.Version(ctx)
	if err != nil {
		return err
	}
	ok, err := semver.AtLeast(output, p.cfg.MinScannerVersion)
	if err != nil {
		return fmt.Errorf("failed to check scanner version: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %q does not satisfy >= %s", ErrScannerTooOld, output, p.cfg.MinScannerVersion)
	}
	return nil
}

// suppressionPath drops a configured suppression file that does not exist,
// since the scanner refuses to start without it.
func (p *Pipeline) suppressionPath() string {
	if p.cfg.Suppression == "" {
		return ""
	}
	if _, err := os.Stat(p.cfg.Suppression); err != nil {
		p.logger.Warn("suppression file not found, scanning without suppressions",
			zap.String("suppression", p.cfg.Suppression))
		return ""
	}
	return p.cfg.Suppression
}

// runScan logs scanner failures; the presence of the report decides the outcome.
func (p *Pipeline) runScan(ctx context.Context, req types.ScanRequest) {
	status, err := p.scanner.RunScan(ctx, req)
	if err != nil {
		p.logger.Error("scanner could not be run", zap.String("output", req.OutputPath), zap.Error(err))
		return
	}
	p.logger.Info("scan finished", zap.String("output", req.OutputPath), zap.Int("status", status))
}

func (p *Pipeline) removeReport() {
	if err := os.Remove(p.cfg.ReportPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		p.logger.Warn("failed to remove transient report", zap.String("report", p.cfg.ReportPath), zap.Error(err))
	}
}

func writeStatistics(out *teamcity.Writer, collector *metrics.Collector) error {
	stats, err := collector.Statistics()
	if err != nil {
		return err
	}
	for _, s := range stats {
		out.BuildStatisticValue(s.Key, s.Value)
	}
	return out.Err()
}

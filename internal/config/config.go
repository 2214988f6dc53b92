// Package config resolves PacMon settings from flags, a config file, .env and the environment.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pacmon-ci/pacmon/pkg/severity"
)

// EnvPrefix prefixes every environment override, e.g. PACMON_SCANNER_HOME.
const EnvPrefix = "PACMON"

// ciEnvVar is set by TeamCity on every build agent.
const ciEnvVar = "TEAMCITY_VERSION"

// Keys shared by flags, config file entries and environment variables.
const (
	KeyTarget            = "target"
	KeyProject           = "project"
	KeyScannerHome       = "scanner-home"
	KeyExtraArgs         = "extra-args"
	KeySuppression       = "suppression"
	KeyReport            = "report"
	KeyArtifact          = "artifact"
	KeySeverities        = "severities"
	KeyLogLevel          = "log-level"
	KeyLogFormat         = "log-format"
	KeyStatistics        = "statistics"
	KeyMinScannerVersion = "min-scanner-version"
)

// Config is the resolved, read-only configuration of one run.
type Config struct {
	Target            string
	Project           string
	ScannerHome       string
	ExtraArgs         string
	Suppression       string
	ReportPath        string
	ArtifactPath      string
	Severities        severity.AllowList
	LogLevel          string
	LogFormat         string
	Statistics        bool
	MinScannerVersion string
	// CI is true when running under TeamCity.
	CI bool
}

// AddFlags registers every setting on flags with its default.
func AddFlags(flags *pflag.FlagSet) {
	flags.StringP(KeyTarget, "t", "", "Path of the codebase to scan")
	flags.String(KeyProject, "PacMon", "Project name shown in the scanner reports")
	flags.String(KeyScannerHome, "dc", "Dependency-Check installation directory")
	flags.String(KeyExtraArgs, "", "Extra arguments passed verbatim to the scanner")
	flags.String(KeySuppression, "suppress.xml", "Suppression rules file")
	flags.String(KeyReport, "output.xml", "Transient machine readable report")
	flags.String(KeyArtifact, "vulnerabilities.html", "Human readable report written when vulnerabilities exist")
	flags.String(KeySeverities, string(severity.DefaultAllowList), "Severities that fail the build")
	flags.String(KeyLogLevel, "info", "Log level: debug|info|warn|error")
	flags.String(KeyLogFormat, "console", "Log format: console|json")
	flags.Bool(KeyStatistics, false, "Report finding counts as TeamCity build statistics")
	flags.String(KeyMinScannerVersion, "", "Fail when the scanner is older than this version")
}

// Load binds flags into v and resolves the configuration.
// Precedence is flag, environment (including .env), config file, then flag default.
func Load(v *viper.Viper, flags *pflag.FlagSet, cfgFile string) (Config, error) {
	// a missing .env is the common case
	_ = godotenv.Load() //nolint:errcheck

	if err := v.BindPFlags(flags); err != nil {
		return Config{}, fmt.Errorf("failed to bind flags: %w", err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
	}

	cfg := Config{
		Target:            v.GetString(KeyTarget),
		Project:           v.GetString(KeyProject),
		ScannerHome:       v.GetString(KeyScannerHome),
		ExtraArgs:         v.GetString(KeyExtraArgs),
		Suppression:       v.GetString(KeySuppression),
		ReportPath:        v.GetString(KeyReport),
		ArtifactPath:      v.GetString(KeyArtifact),
		Severities:        severity.AllowList(v.GetString(KeySeverities)),
		LogLevel:          v.GetString(KeyLogLevel),
		LogFormat:         v.GetString(KeyLogFormat),
		Statistics:        v.GetBool(KeyStatistics),
		MinScannerVersion: v.GetString(KeyMinScannerVersion),
		CI:                os.Getenv(ciEnvVar) != "",
	}

	// build logs are easier to search as JSON
	if cfg.CI && !v.IsSet(KeyLogFormat) {
		cfg.LogFormat = "json"
	}

	return cfg, nil
}

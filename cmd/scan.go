package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pacmon-ci/pacmon/internal/config"
	"github.com/pacmon-ci/pacmon/internal/executor"
	"github.com/pacmon-ci/pacmon/internal/log"
	"github.com/pacmon-ci/pacmon/pkg/scan"
)

// errFlagRetrieval is the error message for when a flag cannot be retrieved.
var errFlagRetrieval = errors.New("error getting flag")

// errRequiredFlagEmpty is the error message for a required flag that is empty.
var errRequiredFlagEmpty = errors.New("is required and cannot be empty")

// Execute is the main entry point for the scanner.
func Execute(args []string) {
	rootCmd := newRootCmd()
	rootCmd.Version = Version
	rootCmd.SetArgs(args) // Set the arguments

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// newRootCmd creates the root command for the scanner.
func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfg config.Config

	rootCmd := &cobra.Command{
		Use:   "pacmon",
		Short: "PacMon reports Dependency-Check vulnerabilities as TeamCity tests.",
		Long: `PacMon runs OWASP Dependency-Check against a codebase and reports every scanned
dependency as a TeamCity test. Vulnerabilities whose severity is in the allow-list fail
the test, suppressed vulnerabilities are ignored, and any other vulnerability is logged
as a warning. When vulnerabilities exist an HTML report is generated as well.

Every flag can also be set in the config file or through a PACMON_ environment variable,
e.g. PACMON_SCANNER_HOME=/opt/dependency-check.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// past flag validation, usage is noise
			cmd.SilenceUsage = true
			return runScanner(cmd.Context(), cfg, cmd.OutOrStdout())
		},
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cfgFile, err := cmd.Flags().GetString("config")
			if err != nil {
				return fmt.Errorf("%w: %s: %w", errFlagRetrieval, "config", err)
			}
			loaded, err := config.Load(v, cmd.Flags(), cfgFile)
			if err != nil {
				return err
			}
			if loaded.Target == "" {
				return fmt.Errorf("%s %w", config.KeyTarget, errRequiredFlagEmpty)
			}
			for _, p := range []string{loaded.ReportPath, loaded.ArtifactPath} {
				if _, err := scan.ReportFormat(p); err != nil {
					return err
				}
			}
			cfg = loaded
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", "", "Config file (yaml)")
	config.AddFlags(rootCmd.PersistentFlags())

	return rootCmd
}

// runScanner scans cfg.Target and writes service messages to out.
func runScanner(ctx context.Context, cfg config.Config, out io.Writer) error {
	logger, err := log.NewLogger(log.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return fmt.Errorf("error creating logger: %w", err)
	}
	ctx = log.WithLogger(ctx, logger)

	// the scanner installation and suppression rules usually ship next to the binary
	if dir, err := scan.ExecutableDir(); err == nil {
		cfg.ScannerHome = scan.ResolveRelative(dir, cfg.ScannerHome)
		cfg.Suppression = scan.ResolveRelative(dir, cfg.Suppression)
	} else {
		logger.Debug("could not locate executable directory", zap.Error(err))
	}

	if cfg.CI {
		logger.Info("running under TeamCity")
	}

	scanner, err := scan.NewDependencyCheck(logger, executor.NewCommandExecutor(), cfg.ScannerHome)
	if err != nil {
		return fmt.Errorf("error creating scanner: %w", err)
	}

	if err := scan.NewPipeline(cfg, scanner, logger, out).Run(ctx); err != nil {
		return fmt.Errorf("error scanning: %w", err)
	}
	return nil
}

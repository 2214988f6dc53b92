package scan

/*
Package scan runs OWASP Dependency-Check and reports its findings as TeamCity tests.

The main functions and types in this package are:

Pipeline
    Runs one scan end to end.

    Run(ctx) error
        Runs the scanner for the machine readable report, reports every dependency
        as a test, removes the transient report, and runs the scanner again for the
        human readable artifact when any dependency has a vulnerability.

        Returns report.ErrReportMissing when the scanner left no report and
        report.ErrReportMalformed when the report is not a Dependency-Check analysis.
        A report listing no dependencies is not an error.

Emitter
    Writes the service messages for a list of dependencies.

    Emit(deps) (hadVulnerability bool, err error)
        testStarted and testFinished for every dependency, testFailed for each
        vulnerability whose severity is in the allow-list, testIgnored for each
        suppressed vulnerability, and a warning log entry for everything else.

DependencyCheck
    Runs the dependency-check launcher from an installation directory. The report
    format is derived from the output file extension.

Example usage:

    scanner, err := scan.NewDependencyCheck(logger, executor.NewCommandExecutor(), "/opt/dependency-check")
    if err != nil {
        // Handle error
    }

    cfg := config.Config{
        Target:       "./src",
        Project:      "PacMon",
        ReportPath:   "output.xml",
        ArtifactPath: "vulnerabilities.html",
        Severities:   severity.DefaultAllowList,
    }
    if err := scan.NewPipeline(cfg, scanner, logger, os.Stdout).Run(ctx); err != nil {
        // exit 1
    }
*/

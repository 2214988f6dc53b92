package types

import "context"

// Finding is a single vulnerability reported against a dependency.
// Suppressed findings were excluded by a suppression rule and never fail the build.
type Finding struct {
	Name        string
	Severity    string
	Description string
	Suppressed  bool
}

// Dependency is one artifact scanned by Dependency-Check.
// Findings keep the order in which the report lists them, suppressed and
// unsuppressed entries interleaved.
type Dependency struct {
	FileName    string
	Description string
	Findings    []Finding
}

// HasFindings reports whether the dependency carries any vulnerability, suppressed or not.
func (d Dependency) HasFindings() bool {
	return len(d.Findings) > 0
}

// ScanRequest describes a single scanner run.
type ScanRequest struct {
	// Project is the project name shown in the scanner's reports.
	Project string
	// Target is the path of the codebase to scan.
	Target string
	// OutputPath is where the report is written. Its extension selects the report format.
	OutputPath string
	// SuppressionPath is the suppression rules file. Empty disables suppression.
	SuppressionPath string
	// ExtraArgs is passed to the scanner after shell-style splitting.
	ExtraArgs string
}

// Scanner runs the external vulnerability scanner.
type Scanner interface {
	// RunScan blocks until the scanner exits and returns its exit status.
	// An error is returned only when the scanner could not be run at all.
	RunScan(ctx context.Context, req ScanRequest) (int, error)
	// Version returns the version string the scanner reports about itself.
	Version(ctx context.Context) (string, error)
}

// Package report reads Dependency-Check XML reports.
package report

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/pacmon-ci/pacmon/pkg/types"
)

// ErrReportMissing is returned when there is no report at the given path.
var ErrReportMissing = errors.New("report not found")

// ErrReportMalformed is returned when the report is not XML or has no analysis root.
var ErrReportMalformed = errors.New("report is malformed")

const (
	rootElement       = "analysis"
	vulnerabilityElem = "vulnerability"
	suppressedElem    = "suppressedVulnerability"
)

// Report is a parsed scan report.
// An empty Dependencies slice means the scan succeeded but found nothing to report on.
type Report struct {
	Dependencies []types.Dependency
}

// HasVulnerabilities reports whether any dependency carries a finding, suppressed or not.
func (r *Report) HasVulnerabilities() bool {
	for _, d := range r.Dependencies {
		if d.HasFindings() {
			return true
		}
	}
	return false
}

type analysisXML struct {
	XMLName      xml.Name
	Dependencies struct {
		Dependency []dependencyXML `xml:"dependency"`
	} `xml:"dependencies"`
}

type dependencyXML struct {
	FileName        string `xml:"fileName"`
	Description     string `xml:"description"`
	Vulnerabilities struct {
		// any keeps vulnerability and suppressedVulnerability in document order
		Entries []findingXML `xml:",any"`
	} `xml:"vulnerabilities"`
}

type findingXML struct {
	XMLName     xml.Name
	Name        string `xml:"name"`
	Severity    string `xml:"severity"`
	Description string `xml:"description"`
}

// Load reads and validates the report at path.
//
// It returns ErrReportMissing when the file does not exist and ErrReportMalformed when
// the document does not parse or lacks the analysis root. Dependencies keep report order.
func Load(path string) (*Report, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrReportMissing, path)
		}
		return nil, fmt.Errorf("failed to open report: %w", err)
	}
	defer file.Close()

	r, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Parse decodes a report from r. See Load for the error contract.
func Parse(r io.Reader) (*Report, error) {
	var doc analysisXML
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReportMalformed, err)
	}
	if doc.XMLName.Local != rootElement {
		return nil, fmt.Errorf("%w: root element is %q, expected %q", ErrReportMalformed, doc.XMLName.Local, rootElement)
	}

	deps := make([]types.Dependency, 0, len(doc.Dependencies.Dependency))
	for _, d := range doc.Dependencies.Dependency {
		deps = append(deps, d.toDependency())
	}
	return &Report{Dependencies: deps}, nil
}

func (d dependencyXML) toDependency() types.Dependency {
	dep := types.Dependency{
		FileName:    d.FileName,
		Description: d.Description,
	}
	for _, e := range d.Vulnerabilities.Entries {
		switch e.XMLName.Local {
		case vulnerabilityElem, suppressedElem:
			dep.Findings = append(dep.Findings, types.Finding{
				Name:        e.Name,
				Severity:    e.Severity,
				Description: e.Description,
				Suppressed:  e.XMLName.Local == suppressedElem,
			})
		}
	}
	return dep
}

package metrics

import (
	"fmt"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
)

// Statistic is one gathered counter value.
type Statistic struct {
	Key   string
	Value float64
}

// Collector counts what a single emission pass reported.
// Each Collector owns its registry so that repeated runs and tests do not collide.
type Collector struct {
	registry     *prometheus.Registry
	dependencies prometheus.Counter
	failed       prometheus.Counter
	ignored      prometheus.Counter
	warned       prometheus.Counter
}

// NewCollector creates a Collector whose metric names are prefixed with namespace.
func NewCollector(namespace string) *Collector {
	newCounter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		})
	}
	c := &Collector{
		registry:     prometheus.NewRegistry(),
		dependencies: newCounter("dependencies_total", "Dependencies reported as tests"),
		failed:       newCounter("failed_total", "Vulnerabilities reported as test failures"),
		ignored:      newCounter("ignored_total", "Suppressed vulnerabilities reported as ignored tests"),
		warned:       newCounter("warned_total", "Vulnerabilities below the failure threshold"),
	}
	c.registry.MustRegister(c.dependencies, c.failed, c.ignored, c.warned)
	return c
}

// IncDependencies counts a reported dependency.
func (c *Collector) IncDependencies() { c.dependencies.Inc() }

// IncFailed counts a vulnerability that failed the build.
func (c *Collector) IncFailed() { c.failed.Inc() }

// IncIgnored counts a suppressed vulnerability.
func (c *Collector) IncIgnored() { c.ignored.Inc() }

// IncWarned counts a vulnerability below the failure threshold.
func (c *Collector) IncWarned() { c.warned.Inc() }

// Statistics gathers every counter, sorted by key.
func (c *Collector) Statistics() ([]Statistic, error) {
	families, err := c.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("failed to gather metrics: %w", err)
	}
	var stats []Statistic
	for _, mf := range families {
		var total float64
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
		stats = append(stats, Statistic{Key: mf.GetName(), Value: total})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Key < stats[j].Key })
	return stats, nil
}

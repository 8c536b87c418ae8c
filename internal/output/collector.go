package output

import (
	"sync"
	"time"

	"github.com/quantmind-br/modclean/internal/domain"
)

// ReportCollector accumulates check results during a run and writes them
// as a report on Flush. A collector without a path is disabled.
type ReportCollector struct {
	mu          sync.RWMutex
	checks      []domain.CheckResult
	module      string
	file        string
	autoRewrite bool
	rewritten   bool
	path        string
	writer      *Writer
	now         func() time.Time
}

// CollectorOptions configures a ReportCollector
type CollectorOptions struct {
	// Path is the report destination; empty disables the collector
	Path        string
	File        string
	AutoRewrite bool
	Writer      *Writer
}

// NewReportCollector creates a collector
func NewReportCollector(opts CollectorOptions) *ReportCollector {
	w := opts.Writer
	if w == nil {
		w = NewWriter()
	}
	return &ReportCollector{
		checks:      make([]domain.CheckResult, 0),
		file:        opts.File,
		autoRewrite: opts.AutoRewrite,
		path:        opts.Path,
		writer:      w,
		now:         time.Now,
	}
}

// Add records the result of one check
func (c *ReportCollector) Add(result domain.CheckResult) {
	if !c.IsEnabled() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks = append(c.checks, result)
}

// SetModule records the module path of the manifest
func (c *ReportCollector) SetModule(module string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.module = module
}

// SetRewritten records whether the manifest was written back
func (c *ReportCollector) SetRewritten(rewritten bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rewritten = rewritten
}

// Report returns a snapshot of the collected report
func (c *ReportCollector) Report() *Report {
	c.mu.RLock()
	defer c.mu.RUnlock()

	checks := make([]domain.CheckResult, len(c.checks))
	copy(checks, c.checks)

	return &Report{
		Module:      c.module,
		File:        c.file,
		AutoRewrite: c.autoRewrite,
		Rewritten:   c.rewritten,
		GeneratedAt: c.now().UTC(),
		Checks:      checks,
	}
}

// Flush writes the report. It is a no-op when the collector is disabled.
func (c *ReportCollector) Flush() error {
	if !c.IsEnabled() {
		return nil
	}
	return c.writer.Write(c.path, c.Report())
}

// Count returns the number of recorded checks
func (c *ReportCollector) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.checks)
}

// IsEnabled reports whether the collector has a destination
func (c *ReportCollector) IsEnabled() bool {
	return c.path != ""
}

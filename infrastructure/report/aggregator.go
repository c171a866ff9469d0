// Package report collects per-device poll failures into an end of run summary.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"

	"github.com/carlosrabelo/ifpoll/domain/entities"
)

const (
	CategoryCritical    = "critical"
	CategoryNonCritical = "non_critical"
)

// Stats counts polled devices by outcome
type Stats struct {
	Devices      int `json:"devices"`
	OK           int `json:"ok"`
	WithWarnings int `json:"with_warnings"`
	Failed       int `json:"failed"`
	Interfaces   int `json:"interfaces"`
}

// Summary is the JSON document written at the end of a run
type Summary struct {
	Critical    map[string][]string `json:"critical"`
	NonCritical map[string][]string `json:"non_critical"`
	Stats       Stats               `json:"stats"`
}

// Aggregator is safe for concurrent use
type Aggregator struct {
	mu          sync.Mutex
	critical    map[string][]string
	nonCritical map[string][]string
	stats       Stats
}

// NewAggregator returns an empty aggregator
func NewAggregator() *Aggregator {
	return &Aggregator{
		critical:    make(map[string][]string),
		nonCritical: make(map[string][]string),
	}
}

// Add records the outcome of one device
func (a *Aggregator) Add(result entities.PollResult) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stats.Devices++
	a.stats.Interfaces += len(result.Interfaces) + len(result.VirtualInterfaces)
	if len(result.Warnings) > 0 {
		a.nonCritical[result.Target] = append(a.nonCritical[result.Target], result.Warnings...)
	}
	switch {
	case result.Failed():
		a.critical[result.Target] = append(a.critical[result.Target], result.Fatal)
		a.stats.Failed++
	case len(result.Warnings) > 0:
		a.stats.WithWarnings++
	default:
		a.stats.OK++
	}
}

// Stats returns the current counters
func (a *Aggregator) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

// Summary returns a copy of everything recorded
func (a *Aggregator) Summary() Summary {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Summary{
		Critical:    copyRecords(a.critical),
		NonCritical: copyRecords(a.nonCritical),
		Stats:       a.stats,
	}
}

// Err returns every fatal record as one error, or nil
func (a *Aggregator) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	var result *multierror.Error
	for _, target := range sortedTargets(a.critical) {
		for _, msg := range a.critical[target] {
			result = multierror.Append(result, fmt.Errorf("%s: %s", target, msg))
		}
	}
	return result.ErrorOrNil()
}

// Render prints the run summary followed by one table per error category
func (a *Aggregator) Render(w io.Writer) {
	s := a.Summary()

	fmt.Fprintf(w, "\n===== POLL SUMMARY =====\n")
	fmt.Fprintf(w, "%-16s %d\n", "devices", s.Stats.Devices)
	fmt.Fprintf(w, "%-16s %s\n", "ok", color.GreenString("%d", s.Stats.OK))
	fmt.Fprintf(w, "%-16s %s\n", "with warnings", color.YellowString("%d", s.Stats.WithWarnings))
	fmt.Fprintf(w, "%-16s %s\n", "failed", color.RedString("%d", s.Stats.Failed))
	fmt.Fprintf(w, "%-16s %d\n", "interfaces", s.Stats.Interfaces)

	renderCategory(w, "CRITICAL ERRORS", s.Critical, color.RedString)
	renderCategory(w, "NON_CRITICAL ERRORS", s.NonCritical, color.YellowString)
}

func renderCategory(w io.Writer, title string, records map[string][]string, paint func(string, ...interface{}) string) {
	if len(records) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s:\n", paint(title))
	for _, target := range sortedTargets(records) {
		for _, msg := range records[target] {
			fmt.Fprintf(w, "  %-16s %s\n", color.CyanString(target), msg)
		}
	}
}

// WriteJSON dumps the summary to path
func (a *Aggregator) WriteJSON(path string) error {
	if path == "" {
		return errors.New("summary path is empty")
	}
	data, err := json.MarshalIndent(a.Summary(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write summary %s: %w", path, err)
	}
	return nil
}

func copyRecords(in map[string][]string) map[string][]string {
	out := make(map[string][]string, len(in))
	for k, v := range in {
		out[k] = append([]string(nil), v...)
	}
	return out
}

func sortedTargets(records map[string][]string) []string {
	targets := make([]string, 0, len(records))
	for target := range records {
		targets = append(targets, target)
	}
	sort.Strings(targets)
	return targets
}

// Package report records and publishes monitor results.
package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
	"gopkg.in/yaml.v3"

	"hellofw/host/monitor"
)

// appID salts the protected machine id so it can't be tied back to the host
const appID = "hellofw-monitor"

// BootSummary is the per-boot part of a report
type BootSummary struct {
	Model           string `yaml:"model" json:"model"`
	Cores           int    `yaml:"cores" json:"cores"`
	Revision        int    `yaml:"revision" json:"revision"`
	FreeHeap        uint32 `yaml:"free_heap" json:"free_heap"`
	MinimumFreeHeap uint32 `yaml:"minimum_free_heap" json:"minimum_free_heap"`
	Counters        []int  `yaml:"counters" json:"counters"`
	Restarted       bool   `yaml:"restarted" json:"restarted"`
}

// Report is the outcome of one monitor run
type Report struct {
	Device              string        `yaml:"device" json:"device"`
	Host                string        `yaml:"host" json:"host"`
	Started             time.Time     `yaml:"started" json:"started"`
	Duration            time.Duration `yaml:"duration" json:"duration"`
	Lines               int           `yaml:"lines" json:"lines"`
	FirstCounterLatency time.Duration `yaml:"first_counter_latency" json:"first_counter_latency"`
	Passed              bool          `yaml:"passed" json:"passed"`
	Aborted             bool          `yaml:"aborted,omitempty" json:"aborted,omitempty"`
	Boots               []BootSummary `yaml:"boots" json:"boots"`
	Failures            []string      `yaml:"failures,omitempty" json:"failures,omitempty"`
}

// HostID returns a stable, app-specific id for the machine running the monitor
func HostID() string {
	id, err := machineid.ProtectedID(appID)
	if err != nil {
		glog.Warningf("machine id unavailable: %v", err)
		return "unknown"
	}
	return id
}

// New builds a report from a monitor capture
func New(device, host string, c monitor.Capture) *Report {
	res := c.Result
	r := &Report{
		Device:              device,
		Host:                host,
		Started:             c.Started,
		Duration:            c.Finished.Sub(c.Started),
		Lines:               c.Lines,
		FirstCounterLatency: c.FirstCounterLatency,
		Passed:              res.Passed(),
		Aborted:             res.Aborted,
		Failures:            res.Failures,
	}
	for _, b := range res.Boots {
		r.Boots = append(r.Boots, BootSummary{
			Model:           b.Model,
			Cores:           b.Cores,
			Revision:        b.Revision,
			FreeHeap:        b.FreeHeap,
			MinimumFreeHeap: b.MinimumFreeHeap,
			Counters:        b.Counters,
			Restarted:       b.Restarted,
		})
	}
	return r
}

// Encode writes the report as YAML
func (r *Report) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}

// WriteFile writes the report as YAML to path
func (r *Report) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := r.Encode(f); err != nil {
		f.Close()
		return fmt.Errorf("write report: %w", err)
	}
	return f.Close()
}

// Summary is a one-line human readable verdict
func (r *Report) Summary() string {
	verdict := "PASS"
	if !r.Passed {
		verdict = "FAIL"
	}
	return fmt.Sprintf("%s: %d boot(s), %d failure(s), %d lines in %v", verdict, len(r.Boots), len(r.Failures), r.Lines, r.Duration.Round(time.Millisecond))
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics records per-run pipeline counts in a private Prometheus
// registry and writes them as a node-exporter textfile. Methods are safe on
// a nil *Metrics, which records nothing.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "sysreview"

// Metrics holds the collectors for one CLI invocation.
type Metrics struct {
	reg *prometheus.Registry

	RecordsIn          *prometheus.GaugeVec
	RecordsOut         *prometheus.GaugeVec
	Duplicates         *prometheus.CounterVec
	ScreeningDecisions *prometheus.CounterVec
	StageDuration      *prometheus.GaugeVec
	RunInfo            *prometheus.GaugeVec
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		RecordsIn: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stage_records_in",
			Help:      "Records read by a pipeline stage",
		}, []string{"stage"}),
		RecordsOut: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stage_records_out",
			Help:      "Records kept by a pipeline stage",
		}, []string{"stage"}),
		Duplicates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dedup_removed_total",
			Help:      "Records removed during deduplication by reason",
		}, []string{"reason"}), // doi, fingerprint, fuzzy, unwanted
		ScreeningDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "screening_decisions_total",
			Help:      "Full-text screening decisions by outcome",
		}, []string{"related"}),
		StageDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Wall time of the last run of a pipeline stage",
		}, []string{"stage"}),
		RunInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_info",
			Help:      "Identifies the run that wrote this file",
		}, []string{"run_id", "command"}),
	}
	m.reg.MustRegister(m.RecordsIn, m.RecordsOut, m.Duplicates,
		m.ScreeningDecisions, m.StageDuration, m.RunInfo)
	return m
}

// Registry exposes the private registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// SetRun records the run identity.
func (m *Metrics) SetRun(runID, command string) {
	if m != nil {
		m.RunInfo.WithLabelValues(runID, command).Set(1)
	}
}

// ObserveStage records the input and output sizes and duration of a stage.
func (m *Metrics) ObserveStage(stage string, in, out int, d time.Duration) {
	if m == nil {
		return
	}
	m.RecordsIn.WithLabelValues(stage).Set(float64(in))
	m.RecordsOut.WithLabelValues(stage).Set(float64(out))
	m.StageDuration.WithLabelValues(stage).Set(d.Seconds())
}

// AddDuplicates counts records removed for reason.
func (m *Metrics) AddDuplicates(reason string, n int) {
	if m != nil && n > 0 {
		m.Duplicates.WithLabelValues(reason).Add(float64(n))
	}
}

// IncDecision counts one screening decision.
func (m *Metrics) IncDecision(related string) {
	if m != nil {
		m.ScreeningDecisions.WithLabelValues(related).Inc()
	}
}

// WriteTextfile writes the registry to path in the text exposition format.
// An empty path is a no-op.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}

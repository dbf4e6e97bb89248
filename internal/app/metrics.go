package app

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Metrics counts calculator interactions. All methods are safe for
// concurrent use.
type Metrics struct {
	buttons      atomic.Uint64
	keys         atomic.Uint64
	ignoredKeys  atomic.Uint64
	evaluations  atomic.Uint64
	failures     atomic.Uint64
	themeReloads atomic.Uint64

	startNs atomic.Int64
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{}
	m.startNs.Store(time.Now().UnixNano())
	return m
}

// RecordButton records a keypad control activation.
func (m *Metrics) RecordButton() {
	m.buttons.Add(1)
}

// RecordKey records a key press.
func (m *Metrics) RecordKey(ignored bool) {
	m.keys.Add(1)
	if ignored {
		m.ignoredKeys.Add(1)
	}
}

// RecordEvaluation records a Calculate call.
func (m *Metrics) RecordEvaluation(ok bool) {
	m.evaluations.Add(1)
	if !ok {
		m.failures.Add(1)
	}
}

// RecordThemeReload records a theme applied from a changed config file.
func (m *Metrics) RecordThemeReload() {
	m.themeReloads.Add(1)
}

// Reset zeroes every counter and restarts the uptime clock.
func (m *Metrics) Reset() {
	m.buttons.Store(0)
	m.keys.Store(0)
	m.ignoredKeys.Store(0)
	m.evaluations.Store(0)
	m.failures.Store(0)
	m.themeReloads.Store(0)
	m.startNs.Store(time.Now().UnixNano())
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Buttons:      m.buttons.Load(),
		Keys:         m.keys.Load(),
		IgnoredKeys:  m.ignoredKeys.Load(),
		Evaluations:  m.evaluations.Load(),
		Failures:     m.failures.Load(),
		ThemeReloads: m.themeReloads.Load(),
		Uptime:       time.Since(time.Unix(0, m.startNs.Load())),
	}
}

// MetricsSnapshot is a point-in-time copy of the counters.
type MetricsSnapshot struct {
	Buttons      uint64
	Keys         uint64
	IgnoredKeys  uint64
	Evaluations  uint64
	Failures     uint64
	ThemeReloads uint64
	Uptime       time.Duration
}

// FailureRate returns the fraction of evaluations that failed.
func (s MetricsSnapshot) FailureRate() float64 {
	if s.Evaluations == 0 {
		return 0
	}
	return float64(s.Failures) / float64(s.Evaluations)
}

// String formats the snapshot for the shutdown log line.
func (s MetricsSnapshot) String() string {
	return fmt.Sprintf("buttons=%d keys=%d ignored=%d evaluations=%d failures=%d reloads=%d uptime=%s",
		s.Buttons, s.Keys, s.IgnoredKeys, s.Evaluations, s.Failures, s.ThemeReloads,
		s.Uptime.Round(time.Millisecond))
}

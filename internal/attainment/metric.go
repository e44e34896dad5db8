// Package attainment implements the outcome attainment computation engine:
// raw per-question marks are reduced to per-student CO percentages,
// classified against a configurable threshold ladder, and propagated through
// a CO-to-PO correlation matrix into weighted program-level scores. Every
// function here is a pure function of its inputs.
package attainment

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Metric is a percentage (or level) that is either a measured value or the
// unassessed sentinel. A CO with zero total max marks was never assessed and
// must stay distinguishable from an assessed zero all the way to the report.
type Metric struct {
	value    float64
	assessed bool
}

// Assessed wraps a measured value.
func Assessed(value float64) Metric {
	return Metric{value: value, assessed: true}
}

// Unassessed returns the NA sentinel.
func Unassessed() Metric {
	return Metric{}
}

// IsAssessed reports whether the metric carries a value.
func (m Metric) IsAssessed() bool {
	return m.assessed
}

// Value returns the measured value and whether it is defined.
func (m Metric) Value() (float64, bool) {
	return m.value, m.assessed
}

// Or returns the measured value, or the fallback when unassessed.
func (m Metric) Or(fallback float64) float64 {
	if !m.assessed {
		return fallback
	}
	return m.value
}

// String renders "NA" for the sentinel, a fixed-point percentage otherwise.
func (m Metric) String() string {
	if !m.assessed {
		return "NA"
	}
	return strconv.FormatFloat(m.value, 'f', 2, 64)
}

var nullJSON = []byte("null")

// MarshalJSON emits null for unassessed metrics so consumers cannot confuse
// NA with an assessed zero.
func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.assessed {
		return nullJSON, nil
	}
	return json.Marshal(m.value)
}

// UnmarshalJSON restores the sentinel from null, a value otherwise. Needed to
// round-trip cached reports.
func (m *Metric) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), nullJSON) {
		*m = Metric{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = Metric{value: v, assessed: true}
	return nil
}

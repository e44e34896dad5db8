package models

// Fixed outcome label sets. Course outcomes CO1..CO6 map onto program
// outcomes PO1..PO12 and program-specific outcomes PSO1..PSO3.
var (
	COLabels = []string{"CO1", "CO2", "CO3", "CO4", "CO5", "CO6"}
	POLabels = []string{
		"PO1", "PO2", "PO3", "PO4", "PO5", "PO6",
		"PO7", "PO8", "PO9", "PO10", "PO11", "PO12",
		"PSO1", "PSO2", "PSO3",
	}
)

// CorrelationLevels is the default maximum correlation strength of a matrix
// cell, used for courses without a configured threshold ladder. Once a ladder
// exists its depth becomes the bound.
const CorrelationLevels = 3

// CorrelationMatrix maps CO label -> PO/PSO label -> correlation strength.
// Zero means no correlation and is excluded from weighted averages.
type CorrelationMatrix map[string]map[string]int

// NewCorrelationMatrix returns a zero-filled matrix over the fixed labels.
func NewCorrelationMatrix() CorrelationMatrix {
	m := make(CorrelationMatrix, len(COLabels))
	for _, co := range COLabels {
		row := make(map[string]int, len(POLabels))
		for _, po := range POLabels {
			row[po] = 0
		}
		m[co] = row
	}
	return m
}

// Clone returns a deep copy, zero-filling any labels missing from the source.
func (m CorrelationMatrix) Clone() CorrelationMatrix {
	clone := NewCorrelationMatrix()
	for _, co := range COLabels {
		for _, po := range POLabels {
			clone[co][po] = m.Value(co, po)
		}
	}
	return clone
}

// Value returns the strength for a cell, zero when the cell is absent.
func (m CorrelationMatrix) Value(co, po string) int {
	row, ok := m[co]
	if !ok {
		return 0
	}
	return row[po]
}

// Set clamps the value to [0, levels] and stores it.
func (m CorrelationMatrix) Set(co, po string, value, levels int) {
	if _, ok := m[co]; !ok {
		m[co] = make(map[string]int, len(POLabels))
	}
	m[co][po] = ClampCorrelation(value, levels)
}

// ClampCorrelation bounds a correlation strength to [0, levels].
func ClampCorrelation(value, levels int) int {
	if value < 0 {
		return 0
	}
	if value > levels {
		return levels
	}
	return value
}

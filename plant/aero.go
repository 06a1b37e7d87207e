package plant

import (
	"errors"
	"fmt"
)

// AeroTable is a static Cp(lambda) curve sampled at strictly increasing
// tip-speed ratios, typically taken from CFD or wind tunnel data. Lookups
// interpolate linearly between samples and clamp flat beyond the table edges.
type AeroTable struct {
	lambdas []float64
	cps     []float64
	cpMax   float64
}

// NewAeroTable validates the sample pairs and returns the lookup table.
func NewAeroTable(lambdas, cps []float64) (*AeroTable, error) {
	if len(lambdas) == 0 {
		return nil, errors.New("aero table is empty")
	}
	if len(lambdas) != len(cps) {
		return nil, fmt.Errorf("aero table length mismatch: %d lambda values, %d cp values", len(lambdas), len(cps))
	}
	for i := 1; i < len(lambdas); i++ {
		if lambdas[i] <= lambdas[i-1] {
			return nil, fmt.Errorf("aero table lambda values must be strictly increasing, got %f after %f", lambdas[i], lambdas[i-1])
		}
	}

	t := &AeroTable{
		lambdas: append([]float64(nil), lambdas...),
		cps:     append([]float64(nil), cps...),
	}
	for _, cp := range t.cps {
		if cp > t.cpMax {
			t.cpMax = cp
		}
	}
	return t, nil
}

// DefaultTable returns the reference helical-rotor curve used for harness runs
// when no table is configured.
func DefaultTable() *AeroTable {
	t, err := NewAeroTable(
		[]float64{0.5, 1.0, 1.5, 2.0, 2.5, 3.0, 3.5},
		[]float64{0.05, 0.15, 0.28, 0.35, 0.32, 0.25, 0.18},
	)
	if err != nil {
		panic(err) // reference table is known good
	}
	return t
}

// Cp returns the power coefficient at the given tip-speed ratio by
// piecewise-linear interpolation. Values of lambda outside the table domain
// clamp to the boundary Cp.
func (t *AeroTable) Cp(lambda float64) float64 {
	n := len(t.lambdas)
	if lambda <= t.lambdas[0] {
		return t.cps[0]
	}
	if lambda >= t.lambdas[n-1] {
		return t.cps[n-1]
	}

	// find the bracketing segment
	i := 1
	for i < n-1 && lambda > t.lambdas[i] {
		i++
	}
	if lambda == t.lambdas[i] {
		return t.cps[i]
	}
	x0, x1 := t.lambdas[i-1], t.lambdas[i]
	y0, y1 := t.cps[i-1], t.cps[i]
	return y0 + (y1-y0)*(lambda-x0)/(x1-x0)
}

// MaxCp returns the largest Cp in the table.
func (t *AeroTable) MaxCp() float64 {
	return t.cpMax
}

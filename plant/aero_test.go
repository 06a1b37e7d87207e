package plant_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vawtlabs/vawthil/plant"
)

func TestNewAeroTableValidation(t *testing.T) {
	testCases := []struct {
		name    string
		lambdas []float64
		cps     []float64
		isError bool
	}{
		{
			name:    "empty",
			isError: true,
		},
		{
			name:    "length_mismatch",
			lambdas: []float64{0.5, 1.0, 1.5},
			cps:     []float64{0.05, 0.15},
			isError: true,
		},
		{
			name:    "non_monotone",
			lambdas: []float64{0.5, 1.5, 1.0},
			cps:     []float64{0.05, 0.15, 0.28},
			isError: true,
		},
		{
			name:    "repeated_lambda",
			lambdas: []float64{0.5, 1.0, 1.0},
			cps:     []float64{0.05, 0.15, 0.28},
			isError: true,
		},
		{
			name:    "valid",
			lambdas: []float64{0.5, 1.0, 1.5},
			cps:     []float64{0.05, 0.15, 0.28},
			isError: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			table, err := plant.NewAeroTable(tc.lambdas, tc.cps)
			if tc.isError {
				assert.Error(t, err)
				assert.Nil(t, table)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, table)
			}
		})
	}
}

func TestAeroTableLookup(t *testing.T) {
	table := plant.DefaultTable()

	// exact sample points come back exactly
	assert.Equal(t, 0.35, table.Cp(2.0))
	assert.Equal(t, 0.05, table.Cp(0.5))
	assert.Equal(t, 0.18, table.Cp(3.5))

	// out-of-range lambda clamps to the boundary Cp
	assert.Equal(t, 0.05, table.Cp(0.0))
	assert.Equal(t, 0.05, table.Cp(-3.0))
	assert.Equal(t, 0.18, table.Cp(10.0))

	// midpoints interpolate linearly
	assert.InDelta(t, 0.10, table.Cp(0.75), 1e-12)
	assert.InDelta(t, 0.335, table.Cp(2.25), 1e-12)

	assert.Equal(t, 0.35, table.MaxCp())
}

func TestAeroTableShape(t *testing.T) {
	table := plant.DefaultTable()

	// the curve rises to its peak at lambda=2.0 then falls, and every lookup
	// stays within [0, MaxCp]
	prev := table.Cp(0.0)
	for lambda := 0.05; lambda <= 2.0; lambda += 0.05 {
		cp := table.Cp(lambda)
		assert.GreaterOrEqual(t, cp, prev)
		assert.LessOrEqual(t, cp, table.MaxCp())
		prev = cp
	}
	for lambda := 2.05; lambda <= 5.0; lambda += 0.05 {
		cp := table.Cp(lambda)
		assert.LessOrEqual(t, cp, prev)
		assert.GreaterOrEqual(t, cp, 0.0)
		prev = cp
	}
}

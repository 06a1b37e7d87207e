package wind_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vawtlabs/vawthil/wind"
)

func TestConstantProfile(t *testing.T) {
	p := wind.Constant(7.0)
	for _, tt := range []float64{0, 0.05, 19.99, 1000} {
		assert.Equal(t, 7.0, p(tt))
	}
}

func TestStepGustProfile(t *testing.T) {
	p := wind.StepGust()

	assert.Equal(t, 6.0, p(0))
	assert.Equal(t, 6.0, p(19.9))
	assert.Equal(t, 9.0, p(20.0))
	assert.Equal(t, 9.0, p(39.9))
	assert.Equal(t, 7.0, p(40.0))
	assert.Equal(t, 7.0, p(600.0))
}

// Profiles are pure functions of time: calling out of order or repeatedly
// must not change the result.
func TestProfilePurity(t *testing.T) {
	p := wind.StepGust()

	first := p(25.0)
	p(55.0)
	p(1.0)
	assert.Equal(t, first, p(25.0))
}

func TestModulatedProfile(t *testing.T) {
	p, err := wind.Modulated(6.0, 1.5, 8.0, "sine")
	assert.NoError(t, err)

	assert.InDelta(t, 6.0, p(0), 1e-12)
	assert.InDelta(t, 7.5, p(2.0), 1e-12) // quarter period: full amplitude
	assert.InDelta(t, 4.5, p(6.0), 1e-12)

	_, err = wind.Modulated(6.0, 1.5, 8.0, "not_a_shape")
	assert.Error(t, err)
}

func TestShapeFunctions(t *testing.T) {
	testCases := []struct {
		name     string
		t        float64
		A        float64
		T        float64
		expected float64
		isError  bool
	}{
		{
			name:    "not_a_function",
			isError: true,
		},
		{
			name:     "linear",
			t:        2.0,
			A:        10.0,
			T:        4.0,
			expected: 5.0, // (A/T)*t
		},
		{
			name:     "sine",
			t:        1.0,
			A:        3.0,
			T:        4.0,
			expected: 3.0, // A*sin(pi/2)
		},
		{
			name:     "cosine",
			t:        1.0,
			A:        3.0,
			T:        4.0,
			expected: 0.0, // A*cos(pi/2)
		},
		{
			name:     "square",
			t:        3.0,
			A:        2.0,
			T:        4.0,
			expected: -2.0, // second half of period
		},
		{
			name:     "sawtooth",
			t:        5.0,
			A:        4.0,
			T:        4.0,
			expected: 1.0, // wraps into second period
		},
		{
			name:     "flat",
			t:        123.0,
			A:        2.5,
			T:        4.0,
			expected: 2.5,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fn, err := wind.GetShapeFromName(tc.name)
			if tc.isError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.InDelta(t, tc.expected, fn(tc.t, tc.A, tc.T), 1e-9)
		})
	}
}

func TestGetShapeFromNameDefaultsToLinear(t *testing.T) {
	fn, err := wind.GetShapeFromName("")
	assert.NoError(t, err)
	assert.InDelta(t, 2.0, fn(1.0, 10.0, 5.0), 1e-12)
	assert.Contains(t, wind.GetShapeFunctionNames(), "sine")
}

func TestModulatedNeverNaN(t *testing.T) {
	p, err := wind.Modulated(5.0, 2.0, 10.0, "sawtooth")
	assert.NoError(t, err)
	for tt := 0.0; tt < 100; tt += 0.7 {
		assert.False(t, math.IsNaN(p(tt)))
	}
}

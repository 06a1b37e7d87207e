package wind

import (
	"errors"
	"math"
)

// A ShapeFunction maps elapsed time to a deterministic modulation value.
// A is the amplitude of the shape and T its period in seconds.
type ShapeFunction func(t, A, T float64) float64

var shapeFunctions = map[string]ShapeFunction{
	"linear":   linearRamp,
	"sine":     sineWave,
	"cosine":   cosineWave,
	"square":   squareWave,
	"sawtooth": sawtoothWave,
	"flat":     flat,
}

// GetShapeFunctionNames returns the names accepted by GetShapeFromName.
func GetShapeFunctionNames() []string {
	names := make([]string, 0, len(shapeFunctions))
	for name := range shapeFunctions {
		names = append(names, name)
	}
	return names
}

// GetShapeFromName returns the named shape function. An empty name defaults
// to the linear ramp.
func GetShapeFromName(name string) (ShapeFunction, error) {
	if name == "" {
		return linearRamp, nil
	}
	fn, ok := shapeFunctions[name]
	if !ok {
		return nil, errors.New("shape function not found: " + name)
	}
	return fn, nil
}

// Returns a linear ramp y=(A/T)*t.
func linearRamp(t, A, T float64) float64 {
	return A / T * t
}

// Returns a sine wave y=A*sin(2*pi*t/T).
func sineWave(t, A, T float64) float64 {
	return A * math.Sin(2*math.Pi*t/T)
}

// Returns a cosine wave y=A*cos(2*pi*t/T).
func cosineWave(t, A, T float64) float64 {
	return A * math.Cos(2*math.Pi*t/T)
}

// Returns a square wave of amplitude A and period T: +A for the first half
// of each period, -A for the second half.
func squareWave(t, A, T float64) float64 {
	if math.Mod(t, T) < T/2 {
		return A
	}
	return -A
}

// Returns a sawtooth wave rising from 0 to A over each period T.
func sawtoothWave(t, A, T float64) float64 {
	return A / T * math.Mod(t, T)
}

// Returns A for all t.
func flat(_, A, _ float64) float64 {
	return A
}

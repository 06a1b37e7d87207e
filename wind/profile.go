// Package wind produces the disturbance wind speed seen by the simulated
// rotor: deterministic profiles that are pure functions of elapsed time, plus
// an optional seeded turbulence overlay stepped by the harness.
package wind

// Profile maps elapsed simulation time in seconds to a wind speed in m/s.
// Profiles are pure functions: they may be called at arbitrary times, in any
// order, and always return the same speed for the same time.
type Profile func(t float64) float64

// Segment is one piece of a step profile: Speed applies while t < Until.
type Segment struct {
	Until float64 `yaml:"until" mapstructure:"until"` // s
	Speed float64 `yaml:"speed" mapstructure:"speed"` // m/s
}

// Constant returns a profile pinned at the given speed.
func Constant(speed float64) Profile {
	return func(float64) float64 {
		return speed
	}
}

// Steps returns a piecewise-constant profile. Segments are evaluated in
// order; after the last segment boundary the profile holds final.
func Steps(segments []Segment, final float64) Profile {
	segs := append([]Segment(nil), segments...)
	return func(t float64) float64 {
		for _, s := range segs {
			if t < s.Until {
				return s.Speed
			}
		}
		return final
	}
}

// StepGust is the reference validation scenario: 6 m/s steady, a gust to
// 9 m/s at 20 s, settling to 7 m/s at 40 s.
func StepGust() Profile {
	return Steps([]Segment{
		{Until: 20, Speed: 6.0},
		{Until: 40, Speed: 9.0},
	}, 7.0)
}

// Modulated returns a profile oscillating about mean with the named shape.
func Modulated(mean, amplitude, period float64, shape string) (Profile, error) {
	fn, err := GetShapeFromName(shape)
	if err != nil {
		return nil, err
	}
	return func(t float64) float64 {
		return mean + fn(t, amplitude, period)
	}, nil
}

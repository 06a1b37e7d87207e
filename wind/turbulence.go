package wind

import (
	"math/rand/v2"
)

// Turbulence overlays stochastic disturbances on a deterministic profile.
//   - Instantaneous gusts are speed spikes occurring each timestep with a
//     configured probability.
//   - Trend gusts modulate the wind using a repeating shape function, e.g. a
//     slow ramp or a sine swell.
//
// Stepping is driven by the harness with its own seeded generator, so a run
// with a fixed seed reproduces the same disturbance sequence.
type Turbulence struct {
	// Instantaneous gusts
	GustProbability        float64 `yaml:"gust_probability" mapstructure:"gust_probability"`                  // probability of a gust in each time step
	GustMagnitude          float64 `yaml:"gust_magnitude" mapstructure:"gust_magnitude"`                      // magnitude of gusts, m/s
	GustMagnitudeVariation bool    `yaml:"gust_magnitude_variation" mapstructure:"gust_magnitude_variation"` // whether to vary gust magnitudes, default false
	GustActive             bool    // indicates whether a gust is active in this time step

	// Trend gusts
	IsTrend         bool    `yaml:"is_trend" mapstructure:"is_trend"`                   // true: trend gusts activated, false: deactivated
	IsRisingTrend   bool    `yaml:"is_rising_trend" mapstructure:"is_rising_trend"`     // true: speeds up, false: lulls
	TrendDuration   float64 `yaml:"trend_duration" mapstructure:"trend_duration"`       // duration of each trend gust in seconds
	TrendStartDelay float64 `yaml:"trend_start_delay" mapstructure:"trend_start_delay"` // start time of trend gusts in seconds
	TrendMagnitude  float64 `yaml:"trend_magnitude" mapstructure:"trend_magnitude"`     // magnitude of trend gusts, m/s
	TrendRepetition int     `yaml:"trend_repetition" mapstructure:"trend_repetition"`   // number of times the trend repeats, default 0 for infinite
	TrendShapeName  string  `yaml:"trend_shape" mapstructure:"trend_shape"`             // shape function for the trend, defaults to linear ramp if empty
	TrendActive     bool    // whether a trend gust is modulating the wind in this time step

	// internal state
	trendStartIndex int // TrendStartDelay converted to time steps, tracks delay between trend repeats
	trendIndex      int // time steps since start of active trend gust
	trendRepeats    int
	trendShape      ShapeFunction
}

// Validate resolves the trend shape function. An unknown shape name is a
// configuration error and is rejected here, before the tick loop ever runs.
func (tb *Turbulence) Validate() error {
	fn, err := GetShapeFromName(tb.TrendShapeName)
	if err != nil {
		return err
	}
	tb.trendShape = fn
	return nil
}

// Step advances the turbulence state by one timestep of dt seconds and
// returns the wind speed delta it contributes. r is the run's seeded
// generator.
func (tb *Turbulence) Step(r *rand.Rand, dt float64) float64 {
	if tb.trendShape == nil {
		// unvalidated direct use: an unresolvable name falls back to the
		// default ramp rather than failing mid-run
		if err := tb.Validate(); err != nil {
			tb.trendShape, _ = GetShapeFromName("")
		}
	}

	return tb.gustDelta(r) + tb.stepTrendDelta(dt)
}

// Returns the wind speed change caused by an instantaneous gust this
// timestep.
func (tb *Turbulence) gustDelta(r *rand.Rand) float64 {
	if r.Float64() > tb.GustProbability {
		tb.GustActive = false
		return 0.0
	}

	tb.GustActive = true
	if tb.GustMagnitudeVariation {
		return tb.GustMagnitude * r.NormFloat64()
	}
	return tb.GustMagnitude
}

// Returns the wind speed change caused by the trend gust this timestep.
// Manages internal indices to track the progress of trend cycles and the
// delays between them.
func (tb *Turbulence) stepTrendDelta(dt float64) float64 {
	if !tb.isTrendValid() {
		return 0.0
	}

	tb.TrendActive = tb.isTrendActive(dt)
	if !tb.TrendActive {
		tb.trendStartIndex += 1 // track the delay between trend cycles
		return 0.0
	}

	elapsedTrendTime := float64(tb.trendIndex) * dt
	delta := tb.trendSign() * tb.trendShape(elapsedTrendTime, tb.TrendMagnitude, tb.TrendDuration)
	tb.trendIndex += 1

	// trend cycle complete: reset and count the repeat
	if tb.trendIndex == int(tb.TrendDuration/dt) {
		tb.trendIndex = 0
		tb.trendStartIndex = 0
		tb.trendRepeats += 1
	}

	return delta
}

// Returns whether trend gusts should be active this timestep. This is true
// if enough time has elapsed for the trend to start and it has not yet
// completed all repetitions.
func (tb *Turbulence) isTrendActive(dt float64) bool {
	moreRepeatsAllowed := tb.trendRepeats < tb.TrendRepetition || tb.TrendRepetition == 0 // 0 means infinite repetitions
	if !moreRepeatsAllowed {
		return false
	}

	hasTrendStarted := tb.trendStartIndex >= int(tb.TrendStartDelay/dt)-1
	return hasTrendStarted
}

func (tb *Turbulence) isTrendValid() bool {
	return tb.IsTrend && tb.TrendDuration != 0.0
}

// Returns +1.0 for rising trends (gusts) or -1.0 for falling ones (lulls).
func (tb *Turbulence) trendSign() float64 {
	if tb.IsRisingTrend {
		return 1.0
	}
	return -1.0
}

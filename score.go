package vawthil

import "errors"

// ErrNoSamplesInBand is returned when a trace never entered the optimal
// tip-speed-ratio band, so MPPT efficiency is undefined for the run. It is a
// distinct outcome, not a zero score.
var ErrNoSamplesInBand = errors.New("no samples inside the lambda band")

// Score is the post-run MPPT tracking report.
type Score struct {
	MeanCp     float64 // mean power coefficient over in-band samples
	Efficiency float64 // MeanCp relative to the rotor's Cp_max
	Samples    int     // number of in-band samples
}

// ScoreTrace reduces a completed trace to its MPPT efficiency: the mean Cp
// over samples whose tip-speed ratio fell strictly inside band, relative to
// cpMax.
func ScoreTrace(tr *Trace, band LambdaBand, cpMax float64) (Score, error) {
	if cpMax <= 0 {
		return Score{}, errors.New("cp_max must be strictly positive")
	}

	var sum float64
	var n int
	for _, s := range tr.Samples() {
		if s.Lambda > band.Low && s.Lambda < band.High {
			sum += s.Cp
			n++
		}
	}
	if n == 0 {
		return Score{}, ErrNoSamplesInBand
	}

	mean := sum / float64(n)
	return Score{
		MeanCp:     mean,
		Efficiency: mean / cpMax,
		Samples:    n,
	}, nil
}

package vawthil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func traceWithLambdas(pairs ...float64) *Trace {
	// pairs is (lambda, cp) flattened
	tr := NewTrace()
	for i := 0; i+1 < len(pairs); i += 2 {
		tr.Append(TickSample{Lambda: pairs[i], Cp: pairs[i+1]})
	}
	return tr
}

func TestScoreTrace(t *testing.T) {
	band := LambdaBand{Low: 1.8, High: 2.2}

	tr := traceWithLambdas(
		2.0, 0.35,
		1.9, 0.33,
		2.1, 0.34,
		0.5, 0.05, // outside the band, ignored
		3.0, 0.25, // outside the band, ignored
	)

	score, err := ScoreTrace(tr, band, 0.35)
	require.NoError(t, err)

	assert.Equal(t, 3, score.Samples)
	assert.InDelta(t, 0.34, score.MeanCp, 1e-12)
	assert.InDelta(t, 0.34/0.35, score.Efficiency, 1e-12)
}

// A run that never reached the band is a distinct outcome, not a zero score.
func TestScoreTraceNoSamplesInBand(t *testing.T) {
	band := LambdaBand{Low: 1.8, High: 2.2}

	tr := traceWithLambdas(
		0.5, 0.05,
		0.5, 0.05,
		0.5, 0.05,
	)
	_, err := ScoreTrace(tr, band, 0.35)
	assert.ErrorIs(t, err, ErrNoSamplesInBand)

	_, err = ScoreTrace(NewTrace(), band, 0.35)
	assert.ErrorIs(t, err, ErrNoSamplesInBand)
}

// Band membership is strict: samples sitting exactly on the edges do not
// count.
func TestScoreTraceBandIsExclusive(t *testing.T) {
	band := LambdaBand{Low: 1.8, High: 2.2}

	tr := traceWithLambdas(
		1.8, 0.30,
		2.2, 0.30,
	)
	_, err := ScoreTrace(tr, band, 0.35)
	assert.ErrorIs(t, err, ErrNoSamplesInBand)
}

func TestScoreTraceRejectsBadCpMax(t *testing.T) {
	tr := traceWithLambdas(2.0, 0.35)
	_, err := ScoreTrace(tr, LambdaBand{Low: 1.8, High: 2.2}, 0)
	require.Error(t, err)
}

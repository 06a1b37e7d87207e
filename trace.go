package vawthil

import "github.com/google/uuid"

// TickSample is the telemetry recorded for one harness tick. Samples are
// immutable once appended.
type TickSample struct {
	T         float64 // elapsed simulation time, s
	WindSpeed float64 // disturbance wind speed this tick, m/s
	RPM       float64 // rotor speed after the step
	Duty      float64 // duty cycle applied this tick
	Power     float64 // electrical power, W
	Cp        float64 // power coefficient this tick
	Lambda    float64 // tip-speed ratio this tick

	FallbackUsed bool // duty came from the configured default, not the controller
}

// Trace is the append-only, tick-ordered log of one harness run. It is the
// input to post-run scoring and to external consumers such as CSV export or
// plotting. The harness is the sole writer.
type Trace struct {
	RunID   uuid.UUID
	samples []TickSample
}

// NewTrace returns an empty trace with a fresh run ID.
func NewTrace() *Trace {
	return &Trace{RunID: uuid.New()}
}

// Append adds one sample in tick-arrival order.
func (tr *Trace) Append(s TickSample) {
	tr.samples = append(tr.samples, s)
}

// Len returns the number of recorded samples.
func (tr *Trace) Len() int {
	return len(tr.samples)
}

// Samples returns the recorded samples in tick order. The returned slice is
// owned by the trace and must not be modified.
func (tr *Trace) Samples() []TickSample {
	return tr.samples
}

// Package vawthil is a hardware-in-the-loop test harness for vertical-axis
// wind turbine MPPT controllers. It integrates a simulated rotor plant at a
// fixed cadence while the real controller runs unmodified on its own
// hardware, exchanging duty-cycle commands and sensor feedback over a
// line-oriented serial link. From the controller's side a run is
// indistinguishable from a real turbine in real wind.
package vawthil

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vawtlabs/vawthil/plant"
	"github.com/vawtlabs/vawthil/wind"
)

// Harness drives the real-time co-simulation loop: one fixed-period tick
// reads the controller command, advances the plant, writes sensor feedback
// and logs a sample. Execution is strictly sequential; there is exactly one
// logical thread advancing simulated time.
type Harness struct {
	cfg     Config
	model   *plant.Model
	profile wind.Profile
	turb    *wind.Turbulence
	ch      LineChannel
	log     *logrus.Logger
	r       *rand.Rand

	overruns int
}

// NewHarness validates the configuration and binds the harness to its
// channel and wind profile. The channel is owned by the harness from here
// on and is closed when Run returns.
func NewHarness(cfg Config, ch LineChannel, profile wind.Profile) (*Harness, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("harness config: %w", err)
	}
	if ch == nil {
		return nil, fmt.Errorf("harness requires a channel")
	}
	if profile == nil {
		return nil, fmt.Errorf("harness requires a wind profile")
	}

	table, err := cfg.aeroTable()
	if err != nil {
		return nil, fmt.Errorf("harness config: %w", err)
	}
	model, err := plant.NewModel(cfg.Plant, table)
	if err != nil {
		return nil, fmt.Errorf("harness config: %w", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	return &Harness{
		cfg:     cfg,
		model:   model,
		profile: profile,
		ch:      ch,
		log:     log,
		r:       rand.New(rand.NewPCG(uint64(seed), uint64(seed))),
	}, nil
}

// SetLogger replaces the discard logger used by default.
func (h *Harness) SetLogger(log *logrus.Logger) {
	if log != nil {
		h.log = log
	}
}

// SetTurbulence overlays stochastic gusts on the wind profile. The overlay
// is stepped once per tick with the harness's seeded generator. A turbulence
// configuration with an unknown trend shape is rejected here, before the
// tick loop can see it.
func (h *Harness) SetTurbulence(tb *wind.Turbulence) error {
	if tb != nil {
		if err := tb.Validate(); err != nil {
			return fmt.Errorf("turbulence config: %w", err)
		}
	}
	h.turb = tb
	return nil
}

// Overruns returns the number of ticks whose computation exceeded the
// timestep. Pacing is best-effort: an overrunning tick starts the next one
// immediately, so wall-clock drift accumulates while the tick count stays
// exact.
func (h *Harness) Overruns() int {
	return h.overruns
}

// dutyResult is the explicit outcome of parsing one controller line: either
// the controller's value or the configured fallback. The fallback path is a
// first-class branch, not a caught failure.
type dutyResult struct {
	value    float64
	fallback bool
}

// parseDuty extracts the leading comma-delimited field as a duty cycle.
// Extra fields are ignored. Malformed or out-of-range input substitutes the
// default duty.
func parseDuty(line string, defaultDuty float64) dutyResult {
	field := line
	if i := strings.IndexByte(line, ','); i >= 0 {
		field = line[:i]
	}
	duty, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
	// the negated form rejects NaN, which compares false to everything
	if err != nil || !(duty >= 0 && duty <= 1) {
		return dutyResult{value: defaultDuty, fallback: true}
	}
	return dutyResult{value: duty}
}

// Run executes one co-simulation run of the configured duration and returns
// the trace. On a fatal channel error the run stops promptly with the
// samples accumulated so far; the channel is closed on every exit path.
// Transient read problems (timeout, malformed line) never abort a run.
func (h *Harness) Run() (*Trace, error) {
	defer h.ch.Close()

	if h.cfg.SettleTime > 0 {
		// e.g. wait out a controller board reset after opening the port
		time.Sleep(secondsToDuration(h.cfg.SettleTime))
	}

	dt := h.cfg.Plant.Timestep
	period := secondsToDuration(dt)
	ticks := int(h.cfg.Duration/dt + 0.5)
	trace := NewTrace()

	h.log.WithFields(logrus.Fields{
		"run_id":   trace.RunID,
		"ticks":    ticks,
		"timestep": dt,
	}).Info("starting co-simulation run")

	for i := 0; i < ticks; i++ {
		tickStart := time.Now()
		t := float64(i) * dt

		windSpeed := h.profile(t)
		if h.turb != nil {
			windSpeed += h.turb.Step(h.r, dt)
			if windSpeed < 0 {
				windSpeed = 0
			}
		}

		line, err := h.ch.ReadLine()
		if err != nil && !errors.Is(err, ErrReadTimeout) {
			h.log.WithError(err).Error("channel failed, aborting run")
			return trace, fmt.Errorf("reading controller command at t=%.1fs: %w", t, err)
		}

		duty := dutyResult{value: h.cfg.DefaultDuty, fallback: true}
		if err == nil {
			duty = parseDuty(line, h.cfg.DefaultDuty)
		}
		if duty.fallback {
			h.log.WithField("t", t).Warn("no usable controller command, using default duty")
		}

		torque := h.cfg.TorqueCoeff * duty.value * h.model.Omega()
		res := h.model.Step(windSpeed, torque)

		feedback := fmt.Sprintf("%.2f,%.1f,%.1f", windSpeed, res.RPM, res.Power)
		if err := h.ch.WriteLine(feedback); err != nil {
			h.log.WithError(err).Error("channel failed, aborting run")
			return trace, fmt.Errorf("writing feedback at t=%.1fs: %w", t, err)
		}

		trace.Append(TickSample{
			T:            t,
			WindSpeed:    windSpeed,
			RPM:          res.RPM,
			Duty:         duty.value,
			Power:        res.Power,
			Cp:           res.Cp,
			Lambda:       res.Lambda,
			FallbackUsed: duty.fallback,
		})

		h.log.WithFields(logrus.Fields{
			"t":      fmt.Sprintf("%.1f", t),
			"wind":   fmt.Sprintf("%.1f", windSpeed),
			"lambda": fmt.Sprintf("%.2f", res.Lambda),
			"cp":     fmt.Sprintf("%.3f", res.Cp),
			"power":  fmt.Sprintf("%.0f", res.Power),
		}).Debug("tick")

		// best-effort pacing against the tick's own start; no catch-up
		if elapsed := time.Since(tickStart); elapsed >= period {
			h.overruns++
		} else if !h.cfg.DisablePacing {
			time.Sleep(period - elapsed)
		}
	}

	h.log.WithFields(logrus.Fields{
		"run_id":   trace.RunID,
		"samples":  trace.Len(),
		"overruns": h.overruns,
	}).Info("run complete")

	return trace, nil
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

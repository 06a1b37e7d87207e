package vawthil

import (
	"fmt"

	"github.com/vawtlabs/vawthil/plant"
)

// Reference values from the validation campaign. They are defaults, not
// hard-coded law: every one of them is overridable through Config.
const (
	DefaultDuration    = 60.0 // s
	DefaultTorqueCoeff = 10.0 // N·m per unit duty at 1 rad/s
	DefaultDuty        = 0.3  // substituted when the controller is silent or garbled
	DefaultReadTimeout = 0.1  // s
	DefaultCpMax       = 0.35 // peak of the reference aero table
	DefaultBandLow     = 1.8  // optimal tip-speed-ratio band
	DefaultBandHigh    = 2.2
)

// LambdaBand is the tip-speed-ratio window considered "at the maximum power
// point" when scoring a run. Samples count only when strictly inside it.
type LambdaBand struct {
	Low  float64 `yaml:"low" mapstructure:"low"`
	High float64 `yaml:"high" mapstructure:"high"`
}

// AeroSpec is the configured Cp(lambda) table.
type AeroSpec struct {
	Lambda []float64 `yaml:"lambda" mapstructure:"lambda"`
	Cp     []float64 `yaml:"cp" mapstructure:"cp"`
}

// Config is the complete run configuration handed to NewHarness. Zero values
// fall back to the documented reference defaults via ApplyDefaults.
type Config struct {
	Duration    float64 `yaml:"duration" mapstructure:"duration"`         // run length, s
	TorqueCoeff float64 `yaml:"torque_coeff" mapstructure:"torque_coeff"` // duty to electrical torque coefficient
	DefaultDuty float64 `yaml:"default_duty" mapstructure:"default_duty"` // fallback duty on timeout or parse failure
	ReadTimeout float64 `yaml:"read_timeout" mapstructure:"read_timeout"` // bounded wait for a controller line, s
	SettleTime  float64 `yaml:"settle_time" mapstructure:"settle_time"`   // wait before the first tick, e.g. for a board reset, s
	Seed        int64   `yaml:"seed" mapstructure:"seed"`                 // turbulence seed; 0 means seed from the clock

	// DisablePacing skips the end-of-tick sleep so a scripted run executes
	// as fast as the host allows. Only meaningful against fake channels;
	// real hardware needs the nominal cadence.
	DisablePacing bool `yaml:"disable_pacing" mapstructure:"disable_pacing"`

	Plant plant.Params `yaml:"plant" mapstructure:"plant"`
	Aero  AeroSpec     `yaml:"aero" mapstructure:"aero"`

	Band  LambdaBand `yaml:"band" mapstructure:"band"`     // scoring window
	CpMax float64    `yaml:"cp_max" mapstructure:"cp_max"` // scoring reference
}

// DefaultConfig returns the reference configuration: the default rotor,
// the reference aero table and the documented loop constants.
func DefaultConfig() Config {
	table := plant.DefaultTable()
	cfg := Config{
		Duration:    DefaultDuration,
		TorqueCoeff: DefaultTorqueCoeff,
		DefaultDuty: DefaultDuty,
		ReadTimeout: DefaultReadTimeout,
		Plant:       plant.DefaultParams(),
		Aero: AeroSpec{
			Lambda: []float64{0.5, 1.0, 1.5, 2.0, 2.5, 3.0, 3.5},
			Cp:     []float64{0.05, 0.15, 0.28, 0.35, 0.32, 0.25, 0.18},
		},
		Band:  LambdaBand{Low: DefaultBandLow, High: DefaultBandHigh},
		CpMax: table.MaxCp(),
	}
	return cfg
}

// ApplyDefaults fills zero-valued loop constants with the reference values.
// Plant parameters and the aero table are deliberately not defaulted here;
// they are validated instead, so a half-specified rotor fails loudly.
func (c *Config) ApplyDefaults() {
	if c.Duration == 0 {
		c.Duration = DefaultDuration
	}
	if c.TorqueCoeff == 0 {
		c.TorqueCoeff = DefaultTorqueCoeff
	}
	if c.DefaultDuty == 0 {
		c.DefaultDuty = DefaultDuty
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.Band == (LambdaBand{}) {
		c.Band = LambdaBand{Low: DefaultBandLow, High: DefaultBandHigh}
	}
	if c.CpMax == 0 {
		c.CpMax = DefaultCpMax
	}
}

// Validate rejects configurations that must never reach the tick loop.
func (c Config) Validate() error {
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be strictly positive, got %f", c.Duration)
	}
	if c.TorqueCoeff <= 0 {
		return fmt.Errorf("torque_coeff must be strictly positive, got %f", c.TorqueCoeff)
	}
	if c.DefaultDuty < 0 || c.DefaultDuty > 1 {
		return fmt.Errorf("default_duty must be within [0,1], got %f", c.DefaultDuty)
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read_timeout must be strictly positive, got %f", c.ReadTimeout)
	}
	if c.SettleTime < 0 {
		return fmt.Errorf("settle_time must not be negative, got %f", c.SettleTime)
	}
	if err := c.Plant.Validate(); err != nil {
		return err
	}
	if _, err := c.aeroTable(); err != nil {
		return err
	}
	if c.Band.Low >= c.Band.High {
		return fmt.Errorf("band low %f must be below band high %f", c.Band.Low, c.Band.High)
	}
	if c.CpMax <= 0 {
		return fmt.Errorf("cp_max must be strictly positive, got %f", c.CpMax)
	}
	return nil
}

func (c Config) aeroTable() (*plant.AeroTable, error) {
	return plant.NewAeroTable(c.Aero.Lambda, c.Aero.Cp)
}

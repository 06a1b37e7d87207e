package plant

import (
	"fmt"
	"math"
)

// Floors applied before dividing by wind speed or rotor speed. At stand-still
// the torque floor produces a large but finite driving torque which is what
// lets the rotor spin up from rest.
const (
	WindSpeedFloor = 0.5 // m/s
	OmegaFloor     = 0.1 // rad/s
)

// Params is the immutable plant configuration. All values must be strictly
// positive; Timestep is fixed for the lifetime of a run.
type Params struct {
	Inertia    float64 `yaml:"inertia" mapstructure:"inertia"`         // J, kg·m²
	Damping    float64 `yaml:"damping" mapstructure:"damping"`         // B, N·m·s
	Radius     float64 `yaml:"radius" mapstructure:"radius"`           // R, m
	SweptArea  float64 `yaml:"swept_area" mapstructure:"swept_area"`   // A, m²
	AirDensity float64 `yaml:"air_density" mapstructure:"air_density"` // rho, kg/m³
	Timestep   float64 `yaml:"timestep" mapstructure:"timestep"`       // dt, s
}

// DefaultParams returns the reference rotor used for harness runs.
func DefaultParams() Params {
	return Params{
		Inertia:    2.5,
		Damping:    0.5,
		Radius:     0.6,
		SweptArea:  1.8,
		AirDensity: 1.15,
		Timestep:   0.1,
	}
}

// Validate rejects non-physical parameter sets before a run starts.
func (p Params) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"inertia", p.Inertia},
		{"damping", p.Damping},
		{"radius", p.Radius},
		{"swept_area", p.SweptArea},
		{"air_density", p.AirDensity},
		{"timestep", p.Timestep},
	}
	for _, f := range fields {
		if f.value <= 0 {
			return fmt.Errorf("plant parameter %s must be strictly positive, got %f", f.name, f.value)
		}
	}
	return nil
}

// Model is a 1-DOF vertical-axis rotor driven by a static Cp(lambda) curve.
// It is the sole owner of the rotor angular velocity; a fresh Model starts
// from rest.
type Model struct {
	params Params
	table  *AeroTable
	omega  float64 // rad/s, never negative
}

// NewModel validates the configuration and returns a rotor at rest.
func NewModel(params Params, table *AeroTable) (*Model, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if table == nil {
		return nil, fmt.Errorf("plant model requires an aero table")
	}
	return &Model{params: params, table: table}, nil
}

// Omega returns the current rotor angular velocity in rad/s.
func (m *Model) Omega() float64 {
	return m.omega
}

// Params returns the plant configuration.
func (m *Model) Params() Params {
	return m.params
}

// StepResult is the telemetry derived from one integration step.
type StepResult struct {
	RPM    float64 // rotor speed
	Power  float64 // electrical power, W
	Cp     float64 // power coefficient this step
	Lambda float64 // tip-speed ratio this step
}

// Step advances the rotor by one fixed timestep under the given wind speed
// and electrical counter-torque, using explicit forward Euler. The rotor
// speed is clamped at zero; the plant never reverses.
func (m *Model) Step(windSpeed, electricalTorque float64) StepResult {
	lambda := (m.omega * m.params.Radius) / math.Max(windSpeed, WindSpeedFloor)
	cp := m.table.Cp(lambda)

	windPower := 0.5 * m.params.AirDensity * m.params.SweptArea * windSpeed * windSpeed * windSpeed
	aeroPower := cp * windPower
	aeroTorque := aeroPower / math.Max(m.omega, OmegaFloor)

	// J·dω/dt = τ_aero − τ_elec − B·ω
	domega := (aeroTorque - electricalTorque - m.params.Damping*m.omega) / m.params.Inertia
	m.omega += domega * m.params.Timestep
	if m.omega < 0 {
		m.omega = 0
	}

	return StepResult{
		RPM:    m.omega * 60 / (2 * math.Pi),
		Power:  electricalTorque * m.omega,
		Cp:     cp,
		Lambda: lambda,
	}
}

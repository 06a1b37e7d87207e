package wind

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// Source is one deterministic contributor to a configured wind profile.
// Contributions from all sources in a Sources list are summed, so a step
// base can carry a sine modulation on top.
type Source interface {
	At(t float64) float64 // wind speed contribution in m/s at elapsed time t
	TypeAsString() string
	validate() error
}

// Sources is an ordered collection of profile sources, typically decoded
// from a configuration file.
type Sources []Source

// Profile returns the pure profile function summing all source
// contributions, floored at zero.
func (s Sources) Profile() Profile {
	srcs := append(Sources(nil), s...)
	return func(t float64) float64 {
		v := 0.0
		for _, src := range srcs {
			v += src.At(t)
		}
		if v < 0 {
			return 0
		}
		return v
	}
}

// ConstantSource contributes a fixed speed.
type ConstantSource struct {
	Speed float64 `yaml:"speed" mapstructure:"speed"`
}

func (c *ConstantSource) At(float64) float64 { return c.Speed }

func (c *ConstantSource) TypeAsString() string { return "constant" }

func (c *ConstantSource) validate() error {
	if c.Speed < 0 {
		return errors.New("constant source speed must not be negative")
	}
	return nil
}

// StepSource contributes a piecewise-constant speed, holding Final after
// the last segment boundary.
type StepSource struct {
	Segments []Segment `yaml:"segments" mapstructure:"segments"`
	Final    float64   `yaml:"final" mapstructure:"final"`
}

func (s *StepSource) At(t float64) float64 {
	for _, seg := range s.Segments {
		if t < seg.Until {
			return seg.Speed
		}
	}
	return s.Final
}

func (s *StepSource) TypeAsString() string { return "steps" }

func (s *StepSource) validate() error {
	prev := 0.0
	for i, seg := range s.Segments {
		if i > 0 && seg.Until <= prev {
			return fmt.Errorf("step source segment boundaries must be strictly increasing, got %f after %f", seg.Until, prev)
		}
		prev = seg.Until
	}
	return nil
}

// WaveSource contributes a periodic modulation using a named shape function.
type WaveSource struct {
	Amplitude float64 `yaml:"amplitude" mapstructure:"amplitude"`
	Period    float64 `yaml:"period" mapstructure:"period"`
	Shape     string  `yaml:"shape" mapstructure:"shape"`

	fn ShapeFunction
}

func (w *WaveSource) At(t float64) float64 {
	if w.fn == nil {
		// validate() normally runs at decode time; direct construction
		// resolves the shape on first use
		if err := w.validate(); err != nil {
			panic(err)
		}
	}
	return w.fn(t, w.Amplitude, w.Period)
}

func (w *WaveSource) TypeAsString() string { return "wave" }

func (w *WaveSource) validate() error {
	if w.Period <= 0 {
		return errors.New("wave source period must be strictly positive")
	}
	fn, err := GetShapeFromName(w.Shape)
	if err != nil {
		return err
	}
	w.fn = fn
	return nil
}

// UnmarshalYAML unmarshals a list of source entries into the correct
// concrete types based on each entry's type field.
func (s *Sources) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw []map[string]interface{}
	if err := unmarshal(&raw); err != nil {
		return err
	}

	for _, entry := range raw {
		src, err := createSourceFromEntry(entry)
		if err != nil {
			return err
		}
		*s = append(*s, src)
	}
	return nil
}

// DecodeHook returns a mapstructure decode hook that builds Sources from
// configuration entries. This supports configuration solutions like
// spf13/viper that use mapstructure to unmarshal yaml files.
func DecodeHook() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if t != reflect.TypeOf(Sources{}) {
			return data, nil
		}

		entries, ok := data.([]interface{})
		if !ok {
			return nil, fmt.Errorf("wind sources must be a list, got %T", data)
		}

		sources := make(Sources, 0, len(entries))
		for _, e := range entries {
			src, err := createSourceFromEntry(e)
			if err != nil {
				return nil, err
			}
			sources = append(sources, src)
		}
		return sources, nil
	}
}

// Creates a concrete source from a decoded map based on its "type" (or
// "Type") field.
func createSourceFromEntry(entry interface{}) (Source, error) {
	m, ok := toStringKeyMap(entry)
	if !ok {
		return nil, fmt.Errorf("wind source entry cannot be parsed to map[string]interface{}: %v", entry)
	}

	// some yaml parsers lower-case keys and some don't
	typeStr, ok := m["type"].(string)
	if !ok {
		typeStr, ok = m["Type"].(string)
		if !ok {
			return nil, errors.New("wind source type field is missing or not a string")
		}
	}

	var src Source
	switch typeStr {
	case "constant":
		src = &ConstantSource{}
	case "steps":
		src = &StepSource{}
	case "wave":
		src = &WaveSource{}
	default:
		return nil, fmt.Errorf("unknown wind source type: %s", typeStr)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{Result: src})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(m); err != nil {
		return nil, err
	}

	if err := src.validate(); err != nil {
		return nil, err
	}
	return src, nil
}

// yaml.v2 produces map[interface{}]interface{}, viper produces
// map[string]interface{}; accept both.
func toStringKeyMap(entry interface{}) (map[string]interface{}, bool) {
	switch m := entry.(type) {
	case map[string]interface{}:
		return m, true
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, v := range m {
			key, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[key] = v
		}
		return out, true
	default:
		return nil, false
	}
}

package wind_test

import (
	"testing"

	"github.com/mitchellh/mapstructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vawtlabs/vawthil/wind"
	"gopkg.in/yaml.v2"
)

func TestSourcesUnmarshalYAML(t *testing.T) {
	yamlStr := `
- type: steps
  segments:
    - until: 20
      speed: 6.0
    - until: 40
      speed: 9.0
  final: 7.0
- type: wave
  amplitude: 0.5
  period: 12.0
  shape: sine
`
	var sources wind.Sources
	require.NoError(t, yaml.Unmarshal([]byte(yamlStr), &sources))
	require.Len(t, sources, 2)

	assert.Equal(t, "steps", sources[0].TypeAsString())
	assert.Equal(t, "wave", sources[1].TypeAsString())

	p := sources.Profile()
	assert.InDelta(t, 6.0, p(0), 1e-9)    // step base, sine at zero crossing
	assert.InDelta(t, 9.5, p(27.0), 1e-9) // 9.0 base + full sine amplitude
	assert.InDelta(t, 7.0, p(48.0), 1e-9) // final base, sine back at zero
}

func TestSourcesUnmarshalUnknownType(t *testing.T) {
	var sources wind.Sources
	err := yaml.Unmarshal([]byte("- type: vortex\n"), &sources)
	assert.ErrorContains(t, err, "unknown wind source type")
}

func TestSourcesUnmarshalMissingType(t *testing.T) {
	var sources wind.Sources
	err := yaml.Unmarshal([]byte("- speed: 4.0\n"), &sources)
	assert.ErrorContains(t, err, "type field is missing")
}

func TestSourcesUnmarshalBadShape(t *testing.T) {
	var sources wind.Sources
	err := yaml.Unmarshal([]byte("- type: wave\n  period: 5\n  shape: zigzag\n"), &sources)
	assert.ErrorContains(t, err, "shape function not found")
}

func TestSourcesRejectNonMonotoneSegments(t *testing.T) {
	yamlStr := `
- type: steps
  segments:
    - until: 40
      speed: 6.0
    - until: 20
      speed: 9.0
`
	var sources wind.Sources
	err := yaml.Unmarshal([]byte(yamlStr), &sources)
	assert.ErrorContains(t, err, "strictly increasing")
}

// Decoding through mapstructure mirrors how viper hands the wind section to
// the harness configuration.
func TestSourcesDecodeHook(t *testing.T) {
	raw := map[string]interface{}{
		"wind": []interface{}{
			map[string]interface{}{"type": "constant", "speed": 7.0},
			map[string]interface{}{
				"type": "wave", "amplitude": 1.0, "period": 6.0, "shape": "cosine",
			},
		},
	}

	var out struct {
		Wind wind.Sources `mapstructure:"wind"`
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: wind.DecodeHook(),
		Result:     &out,
	})
	require.NoError(t, err)
	require.NoError(t, decoder.Decode(raw))
	require.Len(t, out.Wind, 2)

	p := out.Wind.Profile()
	assert.InDelta(t, 8.0, p(0), 1e-12) // 7.0 + cos(0)
	assert.InDelta(t, 6.0, p(3.0), 1e-12)
}

func TestProfileFlooredAtZero(t *testing.T) {
	sources := wind.Sources{
		&wind.ConstantSource{Speed: 1.0},
		&wind.WaveSource{Amplitude: 5.0, Period: 4.0, Shape: "sine"},
	}
	p := sources.Profile()
	assert.Equal(t, 0.0, p(3.0)) // 1.0 - 5.0 clamps
}

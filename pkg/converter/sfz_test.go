package converter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, regions ...*FlatRegion) string {
	t.Helper()
	var buf bytes.Buffer
	w := NewSFZWriter(&buf)
	for _, r := range regions {
		require.NoError(t, w.WriteRegion(r))
	}
	require.NoError(t, w.Flush())
	return buf.String()
}

func TestWriteRegionSimple(t *testing.T) {
	out := render(t, &FlatRegion{
		KeyLow: 36, KeyHigh: 96,
		Zones: []Zone{{Sample: "Kick", KeyCenter: 36, KeyLow: 36, KeyHigh: 96}},
	})

	assert.Equal(t, "<region>\nsample=Kick\npitch_keycenter=36\nlokey=36\nhikey=96\n\n", out)
}

func TestWriteRegionSimpleWithTune(t *testing.T) {
	out := render(t, &FlatRegion{
		KeyLow: 0, KeyHigh: 127,
		Zones: []Zone{{Sample: "Snare", KeyCenter: 38, Tune: -7, KeyLow: 0, KeyHigh: 127}},
	})

	assert.Equal(t, "<region>\nsample=Snare\npitch_keycenter=38\ntune=-7\nlokey=0\nhikey=127\n\n", out)
}

func TestWriteRegionGrouped(t *testing.T) {
	out := render(t, &FlatRegion{
		KeyLow: 21, KeyHigh: 108, Grouped: true,
		Zones: []Zone{
			{
				Sample: "Piano_p", KeyCenter: 60, Tune: 3, Volume: 1.5,
				Velocity: &VelocityRange{0, 63},
				Loop:     &ZoneLoop{Start: 10, End: 99},
				KeyLow:   21, KeyHigh: 108,
			},
			{
				Sample: "Piano_rel", KeyCenter: 60,
				Velocity: &VelocityRange{64, 127},
				Release:  true,
				KeyLow:   21, KeyHigh: 108,
			},
		},
	})

	expected := strings.Join([]string{
		"<group>",
		"lokey=21",
		"hikey=108",
		"",
		"<region>",
		"sample=Piano_p.wav",
		"pitch_keycenter=60",
		"tune=3",
		"volume=1.5",
		"lovel=0 hivel=63",
		"loop_mode=loop_continuous loop_start=10 loop_end=99",
		"",
		"<region>",
		"sample=Piano_rel.wav",
		"pitch_keycenter=60",
		"lovel=64 hivel=127",
		"trigger=release",
		"",
		"",
	}, "\n") + "\n"

	assert.Equal(t, expected, out)
}

func TestWriteRegionOmitsZeroTuneAndVolume(t *testing.T) {
	out := render(t, &FlatRegion{
		Grouped: true,
		Zones:   []Zone{{Sample: "A", KeyCenter: 60}, {Sample: "B", KeyCenter: 60, Tune: 1, Volume: -2}},
	})

	assert.NotContains(t, out, "tune=0")
	assert.NotContains(t, out, "volume=0")
	assert.Equal(t, 1, strings.Count(out, "tune=1\n"))
	assert.Equal(t, 1, strings.Count(out, "volume=-2\n"))
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		value    float64
		expected string
	}{
		{1, "1"},
		{-1.5, "-1.5"},
		{0.1, "0.1"},
		{1.0 / 3.0, "0.333333"},
		{12345678, "1.23457e+07"},
		{GainToVolume(-100), "0.000152588"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, formatFloat(tt.value))
	}
}

package converter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/james-see/gig2sfz/pkg/gig"
)

func TestSummarize(t *testing.T) {
	kick := &gig.Sample{Name: "Kick", DataSize: 2048}
	piano := dimensionedRegion([]gig.DimensionDef{
		{Type: gig.DimensionVelocity, Bits: 1},
		{Type: gig.DimensionReleaseTrigger, Bits: 1},
	}, 4)
	organ := dimensionedRegion([]gig.DimensionDef{{Type: gig.DimensionKeyboard, Bits: 1}}, 2)

	f := &gig.File{Instruments: []*gig.Instrument{
		{Regions: []*gig.Region{{KeyLow: 36, KeyHigh: 96, Sample: kick}}},
		{Name: "Mixed", Program: 4, Regions: []*gig.Region{piano, organ}},
	}}

	summaries := New().Summarize(f)
	require.Len(t, summaries, 2)

	assert.Equal(t, "Unnamed Instrument", summaries[0].Name)
	assert.Equal(t, "Unnamed Instrument.sfz", summaries[0].File)
	require.Len(t, summaries[0].Regions, 1)
	assert.Equal(t, 1, summaries[0].Regions[0].Slots)
	assert.Equal(t, []SampleSummary{{Name: "Kick", Size: 2048}}, summaries[0].Regions[0].Samples)

	mixed := summaries[1]
	assert.Equal(t, uint32(4), mixed.Program)
	require.Len(t, mixed.Regions, 2)
	assert.Equal(t, []DimensionSummary{
		{Type: "velocity", Bits: 1, Offset: 0},
		{Type: "releasetrigger", Bits: 1, Offset: 1},
	}, mixed.Regions[0].Dimensions)
	assert.Equal(t, 4, mixed.Regions[0].Slots)
	assert.True(t, mixed.Regions[0].Supported)
	assert.Len(t, mixed.Regions[0].Samples, 1)
	assert.False(t, mixed.Regions[1].Supported)
}

func TestWriteSummary(t *testing.T) {
	f := &gig.File{Instruments: []*gig.Instrument{
		{Name: "Kit", Regions: []*gig.Region{{KeyLow: 36, KeyHigh: 96, Sample: &gig.Sample{Name: "Kick", DataSize: 2000}}}},
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, New().Summarize(f)))
	out := buf.String()

	assert.Contains(t, out, "Kit -> Kit.sfz (bank 0, program 0, 1 regions)")
	assert.Contains(t, out, "(36-96), 1 slot(s)")
	assert.Contains(t, out, "sample Kick (2.0 kB)")
}

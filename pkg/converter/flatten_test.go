package converter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/james-see/gig2sfz/pkg/gig"
)

// dimensionedRegion builds a region whose slots all use one sample
func dimensionedRegion(defs []gig.DimensionDef, slots int) *gig.Region {
	smp := &gig.Sample{Name: "Piano"}
	rgn := &gig.Region{KeyLow: 21, KeyHigh: 108, Dimensions: defs}
	for i := 0; i < slots; i++ {
		rgn.DimensionRegions = append(rgn.DimensionRegions, &gig.DimensionRegion{Sample: smp, UnityNote: 60})
	}
	return rgn
}

func TestVelocityBucket(t *testing.T) {
	tests := []struct {
		bits     uint
		index    int
		expected VelocityRange
	}{
		{0, 0, VelocityRange{0, 127}},
		{1, 0, VelocityRange{0, 63}},
		{1, 1, VelocityRange{64, 127}},
		{2, 2, VelocityRange{64, 95}},
		{3, 7, VelocityRange{112, 127}},
		{7, 127, VelocityRange{127, 127}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, VelocityBucket(tt.bits, tt.index), "bits=%d index=%d", tt.bits, tt.index)
	}
}

func TestFlattenRegionSimple(t *testing.T) {
	rgn := &gig.Region{
		KeyLow:  36,
		KeyHigh: 96,
		Sample:  &gig.Sample{Name: "Kick", UnityNote: 36, FineTune: 5},
	}

	flat, err := FlattenRegion(rgn)
	require.NoError(t, err)

	assert.False(t, flat.Grouped)
	require.Len(t, flat.Zones, 1)
	z := flat.Zones[0]
	assert.Equal(t, "Kick", z.Sample)
	assert.Equal(t, 36, z.KeyCenter)
	assert.Equal(t, 5, z.Tune)
	assert.Equal(t, 36, z.KeyLow)
	assert.Equal(t, 96, z.KeyHigh)
	assert.Nil(t, z.Velocity)
	assert.False(t, z.Release)
	assert.Nil(t, z.Loop)
	assert.Zero(t, z.Volume)
}

func TestFlattenRegionSimpleWithoutSample(t *testing.T) {
	_, err := FlattenRegion(&gig.Region{KeyLow: 0, KeyHigh: 127})
	require.Error(t, err)
	assert.True(t, errors.Is(err, gig.ErrDecode))
}

func TestFlattenRegionVelocityAndRelease(t *testing.T) {
	rgn := dimensionedRegion([]gig.DimensionDef{
		{Type: gig.DimensionVelocity, Bits: 2},
		{Type: gig.DimensionReleaseTrigger, Bits: 1},
	}, 8)

	flat, err := FlattenRegion(rgn)
	require.NoError(t, err)
	assert.True(t, flat.Grouped)
	require.Len(t, flat.Zones, 8)

	expected := []VelocityRange{{0, 31}, {32, 63}, {64, 95}, {96, 127}}
	releases := 0
	for slot, z := range flat.Zones {
		require.NotNil(t, z.Velocity)
		assert.Equal(t, expected[slot&0x03], *z.Velocity, "slot %d", slot)
		assert.Equal(t, slot&0x04 != 0, z.Release, "slot %d", slot)
		assert.Equal(t, 21, z.KeyLow)
		assert.Equal(t, 108, z.KeyHigh)
		if z.Release {
			releases++
		}
	}
	assert.Equal(t, 4, releases)
}

func TestFlattenRegionOneBitVelocity(t *testing.T) {
	rgn := dimensionedRegion([]gig.DimensionDef{{Type: gig.DimensionVelocity, Bits: 1}}, 2)

	flat, err := FlattenRegion(rgn)
	require.NoError(t, err)
	require.Len(t, flat.Zones, 2)
	assert.Equal(t, VelocityRange{0, 63}, *flat.Zones[0].Velocity)
	assert.Equal(t, VelocityRange{64, 127}, *flat.Zones[1].Velocity)
}

func TestFlattenRegionSlotAttributes(t *testing.T) {
	rgn := dimensionedRegion([]gig.DimensionDef{{Type: gig.DimensionReleaseTrigger, Bits: 1}}, 2)
	rgn.DimensionRegions[0].FineTune = uint32(0xFFFFFFF6)
	rgn.DimensionRegions[0].Gain = -655360 * 3
	rgn.DimensionRegions[1].Loops = []gig.Loop{{Start: 1000, Length: 500}, {Start: 1, Length: 1}}
	rgn.DimensionRegions[1].UnityNote = 64

	flat, err := FlattenRegion(rgn)
	require.NoError(t, err)

	attack, release := flat.Zones[0], flat.Zones[1]
	assert.Equal(t, -10, attack.Tune)
	assert.Equal(t, 3.0, attack.Volume)
	assert.Nil(t, attack.Loop)
	assert.Nil(t, attack.Velocity)
	assert.False(t, attack.Release)

	assert.Equal(t, 64, release.KeyCenter)
	assert.Zero(t, release.Tune)
	assert.Zero(t, release.Volume)
	assert.Equal(t, &ZoneLoop{Start: 1000, End: 1499}, release.Loop)
	assert.True(t, release.Release)
}

func TestFlattenRegionUnsupportedDimension(t *testing.T) {
	rgn := dimensionedRegion([]gig.DimensionDef{
		{Type: gig.DimensionVelocity, Bits: 1},
		{Type: gig.DimensionKeyboard, Bits: 1},
	}, 4)

	flat, err := FlattenRegion(rgn)
	require.Error(t, err)
	assert.Nil(t, flat)
	assert.True(t, errors.Is(err, ErrUnsupportedDimension))
}

func TestFlattenRegionMissingSlotSample(t *testing.T) {
	rgn := dimensionedRegion([]gig.DimensionDef{{Type: gig.DimensionVelocity, Bits: 1}}, 2)
	rgn.DimensionRegions[1].Sample = nil

	_, err := FlattenRegion(rgn)
	require.Error(t, err)
	assert.True(t, errors.Is(err, gig.ErrDecode))
}

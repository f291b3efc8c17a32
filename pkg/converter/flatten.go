package converter

import (
	"fmt"

	"github.com/james-see/gig2sfz/pkg/gig"
)

// VelocityBucket returns the velocity range selected by index when the
// 0-127 span is split into 2^bits equal layers
func VelocityBucket(bits uint, index int) VelocityRange {
	size := 128 >> bits
	if size == 0 {
		size = 1
	}
	low := index * size
	return VelocityRange{Low: low, High: low + size - 1}
}

// FlattenRegion expands a region into independent zones, one per
// dimension region slot in slot order, or a single zone when the region
// has no dimensions.
func FlattenRegion(r *gig.Region) (*FlatRegion, error) {
	flat := &FlatRegion{KeyLow: int(r.KeyLow), KeyHigh: int(r.KeyHigh)}

	if len(r.Dimensions) == 0 {
		if r.Sample == nil {
			return nil, fmt.Errorf("%w: region %d-%d has no sample", gig.ErrDecode, r.KeyLow, r.KeyHigh)
		}
		flat.Zones = []Zone{{
			Sample:    r.Sample.Name,
			KeyCenter: int(r.Sample.UnityNote),
			Tune:      FineTuneToCents(r.Sample.FineTune),
			KeyLow:    flat.KeyLow,
			KeyHigh:   flat.KeyHigh,
		}}
		return flat, nil
	}

	dims, err := BuildDimensions(r.Dimensions)
	if err != nil {
		return nil, err
	}

	flat.Grouped = true
	flat.Zones = make([]Zone, 0, len(r.DimensionRegions))
	for slot, dr := range r.DimensionRegions {
		zone, err := flattenSlot(flat, dims, slot, dr)
		if err != nil {
			return nil, err
		}
		flat.Zones = append(flat.Zones, zone)
	}
	return flat, nil
}

func flattenSlot(flat *FlatRegion, dims []Dimension, slot int, dr *gig.DimensionRegion) (Zone, error) {
	if dr == nil || dr.Sample == nil {
		return Zone{}, fmt.Errorf("%w: dimension region %d has no sample", gig.ErrDecode, slot)
	}

	zone := Zone{
		Sample:    dr.Sample.Name,
		KeyCenter: int(dr.UnityNote),
		Tune:      FineTuneToCents(dr.FineTune),
		Volume:    GainToVolume(dr.Gain),
		KeyLow:    flat.KeyLow,
		KeyHigh:   flat.KeyHigh,
	}

	if len(dr.Loops) > 0 {
		loop := dr.Loops[0]
		zone.Loop = &ZoneLoop{Start: loop.Start, End: loop.Start + loop.Length - 1}
	}

	for _, d := range dims {
		switch d.Type {
		case gig.DimensionVelocity:
			vel := VelocityBucket(d.Bits, d.Index(slot))
			zone.Velocity = &vel
		case gig.DimensionReleaseTrigger:
			if d.Index(slot) != 0 {
				zone.Release = true
			}
		}
	}
	return zone, nil
}

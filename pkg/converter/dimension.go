package converter

import (
	"errors"
	"fmt"

	"github.com/james-see/gig2sfz/pkg/gig"
)

// ErrUnsupportedDimension is wrapped by UnsupportedDimensionError
var ErrUnsupportedDimension = errors.New("unsupported dimension type")

// UnsupportedDimensionError reports a dimension kind that cannot be
// expressed as plain SFZ zones
type UnsupportedDimensionError struct {
	Type     gig.DimensionType
	Position int
}

func (e *UnsupportedDimensionError) Error() string {
	return fmt.Sprintf("unsupported dimension type %s (0x%02x) at position %d", e.Type, uint8(e.Type), e.Position)
}

func (e *UnsupportedDimensionError) Unwrap() error {
	return ErrUnsupportedDimension
}

// Dimension is a dimension definition resolved to its place in the
// combined dimension region index
type Dimension struct {
	Type   gig.DimensionType
	Bits   uint
	Offset uint
	Mask   uint32
}

// Index extracts this dimension's sub-index from a combined slot index
func (d Dimension) Index(slot int) int {
	return int((uint32(slot) & d.Mask) >> d.Offset)
}

// BuildDimensions assigns contiguous bit ranges to the definitions in
// declaration order, first definition in the lowest bits. Only velocity
// and release trigger dimensions are accepted.
func BuildDimensions(defs []gig.DimensionDef) ([]Dimension, error) {
	dims := make([]Dimension, 0, len(defs))
	var offset uint
	for i, def := range defs {
		switch def.Type {
		case gig.DimensionVelocity, gig.DimensionReleaseTrigger:
		default:
			return nil, &UnsupportedDimensionError{Type: def.Type, Position: i}
		}

		bits := uint(def.Bits)
		dims = append(dims, Dimension{
			Type:   def.Type,
			Bits:   bits,
			Offset: offset,
			Mask:   (1<<bits - 1) << offset,
		})
		offset += bits
	}
	return dims, nil
}

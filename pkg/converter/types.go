// Package converter flattens gig instruments into SFZ zone descriptions
package converter

// SampleExt is appended to sample names inside dimensioned regions,
// matching the file names gigextract writes.
const SampleExt = ".wav"

// VelocityRange is an inclusive MIDI velocity span
type VelocityRange struct {
	Low  int
	High int
}

// ZoneLoop is a continuous loop with an inclusive end point
type ZoneLoop struct {
	Start uint32
	End   uint32
}

// Zone is one flattened, dimension-free SFZ region
type Zone struct {
	Sample    string
	KeyCenter int
	Tune      int     // cents, omitted when zero
	Volume    float64 // dB, omitted when zero
	Velocity  *VelocityRange
	Release   bool
	Loop      *ZoneLoop
	KeyLow    int
	KeyHigh   int
}

// FlatRegion is a region expanded into its zones. Grouped regions are
// written as a <group> header followed by one <region> per slot.
type FlatRegion struct {
	KeyLow  int
	KeyHigh int
	Grouped bool
	Zones   []Zone
}

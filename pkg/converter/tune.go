package converter

// gainScale converts wsmp gain units to decibels
const gainScale = 655360.0

// FineTuneToCents converts a raw fine-tune field to signed cents.
//
// The gig headers document the field as a fraction of a semitone
// (0x80000000 = 50 cents), but files in the wild store plain integer
// cents, so the value is only reinterpreted as signed.
func FineTuneToCents(fineTune uint32) int {
	return int(int32(fineTune))
}

// GainToVolume converts a stored gain to an SFZ volume in dB
func GainToVolume(gain int32) float64 {
	return -float64(gain) / gainScale
}

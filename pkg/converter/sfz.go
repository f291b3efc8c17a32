package converter

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// SFZWriter serializes flattened regions in SFZ text form
type SFZWriter struct {
	w *bufio.Writer
}

// NewSFZWriter creates a writer emitting to w. Call Flush when done.
func NewSFZWriter(w io.Writer) *SFZWriter {
	return &SFZWriter{w: bufio.NewWriter(w)}
}

// WriteRegion writes a simple <region> block, or a <group> header
// followed by one <region> block per zone and a closing blank line
func (s *SFZWriter) WriteRegion(flat *FlatRegion) error {
	if !flat.Grouped {
		for _, z := range flat.Zones {
			s.writeSimple(z)
		}
		return nil
	}

	fmt.Fprintln(s.w, "<group>")
	fmt.Fprintf(s.w, "lokey=%d\n", flat.KeyLow)
	fmt.Fprintf(s.w, "hikey=%d\n", flat.KeyHigh)
	fmt.Fprintln(s.w)

	for _, z := range flat.Zones {
		s.writeZone(z)
	}
	fmt.Fprintln(s.w)
	return nil
}

// Flush writes any buffered output and reports the first write error
func (s *SFZWriter) Flush() error {
	return s.w.Flush()
}

func (s *SFZWriter) writeSimple(z Zone) {
	fmt.Fprintln(s.w, "<region>")
	fmt.Fprintf(s.w, "sample=%s\n", z.Sample)
	fmt.Fprintf(s.w, "pitch_keycenter=%d\n", z.KeyCenter)
	if z.Tune != 0 {
		fmt.Fprintf(s.w, "tune=%d\n", z.Tune)
	}
	fmt.Fprintf(s.w, "lokey=%d\n", z.KeyLow)
	fmt.Fprintf(s.w, "hikey=%d\n", z.KeyHigh)
	fmt.Fprintln(s.w)
}

func (s *SFZWriter) writeZone(z Zone) {
	fmt.Fprintln(s.w, "<region>")
	fmt.Fprintf(s.w, "sample=%s%s\n", z.Sample, SampleExt)
	fmt.Fprintf(s.w, "pitch_keycenter=%d\n", z.KeyCenter)
	if z.Tune != 0 {
		fmt.Fprintf(s.w, "tune=%d\n", z.Tune)
	}
	if z.Volume != 0 {
		fmt.Fprintf(s.w, "volume=%s\n", formatFloat(z.Volume))
	}
	if z.Velocity != nil {
		fmt.Fprintf(s.w, "lovel=%d hivel=%d\n", z.Velocity.Low, z.Velocity.High)
	}
	if z.Release {
		fmt.Fprintln(s.w, "trigger=release")
	}
	if z.Loop != nil {
		fmt.Fprintf(s.w, "loop_mode=loop_continuous loop_start=%d loop_end=%d\n", z.Loop.Start, z.Loop.End)
	}
	fmt.Fprintln(s.w)
}

// formatFloat prints six significant digits without trailing zeros
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

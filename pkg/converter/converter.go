package converter

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"

	"github.com/james-see/gig2sfz/pkg/gig"
)

// DefaultInstrumentName is used for instruments without a name
const DefaultInstrumentName = "Unnamed Instrument"

// Converter turns decoded gig files into SFZ files
type Converter struct {
	placeholder string
	logger      *slog.Logger
}

// New creates a Converter with the default placeholder name
func New() *Converter {
	return &Converter{
		placeholder: DefaultInstrumentName,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetPlaceholderName sets the name used for unnamed instruments
func (c *Converter) SetPlaceholderName(name string) {
	if name == "" {
		name = DefaultInstrumentName
	}
	c.placeholder = name
}

// SetLogger sets the logger for progress messages
func (c *Converter) SetLogger(logger *slog.Logger) {
	c.logger = logger
}

// InstrumentName returns the declared name or the placeholder
func (c *Converter) InstrumentName(ins *gig.Instrument) string {
	if ins.Name == "" {
		return c.placeholder
	}
	return ins.Name
}

// FileName returns the SFZ file name for an instrument
func (c *Converter) FileName(ins *gig.Instrument) string {
	return c.InstrumentName(ins) + ".sfz"
}

// ConvertInstrument writes every region of ins to w in source order
func (c *Converter) ConvertInstrument(ins *gig.Instrument, w io.Writer) error {
	sfz := NewSFZWriter(w)
	for i, rgn := range ins.Regions {
		flat, err := FlattenRegion(rgn)
		if err != nil {
			return fmt.Errorf("region %d: %w", i, err)
		}
		if err := sfz.WriteRegion(flat); err != nil {
			return fmt.Errorf("region %d: %w", i, err)
		}
		c.logger.Debug("region converted", "index", i, "lokey", flat.KeyLow, "hikey", flat.KeyHigh, "zones", len(flat.Zones))
	}
	return sfz.Flush()
}

// ConvertFile converts every instrument of f, one sink file each, and
// returns the names written. An instrument is rendered completely before
// its file is created, so the first failure leaves no file for it or for
// any later instrument.
func (c *Converter) ConvertFile(f *gig.File, sink Sink) ([]string, error) {
	var written []string
	for _, ins := range f.Instruments {
		name := c.FileName(ins)

		var buf bytes.Buffer
		if err := c.ConvertInstrument(ins, &buf); err != nil {
			return written, fmt.Errorf("instrument %q: %w", c.InstrumentName(ins), err)
		}
		if err := writeOutput(sink, name, buf.Bytes()); err != nil {
			return written, err
		}

		c.logger.Info("instrument converted", "name", c.InstrumentName(ins), "file", name, "regions", len(ins.Regions))
		written = append(written, name)
	}
	return written, nil
}

// ConvertPath decodes the gig file at path and converts it
func (c *Converter) ConvertPath(path string, sink Sink) ([]string, error) {
	f, err := gig.Open(path)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("gig file decoded", "path", path, "instruments", len(f.Instruments), "samples", len(f.Samples))
	return c.ConvertFile(f, sink)
}

func writeOutput(sink Sink, name string, data []byte) error {
	w, err := sink.Create(name)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", name, err)
	}
	return nil
}

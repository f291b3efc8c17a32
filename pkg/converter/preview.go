package converter

import (
	"bytes"
	"errors"
	"fmt"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/james-see/gig2sfz/pkg/gig"
)

// PreviewGenerator renders an audition MIDI file that plays every zone
// of an instrument once, in conversion order
type PreviewGenerator struct {
	ticksPerQuarter uint16
	tempo           float64
	channel         uint8
}

// NewPreviewGenerator creates a generator at 120 BPM on channel 1
func NewPreviewGenerator() *PreviewGenerator {
	return &PreviewGenerator{
		ticksPerQuarter: 480,
		tempo:           120.0,
	}
}

// PreviewNote is one audition note
type PreviewNote struct {
	Key      uint8
	Velocity uint8
}

// Notes picks one note per zone: the key center clamped into the key
// range, at the top velocity of the zone's layer
func (p *PreviewGenerator) Notes(ins *gig.Instrument) ([]PreviewNote, error) {
	var notes []PreviewNote
	for i, rgn := range ins.Regions {
		flat, err := FlattenRegion(rgn)
		if err != nil {
			return nil, fmt.Errorf("region %d: %w", i, err)
		}
		for _, z := range flat.Zones {
			key := min(max(z.KeyCenter, z.KeyLow), z.KeyHigh)
			velocity := 100
			if z.Velocity != nil {
				velocity = z.Velocity.High
			}
			velocity = min(max(velocity, 1), 127)
			notes = append(notes, PreviewNote{Key: uint8(key), Velocity: uint8(velocity)})
		}
	}
	return notes, nil
}

// GeneratePreview creates SMF data auditioning every zone of ins
func (p *PreviewGenerator) GeneratePreview(ins *gig.Instrument) ([]byte, error) {
	if ins == nil {
		return nil, errors.New("nil instrument")
	}
	notes, err := p.Notes(ins)
	if err != nil {
		return nil, err
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(p.ticksPerQuarter)

	var track smf.Track

	microsecondsPerBeat := uint32(60000000.0 / p.tempo)
	tempoData := smf.Message([]byte{
		0xFF, 0x51, 0x03,
		byte(microsecondsPerBeat >> 16),
		byte(microsecondsPerBeat >> 8),
		byte(microsecondsPerBeat),
	})
	track.Add(0, tempoData)

	// Quarter note on, eighth note rest
	noteLength := uint32(p.ticksPerQuarter)
	gap := uint32(p.ticksPerQuarter) / 2

	var delta uint32
	for _, n := range notes {
		track.Add(delta, midi.NoteOn(p.channel, n.Key, n.Velocity))
		track.Add(noteLength, midi.NoteOff(p.channel, n.Key))
		delta = gap
	}

	track.Close(delta)

	if err := s.Add(track); err != nil {
		return nil, fmt.Errorf("failed to add track: %w", err)
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write MIDI: %w", err)
	}
	return buf.Bytes(), nil
}

// PreviewFile renders a preview for every instrument into sink as
// <name>.mid and returns the names written
func (c *Converter) PreviewFile(f *gig.File, sink Sink) ([]string, error) {
	gen := NewPreviewGenerator()
	var written []string
	for _, ins := range f.Instruments {
		name := c.InstrumentName(ins) + ".mid"
		data, err := gen.GeneratePreview(ins)
		if err != nil {
			return written, fmt.Errorf("instrument %q: %w", c.InstrumentName(ins), err)
		}
		if err := writeOutput(sink, name, data); err != nil {
			return written, err
		}
		c.logger.Info("preview written", "name", c.InstrumentName(ins), "file", name)
		written = append(written, name)
	}
	return written, nil
}

package converter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/james-see/gig2sfz/pkg/gig"
)

func TestPreviewNotes(t *testing.T) {
	ins := &gig.Instrument{Regions: []*gig.Region{
		{KeyLow: 40, KeyHigh: 50, Sample: &gig.Sample{Name: "Low", UnityNote: 36}},
		dimensionedRegion([]gig.DimensionDef{{Type: gig.DimensionVelocity, Bits: 1}}, 2),
	}}

	notes, err := NewPreviewGenerator().Notes(ins)
	require.NoError(t, err)

	assert.Equal(t, []PreviewNote{
		{Key: 40, Velocity: 100},
		{Key: 60, Velocity: 63},
		{Key: 60, Velocity: 127},
	}, notes)
}

func TestGeneratePreview(t *testing.T) {
	ins := &gig.Instrument{Name: "Piano", Regions: []*gig.Region{
		dimensionedRegion([]gig.DimensionDef{{Type: gig.DimensionVelocity, Bits: 2}}, 4),
	}}

	data, err := NewPreviewGenerator().GeneratePreview(ins)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("MThd")))

	s, err := smf.ReadFrom(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, s.Tracks, 1)

	var velocities []uint8
	for _, ev := range s.Tracks[0] {
		var ch, key, vel uint8
		if midi.Message(ev.Message).GetNoteStart(&ch, &key, &vel) {
			assert.Equal(t, uint8(60), key)
			velocities = append(velocities, vel)
		}
	}
	assert.Equal(t, []uint8{31, 63, 95, 127}, velocities)
}

func TestGeneratePreviewErrors(t *testing.T) {
	_, err := NewPreviewGenerator().GeneratePreview(nil)
	require.Error(t, err)

	ins := &gig.Instrument{Regions: []*gig.Region{
		dimensionedRegion([]gig.DimensionDef{{Type: gig.DimensionKeyboard, Bits: 1}}, 2),
	}}
	_, err = NewPreviewGenerator().GeneratePreview(ins)
	require.ErrorIs(t, err, ErrUnsupportedDimension)
}

func TestPreviewFile(t *testing.T) {
	f := &gig.File{Instruments: []*gig.Instrument{kickInstrument(""), kickInstrument("Kit")}}

	sink := &MemorySink{}
	written, err := New().PreviewFile(f, sink)
	require.NoError(t, err)
	assert.Equal(t, []string{"Unnamed Instrument.mid", "Kit.mid"}, written)
	require.Len(t, sink.Files, 2)

	s, err := smf.ReadFrom(bytes.NewReader([]byte(sink.Files[1].Content)))
	require.NoError(t, err)

	found := false
	for _, ev := range s.Tracks[0] {
		if midi.Message(ev.Message).Is(midi.NoteOnMsg) {
			found = true
		}
	}
	assert.True(t, found)
}

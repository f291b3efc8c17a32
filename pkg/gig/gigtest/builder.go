// Package gigtest builds small synthetic .gig containers for tests
package gigtest

import (
	"encoding/binary"
)

// NoSample leaves a wave pool reference unset
const NoSample = -1

// File describes a container to build
type File struct {
	// Version3 selects the v3 3lnk layout (8 dimension slots, 256 pool indices).
	Version3 bool
	// WidePool writes 64-bit (file number, offset) pool table entries.
	WidePool    bool
	Instruments []Instrument
	Samples     []Sample
}

// Instrument describes one ins list
type Instrument struct {
	Name    string
	Bank    uint32
	Program uint32
	Regions []Region
}

// Region describes one rgn list. Sample indexes File.Samples.
type Region struct {
	KeyLow, KeyHigh  uint16
	Sample           int
	Dimensions       []Dimension
	DimensionRegions []DimensionRegion
}

// Dimension is one 3lnk dimension definition
type Dimension struct {
	Type uint8
	Bits uint8
}

// DimensionRegion describes one 3ewl list
type DimensionRegion struct {
	Sample    int
	UnityNote uint16
	FineTune  int16
	Gain      int32
	Loops     []Loop
}

// Loop is a wsmp loop record
type Loop struct {
	Start, Length uint32
}

// Sample describes one wave list of the pool
type Sample struct {
	Name      string
	UnityNote uint32
	FineTune  uint32
	Data      []byte
}

// Build encodes f as a RIFF 'DLS ' form
func Build(f File) []byte {
	waves := make([][]byte, len(f.Samples))
	offsets := make([]uint32, len(f.Samples))
	var pos uint32
	for i, s := range f.Samples {
		waves[i] = buildWave(s)
		offsets[i] = pos
		pos += uint32(len(waves[i]))
	}

	vers := make([]byte, 8)
	if f.Version3 {
		binary.LittleEndian.PutUint16(vers[2:], 3)
	} else {
		binary.LittleEndian.PutUint16(vers[2:], 2)
	}

	colh := u32(uint32(len(f.Instruments)))

	instruments := make([][]byte, len(f.Instruments))
	for i, ins := range f.Instruments {
		instruments[i] = buildInstrument(f, ins)
	}

	return form("DLS ",
		chunk("vers", vers),
		chunk("colh", colh),
		chunk("ptbl", buildPoolTable(offsets, f.WidePool)),
		list("lins", instruments...),
		list("wvpl", waves...),
		list("INFO", chunk("INAM", cString("gigtest"))),
	)
}

func buildPoolTable(offsets []uint32, wide bool) []byte {
	b := append(u32(8), u32(uint32(len(offsets)))...)
	for _, off := range offsets {
		if wide {
			b = append(b, u32(0)...)
		}
		b = append(b, u32(off)...)
	}
	return b
}

func buildWave(s Sample) []byte {
	smpl := make([]byte, 36)
	binary.LittleEndian.PutUint32(smpl[12:], s.UnityNote)
	binary.LittleEndian.PutUint32(smpl[16:], s.FineTune)

	fmtChunk := make([]byte, 16)
	binary.LittleEndian.PutUint16(fmtChunk[0:], 1)
	binary.LittleEndian.PutUint16(fmtChunk[2:], 1)
	binary.LittleEndian.PutUint32(fmtChunk[4:], 44100)
	binary.LittleEndian.PutUint32(fmtChunk[8:], 88200)
	binary.LittleEndian.PutUint16(fmtChunk[12:], 2)
	binary.LittleEndian.PutUint16(fmtChunk[14:], 16)

	return list("wave",
		chunk("fmt ", fmtChunk),
		list("INFO", chunk("INAM", cString(s.Name))),
		chunk("smpl", smpl),
		chunk("data", s.Data),
	)
}

func buildInstrument(f File, ins Instrument) []byte {
	insh := append(u32(uint32(len(ins.Regions))), u32(ins.Bank)...)
	insh = append(insh, u32(ins.Program)...)

	regions := make([][]byte, len(ins.Regions))
	for i, r := range ins.Regions {
		regions[i] = buildRegion(f, r)
	}

	children := [][]byte{chunk("insh", insh), list("lrgn", regions...)}
	if ins.Name != "" {
		children = append(children, list("INFO", chunk("INAM", cString(ins.Name))))
	}
	return list("ins ", children...)
}

func buildRegion(f File, r Region) []byte {
	rgnh := make([]byte, 12)
	binary.LittleEndian.PutUint16(rgnh[0:], r.KeyLow)
	binary.LittleEndian.PutUint16(rgnh[2:], r.KeyHigh)
	binary.LittleEndian.PutUint16(rgnh[6:], 127)

	wlnk := make([]byte, 12)
	binary.LittleEndian.PutUint32(wlnk[8:], poolIndex(r.Sample))

	maxDefs, maxSlots := 5, 32
	if f.Version3 {
		maxDefs, maxSlots = 8, 256
	}
	lnk := u32(uint32(len(r.DimensionRegions)))
	var bitPos uint8
	for i := 0; i < maxDefs; i++ {
		def := make([]byte, 8)
		if i < len(r.Dimensions) {
			d := r.Dimensions[i]
			def[0] = d.Type
			def[1] = d.Bits
			def[2] = bitPos
			def[3] = byte((1 << (bitPos + d.Bits)) - (1 << bitPos))
			def[4] = byte(1 << d.Bits)
			bitPos += d.Bits
		}
		lnk = append(lnk, def...)
	}
	for i := 0; i < maxSlots; i++ {
		index := uint32(0xFFFFFFFF)
		if i < len(r.DimensionRegions) {
			index = poolIndex(r.DimensionRegions[i].Sample)
		}
		lnk = append(lnk, u32(index)...)
	}

	slots := make([][]byte, len(r.DimensionRegions))
	for i, dr := range r.DimensionRegions {
		slots[i] = list("3ewl", chunk("wsmp", buildSampler(dr)), chunk("3ewa", make([]byte, 140)))
	}

	return list("rgn ",
		chunk("rgnh", rgnh),
		chunk("wlnk", wlnk),
		chunk("3lnk", lnk),
		list("3prg", slots...),
	)
}

func buildSampler(dr DimensionRegion) []byte {
	b := make([]byte, 20)
	binary.LittleEndian.PutUint32(b[0:], 20)
	binary.LittleEndian.PutUint16(b[4:], dr.UnityNote)
	binary.LittleEndian.PutUint16(b[6:], uint16(dr.FineTune))
	binary.LittleEndian.PutUint32(b[8:], uint32(dr.Gain))
	binary.LittleEndian.PutUint32(b[16:], uint32(len(dr.Loops)))
	for _, l := range dr.Loops {
		b = append(b, u32(16)...)
		b = append(b, u32(0)...)
		b = append(b, u32(l.Start)...)
		b = append(b, u32(l.Length)...)
	}
	return b
}

func poolIndex(sample int) uint32 {
	if sample < 0 {
		return 0xFFFFFFFF
	}
	return uint32(sample)
}

func u32(v uint32) []byte {
	return binary.LittleEndian.AppendUint32(nil, v)
}

func cString(s string) []byte {
	return append([]byte(s), 0)
}

func chunk(id string, payload []byte) []byte {
	b := make([]byte, 8, 8+len(payload)+1)
	copy(b, id)
	binary.LittleEndian.PutUint32(b[4:], uint32(len(payload)))
	b = append(b, payload...)
	if len(payload)%2 == 1 {
		b = append(b, 0)
	}
	return b
}

func list(listType string, children ...[]byte) []byte {
	payload := []byte(listType)
	for _, c := range children {
		payload = append(payload, c...)
	}
	return chunk("LIST", payload)
}

func form(formType string, children ...[]byte) []byte {
	b := list(formType, children...)
	copy(b, "RIFF")
	return b
}

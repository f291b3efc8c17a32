package gig

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/image/riff"
)

// ErrDecode is returned (wrapped) for any malformed container structure
var ErrDecode = errors.New("gig: invalid file")

// NoSample marks an unused wave pool reference
const NoSample = 0xFFFFFFFF

// Chunk and list identifiers
var (
	formDLS = riff.FourCC{'D', 'L', 'S', ' '}

	chunkVers = riff.FourCC{'v', 'e', 'r', 's'}
	chunkPtbl = riff.FourCC{'p', 't', 'b', 'l'}
	chunkInsh = riff.FourCC{'i', 'n', 's', 'h'}
	chunkRgnh = riff.FourCC{'r', 'g', 'n', 'h'}
	chunkWlnk = riff.FourCC{'w', 'l', 'n', 'k'}
	chunk3lnk = riff.FourCC{'3', 'l', 'n', 'k'}
	chunkWsmp = riff.FourCC{'w', 's', 'm', 'p'}
	chunkSmpl = riff.FourCC{'s', 'm', 'p', 'l'}
	chunkData = riff.FourCC{'d', 'a', 't', 'a'}
	chunkInam = riff.FourCC{'I', 'N', 'A', 'M'}

	listLins = riff.FourCC{'l', 'i', 'n', 's'}
	listIns  = riff.FourCC{'i', 'n', 's', ' '}
	listLrgn = riff.FourCC{'l', 'r', 'g', 'n'}
	listRgn  = riff.FourCC{'r', 'g', 'n', ' '}
	listRgn2 = riff.FourCC{'r', 'g', 'n', '2'}
	list3prg = riff.FourCC{'3', 'p', 'r', 'g'}
	list3ewl = riff.FourCC{'3', 'e', 'w', 'l'}
	listWvpl = riff.FourCC{'w', 'v', 'p', 'l'}
	listWave = riff.FourCC{'w', 'a', 'v', 'e'}
	listInfo = riff.FourCC{'I', 'N', 'F', 'O'}
)

func decodeErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDecode, fmt.Sprintf(format, args...))
}

// Open reads and decodes a .gig file from disk
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open gig file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Parse(bufio.NewReader(f))
}

// Parse decodes a .gig container from r
func Parse(r io.Reader) (*File, error) {
	formType, root, err := riff.NewReader(r)
	if err != nil {
		return nil, decodeErrorf("%v", err)
	}
	if formType != formDLS {
		return nil, decodeErrorf("unexpected RIFF form type %q", string(formType[:]))
	}

	p := &parser{file: &File{}}
	err = walk(root, func(id riff.FourCC, n uint32, data io.Reader) error {
		switch id {
		case chunkVers:
			return p.readVersion(data)
		case chunkPtbl:
			return p.readPoolTable(data)
		case riff.LIST:
			listType, list, err := openList(n, data)
			if err != nil {
				return err
			}
			switch listType {
			case listLins:
				return p.readInstruments(list)
			case listWvpl:
				return p.readWavePool(list)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := p.resolveSamples(); err != nil {
		return nil, err
	}
	return p.file, nil
}

type poolEntry struct {
	offset uint64
	fileNo uint32
}

type parser struct {
	file *File
	pool []poolEntry
}

type chunkVisitor func(id riff.FourCC, chunkLen uint32, data io.Reader) error

func walk(list *riff.Reader, visit chunkVisitor) error {
	for {
		id, n, data, err := list.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return decodeErrorf("%v", err)
		}
		if err := visit(id, n, data); err != nil {
			return err
		}
	}
}

func openList(n uint32, data io.Reader) (riff.FourCC, *riff.Reader, error) {
	listType, list, err := riff.NewListReader(n, data)
	if err != nil {
		return riff.FourCC{}, nil, decodeErrorf("%v", err)
	}
	return listType, list, nil
}

func readChunk(data io.Reader, id riff.FourCC, minLen int) ([]byte, error) {
	b, err := io.ReadAll(data)
	if err != nil {
		return nil, decodeErrorf("reading %s chunk: %v", string(id[:]), err)
	}
	if len(b) < minLen {
		return nil, decodeErrorf("%s chunk too short: got %d bytes, need %d", string(id[:]), len(b), minLen)
	}
	return b, nil
}

func (p *parser) readVersion(data io.Reader) error {
	b, err := readChunk(data, chunkVers, 8)
	if err != nil {
		return err
	}
	p.file.Version = Version{
		Minor:   binary.LittleEndian.Uint16(b[0:]),
		Major:   binary.LittleEndian.Uint16(b[2:]),
		Build:   binary.LittleEndian.Uint16(b[4:]),
		Release: binary.LittleEndian.Uint16(b[6:]),
	}
	return nil
}

// readPoolTable reads the wave pool table. Entries are either 32-bit
// offsets or (file number, offset) pairs for 64-bit pools.
func (p *parser) readPoolTable(data io.Reader) error {
	b, err := readChunk(data, chunkPtbl, 8)
	if err != nil {
		return err
	}
	headerSize := binary.LittleEndian.Uint32(b[0:])
	count := binary.LittleEndian.Uint32(b[4:])
	if uint64(headerSize) > uint64(len(b)) {
		return decodeErrorf("ptbl header size %d exceeds chunk size %d", headerSize, len(b))
	}
	entries := b[headerSize:]

	wide := count > 0 && uint64(len(entries)) == uint64(count)*8
	entrySize := uint64(4)
	if wide {
		entrySize = 8
	}
	if uint64(len(entries)) < uint64(count)*entrySize {
		return decodeErrorf("ptbl holds %d bytes, need %d for %d entries", len(entries), uint64(count)*entrySize, count)
	}

	p.pool = make([]poolEntry, count)
	for i := range p.pool {
		e := entries[uint64(i)*entrySize:]
		if wide {
			p.pool[i] = poolEntry{
				fileNo: binary.LittleEndian.Uint32(e[0:]),
				offset: uint64(binary.LittleEndian.Uint32(e[4:])),
			}
		} else {
			p.pool[i] = poolEntry{offset: uint64(binary.LittleEndian.Uint32(e[0:]))}
		}
	}
	return nil
}

func (p *parser) readInstruments(lins *riff.Reader) error {
	return walk(lins, func(id riff.FourCC, n uint32, data io.Reader) error {
		if id != riff.LIST {
			return nil
		}
		listType, list, err := openList(n, data)
		if err != nil || listType != listIns {
			return err
		}
		ins, err := p.readInstrument(list)
		if err != nil {
			return fmt.Errorf("instrument %d: %w", len(p.file.Instruments), err)
		}
		p.file.Instruments = append(p.file.Instruments, ins)
		return nil
	})
}

func (p *parser) readInstrument(list *riff.Reader) (*Instrument, error) {
	ins := &Instrument{}
	err := walk(list, func(id riff.FourCC, n uint32, data io.Reader) error {
		switch id {
		case chunkInsh:
			b, err := readChunk(data, chunkInsh, 12)
			if err != nil {
				return err
			}
			ins.Bank = binary.LittleEndian.Uint32(b[4:])
			ins.Program = binary.LittleEndian.Uint32(b[8:])
		case riff.LIST:
			listType, sub, err := openList(n, data)
			if err != nil {
				return err
			}
			switch listType {
			case listLrgn:
				return p.readRegions(ins, sub)
			case listInfo:
				name, err := readName(sub)
				if err != nil {
					return err
				}
				ins.Name = name
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ins, nil
}

func (p *parser) readRegions(ins *Instrument, lrgn *riff.Reader) error {
	return walk(lrgn, func(id riff.FourCC, n uint32, data io.Reader) error {
		if id != riff.LIST {
			return nil
		}
		listType, list, err := openList(n, data)
		if err != nil {
			return err
		}
		if listType != listRgn && listType != listRgn2 {
			return nil
		}
		rgn, err := p.readRegion(list)
		if err != nil {
			return fmt.Errorf("region %d: %w", len(ins.Regions), err)
		}
		ins.Regions = append(ins.Regions, rgn)
		return nil
	})
}

func (p *parser) readRegion(list *riff.Reader) (*Region, error) {
	rgn := &Region{sampleIndex: NoSample, VelHigh: 127, KeyHigh: 127}
	var poolIndices []uint32
	slots := -1

	err := walk(list, func(id riff.FourCC, n uint32, data io.Reader) error {
		switch id {
		case chunkRgnh:
			b, err := readChunk(data, chunkRgnh, 8)
			if err != nil {
				return err
			}
			rgn.KeyLow = binary.LittleEndian.Uint16(b[0:])
			rgn.KeyHigh = binary.LittleEndian.Uint16(b[2:])
			rgn.VelLow = binary.LittleEndian.Uint16(b[4:])
			rgn.VelHigh = binary.LittleEndian.Uint16(b[6:])
		case chunkWlnk:
			b, err := readChunk(data, chunkWlnk, 12)
			if err != nil {
				return err
			}
			rgn.sampleIndex = binary.LittleEndian.Uint32(b[8:])
		case chunk3lnk:
			count, defs, indices, err := p.readDimensionLink(data)
			if err != nil {
				return err
			}
			slots = count
			rgn.Dimensions = defs
			poolIndices = indices
		case riff.LIST:
			listType, sub, err := openList(n, data)
			if err != nil || listType != list3prg {
				return err
			}
			return readDimensionRegions(rgn, sub)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if slots >= 0 && slots != len(rgn.DimensionRegions) {
		return nil, decodeErrorf("3lnk announces %d dimension regions, found %d", slots, len(rgn.DimensionRegions))
	}
	for i, dr := range rgn.DimensionRegions {
		dr.poolIndex = NoSample
		if i < len(poolIndices) {
			dr.poolIndex = poolIndices[i]
		}
	}
	return rgn, nil
}

// readDimensionLink decodes the 3lnk chunk: slot count, dimension
// definitions (5 for v2 files, 8 for v3) and per-slot wave pool indices.
func (p *parser) readDimensionLink(data io.Reader) (int, []DimensionDef, []uint32, error) {
	maxDefs, indexPos, maxSlots := 5, 44, 32
	if p.file.Version.Major > 2 {
		maxDefs, indexPos, maxSlots = 8, 68, 256
	}

	b, err := readChunk(data, chunk3lnk, indexPos)
	if err != nil {
		return 0, nil, nil, err
	}
	count := int(binary.LittleEndian.Uint32(b[0:]))
	if count > maxSlots {
		return 0, nil, nil, decodeErrorf("3lnk announces %d dimension regions, at most %d allowed", count, maxSlots)
	}

	var defs []DimensionDef
	for i := 0; i < maxDefs; i++ {
		d := b[4+i*8:]
		def := DimensionDef{Type: DimensionType(d[0]), Bits: d[1], Zones: d[4]}
		if def.Type == DimensionNone {
			continue
		}
		defs = append(defs, def)
	}

	indices := make([]uint32, 0, count)
	for i := 0; i < count && indexPos+i*4+4 <= len(b); i++ {
		indices = append(indices, binary.LittleEndian.Uint32(b[indexPos+i*4:]))
	}
	return count, defs, indices, nil
}

func readDimensionRegions(rgn *Region, prg *riff.Reader) error {
	return walk(prg, func(id riff.FourCC, n uint32, data io.Reader) error {
		if id != riff.LIST {
			return nil
		}
		listType, list, err := openList(n, data)
		if err != nil || listType != list3ewl {
			return err
		}
		dr := &DimensionRegion{UnityNote: 60}
		err = walk(list, func(id riff.FourCC, n uint32, data io.Reader) error {
			if id == chunkWsmp {
				return readSampler(dr, data)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("dimension region %d: %w", len(rgn.DimensionRegions), err)
		}
		rgn.DimensionRegions = append(rgn.DimensionRegions, dr)
		return nil
	})
}

// readSampler decodes a DLS wsmp chunk into dr
func readSampler(dr *DimensionRegion, data io.Reader) error {
	b, err := readChunk(data, chunkWsmp, 20)
	if err != nil {
		return err
	}
	headerSize := binary.LittleEndian.Uint32(b[0:])
	dr.UnityNote = uint8(binary.LittleEndian.Uint16(b[4:]))
	dr.FineTune = uint32(int32(int16(binary.LittleEndian.Uint16(b[6:]))))
	dr.Gain = int32(binary.LittleEndian.Uint32(b[8:]))
	loops := binary.LittleEndian.Uint32(b[16:])

	pos := uint64(headerSize)
	for i := uint32(0); i < loops; i++ {
		if pos+16 > uint64(len(b)) {
			return decodeErrorf("wsmp declares %d loops, chunk holds %d", loops, i)
		}
		l := b[pos:]
		size := binary.LittleEndian.Uint32(l[0:])
		dr.Loops = append(dr.Loops, Loop{
			Type:   binary.LittleEndian.Uint32(l[4:]),
			Start:  binary.LittleEndian.Uint32(l[8:]),
			Length: binary.LittleEndian.Uint32(l[12:]),
		})
		if size < 16 {
			size = 16
		}
		pos += uint64(size)
	}
	return nil
}

// readWavePool decodes every wave of the pool, recording each wave's
// offset relative to the start of the pool's first child.
func (p *parser) readWavePool(wvpl *riff.Reader) error {
	var offset uint64
	return walk(wvpl, func(id riff.FourCC, n uint32, data io.Reader) error {
		pos := offset
		offset += 8 + uint64(n) + uint64(n&1)
		if id != riff.LIST {
			return nil
		}
		listType, list, err := openList(n, data)
		if err != nil || listType != listWave {
			return err
		}
		smp, err := readSample(list)
		if err != nil {
			return fmt.Errorf("sample %d: %w", len(p.file.Samples), err)
		}
		smp.PoolOffset = pos
		p.file.Samples = append(p.file.Samples, smp)
		return nil
	})
}

func readSample(list *riff.Reader) (*Sample, error) {
	smp := &Sample{UnityNote: 60}
	err := walk(list, func(id riff.FourCC, n uint32, data io.Reader) error {
		switch id {
		case chunkSmpl:
			b, err := readChunk(data, chunkSmpl, 20)
			if err != nil {
				return err
			}
			smp.UnityNote = binary.LittleEndian.Uint32(b[12:])
			smp.FineTune = binary.LittleEndian.Uint32(b[16:])
		case chunkData:
			smp.DataSize = int64(n)
		case riff.LIST:
			listType, sub, err := openList(n, data)
			if err != nil || listType != listInfo {
				return err
			}
			name, err := readName(sub)
			if err != nil {
				return err
			}
			smp.Name = name
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return smp, nil
}

// readName returns the INAM entry of an INFO list
func readName(info *riff.Reader) (string, error) {
	var name string
	err := walk(info, func(id riff.FourCC, n uint32, data io.Reader) error {
		if id != chunkInam {
			return nil
		}
		b, err := readChunk(data, chunkInam, 0)
		if err != nil {
			return err
		}
		name = cString(b)
		return nil
	})
	return name, err
}

func cString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

func (p *parser) lookupSample(index uint32) (*Sample, error) {
	if index == NoSample {
		return nil, nil
	}
	if uint64(index) >= uint64(len(p.pool)) {
		return nil, decodeErrorf("wave pool index %d out of range (%d entries)", index, len(p.pool))
	}
	e := p.pool[index]
	for _, smp := range p.file.Samples {
		if smp.PoolOffset == e.offset && smp.FileNo == e.fileNo {
			return smp, nil
		}
	}
	return nil, decodeErrorf("no sample at wave pool offset %d (file %d)", e.offset, e.fileNo)
}

// resolveSamples links regions and dimension regions to pool samples.
// Instruments usually precede the wave pool, so this runs after the walk.
func (p *parser) resolveSamples() error {
	for i, ins := range p.file.Instruments {
		for j, rgn := range ins.Regions {
			smp, err := p.lookupSample(rgn.sampleIndex)
			if err != nil {
				return fmt.Errorf("instrument %d region %d: %w", i, j, err)
			}
			rgn.Sample = smp
			for k, dr := range rgn.DimensionRegions {
				smp, err := p.lookupSample(dr.poolIndex)
				if err != nil {
					return fmt.Errorf("instrument %d region %d dimension region %d: %w", i, j, k, err)
				}
				dr.Sample = smp
			}
		}
	}
	return nil
}

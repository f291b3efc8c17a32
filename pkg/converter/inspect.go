package converter

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"gitlab.com/gomidi/midi/v2"

	"github.com/james-see/gig2sfz/pkg/gig"
)

// InstrumentSummary describes the layout of one instrument
type InstrumentSummary struct {
	Name    string          `json:"name"`
	File    string          `json:"file"`
	Bank    uint32          `json:"bank"`
	Program uint32          `json:"program"`
	Regions []RegionSummary `json:"regions"`
}

// RegionSummary describes one region and its dimensions
type RegionSummary struct {
	KeyLow     int                `json:"lokey"`
	KeyHigh    int                `json:"hikey"`
	Dimensions []DimensionSummary `json:"dimensions,omitempty"`
	Slots      int                `json:"slots"`
	Samples    []SampleSummary    `json:"samples"`
	Supported  bool               `json:"supported"`
}

// DimensionSummary is one dimension with its bit placement
type DimensionSummary struct {
	Type   string `json:"type"`
	Bits   uint   `json:"bits"`
	Offset uint   `json:"offset"`
}

// SampleSummary names a sample used by a region
type SampleSummary struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// Summarize describes every instrument of f without converting it.
// Regions with unsupported dimensions are reported, not rejected.
func (c *Converter) Summarize(f *gig.File) []InstrumentSummary {
	summaries := make([]InstrumentSummary, 0, len(f.Instruments))
	for _, ins := range f.Instruments {
		s := InstrumentSummary{
			Name:    c.InstrumentName(ins),
			File:    c.FileName(ins),
			Bank:    ins.Bank,
			Program: ins.Program,
		}
		for _, rgn := range ins.Regions {
			s.Regions = append(s.Regions, summarizeRegion(rgn))
		}
		summaries = append(summaries, s)
	}
	return summaries
}

func summarizeRegion(rgn *gig.Region) RegionSummary {
	rs := RegionSummary{
		KeyLow:    int(rgn.KeyLow),
		KeyHigh:   int(rgn.KeyHigh),
		Slots:     len(rgn.DimensionRegions),
		Supported: true,
	}

	var offset uint
	for _, def := range rgn.Dimensions {
		rs.Dimensions = append(rs.Dimensions, DimensionSummary{Type: def.Type.String(), Bits: uint(def.Bits), Offset: offset})
		offset += uint(def.Bits)
	}
	if _, err := BuildDimensions(rgn.Dimensions); err != nil {
		rs.Supported = false
	}

	if len(rgn.Dimensions) == 0 {
		rs.Slots = 1
		if rgn.Sample != nil {
			rs.Samples = append(rs.Samples, SampleSummary{Name: rgn.Sample.Name, Size: rgn.Sample.DataSize})
		}
		return rs
	}

	seen := make(map[*gig.Sample]bool)
	for _, dr := range rgn.DimensionRegions {
		if dr.Sample == nil || seen[dr.Sample] {
			continue
		}
		seen[dr.Sample] = true
		rs.Samples = append(rs.Samples, SampleSummary{Name: dr.Sample.Name, Size: dr.Sample.DataSize})
	}
	return rs
}

// WriteSummary prints summaries in a human readable form
func WriteSummary(w io.Writer, summaries []InstrumentSummary) error {
	for _, s := range summaries {
		if _, err := fmt.Fprintf(w, "%s -> %s (bank %d, program %d, %d regions)\n",
			s.Name, s.File, s.Bank, s.Program, len(s.Regions)); err != nil {
			return err
		}
		for i, r := range s.Regions {
			status := ""
			if !r.Supported {
				status = " [unsupported]"
			}
			fmt.Fprintf(w, "  region %d: %s-%s (%d-%d), %d slot(s)%s\n", i,
				noteName(r.KeyLow), noteName(r.KeyHigh), r.KeyLow, r.KeyHigh, r.Slots, status)
			for _, d := range r.Dimensions {
				fmt.Fprintf(w, "    dimension %s: %d bit(s) at offset %d\n", d.Type, d.Bits, d.Offset)
			}
			for _, smp := range r.Samples {
				fmt.Fprintf(w, "    sample %s (%s)\n", smp.Name, humanize.Bytes(uint64(smp.Size)))
			}
		}
	}
	return nil
}

func noteName(key int) string {
	if key < 0 || key > 127 {
		return "?"
	}
	return midi.Note(uint8(key)).String()
}

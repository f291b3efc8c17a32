// Package gig decodes GigaSampler/GigaStudio (.gig) instrument files
package gig

import "fmt"

// DimensionType identifies the performance axis a dimension splits on
type DimensionType uint8

// Dimension types as stored in the 3lnk chunk
const (
	DimensionNone               DimensionType = 0x00
	DimensionModWheel           DimensionType = 0x01
	DimensionBreath             DimensionType = 0x02
	DimensionFoot               DimensionType = 0x04
	DimensionPortamentoTime     DimensionType = 0x05
	DimensionEffect1            DimensionType = 0x0c
	DimensionEffect2            DimensionType = 0x0d
	DimensionGenPurpose1        DimensionType = 0x10
	DimensionGenPurpose2        DimensionType = 0x11
	DimensionGenPurpose3        DimensionType = 0x12
	DimensionGenPurpose4        DimensionType = 0x13
	DimensionSustainPedal       DimensionType = 0x40
	DimensionPortamento         DimensionType = 0x41
	DimensionSostenutoPedal     DimensionType = 0x42
	DimensionSoftPedal          DimensionType = 0x43
	DimensionSampleChannel      DimensionType = 0x80
	DimensionLayer              DimensionType = 0x81
	DimensionVelocity           DimensionType = 0x82
	DimensionChannelAftertouch  DimensionType = 0x83
	DimensionReleaseTrigger     DimensionType = 0x84
	DimensionKeyboard           DimensionType = 0x85
	DimensionRoundRobin         DimensionType = 0x86
	DimensionRandom             DimensionType = 0x87
	DimensionSmartMIDI          DimensionType = 0x88
	DimensionRoundRobinKeyboard DimensionType = 0x89
)

var dimensionNames = map[DimensionType]string{
	DimensionNone:               "none",
	DimensionModWheel:           "modwheel",
	DimensionBreath:             "breath",
	DimensionFoot:               "foot",
	DimensionPortamentoTime:     "portamentotime",
	DimensionEffect1:            "effect1",
	DimensionEffect2:            "effect2",
	DimensionGenPurpose1:        "genpurpose1",
	DimensionGenPurpose2:        "genpurpose2",
	DimensionGenPurpose3:        "genpurpose3",
	DimensionGenPurpose4:        "genpurpose4",
	DimensionSustainPedal:       "sustainpedal",
	DimensionPortamento:         "portamento",
	DimensionSostenutoPedal:     "sostenutopedal",
	DimensionSoftPedal:          "softpedal",
	DimensionSampleChannel:      "samplechannel",
	DimensionLayer:              "layer",
	DimensionVelocity:           "velocity",
	DimensionChannelAftertouch:  "channelaftertouch",
	DimensionReleaseTrigger:     "releasetrigger",
	DimensionKeyboard:           "keyboard",
	DimensionRoundRobin:         "roundrobin",
	DimensionRandom:             "random",
	DimensionSmartMIDI:          "smartmidi",
	DimensionRoundRobinKeyboard: "roundrobinkeyboard",
}

func (d DimensionType) String() string {
	if name, ok := dimensionNames[d]; ok {
		return name
	}
	return fmt.Sprintf("unknown(0x%02x)", uint8(d))
}

// Version is the file format version from the vers chunk
type Version struct {
	Major   uint16
	Minor   uint16
	Build   uint16
	Release uint16
}

// File is a decoded .gig container
type File struct {
	Version     Version
	Instruments []*Instrument
	Samples     []*Sample
}

// Instrument is one playable instrument of the container
type Instrument struct {
	Name    string
	Bank    uint32
	Program uint32
	Regions []*Region
}

// Region maps a key range to one sample or to a dimensioned set of samples
type Region struct {
	KeyLow  uint16
	KeyHigh uint16
	VelLow  uint16
	VelHigh uint16

	// Dimensions holds the active dimension definitions in declaration order.
	Dimensions []DimensionDef

	// Sample is the directly attached sample (wlnk); nil if none.
	Sample *Sample

	// DimensionRegions is indexed by the combined dimension bitfield.
	DimensionRegions []*DimensionRegion

	sampleIndex uint32
}

// DimensionDef is one entry of a region's dimension definition table
type DimensionDef struct {
	Type  DimensionType
	Bits  uint8
	Zones uint8
}

// DimensionRegion is one sample-selection slot of a region
type DimensionRegion struct {
	Sample    *Sample
	UnityNote uint8
	// FineTune is the signed wsmp fine tune widened to 32 bits.
	FineTune uint32
	Gain     int32
	Loops    []Loop

	poolIndex uint32
}

// Loop is a sample loop definition
type Loop struct {
	Type   uint32
	Start  uint32
	Length uint32
}

// Sample is one wave of the sample pool
type Sample struct {
	Name      string
	UnityNote uint32
	FineTune  uint32
	DataSize  int64

	PoolOffset uint64
	FileNo     uint32
}

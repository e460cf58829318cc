// types.go - shared scalar types for the chipset core.
//
// License: GPLv3 or later (see DESIGN.md for provenance)

package amiga

import "math"

// Cycle is a signed counter of ticks at the chipset master clock (~28 MHz, PAL).
// All timing inside the core is expressed in master cycles; CPU, CIA and DMA
// cycles are fixed multiples of it.
type Cycle int64

const (
	// NEVER is the sentinel trigger cycle meaning "no event pending".
	NEVER Cycle = math.MaxInt64

	// CyclesPerCPUCycle is the ratio between a 68000 bus cycle and a master cycle.
	CyclesPerCPUCycle Cycle = 4
	// CyclesPerCIACycle is the ratio between a CIA tick and a master cycle.
	CyclesPerCIACycle Cycle = 40
	// CyclesPerDMACycle ("color clock") is the ratio between a DMA slot and a master cycle.
	CyclesPerDMACycle Cycle = 8
)

// HposCountShort and HposCountLong are the number of DMA slots in a raster line. PAL lines normally
// hold 227 slots; the first line of a long frame holds one extra ("long line"),
// a hardware quirk line 0 of an interlaced long frame exhibits on real Agnus
// chips and that games relying on raster timing depend on.
const (
	HposCountShort = 227
	HposCountLong  = 228
)

// NumLinesShort and NumLinesLong are the two frame heights a PAL Agnus can
// produce, selected by the long-frame flipflop (LOF) when interlace is active.
const (
	NumLinesShort = 312
	NumLinesLong  = 313
)

// EventID is a per-slot small integer identifying a pending event. Each slot
// keeps its own namespace: EventID(1) in the copper slot is unrelated to
// EventID(1) in the disk slot.
type EventID int32

// EventNone means the slot holds no pending event.
const EventNone EventID = 0

// BusOwner identifies which chipset function drove a given DMA slot.
type BusOwner int

const (
	OwnerNone BusOwner = iota
	OwnerRefresh
	OwnerDisk
	OwnerAudio0
	OwnerAudio1
	OwnerAudio2
	OwnerAudio3
	OwnerBPL1
	OwnerBPL2
	OwnerBPL3
	OwnerBPL4
	OwnerBPL5
	OwnerBPL6
	OwnerSprite0
	OwnerSprite1
	OwnerSprite2
	OwnerSprite3
	OwnerSprite4
	OwnerSprite5
	OwnerSprite6
	OwnerSprite7
	OwnerCopper
	OwnerBlitter
	OwnerCPU
)

func (o BusOwner) String() string {
	names := [...]string{
		"none", "refresh", "disk",
		"audio0", "audio1", "audio2", "audio3",
		"bpl1", "bpl2", "bpl3", "bpl4", "bpl5", "bpl6",
		"sprite0", "sprite1", "sprite2", "sprite3", "sprite4", "sprite5", "sprite6", "sprite7",
		"copper", "blitter", "cpu",
	}
	if int(o) < 0 || int(o) >= len(names) {
		return "invalid"
	}
	return names[o]
}

// RegID identifies a chip register whose write was deferred by the register
// change recorder (§4.5). Values mirror the original vAmiga RegChangeID list,
// trimmed to the registers this core actually delays.
type RegID int32

const (
	RegNone RegID = iota
	RegBPLCON0Agnus
	RegBPLCON0Denise
	RegBPLCON1Agnus
	RegBPLCON1Denise
	RegBPLCON2
	RegDMACON
	RegDIWSTRT
	RegDIWSTOP
	RegDDFSTRT
	RegDDFSTOP
	RegBPL1MOD
	RegBPL2MOD
	RegBPLPTHBase // + plane index 0..5 for high word
	RegBPLPTLBase // + plane index 0..5 for low word
	RegINTENA
	RegINTREQ
	RegAUDxVOL // + channel index 0..3, Extra carries the channel
	RegAUDxPER // + channel index 0..3
	RegAUDxLEN // + channel index 0..3
	RegAUDxLCHBase // + channel index 0..3, pointer high word
	RegAUDxLCLBase // + channel index 0..3, pointer low word
)

// Frame tracks the frame counter and the long-frame flipflop.
type Frame struct {
	Nr          int64
	Interlaced  bool
	Lof         bool // long-frame flipflop, sampled/toggled at VSYNC
	PrevLof     bool
}

// LongFrame reports whether the current frame has NumLinesLong lines.
func (f *Frame) LongFrame() bool {
	return f.Interlaced && f.Lof
}

// NumLines returns the number of raster lines in the current frame.
func (f *Frame) NumLines() int {
	if f.LongFrame() {
		return NumLinesLong
	}
	return NumLinesShort
}

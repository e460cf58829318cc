// memory_map.go - the 24-bit address space and page-table dispatch.
//
// Grounded on machine_bus.go's MachineBus: a small page table keyed by the
// high address byte dispatches each access to a region handler rather than
// a chain of range checks, and read-only/write-only register quirks are
// preserved explicitly (a write-only register reads back the last value
// driven onto the bus; a read-only register silently drops writes).

package amiga

import "encoding/binary"

// RegionKind identifies what backs a given page of the 24-bit address space.
type RegionKind int

const (
	RegionUnmapped RegionKind = iota
	RegionChip
	RegionSlow
	RegionFast
	RegionROM
	RegionWOM
	RegionCustom
	RegionCIA
	RegionRTC
	RegionAutoconfig
	RegionExtROM
)

// Approximate OCS/ECS page boundaries (each page is 64 KiB; addr>>16 gives
// the page index 0x00..0xFF across the 24-bit space).
const (
	pageFastStart  = 0x20
	pageFastEnd    = 0x9F
	pageCIAStart   = 0xA0
	pageCIAEnd     = 0xBF
	pageSlowStart  = 0xC0
	pageSlowEnd    = 0xD7
	pageRTCPage    = 0xDC
	pageCustomPage = 0xDF
	pageExtStart   = 0xE0
	pageExtEnd     = 0xE7
	pageAutoStart  = 0xE8
	pageAutoEnd    = 0xEF
	pageROMStart   = 0xF8
	pageROMEnd     = 0xFF
	pageOverlayEnd = 0x07
)

// ChipBusWaiter is the narrow surface memory needs from Agnus: CPU accesses
// to chip RAM must stall until the DMA bus is free.
type ChipBusWaiter interface {
	ExecuteUntilBusIsFree()
}

// CustomRegs is the custom chip register dispatch surface ($DFF000..DFFFFF).
type CustomRegs interface {
	ReadCustom(offset uint16) (value uint16, readable bool)
	WriteCustom(offset uint16, value uint16) (writable bool)
}

// CIASpace is the CIA A/B address-decode surface ($A00000..BFFFFF).
type CIASpace interface {
	ReadCIA(addr uint32) uint8
	WriteCIA(addr uint32, value uint8)
}

// MemoryMap owns the flat RAM/ROM byte slices and the page table that
// routes a 24-bit address to one of them.
type MemoryMap struct {
	pageTable [256]RegionKind

	Chip []byte
	Slow []byte
	Fast []byte
	ROM  []byte
	WOM  []byte
	womWritten bool
	ExtROM []byte

	OVL bool // CIA A port A bit 0: true overlays ROM at page 0x00..pageOverlayEnd

	dataBusValue uint16 // last value driven by a write-only custom register read

	Custom CustomRegs
	CIA    CIASpace
	Bus    ChipBusWaiter
}

// NewMemoryMap returns a map with the given RAM sizes (bytes) allocated and
// the page table built from them.
func NewMemoryMap(chipSize, slowSize, fastSize int) *MemoryMap {
	m := &MemoryMap{
		Chip: make([]byte, chipSize),
		Slow: make([]byte, slowSize),
		Fast: make([]byte, fastSize),
		OVL:  true,
	}
	m.RebuildPageTable()
	return m
}

// RebuildPageTable recomputes the page table from current RAM sizes, ROM
// presence and the OVL line. Called whenever RAM is resized, extended ROM
// is installed, or OVL toggles.
func (m *MemoryMap) RebuildPageTable() {
	for i := range m.pageTable {
		m.pageTable[i] = RegionUnmapped
	}

	chipPages := len(m.Chip) / 0x10000
	for p := 0; p < chipPages && p < 256; p++ {
		m.pageTable[p] = RegionChip
	}

	for p := pageFastStart; p <= pageFastEnd; p++ {
		if (p-pageFastStart)*0x10000 < len(m.Fast) {
			m.pageTable[p] = RegionFast
		}
	}
	for p := pageSlowStart; p <= pageSlowEnd; p++ {
		if (p-pageSlowStart)*0x10000 < len(m.Slow) {
			m.pageTable[p] = RegionSlow
		}
	}
	for p := pageCIAStart; p <= pageCIAEnd; p++ {
		m.pageTable[p] = RegionCIA
	}
	m.pageTable[pageRTCPage] = RegionRTC
	m.pageTable[pageCustomPage] = RegionCustom
	if len(m.ExtROM) > 0 {
		for p := pageExtStart; p <= pageExtEnd; p++ {
			m.pageTable[p] = RegionExtROM
		}
	}
	for p := pageAutoStart; p <= pageAutoEnd; p++ {
		m.pageTable[p] = RegionAutoconfig
	}
	romKind := RegionROM
	if len(m.ROM) == 0 && len(m.WOM) > 0 {
		romKind = RegionWOM
	}
	if len(m.ROM) > 0 || len(m.WOM) > 0 {
		for p := pageROMStart; p <= pageROMEnd; p++ {
			m.pageTable[p] = romKind
		}
		if m.OVL {
			for p := 0; p <= pageOverlayEnd; p++ {
				m.pageTable[p] = romKind
			}
		}
	}
}

// SetOVL applies a change to CIA A port A bit 0 and rebuilds the page table.
func (m *MemoryMap) SetOVL(overlay bool) {
	if m.OVL == overlay {
		return
	}
	m.OVL = overlay
	m.RebuildPageTable()
}

func (m *MemoryMap) regionAndBacking(addr uint32) (RegionKind, []byte, uint32) {
	page := (addr >> 16) & 0xFF
	kind := m.pageTable[page]
	switch kind {
	case RegionChip:
		return kind, m.Chip, addr % uint32(len(m.Chip))
	case RegionFast:
		base := uint32(pageFastStart) << 16
		return kind, m.Fast, addr - base
	case RegionSlow:
		base := uint32(pageSlowStart) << 16
		return kind, m.Slow, addr - base
	case RegionROM:
		base := uint32(pageROMStart) << 16
		off := (addr - base) % uint32(len(m.ROM))
		if m.OVL && page <= pageOverlayEnd {
			off = addr % uint32(len(m.ROM))
		}
		return kind, m.ROM, off
	case RegionWOM:
		base := uint32(pageROMStart) << 16
		off := (addr - base) % uint32(len(m.WOM))
		if m.OVL && page <= pageOverlayEnd {
			off = addr % uint32(len(m.WOM))
		}
		return kind, m.WOM, off
	case RegionExtROM:
		base := uint32(pageExtStart) << 16
		return kind, m.ExtROM, addr - base
	default:
		return kind, nil, 0
	}
}

// Read16 reads a big-endian word at addr, stalling the CPU on the DMA bus if
// it targets chip RAM.
func (m *MemoryMap) Read16(addr uint32) uint16 {
	addr &= 0xFFFFFF
	kind, backing, off := m.regionAndBacking(addr)
	switch kind {
	case RegionChip:
		if m.Bus != nil {
			m.Bus.ExecuteUntilBusIsFree()
		}
		return binary.BigEndian.Uint16(backing[off:])
	case RegionSlow, RegionROM, RegionWOM, RegionExtROM:
		return binary.BigEndian.Uint16(backing[off:])
	case RegionFast:
		return binary.BigEndian.Uint16(backing[off:])
	case RegionCustom:
		if m.Custom != nil {
			if v, ok := m.Custom.ReadCustom(uint16(addr & 0x1FF)); ok {
				m.dataBusValue = v
				return v
			}
		}
		return m.dataBusValue
	case RegionCIA:
		if m.CIA != nil {
			hi := uint16(m.CIA.ReadCIA(addr)) << 8
			lo := uint16(m.CIA.ReadCIA(addr + 1))
			return hi | lo
		}
		return 0
	default:
		return 0xFFFF
	}
}

// Write16 writes a big-endian word at addr, stalling the CPU on the DMA bus
// if it targets chip RAM. Writes to read-only regions (ROM, a sealed WOM,
// unmapped pages) are silently dropped.
func (m *MemoryMap) Write16(addr uint32, value uint16) {
	addr &= 0xFFFFFF
	kind, backing, off := m.regionAndBacking(addr)
	switch kind {
	case RegionChip:
		if m.Bus != nil {
			m.Bus.ExecuteUntilBusIsFree()
		}
		binary.BigEndian.PutUint16(backing[off:], value)
	case RegionSlow, RegionFast:
		binary.BigEndian.PutUint16(backing[off:], value)
	case RegionWOM:
		if !m.womWritten {
			binary.BigEndian.PutUint16(backing[off:], value)
		}
	case RegionCustom:
		if m.Custom != nil {
			if m.Custom.WriteCustom(uint16(addr&0x1FF), value) {
				m.dataBusValue = value
			}
		}
	case RegionCIA:
		if m.CIA != nil {
			m.CIA.WriteCIA(addr, uint8(value>>8))
			m.CIA.WriteCIA(addr+1, uint8(value))
		}
	default:
		// ROM, unmapped, RTC/autoconfig without a handler: dropped.
	}
}

// SealWOM marks the write-once Kickstart shadow read-only after its first
// program has been loaded into it.
func (m *MemoryMap) SealWOM() {
	m.womWritten = true
}

// Spypeek reads without side effects: no bus stall, no data-bus-value
// update, no WOM sealing interaction. Used by debuggers and snapshot code.
func (m *MemoryMap) Spypeek16(addr uint32) uint16 {
	addr &= 0xFFFFFF
	kind, backing, off := m.regionAndBacking(addr)
	switch kind {
	case RegionChip, RegionSlow, RegionFast, RegionROM, RegionWOM, RegionExtROM:
		if backing == nil || int(off)+2 > len(backing) {
			return 0
		}
		return binary.BigEndian.Uint16(backing[off:])
	default:
		return 0
	}
}

// WriteChipWord writes directly into chip RAM with wraparound, bypassing
// the bus-stall and custom-register dispatch Write16 goes through. DMA
// masters (disk, blitter) call this instead of Write16: their cycle was
// already accounted for by the bus arbiter/scheduler, and going through
// Write16's stall path would recurse back into the DMA core that is calling
// it in the first place.
func (m *MemoryMap) WriteChipWord(addr uint32, value uint16) {
	if len(m.Chip) == 0 {
		return
	}
	addr &= 0xFFFFFF
	off := addr % uint32(len(m.Chip))
	binary.BigEndian.PutUint16(m.Chip[off:], value)
}

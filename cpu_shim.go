// cpu_shim.go - the CPUBus boundary between an external 68000 core and Agnus.
//
// Grounded on cpu_m68k_runner.go's shape: a thin, mutex-guarded wrapper
// around a CPU implementation that exposes lifecycle and access methods
// rather than embedding a decoder. The core holds no persistent CPU state
// of its own (§3 "Ownership and lifecycle"); CPUShim only brokers calls
// between whatever external 68000 core the host supplies and Agnus/memory.

package amiga

import (
	"encoding/binary"
	"sync"
)

// CPUBus is the contract an external 68000 core uses to drive the chipset,
// per distilled spec §6.
type CPUBus interface {
	Sync(cycles int)
	Read8(addr uint32) uint8
	Read16(addr uint32) uint16
	Write8(addr uint32, val uint8)
	Write16(addr uint32, val uint16)
	Read16OnReset(addr uint32) uint16
}

// CPUNotifiee is the direction core -> CPU: the chipset informs the CPU of
// IPL changes and lets the host debugger react to breakpoints.
type CPUNotifiee interface {
	IRQOccurred(level int)
	BreakpointReached(pc uint32)
}

// CPUShim implements CPUBus over an Agnus and MemoryMap pair, and forwards
// core-originated notifications to whatever CPUNotifiee the host attached.
type CPUShim struct {
	mu sync.Mutex

	Agnus *Agnus
	Mem   *MemoryMap
	CPU   CPUNotifiee
}

// NewCPUShim wires a shim to the given Agnus/memory pair.
func NewCPUShim(agnus *Agnus, mem *MemoryMap) *CPUShim {
	return &CPUShim{Agnus: agnus, Mem: mem}
}

// Sync declares that the CPU has consumed cycles CPU clocks and asks the
// chipset to catch up to that point in time.
func (s *CPUShim) Sync(cycles int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Agnus.ExecuteUntil(s.Agnus.Clock + Cycle(cycles)*CyclesPerCPUCycle)
}

// Read16 performs a word read, stalling on chip RAM via Agnus as needed.
func (s *CPUShim) Read16(addr uint32) uint16 {
	return s.Mem.Read16(addr)
}

// Write16 performs a word write, stalling on chip RAM via Agnus as needed.
func (s *CPUShim) Write16(addr uint32, val uint16) {
	s.Mem.Write16(addr, val)
}

// Read8 performs a byte read. The 68000 bus has no independent byte path;
// a byte access is a word access that uses only the addressed half.
func (s *CPUShim) Read8(addr uint32) uint8 {
	word := s.Mem.Read16(addr &^ 1)
	if addr&1 == 0 {
		return uint8(word >> 8)
	}
	return uint8(word)
}

// Write8 performs a byte write via read-modify-write of the containing word.
func (s *CPUShim) Write8(addr uint32, val uint8) {
	aligned := addr &^ 1
	word := s.Mem.Read16(aligned)
	if addr&1 == 0 {
		word = uint16(val)<<8 | (word & 0x00FF)
	} else {
		word = (word & 0xFF00) | uint16(val)
	}
	s.Mem.Write16(aligned, word)
}

// Read16OnReset reads chip RAM directly, bypassing the OVL-driven ROM
// overlay, for the brief reset-vector fetch window before the CPU has
// toggled OVL off.
func (s *CPUShim) Read16OnReset(addr uint32) uint16 {
	addr &= 0xFFFFFF
	if int(addr)+2 <= len(s.Mem.Chip) {
		return binary.BigEndian.Uint16(s.Mem.Chip[addr:])
	}
	return s.Mem.Read16(addr)
}

// NotifyIRQ forwards an IPL change to the attached CPU, if any.
func (s *CPUShim) NotifyIRQ(level int) {
	if s.CPU != nil {
		s.CPU.IRQOccurred(level)
	}
}

// NotifyBreakpoint forwards a breakpoint hit to the attached CPU's host
// debugger hook, if any.
func (s *CPUShim) NotifyBreakpoint(pc uint32) {
	if s.CPU != nil {
		s.CPU.BreakpointReached(pc)
	}
}

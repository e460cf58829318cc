// bus_arbiter.go - per-cycle chip-bus ownership.
//
// Grounded on distilled spec §4.2: exactly one owner may hold a given hpos
// slot. Precedence between simultaneous requesters is fixed: refresh, disk,
// audio, bitplane, sprite, copper, blitter, cpu - the CPU only gets the bus
// in cycles nothing else wants it. Three consecutive CPU denials raise the
// "bls" (blitter slowdown) signal, which the blitter reads to implement the
// "blitter nasty" mode.

package amiga

// BusSlot records who drove a given hpos and what 16-bit value they put on
// the bus (needed by custom-register read-back of "last value driven").
type BusSlot struct {
	Owner BusOwner
	Value uint16
}

// Want is one requester's bid for the bus at the current cycle. Callers
// build a slice in priority order (highest precedence first) and hand it to
// Arbitrate.
type Want struct {
	Owner BusOwner
	Need  bool
}

// PriorityOrder is the canonical precedence used to build a Want slice:
// refresh, disk, audio 0-3, bitplane 1-6, sprite 0-7, copper, blitter, cpu.
var PriorityOrder = []BusOwner{
	OwnerRefresh, OwnerDisk,
	OwnerAudio0, OwnerAudio1, OwnerAudio2, OwnerAudio3,
	OwnerBPL1, OwnerBPL2, OwnerBPL3, OwnerBPL4, OwnerBPL5, OwnerBPL6,
	OwnerSprite0, OwnerSprite1, OwnerSprite2, OwnerSprite3,
	OwnerSprite4, OwnerSprite5, OwnerSprite6, OwnerSprite7,
	OwnerCopper, OwnerBlitter, OwnerCPU,
}

// BusArbiter tracks, for the current raster line, which owner drove each
// hpos slot, and the CPU-denial streak that feeds the bls signal.
type BusArbiter struct {
	Slots           [HposCountLong]BusSlot
	cpuDenialStreak int
	Bls             bool
}

// NewBusArbiter returns an arbiter with every slot free.
func NewBusArbiter() *BusArbiter {
	a := &BusArbiter{}
	a.Reset()
	return a
}

// Reset clears every slot and the denial streak. Called on power-on.
func (a *BusArbiter) Reset() {
	for i := range a.Slots {
		a.Slots[i] = BusSlot{}
	}
	a.cpuDenialStreak = 0
	a.Bls = false
}

// ClearLine empties the slot array for the next line, preserving the
// cross-line CPU denial streak (the streak counts consecutive cycles, not
// consecutive lines, and a line boundary does not reset it).
func (a *BusArbiter) ClearLine() {
	for i := range a.Slots {
		a.Slots[i] = BusSlot{}
	}
}

// Owner reports who currently holds hpos, or OwnerNone if it is free.
func (a *BusArbiter) Owner(hpos int) BusOwner {
	return a.Slots[hpos].Owner
}

// Arbitrate resolves one cycle's contention for hpos among wants, in the
// order given (PriorityOrder is the canonical order; callers may pass a
// reordered or filtered slice for testing). Returns the winning owner, or
// OwnerNone if nobody wanted the slot. A CPU request that loses increments
// the denial streak and raises Bls once it reaches three; a CPU request
// that wins resets both.
func (a *BusArbiter) Arbitrate(hpos int, wants []Want) BusOwner {
	if a.Slots[hpos].Owner == OwnerNone {
		for _, w := range wants {
			if w.Need {
				a.Slots[hpos].Owner = w.Owner
				if w.Owner == OwnerCPU {
					a.cpuDenialStreak = 0
					a.Bls = false
					return w.Owner
				}
				break
			}
		}
	}
	for _, w := range wants {
		if w.Owner == OwnerCPU && w.Need {
			a.cpuDenialStreak++
			if a.cpuDenialStreak >= 3 {
				a.Bls = true
			}
		}
	}
	return a.Slots[hpos].Owner
}

// SetValue records the 16-bit value driven onto the bus by the current
// slot's owner, for custom-register "last data bus value" read-back.
func (a *BusArbiter) SetValue(hpos int, value uint16) {
	a.Slots[hpos].Value = value
}

// interrupt.go - Paula's interrupt controller.
//
// Grounded on distilled spec §4.8. The original's equivalent C++ source was
// not present in the retrieved reference pack (see DESIGN.md's per-module
// ledger), so the set/clear write semantics, priority-level computation and
// four-cycle delay pipeline are implemented directly from the spec prose.

package amiga

// Interrupt source bit positions within INTENA/INTREQ.
const (
	IntTBE     = 1 << 0  // serial transmit buffer empty
	IntDSKBLK  = 1 << 1  // disk DMA block done
	IntSOFT    = 1 << 2  // software-triggered
	IntPORTS   = 1 << 3  // CIA A (and external ports)
	IntCOPER   = 1 << 4  // copper
	IntVERTB   = 1 << 5  // vertical blank
	IntBLIT    = 1 << 6  // blitter done
	IntAUD0    = 1 << 7
	IntAUD1    = 1 << 8
	IntAUD2    = 1 << 9
	IntAUD3    = 1 << 10
	IntRBF     = 1 << 11 // serial receive buffer full
	IntDSKSYNC = 1 << 12
	IntEXTER   = 1 << 13 // CIA B / external
	intMasterEnable = 1 << 14
	intSetClear     = 1 << 15
)

// levelMask maps CPU interrupt priority levels 1..6 to the INTENA/INTREQ
// bits that can raise them (index 0 is unused).
var levelMask = [7]uint16{
	0,
	IntTBE | IntDSKBLK | IntSOFT,
	IntPORTS,
	IntCOPER | IntVERTB | IntBLIT,
	IntAUD0 | IntAUD1 | IntAUD2 | IntAUD3,
	IntRBF | IntDSKSYNC,
	IntEXTER,
}

// pendingSource is a deferred interrupt request that becomes visible in
// Intreq only once its trigger cycle arrives.
type pendingSource struct {
	bit     uint16
	trigger Cycle
}

// InterruptController is Paula's INTENA/INTREQ pair plus the four-cycle
// delay pipeline that carries the computed priority level to the CPU.
type InterruptController struct {
	Intena uint16
	Intreq uint16

	pipeline [4]int
	pending  []pendingSource
}

// NewInterruptController returns a controller with everything masked off.
func NewInterruptController() *InterruptController {
	return &InterruptController{}
}

// Reset clears both words, the pipeline and any deferred sources.
func (ic *InterruptController) Reset() {
	ic.Intena = 0
	ic.Intreq = 0
	ic.pipeline = [4]int{}
	ic.pending = nil
}

// applySetClear implements the bit-15 write convention shared by both
// registers: bit 15 set means OR the low 15 bits in, clear means AND them
// out.
func applySetClear(reg uint16, write uint16) uint16 {
	bits := write &^ intSetClear
	if write&intSetClear != 0 {
		return reg | bits
	}
	return reg &^ bits
}

// WriteIntena applies a write to INTENA.
func (ic *InterruptController) WriteIntena(value uint16) {
	ic.Intena = applySetClear(ic.Intena, value)
}

// WriteIntreq applies a write to INTREQ. Software may both set and clear
// request bits this way (e.g. IntSOFT).
func (ic *InterruptController) WriteIntreq(value uint16) {
	ic.Intreq = applySetClear(ic.Intreq, value)
}

// Raise sets a request bit immediately (used by sources with no modeled
// propagation delay, e.g. a CIA pin change observed the same cycle).
func (ic *InterruptController) Raise(bit uint16) {
	ic.Intreq |= bit
}

// ScheduleSource defers a request bit until the given cycle, for sources
// (e.g. "disk operation promises to complete") whose completion is known in
// advance. The IRQ_CHECK event slot calls Service each cycle to promote due
// sources.
func (ic *InterruptController) ScheduleSource(bit uint16, trigger Cycle) {
	ic.pending = append(ic.pending, pendingSource{bit: bit, trigger: trigger})
}

// Service promotes any deferred sources whose trigger has arrived into
// Intreq, and should be called once per master cycle from the IRQ_CHECK slot.
func (ic *InterruptController) Service(cycle Cycle) {
	if len(ic.pending) == 0 {
		return
	}
	kept := ic.pending[:0]
	for _, p := range ic.pending {
		if p.trigger <= cycle {
			ic.Intreq |= p.bit
		} else {
			kept = append(kept, p)
		}
	}
	ic.pending = kept
}

// computeLevel returns the CPU interrupt priority level (1-6) implied by the
// current INTENA/INTREQ state, or 0 if none is pending or the master enable
// bit is clear.
func (ic *InterruptController) computeLevel() int {
	if ic.Intena&intMasterEnable == 0 {
		return 0
	}
	active := ic.Intena & ic.Intreq & 0x3FFF
	for lvl := 6; lvl >= 1; lvl-- {
		if active&levelMask[lvl] != 0 {
			return lvl
		}
	}
	return 0
}

// Tick advances the four-cycle delay pipeline by one master cycle, pushing
// the freshly computed level in and returning the level that is now visible
// to the CPU (the head of the pipeline): a level change made before a Tick
// call becomes visible on the fourth call.
func (ic *InterruptController) Tick() int {
	copy(ic.pipeline[0:3], ic.pipeline[1:4])
	ic.pipeline[3] = ic.computeLevel()
	return ic.pipeline[0]
}

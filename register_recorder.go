// register_recorder.go - deferred register write queue.
//
// Grounded on distilled spec §4.5 and the re-architecture note in §9: the
// original's cycle-accurate event recorder is a tiny fixed-capacity sorted
// ring buffer (n <= 8). Reimplemented here as a fixed array used as a ring
// with a head index and a length, and O(n) sorted insertion rather than a
// generic container, since capacity never exceeds 8.

package amiga

import "fmt"

// recorderCapacity bounds how many deferred writes may be outstanding at
// once. Amiga registers delay at most 4 DMA cycles and pointer writes use at
// most 2 stages each, so 8 slots comfortably covers every register this core
// delays; exceeding it means a caller scheduled writes faster than the
// recorder can drain them, which is a fatal precondition violation per §7.
const recorderCapacity = 8

// RegChange is one deferred register write. Extra carries a sub-address for
// registers that repeat per-plane or per-sprite (e.g. RegBPLPTHBase+2 for
// plane 2's pointer high word uses Extra=2). Stage distinguishes the two
// halves of a pointer-register write; Stage 0 means "not a staged write".
type RegChange struct {
	Trigger Cycle
	Reg     RegID
	Value   uint16
	Extra   int
	Stage   int
}

// RegisterRecorder is Agnus's deferred-write queue. At the top of every DMA
// cycle, PopDue drains every entry whose trigger has arrived so Agnus can
// apply them via its setXXX dispatch.
type RegisterRecorder struct {
	buf  [recorderCapacity]RegChange
	head int
	len  int
}

// NewRegisterRecorder returns an empty recorder.
func NewRegisterRecorder() *RegisterRecorder {
	return &RegisterRecorder{}
}

// Reset empties the recorder.
func (r *RegisterRecorder) Reset() {
	r.head = 0
	r.len = 0
}

// Len reports how many writes are currently pending.
func (r *RegisterRecorder) Len() int { return r.len }

func (r *RegisterRecorder) at(i int) RegChange {
	return r.buf[(r.head+i)%recorderCapacity]
}

func (r *RegisterRecorder) set(i int, v RegChange) {
	r.buf[(r.head+i)%recorderCapacity] = v
}

// Record inserts a deferred write, keeping the buffer sorted by Trigger
// (ties preserve insertion order, i.e. FIFO among same-cycle writes).
func (r *RegisterRecorder) Record(trigger Cycle, reg RegID, value uint16, extra int) {
	r.insert(RegChange{Trigger: trigger, Reg: reg, Value: value, Extra: extra})
}

// RecordStaged is Record plus a Stage tag, used for the two-stage pointer
// register writes described in §4.5.
func (r *RegisterRecorder) RecordStaged(trigger Cycle, reg RegID, value uint16, extra, stage int) {
	r.insert(RegChange{Trigger: trigger, Reg: reg, Value: value, Extra: extra, Stage: stage})
}

func (r *RegisterRecorder) insert(e RegChange) {
	if r.len >= recorderCapacity {
		panic(fmt.Sprintf("register recorder overflow: capacity %d exceeded by write to reg %d", recorderCapacity, e.Reg))
	}
	pos := r.len
	for pos > 0 && r.at(pos-1).Trigger > e.Trigger {
		pos--
	}
	for i := r.len; i > pos; i-- {
		r.set(i, r.at(i-1))
	}
	r.set(pos, e)
	r.len++
}

// PopDue removes and returns every entry whose Trigger is at or before
// cycle, in nondecreasing Trigger order (the sort invariant guarantees they
// are already at the front of the buffer).
func (r *RegisterRecorder) PopDue(cycle Cycle) []RegChange {
	var out []RegChange
	for r.len > 0 && r.at(0).Trigger <= cycle {
		out = append(out, r.at(0))
		r.head = (r.head + 1) % recorderCapacity
		r.len--
	}
	return out
}

// DropSecondStage removes a still-pending Stage-2 entry for (reg, extra), if
// one exists, without applying it. This implements the "pointer drop"
// hardware quirk: when DMA reads a pointer register on the cycle between its
// two write stages, the second stage never lands. Returns true if an entry
// was dropped.
func (r *RegisterRecorder) DropSecondStage(reg RegID, extra int) bool {
	for i := 0; i < r.len; i++ {
		e := r.at(i)
		if e.Reg == reg && e.Extra == extra && e.Stage == 2 {
			for j := i; j < r.len-1; j++ {
				r.set(j, r.at(j+1))
			}
			r.len--
			return true
		}
	}
	return false
}

// Peek returns the earliest pending entry without removing it, and whether
// one exists.
func (r *RegisterRecorder) Peek() (RegChange, bool) {
	if r.len == 0 {
		return RegChange{}, false
	}
	return r.at(0), true
}

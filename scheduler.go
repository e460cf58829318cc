// scheduler.go - event slot array and the hot dispatch loop.
//
// Grounded on original_source/Emulator/Agnus/Scheduler.h: event slots are
// grouped into primary/secondary/tertiary tiers so the hot loop only scans
// the primary trigger cycles; a slot in a lower tier is only consulted once
// its tier's "gate" slot (itself a primary/secondary slot) goes due. Every
// scheduling operation must therefore keep each gate slot's trigger cycle at
// or below the minimum of its tier - that is the invariant tested in
// scheduler_test.go.

package amiga

// Slot indices. Primary slots are scanned every cycle; secondary slots are
// only examined once SlotSecGate is due; tertiary slots only once SlotTerGate
// is due (itself a secondary slot).
const (
	// Primary slots (8)
	SlotRegChange = iota
	SlotCIAA
	SlotCIAB
	SlotBPL
	SlotDAS
	SlotCopper
	SlotBlitter
	SlotSecGate // gates the secondary tier
	numPrimarySlots

	// Secondary slots (13), numbered on from where primary ends
	SlotAudio0 = iota - 1
	SlotAudio1
	SlotAudio2
	SlotAudio3
	SlotDisk
	SlotVBL
	SlotIRQCheck
	SlotIRQPipeline
	SlotKeyboard
	SlotSerialTX
	SlotSerialRX
	SlotPotentiometer
	SlotTerGate // gates the tertiary tier
	numSecondarySlots = iota - 1 - numPrimarySlots

	// Tertiary slots (10)
	SlotDiskChange0 = iota - 2
	SlotDiskChange1
	SlotDiskChange2
	SlotDiskChange3
	SlotMouse0
	SlotMouse1
	SlotAutoType
	SlotRemote
	SlotInspector
	SlotRasterlineEnd
	numTertiarySlots = iota - 2 - numPrimarySlots - numSecondarySlots
)

// NumSlots is the total size of the slot array.
const NumSlots = numPrimarySlots + numSecondarySlots + numTertiarySlots

func isPrimarySlot(s int) bool   { return s < numPrimarySlots }
func isSecondarySlot(s int) bool { return s >= numPrimarySlots && s < numPrimarySlots+numSecondarySlots }
func isTertiarySlot(s int) bool  { return s >= numPrimarySlots+numSecondarySlots }

// EventSlot holds at most one pending event.
type EventSlot struct {
	TriggerCycle Cycle
	ID           EventID
	Data         int64
}

// Handler is invoked when a slot's event becomes due. It receives the event
// id and data word stored alongside the event and returns nothing; handlers
// reschedule themselves (or cancel) as a side effect.
type Handler func(id EventID, data int64)

// Scheduler owns the slot array exclusively; nothing outside schedule*/cancel
// below may mutate a slot's trigger cycle or id directly.
type Scheduler struct {
	Slot        [NumSlots]EventSlot
	NextTrigger Cycle
	handlers    [NumSlots]Handler
}

// NewScheduler returns a scheduler with every slot empty.
func NewScheduler() *Scheduler {
	s := &Scheduler{}
	s.Reset()
	return s
}

// Reset empties every slot and clears NextTrigger.
func (s *Scheduler) Reset() {
	for i := range s.Slot {
		s.Slot[i] = EventSlot{TriggerCycle: NEVER, ID: EventNone}
	}
	s.NextTrigger = NEVER
}

// SetHandler registers the function to invoke when slot s's event fires.
func (s *Scheduler) SetHandler(slot int, h Handler) {
	s.handlers[slot] = h
}

func (s *Scheduler) bumpGates(slot int, cycle Cycle) {
	if isSecondarySlot(slot) && cycle < s.Slot[SlotSecGate].TriggerCycle {
		s.Slot[SlotSecGate].TriggerCycle = cycle
	}
	if isTertiarySlot(slot) {
		if cycle < s.Slot[SlotSecGate].TriggerCycle {
			s.Slot[SlotSecGate].TriggerCycle = cycle
		}
		if cycle < s.Slot[SlotTerGate].TriggerCycle {
			s.Slot[SlotTerGate].TriggerCycle = cycle
		}
	}
}

// ScheduleAbs sets slot's trigger to the absolute cycle and id, preserving
// the gate invariant and the NextTrigger cache.
func (s *Scheduler) ScheduleAbs(slot int, cycle Cycle, id EventID) {
	s.Slot[slot].TriggerCycle = cycle
	s.Slot[slot].ID = id
	if cycle < s.NextTrigger {
		s.NextTrigger = cycle
	}
	s.bumpGates(slot, cycle)
}

// ScheduleAbsData is ScheduleAbs plus a data word.
func (s *Scheduler) ScheduleAbsData(slot int, cycle Cycle, id EventID, data int64) {
	s.ScheduleAbs(slot, cycle, id)
	s.Slot[slot].Data = data
}

// ScheduleRel schedules relative to the supplied current clock.
func (s *Scheduler) ScheduleRel(slot int, now Cycle, delta Cycle, id EventID) {
	s.ScheduleAbs(slot, now+delta, id)
}

// ScheduleRelData is ScheduleRel plus a data word.
func (s *Scheduler) ScheduleRelData(slot int, now Cycle, delta Cycle, id EventID, data int64) {
	s.ScheduleAbsData(slot, now+delta, id, data)
}

// ScheduleInc schedules delta cycles after the slot's own previous trigger.
func (s *Scheduler) ScheduleInc(slot int, delta Cycle, id EventID) {
	s.ScheduleAbs(slot, s.Slot[slot].TriggerCycle+delta, id)
}

// Cancel empties a slot. NextTrigger is left stale (it is always recomputed
// from scratch within ExecuteUntil after a dispatch, and CancelRecompute is
// available when an immediate recompute is required, e.g. in tests).
func (s *Scheduler) Cancel(slot int) {
	s.Slot[slot].TriggerCycle = NEVER
	s.Slot[slot].ID = EventNone
	s.Slot[slot].Data = 0
}

// CancelRecompute takes no slot: called after Cancel, it immediately
// recomputes NextTrigger from the primary tier, restoring it to what it would have been had the
// cancelled event never been scheduled. This is the operation exercised by
// the "schedule then cancel" idempotence law in SPEC_FULL.md §8.
func (s *Scheduler) CancelRecompute() {
	s.recomputeNextTrigger()
}

func (s *Scheduler) recomputeNextTrigger() {
	min := NEVER
	for i := 0; i < numPrimarySlots; i++ {
		if s.Slot[i].TriggerCycle < min {
			min = s.Slot[i].TriggerCycle
		}
	}
	s.NextTrigger = min
}

// dueSlotInTier returns the lowest-indexed slot in [lo,hi) whose trigger
// cycle is <= cycle, or -1 if none is due. Ties are broken by slot index per
// the ordering guarantee in SPEC_FULL.md §5.
func (s *Scheduler) dueSlotInTier(lo, hi int, cycle Cycle) int {
	best := -1
	bestCycle := NEVER
	for i := lo; i < hi; i++ {
		if s.Slot[i].ID != EventNone && s.Slot[i].TriggerCycle <= cycle && s.Slot[i].TriggerCycle < bestCycle {
			best = i
			bestCycle = s.Slot[i].TriggerCycle
		}
	}
	return best
}

// dispatchOnce finds and runs the single earliest due event at or before
// cycle, across whichever tiers are currently gated open, and returns the
// cycle it fired at (or NEVER if nothing was due).
func (s *Scheduler) dispatchOnce(cycle Cycle) Cycle {
	hi := numPrimarySlots
	if s.Slot[SlotSecGate].TriggerCycle <= cycle {
		hi = numPrimarySlots + numSecondarySlots
	}
	tertiaryOpen := hi > numPrimarySlots && s.Slot[SlotTerGate].TriggerCycle <= cycle
	if tertiaryOpen {
		hi = NumSlots
	}

	slot := s.dueSlotInTier(0, hi, cycle)
	if slot < 0 {
		// A gate with no event of its own is lifted to the earliest pending
		// lower-tier trigger, so it cannot hold NextTrigger at this cycle.
		if s.Slot[SlotSecGate].ID == EventNone {
			next := NEVER
			for i := numPrimarySlots; i < NumSlots; i++ {
				if s.Slot[i].ID != EventNone && s.Slot[i].TriggerCycle < next {
					next = s.Slot[i].TriggerCycle
				}
			}
			s.Slot[SlotSecGate].TriggerCycle = next
		}
		return NEVER
	}

	fired := s.Slot[slot].TriggerCycle
	id := s.Slot[slot].ID
	data := s.Slot[slot].Data
	// Handlers are expected to reschedule or cancel their own slot; clear
	// first so a handler that does nothing leaves the slot empty rather than
	// re-firing forever.
	s.Slot[slot].ID = EventNone
	s.Slot[slot].TriggerCycle = NEVER
	if h := s.handlers[slot]; h != nil {
		h(id, data)
	}
	return fired
}

// ExecuteUntil dispatches every due event at or before target, in strictly
// nondecreasing trigger-cycle order (ties broken by slot index). It returns
// nothing; the caller advances its own clock.
func (s *Scheduler) ExecuteUntil(target Cycle) {
	for s.NextTrigger <= target {
		s.dispatchOnce(s.NextTrigger)
		s.recomputeNextTrigger()
	}
}

// IsPending reports whether slot holds an event (regardless of due-ness).
func (s *Scheduler) IsPending(slot int) bool {
	return s.Slot[slot].ID != EventNone
}

// IsDue reports whether slot's event is due at the given cycle.
func (s *Scheduler) IsDue(slot int, cycle Cycle) bool {
	return s.Slot[slot].ID != EventNone && s.Slot[slot].TriggerCycle <= cycle
}

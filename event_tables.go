// event_tables.go - per-line DMA event tables and their O(1) jump tables.
//
// Grounded on distilled spec §4.2 and original_source/Emulator/Agnus/Sequencer:
// bplEvent/dasEvent give, for every hpos slot in a line, which DMA activity
// (if any) owns that slot; nextBplEvent/nextDasEvent let the hot loop jump
// straight to the next non-idle slot instead of scanning one hpos at a time.
// Both tables are rebuilt only at HSYNC, driven by the hsyncActions bitmask,
// never recomputed per-cycle.

package amiga

// HsyncAction is a bitmask of table-rebuild work queued for the next HSYNC.
type HsyncAction uint8

const (
	PredictDDF       HsyncAction = 1 << iota // recompute ddfLores/ddfHires ranges
	UpdateBplTable                           // rewrite bplEvent/nextBplEvent
	UpdateDasTable                           // rewrite dasEvent/nextDasEvent
	UpdateSigRecorder                        // rebuild the intra-line signal record
)

// Real DMACON bit positions (OCS/ECS Agnus).
const (
	dmaconAUD0EN = 1 << 0
	dmaconAUD1EN = 1 << 1
	dmaconAUD2EN = 1 << 2
	dmaconAUD3EN = 1 << 3
	dmaconDSKEN  = 1 << 4
	dmaconSPREN  = 1 << 5
	dmaconBLTEN  = 1 << 6
	dmaconCOPEN  = 1 << 7
	dmaconBPLEN  = 1 << 8
	dmaconDMAEN  = 1 << 9 // master enable
)

// DDFRange is an inclusive-low, exclusive-high display-data-fetch window,
// aligned to the active resolution (mod 8 lores, mod 4 hires). OCS Agnus
// does not distinguish odd/even fields, so StrtOdd==StrtEven and
// StopOdd==StopEven here; the split fields are kept so a future ECS/ACA500
// lace-aware model has somewhere to live without changing callers.
type DDFRange struct {
	StrtOdd, StrtEven int
	StopOdd, StopEven int
}

// bplHardStart and bplHardStop are the hardware clamps on DDFSTRT/DDFSTOP,
// 0x18 and 0xD8 DMA slots respectively.
const (
	bplHardStart = 0x18
	bplHardStop  = 0xD8
)

func roundUp(v, align int) int {
	if r := v % align; r != 0 {
		return v + (align - r)
	}
	return v
}

// ComputeDDF applies the OCS rounding/clamping rules to raw DDFSTRT/DDFSTOP
// register contents and returns the resulting fetch window.
func ComputeDDF(ddfstrt, ddfstop int, hires bool) DDFRange {
	align := 8
	if hires {
		align = 4
	}
	strt := roundUp(ddfstrt, align)
	if strt < bplHardStart {
		strt = bplHardStart
	}
	stop := ddfstop
	if stop < bplHardStart {
		stop = bplHardStart
	}
	if stop > bplHardStop {
		stop = bplHardStop
	}
	stop = roundUp(stop, align)
	return DDFRange{StrtOdd: strt, StrtEven: strt, StopOdd: stop, StopEven: stop}
}

// BplSlot describes the bitplane DMA activity, if any, at one hpos.
type BplSlot struct {
	Plane int  // 1..6, 0 = idle
	Shift bool // shift the odd/even playfield shift registers after this fetch
	Last  bool // last active bitplane slot of the line
}

// DasKind enumerates what a non-bitplane DMA slot is used for.
type DasKind int

const (
	DasNone DasKind = iota
	DasRefresh
	DasDisk
	DasAudio0
	DasAudio1
	DasAudio2
	DasAudio3
	DasSprite0
	DasSprite1
	DasSprite2
	DasSprite3
	DasSprite4
	DasSprite5
	DasSprite6
	DasSprite7
)

// DasSlot describes the non-bitplane DMA activity, if any, at one hpos.
type DasSlot struct {
	Kind DasKind
}

// refreshSlots are the four fixed memory-refresh slots at the start of every
// line, before any other DMA channel is permitted to run.
var refreshSlots = [4]int{0x01, 0x03, 0x05, 0x07}

// audioSlotBase is the fixed hpos of channel 0's audio DMA slot; channels
// 1..3 follow at one DMA slot each.
const audioSlotBase = 0x0D

// diskSlotBase is the fixed hpos of the first of the three disk DMA slots.
const diskSlotBase = 0x09

// spriteSlotBase is the fixed hpos of sprite 0's two-slot (pos+ctl, then
// data) fetch window; each sprite occupies two consecutive slots, eight
// sprites after the end of the audio/disk slots, every line in the sprite
// DMA region (0x15..0x35 in real hardware terms, approximated here).
const spriteSlotBase = 0x15

// EventTables holds the per-line bitplane and DAS DMA tables plus their jump
// tables, and the current DDF ranges they were derived from. Owned by Agnus;
// mutated only from the HSYNC handler (or on receipt of an hsyncActions
// rebuild request raised by a register write that takes effect at the next
// line boundary).
type EventTables struct {
	BplEvent     [HposCountLong]BplSlot
	NextBplEvent [HposCountLong]int
	DasEvent     [HposCountLong]DasSlot
	NextDasEvent [HposCountLong]int

	DDFLores DDFRange
	DDFHires DDFRange

	Pending HsyncAction
}

// NewEventTables returns an EventTables with both tables idle.
func NewEventTables() *EventTables {
	t := &EventTables{}
	t.Reset()
	return t
}

// Reset idles both tables and clears any pending rebuild request.
func (t *EventTables) Reset() {
	for i := range t.BplEvent {
		t.BplEvent[i] = BplSlot{}
		t.NextBplEvent[i] = -1
	}
	for i := range t.DasEvent {
		t.DasEvent[i] = DasSlot{}
		t.NextDasEvent[i] = -1
	}
	t.DDFLores = DDFRange{}
	t.DDFHires = DDFRange{}
	t.Pending = 0
}

// Request OR's the given actions into the pending rebuild mask.
func (t *EventTables) Request(actions HsyncAction) {
	t.Pending |= actions
}

// RebuildDDF recomputes both resolution's DDF ranges from the raw register
// contents. Called unconditionally at HSYNC when PredictDDF is pending.
func (t *EventTables) RebuildDDF(ddfstrt, ddfstop int) {
	t.DDFLores = ComputeDDF(ddfstrt, ddfstop, false)
	t.DDFHires = ComputeDDF(ddfstrt, ddfstop, true)
}

// RebuildBplTable rewrites bplEvent (and its jump table) for the next line
// from the (hires, bpu, scroll) tuple and the already-current DDF range.
// Active planes are fetched round-robin across the DDF window, one plane
// fetch per DMA slot in hires and one every other slot in lores, which
// reproduces the fetch bandwidth real Agnus needs without modeling the
// exact odd/even plane interleave order (the spec's contract only requires
// correct plane/shift/end-of-line signaling, not a literal hardware
// permutation).
func (t *EventTables) RebuildBplTable(hires bool, bpu int, scroll int) {
	for i := range t.BplEvent {
		t.BplEvent[i] = BplSlot{}
	}
	if bpu <= 0 {
		t.rebuildBplJumpTable()
		return
	}
	if bpu > 6 {
		bpu = 6
	}

	ddf := t.DDFLores
	interval := 2
	if hires {
		ddf = t.DDFHires
		interval = 1
	}

	lastIdx := -1
	plane := 1
	start := ddf.StrtOdd + (scroll % interval)
	for idx := start; idx < ddf.StopOdd && idx < len(t.BplEvent); idx += interval {
		t.BplEvent[idx] = BplSlot{Plane: plane, Shift: true}
		lastIdx = idx
		plane++
		if plane > bpu {
			plane = 1
		}
	}
	if lastIdx >= 0 {
		t.BplEvent[lastIdx].Last = true
	}
	t.rebuildBplJumpTable()
}

// RebuildDasTable rewrites dasEvent (and its jump table) for the next line
// from DMACON's six per-channel enable bits plus the master enable bit.
func (t *EventTables) RebuildDasTable(dmacon uint16) {
	for i := range t.DasEvent {
		t.DasEvent[i] = DasSlot{}
	}
	if dmacon&dmaconDMAEN == 0 {
		t.rebuildDasJumpTable()
		return
	}

	for _, h := range refreshSlots {
		t.DasEvent[h] = DasSlot{Kind: DasRefresh}
	}
	if dmacon&dmaconDSKEN != 0 {
		for i := 0; i < 3; i++ {
			t.DasEvent[diskSlotBase+i] = DasSlot{Kind: DasDisk}
		}
	}
	audioKinds := [4]DasKind{DasAudio0, DasAudio1, DasAudio2, DasAudio3}
	audioBits := [4]uint16{dmaconAUD0EN, dmaconAUD1EN, dmaconAUD2EN, dmaconAUD3EN}
	for i := 0; i < 4; i++ {
		if dmacon&audioBits[i] != 0 {
			t.DasEvent[audioSlotBase+i] = DasSlot{Kind: audioKinds[i]}
		}
	}
	if dmacon&dmaconSPREN != 0 {
		spriteKinds := [8]DasKind{DasSprite0, DasSprite1, DasSprite2, DasSprite3, DasSprite4, DasSprite5, DasSprite6, DasSprite7}
		for s := 0; s < 8; s++ {
			base := spriteSlotBase + s*2
			if base+1 >= len(t.DasEvent) {
				break
			}
			t.DasEvent[base] = DasSlot{Kind: spriteKinds[s]}
			t.DasEvent[base+1] = DasSlot{Kind: spriteKinds[s]}
		}
	}
	t.rebuildDasJumpTable()
}

// rebuildBplJumpTable repairs NextBplEvent in a single backward scan so that
// NextBplEvent[i] is the smallest j >= i with a non-idle plane, or -1.
func (t *EventTables) rebuildBplJumpTable() {
	next := -1
	for i := len(t.BplEvent) - 1; i >= 0; i-- {
		if t.BplEvent[i].Plane != 0 {
			next = i
		}
		t.NextBplEvent[i] = next
	}
}

// rebuildDasJumpTable is the DAS-table analogue of rebuildBplJumpTable.
func (t *EventTables) rebuildDasJumpTable() {
	next := -1
	for i := len(t.DasEvent) - 1; i >= 0; i-- {
		if t.DasEvent[i].Kind != DasNone {
			next = i
		}
		t.NextDasEvent[i] = next
	}
}

// RepairBplJumpFrom rewrites the bitplane jump table from hpos rightward
// only, used when a mid-line register change (resolution, bitplane count, or
// scroll) mutates the suffix of the current line's bplEvent table in place
// rather than waiting for the next HSYNC.
func (t *EventTables) RepairBplJumpFrom(hpos int) {
	next := -1
	for i := len(t.BplEvent) - 1; i >= hpos && i >= 0; i-- {
		if t.BplEvent[i].Plane != 0 {
			next = i
		}
		t.NextBplEvent[i] = next
	}
}

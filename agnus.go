// agnus.go - the DMA/raster state machine.
//
// Grounded on distilled spec §4.3/§4.4 and original_source/Emulator/Agnus/
// Agnus.h (beam position fields, hsyncActions bitmask, DDF/DIW flipflops).
// Agnus is the conductor: it owns the beam, the scheduler, the event
// tables, the bus arbiter and the register recorder, and drives them all
// one master cycle at a time from Execute.

package amiga

// DIWState is the display-window flipflop pair.
type DIWState struct {
	HFlop bool
	VFlop bool

	Hstrt, Hstop int
	Vstrt, Vstop int
}

// AgnusRevision selects chip-RAM addressability and the DDF register bit
// mask, per distilled spec §6.
type AgnusRevision int

const (
	Agnus8367 AgnusRevision = iota // OCS, 512 KiB chip RAM
	Agnus8372                      // ECS, 1 MB
	Agnus8375                      // ECS, 2 MB
)

// RegisterSink receives the resolved value of a deferred register write.
// Agnus is the owner/dispatcher (SetReg is its own dispatch target); Denise
// and Paula register listeners are attached through DeniseSink/PaulaSink so
// Agnus does not import those packages' types.
type RegisterSink interface {
	SetReg(reg RegID, extra int, oldValue, newValue uint16)
}

// Agnus is the DMA/raster core. All fields are held by value inside the
// Amiga aggregate; Agnus never holds a pointer back to Amiga, only to the
// narrow sinks it needs to notify (§9 design note: single owning aggregate,
// no back-reference object graph).
type Agnus struct {
	Clock Cycle
	Beam  Beam

	Scheduler *Scheduler
	Tables    *EventTables
	Bus       *BusArbiter
	Recorder  *RegisterRecorder

	Revision AgnusRevision

	DMACON uint16
	DDFSTRT, DDFSTOP int
	BPLCON0Agnus     uint16
	Hires            bool
	BPU              int
	Scroll           int

	DIW DIWState

	Sprites [8]SpriteUnit

	BPLPT [6]uint32

	// NoPointerDrops disables the pointer-drop hardware quirk (mirrors the
	// original's NO_PTR_DROPS compile switch, §9 open question); false
	// reproduces real hardware behavior.
	NoPointerDrops bool

	Denise RegisterSink
	Paula  RegisterSink

	// OnAudioFetch is invoked with the channel index (0-3) whenever the DAS
	// table assigns an audio owner to a slot, so the aggregate can service
	// Paula's DMA fetch without Agnus importing audio types.
	OnAudioFetch func(channel int)
	// OnDiskFetch is invoked whenever the DAS table assigns the disk owner
	// to a slot, so the aggregate can drive the disk controller's MFM fetch.
	OnDiskFetch func()

	// ReadChipWord is the narrow chip-RAM read surface Agnus needs to drive
	// sprite DMA fetches directly (§4.4 step 8); set by the aggregate at
	// construction time.
	ReadChipWord func(addr uint32) uint16

	// OnLineComplete is invoked at HSYNC with the vpos that just ended, so
	// the aggregate can hand the bus arbiter's slot array to the DMA
	// debugger for overlay capture before ClearLine wipes it, and tick CIA
	// B's time-of-day counter off the same boundary (§4.10).
	OnLineComplete func(vpos int, bus *BusArbiter)

	// OnFrameComplete is invoked at VSYNC after the frame/LOF bookkeeping,
	// so the aggregate can swap Denise's framebuffers, tick CIA A's
	// time-of-day counter, and post a frame-done message.
	OnFrameComplete func()

	hsyncActions HsyncAction
}

// NewAgnus wires up a fresh Agnus with its own scheduler/tables/bus/recorder.
func NewAgnus() *Agnus {
	a := &Agnus{
		Scheduler: NewScheduler(),
		Tables:    NewEventTables(),
		Bus:       NewBusArbiter(),
		Recorder:  NewRegisterRecorder(),
	}
	a.Reset()
	return a
}

// Reset restores power-on defaults.
func (a *Agnus) Reset() {
	a.Clock = 0
	a.Beam = Beam{}
	a.Scheduler.Reset()
	a.Tables.Reset()
	a.Bus.Reset()
	a.Recorder.Reset()
	a.DMACON = 0
	a.DDFSTRT, a.DDFSTOP = 0, 0
	a.BPLCON0Agnus = 0
	a.Hires = false
	a.BPU = 0
	a.Scroll = 0
	a.DIW = DIWState{}
	for i := range a.Sprites {
		a.Sprites[i] = SpriteUnit{}
	}
	a.BPLPT = [6]uint32{}
	a.hsyncActions = 0
}

// RequestRebuild OR's rebuild work into the pending hsyncActions mask; used
// by register writes whose effect is deferred to the next line boundary
// (e.g. DMACON's effect on the DAS table).
func (a *Agnus) RequestRebuild(actions HsyncAction) {
	a.hsyncActions |= actions
}

// Execute advances exactly one master cycle of DMA work, per §4.3.
func (a *Agnus) Execute() {
	for _, change := range a.Recorder.PopDue(a.Clock) {
		a.applyRegChange(change)
	}

	_, hpos := a.Beam.Position()
	if slot := a.Tables.BplEvent[hpos]; slot.Plane != 0 {
		a.serviceBplSlot(hpos, slot)
	}
	if das := a.Tables.DasEvent[hpos]; das.Kind != DasNone {
		a.serviceDasSlot(hpos, das)
	}

	a.Scheduler.ExecuteUntil(a.Clock)

	hsync, vsync := a.Beam.Tick()
	a.Clock++
	if hsync {
		a.onHsync()
	}
	if vsync {
		a.onVsync()
	}
}

// ExecuteUntil runs Execute repeatedly until the clock reaches target.
func (a *Agnus) ExecuteUntil(target Cycle) {
	for a.Clock < target {
		a.Execute()
	}
}

// ExecuteUntilBusIsFree runs Execute until the CPU wins a bus cycle at the
// current hpos, for the CPU shim's synchronous chip-RAM accesses. Bus.Owner
// for the current hpos is never populated until Execute has actually
// serviced that hpos (the bpl/das slots and the copper/blitter scheduler
// handlers are what call Bus.Arbitrate), so this runs Execute first and
// then arbitrates the CPU's own want for the hpos it just serviced. The CPU
// is the lowest-priority requester in PriorityOrder: it wins only the
// cycles nothing else claimed, and every cycle it loses feeds the denial
// streak that raises Bls.
func (a *Agnus) ExecuteUntilBusIsFree() {
	for {
		_, hpos := a.Beam.Position()
		a.Execute()
		if a.Bus.Arbitrate(hpos, []Want{{OwnerCPU, true}}) == OwnerCPU {
			return
		}
	}
}

// serviceBplSlot performs one bitplane DMA fetch. The actual chip-RAM read
// and shift-register update are delegated to whatever consumer registered
// interest; Agnus's job here is bus bookkeeping, matching §4.2's division
// of labor between the event table and the bus arbiter.
func (a *Agnus) serviceBplSlot(hpos int, slot BplSlot) {
	owner := BusOwner(int(OwnerBPL1) + slot.Plane - 1)
	a.Bus.Arbitrate(hpos, []Want{{owner, true}})
	// A fetch reading BPLPT for this plane races any still-pending low-word
	// write staged for it; on real hardware the pending stage 2 is dropped.
	if !a.NoPointerDrops {
		a.Recorder.DropSecondStage(RegBPLPTLBase, slot.Plane-1)
	}
}

// serviceDasSlot performs one disk/audio/sprite DMA slot's bus bookkeeping
// and, for disk/audio, invokes whichever callback the aggregate wired up to
// actually move data (Agnus itself has no memory access, per §9's single
// owning aggregate design).
func (a *Agnus) serviceDasSlot(hpos int, das DasSlot) {
	owner := dasKindToOwner(das.Kind)
	a.Bus.Arbitrate(hpos, []Want{{owner, true}})

	if ch, ok := audioChannelOf(das.Kind); ok && a.OnAudioFetch != nil {
		a.OnAudioFetch(ch)
	}
	if das.Kind == DasDisk && a.OnDiskFetch != nil {
		a.OnDiskFetch()
	}
	if s, ok := spriteIndexOf(das.Kind); ok && a.ReadChipWord != nil {
		a.Sprites[s].Fetch(a.ReadChipWord)
	}
}

// audioChannelOf maps an audio DasKind to its 0-3 channel index.
func audioChannelOf(k DasKind) (int, bool) {
	switch k {
	case DasAudio0:
		return 0, true
	case DasAudio1:
		return 1, true
	case DasAudio2:
		return 2, true
	case DasAudio3:
		return 3, true
	default:
		return 0, false
	}
}

// spriteIndexOf maps a sprite DasKind to its 0-7 index.
func spriteIndexOf(k DasKind) (int, bool) {
	if k < DasSprite0 || k > DasSprite7 {
		return 0, false
	}
	return int(k - DasSprite0), true
}

func dasKindToOwner(k DasKind) BusOwner {
	switch k {
	case DasRefresh:
		return OwnerRefresh
	case DasDisk:
		return OwnerDisk
	case DasAudio0:
		return OwnerAudio0
	case DasAudio1:
		return OwnerAudio1
	case DasAudio2:
		return OwnerAudio2
	case DasAudio3:
		return OwnerAudio3
	case DasSprite0:
		return OwnerSprite0
	case DasSprite1:
		return OwnerSprite1
	case DasSprite2:
		return OwnerSprite2
	case DasSprite3:
		return OwnerSprite3
	case DasSprite4:
		return OwnerSprite4
	case DasSprite5:
		return OwnerSprite5
	case DasSprite6:
		return OwnerSprite6
	case DasSprite7:
		return OwnerSprite7
	default:
		return OwnerNone
	}
}

// onHsync runs the HSYNC boundary handler described in §4.4.
func (a *Agnus) onHsync() {
	if a.hsyncActions&PredictDDF != 0 {
		a.Tables.RebuildDDF(a.DDFSTRT, a.DDFSTOP)
	}
	if a.hsyncActions&UpdateDasTable != 0 {
		a.Tables.RebuildDasTable(a.DMACON)
	}
	if a.hsyncActions&UpdateBplTable != 0 {
		a.Tables.RebuildBplTable(a.Hires, a.BPU, a.Scroll)
	}
	a.hsyncActions = 0

	if a.OnLineComplete != nil {
		a.OnLineComplete(a.Beam.Vpos, a.Bus)
	}
	a.Bus.ClearLine()

	vpos := a.Beam.Vpos
	a.DIW.VFlop = vpos >= a.DIW.Vstrt && vpos < a.DIW.Vstop

	for i := range a.Sprites {
		a.Sprites[i].UpdateAtLine(vpos)
	}
}

// onVsync runs the VSYNC boundary handler described in §4.4.
func (a *Agnus) onVsync() {
	a.Beam.Frame.PrevLof = a.Beam.Frame.Lof
	if a.Beam.Frame.Interlaced && a.BPLCON0Agnus&0x0004 != 0 {
		a.Beam.Frame.Lof = !a.Beam.Frame.Lof
	}
	a.Beam.Frame.Nr++
	if a.OnFrameComplete != nil {
		a.OnFrameComplete()
	}
}

// applyRegChange is the setXXX dispatcher driven by the register recorder,
// per §4.5.
func (a *Agnus) applyRegChange(c RegChange) {
	switch c.Reg {
	case RegDMACON:
		old := a.DMACON
		a.DMACON = c.Value
		a.RequestRebuild(UpdateDasTable)
		if a.Denise != nil {
			a.Denise.SetReg(c.Reg, c.Extra, old, c.Value)
		}
	case RegDDFSTRT:
		a.DDFSTRT = int(c.Value)
		a.RequestRebuild(PredictDDF | UpdateBplTable)
	case RegDDFSTOP:
		a.DDFSTOP = int(c.Value)
		a.RequestRebuild(PredictDDF | UpdateBplTable)
	case RegBPLCON0Agnus:
		old := a.BPLCON0Agnus
		a.BPLCON0Agnus = c.Value
		a.Hires = c.Value&0x8000 != 0
		a.BPU = int(c.Value>>12) & 0x7
		a.RequestRebuild(UpdateBplTable)
		if a.Denise != nil {
			a.Denise.SetReg(RegBPLCON0Denise, c.Extra, old, c.Value)
		}
	case RegDIWSTRT:
		a.DIW.Hstrt = int(c.Value & 0xFF)
		a.DIW.Vstrt = int(c.Value >> 8)
	case RegDIWSTOP:
		a.DIW.Hstop = int(c.Value&0xFF) | 0x100
		a.DIW.Vstop = int(c.Value >> 8)
		if a.DIW.Vstop < 0x80 {
			a.DIW.Vstop += 0x100
		}
	case RegBPL1MOD, RegBPL2MOD:
		if a.Denise != nil {
			a.Denise.SetReg(c.Reg, c.Extra, 0, c.Value)
		}
	case RegBPLPTHBase:
		if p := c.Extra; p >= 0 && p < len(a.BPLPT) {
			a.BPLPT[p] = (a.BPLPT[p] &^ 0xFFFF0000) | uint32(c.Value)<<16
		}
	case RegBPLPTLBase:
		if p := c.Extra; p >= 0 && p < len(a.BPLPT) {
			a.BPLPT[p] = (a.BPLPT[p] &^ 0x0000FFFF) | uint32(c.Value)
		}
	case RegAUDxVOL, RegAUDxPER, RegAUDxLEN, RegAUDxLCHBase, RegAUDxLCLBase:
		if a.Paula != nil {
			a.Paula.SetReg(c.Reg, c.Extra, 0, c.Value)
		}
	default:
		if a.Denise != nil {
			a.Denise.SetReg(c.Reg, c.Extra, 0, c.Value)
		}
	}
}

// WriteReg schedules a deferred register write through the recorder with
// the documented delay for reg, per the table in §4.5.
func (a *Agnus) WriteReg(reg RegID, value uint16, extra int, fromCopper bool) {
	delay := regDelay(reg, fromCopper)
	a.Recorder.Record(a.Clock+delay, reg, value, extra)
}

func regDelay(reg RegID, fromCopper bool) Cycle {
	switch reg {
	case RegBPLCON0Agnus:
		return 4
	case RegBPLCON1Agnus:
		return 1
	case RegDMACON:
		return 0
	case RegDIWSTRT, RegDIWSTOP:
		return 2
	case RegDDFSTRT, RegDDFSTOP:
		if fromCopper {
			return 4
		}
		return 2
	case RegBPL1MOD, RegBPL2MOD:
		return 2
	case RegBPLPTHBase, RegBPLPTLBase:
		return 2
	default:
		return 0
	}
}

// WriteBPLPTHigh schedules the high-word half of bitplane plane's DMA
// pointer as a stage-1 deferred write.
func (a *Agnus) WriteBPLPTHigh(plane int, value uint16) {
	a.Recorder.RecordStaged(a.Clock+regDelay(RegBPLPTHBase, false), RegBPLPTHBase, value, plane, 1)
}

// WriteBPLPTLow schedules the low-word half of bitplane plane's DMA pointer
// as a stage-2 deferred write, which serviceBplSlot may drop per the
// pointer-drop quirk.
func (a *Agnus) WriteBPLPTLow(plane int, value uint16) {
	a.Recorder.RecordStaged(a.Clock+regDelay(RegBPLPTLBase, false), RegBPLPTLBase, value, plane, 2)
}

// WriteVPOSW implements the VPOSW mid-frame write quirk (§9 open question):
// only the long-frame (LOF) bit is writable, and the write is refused on the
// last line of the frame.
func (a *Agnus) WriteVPOSW(value uint16) {
	if a.Beam.Vpos == a.Beam.NumLines()-1 {
		return
	}
	a.Beam.Frame.Lof = value&0x8000 != 0
}

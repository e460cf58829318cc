// snapshot.go - machine state save/load.
//
// Grounded on debug_snapshot.go's framing idiom (magic string, version,
// gzip-compressed payload) and SPEC_FULL.md §6/§7/§8: the on-disk shape is a
// 6-byte magic, a (major, minor, subminor) version triple, then a
// gzip-compressed body. Unlike the teacher's generic DebuggableCPU/register
// list, the body here is the chipset's own typed state, written field by
// field in a fixed order rather than through struct reflection - partly
// because several fields (CIAKind, RegID, EventID) are named integer types
// binary.Write does not accept directly, and partly because an explicit
// order is cheap insurance against struct layout changes silently breaking
// old snapshots.
//
// Load decodes the entire body into a staging value first and only copies it
// into the live Amiga once decoding succeeds in full, so a truncated or
// corrupt snapshot never leaves the machine half-updated (§7).
package amiga

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
)

const snapshotMagic = "VAMIGA"

// Snapshot format version. Bump minor/subminor for backward-compatible
// additions, major for a break; LoadSnapshot rejects a major mismatch.
const (
	snapshotVersionMajor    = 1
	snapshotVersionMinor    = 0
	snapshotVersionSubminor = 0
)

// snapErrWriter is a sticky-error binary writer: once a write fails every
// later call becomes a no-op, so call sites don't need to check err after
// every field.
type snapErrWriter struct {
	w   io.Writer
	err error
}

func (e *snapErrWriter) put(v any) {
	if e.err != nil {
		return
	}
	e.err = binary.Write(e.w, binary.BigEndian, v)
}

func (e *snapErrWriter) u8(v uint8)    { e.put(v) }
func (e *snapErrWriter) u16(v uint16)  { e.put(v) }
func (e *snapErrWriter) u32(v uint32)  { e.put(v) }
func (e *snapErrWriter) i16(v int16)   { e.put(v) }
func (e *snapErrWriter) i32(v int32)   { e.put(v) }
func (e *snapErrWriter) i64(v int64)   { e.put(v) }
func (e *snapErrWriter) boolv(v bool)  { e.put(v) }
func (e *snapErrWriter) cycle(v Cycle) { e.put(int64(v)) }

func (e *snapErrWriter) bytes(v []byte) {
	e.u32(uint32(len(v)))
	if e.err != nil {
		return
	}
	_, e.err = e.w.Write(v)
}

// snapErrReader is the read-side counterpart of snapErrWriter.
type snapErrReader struct {
	r   io.Reader
	err error
}

func (e *snapErrReader) get(v any) {
	if e.err != nil {
		return
	}
	e.err = binary.Read(e.r, binary.BigEndian, v)
}

func (e *snapErrReader) u8() (v uint8)   { e.get(&v); return }
func (e *snapErrReader) u16() (v uint16) { e.get(&v); return }
func (e *snapErrReader) u32() (v uint32) { e.get(&v); return }
func (e *snapErrReader) i16() (v int16)  { e.get(&v); return }
func (e *snapErrReader) i32() (v int32)  { e.get(&v); return }
func (e *snapErrReader) i64() (v int64)  { e.get(&v); return }
func (e *snapErrReader) boolv() (v bool) { e.get(&v); return }
func (e *snapErrReader) cycle() Cycle    { return Cycle(e.i64()) }

func (e *snapErrReader) bytes() []byte {
	n := e.u32()
	if e.err != nil || n == 0 {
		return nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(e.r, buf); err != nil {
		e.err = err
		return nil
	}
	return buf
}

// SaveSnapshot writes the machine's current resumable state to w: everything
// needed to continue execution byte-identically, per §8's round-trip law.
// Transient per-line/per-cycle bookkeeping that gets rebuilt every hsync
// (the bus arbiter's slot array, the DMA debugger's overlay, the outbound
// message queue) is deliberately excluded - see DESIGN.md.
func (m *Amiga) SaveSnapshot(w io.Writer) error {
	var header bytes.Buffer
	header.WriteString(snapshotMagic)
	header.WriteByte(snapshotVersionMajor)
	header.WriteByte(snapshotVersionMinor)
	header.WriteByte(snapshotVersionSubminor)
	if _, err := w.Write(header.Bytes()); err != nil {
		return fmt.Errorf("amiga: writing snapshot header: %w", err)
	}

	gz := gzip.NewWriter(w)
	ew := &snapErrWriter{w: gz}
	m.encodeState(ew)
	if ew.err != nil {
		gz.Close()
		m.postSnapshotError(ew.err)
		return fmt.Errorf("amiga: encoding snapshot: %w", ew.err)
	}
	if err := gz.Close(); err != nil {
		m.postSnapshotError(err)
		return fmt.Errorf("amiga: closing snapshot stream: %w", err)
	}
	return nil
}

// LoadSnapshot restores state previously written by SaveSnapshot. A failure
// at any stage - bad magic, unsupported version, truncated or corrupt body -
// leaves m completely untouched.
func (m *Amiga) LoadSnapshot(r io.Reader) error {
	header := make([]byte, 9)
	if _, err := io.ReadFull(r, header); err != nil {
		m.postSnapshotError(err)
		return fmt.Errorf("amiga: reading snapshot header: %w", err)
	}
	if string(header[:6]) != snapshotMagic {
		err := fmt.Errorf("amiga: bad snapshot magic %q", header[:6])
		m.postSnapshotError(err)
		return err
	}
	major := header[6]
	if major != snapshotVersionMajor {
		err := fmt.Errorf("amiga: unsupported snapshot version %d.%d.%d", header[6], header[7], header[8])
		m.postSnapshotError(err)
		return err
	}

	gz, err := gzip.NewReader(r)
	if err != nil {
		m.postSnapshotError(err)
		return fmt.Errorf("amiga: opening snapshot stream: %w", err)
	}
	defer gz.Close()

	staged := &amigaSnapshot{}
	er := &snapErrReader{r: gz}
	staged.decode(er)
	if er.err != nil {
		m.postSnapshotError(er.err)
		return fmt.Errorf("amiga: decoding snapshot: %w", er.err)
	}

	staged.applyTo(m)
	return nil
}

func (m *Amiga) postSnapshotError(err error) {
	if m.Messages != nil {
		m.Messages.Post(Message{Kind: MsgSnapshotError, Err: err})
	}
}

// encodeState writes every subsystem's resumable state directly from the
// live Amiga, in the same field order amigaSnapshot.decode expects.
func (m *Amiga) encodeState(w *snapErrWriter) {
	encodeMemory(w, m.Memory)
	encodeAgnus(w, m.Agnus)
	encodeDenise(w, m.Denise)
	encodePaula(w, m.Paula)
	encodeCIA(w, m.CIAA)
	encodeCIA(w, m.CIAB)
	encodeBlitter(w, m.Blitter)
	encodeCopper(w, m.Copper)
	encodeInterrupts(w, m.Interrupts)
	encodeDisk(w, m.Disk)

	w.u16(m.BLTAFWM)
	w.u16(m.BLTALWM)
	w.u16(m.ADKCON)
	w.u16(m.CLXCON)
}

// amigaSnapshot is the decoded staging area LoadSnapshot builds before
// committing anything to the live machine.
type amigaSnapshot struct {
	memOVL        bool
	memChip       []byte
	memSlow       []byte
	memFast       []byte
	memWomWritten bool

	agnus agnusSnapshot

	denise deniseSnapshot
	paula  paulaSnapshot
	ciaA   ciaSnapshot
	ciaB   ciaSnapshot

	blitter blitterSnapshot
	copper  copperSnapshot
	interrupts interruptSnapshot
	disk    diskSnapshot

	bltafwm, bltalwm uint16
	adkcon, clxcon   uint16
}

func (s *amigaSnapshot) decode(r *snapErrReader) {
	s.memOVL, s.memChip, s.memSlow, s.memFast, s.memWomWritten = decodeMemory(r)
	s.agnus = decodeAgnus(r)
	s.denise = decodeDenise(r)
	s.paula = decodePaula(r)
	s.ciaA = decodeCIA(r)
	s.ciaB = decodeCIA(r)
	s.blitter = decodeBlitter(r)
	s.copper = decodeCopper(r)
	s.interrupts = decodeInterrupts(r)
	s.disk = decodeDisk(r)

	s.bltafwm = r.u16()
	s.bltalwm = r.u16()
	s.adkcon = r.u16()
	s.clxcon = r.u16()
}

// applyTo commits the fully-decoded staging area into the live machine. It
// never partially applies: decode has already succeeded by the time this
// runs.
func (s *amigaSnapshot) applyTo(m *Amiga) {
	if len(s.memChip) == len(m.Memory.Chip) {
		copy(m.Memory.Chip, s.memChip)
	}
	if len(s.memSlow) == len(m.Memory.Slow) {
		copy(m.Memory.Slow, s.memSlow)
	}
	if len(s.memFast) == len(m.Memory.Fast) {
		copy(m.Memory.Fast, s.memFast)
	}
	m.Memory.womWritten = s.memWomWritten
	m.Memory.SetOVL(s.memOVL)

	s.agnus.applyTo(m.Agnus)
	s.denise.applyTo(m.Denise)
	s.paula.applyTo(m.Paula)
	s.ciaA.applyTo(m.CIAA)
	s.ciaB.applyTo(m.CIAB)
	s.blitter.applyTo(m.Blitter)
	s.copper.applyTo(m.Copper)
	s.interrupts.applyTo(m.Interrupts)
	s.disk.applyTo(m.Disk)

	m.BLTAFWM = s.bltafwm
	m.BLTALWM = s.bltalwm
	m.ADKCON = s.adkcon
	m.CLXCON = s.clxcon
}

func encodeMemory(w *snapErrWriter, mem *MemoryMap) {
	w.boolv(mem.OVL)
	w.bytes(mem.Chip)
	w.bytes(mem.Slow)
	w.bytes(mem.Fast)
	w.boolv(mem.womWritten)
}

func decodeMemory(r *snapErrReader) (ovl bool, chip, slow, fast []byte, womWritten bool) {
	ovl = r.boolv()
	chip = r.bytes()
	slow = r.bytes()
	fast = r.bytes()
	womWritten = r.boolv()
	return
}

// agnusSnapshot captures everything Agnus needs to resume except Tables
// (rebuilt from DDFSTRT/DDFSTOP/DMACON/Hires/BPU/Scroll on restore, exactly
// as a live register write would) and Bus (cleared every hsync, so its
// mid-line content is not part of resumable state).
type agnusSnapshot struct {
	clock Cycle
	beamHpos, beamVpos int
	frameNr int64
	frameInterlaced, frameLof, framePrevLof bool

	dmacon uint16
	ddfstrt, ddfstop int
	bplcon0 uint16
	hires bool
	bpu, scroll int
	diw DIWState
	bplpt [6]uint32
	sprites [8]spriteSnapshot
	noPointerDrops bool

	scheduler [NumSlots]EventSlot
	schedulerNextTrigger Cycle

	recorder []RegChange
}

type spriteSnapshot struct {
	state SpriteState
	vstrt, vstop, hpos int
	pointer uint32
	ctl, posData, data, datB uint16
	fetchedPosCtl bool
}

func encodeAgnus(w *snapErrWriter, a *Agnus) {
	w.cycle(a.Clock)
	w.i32(int32(a.Beam.Hpos))
	w.i32(int32(a.Beam.Vpos))
	w.i64(a.Beam.Frame.Nr)
	w.boolv(a.Beam.Frame.Interlaced)
	w.boolv(a.Beam.Frame.Lof)
	w.boolv(a.Beam.Frame.PrevLof)

	w.u16(a.DMACON)
	w.i32(int32(a.DDFSTRT))
	w.i32(int32(a.DDFSTOP))
	w.u16(a.BPLCON0Agnus)
	w.boolv(a.Hires)
	w.i32(int32(a.BPU))
	w.i32(int32(a.Scroll))
	w.i32(int32(a.DIW.Hstrt))
	w.i32(int32(a.DIW.Hstop))
	w.i32(int32(a.DIW.Vstrt))
	w.i32(int32(a.DIW.Vstop))
	w.boolv(a.DIW.HFlop)
	w.boolv(a.DIW.VFlop)
	for _, p := range a.BPLPT {
		w.u32(p)
	}
	for i := range a.Sprites {
		sp := &a.Sprites[i]
		w.i32(int32(sp.State))
		w.i32(int32(sp.VStrt))
		w.i32(int32(sp.VStop))
		w.i32(int32(sp.Hpos))
		w.u32(sp.Pointer)
		w.u16(sp.Ctl)
		w.u16(sp.PosData)
		w.u16(sp.Data)
		w.u16(sp.DatB)
		w.boolv(sp.fetchedPosCtl)
	}
	w.boolv(a.NoPointerDrops)

	for _, slot := range a.Scheduler.Slot {
		w.cycle(slot.TriggerCycle)
		w.i32(int32(slot.ID))
		w.i64(slot.Data)
	}
	w.cycle(a.Scheduler.NextTrigger)

	w.u8(uint8(a.Recorder.Len()))
	for i := 0; i < a.Recorder.Len(); i++ {
		c := a.Recorder.at(i)
		w.cycle(c.Trigger)
		w.i32(int32(c.Reg))
		w.u16(c.Value)
		w.i32(int32(c.Extra))
		w.i32(int32(c.Stage))
	}
}

func decodeAgnus(r *snapErrReader) agnusSnapshot {
	var s agnusSnapshot
	s.clock = r.cycle()
	s.beamHpos = int(r.i32())
	s.beamVpos = int(r.i32())
	s.frameNr = r.i64()
	s.frameInterlaced = r.boolv()
	s.frameLof = r.boolv()
	s.framePrevLof = r.boolv()

	s.dmacon = r.u16()
	s.ddfstrt = int(r.i32())
	s.ddfstop = int(r.i32())
	s.bplcon0 = r.u16()
	s.hires = r.boolv()
	s.bpu = int(r.i32())
	s.scroll = int(r.i32())
	s.diw.Hstrt = int(r.i32())
	s.diw.Hstop = int(r.i32())
	s.diw.Vstrt = int(r.i32())
	s.diw.Vstop = int(r.i32())
	s.diw.HFlop = r.boolv()
	s.diw.VFlop = r.boolv()
	for i := range s.bplpt {
		s.bplpt[i] = r.u32()
	}
	for i := range s.sprites {
		sp := &s.sprites[i]
		sp.state = SpriteState(r.i32())
		sp.vstrt = int(r.i32())
		sp.vstop = int(r.i32())
		sp.hpos = int(r.i32())
		sp.pointer = r.u32()
		sp.ctl = r.u16()
		sp.posData = r.u16()
		sp.data = r.u16()
		sp.datB = r.u16()
		sp.fetchedPosCtl = r.boolv()
	}
	s.noPointerDrops = r.boolv()

	for i := range s.scheduler {
		s.scheduler[i] = EventSlot{
			TriggerCycle: r.cycle(),
			ID:           EventID(r.i32()),
			Data:         r.i64(),
		}
	}
	s.schedulerNextTrigger = r.cycle()

	n := int(r.u8())
	s.recorder = make([]RegChange, n)
	for i := 0; i < n; i++ {
		s.recorder[i] = RegChange{
			Trigger: r.cycle(),
			Reg:     RegID(r.i32()),
			Value:   r.u16(),
			Extra:   int(r.i32()),
			Stage:   int(r.i32()),
		}
	}
	return s
}

func (s *agnusSnapshot) applyTo(a *Agnus) {
	a.Clock = s.clock
	a.Beam.Hpos = s.beamHpos
	a.Beam.Vpos = s.beamVpos
	a.Beam.Frame.Nr = s.frameNr
	a.Beam.Frame.Interlaced = s.frameInterlaced
	a.Beam.Frame.Lof = s.frameLof
	a.Beam.Frame.PrevLof = s.framePrevLof

	a.DMACON = s.dmacon
	a.DDFSTRT, a.DDFSTOP = s.ddfstrt, s.ddfstop
	a.BPLCON0Agnus = s.bplcon0
	a.Hires = s.hires
	a.BPU = s.bpu
	a.Scroll = s.scroll
	a.DIW = s.diw
	a.BPLPT = s.bplpt
	for i := range a.Sprites {
		sp := s.sprites[i]
		a.Sprites[i] = SpriteUnit{
			State:         sp.state,
			VStrt:         sp.vstrt,
			VStop:         sp.vstop,
			Hpos:          sp.hpos,
			Pointer:       sp.pointer,
			Ctl:           sp.ctl,
			PosData:       sp.posData,
			Data:          sp.data,
			DatB:          sp.datB,
			fetchedPosCtl: sp.fetchedPosCtl,
		}
	}
	a.NoPointerDrops = s.noPointerDrops

	a.Scheduler.Slot = s.scheduler
	a.Scheduler.NextTrigger = s.schedulerNextTrigger

	a.Recorder.Reset()
	for _, c := range s.recorder {
		a.Recorder.insert(c)
	}

	// Tables are a pure function of the registers just restored; rebuilding
	// them here reproduces exactly what the next hsync would have done,
	// without waiting a line for hsyncActions to catch up.
	a.Tables.RebuildDDF(a.DDFSTRT, a.DDFSTOP)
	a.Tables.RebuildDasTable(a.DMACON)
	a.Tables.RebuildBplTable(a.Hires, a.BPU, a.Scroll)
}

type deniseSnapshot struct {
	bplcon0, bplcon1, bplcon2 uint16
	bpl1mod, bpl2mod int16
	colors [32]uint16
}

func encodeDenise(w *snapErrWriter, d *Denise) {
	w.u16(d.BPLCON0)
	w.u16(d.BPLCON1)
	w.u16(d.BPLCON2)
	w.i16(d.BPL1MOD)
	w.i16(d.BPL2MOD)
	for _, c := range d.Colors {
		w.u16(c)
	}
}

func decodeDenise(r *snapErrReader) deniseSnapshot {
	var s deniseSnapshot
	s.bplcon0 = r.u16()
	s.bplcon1 = r.u16()
	s.bplcon2 = r.u16()
	s.bpl1mod = r.i16()
	s.bpl2mod = r.i16()
	for i := range s.colors {
		s.colors[i] = r.u16()
	}
	return s
}

func (s *deniseSnapshot) applyTo(d *Denise) {
	d.BPLCON0, d.BPLCON1, d.BPLCON2 = s.bplcon0, s.bplcon1, s.bplcon2
	d.BPL1MOD, d.BPL2MOD = s.bpl1mod, s.bpl2mod
	d.Colors = s.colors
}

type audioChannelSnapshot struct {
	loc, locStart uint32
	length, per uint16
	vol uint8
	data, remaining uint16
}

type potPinSnapshot struct {
	charge float64
	driven bool
}

type paulaSnapshot struct {
	channels [4]audioChannelSnapshot
	pot      [4]potPinSnapshot
}

func encodePaula(w *snapErrWriter, p *PaulaAudio) {
	for i := range p.Channels {
		c := &p.Channels[i]
		w.u32(c.Loc)
		w.u32(c.LocStart)
		w.u16(c.Len)
		w.u16(c.Per)
		w.u8(c.Vol)
		w.u16(c.data)
		w.u16(c.remaining)
	}
	for i := range p.Pot {
		pin := &p.Pot[i]
		w.put(pin.charge)
		w.boolv(pin.driven)
	}
}

func decodePaula(r *snapErrReader) paulaSnapshot {
	var s paulaSnapshot
	for i := range s.channels {
		c := &s.channels[i]
		c.loc = r.u32()
		c.locStart = r.u32()
		c.length = r.u16()
		c.per = r.u16()
		c.vol = r.u8()
		c.data = r.u16()
		c.remaining = r.u16()
	}
	for i := range s.pot {
		pin := &s.pot[i]
		r.get(&pin.charge)
		pin.driven = r.boolv()
	}
	return s
}

func (s *paulaSnapshot) applyTo(p *PaulaAudio) {
	for i := range p.Channels {
		c := s.channels[i]
		p.Channels[i] = AudioChannel{
			Loc: c.loc, LocStart: c.locStart,
			Len: c.length, Per: c.per, Vol: c.vol,
			data: c.data, remaining: c.remaining,
		}
	}
	for i := range p.Pot {
		p.Pot[i] = potPin{charge: s.pot[i].charge, driven: s.pot[i].driven}
	}
}

type ciaSnapshot struct {
	timerA, timerB, latchA, latchB uint16
	cra, crb uint8
	icr, icrMask uint8
	pra, prb, ddra, ddrb uint8
	tod, todAlarm, todLatch uint32
	todLatched, todRunning bool
	sdr uint8
	irqPending bool
}

func encodeCIA(w *snapErrWriter, c *CIA) {
	w.u16(c.TimerA)
	w.u16(c.TimerB)
	w.u16(c.LatchA)
	w.u16(c.LatchB)
	w.u8(c.CRA)
	w.u8(c.CRB)
	w.u8(c.ICR)
	w.u8(c.ICRMask)
	w.u8(c.PRA)
	w.u8(c.PRB)
	w.u8(c.DDRA)
	w.u8(c.DDRB)
	w.u32(c.TOD)
	w.u32(c.TODAlarm)
	w.u32(c.TODLatch)
	w.boolv(c.TODLatched)
	w.boolv(c.TODRunning)
	w.u8(c.SDR)
	w.boolv(c.IRQPending)
}

func decodeCIA(r *snapErrReader) ciaSnapshot {
	var s ciaSnapshot
	s.timerA = r.u16()
	s.timerB = r.u16()
	s.latchA = r.u16()
	s.latchB = r.u16()
	s.cra = r.u8()
	s.crb = r.u8()
	s.icr = r.u8()
	s.icrMask = r.u8()
	s.pra = r.u8()
	s.prb = r.u8()
	s.ddra = r.u8()
	s.ddrb = r.u8()
	s.tod = r.u32()
	s.todAlarm = r.u32()
	s.todLatch = r.u32()
	s.todLatched = r.boolv()
	s.todRunning = r.boolv()
	s.sdr = r.u8()
	s.irqPending = r.boolv()
	return s
}

func (s *ciaSnapshot) applyTo(c *CIA) {
	kind := c.Kind
	c.TimerA, c.TimerB, c.LatchA, c.LatchB = s.timerA, s.timerB, s.latchA, s.latchB
	c.CRA, c.CRB = s.cra, s.crb
	c.ICR, c.ICRMask = s.icr, s.icrMask
	c.PRA, c.PRB, c.DDRA, c.DDRB = s.pra, s.prb, s.ddra, s.ddrb
	c.TOD, c.TODAlarm, c.TODLatch = s.tod, s.todAlarm, s.todLatch
	c.TODLatched, c.TODRunning = s.todLatched, s.todRunning
	c.SDR = s.sdr
	c.IRQPending = s.irqPending
	c.Kind = kind
}

type blitterSnapshot struct {
	mode BlitterMode
	con0, con1 uint16
	aMod, bMod, cMod, dMod int16
	aPtr, bPtr, cPtr, dPtr uint32
	aData, bData, cData uint16
	width, height int
	zeroLatch, busy, finished bool
	col, row int
	lineMode bool
	lineErr, lineSign int
}

func encodeBlitter(w *snapErrWriter, b *Blitter) {
	w.i32(int32(b.Mode))
	w.u16(b.Con0)
	w.u16(b.Con1)
	w.i16(b.AMod)
	w.i16(b.BMod)
	w.i16(b.CMod)
	w.i16(b.DMod)
	w.u32(b.APtr)
	w.u32(b.BPtr)
	w.u32(b.CPtr)
	w.u32(b.DPtr)
	w.u16(b.AData)
	w.u16(b.BData)
	w.u16(b.CData)
	w.i32(int32(b.Width))
	w.i32(int32(b.Height))
	w.boolv(b.ZeroLatch)
	w.boolv(b.Busy)
	w.boolv(b.Finished)
	w.i32(int32(b.col))
	w.i32(int32(b.row))
	w.boolv(b.LineMode)
	w.i32(int32(b.lineErr))
	w.i32(int32(b.lineSign))
}

func decodeBlitter(r *snapErrReader) blitterSnapshot {
	var s blitterSnapshot
	s.mode = BlitterMode(r.i32())
	s.con0 = r.u16()
	s.con1 = r.u16()
	s.aMod = r.i16()
	s.bMod = r.i16()
	s.cMod = r.i16()
	s.dMod = r.i16()
	s.aPtr = r.u32()
	s.bPtr = r.u32()
	s.cPtr = r.u32()
	s.dPtr = r.u32()
	s.aData = r.u16()
	s.bData = r.u16()
	s.cData = r.u16()
	s.width = int(r.i32())
	s.height = int(r.i32())
	s.zeroLatch = r.boolv()
	s.busy = r.boolv()
	s.finished = r.boolv()
	s.col = int(r.i32())
	s.row = int(r.i32())
	s.lineMode = r.boolv()
	s.lineErr = int(r.i32())
	s.lineSign = int(r.i32())
	return s
}

func (s *blitterSnapshot) applyTo(b *Blitter) {
	b.Mode = s.mode
	b.Con0, b.Con1 = s.con0, s.con1
	b.AMod, b.BMod, b.CMod, b.DMod = s.aMod, s.bMod, s.cMod, s.dMod
	b.APtr, b.BPtr, b.CPtr, b.DPtr = s.aPtr, s.bPtr, s.cPtr, s.dPtr
	b.AData, b.BData, b.CData = s.aData, s.bData, s.cData
	b.Width, b.Height = s.width, s.height
	b.ZeroLatch, b.Busy, b.Finished = s.zeroLatch, s.busy, s.finished
	b.col, b.row = s.col, s.row
	b.LineMode = s.lineMode
	b.lineErr, b.lineSign = s.lineErr, s.lineSign
}

type copperSnapshot struct {
	state CopperState
	pc, cop1lc, cop2lc uint32
	ins1, ins2 uint16
	copcon uint16
	waitVpos, waitHpos, waitVmask, waitHmask int
	waitBlitFinish, blitFinished bool
}

func encodeCopper(w *snapErrWriter, c *Copper) {
	w.i32(int32(c.State))
	w.u32(c.PC)
	w.u32(c.Cop1LC)
	w.u32(c.Cop2LC)
	w.u16(c.ins1)
	w.u16(c.ins2)
	w.u16(c.Copcon)
	w.i32(int32(c.waitVpos))
	w.i32(int32(c.waitHpos))
	w.i32(int32(c.waitVmask))
	w.i32(int32(c.waitHmask))
	w.boolv(c.waitBlitFinish)
	w.boolv(c.BlitFinished)
}

func decodeCopper(r *snapErrReader) copperSnapshot {
	var s copperSnapshot
	s.state = CopperState(r.i32())
	s.pc = r.u32()
	s.cop1lc = r.u32()
	s.cop2lc = r.u32()
	s.ins1 = r.u16()
	s.ins2 = r.u16()
	s.copcon = r.u16()
	s.waitVpos = int(r.i32())
	s.waitHpos = int(r.i32())
	s.waitVmask = int(r.i32())
	s.waitHmask = int(r.i32())
	s.waitBlitFinish = r.boolv()
	s.blitFinished = r.boolv()
	return s
}

func (s *copperSnapshot) applyTo(c *Copper) {
	c.State = s.state
	c.PC, c.Cop1LC, c.Cop2LC = s.pc, s.cop1lc, s.cop2lc
	c.ins1, c.ins2 = s.ins1, s.ins2
	c.Copcon = s.copcon
	c.waitVpos, c.waitHpos = s.waitVpos, s.waitHpos
	c.waitVmask, c.waitHmask = s.waitVmask, s.waitHmask
	c.waitBlitFinish = s.waitBlitFinish
	c.BlitFinished = s.blitFinished
}

type interruptSnapshot struct {
	intena, intreq uint16
	pipeline [4]int32
	pending  []pendingSource
}

func encodeInterrupts(w *snapErrWriter, ic *InterruptController) {
	w.u16(ic.Intena)
	w.u16(ic.Intreq)
	for _, lvl := range ic.pipeline {
		w.i32(int32(lvl))
	}
	w.u8(uint8(len(ic.pending)))
	for _, p := range ic.pending {
		w.u16(p.bit)
		w.cycle(p.trigger)
	}
}

func decodeInterrupts(r *snapErrReader) interruptSnapshot {
	var s interruptSnapshot
	s.intena = r.u16()
	s.intreq = r.u16()
	for i := range s.pipeline {
		s.pipeline[i] = r.i32()
	}
	n := int(r.u8())
	s.pending = make([]pendingSource, n)
	for i := 0; i < n; i++ {
		s.pending[i] = pendingSource{bit: r.u16(), trigger: r.cycle()}
	}
	return s
}

func (s *interruptSnapshot) applyTo(ic *InterruptController) {
	ic.Intena, ic.Intreq = s.intena, s.intreq
	for i := range ic.pipeline {
		ic.pipeline[i] = int(s.pipeline[i])
	}
	ic.pending = append([]pendingSource(nil), s.pending...)
}

// driveSnapshot captures a floppy drive's mechanical state, not its loaded
// image: images are host-supplied media the snapshot format treats the same
// way it treats ROM - an external resource identified outside the core, not
// serialized inside it.
type driveSnapshot struct {
	connected bool
	density   DiskDensity
	mechanicalDelay bool
	cylinder, side int
	motorOn, writeProtected bool
}

type diskSnapshot struct {
	drives [4]driveSnapshot
	selected int
	dskpt uint32
	dsklen, dsksync uint16
	wordsRemaining int
	writing bool
}

func encodeDisk(w *snapErrWriter, d *DiskController) {
	for i := range d.Drives {
		dr := &d.Drives[i]
		w.boolv(dr.Connected)
		w.i32(int32(dr.Density))
		w.boolv(dr.MechanicalDelay)
		w.i32(int32(dr.Cylinder))
		w.i32(int32(dr.Side))
		w.boolv(dr.MotorOn)
		w.boolv(dr.WriteProtected)
	}
	w.i32(int32(d.Selected))
	w.u32(d.DSKPT)
	w.u16(d.DSKLEN)
	w.u16(d.DSKSYNC)
	w.i32(int32(d.wordsRemaining))
	w.boolv(d.writing)
}

func decodeDisk(r *snapErrReader) diskSnapshot {
	var s diskSnapshot
	for i := range s.drives {
		dr := &s.drives[i]
		dr.connected = r.boolv()
		dr.density = DiskDensity(r.i32())
		dr.mechanicalDelay = r.boolv()
		dr.cylinder = int(r.i32())
		dr.side = int(r.i32())
		dr.motorOn = r.boolv()
		dr.writeProtected = r.boolv()
	}
	s.selected = int(r.i32())
	s.dskpt = r.u32()
	s.dsklen = r.u16()
	s.dsksync = r.u16()
	s.wordsRemaining = int(r.i32())
	s.writing = r.boolv()
	return s
}

func (s *diskSnapshot) applyTo(d *DiskController) {
	for i := range d.Drives {
		dr := &d.Drives[i]
		sv := s.drives[i]
		dr.Connected = sv.connected
		dr.Density = sv.density
		dr.MechanicalDelay = sv.mechanicalDelay
		dr.Cylinder = sv.cylinder
		dr.Side = sv.side
		dr.MotorOn = sv.motorOn
		dr.WriteProtected = sv.writeProtected
	}
	d.Selected = s.selected
	d.DSKPT = s.dskpt
	d.DSKLEN = s.dsklen
	d.DSKSYNC = s.dsksync
	d.wordsRemaining = s.wordsRemaining
	d.writing = s.writing
}

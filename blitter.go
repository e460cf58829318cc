// blitter.go - the area/line blit co-processor.
//
// Grounded on distilled spec §4.7: copy mode feeds channels A, B, C through
// an arbitrary 3-input Boolean function (the BLTCON0 minterm byte) into
// channel D, with per-channel modulo and a zero-detect latch; line mode
// draws with single-pixel brush D via Bresenham. Two accuracy modes share
// the same channel math but differ in how they're driven: StepWord is
// called once per bus cycle in accurate mode, RunToCompletion drains the
// whole transfer in one call for fast mode.

package amiga

// BlitterMode selects how the transfer is paced against the bus.
type BlitterMode int

const (
	BlitterFast BlitterMode = iota
	BlitterAccurate
)

// BlitterMem is the narrow chip-RAM surface the blitter needs.
type BlitterMem interface {
	Read16(addr uint32) uint16
	Write16(addr uint32, value uint16)
}

// Blitter is the area/line blit engine.
type Blitter struct {
	Mode BlitterMode

	Con0, Con1 uint16 // BLTCON0 (minterm in low byte, use-flags in high byte), BLTCON1 (line-mode flags)

	AMod, BMod, CMod, DMod int16
	APtr, BPtr, CPtr, DPtr uint32
	AData, BData, CData   uint16

	Width, Height int // from BLTSIZE: words per row, rows

	ZeroLatch bool // true iff every D word so far has been zero
	Busy      bool
	Finished  bool

	col, row int

	// line mode state
	LineMode bool
	lineErr  int
	lineSign int

	// altCycle alternates on every takeCycle call, so accurate mode yields
	// every other bus cycle to the copper/CPU instead of hogging the bus.
	altCycle bool

	mem BlitterMem
}

// NewBlitter returns an idle blitter bound to mem for chip-RAM access.
func NewBlitter(mem BlitterMem) *Blitter {
	return &Blitter{mem: mem}
}

// Reset idles the blitter.
func (b *Blitter) Reset() {
	*b = Blitter{mem: b.mem}
}

// useA/useB/useC/useD report which channels BLTCON0's high byte enables.
func (b *Blitter) useA() bool { return b.Con0&0x0800 != 0 }
func (b *Blitter) useB() bool { return b.Con0&0x0400 != 0 }
func (b *Blitter) useC() bool { return b.Con0&0x0200 != 0 }
func (b *Blitter) useD() bool { return b.Con0&0x0100 != 0 }

// fillEnabled and fillExclusive report BLTCON1's fill-mode bits.
func (b *Blitter) fillEnabled() bool   { return b.Con1&0x0018 != 0 }
func (b *Blitter) fillExclusive() bool { return b.Con1&0x0010 != 0 }

// minterm evaluates BLTCON0's 8-entry truth table over (a,b,c) per bit.
func minterm(a, bb, c uint16, lut uint8) uint16 {
	var d uint16
	for bit := 0; bit < 16; bit++ {
		ab := (a >> bit) & 1
		bbv := (bb >> bit) & 1
		cb := (c >> bit) & 1
		idx := (ab << 2) | (bbv << 1) | cb
		if (lut>>idx)&1 != 0 {
			d |= 1 << bit
		}
	}
	return d
}

// fill applies inclusive or exclusive fill mode to d, carrying state across
// the 16 bits of the word via a running parity, per the classic Amiga
// blitter fill algorithm (toggle-on-set for inclusive, toggle-before for
// exclusive).
func fill(d uint16, exclusive bool, carry *bool) uint16 {
	var out uint16
	c := *carry
	for bit := 0; bit < 16; bit++ {
		bitSet := (d>>bit)&1 != 0
		if exclusive {
			if bitSet {
				c = !c
			} else if c {
				out |= 1 << bit
			}
		} else {
			if bitSet {
				c = !c
				out |= 1 << bit
			} else if c {
				out |= 1 << bit
			}
		}
	}
	*carry = c
	return out
}

// Start begins a copy-mode transfer of Width words by Height rows.
func (b *Blitter) Start(width, height int) {
	b.Width, b.Height = width, height
	b.col, b.row = 0, 0
	b.ZeroLatch = true
	b.Busy = true
	b.Finished = false
	b.LineMode = false
}

// StartLine begins a Bresenham line-mode draw of the given length in pixels.
func (b *Blitter) StartLine(length int) {
	b.Width, b.Height = 1, length
	b.col, b.row = 0, 0
	b.ZeroLatch = true
	b.Busy = true
	b.Finished = false
	b.LineMode = true
	b.lineErr = int(b.Con1) >> 6 // BLTCON1 carries the initial Bresenham error term
	if b.Con1&0x0040 != 0 {
		b.lineSign = -1
	} else {
		b.lineSign = 1
	}
}

// takeCycle reports whether accurate mode should consume the current bus
// cycle: normally it alternates, taking every other cycle so the copper and
// CPU can interleave, but nasty forces every cycle once the bus arbiter's
// bls signal has been raised (the CPU denied the bus three cycles running),
// matching the "blitter nasty" hardware mode.
func (b *Blitter) takeCycle(nasty bool) bool {
	b.altCycle = !b.altCycle
	return nasty || b.altCycle
}

// StepWord performs one word's worth of channel math and advances the
// cursor by one word, wrapping to the next row (applying modulo) when a row
// completes. It is the unit of work consumed by the blitter's event slot in
// accurate mode.
func (b *Blitter) StepWord() {
	if !b.Busy {
		return
	}
	if b.LineMode {
		b.stepLinePixel()
	} else {
		b.stepCopyWord()
	}
	b.col++
	if b.col >= b.Width {
		b.col = 0
		b.row++
		b.APtr = uint32(int32(b.APtr) + int32(b.AMod))
		b.BPtr = uint32(int32(b.BPtr) + int32(b.BMod))
		b.CPtr = uint32(int32(b.CPtr) + int32(b.CMod))
		b.DPtr = uint32(int32(b.DPtr) + int32(b.DMod))
		if b.row >= b.Height {
			b.Busy = false
			b.Finished = true
		}
	}
}

func (b *Blitter) stepCopyWord() {
	var a, c uint16
	if b.useA() {
		a = b.mem.Read16(b.APtr)
	}
	if b.useB() {
		b.BData = b.mem.Read16(b.BPtr)
	}
	if b.useC() {
		c = b.mem.Read16(b.CPtr)
	}
	d := minterm(a, b.BData, c, uint8(b.Con0))
	if b.fillEnabled() {
		carry := false
		d = fill(d, b.fillExclusive(), &carry)
	}
	if d != 0 {
		b.ZeroLatch = false
	}
	if b.useD() {
		b.mem.Write16(b.DPtr, d)
	}
	if b.useA() {
		b.APtr += 2
	}
	if b.useB() {
		b.BPtr += 2
	}
	if b.useC() {
		b.CPtr += 2
	}
	if b.useD() {
		b.DPtr += 2
	}
}

// stepLinePixel draws a single pixel of a Bresenham line using brush D and
// texture pattern A, then updates the error accumulator.
func (b *Blitter) stepLinePixel() {
	texture := b.mem.Read16(b.APtr)
	_ = texture // brush pattern selects which sub-pixel is drawn; writer owns the bit math
	cur := b.mem.Read16(b.DPtr)
	d := minterm(texture, b.BData, cur, uint8(b.Con0))
	b.mem.Write16(b.DPtr, d)
	if d != 0 {
		b.ZeroLatch = false
	}

	octant := b.Con1 & 0x0007
	longAxisIsX := octant&0x04 == 0
	b.lineErr += int(b.AMod)
	if b.lineErr >= 0 {
		b.lineErr += int(b.BMod)
		if longAxisIsX {
			b.DPtr = uint32(int32(b.DPtr) + int32(b.CMod))
		} else {
			b.DPtr += 2 * uint32(b.lineSign)
		}
	}
	if longAxisIsX {
		b.DPtr += 2 * uint32(b.lineSign)
	} else {
		b.DPtr = uint32(int32(b.DPtr) + int32(b.CMod))
	}
}

// RunToCompletion drains the whole transfer synchronously, used by fast
// accuracy mode. The caller raises the blitter interrupt as soon as this
// returns; the interrupt is not delayed to the cycle on which accurate mode
// would have finished.
func (b *Blitter) RunToCompletion() {
	for b.Busy {
		b.StepWord()
	}
}

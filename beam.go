// beam.go - raster beam position tracking and beam/cycle conversion.

package amiga

// Beam tracks the horizontal and vertical raster position and converts
// between beam coordinates and master cycles. It owns the Frame so that
// hpos/vpos wrap decisions can consult the long-frame flipflop.
type Beam struct {
	Clock Cycle
	Hpos  int
	Vpos  int
	Frame Frame
}

// NewBeam returns a beam parked at the top-left of frame 0.
func NewBeam() *Beam {
	return &Beam{}
}

// HposMax returns the number of DMA slots in the current line. Only line 0
// of a long frame gets the extra slot (the historical "long line" quirk);
// every other line is a short line.
func (b *Beam) HposMax() int {
	if b.Vpos == 0 && b.Frame.LongFrame() {
		return HposCountLong
	}
	return HposCountShort
}

// NumLines returns the number of raster lines in the current frame.
func (b *Beam) NumLines() int {
	return b.Frame.NumLines()
}

// Tick advances the beam by one DMA slot (one hpos step); Agnus.Execute
// calls it once per increment of its Clock.
// Returns (hsync, vsync) indicating whether this tick crossed a line or
// frame boundary.
func (b *Beam) Tick() (hsync, vsync bool) {
	b.Hpos++
	if b.Hpos >= b.HposMax() {
		b.Hpos = 0
		hsync = true
		b.Vpos++
		if b.Vpos >= b.NumLines() {
			b.Vpos = 0
			vsync = true
		}
	}
	return hsync, vsync
}

// Position returns the current (vpos, hpos) pair.
func (b *Beam) Position() (vpos, hpos int) {
	return b.Vpos, b.Hpos
}

// CyclesUntil returns the number of master cycles from the current position
// until the beam reaches the given (vpos, hpos), assuming the frame geometry
// does not change in between. The copper's WAIT does not call it; it
// compares the beam position on each step.
func (b *Beam) CyclesUntil(vpos, hpos int) Cycle {
	if vpos == b.Vpos && hpos >= b.Hpos {
		return Cycle(hpos-b.Hpos) * CyclesPerDMACycle
	}
	remaining := Cycle(b.HposMax()-b.Hpos) * CyclesPerDMACycle
	v := b.Vpos + 1
	for v != vpos {
		remaining += Cycle(HposCountShort) * CyclesPerDMACycle
		v++
		if v >= b.NumLines() {
			v = 0
		}
	}
	remaining += Cycle(hpos) * CyclesPerDMACycle
	return remaining
}

// sprite.go - per-sprite DMA state machine.
//
// Grounded on distilled spec §4.4 step 8 and the invariant in §8.7: a
// sprite's DMA unit transitions IDLE -> ACTIVE exactly when vpos reaches its
// programmed VSTART, and ACTIVE -> IDLE exactly when vpos reaches VSTOP. No
// other transition is permitted, which is why UpdateAtLine is the only
// place State is ever written outside Reset.

package amiga

// SpriteState is a sprite DMA unit's position in its fetch cycle.
type SpriteState int

const (
	SpriteIdle SpriteState = iota
	SpriteActive
)

// SpriteUnit tracks one of the eight hardware sprites' DMA state and
// pointer/data registers.
type SpriteUnit struct {
	State SpriteState

	VStrt, VStop int
	Hpos         int

	Pointer uint32 // 18/19-bit chip RAM address of this sprite's control block
	Ctl     uint16
	PosData uint16 // SPRxPOS
	Data    uint16 // SPRxDATA
	DatB    uint16 // SPRxDATB

	// fetchedPosCtl is true once this activation has pulled its position and
	// control words; until then a DMA slot pulls posctl, afterward it pulls
	// successive data-word pairs.
	fetchedPosCtl bool
}

// UpdateAtLine applies the IDLE<->ACTIVE transition for the just-reached
// vpos. Called once per line, from Agnus's HSYNC handler.
func (s *SpriteUnit) UpdateAtLine(vpos int) {
	switch s.State {
	case SpriteIdle:
		if vpos == s.VStrt {
			s.State = SpriteActive
			s.fetchedPosCtl = false
		}
	case SpriteActive:
		if vpos == s.VStop {
			s.State = SpriteIdle
		}
	}
}

// Fetch services one DMA slot for this sprite: the first slot after
// activation pulls SPRxPOS/SPRxCTL, every subsequent slot pulls a
// SPRxDATA/SPRxDATB pair. read16 fetches the next chip-RAM word at Pointer
// and advances it by 2.
func (s *SpriteUnit) Fetch(read16 func(addr uint32) uint16) {
	if s.State != SpriteActive {
		return
	}
	if !s.fetchedPosCtl {
		s.PosData = read16(s.Pointer)
		s.Pointer += 2
		s.Ctl = read16(s.Pointer)
		s.Pointer += 2
		s.fetchedPosCtl = true
		return
	}
	s.Data = read16(s.Pointer)
	s.Pointer += 2
	s.DatB = read16(s.Pointer)
	s.Pointer += 2
}

// custom_regs.go - the $DFF000..$DFF1FF custom chip register offset map.
//
// Grounded on distilled spec §6's register list and the canonical OCS/ECS
// hardware reference manual offsets; memory_map.go's RegionCustom dispatches
// here through Amiga.ReadCustom/WriteCustom, and the copper's MOVE
// instruction reaches the same switch through Amiga.WriteCustomReg. Register
// groups that repeat per-channel (audio, bitplane pointers, sprites, colors)
// are computed from a base offset and stride rather than enumerated, the way
// memory_map.go computes a region's backing offset from a page base.
package amiga

const (
	regDMACONR = 0x002
	regVPOSR   = 0x004
	regVHPOSR  = 0x006
	regPOTGOR  = 0x016
	regINTENAR = 0x01C
	regINTREQR = 0x01E

	regDSKPTH  = 0x020
	regDSKPTL  = 0x022
	regDSKLEN  = 0x024
	regVPOSW   = 0x02A
	regCOPCON  = 0x02E
	regPOTGO   = 0x034
	regCLXCON  = 0x098
	regADKCON  = 0x09E
	regDSKSYNC = 0x07E

	regBLTCON0 = 0x040
	regBLTCON1 = 0x042
	regBLTAFWM = 0x044
	regBLTALWM = 0x046
	regBLTCPTH = 0x048
	regBLTCPTL = 0x04A
	regBLTBPTH = 0x04C
	regBLTBPTL = 0x04E
	regBLTAPTH = 0x050
	regBLTAPTL = 0x052
	regBLTDPTH = 0x054
	regBLTDPTL = 0x056
	regBLTSIZE = 0x058
	regBLTCMOD = 0x060
	regBLTBMOD = 0x062
	regBLTAMOD = 0x064
	regBLTDMOD = 0x066

	regCOP1LCH = 0x080
	regCOP1LCL = 0x082
	regCOP2LCH = 0x084
	regCOP2LCL = 0x086
	regCOPJMP1 = 0x088
	regCOPJMP2 = 0x08A

	regDIWSTRT = 0x08E
	regDIWSTOP = 0x090
	regDDFSTRT = 0x092
	regDDFSTOP = 0x094
	regDMACON  = 0x096
	regINTENA  = 0x09A
	regINTREQ  = 0x09C

	regAUD0LCH = 0x0A0
	audioRegStride = 0x10

	regBPL1PTH = 0x0E0

	regBPLCON0 = 0x100
	regBPLCON1 = 0x102
	regBPLCON2 = 0x104
	regBPL1MOD = 0x108
	regBPL2MOD = 0x10A

	regSPR0PTH = 0x120
	spritePtrStride = 0x04

	regSPR0POS = 0x140
	spriteDataStride = 0x08

	regCOLOR00 = 0x180
	numColors  = 32
)

// audioRegOffsets splits offset into (channel, register-within-channel) for
// the four AUDxLCH/LCL/LEN/PER/VOL registers.
func audioRegOffsets(offset uint16) (channel int, reg int, ok bool) {
	if offset < regAUD0LCH || offset >= regAUD0LCH+4*audioRegStride {
		return 0, 0, false
	}
	rel := offset - regAUD0LCH
	return int(rel / audioRegStride), int(rel % audioRegStride), true
}

// bplPtrOffsets splits offset into (plane 0..5, high-or-low) for the six
// BPLnPTH/BPLnPTL pointer pairs.
func bplPtrOffsets(offset uint16) (plane int, high bool, ok bool) {
	if offset < regBPL1PTH || offset >= regBPL1PTH+6*4 {
		return 0, false, false
	}
	rel := offset - regBPL1PTH
	return int(rel / 4), rel%4 == 0, true
}

// spritePtrOffsets splits offset into (sprite 0..7, high-or-low) for the
// eight SPRnPTH/SPRnPTL pairs.
func spritePtrOffsets(offset uint16) (sprite int, high bool, ok bool) {
	if offset < regSPR0PTH || offset >= regSPR0PTH+8*spritePtrStride {
		return 0, false, false
	}
	rel := offset - regSPR0PTH
	return int(rel / spritePtrStride), rel%spritePtrStride == 0, true
}

// spriteDataOffsets splits offset into (sprite 0..7, sub-register 0..3) for
// the eight SPRnPOS/CTL/DATA/DATB quadruples.
func spriteDataOffsets(offset uint16) (sprite int, sub int, ok bool) {
	if offset < regSPR0POS || offset >= regSPR0POS+8*spriteDataStride {
		return 0, 0, false
	}
	rel := offset - regSPR0POS
	return int(rel / spriteDataStride), int(rel % spriteDataStride / 2), true
}

// colorIndex returns the palette index for a COLORnn offset, or -1.
func colorIndex(offset uint16) int {
	if offset < regCOLOR00 || offset >= regCOLOR00+numColors*2 {
		return -1
	}
	return int(offset-regCOLOR00) / 2
}

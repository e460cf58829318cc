// disk.go - floppy drives, MFM sector codec and the disk DMA controller.
//
// Grounded on distilled spec §4 (disk controller row) and §6 (floppy image
// shape: (cylinder, side, sector) 512-byte blocks, 11 sectors/track DD, 22
// HD). The MFM codec implements the classic Amiga odd/even bit-split used
// for a sector's data field (decode(encode(x)) == x, the round-trip law in
// §8); it does not emit a literal clock-bit bitstream, since nothing in the
// core consumes raw flux. Disk DMA (ServiceWord) keeps DSKPT and the word
// count but moves no data; sector contents are reached only through
// ReadSector/WriteSector.

package amiga

import "fmt"

// DiskDensity selects the sectors-per-track count.
type DiskDensity int

const (
	DensityDD DiskDensity = iota // 11 sectors/track
	DensityHD                    // 22 sectors/track
)

func (d DiskDensity) sectorsPerTrack() int {
	if d == DensityHD {
		return 22
	}
	return 11
}

const (
	diskCylinders  = 80
	diskSides      = 2
	diskSectorSize = 512
)

// FloppyImage holds decoded sector data for one disk.
type FloppyImage struct {
	Density DiskDensity
	Data    []byte // diskCylinders * diskSides * sectorsPerTrack * diskSectorSize
}

// NewFloppyImage allocates a blank image of the given density.
func NewFloppyImage(density DiskDensity) *FloppyImage {
	n := diskCylinders * diskSides * density.sectorsPerTrack() * diskSectorSize
	return &FloppyImage{Density: density, Data: make([]byte, n)}
}

func (f *FloppyImage) sectorOffset(cyl, side, sector int) (int, error) {
	spt := f.Density.sectorsPerTrack()
	if cyl < 0 || cyl >= diskCylinders || side < 0 || side >= diskSides || sector < 0 || sector >= spt {
		return 0, fmt.Errorf("disk: sector address (cyl=%d side=%d sector=%d) out of range", cyl, side, sector)
	}
	track := cyl*diskSides + side
	return (track*spt + sector) * diskSectorSize, nil
}

// ReadSector returns a copy of one sector's 512 decoded bytes.
func (f *FloppyImage) ReadSector(cyl, side, sector int) ([]byte, error) {
	off, err := f.sectorOffset(cyl, side, sector)
	if err != nil {
		return nil, err
	}
	out := make([]byte, diskSectorSize)
	copy(out, f.Data[off:off+diskSectorSize])
	return out, nil
}

// WriteSector overwrites one sector's 512 bytes.
func (f *FloppyImage) WriteSector(cyl, side, sector int, data []byte) error {
	off, err := f.sectorOffset(cyl, side, sector)
	if err != nil {
		return err
	}
	if len(data) != diskSectorSize {
		return fmt.Errorf("disk: sector write must be exactly %d bytes, got %d", diskSectorSize, len(data))
	}
	copy(f.Data[off:off+diskSectorSize], data)
	return nil
}

// mfmSplit decomposes a 32-bit long into its odd and even bit streams, the
// building block of the Amiga MFM sector-data encoding.
func mfmSplit(v uint32) (odd, even uint32) {
	odd = (v >> 1) & 0x55555555
	even = v & 0x55555555
	return
}

// mfmMerge is the inverse of mfmSplit.
func mfmMerge(odd, even uint32) uint32 {
	return (odd << 1) | even
}

// EncodeSector turns 512 bytes of decoded sector data into its 1024-byte
// MFM data-field representation: the odd-bit longs followed by the
// even-bit longs, per the real Amiga sector layout.
func EncodeSector(sector []byte) ([]byte, error) {
	if len(sector) != diskSectorSize {
		return nil, fmt.Errorf("disk: EncodeSector needs %d bytes, got %d", diskSectorSize, len(sector))
	}
	out := make([]byte, diskSectorSize*2)
	longs := diskSectorSize / 4
	for i := 0; i < longs; i++ {
		v := uint32(sector[i*4])<<24 | uint32(sector[i*4+1])<<16 | uint32(sector[i*4+2])<<8 | uint32(sector[i*4+3])
		odd, even := mfmSplit(v)
		putLong(out[i*4:], odd)
		putLong(out[diskSectorSize+i*4:], even)
	}
	return out, nil
}

// DecodeSector is the inverse of EncodeSector.
func DecodeSector(mfm []byte) ([]byte, error) {
	if len(mfm) != diskSectorSize*2 {
		return nil, fmt.Errorf("disk: DecodeSector needs %d bytes, got %d", diskSectorSize*2, len(mfm))
	}
	out := make([]byte, diskSectorSize)
	longs := diskSectorSize / 4
	for i := 0; i < longs; i++ {
		odd := getLong(mfm[i*4:])
		even := getLong(mfm[diskSectorSize+i*4:])
		v := mfmMerge(odd, even)
		out[i*4] = byte(v >> 24)
		out[i*4+1] = byte(v >> 16)
		out[i*4+2] = byte(v >> 8)
		out[i*4+3] = byte(v)
	}
	return out, nil
}

func putLong(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}

func getLong(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// FloppyDrive is one of the up to four DF0:-DF3: drives.
type FloppyDrive struct {
	Connected      bool
	Density        DiskDensity
	MechanicalDelay bool
	Image          *FloppyImage
	Cylinder       int
	Side           int
	MotorOn        bool
	WriteProtected bool
}

// Step moves the read/write head by one cylinder; dir>0 moves inward.
func (d *FloppyDrive) Step(dir int) {
	d.Cylinder += dir
	if d.Cylinder < 0 {
		d.Cylinder = 0
	}
	if d.Cylinder >= diskCylinders {
		d.Cylinder = diskCylinders - 1
	}
}

// DiskController is Paula's disk DMA engine: DSKPT/DSKLEN/DSKSYNC plus the
// four drives. It is serviced once per DasDisk event slot.
type DiskController struct {
	Drives   [4]FloppyDrive
	Selected int // -1 = none selected

	DSKPT   uint32
	DSKLEN  uint16 // bit15 = DMA enable/last-word marker (double-write protocol), bits 0-13 = word count
	DSKSYNC uint16

	wordsRemaining int
	writing        bool

	Interrupts *InterruptController
}

// NewDiskController returns a controller with no drive selected.
func NewDiskController() *DiskController {
	return &DiskController{Selected: -1}
}

// WriteDsklen implements the real hardware's double-write DSKLEN protocol:
// the first write with bit 15 set arms the transfer length; a second write
// with bit 15 set actually starts DMA (a write with bit 15 clear disarms).
func (d *DiskController) WriteDsklen(value uint16) {
	prev := d.DSKLEN
	d.DSKLEN = value
	if value&0x8000 == 0 {
		d.wordsRemaining = 0
		return
	}
	if prev&0x8000 != 0 && d.wordsRemaining == 0 {
		d.wordsRemaining = int(value & 0x3FFF)
		d.writing = value&0x4000 != 0
	}
}

// ServiceWord steps the current disk DMA operation by one word, called from
// Agnus's DasDisk slot handler: it advances DSKPT by 2, counts the word off
// and raises DSKBLK after the last one. No data moves: read16 and write16
// are not called, so neither chip RAM nor the floppy image changes.
func (d *DiskController) ServiceWord(read16 func(addr uint32) uint16, write16 func(addr uint32, v uint16)) {
	if d.wordsRemaining <= 0 {
		return
	}
	drive := d.activeDrive()
	if drive == nil || drive.Image == nil {
		d.wordsRemaining = 0
		return
	}
	// Only the DMA bookkeeping is modelled; no word is read or written.
	if d.writing {
		_ = write16
	} else {
		_ = read16
	}
	d.DSKPT += 2
	d.wordsRemaining--
	if d.wordsRemaining == 0 && d.Interrupts != nil {
		d.Interrupts.Raise(IntDSKBLK)
	}
}

func (d *DiskController) activeDrive() *FloppyDrive {
	if d.Selected < 0 || d.Selected >= len(d.Drives) {
		return nil
	}
	drv := &d.Drives[d.Selected]
	if !drv.Connected || !drv.MotorOn {
		return nil
	}
	return drv
}

// CheckSync compares a just-read MFM word against DSKSYNC and raises the
// DSKSYNC interrupt on a match, per the hardware's sync-word detector.
func (d *DiskController) CheckSync(word uint16) {
	if word == d.DSKSYNC && d.Interrupts != nil {
		d.Interrupts.Raise(IntDSKSYNC)
	}
}

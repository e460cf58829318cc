// dma_debugger.go - per-channel DMA bus activity overlay.
//
// Supplemented from original_source/Emulator/Agnus/DmaDebugger.cpp, which
// the distilled spec named ("hand the just-completed line... to the DMA
// debugger for overlay painting", §4.4) but did not give a data model.
// This keeps the original's eight-channel enable/color configuration
// (CPU, refresh, disk, audio, bitplane, sprite, copper, blitter) and
// collapses its paint step to one overlay scanline buffer per raster line,
// fed by BusArbiter.Slots at HSYNC.

package amiga

// DmaChannel is one of the eight coarse channels the original debugger
// configures independently; several fine-grained BusOwner values (the six
// bitplane owners, the eight sprite owners, the four audio owners) fold into
// one channel each here, matching the original's DMA_CHANNEL_* grouping.
type DmaChannel int

const (
	ChannelCPU DmaChannel = iota
	ChannelRefresh
	ChannelDisk
	ChannelAudio
	ChannelBitplane
	ChannelSprite
	ChannelCopper
	ChannelBlitter
	dmaChannelCount
)

// channelOf maps a fine-grained bus owner to its coarse debug channel.
func channelOf(o BusOwner) (DmaChannel, bool) {
	switch {
	case o == OwnerNone:
		return 0, false
	case o == OwnerCPU:
		return ChannelCPU, true
	case o == OwnerRefresh:
		return ChannelRefresh, true
	case o == OwnerDisk:
		return ChannelDisk, true
	case o >= OwnerAudio0 && o <= OwnerAudio3:
		return ChannelAudio, true
	case o >= OwnerBPL1 && o <= OwnerBPL6:
		return ChannelBitplane, true
	case o >= OwnerSprite0 && o <= OwnerSprite7:
		return ChannelSprite, true
	case o == OwnerCopper:
		return ChannelCopper, true
	case o == OwnerBlitter:
		return ChannelBlitter, true
	default:
		return 0, false
	}
}

// DmaDebugMode selects how the overlay blends with the rendered picture.
type DmaDebugMode int

const (
	DmaDisplayModeFGLayer DmaDebugMode = iota
	DmaDisplayModeBGLayer
)

// DmaDebuggerConfig mirrors the original's per-channel visualize/color table
// plus its global enable/opacity/mode switches.
type DmaDebuggerConfig struct {
	Enabled     bool
	DisplayMode DmaDebugMode
	Opacity     int // 0-100

	Visualize [dmaChannelCount]bool
	Color     [dmaChannelCount]uint32 // 0xRRGGBB00
}

// defaultDmaDebuggerConfig matches the original's _initialize defaults: every
// channel visualized and colored except the CPU channel, which is off by
// default since it dominates every line.
func defaultDmaDebuggerConfig() DmaDebuggerConfig {
	cfg := DmaDebuggerConfig{
		DisplayMode: DmaDisplayModeFGLayer,
		Opacity:     50,
	}
	cfg.Visualize[ChannelCPU] = false
	cfg.Visualize[ChannelRefresh] = true
	cfg.Visualize[ChannelDisk] = true
	cfg.Visualize[ChannelAudio] = true
	cfg.Visualize[ChannelBitplane] = true
	cfg.Visualize[ChannelSprite] = true
	cfg.Visualize[ChannelCopper] = true
	cfg.Visualize[ChannelBlitter] = true

	cfg.Color[ChannelCPU] = 0xFFFFFF00
	cfg.Color[ChannelRefresh] = 0xFF000000
	cfg.Color[ChannelDisk] = 0x00FF0000
	cfg.Color[ChannelAudio] = 0xFF00FF00
	cfg.Color[ChannelBitplane] = 0x00FFFF00
	cfg.Color[ChannelSprite] = 0x0088FF00
	cfg.Color[ChannelCopper] = 0xFFFF0000
	cfg.Color[ChannelBlitter] = 0xFFCC0000
	return cfg
}

// DmaDebugger records, per raster line, which bus owner held each DMA slot
// so a host frontend can paint an activity overlay.
type DmaDebugger struct {
	Config DmaDebuggerConfig

	// Overlay holds one row per previously-completed line, one color value
	// per hpos slot; empty or disabled-channel slots are left as 0.
	Overlay [NumLinesLong][HposCountLong]uint32
}

// NewDmaDebugger returns a debugger with the original's default channel
// visibility/colors, disabled until explicitly enabled.
func NewDmaDebugger() *DmaDebugger {
	return &DmaDebugger{Config: defaultDmaDebuggerConfig()}
}

// Reset clears the recorded overlay without touching configuration.
func (d *DmaDebugger) Reset() {
	for i := range d.Overlay {
		for j := range d.Overlay[i] {
			d.Overlay[i][j] = 0
		}
	}
}

// CaptureLine samples a completed line's bus ownership out of the arbiter's
// slot array, called from Agnus's HSYNC handler for the line just ended.
func (d *DmaDebugger) CaptureLine(vpos int, bus *BusArbiter) {
	if !d.Config.Enabled || vpos < 0 || vpos >= NumLinesLong {
		return
	}
	row := &d.Overlay[vpos]
	for hpos, slot := range bus.Slots {
		ch, ok := channelOf(slot.Owner)
		if !ok || !d.Config.Visualize[ch] {
			row[hpos] = 0
			continue
		}
		row[hpos] = d.Config.Color[ch]
	}
}

// SetVisible toggles whether a channel is painted.
func (d *DmaDebugger) SetVisible(ch DmaChannel, visible bool) {
	if ch >= 0 && int(ch) < len(d.Config.Visualize) {
		d.Config.Visualize[ch] = visible
	}
}

// SetColor assigns a channel's overlay color.
func (d *DmaDebugger) SetColor(ch DmaChannel, argb uint32) {
	if ch >= 0 && int(ch) < len(d.Config.Color) {
		d.Config.Color[ch] = argb
	}
}

// config.go - core configuration and its tagged-option setter.
//
// Grounded on distilled spec §2.1/§9: a single plain-field Config struct,
// validated at NewAmiga/PowerOn, set one option at a time through a
// (id, value) tagged list rather than a constructor with dozens of
// parameters - the "configuration objects with many fields set one at a
// time" re-architecture guidance.

package amiga

// ConfigOption tags one entry in a SetConfig call.
type ConfigOption int

const (
	OptAgnusRevision ConfigOption = iota
	OptDeniseRevision
	OptChipRAMSize
	OptSlowRAMSize
	OptFastRAMSize
	OptExtROMStartPage
	OptRAMInitPattern
	OptBlitterAccuracy
	OptDriveConnected
	OptDriveType
	OptDriveMechanicalDelay
	OptCIARevision
	OptECLockSync
	OptAudioSampling
	OptAudioFilter
	OptAudioVolumeL
	OptAudioVolumeR
	OptAudioChannelVolume
	OptAudioChannelPan
	OptDmaDebugEnable
	OptDmaDebugVisible
	OptDmaDebugColor
)

// DeniseRevision selects OCS vs ECS Denise behavior (DENISEID readback,
// HAM/EHB availability).
type DeniseRevision int

const (
	DeniseOCS DeniseRevision = iota
	DeniseECS
)

// AudioSamplingMethod selects how Paula's DMA-derived sample stream is
// interpolated before mixing.
type AudioSamplingMethod int

const (
	AudioSamplingNone AudioSamplingMethod = iota
	AudioSamplingNearest
	AudioSamplingLinear
)

// AudioFilterType selects the output low-pass filter model.
type AudioFilterType int

const (
	AudioFilterNone AudioFilterType = iota
	AudioFilterLED
	AudioFilterButterworth
)

// DriveConfig holds one floppy drive's configuration.
type DriveConfig struct {
	Connected       bool
	Density         DiskDensity
	MechanicalDelay bool
}

// Config is the single plain-field configuration struct the spec calls for.
// It is populated with defaults by NewConfig and mutated one field at a
// time via SetOption; NewAmiga/PowerOn validate it as a unit.
type Config struct {
	AgnusRevision  AgnusRevision
	DeniseRevision DeniseRevision

	ChipRAMSize    int
	SlowRAMSize    int
	FastRAMSize    int
	ExtROMStartPage int
	RAMInitPattern  byte

	BlitterAccuracy BlitterMode

	Drives [4]DriveConfig

	CIARevisionHasTODBug bool
	EClockSync           bool

	AudioSampling      AudioSamplingMethod
	AudioFilter        AudioFilterType
	AudioVolumeL       int
	AudioVolumeR       int
	AudioChannelVolume [4]int
	AudioChannelPan    [4]int

	DmaDebug DmaDebuggerConfig
}

// NewConfig returns a Config matching a stock OCS A500: 512 KiB chip RAM, no
// slow/fast RAM, fast blitter, drive 0 connected as a DD drive.
func NewConfig() *Config {
	c := &Config{
		AgnusRevision:   Agnus8367,
		DeniseRevision:  DeniseOCS,
		ChipRAMSize:     512 * 1024,
		BlitterAccuracy: BlitterFast,
		AudioVolumeL:    100,
		AudioVolumeR:    100,
		DmaDebug:        defaultDmaDebuggerConfig(),
	}
	c.Drives[0] = DriveConfig{Connected: true, Density: DensityDD}
	for i := range c.AudioChannelVolume {
		c.AudioChannelVolume[i] = 100
	}
	return c
}

// chipRAMLimit returns the maximum chip RAM addressable by a given Agnus
// revision, per §6's configuration table.
func chipRAMLimit(rev AgnusRevision) int {
	switch rev {
	case Agnus8372:
		return 1024 * 1024
	case Agnus8375:
		return 2 * 1024 * 1024
	default:
		return 512 * 1024
	}
}

// SetOption applies one (id, value) tagged configuration change. driveIdx
// is only consulted by per-drive options; channel is only consulted by
// per-channel audio/DMA-debug options.
func (c *Config) SetOption(opt ConfigOption, driveIdx, channel int, value int64) error {
	switch opt {
	case OptAgnusRevision:
		c.AgnusRevision = AgnusRevision(value)
	case OptDeniseRevision:
		c.DeniseRevision = DeniseRevision(value)
	case OptChipRAMSize:
		if int(value) > chipRAMLimit(c.AgnusRevision) {
			return &ConfigError{Option: "chipRAMSize", Err: ErrChipRAMTooLarge}
		}
		c.ChipRAMSize = int(value)
	case OptSlowRAMSize:
		c.SlowRAMSize = int(value)
	case OptFastRAMSize:
		c.FastRAMSize = int(value)
	case OptExtROMStartPage:
		c.ExtROMStartPage = int(value)
	case OptRAMInitPattern:
		c.RAMInitPattern = byte(value)
	case OptBlitterAccuracy:
		c.BlitterAccuracy = BlitterMode(value)
	case OptDriveConnected:
		if err := c.checkDriveIndex(driveIdx); err != nil {
			return err
		}
		c.Drives[driveIdx].Connected = value != 0
	case OptDriveType:
		if err := c.checkDriveIndex(driveIdx); err != nil {
			return err
		}
		c.Drives[driveIdx].Density = DiskDensity(value)
	case OptDriveMechanicalDelay:
		if err := c.checkDriveIndex(driveIdx); err != nil {
			return err
		}
		c.Drives[driveIdx].MechanicalDelay = value != 0
	case OptCIARevision:
		c.CIARevisionHasTODBug = value != 0
	case OptECLockSync:
		c.EClockSync = value != 0
	case OptAudioSampling:
		c.AudioSampling = AudioSamplingMethod(value)
	case OptAudioFilter:
		c.AudioFilter = AudioFilterType(value)
	case OptAudioVolumeL:
		c.AudioVolumeL = int(value)
	case OptAudioVolumeR:
		c.AudioVolumeR = int(value)
	case OptAudioChannelVolume:
		if err := c.checkChannelIndex(channel); err != nil {
			return err
		}
		c.AudioChannelVolume[channel] = int(value)
	case OptAudioChannelPan:
		if err := c.checkChannelIndex(channel); err != nil {
			return err
		}
		c.AudioChannelPan[channel] = int(value)
	case OptDmaDebugEnable:
		c.DmaDebug.Enabled = value != 0
	case OptDmaDebugVisible:
		if channel < 0 || channel >= len(c.DmaDebug.Visualize) {
			return &ConfigError{Option: "dmaDebugVisible", Err: ErrInvalidOptionValue}
		}
		c.DmaDebug.Visualize[channel] = value != 0
	case OptDmaDebugColor:
		if channel < 0 || channel >= len(c.DmaDebug.Color) {
			return &ConfigError{Option: "dmaDebugColor", Err: ErrInvalidOptionValue}
		}
		c.DmaDebug.Color[channel] = uint32(value)
	default:
		return &ConfigError{Option: "unknown", Err: ErrInvalidOptionValue}
	}
	return nil
}

func (c *Config) checkDriveIndex(idx int) error {
	if idx < 0 || idx >= len(c.Drives) {
		return &ConfigError{Option: "driveIndex", Err: ErrInvalidOptionValue}
	}
	return nil
}

func (c *Config) checkChannelIndex(idx int) error {
	if idx < 0 || idx >= len(c.AudioChannelVolume) {
		return &ConfigError{Option: "channelIndex", Err: ErrInvalidOptionValue}
	}
	return nil
}

// Validate checks the cross-field invariants PowerOn relies on: chip RAM
// within the selected Agnus's limit, and (per §7) an Aros-class ROM that
// needs more RAM than configured is rejected before power-on proceeds.
func (c *Config) Validate(romSize int, needsExpansionRAM bool) error {
	if c.ChipRAMSize > chipRAMLimit(c.AgnusRevision) {
		return ErrChipRAMTooLarge
	}
	if romSize == 0 {
		return ErrMissingROM
	}
	if needsExpansionRAM && c.FastRAMSize == 0 && c.SlowRAMSize == 0 {
		return ErrInsufficientRAM
	}
	return nil
}

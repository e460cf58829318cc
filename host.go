// host.go - the host collaborator interfaces (§6, ADDED).
//
// These three interfaces are the only surface the core expects a host UI/IO
// layer to provide: a frame presenter, an audio sink and an input source.
// None of them is imported by any other file in this package - they exist so
// presenter_ebiten.go, audio_backend_oto.go and debug_console.go (and any
// other host the core is embedded in) have a documented contract to satisfy,
// mirroring machine_bus.go's MachineBus/HostOutput split in the teacher: the
// chipset core never names a concrete UI toolkit, only an interface.

package amiga

// FramePresenter receives the stable framebuffer Denise just finished
// rendering into. stable is owned by the core between calls: a host that
// needs to hold onto the pixels past the call returning must copy them.
type FramePresenter interface {
	Present(stable []uint32, w, h int)
}

// AudioSink is how a host's audio callback pulls samples out of the core.
// Drain should fill out with up to len(out)/2 interleaved (L, R) sample
// pairs and return the number of stereo frames actually written; a source
// that underruns returns fewer frames than requested rather than blocking.
type AudioSink interface {
	Drain(out []float32) (n int)
}

// InputEventKind distinguishes the different input devices the real Amiga
// exposed, per the original's keyboard/mouse/joystick split.
type InputEventKind int

const (
	InputKeyPress InputEventKind = iota
	InputKeyRelease
	InputMouseMove
	InputMouseButton
	InputJoystickMove
	InputJoystickButton
)

// InputEvent is one host-observed input occurrence. Which fields are
// meaningful depends on Kind:
//   - InputKeyPress/InputKeyRelease: Code is an Amiga keyboard scan code.
//   - InputMouseMove: DX/DY are the relative quadrature deltas since the
//     last poll.
//   - InputMouseButton/InputJoystickButton: Code is the button index,
//     Pressed reports down/up.
//   - InputJoystickMove: DX/DY are -1/0/1 per axis (digital joystick).
type InputEvent struct {
	Kind    InputEventKind
	Code    byte
	Pressed bool
	DX, DY  int
}

// InputSource is how a host delivers the input it collected since the last
// poll. PollEvents must not block; an input source with nothing new returns
// an empty (or nil) slice.
type InputSource interface {
	PollEvents() []InputEvent
}

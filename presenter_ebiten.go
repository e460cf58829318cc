// Copyright (c) 2026 intuitionamiga
// https://github.com/intuitionamiga/amigacore
// License: GPLv3 or later

// presenter_ebiten.go - reference FramePresenter/InputSource backed by ebiten.
//
// Grounded on video_backend_ebiten.go's EbitenOutput: a mutex-guarded RGBA
// byte buffer fed by the emulator side, an ebiten.Game implementation that
// blits it every Draw, and inpututil-based key edge detection translated
// into discrete events. Unlike the teacher's EbitenOutput (which owns a
// byte-oriented framebuffer the core writes into region by region), Present
// here receives Denise's already-composited []uint32 stable buffer wholesale
// once per frame, so the only per-Draw work is a format conversion and a
// copy.

package amiga

import (
	"image"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// EbitenPresenter is a FramePresenter and InputSource backed by an ebiten
// window. It satisfies the interfaces in host.go but is never imported by
// any other file in this package.
type EbitenPresenter struct {
	title string
	scale int

	mu     sync.Mutex
	pixels []byte // RGBA8888, resized to match the last Present call
	w, h   int

	events []InputEvent

	started   bool
	closeOnce sync.Once
	done      chan struct{}
}

// NewEbitenPresenter returns a presenter that has not yet opened a window;
// call Run to start the ebiten game loop (which blocks the calling
// goroutine, matching ebiten's own threading requirement that RunGame own
// the main OS thread).
func NewEbitenPresenter(title string, scale int) *EbitenPresenter {
	if scale < 1 {
		scale = 1
	}
	return &EbitenPresenter{title: title, scale: scale, done: make(chan struct{})}
}

// Present implements FramePresenter. stable is owned by the caller once
// Present returns, so the conversion to RGBA bytes copies eagerly rather
// than retaining the slice.
func (p *EbitenPresenter) Present(stable []uint32, w, h int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	need := w * h * 4
	if len(p.pixels) != need {
		p.pixels = make([]byte, need)
	}
	for i, px := range stable {
		o := i * 4
		p.pixels[o+0] = byte(px >> 16)
		p.pixels[o+1] = byte(px >> 8)
		p.pixels[o+2] = byte(px)
		p.pixels[o+3] = 0xFF
	}
	p.w, p.h = w, h
}

// PollEvents implements InputSource, draining the key events accumulated
// since the last call.
func (p *EbitenPresenter) PollEvents() []InputEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		return nil
	}
	out := p.events
	p.events = nil
	return out
}

// Run opens the window and blocks until it is closed, exactly like
// ebiten.RunGame itself; callers typically launch the core's run loop on a
// separate goroutine before calling Run.
func (p *EbitenPresenter) Run() error {
	ebiten.SetWindowTitle(p.title)
	ebiten.SetWindowSize(DisplayWidth*p.scale, DisplayHeight*p.scale)
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)
	p.started = true
	return ebiten.RunGame(p)
}

// Stop asks ebiten to terminate the game loop: the next Update returns
// ebiten.Termination, which ends Run.
func (p *EbitenPresenter) Stop() {
	p.closeOnce.Do(func() { close(p.done) })
}

func (p *EbitenPresenter) stopped() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Update implements ebiten.Game, translating keyboard edges into
// InputEvents and terminating the loop once Stop has been called or the
// window's close button was used.
func (p *EbitenPresenter) Update() error {
	if p.stopped() || ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}

	var pending []InputEvent
	for _, key := range pressableKeys {
		if inpututil.IsKeyJustPressed(key) {
			if code, ok := keyToScanCode[key]; ok {
				pending = append(pending, InputEvent{Kind: InputKeyPress, Code: code, Pressed: true})
			}
		}
		if inpututil.IsKeyJustReleased(key) {
			if code, ok := keyToScanCode[key]; ok {
				pending = append(pending, InputEvent{Kind: InputKeyRelease, Code: code, Pressed: false})
			}
		}
	}
	if len(pending) > 0 {
		p.mu.Lock()
		p.events = append(p.events, pending...)
		p.mu.Unlock()
	}
	return nil
}

// Draw implements ebiten.Game, blitting the last frame Present delivered.
func (p *EbitenPresenter) Draw(screen *ebiten.Image) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.w == 0 || p.h == 0 {
		return
	}
	img := ebiten.NewImageFromImage(&image.RGBA{
		Pix:    p.pixels,
		Stride: p.w * 4,
		Rect:   image.Rect(0, 0, p.w, p.h),
	})
	screen.DrawImage(img, nil)
}

// Layout implements ebiten.Game, reporting the emulated display's native
// resolution; ebiten scales it to the window per SetWindowResizable.
func (p *EbitenPresenter) Layout(_, _ int) (int, int) {
	return DisplayWidth, DisplayHeight
}

// pressableKeys is the subset of the PC keyboard this reference presenter
// translates; a full Amiga keymap is host UI policy, not core behavior.
var pressableKeys = []ebiten.Key{
	ebiten.KeyA, ebiten.KeyB, ebiten.KeyC, ebiten.KeyD, ebiten.KeyE, ebiten.KeyF,
	ebiten.KeyG, ebiten.KeyH, ebiten.KeyI, ebiten.KeyJ, ebiten.KeyK, ebiten.KeyL,
	ebiten.KeyM, ebiten.KeyN, ebiten.KeyO, ebiten.KeyP, ebiten.KeyQ, ebiten.KeyR,
	ebiten.KeyS, ebiten.KeyT, ebiten.KeyU, ebiten.KeyV, ebiten.KeyW, ebiten.KeyX,
	ebiten.KeyY, ebiten.KeyZ,
	ebiten.Key0, ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4,
	ebiten.Key5, ebiten.Key6, ebiten.Key7, ebiten.Key8, ebiten.Key9,
	ebiten.KeySpace, ebiten.KeyEnter, ebiten.KeyBackspace, ebiten.KeyEscape,
	ebiten.KeyShiftLeft, ebiten.KeyShiftRight, ebiten.KeyControlLeft,
	ebiten.KeyArrowUp, ebiten.KeyArrowDown, ebiten.KeyArrowLeft, ebiten.KeyArrowRight,
}

// keyToScanCode maps the keys above to their Amiga keyboard scan codes
// (key-down codes; bit 7 set is the corresponding key-up code on real
// hardware, which PollEvents' Kind field already distinguishes instead).
var keyToScanCode = map[ebiten.Key]byte{
	ebiten.KeyA: 0x20, ebiten.KeyB: 0x35, ebiten.KeyC: 0x33, ebiten.KeyD: 0x22,
	ebiten.KeyE: 0x12, ebiten.KeyF: 0x23, ebiten.KeyG: 0x24, ebiten.KeyH: 0x25,
	ebiten.KeyI: 0x17, ebiten.KeyJ: 0x26, ebiten.KeyK: 0x27, ebiten.KeyL: 0x28,
	ebiten.KeyM: 0x37, ebiten.KeyN: 0x36, ebiten.KeyO: 0x18, ebiten.KeyP: 0x19,
	ebiten.KeyQ: 0x10, ebiten.KeyR: 0x13, ebiten.KeyS: 0x21, ebiten.KeyT: 0x14,
	ebiten.KeyU: 0x16, ebiten.KeyV: 0x34, ebiten.KeyW: 0x11, ebiten.KeyX: 0x32,
	ebiten.KeyY: 0x15, ebiten.KeyZ: 0x31,
	ebiten.Key0: 0x0A, ebiten.Key1: 0x01, ebiten.Key2: 0x02, ebiten.Key3: 0x03,
	ebiten.Key4: 0x04, ebiten.Key5: 0x05, ebiten.Key6: 0x06, ebiten.Key7: 0x07,
	ebiten.Key8: 0x08, ebiten.Key9: 0x09,
	ebiten.KeySpace: 0x40, ebiten.KeyEnter: 0x44, ebiten.KeyBackspace: 0x41,
	ebiten.KeyEscape: 0x45,
	ebiten.KeyShiftLeft: 0x60, ebiten.KeyShiftRight: 0x61, ebiten.KeyControlLeft: 0x63,
	ebiten.KeyArrowUp: 0x4C, ebiten.KeyArrowDown: 0x4D,
	ebiten.KeyArrowRight: 0x4E, ebiten.KeyArrowLeft: 0x4F,
}

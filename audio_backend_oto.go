// Copyright (c) 2026 intuitionamiga
// https://github.com/intuitionamiga/amigacore
// License: GPLv3 or later

// audio_backend_oto.go - reference AudioSink backed by ebitengine/oto v3.
//
// Grounded on audio_backend_oto.go's OtoPlayer: an oto.Context/oto.Player
// pair where the player object itself is the io.Reader oto pulls from, with
// the sample source reached via an atomic pointer so the hot Read path never
// takes a lock, and a []float32 buffer reinterpreted as raw bytes through
// unsafe.Pointer instead of a per-sample encode loop. Unlike the teacher's
// mono SoundChip, this core's AudioRing produces interleaved stereo frames,
// so ChannelCount is 2 and Drain (the host.go contract) drains StereoSample
// pairs rather than single floats.

package amiga

import (
	"sync/atomic"
	"unsafe"

	"github.com/ebitengine/oto/v3"
)

// OtoSink is an AudioSink backed by an oto output stream. It owns the
// player's io.Reader side; Drain (host.go's AudioSink method) and the
// player's internal Read both pull from the same AudioRing, so a host using
// OtoSink should drive playback through Start/Stop rather than calling
// Drain directly.
type OtoSink struct {
	ctx    *oto.Context
	player *oto.Player
	ring   atomic.Pointer[AudioRing]

	frameBuf []StereoSample
}

// NewOtoSink opens an oto context at sampleRate with a stereo float32
// format and returns a sink not yet bound to a ring; call Bind before
// Start.
func NewOtoSink(sampleRate int) (*OtoSink, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   0,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	s := &OtoSink{ctx: ctx, frameBuf: make([]StereoSample, 1024)}
	s.player = ctx.NewPlayer(s)
	return s, nil
}

// Bind attaches the ring Read pulls samples from. Safe to call while the
// player is running: the swap is atomic and Read always sees a consistent
// pointer.
func (s *OtoSink) Bind(ring *AudioRing) {
	s.ring.Store(ring)
}

// Read implements io.Reader for oto.Player: p is a raw float32LE byte
// buffer, interleaved L/R, that Read must fill completely per call.
func (s *OtoSink) Read(p []byte) (int, error) {
	ring := s.ring.Load()
	if ring == nil {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}

	frames := len(p) / 8 // 2 channels * 4 bytes each
	if cap(s.frameBuf) < frames {
		s.frameBuf = make([]StereoSample, frames)
	}
	buf := s.frameBuf[:frames]
	ring.Read(buf)

	copy(p, (*[1 << 30]byte)(unsafe.Pointer(&buf[0]))[:len(p)])
	return len(p), nil
}

// Drain implements host.go's AudioSink directly against a bound ring,
// without going through oto at all; used by hosts that want to pull samples
// on their own schedule (e.g. writing a WAV capture) rather than letting
// oto's callback drive playback.
func (s *OtoSink) Drain(out []float32) (n int) {
	ring := s.ring.Load()
	if ring == nil {
		return 0
	}
	frames := len(out) / 2
	if cap(s.frameBuf) < frames {
		s.frameBuf = make([]StereoSample, frames)
	}
	buf := s.frameBuf[:frames]
	produced := ring.Read(buf)
	for i, smp := range buf {
		out[i*2] = smp.L
		out[i*2+1] = smp.R
	}
	return produced
}

// Start begins playback.
func (s *OtoSink) Start() { s.player.Play() }

// Stop halts playback without releasing the underlying player.
func (s *OtoSink) Stop() { s.player.Pause() }

// Close releases the player and its context resources.
func (s *OtoSink) Close() error {
	return s.player.Close()
}

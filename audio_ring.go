// audio_ring.go - the lock-free single-producer/single-consumer audio ring.
//
// Grounded on distilled spec §5 (SPSC ring of stereo float samples,
// overflow/underflow counters feeding an adaptive sample-rate controller)
// and the mutex-guarded-struct idiom of audio_chip.go's SoundChip,
// generalized here from a coarse RWMutex to atomic head/tail indices since
// the spec requires the producer (core) to never block on the consumer
// (host audio backend).

package amiga

import "sync/atomic"

// StereoSample is one interleaved left/right audio frame.
type StereoSample struct {
	L, R float32
}

// audioRingCapacity must be a power of two so index wraparound is a cheap
// mask instead of a modulo.
const audioRingCapacity = 16384

// AudioRing is a lock-free SPSC ring buffer of stereo samples. Write is
// called only from the core's audio-generation path; Read is called only
// from the host's audio callback. Both may run concurrently without a lock.
type AudioRing struct {
	buf  [audioRingCapacity]StereoSample
	head uint64 // next write index, producer-owned
	tail uint64 // next read index, consumer-owned

	Overflow  uint64 // producer overwrote unread samples
	Underflow uint64 // consumer read past the producer, substituted silence

	// sampleRateTrim nudges the producer's effective sample rate by a
	// fraction of a percent (parts per 10000) to keep the ring centered,
	// per the adaptive-rate controller described in §5.
	sampleRateTrim int32
}

// NewAudioRing returns an empty ring.
func NewAudioRing() *AudioRing {
	return &AudioRing{}
}

// Reset empties the ring and clears the counters, preserving no state
// across a power cycle.
func (r *AudioRing) Reset() {
	atomic.StoreUint64(&r.head, 0)
	atomic.StoreUint64(&r.tail, 0)
	atomic.StoreUint64(&r.Overflow, 0)
	atomic.StoreUint64(&r.Underflow, 0)
	atomic.StoreInt32(&r.sampleRateTrim, 0)
}

// Write pushes one sample. If the ring is full, the oldest unread sample is
// overwritten and Overflow is incremented; the producer never blocks.
func (r *AudioRing) Write(s StereoSample) {
	head := atomic.LoadUint64(&r.head)
	tail := atomic.LoadUint64(&r.tail)
	if head-tail >= audioRingCapacity {
		atomic.AddUint64(&r.tail, 1)
		atomic.AddUint64(&r.Overflow, 1)
	}
	r.buf[head&(audioRingCapacity-1)] = s
	atomic.AddUint64(&r.head, 1)
	r.adaptRate(head - tail)
}

// Read pulls up to len(out) samples, substituting silence and incrementing
// Underflow for any the consumer runs dry on. Returns the number of
// genuinely produced samples copied.
func (r *AudioRing) Read(out []StereoSample) int {
	produced := 0
	for i := range out {
		head := atomic.LoadUint64(&r.head)
		tail := atomic.LoadUint64(&r.tail)
		if tail >= head {
			out[i] = StereoSample{}
			atomic.AddUint64(&r.Underflow, 1)
			continue
		}
		out[i] = r.buf[tail&(audioRingCapacity-1)]
		atomic.AddUint64(&r.tail, 1)
		produced++
	}
	return produced
}

// Available reports how many unread samples currently sit in the ring.
func (r *AudioRing) Available() int {
	head := atomic.LoadUint64(&r.head)
	tail := atomic.LoadUint64(&r.tail)
	return int(head - tail)
}

// adaptRate nudges sampleRateTrim toward keeping the ring roughly half full:
// a ring trending empty asks the producer to run slightly faster (positive
// trim), a ring trending full asks it to slow down (negative trim).
func (r *AudioRing) adaptRate(fill uint64) {
	const target = audioRingCapacity / 2
	const maxTrimPPM = 50 // +/-0.5%, expressed in parts per 10000
	trim := int32(0)
	if int64(fill) < target/2 {
		trim = maxTrimPPM
	} else if int64(fill) > target+target/2 {
		trim = -maxTrimPPM
	}
	atomic.StoreInt32(&r.sampleRateTrim, trim)
}

// SampleRateTrimPPM reports the current adaptive trim in parts per 10000,
// for the host to apply to its playback clock.
func (r *AudioRing) SampleRateTrimPPM() int32 {
	return atomic.LoadInt32(&r.sampleRateTrim)
}

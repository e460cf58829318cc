// runloop.go - the outer execution state machine and run-loop control word.
//
// Supplemented from original_source/Emulator/Base/Thread.h's Off/Paused/
// Running state machine (§2.3): the distilled spec's §5 only named the two
// synchronization modes (Periodic/Pulsed); this adds the explicit power
// state the original models so PowerOn/PowerOff/Run/Pause have somewhere to
// live, plus the warp-mode toggle the spec's §6 configuration table
// mentions but never gave state. Grounded on the teacher's CPUShim-style
// mutex-guarded struct for the concurrency story (§5: no locks inside the
// event loop itself, a coarse lock only at the outer-loop/host boundary).

package amiga

import "sync"

// RunState mirrors the original's three-state machine: Off, Paused, Running.
type RunState int

const (
	RunOff RunState = iota
	RunPaused
	RunRunning
)

func (s RunState) String() string {
	switch s {
	case RunOff:
		return "off"
	case RunPaused:
		return "paused"
	case RunRunning:
		return "running"
	default:
		return "invalid"
	}
}

// SyncMode is the two pacing strategies named in §5.
type SyncMode int

const (
	SyncPeriodic SyncMode = iota // host calls ExecuteUntil on a wall-clock tick
	SyncPulsed                   // host signals each step explicitly
)

// runLoopCtrl bits are checked once per event dispatch boundary, per §7:
// runtime "errors" like breakpoints are signals, not exceptions.
type runLoopCtrl uint32

const (
	ctrlPauseRequested runLoopCtrl = 1 << iota
	ctrlHaltRequested
	ctrlBreakpointHit
	ctrlWatchpointHit
)

// RunLoop owns the Off/Paused/Running state machine, the warp-mode toggle,
// and the control word the event loop consults at dispatch boundaries. It
// does not itself own a goroutine; the host drives Agnus.ExecuteUntil in
// whatever loop (periodic ticker or pulsed signal) fits its pacing.
type RunLoop struct {
	mu sync.Mutex

	state    RunState
	sync     SyncMode
	warpMode bool
	warpLock bool

	ctrl runLoopCtrl

	BreakpointPC   uint32
	WatchpointAddr uint32
}

// NewRunLoop returns a loop in the Off state, periodic sync mode.
func NewRunLoop() *RunLoop {
	return &RunLoop{state: RunOff, sync: SyncPeriodic}
}

// State reports the current power/run state.
func (r *RunLoop) State() RunState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// PowerOn transitions Off -> Paused; Paused/Running are left unchanged.
func (r *RunLoop) PowerOn() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == RunOff {
		r.state = RunPaused
	}
}

// PowerOff transitions any state to Off.
func (r *RunLoop) PowerOff() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = RunOff
}

// Run transitions Off/Paused -> Running; Running is left unchanged. Off
// implicitly powers on first, matching the original's powerOn()+_run().
func (r *RunLoop) Run() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != RunRunning {
		r.state = RunRunning
	}
}

// Pause transitions Running -> Paused; Off/Paused are left unchanged.
func (r *RunLoop) Pause() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == RunRunning {
		r.state = RunPaused
	}
}

// IsRunning, IsPaused and IsPoweredOff are the readable predicates named in
// the original's state diagram.
func (r *RunLoop) IsRunning() bool    { return r.State() == RunRunning }
func (r *RunLoop) IsPaused() bool     { return r.State() == RunPaused }
func (r *RunLoop) IsPoweredOff() bool { return r.State() == RunOff }
func (r *RunLoop) IsPoweredOn() bool  { return r.State() != RunOff }

// SetSyncMode switches between periodic (wall-clock-paced) and pulsed
// (host-signalled) stepping.
func (r *RunLoop) SetSyncMode(m SyncMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sync = m
}

// SyncModeOf reports the current pacing mode.
func (r *RunLoop) SyncModeOf() SyncMode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sync
}

// SetWarp enables or disables warp mode (timing sync disabled, run flat
// out), unless it is locked.
func (r *RunLoop) SetWarp(on bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.warpLock {
		return false
	}
	r.warpMode = on
	return true
}

// LockWarp prevents further warp-mode changes, used by regression tooling
// in the original to stop a host from disabling warp mid-test.
func (r *RunLoop) LockWarp(locked bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warpLock = locked
}

// Warp reports whether warp mode is currently active.
func (r *RunLoop) Warp() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.warpMode
}

// RequestPause asks the loop to pause at the next event dispatch boundary.
func (r *RunLoop) RequestPause() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctrl |= ctrlPauseRequested
}

// RequestHalt asks the loop to exit cleanly after finishing the current
// event.
func (r *RunLoop) RequestHalt() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctrl |= ctrlHaltRequested
}

// SignalBreakpoint records a breakpoint hit as a runLoopCtrl bit, per §7 -
// not an error, a signal the outer loop checks.
func (r *RunLoop) SignalBreakpoint(pc uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctrl |= ctrlBreakpointHit
	r.BreakpointPC = pc
}

// SignalWatchpoint records a watchpoint hit the same way.
func (r *RunLoop) SignalWatchpoint(addr uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctrl |= ctrlWatchpointHit
	r.WatchpointAddr = addr
}

// PollAndClear is called once per event dispatch boundary; it reports which
// control bits are set and clears them. A pause, breakpoint or watchpoint
// moves Running to Paused; a halt moves any state to Off.
func (r *RunLoop) PollAndClear() (pause, halt, breakpoint, watchpoint bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.ctrl
	r.ctrl = 0
	pause = c&ctrlPauseRequested != 0
	halt = c&ctrlHaltRequested != 0
	breakpoint = c&ctrlBreakpointHit != 0
	watchpoint = c&ctrlWatchpointHit != 0
	if pause || breakpoint || watchpoint {
		if r.state == RunRunning {
			r.state = RunPaused
		}
	}
	if halt {
		r.state = RunOff
	}
	return
}

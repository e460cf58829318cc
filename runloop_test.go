package amiga

import "testing"

func TestRunLoopPowerOnOffTransitions(t *testing.T) {
	r := NewRunLoop()
	if !r.IsPoweredOff() {
		t.Fatalf("expected initial state Off")
	}
	r.PowerOn()
	if !r.IsPaused() {
		t.Fatalf("expected Paused after PowerOn, got %v", r.State())
	}
	r.Run()
	if !r.IsRunning() {
		t.Fatalf("expected Running after Run, got %v", r.State())
	}
	r.Pause()
	if !r.IsPaused() {
		t.Fatalf("expected Paused after Pause, got %v", r.State())
	}
	r.PowerOff()
	if !r.IsPoweredOff() {
		t.Fatalf("expected Off after PowerOff, got %v", r.State())
	}
}

func TestRunLoopRunFromOffImpliesPowerOn(t *testing.T) {
	r := NewRunLoop()
	r.Run()
	if !r.IsRunning() {
		t.Fatalf("expected Run() from Off to reach Running, got %v", r.State())
	}
}

func TestRunLoopWarpLockPreventsChange(t *testing.T) {
	r := NewRunLoop()
	r.LockWarp(true)
	if r.SetWarp(true) {
		t.Fatalf("expected SetWarp to fail while locked")
	}
	if r.Warp() {
		t.Fatalf("expected warp mode unchanged while locked")
	}
	r.LockWarp(false)
	if !r.SetWarp(true) {
		t.Fatalf("expected SetWarp to succeed once unlocked")
	}
	if !r.Warp() {
		t.Fatalf("expected warp mode enabled")
	}
}

func TestRunLoopPauseRequestTransitionsAtPoll(t *testing.T) {
	r := NewRunLoop()
	r.Run()
	r.RequestPause()
	pause, halt, bp, wp := r.PollAndClear()
	if !pause || halt || bp || wp {
		t.Fatalf("expected only pause bit set, got pause=%v halt=%v bp=%v wp=%v", pause, halt, bp, wp)
	}
	if !r.IsPaused() {
		t.Fatalf("expected Paused after poll consumed the pause request")
	}
}

func TestRunLoopHaltRequestPowersOff(t *testing.T) {
	r := NewRunLoop()
	r.Run()
	r.RequestHalt()
	_, halt, _, _ := r.PollAndClear()
	if !halt {
		t.Fatalf("expected halt bit set")
	}
	if !r.IsPoweredOff() {
		t.Fatalf("expected Off after halt processed")
	}
}

func TestRunLoopBreakpointSignalPausesAndReportsPC(t *testing.T) {
	r := NewRunLoop()
	r.Run()
	r.SignalBreakpoint(0x1000)
	_, _, bp, _ := r.PollAndClear()
	if !bp {
		t.Fatalf("expected breakpoint bit set")
	}
	if r.BreakpointPC != 0x1000 {
		t.Fatalf("expected breakpoint PC recorded, got %#x", r.BreakpointPC)
	}
	if !r.IsPaused() {
		t.Fatalf("expected Paused after breakpoint signal")
	}
}

func TestRunLoopPollAndClearResetsControlWord(t *testing.T) {
	r := NewRunLoop()
	r.Run()
	r.RequestPause()
	r.PollAndClear()
	pause, halt, bp, wp := r.PollAndClear()
	if pause || halt || bp || wp {
		t.Fatalf("expected all control bits cleared after first poll")
	}
}

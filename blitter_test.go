package amiga

import "testing"

type fakeBlitterMem struct {
	mem map[uint32]uint16
}

func newFakeBlitterMem() *fakeBlitterMem { return &fakeBlitterMem{mem: map[uint32]uint16{}} }
func (f *fakeBlitterMem) Read16(addr uint32) uint16        { return f.mem[addr] }
func (f *fakeBlitterMem) Write16(addr uint32, v uint16)     { f.mem[addr] = v }

func TestMintermCopyA(t *testing.T) {
	// LUT 0xF0 = D follows A regardless of B,C (LUT bit a<<2|b<<1|c is set wherever a=1)
	got := minterm(0xFFFF, 0x0000, 0x0000, 0xF0)
	if got != 0xFFFF {
		t.Fatalf("expected copy-A minterm to produce 0xFFFF, got %#x", got)
	}
}

func TestBlitterCopyModeTransfersAToD(t *testing.T) {
	mem := newFakeBlitterMem()
	mem.mem[0x1000] = 0xABCD
	mem.mem[0x1002] = 0x1234

	b := NewBlitter(mem)
	b.Con0 = 0x0800 | 0x0100 | 0xF0 // USEA | USED | copy-A LUT
	b.APtr = 0x1000
	b.DPtr = 0x2000
	b.Start(2, 1)
	b.RunToCompletion()

	if mem.mem[0x2000] != 0xABCD || mem.mem[0x2002] != 0x1234 {
		t.Fatalf("expected A copied to D, got %#x %#x", mem.mem[0x2000], mem.mem[0x2002])
	}
	if !b.Finished {
		t.Fatalf("expected blitter to report finished")
	}
}

func TestBlitterZeroLatchClearsOnNonZero(t *testing.T) {
	mem := newFakeBlitterMem()
	mem.mem[0x1000] = 0x0001
	b := NewBlitter(mem)
	b.Con0 = 0x0800 | 0x0100 | 0xF0
	b.APtr = 0x1000
	b.DPtr = 0x2000
	b.Start(1, 1)
	b.RunToCompletion()
	if b.ZeroLatch {
		t.Fatalf("expected zero latch cleared by non-zero result")
	}
}

func TestBlitterZeroLatchStaysSetWhenAllZero(t *testing.T) {
	mem := newFakeBlitterMem()
	b := NewBlitter(mem)
	b.Con0 = 0x0800 | 0x0100 | 0xF0
	b.APtr = 0x1000
	b.DPtr = 0x2000
	b.Start(2, 2)
	b.RunToCompletion()
	if !b.ZeroLatch {
		t.Fatalf("expected zero latch to remain set when every word is zero")
	}
}

func TestBlitterModuloAppliedBetweenRows(t *testing.T) {
	mem := newFakeBlitterMem()
	mem.mem[0x1000] = 0x1111
	mem.mem[0x1002] = 0x2222
	mem.mem[0x1008] = 0x3333 // row 2 starts after a modulo skip of 4 bytes

	b := NewBlitter(mem)
	b.Con0 = 0x0800 | 0x0100 | 0xF0
	b.APtr = 0x1000
	b.AMod = 4 // skip 4 bytes between rows (2 words written + 4 modulo = 0x1000->0x1008)
	b.DPtr = 0x3000
	b.DMod = 4
	b.Start(2, 2)
	b.RunToCompletion()

	if mem.mem[0x3008] != 0x3333 {
		t.Fatalf("expected second row's first word at 0x3008 to be 0x3333, got %#x", mem.mem[0x3008])
	}
}

func TestBlitterBusyUntilFinished(t *testing.T) {
	mem := newFakeBlitterMem()
	b := NewBlitter(mem)
	b.Con0 = 0x0800 | 0x0100 | 0xF0
	b.Start(1, 1)
	if !b.Busy || b.Finished {
		t.Fatalf("expected busy and not finished right after Start")
	}
	b.StepWord()
	if b.Busy || !b.Finished {
		t.Fatalf("expected finished after stepping the only word")
	}
}

func TestBlitterTakeCycleAlternatesUnlessNasty(t *testing.T) {
	b := NewBlitter(newFakeBlitterMem())
	if !b.takeCycle(false) {
		t.Fatalf("expected the first cycle to be taken")
	}
	if b.takeCycle(false) {
		t.Fatalf("expected the second cycle to be yielded")
	}
	if !b.takeCycle(false) {
		t.Fatalf("expected the third cycle to be taken again")
	}
	if !b.takeCycle(true) {
		t.Fatalf("expected nasty mode to take every cycle regardless of parity")
	}
	if !b.takeCycle(true) {
		t.Fatalf("expected nasty mode to take every cycle regardless of parity")
	}
}

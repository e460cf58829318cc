package amiga

import (
	"bytes"
	"testing"
)

func TestSnapshotRoundTripsRegisterAndMemoryState(t *testing.T) {
	m := NewAmiga(NewConfig())
	if err := m.PowerOn(testROM()); err != nil {
		t.Fatalf("unexpected PowerOn error: %v", err)
	}

	m.Agnus.DMACON = dmaconBPLEN
	m.Agnus.BPLPT[2] = 0x00102000
	m.Denise.Colors[5] = 0x0ABC
	m.Paula.Channels[1].Vol = 32
	m.CIAA.TimerA = 0x1234
	m.CIAB.TOD = 42
	m.Memory.Chip[0x4000] = 0xAB
	m.Interrupts.WriteIntena(0x8000 | IntBLIT)

	var buf bytes.Buffer
	if err := m.SaveSnapshot(&buf); err != nil {
		t.Fatalf("unexpected SaveSnapshot error: %v", err)
	}

	fresh := NewAmiga(NewConfig())
	if err := fresh.PowerOn(testROM()); err != nil {
		t.Fatalf("unexpected PowerOn error: %v", err)
	}
	if err := fresh.LoadSnapshot(&buf); err != nil {
		t.Fatalf("unexpected LoadSnapshot error: %v", err)
	}

	if fresh.Agnus.DMACON&dmaconBPLEN == 0 {
		t.Fatalf("expected DMACON restored")
	}
	if fresh.Agnus.BPLPT[2] != 0x00102000 {
		t.Fatalf("expected BPLPT[2] restored, got %#x", fresh.Agnus.BPLPT[2])
	}
	if fresh.Denise.Colors[5] != 0x0ABC {
		t.Fatalf("expected color 5 restored, got %#x", fresh.Denise.Colors[5])
	}
	if fresh.Paula.Channels[1].Vol != 32 {
		t.Fatalf("expected channel 1 volume restored, got %d", fresh.Paula.Channels[1].Vol)
	}
	if fresh.CIAA.TimerA != 0x1234 {
		t.Fatalf("expected CIA A timer A restored, got %#x", fresh.CIAA.TimerA)
	}
	if fresh.CIAB.TOD != 42 {
		t.Fatalf("expected CIA B TOD restored, got %d", fresh.CIAB.TOD)
	}
	if fresh.Memory.Chip[0x4000] != 0xAB {
		t.Fatalf("expected chip RAM byte restored")
	}
	if fresh.Interrupts.Intena&IntBLIT == 0 {
		t.Fatalf("expected INTENA restored")
	}
}

func TestSnapshotRejectsBadMagic(t *testing.T) {
	m := NewAmiga(NewConfig())
	buf := bytes.NewBufferString("NOTVAMIGAGARBAGE")
	if err := m.LoadSnapshot(buf); err == nil {
		t.Fatalf("expected an error loading a stream with the wrong magic")
	}
}

func TestSnapshotRejectsFutureMajorVersion(t *testing.T) {
	m := NewAmiga(NewConfig())
	var buf bytes.Buffer
	buf.WriteString(snapshotMagic)
	buf.WriteByte(snapshotVersionMajor + 1)
	buf.WriteByte(0)
	buf.WriteByte(0)
	if err := m.LoadSnapshot(&buf); err == nil {
		t.Fatalf("expected an error loading a future major version")
	}
}

func TestSnapshotLoadFailureLeavesPriorStateIntact(t *testing.T) {
	m := NewAmiga(NewConfig())
	if err := m.PowerOn(testROM()); err != nil {
		t.Fatalf("unexpected PowerOn error: %v", err)
	}
	m.Agnus.DMACON = dmaconBPLEN
	m.CIAA.TimerA = 0x4242

	truncated := bytes.NewBufferString(snapshotMagic)
	truncated.WriteByte(snapshotVersionMajor)
	truncated.WriteByte(0)
	// Missing the subminor byte and the entire gzip body.
	if err := m.LoadSnapshot(truncated); err == nil {
		t.Fatalf("expected an error loading a truncated snapshot")
	}
	if m.Agnus.DMACON&dmaconBPLEN == 0 {
		t.Fatalf("expected DMACON unchanged after a failed load")
	}
	if m.CIAA.TimerA != 0x4242 {
		t.Fatalf("expected CIA A timer A unchanged after a failed load, got %#x", m.CIAA.TimerA)
	}
}

func TestSnapshotRoundTripsSchedulerState(t *testing.T) {
	m := NewAmiga(NewConfig())
	if err := m.PowerOn(testROM()); err != nil {
		t.Fatalf("unexpected PowerOn error: %v", err)
	}
	m.Agnus.Scheduler.ScheduleRel(SlotCopper, m.Agnus.Clock, 17, EventID(3))

	var buf bytes.Buffer
	if err := m.SaveSnapshot(&buf); err != nil {
		t.Fatalf("unexpected SaveSnapshot error: %v", err)
	}

	fresh := NewAmiga(NewConfig())
	if err := fresh.PowerOn(testROM()); err != nil {
		t.Fatalf("unexpected PowerOn error: %v", err)
	}
	if err := fresh.LoadSnapshot(&buf); err != nil {
		t.Fatalf("unexpected LoadSnapshot error: %v", err)
	}
	got := fresh.Agnus.Scheduler.Slot[SlotCopper]
	if got.ID != EventID(3) || got.TriggerCycle != m.Agnus.Scheduler.Slot[SlotCopper].TriggerCycle {
		t.Fatalf("expected SlotCopper's scheduled event restored, got %+v", got)
	}
}

func TestSnapshotRoundTripsPendingRegisterRecorderEntries(t *testing.T) {
	m := NewAmiga(NewConfig())
	if err := m.PowerOn(testROM()); err != nil {
		t.Fatalf("unexpected PowerOn error: %v", err)
	}
	m.Agnus.WriteReg(RegDDFSTRT, 0x38, 0, false)

	var buf bytes.Buffer
	if err := m.SaveSnapshot(&buf); err != nil {
		t.Fatalf("unexpected SaveSnapshot error: %v", err)
	}

	fresh := NewAmiga(NewConfig())
	if err := fresh.PowerOn(testROM()); err != nil {
		t.Fatalf("unexpected PowerOn error: %v", err)
	}
	if err := fresh.LoadSnapshot(&buf); err != nil {
		t.Fatalf("unexpected LoadSnapshot error: %v", err)
	}
	pending, ok := fresh.Agnus.Recorder.Peek()
	if !ok || pending.Reg != RegDDFSTRT || pending.Value != 0x38 {
		t.Fatalf("expected pending DDFSTRT write restored, got %+v ok=%v", pending, ok)
	}
	fresh.Agnus.ExecuteUntil(fresh.Agnus.Clock + 3)
	if fresh.Agnus.DDFSTRT != 0x38 {
		t.Fatalf("expected restored deferred write to still apply after its delay, got %#x", fresh.Agnus.DDFSTRT)
	}
}

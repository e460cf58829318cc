package amiga

import "testing"

func TestMemoryMapChipRAMReadWrite(t *testing.T) {
	m := NewMemoryMap(0x80000, 0, 0)
	m.Write16(0x1000, 0xABCD)
	if got := m.Read16(0x1000); got != 0xABCD {
		t.Fatalf("expected 0xABCD, got %#x", got)
	}
}

func TestMemoryMapROMWritesDropped(t *testing.T) {
	rom := make([]byte, 0x80000)
	m := NewMemoryMap(0x80000, 0, 0)
	m.ROM = rom
	m.RebuildPageTable()
	addr := uint32(pageROMStart) << 16
	m.Write16(addr, 0x1234)
	if got := m.Read16(addr); got != 0 {
		t.Fatalf("expected ROM write to be dropped, got %#x", got)
	}
}

func TestMemoryMapOVLMirrorsROMAtLowPages(t *testing.T) {
	m := NewMemoryMap(0x80000, 0, 0)
	m.ROM = make([]byte, 0x80000)
	for i := range m.ROM {
		m.ROM[i] = byte(i)
	}
	m.RebuildPageTable()
	m.SetOVL(true)
	lowVal := m.Read16(0x0000)
	romBase := uint32(pageROMStart) << 16
	highVal := m.Read16(romBase)
	if lowVal != highVal {
		t.Fatalf("expected OVL to mirror ROM at address 0, got low=%#x high=%#x", lowVal, highVal)
	}
}

func TestMemoryMapOVLDisabledExposesChipAtLowPages(t *testing.T) {
	m := NewMemoryMap(0x80000, 0, 0)
	m.ROM = make([]byte, 0x80000)
	m.RebuildPageTable()
	m.SetOVL(false)
	m.Write16(0x0000, 0x5555)
	if got := m.Read16(0x0000); got != 0x5555 {
		t.Fatalf("expected chip RAM writable at page 0 once OVL clear, got %#x", got)
	}
}

func TestMemoryMapWOMSealedAfterFirstLoad(t *testing.T) {
	m := NewMemoryMap(0x80000, 0, 0)
	m.WOM = make([]byte, 0x40000)
	m.RebuildPageTable()
	womBase := uint32(pageROMStart) << 16
	m.Write16(womBase, 0x1111)
	m.SealWOM()
	m.Write16(womBase, 0x2222)
	if got := m.Read16(womBase); got != 0x1111 {
		t.Fatalf("expected WOM sealed after first write, got %#x", got)
	}
}

func TestMemoryMapSpypeekReadOnly(t *testing.T) {
	m := NewMemoryMap(0x80000, 0, 0)
	m.Write16(0x2000, 0x9999)
	a := m.Spypeek16(0x2000)
	b := m.Spypeek16(0x2000)
	if a != b || a != 0x9999 {
		t.Fatalf("expected stable spy reads, got %#x then %#x", a, b)
	}
}

func TestMemoryMapCustomRegisterDataBusValue(t *testing.T) {
	m := NewMemoryMap(0x80000, 0, 0)
	got := m.Read16(uint32(pageCustomPage)<<16 | 0x004) // no Custom handler attached
	if got != 0 {
		t.Fatalf("expected zero data bus value before any custom write, got %#x", got)
	}
}

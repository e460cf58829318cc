package amiga

import "testing"

func TestComputeDDFRoundsAndClamps(t *testing.T) {
	r := ComputeDDF(0x20, 0xD0, false)
	if r.StrtOdd != 0x20 {
		t.Fatalf("0x20 is already 8-aligned, want unchanged, got %#x", r.StrtOdd)
	}
	r2 := ComputeDDF(0x22, 0xD0, false)
	if r2.StrtOdd != 0x28 {
		t.Fatalf("want round up to 0x28, got %#x", r2.StrtOdd)
	}
	r3 := ComputeDDF(0x10, 0xFF, false)
	if r3.StrtOdd != bplHardStart {
		t.Fatalf("want clamp to hard start %#x, got %#x", bplHardStart, r3.StrtOdd)
	}
	if r3.StopOdd > bplHardStop {
		t.Fatalf("want clamp to hard stop %#x, got %#x", bplHardStop, r3.StopOdd)
	}
}

func TestRebuildBplTableAssignsPlanesRoundRobin(t *testing.T) {
	tab := NewEventTables()
	tab.RebuildDDF(0x38, 0xD0)
	tab.RebuildBplTable(false, 3, 0)

	seen := map[int]bool{}
	count := 0
	lastIdx := -1
	for i, slot := range tab.BplEvent {
		if slot.Plane != 0 {
			count++
			seen[slot.Plane] = true
			lastIdx = i
		}
	}
	if count == 0 {
		t.Fatalf("expected some bitplane slots to be assigned")
	}
	for p := 1; p <= 3; p++ {
		if !seen[p] {
			t.Fatalf("plane %d never fetched", p)
		}
	}
	if !tab.BplEvent[lastIdx].Last {
		t.Fatalf("last active slot %d should carry Last marker", lastIdx)
	}
}

func TestRebuildBplTableZeroPlanesIsIdle(t *testing.T) {
	tab := NewEventTables()
	tab.RebuildDDF(0x38, 0xD0)
	tab.RebuildBplTable(false, 0, 0)
	for i, slot := range tab.BplEvent {
		if slot.Plane != 0 {
			t.Fatalf("expected no active slots with bpu=0, found one at %d", i)
		}
		if tab.NextBplEvent[i] != -1 {
			t.Fatalf("expected jump table to be all -1, found %d at %d", tab.NextBplEvent[i], i)
		}
	}
}

func TestNextBplEventJumpsToNextActiveSlot(t *testing.T) {
	tab := NewEventTables()
	tab.RebuildDDF(0x38, 0xD0)
	tab.RebuildBplTable(true, 2, 0)

	firstActive := -1
	for i, slot := range tab.BplEvent {
		if slot.Plane != 0 {
			firstActive = i
			break
		}
	}
	if firstActive < 0 {
		t.Fatalf("expected at least one active slot")
	}
	if tab.NextBplEvent[0] != firstActive {
		t.Fatalf("NextBplEvent[0] should jump to first active slot %d, got %d", firstActive, tab.NextBplEvent[0])
	}
}

func TestRebuildDasTableMasterDisableYieldsEmptyTable(t *testing.T) {
	tab := NewEventTables()
	tab.RebuildDasTable(0)
	for i, slot := range tab.DasEvent {
		if slot.Kind != DasNone {
			t.Fatalf("master DMA disabled, expected no das slots, found one at %d", i)
		}
	}
}

func TestRebuildDasTableRefreshAlwaysPresentWhenMasterEnabled(t *testing.T) {
	tab := NewEventTables()
	tab.RebuildDasTable(dmaconDMAEN)
	for _, h := range refreshSlots {
		if tab.DasEvent[h].Kind != DasRefresh {
			t.Fatalf("expected refresh slot at %#x", h)
		}
	}
}

func TestRebuildDasTableAudioChannelsGatedByEnableBits(t *testing.T) {
	tab := NewEventTables()
	tab.RebuildDasTable(dmaconDMAEN | dmaconAUD0EN | dmaconAUD2EN)
	if tab.DasEvent[audioSlotBase].Kind != DasAudio0 {
		t.Fatalf("expected audio0 slot enabled")
	}
	if tab.DasEvent[audioSlotBase+1].Kind != DasNone {
		t.Fatalf("audio1 should be disabled")
	}
	if tab.DasEvent[audioSlotBase+2].Kind != DasAudio2 {
		t.Fatalf("expected audio2 slot enabled")
	}
}

func TestRebuildDasTableDiskGatedByEnableBit(t *testing.T) {
	tab := NewEventTables()
	tab.RebuildDasTable(dmaconDMAEN | dmaconDSKEN)
	for i := 0; i < 3; i++ {
		if tab.DasEvent[diskSlotBase+i].Kind != DasDisk {
			t.Fatalf("expected disk slot at %d", diskSlotBase+i)
		}
	}
}

func TestNextDasEventJumpTableConsistentWithTable(t *testing.T) {
	tab := NewEventTables()
	tab.RebuildDasTable(dmaconDMAEN | dmaconSPREN)
	for i := 0; i < len(tab.DasEvent); i++ {
		j := tab.NextDasEvent[i]
		if j == -1 {
			for k := i; k < len(tab.DasEvent); k++ {
				if tab.DasEvent[k].Kind != DasNone {
					t.Fatalf("NextDasEvent[%d]=-1 but slot %d is active", i, k)
				}
			}
			continue
		}
		if j < i || tab.DasEvent[j].Kind == DasNone {
			t.Fatalf("NextDasEvent[%d]=%d is not a valid active slot", i, j)
		}
		for k := i; k < j; k++ {
			if tab.DasEvent[k].Kind != DasNone {
				t.Fatalf("NextDasEvent[%d]=%d skipped over active slot %d", i, j, k)
			}
		}
	}
}

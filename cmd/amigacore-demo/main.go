// Copyright (c) 2026 intuitionamiga
// https://github.com/intuitionamiga/amigacore
// License: GPLv3 or later

// main.go - a minimal host wiring the chipset core to a window and speakers.
//
// Grounded on main.go's flat package-main + arg-dispatch shape: parse
// os.Args directly (no flag package, matching the teacher's style), build
// the peripherals, wire them to the core and hand control to the video
// backend's blocking run loop. Unlike the teacher's SystemBus/CPU pairing
// (an IE32 or M68K core driving a generic memory-mapped bus), this core has
// no 68000 decoder of its own (§3: "the core holds no persistent CPU state
// of its own") - the demo drives Agnus directly by wall-clock line steps
// instead of plugging in an external CPUBus client, which is enough to
// exercise the full timing/DMA/video/audio pipeline this core implements.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/intuitionamiga/amigacore"
)

func usage() {
	fmt.Println("Usage: amigacore-demo <kickstart-rom> [snapshot-file]")
	fmt.Println("  space  pause, then single-step one raster line at a time")
	fmt.Println("  w      enable warp mode (run flat out, no pacing)")
	fmt.Println("  q      quit")
}

func main() {
	if len(os.Args) < 2 || len(os.Args) > 3 {
		usage()
		os.Exit(1)
	}
	romPath := os.Args[1]
	var snapshotPath string
	if len(os.Args) == 3 {
		snapshotPath = os.Args[2]
	}

	rom, err := os.ReadFile(romPath)
	if err != nil {
		fmt.Printf("failed to read ROM %q: %v\n", romPath, err)
		os.Exit(1)
	}

	m := amiga.NewAmiga(amiga.NewConfig())
	if err := m.PowerOn(rom); err != nil {
		fmt.Printf("failed to power on: %v\n", err)
		os.Exit(1)
	}

	if snapshotPath != "" {
		if f, err := os.Open(snapshotPath); err == nil {
			err := m.LoadSnapshot(f)
			f.Close()
			if err != nil {
				fmt.Printf("failed to load snapshot %q: %v\n", snapshotPath, err)
				os.Exit(1)
			}
			fmt.Printf("loaded snapshot from %q\n", snapshotPath)
		}
	}

	sink, err := amiga.NewOtoSink(48000)
	if err != nil {
		fmt.Printf("failed to initialize audio: %v\n", err)
		os.Exit(1)
	}
	sink.Bind(m.Paula.Ring)
	sink.Start()
	defer sink.Close()

	presenter := amiga.NewEbitenPresenter("amigacore-demo", 2)
	console := amiga.NewDebugConsole(m.RunLoop)
	console.Start()
	defer console.Stop()

	m.RunLoop.Run()

	go runLoop(m, presenter, console)

	if err := presenter.Run(); err != nil {
		fmt.Printf("presenter exited: %v\n", err)
	}

	if snapshotPath != "" {
		if f, err := os.Create(snapshotPath); err == nil {
			if err := m.SaveSnapshot(f); err != nil {
				fmt.Printf("failed to save snapshot %q: %v\n", snapshotPath, err)
			} else {
				fmt.Printf("saved snapshot to %q\n", snapshotPath)
			}
			f.Close()
		}
	}
}

// runLoop drives Agnus one raster line at a time, feeding console/keyboard
// input into the core and presenting a frame whenever one completes, until
// the run loop halts or the presenter's window closes. It calls
// RunLoop.PollAndClear once per line, exactly at the "event dispatch
// boundary" granularity §5 describes, so a pause or halt requested by the
// console takes effect within one line's worth of latency.
func runLoop(m *amiga.Amiga, presenter *amiga.EbitenPresenter, console *amiga.DebugConsole) {
	const lineCycles = amiga.Cycle(amiga.HposCountLong)

	ticker := time.NewTicker(20 * time.Microsecond)
	defer ticker.Stop()

	for {
		_, halt, _, _ := m.RunLoop.PollAndClear()
		if halt {
			presenter.Stop()
			return
		}

		if m.RunLoop.IsPaused() {
			if !console.TakeStep() {
				<-ticker.C
				continue
			}
		} else if !m.RunLoop.Warp() {
			<-ticker.C
		}

		m.Agnus.ExecuteUntil(m.Agnus.Clock + lineCycles)

		for _, ev := range presenter.PollEvents() {
			deliverInput(m, ev)
		}
		for _, ev := range console.PollEvents() {
			deliverInput(m, ev)
		}

		for {
			msg, ok := m.Messages.TryReceive()
			if !ok {
				break
			}
			if msg.Kind == amiga.MsgFrameDone {
				presenter.Present(m.Denise.Stable, amiga.DisplayWidth, amiga.DisplayHeight)
			}
		}
	}
}

func deliverInput(m *amiga.Amiga, ev amiga.InputEvent) {
	if ev.Kind == amiga.InputKeyPress {
		m.InjectKeyboardByte(ev.Code)
	}
}

// debug_console.go - a raw-terminal InputSource, grounded on terminal_host.go.
//
// Keeps the teacher's idiom exactly: term.MakeRaw + syscall.SetNonblock on
// stdin, a goroutine polling syscall.Read in a tight loop with a short sleep
// on EAGAIN, CR->LF and DEL->BS translation, and a sync.Once-guarded
// stopCh/done pair so Stop is safe to call more than once. Where the
// teacher's TerminalHost routes bytes straight into a TerminalMMIO device,
// this routes them into host.go's InputEvent queue instead, and adds the
// pulsed single-step control named in §5/§6: space pauses and requests a
// single step, 'w' turns warp mode on, 'q' requests halt.
package amiga

import (
	"fmt"
	"os"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"
)

// ConsoleControl is the subset of RunLoop a DebugConsole drives directly,
// kept as an interface so tests can substitute a fake without constructing a
// full Amiga.
type ConsoleControl interface {
	RequestPause()
	RequestHalt()
	SetWarp(on bool) bool
}

// DebugConsole reads raw stdin into InputEvents and a handful of run-control
// keystrokes, for a terminal-only host with no ebiten window.
type DebugConsole struct {
	control ConsoleControl

	fd           int
	oldTermState *term.State
	nonblockSet  bool

	stopCh  chan struct{}
	done    chan struct{}
	stopped sync.Once

	mu     sync.Mutex
	events []InputEvent
	step   bool
}

// NewDebugConsole returns a console driving control's pause/halt/warp
// requests once Start is called.
func NewDebugConsole(control ConsoleControl) *DebugConsole {
	return &DebugConsole{
		control: control,
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start puts stdin into raw, non-blocking mode and begins reading in a
// background goroutine. Call Stop to restore stdin before the process exits.
func (c *DebugConsole) Start() {
	c.fd = int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(c.fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "debug_console: failed to set raw mode: %v\n", err)
		close(c.done)
		return
	}
	c.oldTermState = oldState

	if err := syscall.SetNonblock(c.fd, true); err != nil {
		fmt.Fprintf(os.Stderr, "debug_console: failed to set nonblocking stdin: %v\n", err)
		_ = term.Restore(c.fd, c.oldTermState)
		c.oldTermState = nil
		close(c.done)
		return
	}
	c.nonblockSet = true

	go c.readLoop()
}

func (c *DebugConsole) readLoop() {
	defer close(c.done)
	buf := make([]byte, 1)

	for {
		select {
		case <-c.stopCh:
			return
		default:
		}

		n, err := syscall.Read(c.fd, buf)
		if n > 0 {
			c.handleByte(buf[0])
		}
		if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK {
			time.Sleep(5 * time.Millisecond)
			continue
		}
		if err != nil {
			return
		}
		if n == 0 {
			time.Sleep(5 * time.Millisecond)
		}
	}
}

func (c *DebugConsole) handleByte(b byte) {
	if b == '\r' {
		b = '\n'
	}
	if b == 0x7F {
		b = 0x08
	}

	switch b {
	case ' ':
		c.mu.Lock()
		c.step = true
		c.mu.Unlock()
		if c.control != nil {
			c.control.RequestPause()
		}
		return
	case 'w', 'W':
		if c.control != nil {
			c.control.SetWarp(true)
		}
		return
	case 'q', 'Q':
		if c.control != nil {
			c.control.RequestHalt()
		}
		return
	}

	c.mu.Lock()
	c.events = append(c.events, InputEvent{Kind: InputKeyPress, Code: b, Pressed: true})
	c.events = append(c.events, InputEvent{Kind: InputKeyRelease, Code: b, Pressed: false})
	c.mu.Unlock()
}

// PollEvents implements InputSource.
func (c *DebugConsole) PollEvents() []InputEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.events) == 0 {
		return nil
	}
	out := c.events
	c.events = nil
	return out
}

// TakeStep reports and clears whether a single-step (space bar) was
// requested since the last call, for a pulsed-mode host's outer loop.
func (c *DebugConsole) TakeStep() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.step
	c.step = false
	return s
}

// Stop terminates the read goroutine and restores stdin, safe to call more
// than once or before Start succeeded.
func (c *DebugConsole) Stop() {
	c.stopped.Do(func() { close(c.stopCh) })
	<-c.done
	if c.nonblockSet {
		_ = syscall.SetNonblock(c.fd, false)
		c.nonblockSet = false
	}
	if c.oldTermState != nil {
		_ = term.Restore(c.fd, c.oldTermState)
		c.oldTermState = nil
	}
}

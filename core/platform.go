package core

import (
	"io"
	"time"
)

// Clock is the platform delay primitive.
type Clock interface {
	// Delay blocks for at least d, yielding to other ready work meanwhile
	Delay(d time.Duration)

	// Uptime returns the time elapsed since boot
	Uptime() time.Duration
}

// Storage is the persistent storage subsystem. Only its init/erase
// lifecycle is used by the firmware.
type Storage interface {
	Init() error
	Erase() error
}

// ChipInfo is a read-only description of the running hardware
type ChipInfo struct {
	Model    string
	Cores    uint8
	Revision uint16
}

// SystemInfo answers chip and heap introspection queries
type SystemInfo interface {
	ChipInfo() ChipInfo
	FreeHeap() uint32
	MinimumFreeHeap() uint32
}

// Heap hands out raw blocks for the allocation probe
type Heap interface {
	// Allocate returns a block of size bytes or ErrOutOfMemory
	Allocate(size int) ([]byte, error)
	Release(block []byte)
}

// Restarter reboots the chip. On hardware Restart never returns.
type Restarter interface {
	Restart()
}

// Platform bundles the capability handles the firmware runs against.
// Targets build one from their drivers; tests build one from fakes.
type Platform struct {
	Console   io.Writer
	Pins      PinDriver
	Clock     Clock
	Storage   Storage
	System    SystemInfo
	Heap      Heap
	Restarter Restarter
}

// mustBeComplete panics if a capability handle is missing
func (p *Platform) mustBeComplete() {
	switch {
	case p.Console == nil:
		panic("console not configured")
	case p.Pins == nil:
		panic("GPIO driver not configured")
	case p.Clock == nil:
		panic("clock not configured")
	case p.Storage == nil:
		panic("storage not configured")
	case p.System == nil:
		panic("system info not configured")
	case p.Heap == nil:
		panic("heap not configured")
	case p.Restarter == nil:
		panic("restarter not configured")
	}
}

// flusher is implemented by consoles that buffer output
type flusher interface {
	Flush() error
}

// flushConsole pushes buffered console output to the wire, if the console buffers
func flushConsole(w io.Writer) {
	if f, ok := w.(flusher); ok {
		_ = f.Flush()
	}
}

// writeLine writes s followed by a newline. Console errors are dropped:
// the console is the only place they could be reported.
func writeLine(w io.Writer, s string) {
	_, _ = io.WriteString(w, s+"\n")
}

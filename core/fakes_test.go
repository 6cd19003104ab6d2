package core

import (
	"bytes"
	"errors"
	"time"
)

// fakeClock advances virtual time on Delay instead of sleeping
type fakeClock struct {
	now    time.Duration
	delays []time.Duration
}

func (c *fakeClock) Delay(d time.Duration) {
	c.delays = append(c.delays, d)
	if d > 0 {
		c.now += d
	}
}

func (c *fakeClock) Uptime() time.Duration { return c.now }

// pinEvent is one recorded GPIO call
type pinEvent struct {
	configure bool
	pin       GPIOPin
	level     bool
	at        time.Duration
}

// fakePins records GPIO calls and fails the call numbered failAt (1-based)
type fakePins struct {
	clock  *fakeClock
	events []pinEvent
	calls  int
	failAt int
}

var errPinFault = errors.New("pin fault")

func (p *fakePins) fail() bool {
	p.calls++
	return p.failAt > 0 && p.calls == p.failAt
}

func (p *fakePins) ConfigureOutput(pin GPIOPin) error {
	if p.fail() {
		return errPinFault
	}
	p.events = append(p.events, pinEvent{configure: true, pin: pin, at: p.clock.now})
	return nil
}

func (p *fakePins) SetPin(pin GPIOPin, value bool) error {
	if p.fail() {
		return errPinFault
	}
	p.events = append(p.events, pinEvent{pin: pin, level: value, at: p.clock.now})
	return nil
}

// highs counts high transitions
func (p *fakePins) highs() int {
	n := 0
	for _, e := range p.events {
		if !e.configure && e.level {
			n++
		}
	}
	return n
}

// fakeStorage returns scripted Init results in order, then nil
type fakeStorage struct {
	initErrs []error
	eraseErr error
	inits    int
	erases   int
}

func (s *fakeStorage) Init() error {
	s.inits++
	if len(s.initErrs) == 0 {
		return nil
	}
	err := s.initErrs[0]
	s.initErrs = s.initErrs[1:]
	return err
}

func (s *fakeStorage) Erase() error {
	s.erases++
	return s.eraseErr
}

type fakeSystem struct {
	chip    ChipInfo
	free    uint32
	minFree uint32
}

func (s *fakeSystem) ChipInfo() ChipInfo      { return s.chip }
func (s *fakeSystem) FreeHeap() uint32        { return s.free }
func (s *fakeSystem) MinimumFreeHeap() uint32 { return s.minFree }

type fakeHeap struct {
	fail     bool
	allocs   []int
	released int
}

func (h *fakeHeap) Allocate(size int) ([]byte, error) {
	h.allocs = append(h.allocs, size)
	if h.fail {
		return nil, ErrOutOfMemory
	}
	return make([]byte, size), nil
}

func (h *fakeHeap) Release(block []byte) { h.released++ }

type fakeRestarter struct {
	clock    *fakeClock
	restarts int
	at       time.Duration
}

func (r *fakeRestarter) Restart() {
	r.restarts++
	r.at = r.clock.now
}

// flushBuffer is a console that counts flushes
type flushBuffer struct {
	bytes.Buffer
	flushes int
}

func (b *flushBuffer) Flush() error {
	b.flushes++
	return nil
}

// rig wires a complete fake platform
type rig struct {
	console   *flushBuffer
	clock     *fakeClock
	pins      *fakePins
	storage   *fakeStorage
	system    *fakeSystem
	heap      *fakeHeap
	restarter *fakeRestarter
}

func newRig() *rig {
	clock := &fakeClock{}
	return &rig{
		console: &flushBuffer{},
		clock:   clock,
		pins:    &fakePins{clock: clock},
		storage: &fakeStorage{},
		system: &fakeSystem{
			chip:    ChipInfo{Model: "esp32s3", Cores: 2, Revision: 1},
			free:    386000,
			minFree: 384000,
		},
		heap:      &fakeHeap{},
		restarter: &fakeRestarter{clock: clock},
	}
}

func (r *rig) platform() Platform {
	return Platform{
		Console:   r.console,
		Pins:      r.pins,
		Clock:     r.clock,
		Storage:   r.storage,
		System:    r.system,
		Heap:      r.heap,
		Restarter: r.restarter,
	}
}

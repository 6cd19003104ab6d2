package sim

import (
	"context"
	"errors"
	"io"

	"github.com/golang/glog"

	"hellofw/core"
	"hellofw/nvs"
)

// Machine is a simulated board. Storage survives across boots; the clock
// and heap are reset by every restart.
type Machine struct {
	cfg      Config
	clock    *Clock
	pins     *Pins
	system   *System
	device   *flakyDevice
	storage  *nvs.Partition
	restarts int
	boots    int
}

// NewMachine builds a board from cfg
func NewMachine(cfg Config) *Machine {
	clock := NewClock(cfg.Realtime)
	dev := &flakyDevice{BlockDevice: nvs.NewMemDevice(cfg.Storage.Pages, cfg.Storage.PageSize)}
	return &Machine{
		cfg:     cfg,
		clock:   clock,
		pins:    NewPins(clock),
		system:  NewSystem(cfg.Chip, cfg.Heap),
		device:  dev,
		storage: nvs.New(dev),
	}
}

// Pins exposes the GPIO bank for inspection and fault injection
func (m *Machine) Pins() *Pins {
	return m.pins
}

// System exposes the chip for inspection and fault injection
func (m *Machine) System() *System {
	return m.system
}

// Storage exposes the storage partition
func (m *Machine) Storage() *nvs.Partition {
	return m.storage
}

// Restarts returns how many times the firmware requested a restart
func (m *Machine) Restarts() int {
	return m.restarts
}

// InjectStorageFault puts the storage device into the state f before the next boot
func (m *Machine) InjectStorageFault(f Fault) error {
	return m.device.inject(f)
}

// Restart implements core.Restarter. The simulated reset returns so the
// caller can decide whether to boot again.
func (m *Machine) Restart() {
	m.restarts++
	glog.V(1).Infof("restart requested at %v", m.clock.Uptime())
}

// Boot runs one firmware lifecycle with console output on out.
// A *core.FatalError is printed as an abort notice and returned.
func (m *Machine) Boot(ctx context.Context, out io.Writer) (*core.Lifecycle, error) {
	m.boots++
	m.clock.Reset()
	m.system.reset(m.cfg.Heap)

	console := newLineConsole(out)
	defer console.Flush()

	lc, err := core.NewLifecycle(m.cfg.Firmware, core.Platform{
		Console:   console,
		Pins:      m.pins,
		Clock:     m.clock,
		Storage:   m.storage,
		System:    m.system,
		Heap:      m.system,
		Restarter: m,
	})
	if err != nil {
		return nil, err
	}
	if glog.V(2) {
		lc.Logger().SetLevel(core.LevelDebug)
	}

	glog.V(1).Infof("boot %d", m.boots)
	if err := lc.Run(ctx); err != nil {
		var fatal *core.FatalError
		if errors.As(err, &fatal) {
			core.WriteAbort(console, err)
		}
		return lc, err
	}
	return lc, nil
}

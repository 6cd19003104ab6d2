//go:build rp2040

package main

import (
	"context"
	"machine"
	"time"

	"hellofw/core"
	"hellofw/nvs"
)

// storageBlocks is the size of the storage partition at the end of flash
const storageBlocks = 6

func main() {
	// Clear any watchdog left armed by the previous restart
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	InitConsole()

	cfg := core.DefaultConfig()
	cfg.LEDPin = core.GPIOPin(machine.LED)

	heap := core.NewRuntimeHeap()
	console := NewConsole()
	lc, err := core.NewLifecycle(cfg, core.Platform{
		Console:   console,
		Pins:      NewRPGPIODriver(),
		Clock:     hardwareClock{},
		Storage:   nvs.New(nvs.TailSection(machine.Flash, storageBlocks)),
		System:    NewSystemInfo(heap),
		Heap:      heap,
		Restarter: watchdogRestarter{},
	})
	if err != nil {
		panic(err.Error())
	}

	if err := lc.Run(context.Background()); err != nil {
		core.WriteAbort(console, err)
		panic(err.Error())
	}

	// Restart returned: the watchdog did not fire
	for {
		time.Sleep(time.Second)
	}
}

// watchdogRestarter resets the chip through the watchdog, which also
// re-enumerates USB cleanly
type watchdogRestarter struct{}

func (watchdogRestarter) Restart() {
	if err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 1}); err != nil {
		return
	}
	if err := machine.Watchdog.Start(); err != nil {
		return
	}
	// Wait for reset (should happen in ~1ms)
	for {
		time.Sleep(1 * time.Millisecond)
	}
}

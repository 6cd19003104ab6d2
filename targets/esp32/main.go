//go:build esp32

package main

import (
	"context"
	"device/esp"
	"time"

	"hellofw/core"
	"hellofw/nvs"
)

// Storage partition geometry, matching the default ESP-IDF nvs partition
const (
	storagePages    = 6
	storagePageSize = 4096
)

func main() {
	InitConsole()

	cfg := core.DefaultConfig()
	heap := core.NewRuntimeHeap()
	console := NewConsole()
	lc, err := core.NewLifecycle(cfg, core.Platform{
		Console: console,
		Pins:    NewPinDriver(),
		Clock:   newBootClock(),
		// TinyGo has no ESP32 flash block device; storage lives in RAM
		Storage:   nvs.New(nvs.NewMemDevice(storagePages, storagePageSize)),
		System:    NewSystemInfo(heap),
		Heap:      heap,
		Restarter: softwareRestarter{},
	})
	if err != nil {
		panic(err.Error())
	}

	if err := lc.Run(context.Background()); err != nil {
		core.WriteAbort(console, err)
		panic(err.Error())
	}

	for {
		time.Sleep(time.Second)
	}
}

// softwareRestarter triggers a full system reset through RTC_CNTL
type softwareRestarter struct{}

func (softwareRestarter) Restart() {
	esp.RTC_CNTL.OPTIONS0.SetBits(esp.RTC_CNTL_OPTIONS0_SW_SYS_RST)
	for {
		time.Sleep(time.Millisecond)
	}
}

// bootClock measures uptime from the start of main
type bootClock struct {
	start time.Time
}

func newBootClock() bootClock {
	return bootClock{start: time.Now()}
}

func (c bootClock) Delay(d time.Duration) {
	time.Sleep(d)
}

func (c bootClock) Uptime() time.Duration {
	return time.Since(c.start)
}

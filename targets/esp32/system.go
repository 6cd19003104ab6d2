//go:build esp32

package main

import (
	"hellofw/core"
)

// SystemInfo describes the ESP32 and reports heap figures from the runtime
type SystemInfo struct {
	heap *core.RuntimeHeap
}

func NewSystemInfo(heap *core.RuntimeHeap) *SystemInfo {
	return &SystemInfo{heap: heap}
}

// ChipInfo reports revision 0: TinyGo exposes no eFuse reader
func (s *SystemInfo) ChipInfo() core.ChipInfo {
	return core.ChipInfo{Model: "esp32", Cores: 2, Revision: 0}
}

func (s *SystemInfo) FreeHeap() uint32 {
	return s.heap.FreeHeap()
}

func (s *SystemInfo) MinimumFreeHeap() uint32 {
	return s.heap.MinimumFreeHeap()
}

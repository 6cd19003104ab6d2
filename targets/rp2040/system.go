//go:build rp2040

package main

import (
	"device/rp"

	"hellofw/core"
)

// SystemInfo describes the RP2040 and reports heap figures from the runtime
type SystemInfo struct {
	heap *core.RuntimeHeap
	chip core.ChipInfo
}

// NewSystemInfo reads the chip revision from SYSINFO
func NewSystemInfo(heap *core.RuntimeHeap) *SystemInfo {
	// CHIP_ID bits 31:28 hold the silicon revision
	rev := uint16(rp.SYSINFO.CHIP_ID.Get() >> 28)
	return &SystemInfo{
		heap: heap,
		chip: core.ChipInfo{Model: "rp2040", Cores: 2, Revision: rev},
	}
}

func (s *SystemInfo) ChipInfo() core.ChipInfo {
	return s.chip
}

func (s *SystemInfo) FreeHeap() uint32 {
	return s.heap.FreeHeap()
}

func (s *SystemInfo) MinimumFreeHeap() uint32 {
	return s.heap.MinimumFreeHeap()
}

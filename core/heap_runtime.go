package core

import "runtime"

// RuntimeHeap reports heap figures from the Go runtime and serves the
// allocation probe from the garbage-collected heap. Used by the TinyGo
// targets, where HeapSys is the fixed heap region.
type RuntimeHeap struct {
	minFree uint32
	sampled bool
}

// NewRuntimeHeap creates a heap reporter with an initial watermark sample
func NewRuntimeHeap() *RuntimeHeap {
	h := &RuntimeHeap{}
	h.FreeHeap()
	return h
}

// FreeHeap returns the bytes currently free and updates the watermark
func (h *RuntimeHeap) FreeHeap() uint32 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	var free uint32
	if ms.HeapSys > ms.HeapInuse {
		free = uint32(ms.HeapSys - ms.HeapInuse)
	}
	if !h.sampled || free < h.minFree {
		h.minFree = free
		h.sampled = true
	}
	return free
}

// MinimumFreeHeap returns the lowest free figure observed so far
func (h *RuntimeHeap) MinimumFreeHeap() uint32 {
	h.FreeHeap()
	return h.minFree
}

// Allocate refuses requests larger than the free heap instead of letting
// the runtime panic with an out-of-memory fault
func (h *RuntimeHeap) Allocate(size int) ([]byte, error) {
	if size < 0 || uint32(size) > h.FreeHeap() {
		return nil, ErrOutOfMemory
	}
	block := make([]byte, size)
	h.FreeHeap()
	return block, nil
}

// Release drops the block; the collector reclaims it
func (h *RuntimeHeap) Release(block []byte) {
	for i := range block {
		block[i] = 0
	}
}

package sim

import (
	"sync"

	"hellofw/core"
)

// System simulates chip introspection and the chip heap
type System struct {
	mu        sync.Mutex
	chip      core.ChipInfo
	total     uint32
	used      uint32
	minFree   uint32
	failAlloc bool
}

// NewSystem creates a chip with the heap already at its post-boot baseline
func NewSystem(chip ChipConfig, heap HeapConfig) *System {
	s := &System{
		chip: core.ChipInfo{
			Model:    chip.Model,
			Cores:    chip.Cores,
			Revision: chip.Revision,
		},
	}
	s.reset(heap)
	return s
}

// reset returns the heap to its post-boot baseline. Fault settings survive.
func (s *System) reset(heap HeapConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.total = heap.Total
	s.used = heap.Baseline
	s.minFree = heap.Total - heap.Baseline - heap.Dip
}

// SetAllocFault makes every following allocation fail
func (s *System) SetAllocFault(fail bool) {
	s.mu.Lock()
	s.failAlloc = fail
	s.mu.Unlock()
}

func (s *System) ChipInfo() core.ChipInfo {
	return s.chip
}

func (s *System) FreeHeap() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total - s.used
}

func (s *System) MinimumFreeHeap() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.minFree
}

func (s *System) Allocate(size int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAlloc || size < 0 || uint32(size) > s.total-s.used {
		return nil, core.ErrOutOfMemory
	}
	s.used += uint32(size)
	if free := s.total - s.used; free < s.minFree {
		s.minFree = free
	}
	return make([]byte, size), nil
}

func (s *System) Release(block []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := uint32(len(block))
	if n > s.used {
		n = s.used
	}
	s.used -= n
}

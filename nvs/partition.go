// Package nvs is a small flash-partition storage subsystem. Only the
// partition lifecycle is implemented: Init scans and formats page
// headers, Erase wipes the partition.
package nvs

import (
	"errors"
	"fmt"

	"hellofw/core"
)

var (
	// ErrNoFreePages means the partition has no spare page left.
	// Recoverable by erasing the partition.
	ErrNoFreePages = fmt.Errorf("nvs: %w", core.ErrStorageNoFreePages)

	// ErrNewVersionFound means the partition was written by a newer format.
	// Recoverable by erasing the partition.
	ErrNewVersionFound = fmt.Errorf("nvs: %w", core.ErrStorageNewVersion)

	// ErrPartitionTooSmall means the device holds fewer than two pages
	ErrPartitionTooSmall = errors.New("nvs: partition too small")

	// ErrNotInitialized is returned by operations that need Init first
	ErrNotInitialized = errors.New("nvs: not initialized")
)

// Stats counts pages by state after the last Init
type Stats struct {
	Pages   int
	Free    int
	Active  int
	Full    int
	Corrupt int
	Seq     uint32 // sequence number of the active page
}

// Partition is a storage partition spanning a whole block device.
// One erase block is one page.
type Partition struct {
	dev      BlockDevice
	pageSize int64
	pages    int
	ready    bool
	stats    Stats
}

// New creates a partition over dev. Nothing is read until Init.
func New(dev BlockDevice) *Partition {
	pageSize := dev.EraseBlockSize()
	pages := 0
	if pageSize > 0 {
		pages = int(dev.Size() / pageSize)
	}
	return &Partition{
		dev:      dev,
		pageSize: pageSize,
		pages:    pages,
	}
}

// Pages returns the number of pages in the partition
func (p *Partition) Pages() int {
	return p.pages
}

// Ready reports whether the last Init succeeded
func (p *Partition) Ready() bool {
	return p.ready
}

// Stats returns the page counts found by the last Init
func (p *Partition) Stats() (Stats, error) {
	if !p.ready {
		return Stats{}, ErrNotInitialized
	}
	return p.stats, nil
}

// Init scans every page header. A blank partition gets its first page
// activated. One uninitialized page must always remain in reserve.
func (p *Partition) Init() error {
	p.ready = false
	if p.pages < 2 {
		return ErrPartitionTooSmall
	}

	stats := Stats{Pages: p.pages}
	var free []int
	active := -1
	var maxSeq uint32

	raw := make([]byte, headerSize)
	for page := 0; page < p.pages; page++ {
		if _, err := p.dev.ReadAt(raw, p.offset(page)); err != nil {
			return fmt.Errorf("nvs: read page %d: %w", page, err)
		}
		h := decodeHeader(raw)

		switch h.State {
		case PageUninitialized:
			free = append(free, page)
			continue
		case PageActive, PageFull, PageFreeing:
		default:
			stats.Corrupt++
			continue
		}

		if !h.valid(raw) {
			stats.Corrupt++
			continue
		}
		if h.Version > FormatVersion {
			return ErrNewVersionFound
		}
		if h.Seq >= maxSeq {
			maxSeq = h.Seq
		}

		if h.State == PageActive && active < 0 {
			active = page
			stats.Seq = h.Seq
		} else {
			stats.Full++
		}
	}

	if active < 0 {
		if len(free) == 0 {
			return ErrNoFreePages
		}
		active = free[0]
		free = free[1:]
		stats.Seq = maxSeq + 1
		h := pageHeader{State: PageActive, Seq: stats.Seq, Version: FormatVersion}
		if _, err := p.dev.WriteAt(h.encode(), p.offset(active)); err != nil {
			return fmt.Errorf("nvs: activate page %d: %w", active, err)
		}
	}
	if len(free) == 0 {
		return ErrNoFreePages
	}

	stats.Active = 1
	stats.Free = len(free)
	p.stats = stats
	p.ready = true
	return nil
}

// Erase wipes the whole partition back to uninitialized pages
func (p *Partition) Erase() error {
	p.ready = false
	if p.pages == 0 {
		return ErrPartitionTooSmall
	}
	if err := p.dev.EraseBlocks(0, int64(p.pages)); err != nil {
		return fmt.Errorf("nvs: erase: %w", err)
	}
	return nil
}

func (p *Partition) offset(page int) int64 {
	return int64(page) * p.pageSize
}

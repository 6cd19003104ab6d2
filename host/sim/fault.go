package sim

import (
	"errors"
	"fmt"

	"hellofw/nvs"
)

// Fault selects a storage state to inject before a boot
type Fault string

const (
	FaultNone        Fault = "none"
	FaultNoFreePages Fault = "no-free-pages"
	FaultNewVersion  Fault = "new-version"
	FaultBroken      Fault = "broken"
)

// ParseFault validates a fault name
func ParseFault(s string) (Fault, error) {
	switch f := Fault(s); f {
	case "", FaultNone:
		return FaultNone, nil
	case FaultNoFreePages, FaultNewVersion, FaultBroken:
		return f, nil
	default:
		return "", fmt.Errorf("unknown storage fault %q", s)
	}
}

// ErrFlashBroken is returned by a broken device on every access
var ErrFlashBroken = errors.New("sim: flash not responding")

// flakyDevice wraps a block device and fails every access while broken
type flakyDevice struct {
	nvs.BlockDevice
	broken bool
}

func (d *flakyDevice) ReadAt(p []byte, off int64) (int, error) {
	if d.broken {
		return 0, ErrFlashBroken
	}
	return d.BlockDevice.ReadAt(p, off)
}

func (d *flakyDevice) WriteAt(p []byte, off int64) (int, error) {
	if d.broken {
		return 0, ErrFlashBroken
	}
	return d.BlockDevice.WriteAt(p, off)
}

func (d *flakyDevice) EraseBlocks(start, n int64) error {
	if d.broken {
		return ErrFlashBroken
	}
	return d.BlockDevice.EraseBlocks(start, n)
}

// inject puts dev into the state selected by f
func (d *flakyDevice) inject(f Fault) error {
	d.broken = f == FaultBroken
	switch f {
	case FaultNoFreePages:
		return nvs.FillPages(d.BlockDevice)
	case FaultNewVersion:
		if err := d.BlockDevice.EraseBlocks(0, d.Size()/d.EraseBlockSize()); err != nil {
			return err
		}
		return nvs.StampVersion(d.BlockDevice, 0, nvs.FormatVersion+1)
	}
	return nil
}

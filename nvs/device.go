package nvs

import (
	"errors"
	"io"
	"sync"
)

// BlockDevice is a NOR-flash style device. It has the same method set as
// TinyGo's machine.BlockDevice so machine.Flash can be used directly.
type BlockDevice interface {
	io.ReaderAt
	io.WriterAt

	// Size returns the device size in bytes
	Size() int64

	// WriteBlockSize returns the smallest writable unit
	WriteBlockSize() int64

	// EraseBlockSize returns the erase unit; one erase block is one page
	EraseBlockSize() int64

	// EraseBlocks resets len blocks starting at block start to 0xFF
	EraseBlocks(start, len int64) error
}

var errOutOfRange = errors.New("nvs: access out of device range")

// MemDevice is a RAM-backed BlockDevice with NOR semantics: writes can
// only clear bits, erases set whole blocks back to 0xFF.
type MemDevice struct {
	mu        sync.Mutex
	data      []byte
	blockSize int64
	erases    int
}

// NewMemDevice creates an erased device of blocks × blockSize bytes
func NewMemDevice(blocks int, blockSize int64) *MemDevice {
	data := make([]byte, int64(blocks)*blockSize)
	for i := range data {
		data[i] = 0xFF
	}
	return &MemDevice{
		data:      data,
		blockSize: blockSize,
	}
}

func (d *MemDevice) ReadAt(p []byte, off int64) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if off < 0 || off >= int64(len(d.data)) {
		return 0, io.EOF
	}
	n := copy(p, d.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (d *MemDevice) WriteAt(p []byte, off int64) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if off < 0 || off+int64(len(p)) > int64(len(d.data)) {
		return 0, errOutOfRange
	}
	for i, b := range p {
		d.data[off+int64(i)] &= b
	}
	return len(p), nil
}

func (d *MemDevice) Size() int64 {
	return int64(len(d.data))
}

func (d *MemDevice) WriteBlockSize() int64 {
	return 4
}

func (d *MemDevice) EraseBlockSize() int64 {
	return d.blockSize
}

func (d *MemDevice) EraseBlocks(start, n int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	from := start * d.blockSize
	to := (start + n) * d.blockSize
	if start < 0 || n < 0 || to > int64(len(d.data)) {
		return errOutOfRange
	}
	for i := from; i < to; i++ {
		d.data[i] = 0xFF
	}
	d.erases++
	return nil
}

// Erases returns how many EraseBlocks calls succeeded
func (d *MemDevice) Erases() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.erases
}

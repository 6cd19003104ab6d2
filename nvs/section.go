package nvs

import "io"

// Section is a window of whole erase blocks inside a larger device,
// used to carve a storage partition out of the end of program flash.
type Section struct {
	dev   BlockDevice
	first int64 // first block
	count int64
	bsize int64
}

// NewSection exposes blocks [first, first+count) of dev. The window is
// clipped to the device.
func NewSection(dev BlockDevice, first, count int64) *Section {
	bsize := dev.EraseBlockSize()
	total := int64(0)
	if bsize > 0 {
		total = dev.Size() / bsize
	}
	if first < 0 {
		first = 0
	}
	if first > total {
		first = total
	}
	if count < 0 || first+count > total {
		count = total - first
	}
	return &Section{dev: dev, first: first, count: count, bsize: bsize}
}

// TailSection exposes the last count blocks of dev
func TailSection(dev BlockDevice, count int64) *Section {
	total := int64(0)
	if bs := dev.EraseBlockSize(); bs > 0 {
		total = dev.Size() / bs
	}
	return NewSection(dev, total-count, count)
}

func (s *Section) base() int64 {
	return s.first * s.bsize
}

func (s *Section) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= s.Size() {
		return 0, io.EOF
	}
	short := false
	if rest := s.Size() - off; int64(len(p)) > rest {
		p = p[:rest]
		short = true
	}
	n, err := s.dev.ReadAt(p, s.base()+off)
	if err == nil && short {
		err = io.EOF
	}
	return n, err
}

func (s *Section) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > s.Size() {
		return 0, errOutOfRange
	}
	return s.dev.WriteAt(p, s.base()+off)
}

func (s *Section) Size() int64 {
	return s.count * s.bsize
}

func (s *Section) WriteBlockSize() int64 {
	return s.dev.WriteBlockSize()
}

func (s *Section) EraseBlockSize() int64 {
	return s.bsize
}

func (s *Section) EraseBlocks(start, n int64) error {
	if start < 0 || n < 0 || start+n > s.count {
		return errOutOfRange
	}
	return s.dev.EraseBlocks(s.first+start, n)
}

package nvs

import (
	"io"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestTailSection(t *testing.T) {
	c := qt.New(t)
	dev := NewMemDevice(10, 4096)
	s := TailSection(dev, 4)

	c.Assert(s.Size(), qt.Equals, int64(4*4096))
	c.Assert(s.EraseBlockSize(), qt.Equals, int64(4096))
	c.Assert(s.WriteBlockSize(), qt.Equals, dev.WriteBlockSize())

	_, err := s.WriteAt([]byte{0x12, 0x34}, 0)
	c.Assert(err, qt.IsNil)

	got := make([]byte, 2)
	_, err = dev.ReadAt(got, 6*4096)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, []byte{0x12, 0x34})

	c.Assert(s.EraseBlocks(0, 1), qt.IsNil)
	_, err = dev.ReadAt(got, 6*4096)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, []byte{0xFF, 0xFF})
}

func TestSectionBounds(t *testing.T) {
	c := qt.New(t)
	s := NewSection(NewMemDevice(4, 4096), 2, 10)
	c.Assert(s.Size(), qt.Equals, int64(2*4096))

	_, err := s.WriteAt([]byte{0}, s.Size())
	c.Assert(err, qt.ErrorIs, errOutOfRange)
	c.Assert(s.EraseBlocks(1, 2), qt.ErrorIs, errOutOfRange)

	buf := make([]byte, 8)
	n, err := s.ReadAt(buf, s.Size()-4)
	c.Assert(n, qt.Equals, 4)
	c.Assert(err, qt.Equals, io.EOF)
}

func TestPartitionOnSection(t *testing.T) {
	c := qt.New(t)
	dev := NewMemDevice(16, 4096)
	_, err := dev.WriteAt([]byte{0xA5, 0x5A, 0xA5, 0x5A}, 0)
	c.Assert(err, qt.IsNil)
	p := New(TailSection(dev, 3))

	c.Assert(p.Pages(), qt.Equals, 3)
	c.Assert(p.Init(), qt.IsNil)
	c.Assert(p.Erase(), qt.IsNil)
	c.Assert(p.Init(), qt.IsNil)

	// blocks before the section are untouched
	head := make([]byte, 4)
	_, err = dev.ReadAt(head, 0)
	c.Assert(err, qt.IsNil)
	c.Assert(head, qt.DeepEquals, []byte{0xA5, 0x5A, 0xA5, 0x5A})
}

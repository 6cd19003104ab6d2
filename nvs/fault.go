package nvs

import "fmt"

// The helpers below put a device into the states that make Init fail.
// The simulator and tests use them to drive the erase-and-retry path.

// FillPages writes a valid full-page header on every page, leaving no
// free page behind
func FillPages(dev BlockDevice) error {
	p := New(dev)
	for page := 0; page < p.pages; page++ {
		h := pageHeader{State: PageFull, Seq: uint32(page), Version: FormatVersion}
		if _, err := dev.WriteAt(h.encode(), p.offset(page)); err != nil {
			return fmt.Errorf("nvs: fill page %d: %w", page, err)
		}
	}
	return nil
}

// StampVersion writes an active header carrying the given format version
// on an uninitialized page
func StampVersion(dev BlockDevice, page int, version uint8) error {
	p := New(dev)
	if page < 0 || page >= p.pages {
		return errOutOfRange
	}
	h := pageHeader{State: PageActive, Seq: 1, Version: version}
	if _, err := dev.WriteAt(h.encode(), p.offset(page)); err != nil {
		return fmt.Errorf("nvs: stamp page %d: %w", page, err)
	}
	return nil
}

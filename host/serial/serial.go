package serial

import (
	"errors"
	"io"
	"time"
)

// ConsoleBaud is the ESP-IDF console rate
const ConsoleBaud = 115200

var (
	// ErrNoDevice means no console device was named
	ErrNoDevice = errors.New("serial: no device")

	// ErrBadBaud means the baud rate is not positive
	ErrBadBaud = errors.New("serial: baud rate must be > 0")
)

// Port is a console the monitor reads from: a native serial port or a
// stream such as stdin. The monitor never writes to the board.
type Port interface {
	io.ReadCloser

	// Flush drops input buffered before the capture started
	Flush() error
}

// Config selects and configures a console port
type Config struct {
	Device      string
	Baud        int
	ReadTimeout time.Duration // 0 blocks until data arrives
}

// DefaultConfig returns the ESP-IDF console configuration for device.
// The short read timeout lets the monitor notice cancellation.
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        ConsoleBaud,
		ReadTimeout: 100 * time.Millisecond,
	}
}

// Validate checks that the port can be opened
func (c *Config) Validate() error {
	if c.Device == "" {
		return ErrNoDevice
	}
	if c.Baud <= 0 {
		return ErrBadBaud
	}
	return nil
}

//go:build rp2040

package main

import (
	"errors"
	"machine"
)

var errNoProgress = errors.New("console: write made no progress")

// InitConsole configures USB CDC, which is machine.Serial on the RP2040
func InitConsole() {
	_ = machine.Serial.Configure(machine.UARTConfig{})
}

// Console writes firmware output to USB CDC. A host that is not
// listening must not stall the firmware, so a failing write drops the
// rest of the buffer.
type Console struct {
	failures uint32
}

// NewConsole returns the USB console
func NewConsole() *Console {
	return &Console{}
}

func (c *Console) Write(p []byte) (int, error) {
	written := 0
	for written < len(p) {
		n, err := machine.Serial.Write(p[written:])
		if err != nil {
			c.failures++
			return written, err
		}
		if n == 0 {
			c.failures++
			return written, errNoProgress
		}
		written += n
	}
	return written, nil
}

// Flush is a no-op: USB CDC writes are sent as they are queued
func (c *Console) Flush() error {
	return nil
}

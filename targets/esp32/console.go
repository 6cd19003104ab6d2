//go:build esp32

package main

import (
	"machine"
)

// InitConsole configures UART0 at the ESP-IDF console rate
func InitConsole() {
	_ = machine.Serial.Configure(machine.UARTConfig{BaudRate: 115200})
}

// Console writes to UART0. Line endings are sent as CR LF the way the
// ESP-IDF console driver does.
type Console struct{}

// NewConsole returns the UART console
func NewConsole() *Console {
	return &Console{}
}

func (c *Console) Write(p []byte) (int, error) {
	for i, b := range p {
		if b == '\n' {
			if err := machine.Serial.WriteByte('\r'); err != nil {
				return i, err
			}
		}
		if err := machine.Serial.WriteByte(b); err != nil {
			return i, err
		}
	}
	return len(p), nil
}

// Flush waits for nothing: WriteByte blocks until the FIFO accepted the byte
func (c *Console) Flush() error {
	return nil
}

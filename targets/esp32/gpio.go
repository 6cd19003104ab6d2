//go:build esp32 && !ws2812

package main

import (
	"errors"
	"machine"

	"hellofw/core"
)

// esp32 output-capable GPIOs end at GPIO33; 34-39 are input only
const maxOutputGPIO = 33

var errNotOutput = errors.New("not an output-capable GPIO")

// PinDriver implements core.PinDriver with plain machine pins
type PinDriver struct {
	configuredPins map[core.GPIOPin]machine.Pin
}

func NewPinDriver() *PinDriver {
	return &PinDriver{
		configuredPins: make(map[core.GPIOPin]machine.Pin),
	}
}

func (d *PinDriver) ConfigureOutput(pin core.GPIOPin) error {
	if _, exists := d.configuredPins[pin]; exists {
		return nil
	}
	if pin > maxOutputGPIO {
		return errNotOutput
	}
	machinePin := machine.Pin(pin)
	machinePin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	d.configuredPins[pin] = machinePin
	return nil
}

func (d *PinDriver) SetPin(pin core.GPIOPin, value bool) error {
	machinePin, exists := d.configuredPins[pin]
	if !exists {
		if err := d.ConfigureOutput(pin); err != nil {
			return err
		}
		machinePin = d.configuredPins[pin]
	}
	machinePin.Set(value)
	return nil
}

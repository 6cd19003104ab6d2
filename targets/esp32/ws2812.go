//go:build esp32 && ws2812

package main

import (
	"errors"
	"image/color"
	"machine"

	"tinygo.org/x/drivers/ws2812"

	"hellofw/core"
)

// ledOn is the color shown for a high level; kept dim to stay within
// USB power limits
var ledOn = color.RGBA{R: 0x20, G: 0x20, B: 0x20}

var errNoLED = errors.New("ws2812: pin not configured")

// PinDriver drives one addressable LED per pin: high lights it, low blanks it
type PinDriver struct {
	leds map[core.GPIOPin]ws2812.Device
}

func NewPinDriver() *PinDriver {
	return &PinDriver{
		leds: make(map[core.GPIOPin]ws2812.Device),
	}
}

func (d *PinDriver) ConfigureOutput(pin core.GPIOPin) error {
	if _, exists := d.leds[pin]; exists {
		return nil
	}
	machinePin := machine.Pin(pin)
	machinePin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	d.leds[pin] = ws2812.New(machinePin)
	return nil
}

func (d *PinDriver) SetPin(pin core.GPIOPin, value bool) error {
	led, exists := d.leds[pin]
	if !exists {
		return errNoLED
	}
	c := color.RGBA{}
	if value {
		c = ledOn
	}
	return led.WriteColors([]color.RGBA{c})
}

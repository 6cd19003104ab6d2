package core

import "time"

// Blinker toggles one output pin using the platform delay between transitions
type Blinker struct {
	pins  PinDriver
	clock Clock
	pin   GPIOPin
}

// NewBlinker creates a blinker for pin
func NewBlinker(pins PinDriver, clock Clock, pin GPIOPin) *Blinker {
	return &Blinker{
		pins:  pins,
		clock: clock,
		pin:   pin,
	}
}

// Pin returns the pin this blinker drives
func (b *Blinker) Pin() GPIOPin {
	return b.pin
}

// Blink configures the pin as output, then performs times cycles of
// {high, wait halfPeriod, low, wait halfPeriod}.
// The first failing GPIO call stops the sequence and is returned.
func (b *Blinker) Blink(times int, halfPeriod time.Duration) error {
	if err := b.pins.ConfigureOutput(b.pin); err != nil {
		return &PinError{Op: "configure", Pin: b.pin, Err: err}
	}

	for i := 0; i < times; i++ {
		if err := b.pins.SetPin(b.pin, true); err != nil {
			return &PinError{Op: "set", Pin: b.pin, Err: err}
		}
		b.clock.Delay(halfPeriod)

		if err := b.pins.SetPin(b.pin, false); err != nil {
			return &PinError{Op: "set", Pin: b.pin, Err: err}
		}
		b.clock.Delay(halfPeriod)
	}
	return nil
}

package core

// GPIOPin identifies a hardware GPIO pin number
type GPIOPin uint32

// PinDriver is the abstract output-pin interface that core code uses.
// Platform-specific implementations handle actual hardware control.
type PinDriver interface {
	// ConfigureOutput configures a pin as a digital output
	// Returns error if pin is invalid or cannot be driven
	ConfigureOutput(pin GPIOPin) error

	// SetPin sets the pin to high (true) or low (false)
	SetPin(pin GPIOPin, value bool) error
}

package sim

import (
	"errors"
	"sync"

	"github.com/golang/glog"

	"hellofw/core"
)

// ErrPinFault is returned by Pins once fault injection triggers
var ErrPinFault = errors.New("sim: pin fault")

// Pins simulates a GPIO bank. Levels are only tracked for output pins.
type Pins struct {
	mu      sync.Mutex
	clock   *Clock
	outputs map[core.GPIOPin]bool
	toggles map[core.GPIOPin]int
	fail    bool
}

// NewPins creates a GPIO bank; clock stamps trace output
func NewPins(clock *Clock) *Pins {
	return &Pins{
		clock:   clock,
		outputs: make(map[core.GPIOPin]bool),
		toggles: make(map[core.GPIOPin]int),
	}
}

// SetFault makes every following GPIO call fail
func (p *Pins) SetFault(fail bool) {
	p.mu.Lock()
	p.fail = fail
	p.mu.Unlock()
}

func (p *Pins) ConfigureOutput(pin core.GPIOPin) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return ErrPinFault
	}
	if _, ok := p.outputs[pin]; !ok {
		p.outputs[pin] = false
		glog.V(2).Infof("gpio%d configured as output", pin)
	}
	return nil
}

func (p *Pins) SetPin(pin core.GPIOPin, value bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return ErrPinFault
	}
	prev, ok := p.outputs[pin]
	if !ok {
		return errors.New("sim: pin not configured as output")
	}
	if prev != value {
		p.toggles[pin]++
	}
	p.outputs[pin] = value
	if glog.V(3) {
		glog.Infof("[%v] gpio%d=%v", p.clock.Uptime(), pin, value)
	}
	return nil
}

// Level returns the current output level of pin
func (p *Pins) Level(pin core.GPIOPin) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.outputs[pin]
}

// Toggles returns how many level changes pin has seen
func (p *Pins) Toggles(pin core.GPIOPin) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.toggles[pin]
}

package core

import (
	"errors"
	"time"
)

// BlinkSpec is a blink repeat count and half-period
type BlinkSpec struct {
	Times      int           `yaml:"times"`
	HalfPeriod time.Duration `yaml:"half_period"`
}

// Config holds the named values the lifecycle runs with
type Config struct {
	Tag    string  `yaml:"tag"`
	Banner string  `yaml:"banner"`
	LEDPin GPIOPin `yaml:"led_pin"`

	// Run loop
	LoopCount int           `yaml:"loop_count"`
	LoopBlink BlinkSpec     `yaml:"loop_blink"`
	LoopDelay time.Duration `yaml:"loop_delay"`

	// Self-test
	AllocProbeSize int       `yaml:"alloc_probe_size"`
	SelfTestBlink  BlinkSpec `yaml:"self_test_blink"`

	// Test pattern
	PatternLines int `yaml:"pattern_lines"`
	PatternStep  int `yaml:"pattern_step"`

	// Shutdown
	ShutdownBlink BlinkSpec     `yaml:"shutdown_blink"`
	RestartDelay  time.Duration `yaml:"restart_delay"`
}

// Defaults matching the stock firmware
const (
	DefaultTag       = "HELLO_WORLD"
	DefaultBanner    = "=== ESP32 Hello World Application ==="
	DefaultLEDPin    = GPIOPin(2) // Built-in LED on most ESP32 dev boards
	DefaultLoopCount = 5
)

// DefaultConfig returns the stock firmware configuration
func DefaultConfig() Config {
	return Config{
		Tag:            DefaultTag,
		Banner:         DefaultBanner,
		LEDPin:         DefaultLEDPin,
		LoopCount:      DefaultLoopCount,
		LoopBlink:      BlinkSpec{Times: 1, HalfPeriod: 100 * time.Millisecond},
		LoopDelay:      100 * time.Millisecond,
		AllocProbeSize: 1024,
		SelfTestBlink:  BlinkSpec{Times: 3, HalfPeriod: 200 * time.Millisecond},
		PatternLines:   10,
		PatternStep:    100,
		ShutdownBlink:  BlinkSpec{Times: 1, HalfPeriod: 50 * time.Millisecond},
		RestartDelay:   2000 * time.Millisecond,
	}
}

// ApplyDefaults fills in zero-valued fields from DefaultConfig.
// The LED pin is left alone since GPIO 0 is a valid pin.
func (c *Config) ApplyDefaults() {
	d := DefaultConfig()
	if c.Tag == "" {
		c.Tag = d.Tag
	}
	if c.Banner == "" {
		c.Banner = d.Banner
	}
	if c.LoopCount == 0 {
		c.LoopCount = d.LoopCount
	}
	if c.LoopBlink == (BlinkSpec{}) {
		c.LoopBlink = d.LoopBlink
	}
	if c.LoopDelay == 0 {
		c.LoopDelay = d.LoopDelay
	}
	if c.AllocProbeSize == 0 {
		c.AllocProbeSize = d.AllocProbeSize
	}
	if c.SelfTestBlink == (BlinkSpec{}) {
		c.SelfTestBlink = d.SelfTestBlink
	}
	if c.PatternLines == 0 {
		c.PatternLines = d.PatternLines
	}
	if c.PatternStep == 0 {
		c.PatternStep = d.PatternStep
	}
	if c.ShutdownBlink == (BlinkSpec{}) {
		c.ShutdownBlink = d.ShutdownBlink
	}
	if c.RestartDelay == 0 {
		c.RestartDelay = d.RestartDelay
	}
}

// Validate rejects configurations the lifecycle can't run
func (c *Config) Validate() error {
	if c.Tag == "" {
		return errors.New("config: tag must not be empty")
	}
	if c.LoopCount < 1 {
		return errors.New("config: loop_count must be >= 1")
	}
	if c.AllocProbeSize <= 0 {
		return errors.New("config: alloc_probe_size must be > 0")
	}
	if c.PatternLines < 1 {
		return errors.New("config: pattern_lines must be >= 1")
	}
	for _, b := range []BlinkSpec{c.LoopBlink, c.SelfTestBlink, c.ShutdownBlink} {
		if b.Times < 0 || b.HalfPeriod < 0 {
			return errors.New("config: blink times and half_period must be >= 0")
		}
	}
	if c.LoopDelay < 0 || c.RestartDelay < 0 {
		return errors.New("config: delays must be >= 0")
	}
	return nil
}

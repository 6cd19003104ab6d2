// Package monitor captures a board's console and checks the boot transcript.
package monitor

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"hellofw/transcript"
)

// SerialProfile selects the console port
type SerialProfile struct {
	Device string `yaml:"device"`
	Baud   int    `yaml:"baud"`
}

// MQTTProfile selects where reports are published
type MQTTProfile struct {
	Broker string `yaml:"broker"`
	Topic  string `yaml:"topic"`
}

// Profile describes a board under test and what its console must show
type Profile struct {
	Expect             transcript.Expect `yaml:"expect"`
	Serial             SerialProfile     `yaml:"serial"`
	MQTT               MQTTProfile       `yaml:"mqtt"`
	Boots              int               `yaml:"boots"`
	Timeout            time.Duration     `yaml:"timeout"`
	FirstCounterWithin time.Duration     `yaml:"first_counter_within"`
	ResetCmd           string            `yaml:"reset_cmd"`
}

// DefaultProfile checks one boot of a stock ESP32 board
func DefaultProfile() Profile {
	p := Profile{}
	p.ApplyDefaults()
	return p
}

// ApplyDefaults fills in zero-valued fields
func (p *Profile) ApplyDefaults() {
	d := transcript.DefaultExpect()
	if p.Expect.Banner == "" {
		p.Expect.Banner = d.Banner
	}
	if p.Expect.Tag == "" {
		p.Expect.Tag = d.Tag
	}
	if p.Expect.LoopCount == 0 {
		p.Expect.LoopCount = d.LoopCount
	}
	if p.Expect.PatternLines == 0 {
		p.Expect.PatternLines = d.PatternLines
	}
	if p.Expect.PatternStep == 0 {
		p.Expect.PatternStep = d.PatternStep
	}
	if p.Expect.MinFreeHeap == 0 {
		p.Expect.MinFreeHeap = 100000
	}
	if p.Expect.MinMinimumFreeHeap == 0 {
		p.Expect.MinMinimumFreeHeap = 80000
	}
	if p.Serial.Device == "" {
		p.Serial.Device = "/dev/ttyUSB0"
	}
	if p.Serial.Baud == 0 {
		p.Serial.Baud = 115200
	}
	if p.MQTT.Topic == "" {
		p.MQTT.Topic = "hellofw/monitor"
	}
	if p.Boots == 0 {
		p.Boots = 1
	}
	if p.Timeout == 0 {
		p.Timeout = 30 * time.Second
	}
	if p.FirstCounterWithin == 0 {
		p.FirstCounterWithin = 5 * time.Second
	}
}

// Validate checks the profile
func (p *Profile) Validate() error {
	if p.Expect.LoopCount < 1 || p.Expect.PatternLines < 1 {
		return errors.New("profile: loop_count and pattern_lines must be >= 1")
	}
	if p.Boots < 1 {
		return errors.New("profile: boots must be >= 1")
	}
	if p.Timeout < 0 || p.FirstCounterWithin < 0 {
		return errors.New("profile: durations must be >= 0")
	}
	return nil
}

// LoadProfile reads a YAML profile, applies defaults and validates it
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read profile %s: %w", path, err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("parse profile %s: %w", path, err)
	}
	p.ApplyDefaults()
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

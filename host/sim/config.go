// Package sim runs the firmware lifecycle on a host against simulated
// capabilities.
package sim

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"hellofw/core"
)

// ChipConfig describes the simulated chip
type ChipConfig struct {
	Model    string `yaml:"model"`
	Cores    uint8  `yaml:"cores"`
	Revision uint16 `yaml:"revision"`
}

// HeapConfig models the chip heap. Free = Total - Baseline - live allocations.
type HeapConfig struct {
	Total    uint32 `yaml:"total"`
	Baseline uint32 `yaml:"baseline"`
	// Dip is how far the boot drove the heap below the baseline before the
	// first diagnostics call, so minimum free heap is lower than free heap
	Dip uint32 `yaml:"dip"`
}

// StorageConfig sizes the simulated storage partition
type StorageConfig struct {
	Pages    int   `yaml:"pages"`
	PageSize int64 `yaml:"page_size"`
}

// Config is the simulator configuration file
type Config struct {
	Firmware core.Config   `yaml:"firmware"`
	Chip     ChipConfig    `yaml:"chip"`
	Heap     HeapConfig    `yaml:"heap"`
	Storage  StorageConfig `yaml:"storage"`
	Realtime bool          `yaml:"realtime"`
}

// DefaultConfig simulates an ESP32-S3 running the stock firmware
func DefaultConfig() Config {
	cfg := Config{Firmware: core.DefaultConfig()}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills in zero-valued fields
func (c *Config) ApplyDefaults() {
	c.Firmware.ApplyDefaults()
	if c.Chip.Model == "" {
		c.Chip.Model = "esp32s3"
	}
	if c.Chip.Cores == 0 {
		c.Chip.Cores = 2
	}
	if c.Heap.Total == 0 {
		c.Heap.Total = 401408
	}
	if c.Heap.Baseline == 0 {
		c.Heap.Baseline = 10204
	}
	if c.Heap.Dip == 0 {
		c.Heap.Dip = 1092
	}
	if c.Storage.Pages == 0 {
		c.Storage.Pages = 6 // 24 KiB, the default ESP-IDF nvs partition
	}
	if c.Storage.PageSize == 0 {
		c.Storage.PageSize = 4096
	}
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if err := c.Firmware.Validate(); err != nil {
		return err
	}
	if c.Heap.Baseline+c.Heap.Dip > c.Heap.Total {
		return errors.New("sim: heap baseline and dip exceed total")
	}
	if c.Storage.Pages < 2 {
		return errors.New("sim: storage needs at least 2 pages")
	}
	if c.Storage.PageSize <= 0 {
		return errors.New("sim: storage page_size must be > 0")
	}
	return nil
}

// LoadConfig reads a YAML config file, applies defaults and validates it
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML config data, applies defaults and validates it
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

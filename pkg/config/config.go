// Package config holds esc's policy constants.
//
// Precision, stack depth and stack width are policy, not protocol: they may
// be overridden from a YAML file, but plugin self-tests assert exact results
// under the defaults, so overriding precision is for people who know what
// they are doing.
package config

import (
	"fmt"
	"os"

	"github.com/cockroachdb/apd/v3"
	"gopkg.in/yaml.v3"
)

// Default values, matching the original esc.
const (
	DefaultPrecision  = 12
	DefaultStackDepth = 12
	// DefaultStackWidth needs room for scientific notation on top of the
	// significant digits.
	DefaultStackWidth = 21
)

// Config carries the tunable limits of the calculator core.
type Config struct {
	// Precision is the number of significant digits kept by arithmetic.
	Precision uint32 `yaml:"precision"`
	// StackDepth is the maximum number of items on the stack.
	StackDepth int `yaml:"stack-depth"`
	// StackWidth is the maximum width of a value being typed, and of the
	// canonical rendering of a computed value.
	StackWidth int `yaml:"stack-width"`
}

// Default returns a Config with the default values.
func Default() *Config {
	return &Config{
		Precision:  DefaultPrecision,
		StackDepth: DefaultStackDepth,
		StackWidth: DefaultStackWidth,
	}
}

// Load reads a Config from a YAML file. Keys that are absent keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Precision < 1 {
		return fmt.Errorf("precision must be at least 1, is %d", c.Precision)
	}
	if c.StackDepth < 1 {
		return fmt.Errorf("stack-depth must be at least 1, is %d", c.StackDepth)
	}
	if c.StackWidth < 4 {
		return fmt.Errorf("stack-width must be at least 4, is %d", c.StackWidth)
	}
	return nil
}

// Context returns an apd context for arithmetic at the configured precision.
// Overflow is not trapped; operations that overflow yield infinity.
func (c *Config) Context() *apd.Context {
	return apd.BaseContext.WithPrecision(c.Precision)
}

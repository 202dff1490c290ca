package terminal

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// EnvDriver is the environment variable that overrides the configured
// driver selection
const EnvDriver = "TERMVIEW_DRIVER"

// Config selects and parameterizes the terminal driver
type Config struct {
	// Driver is one of "term", "ansi", "tcell", "headless". Empty
	// selects term.
	Driver string `toml:"driver"`

	// Headless grid dimensions; zero means 80x24
	HeadlessCols int `toml:"headless_cols"`
	HeadlessRows int `toml:"headless_rows"`

	// HeadlessLifetime bounds a headless run; zero means unbounded
	HeadlessLifetime duration `toml:"headless_lifetime"`
}

// duration wraps time.Duration for TOML decoding from "150ms" strings
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// DefaultConfig returns the zero configuration, selecting the term
// driver
func DefaultConfig() Config {
	return Config{}
}

// LoadConfig reads a TOML config file. A missing file is not an error;
// the defaults apply.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Open constructs the driver the configuration names. The TERMVIEW_DRIVER
// environment variable overrides the config; an unrecognized name fails
// fast rather than silently picking a default.
func Open(cfg Config) (Driver, error) {
	name := cfg.Driver
	if env := os.Getenv(EnvDriver); env != "" {
		name = env
	}

	switch name {
	case "", "term":
		return newTermDriver(), nil
	case "ansi":
		return newANSIDriver(), nil
	case "tcell":
		return newTcellDriver(), nil
	case "headless":
		return NewHeadless(cfg.HeadlessCols, cfg.HeadlessRows, cfg.HeadlessLifetime.Duration), nil
	default:
		return nil, fmt.Errorf("terminal: unknown driver %q", name)
	}
}

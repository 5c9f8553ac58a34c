package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config is the configuration of the command line tools.
type Config struct {
	Serial  SerialConfig  `toml:"serial" yaml:"serial"`
	Link    LinkConfig    `toml:"link" yaml:"link"`
	Log     LogConfig     `toml:"log" yaml:"log"`
	Metrics MetricsConfig `toml:"metrics" yaml:"metrics"`
}

// SerialConfig describes the serial line
type SerialConfig struct {
	Port        string `toml:"port" yaml:"port"`
	Baud        int    `toml:"baud" yaml:"baud"`
	DataBits    int    `toml:"data_bits" yaml:"data_bits"`
	Parity      string `toml:"parity" yaml:"parity"` // N, E or O
	StopBits    int    `toml:"stop_bits" yaml:"stop_bits"`
	ReadTimeout string `toml:"read_timeout" yaml:"read_timeout"`
}

// LinkConfig describes the link layer
type LinkConfig struct {
	Address     int    `toml:"address" yaml:"address"`
	AddressSize int    `toml:"address_size" yaml:"address_size"` // octets, 1 or 2
	Timeout     string `toml:"timeout" yaml:"timeout"`
	Retries     int    `toml:"retries" yaml:"retries"`
}

// LogConfig contains logging configuration
type LogConfig struct {
	Level   string `toml:"level" yaml:"level"`
	NoColor bool   `toml:"no_color" yaml:"no_color"`
}

// MetricsConfig contains the Prometheus endpoint. An empty Listen disables it.
type MetricsConfig struct {
	Listen string `toml:"listen" yaml:"listen"`
}

// Default returns the configuration used for keys missing from a file.
// The serial defaults are the usual 8E1 framing of the protocol.
func Default() Config {
	return Config{
		Serial: SerialConfig{
			Port:        "/dev/ttyUSB0",
			Baud:        9600,
			DataBits:    8,
			Parity:      "E",
			StopBits:    1,
			ReadTimeout: "100ms",
		},
		Link: LinkConfig{
			Address:     1,
			AddressSize: 1,
			Timeout:     "1s",
			Retries:     3,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the configuration file at path. The format follows the file
// extension: .toml, .yaml or .yml. Keys missing from the file keep their
// Default value.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Serial.Validate(); err != nil {
		return fmt.Errorf("serial config: %w", err)
	}

	if err := c.Link.Validate(); err != nil {
		return fmt.Errorf("link config: %w", err)
	}

	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log config: %w", err)
	}

	return nil
}

// Validate validates serial configuration
func (s *SerialConfig) Validate() error {
	if strings.TrimSpace(s.Port) == "" {
		return fmt.Errorf("port cannot be empty")
	}

	if s.Baud <= 0 {
		return fmt.Errorf("baud must be positive, got %d", s.Baud)
	}

	if s.DataBits < 5 || s.DataBits > 8 {
		return fmt.Errorf("data_bits must be between 5 and 8, got %d", s.DataBits)
	}

	switch strings.ToUpper(s.Parity) {
	case "N", "E", "O":
	default:
		return fmt.Errorf("parity must be N, E or O, got %q", s.Parity)
	}

	if s.StopBits != 1 && s.StopBits != 2 {
		return fmt.Errorf("stop_bits must be 1 or 2, got %d", s.StopBits)
	}

	if _, err := parseDuration("read_timeout", s.ReadTimeout); err != nil {
		return err
	}

	return nil
}

// ReadTimeoutDuration returns the parsed read timeout, 0 if it does not parse.
func (s *SerialConfig) ReadTimeoutDuration() time.Duration {
	d, _ := parseDuration("read_timeout", s.ReadTimeout)
	return d
}

// Validate validates link configuration
func (l *LinkConfig) Validate() error {
	if l.AddressSize != 1 && l.AddressSize != 2 {
		return fmt.Errorf("address_size must be 1 or 2, got %d", l.AddressSize)
	}

	limit := 1<<(8*l.AddressSize) - 1
	if l.Address < 0 || l.Address > limit {
		return fmt.Errorf("address must be between 0 and %d, got %d", limit, l.Address)
	}

	if l.Retries < 0 {
		return fmt.Errorf("retries cannot be negative, got %d", l.Retries)
	}

	if _, err := parseDuration("timeout", l.Timeout); err != nil {
		return err
	}

	return nil
}

// TimeoutDuration returns the parsed link timeout, 0 if it does not parse.
func (l *LinkConfig) TimeoutDuration() time.Duration {
	d, _ := parseDuration("timeout", l.Timeout)
	return d
}

// Validate validates logging configuration
func (l *LogConfig) Validate() error {
	switch strings.ToLower(strings.TrimSpace(l.Level)) {
	case "", "trace", "debug", "info", "warn", "warning", "error", "disabled", "off":
		return nil
	}
	return fmt.Errorf("unknown level %q", l.Level)
}

func parseDuration(key, raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s cannot be negative, got %s", key, raw)
	}
	return d, nil
}

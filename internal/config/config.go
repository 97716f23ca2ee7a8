// Package config loads the YAML configuration shared by the CLI and the
// server.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/npillmayer/schuko/tracing"
	"gopkg.in/yaml.v3"

	"github.com/njchilds90/gotaylor"
	"github.com/njchilds90/gotaylor/live"
	"github.com/njchilds90/gotaylor/series"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Duration is a time.Duration read from strings such as "250ms".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("%w: debounce: %v", ErrInvalidConfig, err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

type Server struct {
	Addr string `yaml:"addr"`
}

type Config struct {
	Domain   series.Domain    `yaml:"domain"`
	Bound    float64          `yaml:"bound"`
	Defaults gotaylor.Request `yaml:"defaults"`
	Debounce Duration         `yaml:"debounce"`
	Server   Server           `yaml:"server"`
	Trace    string           `yaml:"trace"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Domain:   series.DefaultDomain,
		Bound:    series.DefaultOptions.Bound,
		Defaults: gotaylor.Request{Function: "sin(x)", Center: 0, Order: 3},
		Debounce: Duration(live.DefaultDelay),
		Server:   Server{Addr: ":8080"},
		Trace:    "error",
	}
}

// Load reads path over the defaults. An empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(b []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		if errors.Is(err, ErrInvalidConfig) {
			return cfg, err
		}
		return cfg, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := c.Domain.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Bound < 0 {
		return fmt.Errorf("%w: bound %v is negative", ErrInvalidConfig, c.Bound)
	}
	if c.Defaults.Order < 0 || c.Defaults.Order > gotaylor.MaxOrderLimit {
		return fmt.Errorf("%w: default order %d outside [0, %d]", ErrInvalidConfig,
			c.Defaults.Order, gotaylor.MaxOrderLimit)
	}
	if c.Debounce < 0 {
		return fmt.Errorf("%w: negative debounce", ErrInvalidConfig)
	}
	if _, err := ParseLevel(c.Trace); err != nil {
		return err
	}
	return nil
}

// Options are the sampling options described by c.
func (c Config) Options() series.Options {
	return series.Options{Domain: c.Domain, Bound: c.Bound}
}

// Engine builds an engine sampling over the configured domain.
func (c Config) Engine(opts ...gotaylor.Option) *gotaylor.Engine {
	return gotaylor.NewEngine(append([]gotaylor.Option{gotaylor.WithOptions(c.Options())}, opts...)...)
}

// ParseLevel maps error, info and debug to trace levels.
func ParseLevel(s string) (tracing.TraceLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "error":
		return tracing.LevelError, nil
	case "info":
		return tracing.LevelInfo, nil
	case "debug":
		return tracing.LevelDebug, nil
	}
	return tracing.LevelError, fmt.Errorf("%w: unknown trace level %q", ErrInvalidConfig, s)
}

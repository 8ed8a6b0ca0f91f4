package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"collapsehead/internal/direction"
	"collapsehead/internal/domain"
	"collapsehead/internal/eventbus"
	"collapsehead/internal/header"
	"collapsehead/internal/motion"
)

// CurrentVersion is written into new config files
const CurrentVersion = 1

// Config represents the application configuration
type Config struct {
	Version   int               `toml:"version"`
	Header    HeaderSettings    `toml:"header"`
	Direction DirectionSettings `toml:"direction"`
	Demo      DemoSettings      `toml:"demo"`
	Logging   LogSettings       `toml:"logging"`
}

// HeaderSettings configures the header offset coordinator
type HeaderSettings struct {
	Topology         string  `toml:"topology"`           // single, sticky, fixed-top
	Strategy         string  `toml:"strategy,omitempty"` // position or direction; empty follows the topology
	DeadZone         float64 `toml:"dead_zone"`
	RoundDeltas      bool    `toml:"round_deltas"`
	CollapseFraction float64 `toml:"collapse_fraction"`
	ExpandBelow      float64 `toml:"expand_below"`
	CollapseAbove    float64 `toml:"collapse_above"`
	SettleMs         int     `toml:"settle_ms"`
	ScrollSnapMs     int     `toml:"scroll_snap_ms"`
	SpringResponseMs int     `toml:"spring_response_ms"`
	SpringDamping    float64 `toml:"spring_damping"`
}

// DirectionSettings configures the scroll direction detector
type DirectionSettings struct {
	Threshold     float64 `toml:"threshold"`
	SettleEpsilon float64 `toml:"settle_epsilon"`
	DebounceMs    int     `toml:"debounce_ms"`
	IdleAfterMs   int     `toml:"idle_after_ms"` // 0 disables the idle label
}

// DemoSettings configures the interactive terminal demo
type DemoSettings struct {
	Items        int  `toml:"items"`
	RowUnits     int  `toml:"row_units"` // offset units per terminal row
	HeaderRows   int  `toml:"header_rows"`
	StickyRows   int  `toml:"sticky_rows"`
	FixedTopRows int  `toml:"fixed_top_rows"`
	FPS          int  `toml:"fps"`
	Debug        bool `toml:"debug"` // show the debug overlay on start
}

// LogSettings configures logging
type LogSettings struct {
	Level       string `toml:"level"`
	File        string `toml:"file"`
	Burst       int    `toml:"burst"`        // per-frame events let through each second
	SampleEvery int    `toml:"sample_every"` // then keep one in N
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// DefaultPath returns the per-user config location
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "collapsehead", "config.toml")
}

// NewConfigService creates a config service for the per-user config file
func NewConfigService() ConfigService {
	return &configService{filePath: DefaultPath()}
}

// NewConfigServiceAt creates a config service bound to a specific file
func NewConfigServiceAt(path string) ConfigService {
	if path == "" {
		path = DefaultPath()
	}
	return &configService{filePath: path}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(bus eventbus.EventBus, path string) ConfigService {
	cs := NewConfigServiceAt(path).(*configService)
	cs.bus = bus
	return cs
}

// Path returns the file Load and Save use
func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from file, falling back to defaults when
// the file does not exist yet
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if errors.Is(err, os.ErrNotExist) {
		cfg = DefaultConfig()
	} else if err != nil {
		return nil, err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{Path: cs.filePath})
	}
	return cfg, nil
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}
	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s: %w", path, os.ErrNotExist)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Parse decodes a TOML document over the defaults and validates the result
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	th := header.DefaultThresholds()
	hd := header.DefaultConfig()
	dd := direction.DefaultConfig()
	md := motion.DefaultConfig()
	return &Config{
		Version: CurrentVersion,
		Header: HeaderSettings{
			Topology:         string(domain.TopologySingle),
			DeadZone:         hd.DeadZone,
			CollapseFraction: th.CollapseFraction,
			ExpandBelow:      th.ExpandBelow,
			CollapseAbove:    th.CollapseAbove,
			SettleMs:         int(hd.SettleDuration / time.Millisecond),
			ScrollSnapMs:     int(hd.ScrollSnapDuration / time.Millisecond),
			SpringResponseMs: int(md.SpringResponse / time.Millisecond),
			SpringDamping:    md.SpringDamping,
		},
		Direction: DirectionSettings{
			Threshold:     dd.Threshold,
			SettleEpsilon: dd.SettleEpsilon,
			DebounceMs:    int(dd.DebounceInterval / time.Millisecond),
		},
		Demo: DemoSettings{
			Items:        200,
			RowUnits:     10,
			HeaderRows:   5,
			StickyRows:   1,
			FixedTopRows: 1,
			FPS:          60,
		},
		Logging: LogSettings{
			Level:       "info",
			File:        "collapsehead.log",
			Burst:       20,
			SampleEvery: 10,
		},
	}
}

// applyDefaults repairs fields whose zero value cannot be used. Keys left
// out of the file already carry defaults because Parse decodes over them.
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Version == 0 {
		c.Version = d.Version
	}
	if c.Header.Topology == "" {
		c.Header.Topology = d.Header.Topology
	}
	if c.Header.SpringResponseMs <= 0 {
		c.Header.SpringResponseMs = d.Header.SpringResponseMs
	}
	if c.Header.SpringDamping <= 0 {
		c.Header.SpringDamping = d.Header.SpringDamping
	}
	if c.Demo.RowUnits <= 0 {
		c.Demo.RowUnits = d.Demo.RowUnits
	}
	if c.Demo.FPS <= 0 {
		c.Demo.FPS = d.Demo.FPS
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
	if c.Logging.File == "" {
		c.Logging.File = d.Logging.File
	}
	if c.Logging.Burst <= 0 {
		c.Logging.Burst = d.Logging.Burst
	}
	if c.Logging.SampleEvery <= 0 {
		c.Logging.SampleEvery = d.Logging.SampleEvery
	}
}

// Validate rejects values the reducers cannot run with
func (c *Config) Validate() error {
	if _, err := domain.ParseTopology(c.Header.Topology); err != nil {
		return fmt.Errorf("header.topology: %w", err)
	}
	if c.Header.Strategy != "" {
		if _, err := header.NewStrategy(c.Header.Strategy, header.DefaultThresholds()); err != nil {
			return fmt.Errorf("header.strategy: %w", err)
		}
	}
	if c.Header.DeadZone < 0 {
		return fmt.Errorf("header.dead_zone must not be negative, got %v", c.Header.DeadZone)
	}
	for name, v := range map[string]float64{
		"header.collapse_fraction": c.Header.CollapseFraction,
		"header.expand_below":      c.Header.ExpandBelow,
		"header.collapse_above":    c.Header.CollapseAbove,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be within [0, 1], got %v", name, v)
		}
	}
	if c.Direction.Threshold < 0 || c.Direction.SettleEpsilon < 0 {
		return fmt.Errorf("direction thresholds must not be negative")
	}
	if c.Demo.Items < 0 || c.Demo.HeaderRows < 0 || c.Demo.StickyRows < 0 || c.Demo.FixedTopRows < 0 {
		return fmt.Errorf("demo: items and row counts must not be negative")
	}
	if c.Header.SettleMs < 0 || c.Header.ScrollSnapMs < 0 || c.Direction.DebounceMs < 0 || c.Direction.IdleAfterMs < 0 {
		return fmt.Errorf("durations must not be negative")
	}
	return nil
}

// Topology returns the configured header topology
func (c *Config) Topology() domain.Topology {
	t, err := domain.ParseTopology(c.Header.Topology)
	if err != nil {
		return domain.TopologySingle
	}
	return t
}

// Thresholds returns the settle strategy fractions
func (c *Config) Thresholds() header.Thresholds {
	return header.Thresholds{
		CollapseFraction: c.Header.CollapseFraction,
		ExpandBelow:      c.Header.ExpandBelow,
		CollapseAbove:    c.Header.CollapseAbove,
	}
}

// HeaderConfig builds the coordinator config for a topology. An explicit
// strategy overrides the topology's default.
func (c *Config) HeaderConfig(topology domain.Topology) header.Config {
	strategy := header.StrategyFor(topology, c.Thresholds())
	if c.Header.Strategy != "" {
		if s, err := header.NewStrategy(c.Header.Strategy, c.Thresholds()); err == nil {
			strategy = s
		}
	}
	return header.Config{
		DeadZone:           c.Header.DeadZone,
		RoundDeltas:        c.Header.RoundDeltas,
		Strategy:           strategy,
		SettleDuration:     ms(c.Header.SettleMs),
		ScrollSnapDuration: ms(c.Header.ScrollSnapMs),
		Motion: motion.Config{
			FPS:            c.Demo.FPS,
			SpringResponse: ms(c.Header.SpringResponseMs),
			SpringDamping:  c.Header.SpringDamping,
		},
	}
}

// DetectorConfig builds the direction detector config
func (c *Config) DetectorConfig() direction.Config {
	return direction.Config{
		Threshold:        c.Direction.Threshold,
		SettleEpsilon:    c.Direction.SettleEpsilon,
		DebounceInterval: ms(c.Direction.DebounceMs),
		IdleAfter:        ms(c.Direction.IdleAfterMs),
	}
}

func ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collapsehead/internal/domain"
	"collapsehead/internal/eventbus"
	"collapsehead/internal/header"
)

func TestDefaultConfigMatchesReducerDefaults(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	hc := cfg.HeaderConfig(domain.TopologySingle)
	assert.Equal(t, 10.0, hc.DeadZone)
	assert.Equal(t, 200*time.Millisecond, hc.SettleDuration)
	assert.Equal(t, 100*time.Millisecond, hc.ScrollSnapDuration)
	assert.Equal(t, header.PositionStrategy{CollapseFraction: 0.5}, hc.Strategy)

	dc := cfg.DetectorConfig()
	assert.Equal(t, 0.5, dc.Threshold)
	assert.Equal(t, 1.0, dc.SettleEpsilon)
	assert.Equal(t, 100*time.Millisecond, dc.DebounceInterval)
	assert.Zero(t, dc.IdleAfter)
}

func TestParsePartialKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
[header]
topology = "fixed-top"
dead_zone = 50

[direction]
idle_after_ms = 400
`))
	require.NoError(t, err)

	assert.Equal(t, domain.TopologyFixedTop, cfg.Topology())
	assert.Equal(t, 50.0, cfg.Header.DeadZone)
	assert.Equal(t, 0.9, cfg.Header.CollapseAbove)
	assert.Equal(t, 200, cfg.Demo.Items)
	assert.Equal(t, "collapsehead.log", cfg.Logging.File)

	hc := cfg.HeaderConfig(cfg.Topology())
	assert.Equal(t, "direction", hc.Strategy.Name())
	assert.Equal(t, 400*time.Millisecond, cfg.DetectorConfig().IdleAfter)
}

func TestParseZeroDeadZoneIsKept(t *testing.T) {
	cfg, err := Parse([]byte("[header]\ndead_zone = 0\nsettle_ms = 0\n"))
	require.NoError(t, err)
	assert.Equal(t, 0.0, cfg.Header.DeadZone)
	assert.Equal(t, 0, cfg.Header.SettleMs)
}

func TestStrategyOverridesTopology(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Header.Strategy = "direction"
	cfg.Header.ExpandBelow = 0.2
	hc := cfg.HeaderConfig(domain.TopologySticky)
	assert.Equal(t, header.DirectionStrategy{ExpandBelow: 0.2, CollapseAbove: 0.9}, hc.Strategy)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"bad toml", "[header\n"},
		{"unknown topology", "[header]\ntopology = \"floating\"\n"},
		{"unknown strategy", "[header]\nstrategy = \"velocity\"\n"},
		{"negative dead zone", "[header]\ndead_zone = -1\n"},
		{"fraction above one", "[header]\ncollapse_fraction = 1.5\n"},
		{"negative debounce", "[direction]\ndebounce_ms = -5\n"},
		{"negative items", "[demo]\nitems = -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	svc := NewConfigServiceAt(path)

	cfg := DefaultConfig()
	cfg.Header.Topology = string(domain.TopologySticky)
	cfg.Header.RoundDeltas = true
	cfg.Demo.Debug = true
	require.NoError(t, svc.Save(cfg))

	loaded, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[header]")
	assert.Contains(t, string(data), "sticky")
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	svc := NewConfigServiceAt(filepath.Join(t.TempDir(), "absent.toml"))
	cfg, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	_, err = svc.LoadFromPath(svc.Path())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadPublishesEvents(t *testing.T) {
	bus := eventbus.New()
	var got []eventbus.DomainEvent
	bus.Subscribe(eventbus.EventConfigLoaded, func(e eventbus.DomainEvent) { got = append(got, e) })
	bus.Subscribe(eventbus.EventConfigSaved, func(e eventbus.DomainEvent) { got = append(got, e) })

	path := filepath.Join(t.TempDir(), "config.toml")
	svc := NewConfigServiceWithBus(bus, path)
	require.NoError(t, svc.Save(DefaultConfig()))
	_, err := svc.Load()
	require.NoError(t, err)

	assert.Equal(t, []eventbus.DomainEvent{
		eventbus.ConfigSavedEvent{Path: path},
		eventbus.ConfigLoadedEvent{Path: path},
	}, got)
}

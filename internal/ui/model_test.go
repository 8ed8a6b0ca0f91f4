package ui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collapsehead/internal/config"
	"collapsehead/internal/domain"
	"collapsehead/internal/eventbus"
	"collapsehead/internal/telemetry"
	"collapsehead/internal/trace"
)

const frame = 16 * time.Millisecond

type harness struct {
	m     *Model
	clock time.Time
	dir   string
}

func newHarness(t *testing.T, cfg *config.Config) *harness {
	t.Helper()
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	bus := eventbus.New()
	rec := telemetry.NewRecorder(100)
	h := &harness{
		clock: time.Date(2025, 6, 7, 10, 0, 0, 0, time.UTC),
		dir:   t.TempDir(),
	}
	telemetry.Attach(bus, zerolog.Nop(), rec, telemetry.Options{Burst: 5})
	h.m = NewModel(Options{
		Config:        cfg,
		ConfigService: config.NewConfigServiceAt(filepath.Join(h.dir, "config.toml")),
		Bus:           bus,
		Recorder:      rec,
		Logger:        zerolog.Nop(),
		TraceDir:      h.dir,
		Ready:         true,
		Now:           func() time.Time { return h.clock },
	})
	h.m.Init()
	h.m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	h.run(frame)
	return h
}

// run delivers frames for d of simulated time
func (h *harness) run(d time.Duration) {
	for elapsed := time.Duration(0); elapsed < d; elapsed += frame {
		h.clock = h.clock.Add(frame)
		h.m.Update(frameMsg{gen: h.m.frameGen, at: h.clock})
	}
}

func (h *harness) key(s string) tea.Cmd {
	var msg tea.KeyMsg
	switch s {
	case "space":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	_, cmd := h.m.Update(msg)
	return cmd
}

func TestViewBeforeSize(t *testing.T) {
	m := NewModel(Options{Logger: zerolog.Nop()})
	assert.Equal(t, "Loading...", m.View())
}

func TestWindowSizeMeasuresGeometry(t *testing.T) {
	h := newHarness(t, nil)

	g := h.m.coord.Geometry()
	assert.Equal(t, 50.0, g.HeaderExtent)
	assert.Zero(t, g.StickyExtent)
	assert.Zero(t, g.FixedTopExtent)

	s := h.m.scroll.Sample(h.clock)
	assert.Equal(t, 2000.0, s.ContentExtent)
	assert.Equal(t, 280.0, s.ViewportExtent)

	view := h.m.View()
	assert.Len(t, strings.Split(view, "\n"), 30)
	assert.Contains(t, view, ReadyMarker)
}

func TestShortDragSettlesOpen(t *testing.T) {
	h := newHarness(t, nil)

	h.key("K")
	h.key("K")
	h.key("K")
	assert.Equal(t, domain.PhaseDragging, h.m.coord.Phase())
	assert.Equal(t, 20.0, h.m.coord.Offset(), "the first 10 units are absorbed by the dead zone")
	assert.Equal(t, 30.0, h.m.scroll.Offset(), "content follows the finger")
	assert.Contains(t, h.m.View(), "mode drag")

	h.run(100 * time.Millisecond)
	h.key("space")
	h.run(500 * time.Millisecond)

	assert.Equal(t, domain.PhaseIdle, h.m.coord.Phase())
	assert.Equal(t, 0.0, h.m.coord.Offset())
	assert.Equal(t, 0.0, h.m.coord.Presented())
}

func TestLongDragSettlesCollapsed(t *testing.T) {
	h := newHarness(t, nil)

	// the content must scroll past the header before it may stay collapsed
	for i := 0; i < 7; i++ {
		h.key("K")
		h.run(frame)
	}
	assert.Equal(t, 50.0, h.m.coord.Offset())
	assert.Equal(t, 70.0, h.m.scroll.Offset())

	h.key("space")
	assert.Equal(t, 50.0, h.m.coord.Offset())
	h.run(500 * time.Millisecond)

	assert.Equal(t, domain.PhaseIdle, h.m.coord.Phase())
	assert.Equal(t, 50.0, h.m.coord.Presented())
	assert.NotContains(t, h.m.View(), "Collapsing Header")
}

func TestCancelledDragStillSettles(t *testing.T) {
	h := newHarness(t, nil)
	for i := 0; i < 7; i++ {
		h.key("K")
		h.run(frame)
	}
	h.key("esc")
	h.run(500 * time.Millisecond)

	assert.Equal(t, domain.PhaseIdle, h.m.coord.Phase())
	assert.Equal(t, 50.0, h.m.coord.Offset())
}

func TestStatusBarFollowsDirection(t *testing.T) {
	h := newHarness(t, nil)
	require.Contains(t, h.m.View(), "phase")

	h.key("j")
	h.key("j")
	h.run(200 * time.Millisecond)
	assert.Equal(t, domain.DirectionDown, h.m.det.Direction())
	assert.NotContains(t, h.m.View(), "phase", "status bar hides while scrolling down")

	h.key("k")
	h.run(200 * time.Millisecond)
	assert.Equal(t, domain.DirectionUp, h.m.det.Direction())
	assert.Contains(t, h.m.View(), "▲ up")
}

func TestEmptyListKeepsStatusBar(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Demo.Items = 0
	h := newHarness(t, cfg)

	h.key("j")
	h.run(200 * time.Millisecond)
	view := h.m.View()
	assert.Contains(t, view, "No items")
	assert.Contains(t, view, "phase")
}

func TestCycleTopology(t *testing.T) {
	h := newHarness(t, nil)
	require.Equal(t, domain.TopologySingle, h.m.topology)

	h.key("t")
	assert.Equal(t, domain.TopologySticky, h.m.topology)
	assert.Equal(t, 10.0, h.m.coord.Geometry().StickyExtent)
	assert.Equal(t, "position", h.m.coord.Strategy().Name())
	assert.Contains(t, h.m.View(), "Items (200)")

	h.key("t")
	assert.Equal(t, domain.TopologyFixedTop, h.m.topology)
	assert.Equal(t, 10.0, h.m.coord.Geometry().FixedTopExtent)
	assert.Zero(t, h.m.coord.Geometry().StickyExtent)
	assert.Equal(t, "direction", h.m.coord.Strategy().Name())
	assert.Equal(t, 270.0, h.m.scroll.Sample(h.clock).ViewportExtent)

	h.key("t")
	assert.Equal(t, domain.TopologySingle, h.m.topology)
}

func TestSaveSessionTraceReplays(t *testing.T) {
	h := newHarness(t, nil)
	for i := 0; i < 5; i++ {
		h.key("K")
		h.run(frame)
	}
	h.key("space")
	h.run(400 * time.Millisecond)
	h.key("w")

	files, err := filepath.Glob(filepath.Join(h.dir, "collapsehead-*.toml"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Contains(t, h.m.status, "trace saved")

	tr, err := trace.Load(files[0])
	require.NoError(t, err)
	assert.Equal(t, string(domain.TopologySingle), tr.Topology)
	assert.Equal(t, trace.KindGeometry, tr.Events[0].Kind)

	cfg := config.DefaultConfig()
	steps, err := trace.Replay(tr, cfg.HeaderConfig(domain.TopologySingle), cfg.DetectorConfig(), nil)
	require.NoError(t, err)
	last := steps[len(steps)-1]
	assert.Equal(t, h.m.coord.Offset(), last.Offset)
	assert.Equal(t, h.m.coord.Phase(), last.Phase)
}

func TestSaveConfigKeepsTopology(t *testing.T) {
	h := newHarness(t, nil)
	h.key("t")
	h.key("s")

	loaded, err := h.m.configSvc.Load()
	require.NoError(t, err)
	assert.Equal(t, "sticky", loaded.Header.Topology)
	assert.Contains(t, h.m.View(), "config saved")
}

func TestHelpToggle(t *testing.T) {
	h := newHarness(t, nil)
	h.key("?")
	assert.Contains(t, h.m.View(), "collapsehead help")

	// keys other than the closing ones do nothing while help is open
	h.key("K")
	assert.Equal(t, domain.PhaseIdle, h.m.coord.Phase())

	h.key("esc")
	assert.NotContains(t, h.m.View(), "collapsehead help")
}

func TestDebugOverlayShowsEvents(t *testing.T) {
	h := newHarness(t, nil)
	h.key("d")
	h.key("K")
	view := h.m.View()
	assert.Contains(t, view, "debug")
	assert.Contains(t, view, "idle -> dragging")
}

func TestResetRestoresInitialState(t *testing.T) {
	h := newHarness(t, nil)
	for i := 0; i < 5; i++ {
		h.key("K")
	}
	// the held finger swallows other keys
	h.key("r")
	assert.Equal(t, domain.PhaseDragging, h.m.coord.Phase())

	h.key("space")
	h.key("r")

	assert.Equal(t, domain.PhaseIdle, h.m.coord.Phase())
	assert.Equal(t, 0.0, h.m.coord.Offset())
	assert.Equal(t, 0.0, h.m.scroll.Offset())
	assert.Equal(t, domain.DirectionIdle, h.m.det.Direction())
	assert.Equal(t, 1, h.m.session.Len(), "a fresh session starts with the geometry")
}

func TestStaleFramesAreDropped(t *testing.T) {
	h := newHarness(t, nil)
	h.key("j")
	before := h.m.scroll.Offset()
	_, cmd := h.m.Update(frameMsg{gen: h.m.frameGen - 1, at: h.clock.Add(frame)})
	assert.Nil(t, cmd)
	assert.Equal(t, before, h.m.scroll.Offset())
}

func TestQuit(t *testing.T) {
	h := newHarness(t, nil)
	cmd := h.key("q")
	require.NotNil(t, cmd)
	assert.True(t, quits(cmd()))
}

func TestEventLogNeedsProgram(t *testing.T) {
	h := newHarness(t, nil)
	h.key("p")
	assert.Contains(t, h.m.View(), "event log unavailable")
}

func TestStatusMessageClears(t *testing.T) {
	h := newHarness(t, nil)
	h.key("t")
	require.Contains(t, h.m.View(), "topology: sticky")

	h.m.Update(clearStatusMsg{gen: h.m.statusGen})
	assert.NotContains(t, h.m.View(), "topology: sticky")
}

func quits(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case tea.QuitMsg:
		return true
	case tea.BatchMsg:
		for _, cmd := range msg {
			if cmd != nil && quits(cmd()) {
				return true
			}
		}
	}
	return false
}

func TestEventLogContent(t *testing.T) {
	out := eventLogContent("log", []string{"a", "b"}, 7)
	assert.Equal(t, "log\n7 events recorded, showing the last 2\n\na\nb\n", out)
	assert.Contains(t, eventLogContent("log", nil, 0), "no events yet")
}

package ui

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"collapsehead/internal/config"
	"collapsehead/internal/direction"
	"collapsehead/internal/domain"
	"collapsehead/internal/eventbus"
	"collapsehead/internal/header"
	"collapsehead/internal/telemetry"
	"collapsehead/internal/ui/input"
	inputtypes "collapsehead/internal/ui/input/types"
	"collapsehead/internal/ui/scroll"
	"collapsehead/internal/ui/views"
)

// ReadyMarker is shown in the status bar at startup when Options.Ready is set
const ReadyMarker = "__READY__"

const (
	statusTimeout = 3 * time.Second
	debugLines    = 6
)

// Options wires the model to the rest of the application
type Options struct {
	Config        *config.Config
	ConfigService config.ConfigService // nil disables saving
	Bus           eventbus.EventBus
	Recorder      *telemetry.Recorder // event log for the debug overlay and pager
	Logger        zerolog.Logger
	TraceDir      string // where session traces are written
	Ready         bool
	Now           func() time.Time
}

// Model is the interactive demo: a list in a simulated scroll container
// under a collapsing header, with a status bar driven by the direction
// detector
type Model struct {
	cfg       *config.Config
	configSvc config.ConfigService
	recorder  *telemetry.Recorder
	logger    zerolog.Logger
	now       func() time.Time
	traceDir  string

	coord    *header.Coordinator
	det      *direction.Detector
	scroll   *scroll.Container
	session  *session
	topology domain.Topology

	width       int
	height      int
	help        help.Model
	translation float64 // cumulative translation of the gesture in progress

	// frame loop
	frameGen int
	running  bool
	fast     bool // running at the frame rate rather than the idle poll rate

	lastSample domain.ScrollSample
	hasSample  bool

	showDebug   bool
	showHelp    bool
	status      string
	statusErr   bool
	statusGen   int
	inPagerMode bool

	renderer     *views.Renderer
	inputHandler *input.Handler
	pager        *PagerOps

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates a new UI model
func NewModel(opts Options) *Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	sc := scroll.DefaultConfig()
	sc.FPS = cfg.Demo.FPS
	sc.WheelStep = 3 * float64(max(1, cfg.Demo.RowUnits))

	topology := cfg.Topology()
	m := &Model{
		cfg:          cfg,
		configSvc:    opts.ConfigService,
		recorder:     opts.Recorder,
		logger:       opts.Logger,
		now:          now,
		traceDir:     opts.TraceDir,
		coord:        header.New(cfg.HeaderConfig(topology), opts.Bus),
		det:          direction.New(cfg.DetectorConfig(), opts.Bus),
		scroll:       scroll.New(sc),
		session:      newSession(topology, now()),
		topology:     topology,
		help:         help.New(),
		showDebug:    cfg.Demo.Debug,
		renderer:     views.NewRenderer(),
		inputHandler: input.New(),
		pager:        NewPagerOps(nil),
	}
	m.coord.SetClock(now)
	m.det.SetClock(now)
	if opts.Ready {
		m.status = ReadyMarker
	}
	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pager = NewPagerOps(p)
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return m.kick()
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.updateGeometry()
		return m, m.kick()

	case tea.KeyMsg:
		actions := m.inputHandler.HandleKey(msg, m.inputContext())
		return m, m.processActions(actions)

	case tea.MouseMsg:
		actions := m.inputHandler.HandleMouse(msg, m.inputContext(), m.now())
		return m, m.processActions(actions)

	case tea.BlurMsg:
		// a finger cannot stay down while the window is not focused
		return m, m.processActions(m.inputHandler.CancelGesture(m.inputContext()))

	case frameMsg:
		if msg.gen != m.frameGen {
			return m, nil
		}
		return m, m.frame(msg.at)

	case pagerMsg:
		if msg.err != nil {
			m.logger.Error().Err(msg.err).Msg("event log pager failed")
			return m, m.setStatus(fmt.Sprintf("pager failed: %v", msg.err), true)
		}
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, m.kick()

	case clearStatusMsg:
		if msg.gen == m.statusGen {
			m.status = ""
			m.statusErr = false
		}
		return m, nil
	}
	return m, nil
}

// View renders the demo
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	fixedTop, sticky := m.segmentRows()
	var lines []string
	if m.showDebug && m.recorder != nil {
		lines = m.recorder.Lines()
		if len(lines) > debugLines {
			lines = lines[len(lines)-debugLines:]
		}
	}
	sample := m.scroll.Sample(m.now())

	return m.renderer.Render(views.ViewState{
		Width:          m.width,
		Height:         m.height,
		Topology:       m.topology,
		Strategy:       m.coord.Strategy().Name(),
		Mode:           m.inputHandler.CurrentMode().String(),
		HeaderRows:     m.cfg.Demo.HeaderRows,
		StickyRows:     sticky,
		FixedTopRows:   fixedTop,
		Items:          m.cfg.Demo.Items,
		RowUnits:       m.rowUnits(),
		HeaderOffset:   m.coord.Offset(),
		Presented:      m.coord.Presented(),
		Phase:          m.coord.Phase(),
		ScrollOffset:   sample.OffsetY,
		ContentExtent:  sample.ContentExtent,
		ViewportExtent: sample.ViewportExtent,
		Velocity:       m.scroll.Velocity(),
		Direction:      m.det.Direction(),
		ShowStatus:     direction.ChromeVisible(m.det.Direction()) || m.cfg.Demo.Items == 0,
		StatusMessage:  m.status,
		StatusError:    m.statusErr,
		ShowDebug:      m.showDebug,
		DebugLines:     lines,
		ShowHelp:       m.showHelp,
		HelpModel:      m.help,
		Keys:           m.inputHandler.Keys(),
	})
}

// processActions applies actions from the input handler in order
func (m *Model) processActions(actions []inputtypes.Action) tea.Cmd {
	var cmds []tea.Cmd
	for _, action := range actions {
		cmds = append(cmds, m.processAction(action))
	}
	return tea.Batch(cmds...)
}

// processAction processes an action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	switch a := action.(type) {
	case inputtypes.WheelAction:
		m.scroll.Wheel(a.Notches)
		return m.kick()

	case inputtypes.JumpAction:
		target := 0.0
		if a.ToEnd {
			target = m.scroll.MaxOffset()
		}
		m.scroll.JumpTo(target)
		return m.kick()

	case inputtypes.DragAction:
		m.drag(a)
		return m.kick()

	case inputtypes.CycleTopologyAction:
		m.applyTopology(m.topology.Next())
		return tea.Batch(m.setStatus("topology: "+string(m.topology), false), m.kick())

	case inputtypes.ToggleDebugAction:
		m.showDebug = !m.showDebug
		return nil

	case inputtypes.ToggleHelpAction:
		m.showHelp = !m.showHelp
		return nil

	case inputtypes.OpenTraceAction:
		return m.openEventLog()

	case inputtypes.SaveTraceAction:
		return m.saveSession()

	case inputtypes.SaveConfigAction:
		return m.saveConfig()

	case inputtypes.ResetAction:
		m.reset()
		return tea.Batch(m.setStatus("reset", false), m.kick())

	case inputtypes.QuitAction:
		return tea.Quit
	}
	return nil
}

// drag moves the content and reports the gesture to the coordinator. The
// container follows the finger one-to-one, the coordinator sees the raw
// cumulative translation.
func (m *Model) drag(a inputtypes.DragAction) {
	now := m.now()
	sample := domain.DragSample{Phase: a.Phase, Translation: a.Translation, Timestamp: now}

	switch a.Phase {
	case domain.DragBegan:
		m.translation = 0
		m.scroll.BeginDrag()
	case domain.DragChanged:
		m.scroll.DragBy(a.Translation - m.translation)
		m.translation = a.Translation
	case domain.DragEnded, domain.DragCancelled:
		m.scroll.DragBy(a.Translation - m.translation)
		velocity := a.Velocity
		if a.Phase == domain.DragCancelled {
			velocity = 0
		}
		m.scroll.EndDrag(velocity)
		m.translation = 0
	}

	m.coord.HandleDrag(sample)
	m.session.drag(sample)
}

// frame advances the simulation by one host frame and schedules the next
func (m *Model) frame(now time.Time) tea.Cmd {
	m.step(now)
	if m.inPagerMode {
		m.running = false
		return nil
	}
	if m.animating() {
		m.fast = true
		return m.nextFrame(m.frameInterval())
	}
	// keep polling at a slow rate so the idle label can appear
	if idle := m.det.Config().IdleAfter; idle > 0 && m.det.Direction() != domain.DirectionIdle {
		m.fast = false
		return m.nextFrame(idle / 4)
	}
	m.running = false
	return nil
}

func (m *Model) step(now time.Time) {
	wasAnimating := m.coord.Animating()
	sample := m.scroll.Step(now)
	if !m.hasSample || sample.OffsetY != m.lastSample.OffsetY ||
		sample.ContentExtent != m.lastSample.ContentExtent || sample.ViewportExtent != m.lastSample.ViewportExtent {
		m.coord.OnScrollUpdate(sample)
		m.det.OnScrollUpdate(sample)
		m.session.scroll(sample)
		m.lastSample = sample
		m.hasSample = true
	}
	m.coord.Tick(now)
	before := m.det.Direction()
	m.det.Poll(now)
	if wasAnimating || m.coord.Animating() || m.det.Direction() != before {
		m.session.tick(now)
	}
}

func (m *Model) animating() bool {
	return m.scroll.Moving() || m.coord.Animating() || m.coord.Phase() == domain.PhaseSettling
}

// kick starts the frame loop at the frame rate unless it already runs there.
// A slow idle poll in flight is superseded.
func (m *Model) kick() tea.Cmd {
	if m.inPagerMode || (m.running && m.fast) {
		return nil
	}
	m.running = true
	m.fast = true
	m.frameGen++
	return m.nextFrame(m.frameInterval())
}

func (m *Model) nextFrame(d time.Duration) tea.Cmd {
	gen := m.frameGen
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return frameMsg{gen: gen, at: t}
	})
}

func (m *Model) frameInterval() time.Duration {
	fps := m.cfg.Demo.FPS
	if fps <= 0 {
		fps = 60
	}
	return time.Second / time.Duration(fps)
}

func (m *Model) rowUnits() float64 {
	return float64(max(1, m.cfg.Demo.RowUnits))
}

// segmentRows returns the fixed top and sticky rows of the active topology
func (m *Model) segmentRows() (fixedTop, sticky int) {
	switch m.topology {
	case domain.TopologyFixedTop:
		fixedTop = m.cfg.Demo.FixedTopRows
	case domain.TopologySticky:
		sticky = m.cfg.Demo.StickyRows
	}
	return fixedTop, sticky
}

// updateGeometry measures the header segments and the list viewport
func (m *Model) updateGeometry() {
	u := m.rowUnits()
	fixedTop, sticky := m.segmentRows()
	g := domain.HeaderGeometry{
		HeaderExtent:   float64(m.cfg.Demo.HeaderRows) * u,
		StickyExtent:   float64(sticky) * u,
		FixedTopExtent: float64(fixedTop) * u,
	}
	if g != m.coord.Geometry() {
		m.coord.SetGeometry(g)
		m.session.geometry(m.now(), g)
	}
	m.scroll.SetExtents(float64(m.cfg.Demo.Items)*u, float64(views.ListRows(m.height, fixedTop, sticky))*u)
}

func (m *Model) applyTopology(t domain.Topology) {
	m.topology = t
	m.coord.SetStrategy(m.cfg.HeaderConfig(t).Strategy)
	m.updateGeometry()
	m.logger.Info().Str("topology", string(t)).Str("strategy", m.coord.Strategy().Name()).Msg("topology changed")
}

func (m *Model) reset() {
	m.inputHandler.Reset()
	m.coord.Reset()
	m.det.Reset()
	m.scroll.JumpTo(0)
	m.translation = 0
	m.hasSample = false
	if m.recorder != nil {
		m.recorder.Reset()
	}
	m.session = newSession(m.topology, m.now())
	m.session.geometry(m.now(), m.coord.Geometry())
}

func (m *Model) inputContext() input.ModelContext {
	return input.ModelContext{
		Units:   m.rowUnits(),
		Current: m.translation,
		Help:    m.showHelp,
	}
}

// setStatus shows a message in the status bar and clears it later
func (m *Model) setStatus(msg string, isErr bool) tea.Cmd {
	m.status = msg
	m.statusErr = isErr
	m.statusGen++
	gen := m.statusGen
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg { return clearStatusMsg{gen: gen} })
}

func (m *Model) saveSession() tea.Cmd {
	name := fmt.Sprintf("collapsehead-%s.toml", m.now().Format("20060102-150405"))
	path := filepath.Join(m.traceDir, name)
	if err := m.session.Save(path); err != nil {
		m.logger.Error().Err(err).Str("path", path).Msg("failed to save session trace")
		return m.setStatus(fmt.Sprintf("trace not saved: %v", err), true)
	}
	m.logger.Info().Str("path", path).Int("events", m.session.Len()).Msg("session trace saved")
	msg := "trace saved: " + path
	if m.session.full {
		msg += " (truncated)"
	}
	return m.setStatus(msg, false)
}

func (m *Model) saveConfig() tea.Cmd {
	if m.configSvc == nil {
		return m.setStatus("no config file", true)
	}
	m.cfg.Header.Topology = string(m.topology)
	if err := m.configSvc.Save(m.cfg); err != nil {
		m.logger.Error().Err(err).Msg("failed to save config")
		return m.setStatus(fmt.Sprintf("config not saved: %v", err), true)
	}
	return m.setStatus("config saved: "+m.configSvc.Path(), false)
}

// openEventLog returns a command that pages the recorded events with ov
func (m *Model) openEventLog() tea.Cmd {
	if m.program == nil || m.recorder == nil {
		return m.setStatus("event log unavailable", true)
	}
	content := eventLogContent("collapsehead event log", m.recorder.Lines(), m.recorder.Total())
	return func() tea.Msg {
		m.program.Send(pauseRenderingMsg{})
		err := m.pager.Show(content)
		m.program.Send(resumeRenderingMsg{})
		return pagerMsg{err: err}
	}
}

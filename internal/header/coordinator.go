package header

import (
	"time"

	"collapsehead/internal/domain"
	"collapsehead/internal/eventbus"
	"collapsehead/internal/motion"
)

// Config holds the coordinator's tunables
type Config struct {
	DeadZone           float64        // drag travel absorbed by the scroll container before the header moves
	RoundDeltas        bool           // round each applied delta to a whole unit
	Strategy           SettleStrategy // settle decision at gesture end
	SettleDuration     time.Duration  // ease-in-out to 0 or the extent after a gesture
	ScrollSnapDuration time.Duration  // ease-in-out back to 0 when content returns to its origin
	Motion             motion.Config
}

// DefaultConfig returns the single-header defaults
func DefaultConfig() Config {
	return Config{
		DeadZone:           10,
		Strategy:           PositionStrategy{CollapseFraction: DefaultThresholds().CollapseFraction},
		SettleDuration:     200 * time.Millisecond,
		ScrollSnapDuration: 100 * time.Millisecond,
		Motion:             motion.DefaultConfig(),
	}
}

// Coordinator drives the header offset from drag gestures and scroll telemetry.
// All methods must be called from one goroutine, in event arrival order.
type Coordinator struct {
	cfg      Config
	bus      eventbus.EventBus
	now      func() time.Time
	geometry domain.HeaderGeometry
	state    State
	phase    domain.Phase
	anim     *motion.Animator

	lastTranslation float64 // raw translation of the latest drag sample
	settleGen       uint64  // animator generation of the in-flight settle
}

// New creates a coordinator. bus may be nil when nobody listens.
func New(cfg Config, bus eventbus.EventBus) *Coordinator {
	if cfg.Strategy == nil {
		cfg.Strategy = DefaultConfig().Strategy
	}
	cfg.DeadZone = domain.NonNegative(cfg.DeadZone)
	return &Coordinator{
		cfg:  cfg,
		bus:  bus,
		now:  time.Now,
		anim: motion.NewAnimator(cfg.Motion),
	}
}

// SetClock replaces the time source used for samples without a timestamp
func (c *Coordinator) SetClock(now func() time.Time) {
	if now != nil {
		c.now = now
	}
}

// SetStrategy swaps the settle strategy, e.g. when the topology changes
func (c *Coordinator) SetStrategy(s SettleStrategy) {
	if s != nil {
		c.cfg.Strategy = s
	}
}

// Strategy returns the active settle strategy
func (c *Coordinator) Strategy() SettleStrategy { return c.cfg.Strategy }

// SetGeometry pushes freshly measured header lengths. It may arrive at any
// time, including mid-gesture; the offset is re-clamped to the new extent.
func (c *Coordinator) SetGeometry(g domain.HeaderGeometry) {
	clean := g.Sanitized()
	if clean == c.geometry {
		return
	}
	c.geometry = clean
	c.publish(domain.GeometryChangedEvent{Geometry: clean, Sanitized: clean != g})

	c.anim.Clamp(0, clean.HeaderExtent)
	prev := c.state.HeaderOffset
	c.state.HeaderOffset = domain.Clamp(prev, 0, clean.HeaderExtent)
	c.state.DragBaseline = domain.Clamp(c.state.DragBaseline, 0, clean.HeaderExtent)
	if c.state.HeaderOffset != prev {
		if !c.anim.Active() {
			c.anim.Jump(c.state.HeaderOffset)
		}
		c.publish(domain.OffsetChangedEvent{
			Previous: prev,
			Offset:   c.state.HeaderOffset,
			Curve:    domain.CurveNone,
			Cause:    "geometry",
		})
	}
}

// Geometry returns the sanitized geometry in use
func (c *Coordinator) Geometry() domain.HeaderGeometry { return c.geometry }

// OnScrollUpdate records the content offset and, while idle, eases a
// partially collapsed header back open once the content is at its origin.
func (c *Coordinator) OnScrollUpdate(s domain.ScrollSample) {
	c.state.LastKnownScrollOffset = s.OffsetY
	if c.phase != domain.PhaseIdle || !NeedsScrollSnap(c.state, s) {
		return
	}
	prev := c.state.HeaderOffset
	c.state.HeaderOffset = 0
	c.anim.Ease(0, c.cfg.ScrollSnapDuration, c.stamp(s.Timestamp))
	c.publish(domain.OffsetChangedEvent{
		Previous: prev,
		Offset:   0,
		Curve:    domain.CurveEaseInOut,
		Cause:    "scroll-snap",
	})
}

// OnDragBegan starts a gesture. A settle in flight is interrupted and the
// header continues from where it is drawn.
func (c *Coordinator) OnDragBegan(s domain.DragSample) {
	if c.phase == domain.PhaseDragging {
		return
	}
	if c.phase == domain.PhaseSettling {
		prev := c.state.HeaderOffset
		presented := domain.Clamp(c.anim.Value(), 0, c.geometry.HeaderExtent)
		c.anim.Jump(presented)
		c.settleGen = 0
		c.state.HeaderOffset = presented
		if presented != prev {
			c.publish(domain.OffsetChangedEvent{
				Previous: prev,
				Offset:   presented,
				Curve:    domain.CurveNone,
				Cause:    "interrupt",
			})
		}
	}
	c.state = ResetDrag(c.state)
	c.state.DragBaseline = c.state.HeaderOffset
	c.lastTranslation = 0
	c.setPhase(domain.PhaseDragging)
}

// OnDragChanged folds the incremental part of a cumulative translation into
// the offset and springs the presented header after it.
func (c *Coordinator) OnDragChanged(s domain.DragSample) {
	if c.phase != domain.PhaseDragging {
		c.OnDragBegan(domain.DragSample{Phase: domain.DragBegan, Timestamp: s.Timestamp})
	}
	c.lastTranslation = s.Translation

	prev := c.state.HeaderOffset
	c.state, _ = ApplyDrag(c.state, c.geometry.HeaderExtent, c.cfg.DeadZone, s.Translation, c.cfg.RoundDeltas)
	if c.state.HeaderOffset == prev {
		return
	}
	c.anim.Spring(c.state.HeaderOffset, c.stamp(s.Timestamp))
	c.publish(domain.OffsetChangedEvent{
		Previous: prev,
		Offset:   c.state.HeaderOffset,
		Curve:    domain.CurveInteractive,
		Cause:    "drag",
	})
}

// OnDragEnded picks the settle target and animates to it
func (c *Coordinator) OnDragEnded(s domain.DragSample) {
	c.finishGesture(s, s.Translation)
}

// OnDragCancelled is handled exactly like a gesture end so no stale deltas
// leak into the next gesture. Cancellations often carry no translation, so the
// last seen one is used.
func (c *Coordinator) OnDragCancelled(s domain.DragSample) {
	translation := s.Translation
	if translation == 0 {
		translation = c.lastTranslation
	}
	c.finishGesture(s, translation)
}

// HandleDrag dispatches a sample by its phase
func (c *Coordinator) HandleDrag(s domain.DragSample) {
	switch s.Phase {
	case domain.DragBegan:
		c.OnDragBegan(s)
	case domain.DragChanged:
		c.OnDragChanged(s)
	case domain.DragEnded:
		c.OnDragEnded(s)
	case domain.DragCancelled:
		c.OnDragCancelled(s)
	}
}

func (c *Coordinator) finishGesture(s domain.DragSample, translation float64) {
	if c.phase != domain.PhaseDragging {
		// end without start: settle from where we are, which moves nothing
		c.state = ResetDrag(c.state)
		c.lastTranslation = 0
		c.publish(domain.InputIgnoredEvent{Source: "drag", Reason: "gesture end without active gesture"})
		return
	}

	target := c.cfg.Strategy.Target(SettleInput{
		Offset:       c.state.HeaderOffset,
		Geometry:     c.geometry,
		ScrollOffset: c.state.LastKnownScrollOffset,
		Translation:  translation,
	})
	target = domain.Clamp(target, 0, c.geometry.HeaderExtent)

	prev := c.state.HeaderOffset
	c.state.HeaderOffset = target
	c.state = ResetDrag(c.state)
	c.lastTranslation = 0

	if prev != target {
		c.publish(domain.OffsetChangedEvent{
			Previous: prev,
			Offset:   target,
			Curve:    domain.CurveEaseInOut,
			Cause:    "settle",
		})
	}

	c.settleGen = c.anim.Ease(target, c.cfg.SettleDuration, c.stamp(s.Timestamp))
	c.setPhase(domain.PhaseSettling)
	if !c.anim.Active() {
		c.completeSettle()
	}
}

// Tick advances presentation animations. Call it once per host frame.
func (c *Coordinator) Tick(now time.Time) {
	_, done := c.anim.Tick(now)
	if c.phase != domain.PhaseSettling {
		return
	}
	// a replaced animation means the settle is no longer the one being drawn
	if done || !c.anim.Active() || c.anim.Generation() != c.settleGen {
		c.completeSettle()
	}
}

func (c *Coordinator) completeSettle() {
	c.settleGen = 0
	c.setPhase(domain.PhaseIdle)
	c.publish(domain.SettledEvent{Target: c.state.HeaderOffset, Strategy: c.cfg.Strategy.Name()})
}

// Offset returns the model header offset
func (c *Coordinator) Offset() float64 { return c.state.HeaderOffset }

// Presented returns the eased offset the rendering layer should draw
func (c *Coordinator) Presented() float64 {
	return domain.Clamp(c.anim.Value(), 0, c.geometry.HeaderExtent)
}

// VisibleExtent returns the on-screen length of all header segments
func (c *Coordinator) VisibleExtent() float64 {
	return c.geometry.VisibleExtent(c.Presented())
}

// Animating reports whether the presented value still moves toward the model
func (c *Coordinator) Animating() bool { return c.anim.Active() }

// Phase returns the gesture state
func (c *Coordinator) Phase() domain.Phase { return c.phase }

// State returns a copy of the reducer state
func (c *Coordinator) State() State { return c.state }

// Reset returns the coordinator to an expanded, idle header
func (c *Coordinator) Reset() {
	c.state = State{}
	c.lastTranslation = 0
	c.settleGen = 0
	c.anim.Jump(0)
	c.setPhase(domain.PhaseIdle)
}

func (c *Coordinator) setPhase(p domain.Phase) {
	if p == c.phase {
		return
	}
	from := c.phase
	c.phase = p
	c.publish(domain.PhaseChangedEvent{From: from, To: p})
}

func (c *Coordinator) stamp(t time.Time) time.Time {
	if t.IsZero() {
		return c.now()
	}
	return t
}

func (c *Coordinator) publish(e domain.DomainEvent) {
	if c.bus != nil {
		c.bus.Publish(e)
	}
}

// Package scroll simulates a native scroll container for the terminal demo:
// wheel input, finger drags with elastic overscroll, momentum after a fling
// and a spring back into bounds. It emits one ScrollSample per frame.
package scroll

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"

	"collapsehead/internal/domain"
)

const (
	// below this speed, in units per second, momentum stops
	minVelocity = 1.0
	// offsets this close to a bound snap onto it when springing back
	snapDistance = 0.05
	// cap on frames integrated per Step after a stall
	maxFramesPerStep = 10
)

// Config holds the container physics
type Config struct {
	FPS           int
	WheelStep     float64 // units per wheel notch
	Deceleration  float64 // fraction of momentum kept per second
	RubberBand    float64 // resistance applied past a bound, 0..1
	MaxOverscroll float64 // elastic excursion limit as a fraction of the viewport
	SpringFreq    float64 // angular frequency of the bounce-back spring
	SpringDamping float64
}

// DefaultConfig mimics a touch list with a rows-of-ten unit scale
func DefaultConfig() Config {
	return Config{
		FPS:           60,
		WheelStep:     30,
		Deceleration:  0.135, // iOS normal rate, 0.998 per millisecond
		RubberBand:    0.55,
		MaxOverscroll: 0.5,
		SpringFreq:    12,
		SpringDamping: 1,
	}
}

// Container is the scroll position model
type Container struct {
	cfg    Config
	spring harmonica.Spring
	frame  time.Duration

	offset   float64
	velocity float64 // momentum, units per second
	springV  float64 // bounce-back spring velocity
	content  float64
	viewport float64

	dragging     bool
	pendingWheel int
	last         time.Time
}

// New creates a container at the content origin
func New(cfg Config) *Container {
	d := DefaultConfig()
	if cfg.FPS <= 0 {
		cfg.FPS = d.FPS
	}
	if cfg.SpringFreq <= 0 {
		cfg.SpringFreq = d.SpringFreq
	}
	if cfg.SpringDamping <= 0 {
		cfg.SpringDamping = d.SpringDamping
	}
	if cfg.Deceleration <= 0 || cfg.Deceleration >= 1 {
		cfg.Deceleration = d.Deceleration
	}
	return &Container{
		cfg:    cfg,
		spring: harmonica.NewSpring(harmonica.FPS(cfg.FPS), cfg.SpringFreq, cfg.SpringDamping),
		frame:  time.Second / time.Duration(cfg.FPS),
	}
}

// SetExtents updates the content and viewport lengths
func (c *Container) SetExtents(content, viewport float64) {
	c.content = domain.NonNegative(content)
	c.viewport = domain.NonNegative(viewport)
}

// MaxOffset is the largest in-bounds offset
func (c *Container) MaxOffset() float64 {
	return math.Max(0, c.content-c.viewport)
}

// Offset returns the current content offset, possibly out of bounds
func (c *Container) Offset() float64 { return c.offset }

// Velocity returns the momentum in units per second
func (c *Container) Velocity() float64 { return c.velocity }

// Dragging reports whether a finger holds the content
func (c *Container) Dragging() bool { return c.dragging }

// Moving reports whether Step would change the offset
func (c *Container) Moving() bool {
	return c.pendingWheel != 0 || c.outOfBounds() || (!c.dragging && math.Abs(c.velocity) >= minVelocity)
}

// Wheel queues wheel notches; they are coalesced and applied on the next Step
func (c *Container) Wheel(notches int) {
	c.pendingWheel += notches
}

// BeginDrag stops momentum and lets the finger move the content
func (c *Container) BeginDrag() {
	c.dragging = true
	c.velocity = 0
	c.springV = 0
}

// DragBy moves the content by a finger displacement. Positive deltas move
// the content toward its end. Past a bound the movement meets resistance.
func (c *Container) DragBy(delta float64) {
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return
	}
	c.offset = c.resist(c.offset, delta)
}

// EndDrag releases the content with a fling velocity in units per second
func (c *Container) EndDrag(velocity float64) {
	c.dragging = false
	if math.IsNaN(velocity) || math.IsInf(velocity, 0) {
		velocity = 0
	}
	if c.outOfBounds() {
		c.velocity = 0
		c.springV = velocity
		return
	}
	c.velocity = velocity
}

// JumpTo places the content without animation, clamped to bounds
func (c *Container) JumpTo(offset float64) {
	c.offset = domain.Clamp(offset, 0, c.MaxOffset())
	c.velocity = 0
	c.springV = 0
	c.pendingWheel = 0
}

// Step advances the physics to now and returns the frame's telemetry
func (c *Container) Step(now time.Time) domain.ScrollSample {
	frames := 1
	if !c.last.IsZero() && now.After(c.last) {
		frames = int(math.Round(float64(now.Sub(c.last)) / float64(c.frame)))
		frames = max(1, min(frames, maxFramesPerStep))
	}
	c.last = now

	if c.pendingWheel != 0 {
		c.offset = c.resist(c.offset, float64(c.pendingWheel)*c.cfg.WheelStep)
		c.pendingWheel = 0
		c.velocity = 0
	}

	if !c.dragging {
		dt := c.frame.Seconds()
		for i := 0; i < frames; i++ {
			c.integrate(dt)
		}
	}
	return c.Sample(now)
}

// Sample reports the current position without advancing
func (c *Container) Sample(now time.Time) domain.ScrollSample {
	return domain.ScrollSample{
		OffsetY:        c.offset,
		ContentExtent:  c.content,
		ViewportExtent: c.viewport,
		Timestamp:      now,
	}
}

func (c *Container) integrate(dt float64) {
	if c.outOfBounds() {
		bound := c.nearestBound()
		c.offset, c.springV = c.spring.Update(c.offset, c.springV, bound)
		if !c.outOfBounds() || (math.Abs(c.offset-bound) < snapDistance && math.Abs(c.springV) < minVelocity) {
			c.offset = bound
			c.springV = 0
		}
		return
	}

	if math.Abs(c.velocity) < minVelocity {
		c.velocity = 0
		return
	}
	c.offset += c.velocity * dt
	c.velocity *= math.Pow(c.cfg.Deceleration, dt)
	if c.outOfBounds() {
		// momentum carries into the elastic region, then the spring takes over
		c.springV = c.velocity
		c.velocity = 0
	}
}

// resist applies rubber-band resistance to movement that pushes further out
// of bounds and caps the excursion
func (c *Container) resist(offset, delta float64) float64 {
	limit := c.cfg.MaxOverscroll * c.viewport
	maxOff := c.MaxOffset()
	switch {
	case delta < 0 && offset+delta < 0:
		remaining := delta + math.Max(offset, 0)
		start := math.Min(offset, 0)
		return math.Max(start+remaining*c.factor(start), -limit)
	case delta > 0 && offset+delta > maxOff:
		remaining := delta - math.Max(maxOff-offset, 0)
		start := math.Max(offset, maxOff)
		return math.Min(start+remaining*c.factor(start-maxOff), maxOff+limit)
	}
	return offset + delta
}

// factor shrinks with the distance already travelled out of bounds
func (c *Container) factor(over float64) float64 {
	if c.viewport <= 0 {
		return 0
	}
	return c.cfg.RubberBand * c.viewport / (c.viewport + math.Abs(over))
}

func (c *Container) outOfBounds() bool {
	return c.offset < 0 || c.offset > c.MaxOffset()
}

func (c *Container) nearestBound() float64 {
	if c.offset < 0 {
		return 0
	}
	return c.MaxOffset()
}

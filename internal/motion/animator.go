// Package motion turns model offsets into presented values over time.
// It never decides where a value should go, only how it gets there.
package motion

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"

	"collapsehead/internal/domain"
)

const (
	// settle tolerance for springs, in offset units
	springEpsilon = 0.01
	// cap on spring steps per Tick so a stalled host cannot spin
	maxStepsPerTick = 240
)

// Config holds the presentation parameters
type Config struct {
	FPS            int           // spring integration rate
	SpringResponse time.Duration // period of the undamped interactive spring
	SpringDamping  float64       // damping ratio of the interactive spring
}

// DefaultConfig mirrors an interactive spring with a 0.2s response and 0.8 damping
func DefaultConfig() Config {
	return Config{
		FPS:            60,
		SpringResponse: 200 * time.Millisecond,
		SpringDamping:  0.8,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.FPS <= 0 {
		c.FPS = d.FPS
	}
	if c.SpringResponse <= 0 {
		c.SpringResponse = d.SpringResponse
	}
	if c.SpringDamping <= 0 {
		c.SpringDamping = d.SpringDamping
	}
	return c
}

// Animator moves a presented value toward a target along a curve
type Animator struct {
	cfg    Config
	spring harmonica.Spring
	frame  time.Duration

	value    float64
	velocity float64
	from     float64
	target   float64
	curve    domain.Curve
	start    time.Time
	duration time.Duration
	last     time.Time
	carry    time.Duration
	active   bool
	gen      uint64
}

// NewAnimator creates an animator resting at 0
func NewAnimator(cfg Config) *Animator {
	cfg = cfg.withDefaults()
	angular := 2 * math.Pi / cfg.SpringResponse.Seconds()
	return &Animator{
		cfg:    cfg,
		spring: harmonica.NewSpring(harmonica.FPS(cfg.FPS), angular, cfg.SpringDamping),
		frame:  time.Second / time.Duration(cfg.FPS),
		curve:  domain.CurveNone,
	}
}

// Jump moves the presented value immediately and stops any animation
func (a *Animator) Jump(v float64) {
	a.value = v
	a.target = v
	a.from = v
	a.velocity = 0
	a.curve = domain.CurveNone
	a.active = false
	a.gen++
}

// Spring retargets the interactive spring, keeping the current velocity
func (a *Animator) Spring(target float64, now time.Time) {
	if a.curve != domain.CurveInteractive || !a.active {
		a.last = now
		a.carry = 0
		a.gen++
	}
	a.target = target
	a.curve = domain.CurveInteractive
	a.active = true
}

// Ease starts a timed ease-in-out from the presented value and returns its generation
func (a *Animator) Ease(target float64, d time.Duration, now time.Time) uint64 {
	a.gen++
	if d <= 0 || a.value == target {
		a.value = target
		a.target = target
		a.velocity = 0
		a.curve = domain.CurveNone
		a.active = false
		return a.gen
	}
	a.from = a.value
	a.target = target
	a.velocity = 0
	a.curve = domain.CurveEaseInOut
	a.start = now
	a.duration = d
	a.active = true
	return a.gen
}

// Tick advances the animation to now. done is true when the animation that
// was running has just reached its target.
func (a *Animator) Tick(now time.Time) (value float64, done bool) {
	if !a.active {
		return a.value, false
	}

	switch a.curve {
	case domain.CurveEaseInOut:
		p := float64(now.Sub(a.start)) / float64(a.duration)
		if p >= 1 {
			a.value = a.target
			a.active = false
			a.curve = domain.CurveNone
			return a.value, true
		}
		if p < 0 {
			p = 0
		}
		a.value = a.from + (a.target-a.from)*EaseInOut(p)
		return a.value, false

	case domain.CurveInteractive:
		if a.last.IsZero() || now.Before(a.last) {
			a.last = now
			return a.value, false
		}
		elapsed := now.Sub(a.last) + a.carry
		steps := int(elapsed / a.frame)
		a.carry = elapsed - time.Duration(steps)*a.frame
		a.last = now
		if steps > maxStepsPerTick {
			steps = maxStepsPerTick
		}
		for i := 0; i < steps; i++ {
			a.value, a.velocity = a.spring.Update(a.value, a.velocity, a.target)
		}
		if math.Abs(a.value-a.target) < springEpsilon && math.Abs(a.velocity) < springEpsilon {
			a.value = a.target
			a.velocity = 0
			a.active = false
			a.curve = domain.CurveNone
			return a.value, true
		}
		return a.value, false
	}

	a.active = false
	return a.value, false
}

// Clamp bounds the presented value and target, used when geometry shrinks
func (a *Animator) Clamp(lo, hi float64) {
	a.value = domain.Clamp(a.value, lo, hi)
	a.target = domain.Clamp(a.target, lo, hi)
	a.from = domain.Clamp(a.from, lo, hi)
}

// Value returns the presented value
func (a *Animator) Value() float64 { return a.value }

// Target returns where the current animation is heading
func (a *Animator) Target() float64 { return a.target }

// Active reports whether an animation is in flight
func (a *Animator) Active() bool { return a.active }

// Curve returns the curve of the current animation
func (a *Animator) Curve() domain.Curve { return a.curve }

// Generation changes every time an animation is started, replaced or stopped
func (a *Animator) Generation() uint64 { return a.gen }

// EaseInOut is a cubic ease-in-out over t in [0, 1]
func EaseInOut(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	if t < 0.5 {
		return 4 * t * t * t
	}
	f := -2*t + 2
	return 1 - f*f*f/2
}

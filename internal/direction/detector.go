// Package direction derives a stable up/down/idle signal from raw scroll
// offsets. Elastic overscroll never changes the reported direction, and
// candidate changes are debounced.
package direction

import (
	"math"
	"time"

	"collapsehead/internal/domain"
	"collapsehead/internal/eventbus"
)

// Config holds the detector tunables
type Config struct {
	Threshold        float64       // per-sample delta that counts as motion
	SettleEpsilon    float64       // residual motion ignored right after a bounce
	DebounceInterval time.Duration // minimum spacing between committed changes
	IdleAfter        time.Duration // quiet period before Poll reports idle; 0 disables
}

// DefaultConfig returns the detector defaults
func DefaultConfig() Config {
	return Config{
		Threshold:        0.5,
		SettleEpsilon:    1.0,
		DebounceInterval: 100 * time.Millisecond,
	}
}

// State is the detector's reducer state
type State struct {
	Direction   domain.Direction
	LastValid   domain.Direction // last direction computed outside an overscroll region
	WasBouncing bool
	LastOffset  float64
	LastUpdate  time.Time // time of the last committed change
	LastMotion  time.Time // time of the last sample that moved past the threshold
}

// Step folds one scroll sample into the state
func Step(st State, s domain.ScrollSample, cfg Config) State {
	delta := s.OffsetY - st.LastOffset
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		delta = 0
	}

	if s.Bouncing() {
		st.Direction = st.LastValid
		st.WasBouncing = true
		st.LastOffset = s.OffsetY
		return st
	}

	if st.WasBouncing && math.Abs(delta) < cfg.SettleEpsilon {
		st.Direction = st.LastValid
	} else {
		candidate := st.LastValid
		switch {
		case delta > cfg.Threshold:
			candidate = domain.DirectionDown
		case delta < -cfg.Threshold:
			candidate = domain.DirectionUp
		}
		if math.Abs(delta) > cfg.Threshold {
			st.LastMotion = s.Timestamp
		}
		if candidate != st.LastValid && debounced(st, s.Timestamp, cfg.DebounceInterval) {
			st.LastValid = candidate
			st.LastUpdate = s.Timestamp
		}
		st.Direction = st.LastValid
	}
	st.WasBouncing = false
	st.LastOffset = s.OffsetY
	return st
}

func debounced(st State, now time.Time, interval time.Duration) bool {
	return st.LastUpdate.IsZero() || now.Sub(st.LastUpdate) >= interval
}

// Quiet reports idle once no motion has been seen for cfg.IdleAfter.
// The debounce timer is left alone so the next motion commits at once.
func Quiet(st State, now time.Time, cfg Config) State {
	if cfg.IdleAfter <= 0 || st.LastMotion.IsZero() {
		return st
	}
	if now.Sub(st.LastMotion) < cfg.IdleAfter {
		return st
	}
	st.Direction = domain.DirectionIdle
	st.LastValid = domain.DirectionIdle
	return st
}

// ChromeVisible reports whether auxiliary chrome such as a status bar should
// be shown for a direction. It hides only while scrolling down.
func ChromeVisible(d domain.Direction) bool {
	return d != domain.DirectionDown
}

// Detector wraps Step with a clock and publishes direction changes
type Detector struct {
	cfg   Config
	bus   eventbus.EventBus
	now   func() time.Time
	state State
}

// New creates a detector reporting idle. bus may be nil.
func New(cfg Config, bus eventbus.EventBus) *Detector {
	return &Detector{cfg: cfg, bus: bus, now: time.Now}
}

// SetClock replaces the time source used for samples without a timestamp
func (d *Detector) SetClock(now func() time.Time) {
	if now != nil {
		d.now = now
	}
}

// OnScrollUpdate processes one sample and returns the reported direction
func (d *Detector) OnScrollUpdate(s domain.ScrollSample) domain.Direction {
	if s.Timestamp.IsZero() {
		s.Timestamp = d.now()
	}
	prev := d.state.Direction
	d.state = Step(d.state, s, d.cfg)
	if d.state.Direction != prev {
		d.publish(domain.DirectionChangedEvent{
			Previous:  prev,
			Direction: d.state.Direction,
			Offset:    s.OffsetY,
			Bouncing:  s.Bouncing(),
		})
	}
	return d.state.Direction
}

// Poll applies the idle quiet period and returns the reported direction
func (d *Detector) Poll(now time.Time) domain.Direction {
	prev := d.state.Direction
	d.state = Quiet(d.state, now, d.cfg)
	if d.state.Direction != prev {
		d.publish(domain.DirectionChangedEvent{
			Previous:  prev,
			Direction: d.state.Direction,
			Offset:    d.state.LastOffset,
		})
	}
	return d.state.Direction
}

// Direction returns the reported direction
func (d *Detector) Direction() domain.Direction { return d.state.Direction }

// State returns a copy of the reducer state
func (d *Detector) State() State { return d.state }

// Config returns the tunables in use
func (d *Detector) Config() Config { return d.cfg }

// Reset discards all state, as when the detector detaches from its container
func (d *Detector) Reset() {
	d.state = State{}
}

func (d *Detector) publish(e domain.DomainEvent) {
	if d.bus != nil {
		d.bus.Publish(e)
	}
}

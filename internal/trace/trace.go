// Package trace reads, writes and replays recorded input sessions. A trace
// is an ordered list of geometry, scroll, drag and tick events that can be
// fed headlessly through the header coordinator and direction detector.
package trace

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"collapsehead/internal/domain"
)

// Event kinds
const (
	KindGeometry = "geometry"
	KindScroll   = "scroll"
	KindDrag     = "drag"
	KindTick     = "tick"
)

// Trace is the on-disk document
type Trace struct {
	Name     string  `toml:"name,omitempty"`
	Topology string  `toml:"topology,omitempty"` // overrides the configured topology
	Events   []Event `toml:"event"`
}

// Event is one recorded input. Fields that do not apply to Kind are left zero.
type Event struct {
	Kind string `toml:"kind"`
	AtMs int64  `toml:"at_ms"`

	// scroll
	Offset   float64 `toml:"offset,omitempty"`
	Content  float64 `toml:"content,omitempty"`
	Viewport float64 `toml:"viewport,omitempty"`

	// drag
	Phase       string  `toml:"phase,omitempty"`
	Translation float64 `toml:"translation,omitempty"`

	// geometry
	Header   float64 `toml:"header,omitempty"`
	Sticky   float64 `toml:"sticky,omitempty"`
	FixedTop float64 `toml:"fixed_top,omitempty"`
}

// Load reads and validates a trace file
func Load(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trace: %w", err)
	}
	tr, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tr, nil
}

// Parse decodes and validates a trace document
func Parse(data []byte) (*Trace, error) {
	var tr Trace
	if err := toml.Unmarshal(data, &tr); err != nil {
		return nil, fmt.Errorf("failed to parse trace: %w", err)
	}
	if err := tr.Validate(); err != nil {
		return nil, err
	}
	return &tr, nil
}

// Save writes the trace as TOML, creating parent directories
func (tr *Trace) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create trace directory: %w", err)
	}
	data, err := toml.Marshal(tr)
	if err != nil {
		return fmt.Errorf("failed to marshal trace: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write trace: %w", err)
	}
	return nil
}

// ErrEmpty is returned for a trace without events
var ErrEmpty = errors.New("trace has no events")

// Validate checks every event and the time ordering
func (tr *Trace) Validate() error {
	if len(tr.Events) == 0 {
		return ErrEmpty
	}
	if tr.Topology != "" {
		if _, err := domain.ParseTopology(tr.Topology); err != nil {
			return fmt.Errorf("trace topology: %w", err)
		}
	}
	var last int64
	for i, ev := range tr.Events {
		if err := ev.validate(); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
		if ev.AtMs < last {
			return fmt.Errorf("event %d: at_ms %d is before the previous event (%d)", i, ev.AtMs, last)
		}
		last = ev.AtMs
	}
	return nil
}

func (ev Event) validate() error {
	if ev.AtMs < 0 {
		return fmt.Errorf("negative at_ms %d", ev.AtMs)
	}
	switch ev.Kind {
	case KindGeometry:
		return finite(ev.Header, ev.Sticky, ev.FixedTop)
	case KindScroll:
		return finite(ev.Offset, ev.Content, ev.Viewport)
	case KindDrag:
		if _, err := domain.ParseDragPhase(ev.Phase); err != nil {
			return err
		}
		return finite(ev.Translation)
	case KindTick:
		return nil
	case "":
		return errors.New("missing kind")
	}
	return fmt.Errorf("unknown kind %q", ev.Kind)
}

func finite(vs ...float64) error {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("non-finite value %v", v)
		}
	}
	return nil
}

// Append adds an event to the trace
func (tr *Trace) Append(ev Event) {
	tr.Events = append(tr.Events, ev)
}

// GeometryEvent records a geometry update
func GeometryEvent(atMs int64, g domain.HeaderGeometry) Event {
	return Event{Kind: KindGeometry, AtMs: atMs, Header: g.HeaderExtent, Sticky: g.StickyExtent, FixedTop: g.FixedTopExtent}
}

// ScrollEvent records a scroll sample
func ScrollEvent(atMs int64, s domain.ScrollSample) Event {
	return Event{Kind: KindScroll, AtMs: atMs, Offset: s.OffsetY, Content: s.ContentExtent, Viewport: s.ViewportExtent}
}

// DragEvent records a drag sample
func DragEvent(atMs int64, s domain.DragSample) Event {
	return Event{Kind: KindDrag, AtMs: atMs, Phase: s.Phase.String(), Translation: s.Translation}
}

// TickEvent records a frame tick
func TickEvent(atMs int64) Event {
	return Event{Kind: KindTick, AtMs: atMs}
}

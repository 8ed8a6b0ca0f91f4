package domain

import (
	"fmt"
	"math"
	"time"
)

// ScrollSample is one frame of scroll telemetry from a scrollable container
type ScrollSample struct {
	OffsetY        float64   // content offset along the scroll axis, negative above rest
	ContentExtent  float64   // scrollable content length
	ViewportExtent float64   // visible length
	Timestamp      time.Time // when the frame was sampled
}

// MaxOffset returns the largest offset that is not an overscroll
func (s ScrollSample) MaxOffset() float64 {
	return math.Max(0, NonNegative(s.ContentExtent)-NonNegative(s.ViewportExtent))
}

// AtTopBounce reports an elastic excursion above the content origin
func (s ScrollSample) AtTopBounce() bool {
	return s.OffsetY < 0
}

// AtBottomBounce reports an elastic excursion past the end of the content
func (s ScrollSample) AtBottomBounce() bool {
	return s.OffsetY > s.MaxOffset()
}

// Bouncing reports whether the sample lies in either overscroll region
func (s ScrollSample) Bouncing() bool {
	return s.AtTopBounce() || s.AtBottomBounce()
}

// DragPhase identifies where a sample sits in a gesture
type DragPhase int

const (
	DragBegan DragPhase = iota
	DragChanged
	DragEnded
	DragCancelled
)

func (p DragPhase) String() string {
	switch p {
	case DragBegan:
		return "began"
	case DragChanged:
		return "changed"
	case DragEnded:
		return "ended"
	case DragCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("DragPhase(%d)", int(p))
	}
}

// ParseDragPhase converts a phase name back into a DragPhase
func ParseDragPhase(s string) (DragPhase, error) {
	switch s {
	case "began", "begin", "start":
		return DragBegan, nil
	case "changed", "change", "move":
		return DragChanged, nil
	case "ended", "end":
		return DragEnded, nil
	case "cancelled", "canceled", "cancel":
		return DragCancelled, nil
	}
	return DragBegan, fmt.Errorf("unknown drag phase %q", s)
}

// DragSample is a snapshot of an in-progress pointer gesture.
// Translation is cumulative from gesture start. Positive values point along the
// collapse axis: a finger moving up pushes content up and collapses the header.
type DragSample struct {
	Phase       DragPhase
	Translation float64
	Timestamp   time.Time
}

// HeaderGeometry holds the measured lengths of the header segments
type HeaderGeometry struct {
	HeaderExtent   float64 // collapsible segment
	StickyExtent   float64 // trailing segment that never collapses
	FixedTopExtent float64 // leading segment that never collapses
}

// Sanitized returns a copy with negative or non-finite extents replaced by 0
func (g HeaderGeometry) Sanitized() HeaderGeometry {
	return HeaderGeometry{
		HeaderExtent:   NonNegative(g.HeaderExtent),
		StickyExtent:   NonNegative(g.StickyExtent),
		FixedTopExtent: NonNegative(g.FixedTopExtent),
	}
}

// Measured reports whether the collapsible segment has a usable length
func (g HeaderGeometry) Measured() bool {
	return NonNegative(g.HeaderExtent) > 0
}

// CollapseDistance is how far the content must scroll before a fully
// collapsed header leaves no gap above the list
func (g HeaderGeometry) CollapseDistance() float64 {
	g = g.Sanitized()
	return g.FixedTopExtent + g.HeaderExtent
}

// VisibleExtent returns the on-screen length of all header segments for a given offset
func (g HeaderGeometry) VisibleExtent(offset float64) float64 {
	g = g.Sanitized()
	return g.FixedTopExtent + (g.HeaderExtent - Clamp(offset, 0, g.HeaderExtent)) + g.StickyExtent
}

// Direction is the tri-state scroll direction signal
type Direction int

const (
	DirectionIdle Direction = iota
	DirectionUp
	DirectionDown
)

func (d Direction) String() string {
	switch d {
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	default:
		return "idle"
	}
}

// Phase is the header coordinator's gesture state
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDragging
	PhaseSettling
)

func (p Phase) String() string {
	switch p {
	case PhaseDragging:
		return "dragging"
	case PhaseSettling:
		return "settling"
	default:
		return "idle"
	}
}

// Topology names one of the supported header arrangements
type Topology string

const (
	TopologySingle   Topology = "single"    // header only
	TopologySticky   Topology = "sticky"    // header + sticky trailing segment
	TopologyFixedTop Topology = "fixed-top" // fixed leading segment + collapsible header
)

// Topologies lists every arrangement in cycling order
var Topologies = []Topology{TopologySingle, TopologySticky, TopologyFixedTop}

// ParseTopology validates a topology name
func ParseTopology(s string) (Topology, error) {
	for _, t := range Topologies {
		if string(t) == s {
			return t, nil
		}
	}
	return TopologySingle, fmt.Errorf("unknown topology %q", s)
}

// Next returns the following topology in cycling order
func (t Topology) Next() Topology {
	for i, candidate := range Topologies {
		if candidate == t {
			return Topologies[(i+1)%len(Topologies)]
		}
	}
	return TopologySingle
}

// NonNegative maps NaN, infinities and negative values to 0
func NonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// Clamp bounds v to [lo, hi]; NaN collapses to lo
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

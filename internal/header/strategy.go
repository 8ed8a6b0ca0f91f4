package header

import (
	"fmt"

	"collapsehead/internal/domain"
)

// SettleInput is everything a strategy may look at when a gesture ends
type SettleInput struct {
	Offset       float64 // headerOffset at gesture end
	Geometry     domain.HeaderGeometry
	ScrollOffset float64 // last known content offset
	Translation  float64 // raw cumulative translation of the terminal sample
}

// SettleStrategy picks the resting offset, either 0 or the header extent
type SettleStrategy interface {
	Name() string
	Target(in SettleInput) float64
}

// PositionStrategy collapses only when the header is mostly collapsed and the
// content has scrolled far enough that a collapsed header leaves no gap.
type PositionStrategy struct {
	CollapseFraction float64
}

func (PositionStrategy) Name() string { return "position" }

func (s PositionStrategy) Target(in SettleInput) float64 {
	extent := domain.NonNegative(in.Geometry.HeaderExtent)
	if extent == 0 {
		return 0
	}
	if in.Offset > extent*s.CollapseFraction && in.ScrollOffset > in.Geometry.CollapseDistance() {
		return extent
	}
	return 0
}

// DirectionStrategy follows the direction of the terminal drag. A drag toward
// collapse collapses unless the header is still nearly open; a drag toward
// expand expands unless the header is already nearly closed.
type DirectionStrategy struct {
	ExpandBelow   float64
	CollapseAbove float64
}

func (DirectionStrategy) Name() string { return "direction" }

func (s DirectionStrategy) Target(in SettleInput) float64 {
	extent := domain.NonNegative(in.Geometry.HeaderExtent)
	if extent == 0 {
		return 0
	}
	if in.Translation > 0 {
		if in.Offset < extent*s.ExpandBelow {
			return 0
		}
		return extent
	}
	if in.Offset > extent*s.CollapseAbove {
		return extent
	}
	return 0
}

// Thresholds carries the tunable fractions for both strategies
type Thresholds struct {
	CollapseFraction float64 // position: collapse above this fraction of the extent
	ExpandBelow      float64 // direction: still-open cutoff for collapse drags
	CollapseAbove    float64 // direction: already-closed cutoff for expand drags
}

// DefaultThresholds are the empirically tuned values from the reference screens
func DefaultThresholds() Thresholds {
	return Thresholds{
		CollapseFraction: 0.5,
		ExpandBelow:      0.1,
		CollapseAbove:    0.9,
	}
}

// NewStrategy builds a strategy by name
func NewStrategy(name string, th Thresholds) (SettleStrategy, error) {
	switch name {
	case "position":
		return PositionStrategy{CollapseFraction: th.CollapseFraction}, nil
	case "direction":
		return DirectionStrategy{ExpandBelow: th.ExpandBelow, CollapseAbove: th.CollapseAbove}, nil
	}
	return nil, fmt.Errorf("unknown settle strategy %q", name)
}

// StrategyFor returns the default strategy for a header topology.
// A fixed top header settles by direction, the others by position.
func StrategyFor(topology domain.Topology, th Thresholds) SettleStrategy {
	if topology == domain.TopologyFixedTop {
		return DirectionStrategy{ExpandBelow: th.ExpandBelow, CollapseAbove: th.CollapseAbove}
	}
	return PositionStrategy{CollapseFraction: th.CollapseFraction}
}

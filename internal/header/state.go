package header

import (
	"math"

	"collapsehead/internal/domain"
)

// State is the coordinator's reducer state
type State struct {
	HeaderOffset               float64 // 0 (expanded) ..= HeaderExtent (collapsed)
	DragBaseline               float64 // HeaderOffset captured at gesture start
	LastAppliedDragTranslation float64 // last dead-zoned translation folded into HeaderOffset
	LastKnownScrollOffset      float64
}

// DeadZone removes the first d units of travel from a cumulative translation,
// keeping its sign
func DeadZone(translation, d float64) float64 {
	if math.IsNaN(translation) {
		return 0
	}
	d = domain.NonNegative(d)
	m := math.Max(0, math.Abs(translation)-d)
	if translation < 0 {
		return -m
	}
	return m
}

// ApplyDrag folds one cumulative translation into the state. It returns the
// new state and the delta that was added before clamping.
func ApplyDrag(st State, extent, deadZone, translation float64, round bool) (State, float64) {
	effective := DeadZone(translation, deadZone)
	delta := effective - st.LastAppliedDragTranslation
	if round {
		delta = math.Round(delta)
	}
	st.LastAppliedDragTranslation = effective
	st.HeaderOffset = domain.Clamp(st.HeaderOffset+delta, 0, domain.NonNegative(extent))
	return st, delta
}

// ResetDrag clears the per-gesture fields so the next gesture starts clean
func ResetDrag(st State) State {
	st.DragBaseline = 0
	st.LastAppliedDragTranslation = 0
	return st
}

// NeedsScrollSnap reports whether a scroll sample should pull a partially
// collapsed header back open: the content is at or above its origin and the
// header is not fully expanded.
func NeedsScrollSnap(st State, s domain.ScrollSample) bool {
	return s.OffsetY <= 0 && st.HeaderOffset > 0
}

package trace

import (
	"fmt"
	"time"

	"collapsehead/internal/direction"
	"collapsehead/internal/domain"
	"collapsehead/internal/eventbus"
	"collapsehead/internal/header"
)

// Epoch is the wall time at_ms 0 maps to during replay
var Epoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Step is the observable state after one replayed event
type Step struct {
	Index     int
	AtMs      int64
	Kind      string
	Offset    float64
	Presented float64
	Phase     domain.Phase
	Direction domain.Direction
}

func (s Step) String() string {
	return fmt.Sprintf("%6d %-8s %8.2f %8.2f %-8s %s", s.AtMs, s.Kind, s.Offset, s.Presented, s.Phase, s.Direction)
}

// Replayer feeds trace events through a coordinator and detector
type Replayer struct {
	Coordinator *header.Coordinator
	Detector    *direction.Detector
}

// NewReplayer builds both reducers on a shared bus. bus may be nil.
func NewReplayer(hcfg header.Config, dcfg direction.Config, bus eventbus.EventBus) *Replayer {
	coord := header.New(hcfg, bus)
	det := direction.New(dcfg, bus)
	coord.SetClock(func() time.Time { return Epoch })
	det.SetClock(func() time.Time { return Epoch })
	return &Replayer{Coordinator: coord, Detector: det}
}

// Apply feeds one event and reports the resulting state
func (r *Replayer) Apply(i int, ev Event) (Step, error) {
	at := Epoch.Add(time.Duration(ev.AtMs) * time.Millisecond)
	switch ev.Kind {
	case KindGeometry:
		r.Coordinator.SetGeometry(domain.HeaderGeometry{
			HeaderExtent:   ev.Header,
			StickyExtent:   ev.Sticky,
			FixedTopExtent: ev.FixedTop,
		})
	case KindScroll:
		s := domain.ScrollSample{
			OffsetY:        ev.Offset,
			ContentExtent:  ev.Content,
			ViewportExtent: ev.Viewport,
			Timestamp:      at,
		}
		r.Coordinator.OnScrollUpdate(s)
		r.Detector.OnScrollUpdate(s)
	case KindDrag:
		phase, err := domain.ParseDragPhase(ev.Phase)
		if err != nil {
			return Step{}, fmt.Errorf("event %d: %w", i, err)
		}
		r.Coordinator.HandleDrag(domain.DragSample{Phase: phase, Translation: ev.Translation, Timestamp: at})
	case KindTick:
		r.Coordinator.Tick(at)
		r.Detector.Poll(at)
	default:
		return Step{}, fmt.Errorf("event %d: unknown kind %q", i, ev.Kind)
	}
	return Step{
		Index:     i,
		AtMs:      ev.AtMs,
		Kind:      ev.Kind,
		Offset:    r.Coordinator.Offset(),
		Presented: r.Coordinator.Presented(),
		Phase:     r.Coordinator.Phase(),
		Direction: r.Detector.Direction(),
	}, nil
}

// Replay validates the trace and feeds every event in order
func Replay(tr *Trace, hcfg header.Config, dcfg direction.Config, bus eventbus.EventBus) ([]Step, error) {
	if err := tr.Validate(); err != nil {
		return nil, err
	}
	r := NewReplayer(hcfg, dcfg, bus)
	steps := make([]Step, 0, len(tr.Events))
	for i, ev := range tr.Events {
		step, err := r.Apply(i, ev)
		if err != nil {
			return steps, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

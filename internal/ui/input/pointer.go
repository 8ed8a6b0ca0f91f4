package input

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"collapsehead/internal/domain"
	"collapsehead/internal/ui/input/types"
)

// velocityWindow bounds the motion samples used for the release velocity
const velocityWindow = 100 * time.Millisecond

type pointerSample struct {
	translation float64
	at          time.Time
}

// Pointer turns mouse presses, motion and releases into drag gestures and
// wheel events into wheel notches. Rows are converted to scroll units with
// the context's row scale; moving the pointer up is a positive translation.
type Pointer struct {
	pressed bool
	startY  int
	last    float64
	samples []pointerSample
}

// Pressed reports whether a drag is in progress
func (p *Pointer) Pressed() bool { return p.pressed }

// Handle translates one mouse message
func (p *Pointer) Handle(msg tea.MouseMsg, ctx types.Context, now time.Time) []types.Action {
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		return []types.Action{types.WheelAction{Notches: -1}}
	case msg.Button == tea.MouseButtonWheelDown:
		return []types.Action{types.WheelAction{Notches: 1}}
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || p.pressed {
			return nil
		}
		p.pressed = true
		p.startY = msg.Y
		p.last = 0
		p.samples = append(p.samples[:0], pointerSample{at: now})
		return []types.Action{types.DragAction{Phase: domain.DragBegan}}

	case tea.MouseActionMotion:
		if !p.pressed {
			return nil
		}
		t := float64(p.startY-msg.Y) * ctx.RowUnits()
		if t == p.last {
			return nil
		}
		p.last = t
		p.record(t, now)
		return []types.Action{types.DragAction{Phase: domain.DragChanged, Translation: t}}

	case tea.MouseActionRelease:
		if !p.pressed {
			return nil
		}
		t := float64(p.startY-msg.Y) * ctx.RowUnits()
		p.record(t, now)
		v := p.velocity()
		p.pressed = false
		p.samples = p.samples[:0]
		return []types.Action{types.DragAction{Phase: domain.DragEnded, Translation: t, Velocity: v}}
	}
	return nil
}

// Cancel abandons a drag in progress, e.g. when the window loses the pointer
func (p *Pointer) Cancel() []types.Action {
	if !p.pressed {
		return nil
	}
	p.pressed = false
	p.samples = p.samples[:0]
	return []types.Action{types.DragAction{Phase: domain.DragCancelled, Translation: p.last}}
}

func (p *Pointer) record(t float64, now time.Time) {
	p.samples = append(p.samples, pointerSample{translation: t, at: now})
	cut := 0
	for cut < len(p.samples)-2 && now.Sub(p.samples[cut].at) > velocityWindow {
		cut++
	}
	p.samples = p.samples[cut:]
}

// velocity is the translation rate over the recent window, units per second
func (p *Pointer) velocity() float64 {
	if len(p.samples) < 2 {
		return 0
	}
	first, last := p.samples[0], p.samples[len(p.samples)-1]
	dt := last.at.Sub(first.at).Seconds()
	if dt <= 0 {
		return 0
	}
	return (last.translation - first.translation) / dt
}

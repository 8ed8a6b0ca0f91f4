package input

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"collapsehead/internal/ui/input/modes"
	"collapsehead/internal/ui/input/types"
)

type Handler struct {
	currentMode types.Mode
	modes       map[types.Mode]types.ModeHandler
	keys        types.KeyMap
	pointer     Pointer
}

func New() *Handler {
	keys := types.DefaultKeyMap()
	h := &Handler{
		currentMode: types.ModeNormal,
		keys:        keys,
		modes:       make(map[types.Mode]types.ModeHandler),
	}

	h.modes[types.ModeNormal] = modes.NewNormalMode(keys)
	h.modes[types.ModeDrag] = modes.NewDragMode(keys)

	return h
}

// HandleKey routes a key to the current mode and applies mode changes.
// Actions produced by entering or leaving a mode are placed where the mode
// change occurred.
func (h *Handler) HandleKey(msg tea.KeyMsg, ctx types.Context) []types.Action {
	handler := h.modes[h.currentMode]
	if handler == nil {
		return nil
	}

	actions, consumed := handler.HandleKey(msg, ctx)
	if !consumed {
		return nil
	}
	return h.applyModeChanges(actions, ctx)
}

// HandleMouse translates wheel and pointer drags. A pointer press is ignored
// while a keyboard drag holds the content.
func (h *Handler) HandleMouse(msg tea.MouseMsg, ctx types.Context, now time.Time) []types.Action {
	if h.currentMode == types.ModeDrag && !h.pointer.Pressed() && msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		return nil
	}
	return h.pointer.Handle(msg, ctx, now)
}

// CancelGesture lifts any finger on the content and returns to normal mode
func (h *Handler) CancelGesture(ctx types.Context) []types.Action {
	if actions := h.pointer.Cancel(); len(actions) > 0 {
		return actions
	}
	if h.currentMode == types.ModeDrag {
		return h.HandleKey(tea.KeyMsg{Type: tea.KeyEsc}, ctx)
	}
	return nil
}

func (h *Handler) applyModeChanges(actions []types.Action, ctx types.Context) []types.Action {
	var all []types.Action
	for _, action := range actions {
		changeMode, ok := action.(types.ChangeModeAction)
		if !ok {
			all = append(all, action)
			continue
		}
		if changeMode.Mode == h.currentMode {
			continue
		}
		if m := h.modes[h.currentMode]; m != nil {
			all = append(all, m.Exit(ctx)...)
		}
		h.currentMode = changeMode.Mode
		if m := h.modes[h.currentMode]; m != nil {
			all = append(all, m.Enter(ctx)...)
		}
	}
	return all
}

// CurrentMode returns the active input mode
func (h *Handler) CurrentMode() types.Mode {
	return h.currentMode
}

// Keys returns the bindings, e.g. for the help bar
func (h *Handler) Keys() types.KeyMap {
	return h.keys
}

// Dragging reports whether a keyboard or pointer gesture is in progress
func (h *Handler) Dragging() bool {
	return h.currentMode == types.ModeDrag || h.pointer.Pressed()
}

func (h *Handler) Reset() {
	h.currentMode = types.ModeNormal
	h.pointer = Pointer{}
}

package modes

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"collapsehead/internal/domain"
	"collapsehead/internal/ui/input/types"
)

// DragMode simulates a finger held on the content. Each K/J press moves the
// finger one row; release or cancel lifts it.
type DragMode struct {
	keys types.KeyMap
}

func NewDragMode(keys types.KeyMap) *DragMode {
	return &DragMode{keys: keys}
}

func (m *DragMode) Name() string {
	return "drag"
}

func (m *DragMode) Enter(ctx types.Context) []types.Action {
	return []types.Action{types.DragAction{Phase: domain.DragBegan}}
}

func (m *DragMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *DragMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch {
	case key.Matches(msg, m.keys.ForceQuit):
		return []types.Action{types.QuitAction{Force: true}}, true
	case key.Matches(msg, m.keys.DragUp):
		return []types.Action{types.DragAction{Phase: domain.DragChanged, Translation: ctx.Translation() + ctx.RowUnits()}}, true
	case key.Matches(msg, m.keys.DragDown):
		return []types.Action{types.DragAction{Phase: domain.DragChanged, Translation: ctx.Translation() - ctx.RowUnits()}}, true
	case key.Matches(msg, m.keys.Release):
		return []types.Action{
			types.DragAction{Phase: domain.DragEnded, Translation: ctx.Translation()},
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true
	case key.Matches(msg, m.keys.Cancel):
		return []types.Action{
			types.DragAction{Phase: domain.DragCancelled, Translation: ctx.Translation()},
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true
	}
	// the finger stays down; other keys do nothing
	return nil, true
}

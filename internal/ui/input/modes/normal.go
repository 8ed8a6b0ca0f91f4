package modes

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"collapsehead/internal/domain"
	"collapsehead/internal/ui/input/types"
)

// pageNotches is how many wheel notches a page key stands for
const pageNotches = 10

type NormalMode struct {
	keys types.KeyMap
}

func NewNormalMode(keys types.KeyMap) *NormalMode {
	return &NormalMode{keys: keys}
}

func (m *NormalMode) Name() string {
	return "normal"
}

func (m *NormalMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	if ctx.HelpVisible() {
		// help swallows everything except the keys that close it
		switch {
		case key.Matches(msg, m.keys.ForceQuit):
			return []types.Action{types.QuitAction{Force: true}}, true
		case key.Matches(msg, m.keys.Help, m.keys.Cancel, m.keys.Quit):
			return []types.Action{types.ToggleHelpAction{}}, true
		}
		return nil, true
	}

	switch {
	case key.Matches(msg, m.keys.ForceQuit):
		return []types.Action{types.QuitAction{Force: true}}, true
	case key.Matches(msg, m.keys.Quit):
		return []types.Action{types.QuitAction{}}, true

	case key.Matches(msg, m.keys.Up):
		return []types.Action{types.WheelAction{Notches: -1}}, true
	case key.Matches(msg, m.keys.Down):
		return []types.Action{types.WheelAction{Notches: 1}}, true
	case key.Matches(msg, m.keys.PageUp):
		return []types.Action{types.WheelAction{Notches: -pageNotches}}, true
	case key.Matches(msg, m.keys.PageDown):
		return []types.Action{types.WheelAction{Notches: pageNotches}}, true
	case key.Matches(msg, m.keys.Top):
		return []types.Action{types.JumpAction{}}, true
	case key.Matches(msg, m.keys.Bottom):
		return []types.Action{types.JumpAction{ToEnd: true}}, true

	case key.Matches(msg, m.keys.DragUp):
		// the first press puts the finger down, then moves it one row
		return []types.Action{
			types.ChangeModeAction{Mode: types.ModeDrag},
			types.DragAction{Phase: domain.DragChanged, Translation: ctx.RowUnits()},
		}, true
	case key.Matches(msg, m.keys.DragDown):
		return []types.Action{
			types.ChangeModeAction{Mode: types.ModeDrag},
			types.DragAction{Phase: domain.DragChanged, Translation: -ctx.RowUnits()},
		}, true

	case key.Matches(msg, m.keys.Topology):
		return []types.Action{types.CycleTopologyAction{}}, true
	case key.Matches(msg, m.keys.Debug):
		return []types.Action{types.ToggleDebugAction{}}, true
	case key.Matches(msg, m.keys.Trace):
		return []types.Action{types.OpenTraceAction{}}, true
	case key.Matches(msg, m.keys.SaveTrace):
		return []types.Action{types.SaveTraceAction{}}, true
	case key.Matches(msg, m.keys.SaveConfig):
		return []types.Action{types.SaveConfigAction{}}, true
	case key.Matches(msg, m.keys.Reset):
		return []types.Action{types.ResetAction{}}, true
	case key.Matches(msg, m.keys.Help):
		return []types.Action{types.ToggleHelpAction{}}, true
	}
	return nil, false
}

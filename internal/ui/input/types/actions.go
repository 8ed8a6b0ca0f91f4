package types

import "collapsehead/internal/domain"

// Scrolling actions
type WheelAction struct {
	Notches int // positive scrolls toward the end of the content
}

func (a WheelAction) Type() string { return "wheel" }

type JumpAction struct {
	ToEnd bool
}

func (a JumpAction) Type() string { return "jump" }

// DragAction reports one sample of a finger gesture. Translation is
// cumulative since the gesture began, positive when the finger moves up.
type DragAction struct {
	Phase       domain.DragPhase
	Translation float64
	// Velocity is the release speed in units per second, set on DragEnded
	Velocity float64
}

func (a DragAction) Type() string { return "drag" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Demo actions
type CycleTopologyAction struct{}

func (a CycleTopologyAction) Type() string { return "cycle_topology" }

type ToggleDebugAction struct{}

func (a ToggleDebugAction) Type() string { return "toggle_debug" }

type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }

type OpenTraceAction struct{}

func (a OpenTraceAction) Type() string { return "open_trace" }

type SaveTraceAction struct{}

func (a SaveTraceAction) Type() string { return "save_trace" }

type SaveConfigAction struct{}

func (a SaveConfigAction) Type() string { return "save_config" }

type ResetAction struct{}

func (a ResetAction) Type() string { return "reset" }

type QuitAction struct {
	Force bool // true for Ctrl+C, false for 'q'
}

func (a QuitAction) Type() string { return "quit" }

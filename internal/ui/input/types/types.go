package types

import tea "github.com/charmbracelet/bubbletea"

// Mode represents an input mode
type Mode int

const (
	ModeNormal Mode = iota
	// ModeDrag is active while a keyboard-simulated finger holds the content
	ModeDrag
)

func (m Mode) String() string {
	switch m {
	case ModeDrag:
		return "drag"
	default:
		return "normal"
	}
}

// Action represents a command the model should execute
type Action interface {
	Type() string
}

// Context provides read-only access to model state needed for input handling
type Context interface {
	// RowUnits is the number of scroll units one terminal row stands for
	RowUnits() float64
	// Translation is the cumulative translation of the gesture in progress
	Translation() float64
	HelpVisible() bool
}

// ModeHandler handles input for a specific mode
type ModeHandler interface {
	// HandleKey processes a key message and returns actions and whether to consume the event
	HandleKey(msg tea.KeyMsg, ctx Context) ([]Action, bool)

	// Enter is called when entering this mode
	Enter(ctx Context) []Action

	// Exit is called when leaving this mode
	Exit(ctx Context) []Action

	// Name returns the mode name for display
	Name() string
}

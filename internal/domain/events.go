package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventOffsetChanged    EventType = "OffsetChanged"
	EventPhaseChanged     EventType = "PhaseChanged"
	EventSettled          EventType = "Settled"
	EventDirectionChanged EventType = "DirectionChanged"
	EventGeometryChanged  EventType = "GeometryChanged"
	EventInputIgnored     EventType = "InputIgnored"
	EventConfigLoaded     EventType = "ConfigLoaded"
	EventConfigSaved      EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// Curve names how a new offset should be presented
type Curve string

const (
	CurveNone        Curve = "none"        // jump
	CurveInteractive Curve = "interactive" // low-latency spring tracking a finger
	CurveEaseInOut   Curve = "ease-in-out" // timed settle
)

// OffsetChangedEvent is emitted whenever the header offset model value moves
type OffsetChangedEvent struct {
	Previous float64
	Offset   float64
	Curve    Curve
	Cause    string // "drag", "settle", "scroll-snap", "geometry", "interrupt"
}

func (e OffsetChangedEvent) Type() EventType { return EventOffsetChanged }

// PhaseChangedEvent is emitted on Idle/Dragging/Settling transitions
type PhaseChangedEvent struct {
	From Phase
	To   Phase
}

func (e PhaseChangedEvent) Type() EventType { return EventPhaseChanged }

// SettledEvent is emitted when a settle animation reaches its target
type SettledEvent struct {
	Target   float64
	Strategy string
}

func (e SettledEvent) Type() EventType { return EventSettled }

// DirectionChangedEvent is emitted when the reported scroll direction changes
type DirectionChangedEvent struct {
	Previous  Direction
	Direction Direction
	Offset    float64
	Bouncing  bool
}

func (e DirectionChangedEvent) Type() EventType { return EventDirectionChanged }

// GeometryChangedEvent is emitted when measured header geometry is pushed in
type GeometryChangedEvent struct {
	Geometry  HeaderGeometry
	Sanitized bool // true when some input extent was replaced by 0
}

func (e GeometryChangedEvent) Type() EventType { return EventGeometryChanged }

// InputIgnoredEvent is emitted when a degenerate input is absorbed as a no-op
type InputIgnoredEvent struct {
	Source string
	Reason string
}

func (e InputIgnoredEvent) Type() EventType { return EventInputIgnored }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }

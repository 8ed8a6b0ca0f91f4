package ui

import (
	"time"
)

// frameMsg drives the animation loop. Frames from an older generation are
// dropped so at most one loop runs at a time.
type frameMsg struct {
	gen int
	at  time.Time
}

// pagerMsg reports that the event log pager has closed
type pagerMsg struct {
	err error
}

// clearStatusMsg clears the status message it was scheduled for
type clearStatusMsg struct {
	gen int
}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}

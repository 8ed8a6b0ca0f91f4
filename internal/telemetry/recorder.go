package telemetry

import (
	"strings"
	"sync"
)

// Recorder keeps the most recent trace lines in a fixed-size ring
type Recorder struct {
	mu    sync.Mutex
	lines []string
	next  int
	full  bool
	total int
}

// NewRecorder creates a recorder holding up to capacity lines
func NewRecorder(capacity int) *Recorder {
	if capacity < 1 {
		capacity = 1
	}
	return &Recorder{lines: make([]string, capacity)}
}

// Add appends a line, evicting the oldest when full
func (r *Recorder) Add(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines[r.next] = line
	r.next = (r.next + 1) % len(r.lines)
	if r.next == 0 {
		r.full = true
	}
	r.total++
}

// Lines returns the retained lines, oldest first
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.full {
		return append([]string(nil), r.lines[:r.next]...)
	}
	out := make([]string, 0, len(r.lines))
	out = append(out, r.lines[r.next:]...)
	return append(out, r.lines[:r.next]...)
}

// Total counts every line ever added, including evicted ones
func (r *Recorder) Total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.total
}

// String joins the retained lines with newlines
func (r *Recorder) String() string {
	lines := r.Lines()
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// Reset drops all retained lines
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.lines {
		r.lines[i] = ""
	}
	r.next = 0
	r.full = false
	r.total = 0
}

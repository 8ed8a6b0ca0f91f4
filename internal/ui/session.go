package ui

import (
	"time"

	"collapsehead/internal/domain"
	"collapsehead/internal/trace"
)

// maxSessionEvents bounds the in-memory session trace
const maxSessionEvents = 50000

// session records what the demo fed to the coordinator and detector so the
// run can be saved and replayed headlessly
type session struct {
	tr    trace.Trace
	start time.Time
	full  bool
}

func newSession(topology domain.Topology, start time.Time) *session {
	s := &session{start: start}
	s.tr.Name = "demo session " + start.Format(time.RFC3339)
	s.tr.Topology = string(topology)
	return s
}

func (s *session) at(now time.Time) int64 {
	ms := now.Sub(s.start).Milliseconds()
	if ms < 0 {
		return 0
	}
	// replay requires non-decreasing times
	if n := len(s.tr.Events); n > 0 && ms < s.tr.Events[n-1].AtMs {
		return s.tr.Events[n-1].AtMs
	}
	return ms
}

func (s *session) add(ev trace.Event) {
	if len(s.tr.Events) >= maxSessionEvents {
		s.full = true
		return
	}
	s.tr.Append(ev)
}

func (s *session) geometry(now time.Time, g domain.HeaderGeometry) {
	s.add(trace.GeometryEvent(s.at(now), g))
}

func (s *session) scroll(sample domain.ScrollSample) {
	s.add(trace.ScrollEvent(s.at(sample.Timestamp), sample))
}

func (s *session) drag(sample domain.DragSample) {
	s.add(trace.DragEvent(s.at(sample.Timestamp), sample))
}

func (s *session) tick(now time.Time) {
	s.add(trace.TickEvent(s.at(now)))
}

// Len returns the number of recorded events
func (s *session) Len() int {
	return len(s.tr.Events)
}

// Save writes the session as a trace file
func (s *session) Save(path string) error {
	return s.tr.Save(path)
}

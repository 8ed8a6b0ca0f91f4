// Package telemetry observes the coordinator and detector from the outside.
// It subscribes to their events, writes sampled structured logs and keeps a
// short trace for the in-app viewer.
package telemetry

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"collapsehead/internal/domain"
	"collapsehead/internal/eventbus"
)

// Options tunes the sampling of per-frame events
type Options struct {
	Burst       int           // per-frame events let through in each period
	Period      time.Duration // burst window; defaults to one second
	SampleEvery int           // after the burst, keep one in N
}

// Hooks forwards bus events to a logger and an optional recorder
type Hooks struct {
	logger   zerolog.Logger
	frames   zerolog.Logger // sampled, for events that can fire every frame
	recorder *Recorder
	now      func() time.Time
	unsubs   []func()
}

// Attach subscribes to every coordinator and detector event on the bus
func Attach(bus eventbus.EventBus, logger zerolog.Logger, recorder *Recorder, opts Options) *Hooks {
	if opts.Period <= 0 {
		opts.Period = time.Second
	}
	if opts.SampleEvery < 1 {
		opts.SampleEvery = 1
	}
	h := &Hooks{
		logger: logger,
		frames: logger.Sample(&zerolog.BurstSampler{
			Burst:       uint32(max(opts.Burst, 0)),
			Period:      opts.Period,
			NextSampler: &zerolog.BasicSampler{N: uint32(opts.SampleEvery)},
		}),
		recorder: recorder,
		now:      time.Now,
	}

	for _, et := range []eventbus.EventType{
		eventbus.EventOffsetChanged,
		eventbus.EventPhaseChanged,
		eventbus.EventSettled,
		eventbus.EventDirectionChanged,
		eventbus.EventGeometryChanged,
		eventbus.EventInputIgnored,
		eventbus.EventConfigLoaded,
		eventbus.EventConfigSaved,
	} {
		h.unsubs = append(h.unsubs, bus.Subscribe(et, h.handle))
	}
	return h
}

// Detach removes every subscription
func (h *Hooks) Detach() {
	for _, unsub := range h.unsubs {
		unsub()
	}
	h.unsubs = nil
}

func (h *Hooks) handle(e eventbus.DomainEvent) {
	if h.recorder != nil {
		h.recorder.Add(h.now().Format("15:04:05.000") + " " + Describe(e))
	}

	switch ev := e.(type) {
	case domain.OffsetChangedEvent:
		h.frames.Debug().
			Float64("from", ev.Previous).
			Float64("to", ev.Offset).
			Str("curve", string(ev.Curve)).
			Str("cause", ev.Cause).
			Msg("header offset changed")
	case domain.DirectionChangedEvent:
		h.frames.Debug().
			Stringer("from", ev.Previous).
			Stringer("to", ev.Direction).
			Float64("scroll", ev.Offset).
			Bool("bouncing", ev.Bouncing).
			Msg("scroll direction changed")
	case domain.PhaseChangedEvent:
		h.logger.Debug().Stringer("from", ev.From).Stringer("to", ev.To).Msg("gesture phase")
	case domain.SettledEvent:
		h.logger.Info().Float64("target", ev.Target).Str("strategy", ev.Strategy).Msg("header settled")
	case domain.GeometryChangedEvent:
		evt := h.logger.Info()
		if ev.Sanitized {
			evt = h.logger.Warn()
		}
		evt.Float64("header", ev.Geometry.HeaderExtent).
			Float64("sticky", ev.Geometry.StickyExtent).
			Float64("fixed_top", ev.Geometry.FixedTopExtent).
			Bool("sanitized", ev.Sanitized).
			Msg("header geometry")
	case domain.InputIgnoredEvent:
		h.logger.Warn().Str("source", ev.Source).Str("reason", ev.Reason).Msg("input ignored")
	case domain.ConfigLoadedEvent:
		h.logger.Info().Str("path", ev.Path).Msg("config loaded")
	case domain.ConfigSavedEvent:
		h.logger.Info().Str("path", ev.Path).Msg("config saved")
	}
}

// Describe renders an event as one short trace line
func Describe(e eventbus.DomainEvent) string {
	switch ev := e.(type) {
	case domain.OffsetChangedEvent:
		return fmt.Sprintf("offset %-11s %6.1f -> %6.1f (%s)", ev.Cause, ev.Previous, ev.Offset, ev.Curve)
	case domain.DirectionChangedEvent:
		suffix := ""
		if ev.Bouncing {
			suffix = " bouncing"
		}
		return fmt.Sprintf("direction   %s -> %s at %.1f%s", ev.Previous, ev.Direction, ev.Offset, suffix)
	case domain.PhaseChangedEvent:
		return fmt.Sprintf("phase       %s -> %s", ev.From, ev.To)
	case domain.SettledEvent:
		return fmt.Sprintf("settled     %.1f by %s", ev.Target, ev.Strategy)
	case domain.GeometryChangedEvent:
		g := ev.Geometry
		return fmt.Sprintf("geometry    header=%.1f sticky=%.1f fixed=%.1f", g.HeaderExtent, g.StickyExtent, g.FixedTopExtent)
	case domain.InputIgnoredEvent:
		return fmt.Sprintf("ignored     %s: %s", ev.Source, ev.Reason)
	case domain.ConfigLoadedEvent:
		return "config      loaded " + ev.Path
	case domain.ConfigSavedEvent:
		return "config      saved " + ev.Path
	case nil:
		return "<nil>"
	}
	return string(e.Type())
}

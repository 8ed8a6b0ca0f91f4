package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"collapsehead/internal/direction"
	"collapsehead/internal/domain"
	"collapsehead/internal/eventbus"
	"collapsehead/internal/header"
	"collapsehead/internal/telemetry"
	"collapsehead/internal/trace"
)

func newReplayCmd() *cobra.Command {
	var showEvents bool

	cmd := &cobra.Command{
		Use:   "replay <trace.toml>",
		Short: "Feed a recorded trace through the header coordinator and direction detector",
		Long: `Replay a trace file headlessly and print the state after every event:

  at_ms kind offset presented phase direction

The topology comes from --topology, then from the trace, then from the
config. Use --events to interleave the notifications each event produced.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			tr, err := trace.Load(args[0])
			if err != nil {
				return fmt.Errorf("failed to load trace: %w", err)
			}

			t, err := replayTopology(cmd, tr, e.cfg.Topology())
			if err != nil {
				return err
			}
			e.logger.Debug().Str("trace", args[0]).Str("topology", string(t)).Int("events", len(tr.Events)).Msg("replaying")

			return replay(cmd.OutOrStdout(), tr, e.cfg.HeaderConfig(t), e.cfg.DetectorConfig(), showEvents)
		},
	}

	cmd.Flags().BoolVar(&showEvents, "events", false, "Print coordinator and detector notifications")
	return cmd
}

func replayTopology(cmd *cobra.Command, tr *trace.Trace, configured domain.Topology) (domain.Topology, error) {
	if cmd.Flags().Changed("topology") || tr.Topology == "" {
		return configured, nil
	}
	t, err := domain.ParseTopology(tr.Topology)
	if err != nil {
		return "", fmt.Errorf("trace topology: %w", err)
	}
	return t, nil
}

func replay(out io.Writer, tr *trace.Trace, hcfg header.Config, dcfg direction.Config, showEvents bool) error {
	var bus eventbus.EventBus
	var pending []string
	if showEvents {
		bus = eventbus.New()
		for _, et := range []eventbus.EventType{
			eventbus.EventGeometryChanged,
			eventbus.EventPhaseChanged,
			eventbus.EventOffsetChanged,
			eventbus.EventSettled,
			eventbus.EventDirectionChanged,
			eventbus.EventInputIgnored,
		} {
			bus.Subscribe(et, func(ev eventbus.DomainEvent) {
				pending = append(pending, telemetry.Describe(ev))
			})
		}
	}

	if tr.Name != "" {
		fmt.Fprintf(out, "# %s\n", tr.Name)
	}
	r := trace.NewReplayer(hcfg, dcfg, bus)
	for i, ev := range tr.Events {
		step, err := r.Apply(i, ev)
		if err != nil {
			return fmt.Errorf("replay failed: %w", err)
		}
		fmt.Fprintln(out, step.String())
		for _, line := range pending {
			fmt.Fprintf(out, "       · %s\n", line)
		}
		pending = pending[:0]
	}
	return nil
}

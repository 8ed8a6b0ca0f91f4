package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"collapsehead/internal/telemetry"
	"collapsehead/internal/ui"
)

// E2EEnv makes the demo print a ready marker once it has drawn its first frame
const E2EEnv = "COLLAPSEHEAD_E2E_TEST"

const recorderCapacity = 500

var traceDir string

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the interactive demo",
		Long: `Start the interactive demo in the alternate screen.

Press ? inside the demo for the key bindings, t to switch the header
topology and w to save the session as a trace file.`,
		Args: cobra.NoArgs,
		RunE: runDemo,
	}
	cmd.Flags().StringVar(&traceDir, "trace-dir", "", "Directory for saved session traces (default: current directory)")
	return cmd
}

func runDemo(cmd *cobra.Command, args []string) error {
	// the terminal belongs to the demo, so logs only go to the file
	e, err := loadEnv(cmd, nil)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	recorder := telemetry.NewRecorder(recorderCapacity)
	hooks := telemetry.Attach(e.bus, e.logger, recorder, telemetry.Options{
		Burst:       e.cfg.Logging.Burst,
		SampleEvery: e.cfg.Logging.SampleEvery,
	})
	defer hooks.Detach()

	model := ui.NewModel(ui.Options{
		Config:        e.cfg,
		ConfigService: e.service,
		Bus:           e.bus,
		Recorder:      recorder,
		Logger:        e.logger,
		TraceDir:      traceDir,
		Ready:         os.Getenv(E2EEnv) == "1",
	})

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	)
	model.SetProgram(p)

	e.logger.Info().Str("topology", e.cfg.Header.Topology).Msg("starting demo")
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			e.logger.Info().Msg("interrupted")
			return nil
		}
		return fmt.Errorf("demo failed: %w", err)
	}
	e.logger.Info().Msg("demo finished")
	return nil
}

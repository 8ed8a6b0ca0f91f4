// Package cli provides the command-line interface for collapsehead.
package cli

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"collapsehead/internal/config"
	"collapsehead/internal/domain"
	"collapsehead/internal/eventbus"
	"collapsehead/internal/logging"
)

var (
	// Global flags
	cfgFile  string
	topology string
	deadZone float64
	logLevel string
	logFile  string
	debug    bool
)

// Version is set by the main package at startup
var Version = "v0.1.0-dev"

// NewRootCmd creates the root command. Without a subcommand it starts the
// interactive demo.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "collapsehead",
		Short: "Collapsing header and scroll direction playground",
		Long: `collapsehead ` + Version + `

A terminal demo of a header that collapses under a scrolling list. Drag the
list with the mouse (or K/J and space) and the header follows the finger,
then settles open or collapsed. The status bar hides while the list scrolls
down and returns when it scrolls up.

Recorded sessions can be replayed headlessly with the replay command.`,
		SilenceUsage: true,
		RunE:         runDemo,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Configuration file path (default: user config dir)")
	rootCmd.PersistentFlags().StringVarP(&topology, "topology", "t", "", "Header topology: single, sticky or fixed-top (overrides config)")
	rootCmd.PersistentFlags().Float64Var(&deadZone, "dead-zone", 0, "Drag travel absorbed before the header moves (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Log file path (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Debug logging and the debug overlay on start")

	rootCmd.Version = Version

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newReplayCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// env is what every command shares once flags and config are resolved
type env struct {
	cfg     *config.Config
	service config.ConfigService
	bus     eventbus.EventBus
	logger  zerolog.Logger
	closer  io.Closer
}

func (e *env) Close() error {
	if e.closer == nil {
		return nil
	}
	return e.closer.Close()
}

// loadEnv loads the config, applies flag overrides and sets up logging.
// console receives human-readable logs; nil keeps them in the log file only.
func loadEnv(cmd *cobra.Command, console io.Writer) (*env, error) {
	bus := eventbus.New()
	svc := config.NewConfigServiceWithBus(bus, cfgFile)
	cfg, err := svc.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := applyOverrides(cmd, cfg); err != nil {
		return nil, err
	}

	level := cfg.Logging.Level
	if debug {
		level = "debug"
	}
	logger, closer, err := logging.Setup(logging.Options{
		Level:   level,
		File:    cfg.Logging.File,
		Console: console,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	logger.Debug().Str("config", svc.Path()).Str("topology", cfg.Header.Topology).Msg("configuration resolved")

	return &env{cfg: cfg, service: svc, bus: bus, logger: logger, closer: closer}, nil
}

// applyOverrides copies explicitly set flags over the loaded config
func applyOverrides(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("topology") {
		t, err := domain.ParseTopology(topology)
		if err != nil {
			return fmt.Errorf("--topology: %w", err)
		}
		cfg.Header.Topology = string(t)
	}
	if flags.Changed("dead-zone") {
		if deadZone < 0 {
			return fmt.Errorf("--dead-zone must not be negative, got %v", deadZone)
		}
		cfg.Header.DeadZone = deadZone
	}
	if flags.Changed("log-level") {
		if _, err := logging.ParseLevel(logLevel); err != nil {
			return fmt.Errorf("--log-level: %w", err)
		}
		cfg.Logging.Level = logLevel
	}
	if flags.Changed("log-file") {
		cfg.Logging.File = logFile
	}
	if debug {
		cfg.Demo.Debug = true
	}
	return nil
}

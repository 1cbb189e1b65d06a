// Package cli provides the supportdesk command-line interface.
package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/app"
	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/observability"
)

// CLI output formatters
var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
	infoColor    = color.New(color.FgCyan)
	headerColor  = color.New(color.FgBlue, color.Bold)
)

// runtimeDeps are the hooks the commands use to reach configuration and
// logging; tests replace them.
type runtimeDeps struct {
	loadConfig func() (*config.Config, error)
	newLogger  func(config.LoggerConfig) (*zap.Logger, error)
}

// session is what every subcommand runs against.
type session struct {
	deps   runtimeDeps
	app    *app.App
	logger *zap.Logger

	noColor  bool
	logLevel string
	strict   bool
}

// NewRootCmd creates the supportdesk command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(runtimeDeps{loadConfig: config.Load, newLogger: observability.NewLogger})
}

func newRootCmd(deps runtimeDeps) *cobra.Command {
	s := &session{deps: deps}

	root := &cobra.Command{
		Use:   "supportdesk",
		Short: "Register customers, open tickets and walk them through their lifecycle",
		Long: `supportdesk drives the ticket pipeline from the terminal.

Tickets pass a validation chain before they are created, move through
OPEN, IN_PROGRESS, RESOLVED and CLOSED, and every lifecycle change is
fanned out to the configured notification channels.`,
		SilenceUsage:      true,
		PersistentPreRunE: s.open,
		PersistentPostRun: func(*cobra.Command, []string) { s.close() },
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.runShell(cmd)
		},
	}

	root.PersistentFlags().BoolVar(&s.noColor, "no-color", false, "Disable colored output")
	root.PersistentFlags().StringVar(&s.logLevel, "log-level", "", "Override LOG_LEVEL")
	root.PersistentFlags().BoolVar(&s.strict, "strict", false, "Report illegal status transitions as errors")

	root.AddCommand(newShellCmd(s))
	root.AddCommand(newDemoCmd(s))
	root.AddCommand(newChannelsCmd(s))
	root.AddCommand(newMetricsCmd(s))
	return root
}

func (s *session) open(cmd *cobra.Command, _ []string) error {
	if s.noColor {
		color.NoColor = true
	}

	cfg, err := s.deps.loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if s.logLevel != "" {
		cfg.Logger.Level = s.logLevel
	}
	if s.strict {
		cfg.Lifecycle.StrictTransitions = true
	}

	logger, err := s.deps.newLogger(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	s.logger = logger

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := app.Build(ctx, cfg, logger, cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("failed to start support desk: %w", err)
	}
	s.app = a
	return nil
}

func (s *session) close() {
	if s.app != nil {
		s.app.Close()
	}
	if s.logger != nil {
		_ = s.logger.Sync()
	}
}

func newShellCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive menu (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.runShell(cmd)
		},
	}
}

func (s *session) runShell(cmd *cobra.Command) error {
	return newShell(s.app, cmd.InOrStdin(), cmd.OutOrStdout()).Run(cmd.Context())
}

func newChannelsCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "channels",
		Short: "List registered notification channels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printChannels(cmd.OutOrStdout(), s.app.Notifier.Channels())
			return nil
		},
	}
}

func newMetricsCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Print pipeline counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printMetrics(cmd.OutOrStdout(), s.app.Metrics)
		},
	}
}

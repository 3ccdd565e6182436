package cmd

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zeroprint/waitlist/pkg/form"
	"github.com/zeroprint/waitlist/pkg/logging"
	"github.com/zeroprint/waitlist/pkg/tui"
)

// defaultJoinLogFile keeps log lines off the terminal the form is drawn on
const defaultJoinLogFile = "waitlist.log"

// detectBackground queries the terminal's background color
var detectBackground = lipgloss.HasDarkBackground

var joinCmd = &cobra.Command{
	Use:   "join",
	Short: "Join the waitlist from the terminal",
	Args:  cobra.NoArgs,
	RunE:  runJoin,
}

func init() {
	rootCmd.AddCommand(joinCmd)
}

func runJoin(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logFile := cfg.Log.File
	if logFile == "" {
		logFile = defaultJoinLogFile
	}
	logger, err := logging.New(logging.Options{
		Level:    cfg.Log.Level,
		Encoding: cfg.Log.Encoding,
		File:     logFile,
	})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctrl := form.NewController(newRegistrar(cfg, nil, logger), form.WithLogger(logger))
	defer ctrl.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if _, err := newJoinProgram(ctx, ctrl, logger).Run(); err != nil {
		return fmt.Errorf("error running form: %w", err)
	}
	return nil
}

// newJoinProgram builds the terminal form. The background color is queried
// first so the terminal's OSC 11 reply does not land in an input field.
func newJoinProgram(ctx context.Context, ctrl *form.Controller, logger *zap.Logger) *tea.Program {
	_ = detectBackground()
	return tea.NewProgram(
		tui.New(ctrl, tui.WithContext(ctx), tui.WithLogger(logger)),
		tea.WithContext(ctx),
	)
}

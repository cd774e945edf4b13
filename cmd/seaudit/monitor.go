package main

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rushigerrard8/selinux-policy-auditor/internal/probe"
	"github.com/rushigerrard8/selinux-policy-auditor/internal/tui"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Run the prober with a live terminal view",
	Long: `Run the same workload generator as "probe" with an interactive view
of iteration counts, entry classification, and sample reads.`,
	Args: cobra.NoArgs,
	RunE: runMonitor,
}

func runMonitor(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := probe.DefaultConfig()
	reports := make(chan probe.Report, 16)

	scanner := probe.NewScanner(cfg)
	scanner.SetOutput(io.Discard)
	scanner.SetReportFunc(func(r probe.Report) {
		select {
		case reports <- r:
		case <-ctx.Done():
		}
	})

	go func() {
		scanner.Run(ctx)
		close(reports)
	}()

	model := tui.NewModel(cfg, reports)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}

// Package tui provides a live view of the running prober.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rushigerrard8/selinux-policy-auditor/internal/probe"
)

// Model holds the monitor state.
type Model struct {
	cfg     probe.Config
	reports <-chan probe.Report

	last       *probe.Report
	totals     totals
	started    time.Time
	width      int
	height     int
	quitting   bool
	sourceDone bool
}

type totals struct {
	iterations    uint64
	entriesProbed int64
	samplesOpened int64
	sampleBytes   int64
	dirErrors     int64
}

// NewModel creates a monitor fed by per-iteration reports.
func NewModel(cfg probe.Config, reports <-chan probe.Report) *Model {
	return &Model{
		cfg:     cfg,
		reports: reports,
		started: time.Now(),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.waitForReport
}

type reportMsg probe.Report

type sourceDoneMsg struct{}

func (m *Model) waitForReport() tea.Msg {
	report, ok := <-m.reports
	if !ok {
		return sourceDoneMsg{}
	}
	return reportMsg(report)
}

func (m *Model) helpLine() string {
	return "q: quit"
}

package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rushigerrard8/selinux-policy-auditor/internal/probe"
)

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case reportMsg:
		report := probe.Report(msg)
		m.last = &report
		m.totals.iterations = report.Iteration
		m.totals.entriesProbed += int64(report.EntriesProbed)
		m.totals.samplesOpened += int64(report.SamplesOpened)
		m.totals.sampleBytes += report.SampleBytes
		if report.DirError != "" {
			m.totals.dirErrors++
		}
		return m, m.waitForReport

	case sourceDoneMsg:
		m.sourceDone = true
		return m, tea.Quit
	}

	return m, nil
}

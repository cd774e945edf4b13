package tui

import (
	"fmt"
	"strings"
	"time"
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting || m.sourceDone {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("seaudit - filesystem workload monitor"))
	b.WriteString("\n")

	line := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}

	line("Target", m.cfg.TargetDir)
	line("Interval", m.cfg.Interval.String())
	line("Sample files", FormatCount(int64(len(m.cfg.SampleFiles))))
	line("Elapsed", time.Since(m.started).Round(time.Second).String())
	b.WriteString("\n")

	if m.last == nil {
		b.WriteString(valueStyle.Render("Waiting for first iteration..."))
		b.WriteString("\n")
	} else {
		last := m.last
		line("Iteration", FormatCount(int64(last.Iteration)))
		if last.DirError != "" {
			line("Status", errorStyle.Render("target unavailable: "+last.DirError))
		} else {
			line("Entries probed", FormatCount(int64(last.EntriesProbed)))
			line("Classified", fmt.Sprintf("%s dirs, %s files, %s other",
				countStyle.Render(FormatCount(int64(last.Dirs))),
				countStyle.Render(FormatCount(int64(last.Files))),
				countStyle.Render(FormatCount(int64(last.Others)))))
			if last.ProbeErrors > 0 {
				line("Probe errors", errorStyle.Render(FormatCount(int64(last.ProbeErrors))))
			}
			line("Samples opened", fmt.Sprintf("%s of %s (%s)",
				countStyle.Render(FormatCount(int64(last.SamplesOpened))),
				FormatCount(int64(len(m.cfg.SampleFiles))),
				FormatSize(last.SampleBytes)))
		}
		b.WriteString("\n")

		line("Total entries", FormatCount(m.totals.entriesProbed))
		line("Total samples", fmt.Sprintf("%s (%s)",
			FormatCount(m.totals.samplesOpened), FormatSize(m.totals.sampleBytes)))
		if m.totals.dirErrors > 0 {
			line("Skipped iterations", errorStyle.Render(FormatCount(m.totals.dirErrors)))
		}
	}

	b.WriteString(helpStyle.Render(m.helpLine()))
	b.WriteString("\n")

	return b.String()
}

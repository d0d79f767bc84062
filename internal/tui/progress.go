// internal/tui/progress.go
// Package tui renders live suite progress in the terminal while the
// orchestrator runs on a background goroutine.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mwiater/aquabench/internal/harness"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	configStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	statStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// progressMsg carries one orchestrator progress snapshot into the model.
type progressMsg harness.ProgressUpdate

// suiteDoneMsg signals that the orchestrator goroutine returned.
type suiteDoneMsg struct {
	suite harness.TestSuiteResult
	err   error
}

// suiteModel is the bubbletea model for a running suite.
type suiteModel struct {
	// suiteName labels the header line.
	suiteName string
	// bar is the per-run completion bar.
	bar progress.Model
	// last is the most recent progress snapshot.
	last harness.ProgressUpdate
	// done flips once the orchestrator returns.
	done bool
	// cancel aborts the suite when the user quits early.
	cancel context.CancelFunc
}

func newSuiteModel(suiteName string, cancel context.CancelFunc) suiteModel {
	return suiteModel{
		suiteName: suiteName,
		bar:       progress.New(progress.WithDefaultGradient()),
		cancel:    cancel,
	}
}

func (m suiteModel) Init() tea.Cmd {
	return nil
}

func (m suiteModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancel()
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.bar.Width = msg.Width - 8
		if m.bar.Width > 60 {
			m.bar.Width = 60
		}
		return m, nil
	case progressMsg:
		m.last = harness.ProgressUpdate(msg)
		return m, nil
	case suiteDoneMsg:
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m suiteModel) View() string {
	if m.done {
		return doneStyle.Render(fmt.Sprintf("Suite %q finished.", m.suiteName)) + "\n"
	}
	if m.last.TotalFrames == 0 {
		return titleStyle.Render(fmt.Sprintf("Suite: %s", m.suiteName)) + "\n  starting...\n"
	}

	pct := float64(m.last.FrameIndex) / float64(m.last.TotalFrames)
	header := titleStyle.Render(fmt.Sprintf("Suite: %s", m.suiteName))
	cfg := configStyle.Render(fmt.Sprintf("Config %d/%d  %s  (run %d/%d)",
		m.last.ConfigIndex+1, m.last.ConfigCount, m.last.ConfigName,
		m.last.RunIndex+1, m.last.RepeatCount))
	stats := statStyle.Render(fmt.Sprintf("frame %d/%d   %.1f FPS   GPU %.2fms",
		m.last.FrameIndex, m.last.TotalFrames, m.last.FPS, m.last.GPUTimeMs))

	return fmt.Sprintf("%s\n%s\n  %s\n%s\n\n%s\n",
		header, cfg, m.bar.ViewAs(pct), stats,
		statStyle.Render("press q to abort"))
}

// RunSuite executes the orchestrator under a live terminal UI. The
// orchestrator runs on a background goroutine and streams progress into the
// program; quitting the UI cancels the suite cooperatively so the partial run
// is still finalized.
func RunSuite(ctx context.Context, orch *harness.Orchestrator, suiteName string) (harness.TestSuiteResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(newSuiteModel(suiteName, cancel))

	orch.OnProgress = func(p harness.ProgressUpdate) {
		program.Send(progressMsg(p))
	}

	type result struct {
		suite harness.TestSuiteResult
		err   error
	}
	resultCh := make(chan result, 1)
	go func() {
		suite, err := orch.RunSuite(ctx, suiteName)
		resultCh <- result{suite, err}
		program.Send(suiteDoneMsg{suite, err})
	}()

	if _, err := program.Run(); err != nil {
		cancel()
		res := <-resultCh
		if res.err != nil {
			return res.suite, res.err
		}
		return res.suite, err
	}

	res := <-resultCh
	return res.suite, res.err
}

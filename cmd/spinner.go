package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/bnema/rootbroker/internal/domain"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

type brokerCallDoneMsg struct{}

type brokerSpinnerModel struct {
	spinner spinner.Model
	label   string
	call    tea.Cmd
	done    bool
}

func newBrokerSpinnerModel(label string, call tea.Cmd) brokerSpinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return brokerSpinnerModel{
		spinner: s,
		label:   label,
		call:    call,
	}
}

func (m brokerSpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.call)
}

func (m brokerSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case brokerCallDoneMsg:
		m.done = true
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m brokerSpinnerModel) View() string {
	if m.done {
		return ""
	}

	return fmt.Sprintf("%s %s", m.spinner.View(), m.label)
}

// withSpinner runs call while a spinner is shown on output. The spinner is
// skipped when output is not a terminal or when su may prompt on it.
func withSpinner[T any](ctx context.Context, a *app, output io.Writer, label string, call func(context.Context) domain.Result[T]) domain.Result[T] {
	if !isTerminal(output) || a.settings.Current().Elevation == domain.ElevationSu {
		return call(ctx)
	}

	var res domain.Result[T]
	done := make(chan struct{})
	go func() {
		defer close(done)
		res = call(ctx)
	}()

	waitCmd := func() tea.Msg {
		<-done
		return brokerCallDoneMsg{}
	}

	p := tea.NewProgram(
		newBrokerSpinnerModel(label, waitCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	if _, err := p.Run(); err != nil {
		a.logger.Debug("spinner stopped early", zap.Error(err))
	}

	<-done
	return res
}
